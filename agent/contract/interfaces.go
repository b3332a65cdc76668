package contract

import (
	"context"

	statex "github.com/tmaharjan/voxcore/agent/state"
)

// LeadSink commits finalized lead records to a durable collection.
// Implementations must tolerate a missing or corrupt existing collection by
// treating it as empty, and must keep the collection append-only.
type LeadSink interface {
	Commit(ctx context.Context, rec statex.LeadRecord) error
}

// VoiceSession is the hosting runtime's voice collaborator. SwitchPersona is
// fire-and-forget; the engine never consumes a return value from it. When
// Ready reports false the engine still transitions state and generates
// instruction text, but reports the skipped switch in the reply.
type VoiceSession interface {
	Ready() bool
	SwitchPersona(p statex.Persona)
}

// Notifier publishes a fire-and-forget event to an external endpoint.
// Failures are logged, never surfaced to the conversation.
type Notifier interface {
	Publish(ctx context.Context, event string, payload any) error
}
