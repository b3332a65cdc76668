// Package voice holds engine-side stand-ins for the hosting runtime's voice
// collaborator. The real collaborator lives outside this repository; the
// engine only ever asks for readiness and fires persona switches at it.
package voice

import (
	"github.com/rs/zerolog/log"

	statex "github.com/tmaharjan/voxcore/agent/state"
)

// Unattached is the collaborator used when no voice session is available.
// Persona switches degrade: state still transitions, the switch is skipped.
type Unattached struct{}

func (Unattached) Ready() bool { return false }

func (Unattached) SwitchPersona(statex.Persona) {}

// Logging reports persona switches to the log. Used in local runs where no
// real voice runtime is attached but the switch path should be observable.
type Logging struct{}

func (Logging) Ready() bool { return true }

func (Logging) SwitchPersona(p statex.Persona) {
	log.Info().Str("voice_id", p.VoiceID).Str("style", p.Style).Msg("persona switch requested")
}
