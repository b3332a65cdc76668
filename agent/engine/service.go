// Package engine owns the session lifecycle and runs every tool invocation
// through a compiled pipeline: validate, resolve the session, dispatch the
// tool, reconcile the persona with the voice collaborator, finalize the reply.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tmaharjan/voxcore/agent/contract"
	statex "github.com/tmaharjan/voxcore/agent/state"
	toolx "github.com/tmaharjan/voxcore/agent/tool"
)

// sessionEntry pairs a session with the mutex that serializes every
// invocation touching it. Concurrent calls against the same session queue;
// calls against different sessions run freely.
type sessionEntry struct {
	mu   sync.Mutex
	sess *statex.Session
}

type Engine struct {
	registry   *toolx.Registry
	voice      contractx.VoiceSession
	entryScene string
	now        func() time.Time

	mu       sync.RWMutex
	sessions map[string]*sessionEntry

	runner compose.Runnable[contractx.ToolCall, contractx.ToolReply]
}

func New(ctx context.Context, registry *toolx.Registry, voice contractx.VoiceSession, entryScene string, now func() time.Time) (*Engine, error) {
	if registry == nil {
		return nil, errors.New("tool registry is required")
	}
	if voice == nil {
		return nil, errors.New("voice session is required")
	}
	if now == nil {
		now = time.Now
	}

	e := &Engine{
		registry:   registry,
		voice:      voice,
		entryScene: entryScene,
		now:        now,
		sessions:   make(map[string]*sessionEntry),
	}

	runner, err := e.compileToolGraph(ctx)
	if err != nil {
		return nil, err
	}
	e.runner = runner
	return e, nil
}

// CreateSession registers a new session of the given flavor under the given
// id. Story sessions start at the configured entry scene.
func (e *Engine) CreateSession(id string, flavor statex.Flavor) (*statex.Session, error) {
	sess, err := statex.NewSession(id, flavor, e.entryScene, e.now())
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.sessions[sess.ID]; exists {
		return nil, fmt.Errorf("%w: id=%s", contractx.ErrSessionExists, sess.ID)
	}
	e.sessions[sess.ID] = &sessionEntry{sess: sess}

	log.Info().Str("session_id", sess.ID).Str("flavor", string(flavor)).Msg("session created")
	return sess.Clone(), nil
}

// Snapshot returns a copy of the session for read-only inspection.
func (e *Engine) Snapshot(id string) (*statex.Session, error) {
	entry, err := e.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.sess.Clone(), nil
}

// EndSession discards the session. Per-session state never outlives the
// conversation; only committed lead records do.
func (e *Engine) EndSession(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.sessions[id]; !ok {
		return fmt.Errorf("%w: id=%s", contractx.ErrSessionNotFound, id)
	}
	delete(e.sessions, id)
	return nil
}

// ToolsFor declares the tool schemas available to the session's flavor.
func (e *Engine) ToolsFor(id string) ([]*schema.ToolInfo, error) {
	entry, err := e.lookup(id)
	if err != nil {
		return nil, err
	}
	return e.registry.InfosFor(entry.sess.Flavor), nil
}

// HandleTool applies one tool invocation. Invocations against the same
// session are serialized; each runs to completion before the next starts.
func (e *Engine) HandleTool(ctx context.Context, call contractx.ToolCall) (contractx.ToolReply, error) {
	entry, err := e.lookup(call.SessionID)
	if err != nil {
		return contractx.ToolReply{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return e.runner.Invoke(ctx, call)
}

func (e *Engine) lookup(id string) (*sessionEntry, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	entry, ok := e.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%s", contractx.ErrSessionNotFound, id)
	}
	return entry, nil
}
