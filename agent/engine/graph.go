package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/tmaharjan/voxcore/agent/contract"
	statex "github.com/tmaharjan/voxcore/agent/state"
)

// graphState threads one invocation through the pipeline.
type graphState struct {
	Call          contractx.ToolCall
	Session       *statex.Session
	PersonaBefore statex.Persona
	Reply         string
}

func (e *Engine) compileToolGraph(ctx context.Context) (compose.Runnable[contractx.ToolCall, contractx.ToolReply], error) {
	graph := compose.NewGraph[contractx.ToolCall, contractx.ToolReply]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in contractx.ToolCall) (*graphState, error) {
			return validateRequest(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("resolve_session",
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (*graphState, error) {
			return e.resolveSession(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node resolve_session: %w", err)
	}

	if err := graph.AddLambdaNode("dispatch_tool",
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (*graphState, error) {
			return e.dispatchTool(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node dispatch_tool: %w", err)
	}

	if err := graph.AddLambdaNode("switch_persona",
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (*graphState, error) {
			return e.switchPersona(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node switch_persona: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (contractx.ToolReply, error) {
			return finalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "resolve_session"},
		{"resolve_session", "dispatch_tool"},
		{"dispatch_tool", "switch_persona"},
		{"switch_persona", "finalize_reply"},
		{"finalize_reply", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("engine.handle_tool"))
	if err != nil {
		return nil, fmt.Errorf("compile tool graph: %w", err)
	}
	return runner, nil
}

func validateRequest(in contractx.ToolCall) (*graphState, error) {
	in.SessionID = strings.TrimSpace(in.SessionID)
	in.Tool = strings.TrimSpace(in.Tool)

	if in.SessionID == "" {
		return nil, fmt.Errorf("%w: session id is empty", contractx.ErrValidation)
	}
	if in.Tool == "" {
		return nil, fmt.Errorf("%w: tool name is empty", contractx.ErrValidation)
	}

	return &graphState{Call: in}, nil
}

func (e *Engine) resolveSession(in *graphState) (*graphState, error) {
	entry, err := e.lookup(in.Call.SessionID)
	if err != nil {
		return nil, err
	}

	// The caller already holds the session's serialization lock.
	in.Session = entry.sess
	in.PersonaBefore = entry.sess.Persona
	return in, nil
}

func (e *Engine) dispatchTool(ctx context.Context, in *graphState) (*graphState, error) {
	reply, err := e.registry.Dispatch(ctx, in.Session, in.Call.Tool, in.Call.Args)
	if err != nil {
		return nil, err
	}
	in.Reply = reply
	return in, nil
}

// switchPersona reconciles the voice collaborator with the persona the tool
// left on the session. State already transitioned at this point; a missing
// collaborator downgrades the switch to a note in the reply, never an error.
func (e *Engine) switchPersona(in *graphState) (*graphState, error) {
	if in.Session.Persona == in.PersonaBefore {
		return in, nil
	}

	if !e.voice.Ready() {
		log.Warn().
			Str("session_id", in.Session.ID).
			Str("voice_id", in.Session.Persona.VoiceID).
			Msg("persona switch skipped, voice session not ready")
		in.Reply += " (Persona switch unavailable; continuing with the current voice.)"
		return in, nil
	}

	e.voice.SwitchPersona(in.Session.Persona)
	return in, nil
}

func finalizeReply(in *graphState) (contractx.ToolReply, error) {
	reply := strings.TrimSpace(in.Reply)
	if reply == "" {
		return contractx.ToolReply{}, fmt.Errorf("%w: tool produced an empty reply", contractx.ErrValidation)
	}
	return contractx.ToolReply{Text: reply}, nil
}
