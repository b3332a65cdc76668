package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	contentx "github.com/tmaharjan/voxcore/agent/content"
	contractx "github.com/tmaharjan/voxcore/agent/contract"
	statex "github.com/tmaharjan/voxcore/agent/state"
)

// Tool names as declared to the function-calling layer.
const (
	ToolUpdateProfile    = "update_profile"
	ToolSubmitAndClose   = "submit_and_close"
	ToolSelectTopic      = "select_topic"
	ToolSetMode          = "set_mode"
	ToolEvaluateTeaching = "evaluate_teaching"
	ToolChoose           = "choose"
)

// Handler applies one tool invocation to a session and returns the reply
// text. Recoverable caller mistakes come back as text; a non-nil error means
// infrastructure failure, never bad input.
type Handler func(ctx context.Context, sess *statex.Session, args map[string]any) (string, error)

// Registry is the explicit tool schema registry: every tool is declared once
// with its typed argument schema and bound to a handler. Dispatch validates
// flavor availability and argument shape before any state mutates.
type Registry struct {
	topics contentx.TopicTable
	world  contentx.World
	leads  contractx.LeadSink
	notify contractx.Notifier
	now    func() time.Time

	handlers      map[string]Handler
	infosByFlavor map[statex.Flavor][]*schema.ToolInfo
}

func NewRegistry(bundle *contentx.Bundle, leads contractx.LeadSink, notify contractx.Notifier, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}

	r := &Registry{
		topics: bundle.Topics,
		world:  bundle.World,
		leads:  leads,
		notify: notify,
		now:    now,
	}

	r.handlers = map[string]Handler{
		ToolUpdateProfile:    r.updateProfile,
		ToolSubmitAndClose:   r.submitAndClose,
		ToolSelectTopic:      r.selectTopic,
		ToolSetMode:          r.setMode,
		ToolEvaluateTeaching: r.evaluateTeaching,
		ToolChoose:           r.choose,
	}

	r.infosByFlavor = map[statex.Flavor][]*schema.ToolInfo{
		statex.FlavorSDR:   sdrToolInfos(),
		statex.FlavorTutor: tutorToolInfos(),
		statex.FlavorStory: storyToolInfos(),
	}

	return r
}

// InfosFor declares the tools available to a session flavor, for the external
// model to read.
func (r *Registry) InfosFor(f statex.Flavor) []*schema.ToolInfo {
	return r.infosByFlavor[f]
}

// Dispatch validates and applies a single tool invocation. The caller must
// hold the session's serialization lock.
func (r *Registry) Dispatch(ctx context.Context, sess *statex.Session, tool string, args map[string]any) (string, error) {
	if sess == nil {
		return "", fmt.Errorf("%w: nil session", contractx.ErrValidation)
	}

	tool = strings.TrimSpace(tool)
	if !r.availableFor(sess.Flavor, tool) {
		return fmt.Sprintf("tool=%s is unavailable for %s sessions", tool, sess.Flavor), nil
	}

	reply, err := r.handlers[tool](ctx, sess, args)
	if err != nil {
		return "", err
	}

	sess.Touch(r.now())
	return reply, nil
}

func (r *Registry) availableFor(f statex.Flavor, tool string) bool {
	for _, info := range r.infosByFlavor[f] {
		if info.Name == tool {
			return true
		}
	}
	return false
}

// stringArg reads an optional string argument. Absent and null both mean
// "not provided"; a present value of any other type is a shape violation the
// caller hears about as reply text.
func stringArg(args map[string]any, name string) (string, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string", name)
	}
	return strings.TrimSpace(s), nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
