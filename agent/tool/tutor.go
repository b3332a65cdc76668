package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	statex "github.com/tmaharjan/voxcore/agent/state"
)

func tutorToolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolSelectTopic,
			Desc: "Select the networking topic the learner wants to study.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"topic_id": {Type: schema.String, Desc: "Topic id, e.g. dns or osi_model", Required: true},
			}),
		},
		{
			Name: ToolSetMode,
			Desc: "Switch the tutoring mode: learn, quiz, or teach_back.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"mode": {Type: schema.String, Desc: "One of learn, quiz, teach_back", Required: true},
			}),
		},
		{
			Name: ToolEvaluateTeaching,
			Desc: "Forward the learner's own explanation of the topic for grading.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"explanation": {Type: schema.String, Desc: "The learner's explanation, verbatim", Required: true},
			}),
		},
	}
}

// selectTopic resolves the id case-insensitively. An unknown id is a
// user-facing miss, answered with the full list of valid ids and no mutation.
func (r *Registry) selectTopic(ctx context.Context, sess *statex.Session, args map[string]any) (string, error) {
	if sess.Tutor == nil {
		return "", statex.ErrNoTutorState
	}

	id, err := stringArg(args, "topic_id")
	if err != nil {
		return err.Error(), nil
	}

	topic, ok := r.topics.Get(id)
	if !ok {
		return fmt.Sprintf("Unknown topic %q. Valid topic ids: %s.", id, strings.Join(r.topics.IDs(), ", ")), nil
	}

	sess.Tutor.TopicID = topic.ID
	return fmt.Sprintf("Topic set to %s. Ask the learner whether they want learn, quiz, or teach_back mode.", topic.Title), nil
}

// setMode normalizes and validates the mode, then derives the persona for the
// new mode. Invalid modes leave the session untouched.
func (r *Registry) setMode(ctx context.Context, sess *statex.Session, args map[string]any) (string, error) {
	if sess.Tutor == nil {
		return "", statex.ErrNoTutorState
	}

	raw, err := stringArg(args, "mode")
	if err != nil {
		return err.Error(), nil
	}

	mode, ok := statex.ParseMode(raw)
	if !ok {
		return fmt.Sprintf("Invalid mode %q. Valid modes: learn, quiz, teach_back.", raw), nil
	}

	sess.Tutor.Mode = mode
	if p, ok := statex.PersonaFor(mode); ok {
		sess.Persona = p
	}

	topic, hasTopic := r.topics.Get(sess.Tutor.TopicID)
	if !hasTopic {
		return fmt.Sprintf("Mode set to %s. No topic is selected yet; ask the learner to pick one.", mode), nil
	}

	switch mode {
	case statex.ModeQuiz:
		return fmt.Sprintf("Mode set to quiz. Ask the learner this question: %s", topic.SampleQuestion), nil
	case statex.ModeTeachBack:
		return fmt.Sprintf("Mode set to teach_back. Ask the learner to explain %s in their own words.", topic.Title), nil
	default:
		return fmt.Sprintf("Mode set to learn. Explain this to the learner: %s", topic.Summary), nil
	}
}

// evaluateTeaching is a stateless pass-through: the engine never grades, it
// just hands the explanation back with grading instructions.
func (r *Registry) evaluateTeaching(ctx context.Context, sess *statex.Session, args map[string]any) (string, error) {
	explanation, err := stringArg(args, "explanation")
	if err != nil {
		return err.Error(), nil
	}
	if explanation == "" {
		return "The learner has not explained anything yet. Ask them to explain the topic in their own words.", nil
	}

	return fmt.Sprintf("Grade this explanation out of 10 and give corrections for anything wrong or missing: %q", explanation), nil
}
