package tool

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	statex "github.com/tmaharjan/voxcore/agent/state"
)

func sdrToolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolUpdateProfile,
			Desc: "Record newly learned lead details. Pass only the fields the customer just provided; omitted fields stay untouched.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"name":      {Type: schema.String, Desc: "Customer's name"},
				"company":   {Type: schema.String, Desc: "Customer's company name"},
				"email":     {Type: schema.String, Desc: "Customer's email address"},
				"role":      {Type: schema.String, Desc: "Customer's job title"},
				"use_case":  {Type: schema.String, Desc: "What they want to use the internet for"},
				"team_size": {Type: schema.String, Desc: "Number of people in their team"},
				"timeline":  {Type: schema.String, Desc: "When they want to start (e.g. now, next month)"},
			}),
		},
		{
			Name:        ToolSubmitAndClose,
			Desc:        "Submit the collected lead profile and wrap up the call. Call once the customer is done.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
	}
}

// updateProfile applies a set-field effect per provided argument. Partial
// input never fails: absent fields are simply skipped.
func (r *Registry) updateProfile(ctx context.Context, sess *statex.Session, args map[string]any) (string, error) {
	patch := statex.ProfilePatch{}
	for _, f := range []struct {
		name string
		dst  **string
	}{
		{"name", &patch.Name},
		{"company", &patch.Company},
		{"email", &patch.Email},
		{"role", &patch.Role},
		{"use_case", &patch.UseCase},
		{"team_size", &patch.TeamSize},
		{"timeline", &patch.Timeline},
	} {
		v, err := stringArg(args, f.name)
		if err != nil {
			return err.Error(), nil
		}
		*f.dst = optional(v)
	}

	if err := statex.ApplyEffects(sess, patch.Effects()); err != nil {
		return "", err
	}

	log.Debug().
		Str("session_id", sess.ID).
		Bool("qualified", sess.Lead.Qualified()).
		Msg("lead profile updated")

	return "Lead profile updated. Continue the conversation.", nil
}

// submitAndClose commits the profile snapshot regardless of qualification;
// the gate is advisory and enforced (or not) by the conversational layer.
func (r *Registry) submitAndClose(ctx context.Context, sess *statex.Session, _ map[string]any) (string, error) {
	if sess.Lead == nil {
		return "", statex.ErrNoLeadProfile
	}

	rec := sess.Lead.Record(r.now())
	if err := r.leads.Commit(ctx, rec); err != nil {
		return "", fmt.Errorf("commit lead: %w", err)
	}

	if r.notify != nil {
		if err := r.notify.Publish(ctx, "lead.committed", rec); err != nil {
			log.Warn().Err(err).Str("session_id", sess.ID).Msg("lead notification failed")
		}
	}

	return fmt.Sprintf(
		"Lead saved. Summarize the call for the user: 'Thanks %s, I have your info regarding %s. We will email you at %s. Goodbye!'",
		sess.Lead.Name, sess.Lead.UseCase, sess.Lead.Email,
	), nil
}
