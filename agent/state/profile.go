package state

import (
	"strings"
	"time"
)

// LeadProfile accumulates qualification data over the conversation. Fields are
// monotone-set: a tool call may overwrite a field with a new value, but a call
// that omits a field never clears it.
type LeadProfile struct {
	Name     string `json:"name,omitempty"`
	Company  string `json:"company,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	UseCase  string `json:"use_case,omitempty"`
	TeamSize string `json:"team_size,omitempty"`
	Timeline string `json:"timeline,omitempty"`
}

// Qualified reports whether the minimum info (name + email + use case) is
// present. This is advisory: nothing in the engine blocks an unqualified
// submit, the decision sits with the conversational layer.
func (p *LeadProfile) Qualified() bool {
	if p == nil {
		return false
	}
	return p.Name != "" && p.Email != "" && p.UseCase != ""
}

// ProfilePatch is an explicit partial update: nil means leave the field
// unchanged. Blank or whitespace-only values are treated as absent.
type ProfilePatch struct {
	Name     *string
	Company  *string
	Email    *string
	Role     *string
	UseCase  *string
	TeamSize *string
	Timeline *string
}

// Effects expands the patch into ordered set-field effects, one per provided
// field. Absent and blank fields produce no effect.
func (p ProfilePatch) Effects() []Effect {
	fields := []struct {
		name  string
		value *string
	}{
		{FieldName, p.Name},
		{FieldCompany, p.Company},
		{FieldEmail, p.Email},
		{FieldRole, p.Role},
		{FieldUseCase, p.UseCase},
		{FieldTeamSize, p.TeamSize},
		{FieldTimeline, p.Timeline},
	}

	var effects []Effect
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		v := strings.TrimSpace(*f.value)
		if v == "" {
			continue
		}
		effects = append(effects, SetField(f.name, v))
	}
	return effects
}

// LeadRecord is the immutable snapshot committed to the leads collection.
type LeadRecord struct {
	Name      string `json:"name"`
	Company   string `json:"company"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	UseCase   string `json:"use_case"`
	TeamSize  string `json:"team_size"`
	Timeline  string `json:"timeline"`
	Timestamp string `json:"timestamp"`
}

// Record stamps the profile with a commit timestamp.
func (p *LeadProfile) Record(now time.Time) LeadRecord {
	return LeadRecord{
		Name:      p.Name,
		Company:   p.Company,
		Email:     p.Email,
		Role:      p.Role,
		UseCase:   p.UseCase,
		TeamSize:  p.TeamSize,
		Timeline:  p.Timeline,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}
