package state

import (
	"errors"
	"fmt"
)

// EffectKind discriminates the tagged Effect variant.
type EffectKind string

const (
	EffectAddInventory EffectKind = "add_inventory"
	EffectAddJournal   EffectKind = "add_journal"
	EffectSetField     EffectKind = "set_field"
)

// Lead profile field names accepted by set-field effects.
const (
	FieldName     = "name"
	FieldCompany  = "company"
	FieldEmail    = "email"
	FieldRole     = "role"
	FieldUseCase  = "use_case"
	FieldTeamSize = "team_size"
	FieldTimeline = "timeline"
)

var (
	ErrUnknownEffect = errors.New("unknown effect kind")
	ErrUnknownField  = errors.New("unknown profile field")
)

// Effect is an atomic mutation applied to exactly one aspect of a session:
// the inventory, the journal, or a single named profile field.
type Effect struct {
	Kind  EffectKind `json:"kind"`
	Item  string     `json:"item,omitempty"`
	Entry string     `json:"entry,omitempty"`
	Field string     `json:"field,omitempty"`
	Value string     `json:"value,omitempty"`
}

func AddInventory(item string) Effect {
	return Effect{Kind: EffectAddInventory, Item: item}
}

func AddJournal(entry string) Effect {
	return Effect{Kind: EffectAddJournal, Entry: entry}
}

func SetField(field, value string) Effect {
	return Effect{Kind: EffectSetField, Field: field, Value: value}
}

// ApplyEffect mutates the session according to the effect. Deterministic:
// the same effect against the same state always produces the same state.
func ApplyEffect(s *Session, e Effect) error {
	if s == nil {
		return errors.New("nil session")
	}

	switch e.Kind {
	case EffectAddInventory:
		if s.Player == nil {
			return ErrNoPlayerState
		}
		s.Player.AddInventory(e.Item)
		return nil

	case EffectAddJournal:
		if s.Player == nil {
			return ErrNoPlayerState
		}
		s.Player.AddJournal(e.Entry)
		return nil

	case EffectSetField:
		if s.Lead == nil {
			return ErrNoLeadProfile
		}
		return setProfileField(s.Lead, e.Field, e.Value)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownEffect, e.Kind)
	}
}

// ApplyEffects applies effects in order, stopping at the first failure.
func ApplyEffects(s *Session, effects []Effect) error {
	for _, e := range effects {
		if err := ApplyEffect(s, e); err != nil {
			return err
		}
	}
	return nil
}

func setProfileField(p *LeadProfile, field, value string) error {
	switch field {
	case FieldName:
		p.Name = value
	case FieldCompany:
		p.Company = value
	case FieldEmail:
		p.Email = value
	case FieldRole:
		p.Role = value
	case FieldUseCase:
		p.UseCase = value
	case FieldTeamSize:
		p.TeamSize = value
	case FieldTimeline:
		p.Timeline = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}
