package state

import (
	"errors"
	"strings"
	"time"
)

// Flavor selects which mutable record a session owns. A session carries
// exactly one of LeadProfile, TutorState, or PlayerState for its whole life.
type Flavor string

const (
	FlavorSDR   Flavor = "sdr"
	FlavorTutor Flavor = "tutor"
	FlavorStory Flavor = "story"
)

var (
	ErrInvalidSession = errors.New("session id is empty")
	ErrInvalidFlavor  = errors.New("unknown session flavor")
	ErrNoLeadProfile  = errors.New("session has no lead profile")
	ErrNoPlayerState  = errors.New("session has no player state")
	ErrNoTutorState   = errors.New("session has no tutor state")
)

// Session is the per-conversation record. It is exclusively owned by one
// conversation and discarded at conversation end; only committed lead records
// outlive it.
type Session struct {
	ID     string `json:"id"`
	RoomID string `json:"room_id,omitempty"`
	Flavor Flavor `json:"flavor"`

	Lead   *LeadProfile `json:"lead,omitempty"`
	Tutor  *TutorState  `json:"tutor,omitempty"`
	Player *PlayerState `json:"player,omitempty"`

	// Persona currently active for the conversation. Derived from the tutor
	// mode; the actual voice switch happens in the hosting runtime.
	Persona Persona `json:"persona"`

	UpdatedAt time.Time `json:"updated_at"`
}

func ParseFlavor(s string) (Flavor, bool) {
	switch Flavor(strings.ToLower(strings.TrimSpace(s))) {
	case FlavorSDR:
		return FlavorSDR, true
	case FlavorTutor:
		return FlavorTutor, true
	case FlavorStory:
		return FlavorStory, true
	default:
		return "", false
	}
}

// NewSession creates an empty session of the given flavor. entryScene is only
// consulted for story sessions and names the scene the player starts in.
func NewSession(id string, flavor Flavor, entryScene string, now time.Time) (*Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidSession
	}

	s := &Session{
		ID:        id,
		Flavor:    flavor,
		UpdatedAt: now.UTC(),
	}

	switch flavor {
	case FlavorSDR:
		s.Lead = &LeadProfile{}
	case FlavorTutor:
		s.Tutor = NewTutorState()
		if p, ok := PersonaFor(s.Tutor.Mode); ok {
			s.Persona = p
		}
	case FlavorStory:
		s.Player = NewPlayerState(entryScene)
	default:
		return nil, ErrInvalidFlavor
	}

	return s, nil
}

func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// Clone returns a deep copy safe to hand out while the original keeps
// mutating under its owner's lock.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.Lead != nil {
		lead := *s.Lead
		out.Lead = &lead
	}
	if s.Tutor != nil {
		tutor := *s.Tutor
		out.Tutor = &tutor
	}
	if s.Player != nil {
		player := *s.Player
		player.Inventory = append([]string(nil), s.Player.Inventory...)
		player.Journal = append([]string(nil), s.Player.Journal...)
		out.Player = &player
	}
	return &out
}
