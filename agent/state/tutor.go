package state

import "strings"

// Mode is the tutoring interaction mode. Any mode is reachable from any mode.
type Mode string

const (
	ModeLearn     Mode = "learn"
	ModeQuiz      Mode = "quiz"
	ModeTeachBack Mode = "teach_back"
)

// TutorState tracks the selected topic and the active mode. TopicID is either
// empty or resolves against the loaded topic table; resolution happens at the
// tool boundary so the state stays a plain record.
type TutorState struct {
	TopicID string `json:"topic_id,omitempty"`
	Mode    Mode   `json:"mode"`
}

func NewTutorState() *TutorState {
	return &TutorState{Mode: ModeLearn}
}

// ParseMode normalizes case and whitespace. Unknown values report false and
// must not mutate anything.
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeLearn:
		return ModeLearn, true
	case ModeQuiz:
		return ModeQuiz, true
	case ModeTeachBack:
		return ModeTeachBack, true
	default:
		return "", false
	}
}

// Modes lists the valid tutoring modes in display order.
func Modes() []Mode {
	return []Mode{ModeLearn, ModeQuiz, ModeTeachBack}
}
