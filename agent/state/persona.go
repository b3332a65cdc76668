package state

// Persona is the voice identity applied by the hosting runtime. The engine
// only derives the descriptor; rendering happens outside.
type Persona struct {
	VoiceID string `json:"voice_id"`
	Style   string `json:"style"`
}

const (
	StylePromotional    = "promotional"
	StyleConversational = "conversational"
)

var personaByMode = map[Mode]Persona{
	ModeLearn:     {VoiceID: "en-US-natalie", Style: StylePromotional},
	ModeQuiz:      {VoiceID: "en-US-miles", Style: StyleConversational},
	ModeTeachBack: {VoiceID: "en-US-amara", Style: StylePromotional},
}

// PersonaFor maps a tutoring mode to its voice persona. Pure lookup.
func PersonaFor(m Mode) (Persona, bool) {
	p, ok := personaByMode[m]
	return p, ok
}
