package prompt

import (
	_ "embed"
	"strings"

	statex "github.com/tmaharjan/voxcore/agent/state"
)

var (
	//go:embed template/sdr.txt
	sdrRaw string

	//go:embed template/tutor.txt
	tutorRaw string

	//go:embed template/story.txt
	storyRaw string
)

const faqPlaceholder = "{{FAQ}}"

// PromptSet holds loaded prompt content, one system prompt per session flavor.
type PromptSet struct {
	SDR   string
	Tutor string
	Story string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
// This is safe to call concurrently; the embed is compile-time, and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		SDR:   strings.TrimSpace(sdrRaw),
		Tutor: strings.TrimSpace(tutorRaw),
		Story: strings.TrimSpace(storyRaw),
	}
}

// For selects the prompt for a flavor. faqJSON is spliced into the SDR prompt
// and ignored by the other flavors.
func (p PromptSet) For(f statex.Flavor, faqJSON string) string {
	switch f {
	case statex.FlavorSDR:
		return strings.ReplaceAll(p.SDR, faqPlaceholder, faqJSON)
	case statex.FlavorTutor:
		return p.Tutor
	case statex.FlavorStory:
		return p.Story
	default:
		return ""
	}
}
