package content

import (
	"strings"

	statex "github.com/tmaharjan/voxcore/agent/state"
)

// FAQEntry is one question/answer pair surfaced to the model prompt.
type FAQEntry struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// Topic is one entry of the tutoring knowledge base. Immutable once loaded.
type Topic struct {
	ID             string `json:"id" yaml:"id"`
	Title          string `json:"title" yaml:"title"`
	Summary        string `json:"summary" yaml:"summary"`
	SampleQuestion string `json:"sample_question" yaml:"sample_question"`
}

// TopicTable is the loaded topic collection: keyed by lowercase id for
// lookup, with document order preserved for listing.
type TopicTable struct {
	order []string
	byID  map[string]Topic
}

func NewTopicTable(topics []Topic) TopicTable {
	t := TopicTable{byID: make(map[string]Topic, len(topics))}
	for _, topic := range topics {
		key := strings.ToLower(strings.TrimSpace(topic.ID))
		if key == "" {
			continue
		}
		if _, dup := t.byID[key]; !dup {
			t.order = append(t.order, topic.ID)
		}
		t.byID[key] = topic
	}
	return t
}

// Get resolves a topic id case-insensitively.
func (t TopicTable) Get(id string) (Topic, bool) {
	topic, ok := t.byID[strings.ToLower(strings.TrimSpace(id))]
	return topic, ok
}

// IDs lists topic ids in document order.
func (t TopicTable) IDs() []string {
	return append([]string(nil), t.order...)
}

func (t TopicTable) Len() int {
	return len(t.byID)
}

// SceneEffect is the wire form of a choice effect: exactly one of the keys is
// expected per element, but an element carrying both expands in declaration
// order (inventory before journal).
type SceneEffect struct {
	AddInventory string `json:"add_inventory,omitempty" yaml:"add_inventory,omitempty"`
	AddJournal   string `json:"add_journal,omitempty" yaml:"add_journal,omitempty"`
}

// Choice is a named transition to another scene, optionally carrying effects.
type Choice struct {
	Desc        string        `json:"desc" yaml:"desc"`
	ResultScene string        `json:"result_scene" yaml:"result_scene"`
	Effects     []SceneEffect `json:"effects,omitempty" yaml:"effects,omitempty"`
}

// Effects expands the wire effects into the tagged variant applied by the
// state layer, preserving document order.
func (c Choice) StateEffects() []statex.Effect {
	var out []statex.Effect
	for _, e := range c.Effects {
		if e.AddInventory != "" {
			out = append(out, statex.AddInventory(e.AddInventory))
		}
		if e.AddJournal != "" {
			out = append(out, statex.AddJournal(e.AddJournal))
		}
	}
	return out
}

// Scene is a discrete narrative state.
type Scene struct {
	Title   string            `json:"title" yaml:"title"`
	Desc    string            `json:"desc" yaml:"desc"`
	Choices map[string]Choice `json:"choices" yaml:"choices"`
}

// World maps scene id to scene. Read-only after load; safe to share across
// sessions without locking.
type World map[string]Scene

// Bundle is the full content set loaded once at startup and passed down
// explicitly; there is no ambient content global.
type Bundle struct {
	FAQ        []FAQEntry
	Topics     TopicTable
	World      World
	EntryScene string
}
