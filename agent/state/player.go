package state

// PlayerState tracks a playthrough of the scene graph.
//
// Inventory has set semantics (adding an item twice is a no-op); Journal is
// append-only and keeps duplicates in chronological order.
type PlayerState struct {
	SceneID   string   `json:"scene_id"`
	Inventory []string `json:"inventory,omitempty"`
	Journal   []string `json:"journal,omitempty"`
}

func NewPlayerState(entryScene string) *PlayerState {
	return &PlayerState{SceneID: entryScene}
}

// AddInventory adds an item id, reporting whether the inventory changed.
func (p *PlayerState) AddInventory(item string) bool {
	for _, have := range p.Inventory {
		if have == item {
			return false
		}
	}
	p.Inventory = append(p.Inventory, item)
	return true
}

// AddJournal appends an entry. Every call adds one, even for repeated text.
func (p *PlayerState) AddJournal(entry string) {
	p.Journal = append(p.Journal, entry)
}

func (p *PlayerState) HasItem(item string) bool {
	for _, have := range p.Inventory {
		if have == item {
			return true
		}
	}
	return false
}
