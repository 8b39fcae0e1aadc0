package decisionboard

import (
	"sort"
	"sync"
)

// Board collects the final decision of every general. Generals publish
// from their own goroutines.
type Board struct {
	data sync.Map
}

// Entry is what one general reported.
type Entry struct {
	ID       int
	Decision bool
	Faulty   bool
	Messages int
}

func NewBoard() *Board {
	return &Board{}
}

// Publish stores the entry of one general, replacing any earlier one.
func (b *Board) Publish(e Entry) {
	b.data.Store(e.ID, e)
}

// List returns every entry ordered by id.
func (b *Board) List() []Entry {
	var items []Entry
	b.data.Range(func(_, value interface{}) bool {
		items = append(items, value.(Entry))
		return true
	})
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// Agreement reports whether every non-faulty entry other than exclude
// carries the same decision, and which decision that is.
func (b *Board) Agreement(exclude ...int) (bool, bool) {
	skip := make(map[int]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}
	var (
		first    bool
		seen     bool
		agreeing = true
	)
	for _, e := range b.List() {
		if e.Faulty || skip[e.ID] {
			continue
		}
		if !seen {
			first, seen = e.Decision, true
			continue
		}
		if e.Decision != first {
			agreeing = false
		}
	}
	return agreeing, first
}
