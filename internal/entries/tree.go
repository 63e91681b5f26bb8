package entries

import "fmt"

// Tree is a project's entry collection: an insertion-ordered mapping from
// opaque entry ids to entry values. Ids are generated by the service layer
// and never reused after deletion.
type Tree struct {
	entries *Map
}

func NewTree() *Tree {
	return &Tree{entries: NewMap()}
}

func (t *Tree) Len() int {
	if t == nil || t.entries == nil {
		return 0
	}
	return t.entries.Len()
}

// Add inserts a new entry at the end of the insertion order. Adding an id
// that already exists replaces its value without moving it.
func (t *Tree) Add(id string, value any) {
	if t.entries == nil {
		t.entries = NewMap()
	}
	t.entries.Set(id, value)
}

func (t *Tree) Get(id string) (any, bool) {
	if t == nil || t.entries == nil {
		return nil, false
	}
	return t.entries.Get(id)
}

// Replace swaps the value stored at an existing id wholesale. Returns false
// when the id is unknown; it never inserts.
func (t *Tree) Replace(id string, value any) bool {
	if t == nil || t.entries == nil {
		return false
	}
	if _, ok := t.entries.Get(id); !ok {
		return false
	}
	t.entries.Set(id, value)
	return true
}

// Remove deletes the entry and reports whether it existed.
func (t *Tree) Remove(id string) bool {
	if t == nil || t.entries == nil {
		return false
	}
	_, existed := t.entries.Delete(id)
	return existed
}

// Walk visits entries in insertion order.
func (t *Tree) Walk(fn func(id string, value any)) {
	if t == nil || t.entries == nil {
		return
	}
	for pair := t.entries.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

func (t *Tree) IDs() []string {
	ids := make([]string, 0, t.Len())
	t.Walk(func(id string, _ any) {
		ids = append(ids, id)
	})
	return ids
}

// Clone deep-copies the tree so readers can resolve and format a snapshot
// without seeing concurrent mutations.
func (t *Tree) Clone() (*Tree, error) {
	raw, err := t.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode tree for clone: %w", err)
	}
	clone := NewTree()
	if err := clone.UnmarshalJSON(raw); err != nil {
		return nil, fmt.Errorf("failed to decode tree clone: %w", err)
	}
	return clone, nil
}

func (t *Tree) MarshalJSON() ([]byte, error) {
	if t == nil || t.entries == nil {
		return []byte("{}"), nil
	}
	return EncodeValue(t.entries)
}

func (t *Tree) UnmarshalJSON(data []byte) error {
	v, err := DecodeValue(data)
	if err != nil {
		return err
	}
	m, ok := v.(*Map)
	if !ok {
		return fmt.Errorf("entry tree must be a JSON object")
	}
	t.entries = m
	return nil
}
