package entries

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Entries whose value does not claim a name through a single-key mapping are
// displayed under this placeholder and disambiguated like any other duplicate.
const placeholderName = "entry"

// Format renders a tree as a display mapping keyed by human-readable names
// instead of entry ids. Duplicate sibling names get a one-based numeric
// suffix ("Budget", "Budget 2", ...) assigned in stored order; names only
// collide within their own sibling scope, never across nesting levels.
//
// Format is pure: it never touches the input tree and the same tree always
// renders to byte-identical output.
func Format(t *Tree) *Map {
	var pairs []displayPair
	t.Walk(func(id string, value any) {
		pairs = append(pairs, nameEntry(value))
	})
	return formatSiblings(pairs)
}

type displayPair struct {
	name  string
	value any
}

// nameEntry decides the visible name an entry claims: a mapping with exactly
// one key is displayed under that key, everything else falls back to the
// placeholder.
func nameEntry(value any) displayPair {
	if m, ok := value.(*Map); ok && m.Len() == 1 {
		pair := m.Oldest()
		return displayPair{name: pair.Key, value: pair.Value}
	}
	return displayPair{name: placeholderName, value: value}
}

// formatSiblings emits one scope of siblings, counting occurrences per base
// name in order. The first occurrence keeps its name, the Nth becomes
// "<name> N".
func formatSiblings(pairs []displayPair) *Map {
	out := NewMap()
	seen := map[string]int{}
	for _, p := range pairs {
		seen[p.name]++
		name := p.name
		if n := seen[p.name]; n > 1 {
			name = fmt.Sprintf("%s %d", p.name, n)
		}
		out.Set(name, formatValue(p.value))
	}
	return out
}

func formatValue(value any) any {
	switch v := value.(type) {
	case *Map:
		if isEntryCollection(v) {
			var pairs []displayPair
			for pair := v.Oldest(); pair != nil; pair = pair.Next() {
				pairs = append(pairs, nameEntry(pair.Value))
			}
			return formatSiblings(pairs)
		}
		out := NewMap()
		for pair := v.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, formatValue(pair.Value))
		}
		return out
	case map[string]any:
		// remote payloads arrive as plain maps with no stored order; walk
		// them sorted so the rendering stays deterministic
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := NewMap()
		for _, k := range keys {
			out.Set(k, formatValue(v[k]))
		}
		return out
	case []any:
		// list elements are never renamed, only rendered
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = formatValue(elem)
		}
		return out
	default:
		return v
	}
}

// isEntryCollection detects a nested entry collection: a non-empty mapping
// whose keys are all entry ids. Those are regrouped by claimed name exactly
// like the tree's top level, which is where nested name collisions come from.
func isEntryCollection(m *Map) bool {
	if m.Len() == 0 {
		return false
	}
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		if uuid.Validate(pair.Key) != nil {
			return false
		}
	}
	return true
}
