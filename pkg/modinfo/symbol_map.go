// SPDX-License-Identifier: MPL-2.0

package modinfo

import (
	"iter"

	"golang.org/x/text/cases"
)

type (
	// SymbolMap is an insertion-ordered map keyed by case-insensitive symbol name.
	// The first spelling of a name is kept as the key; overwriting an entry
	// replaces the value but keeps its position.
	SymbolMap[V any] struct {
		index   map[string]int
		names   []string
		entries []V
	}
)

// NewSymbolMap creates an empty SymbolMap.
func NewSymbolMap[V any]() *SymbolMap[V] {
	return &SymbolMap[V]{index: make(map[string]int)}
}

// FoldName returns the case-folded form used to compare symbol names.
func FoldName(name string) string {
	// cases.Caser is stateful, so a fresh one is created per call.
	return cases.Fold().String(name)
}

// NamesEqual reports whether two symbol names are equal under case folding.
func NamesEqual(a, b string) bool {
	return FoldName(a) == FoldName(b)
}

// Set stores v under name, overwriting any existing entry with the same folded name.
func (m *SymbolMap[V]) Set(name string, v V) {
	key := FoldName(name)
	if i, ok := m.index[key]; ok {
		m.entries[i] = v
		return
	}
	m.index[key] = len(m.entries)
	m.names = append(m.names, name)
	m.entries = append(m.entries, v)
}

// Add stores v under name only if no entry with the same folded name exists.
// It reports whether the entry was added.
func (m *SymbolMap[V]) Add(name string, v V) bool {
	if m.Has(name) {
		return false
	}
	m.Set(name, v)
	return true
}

// Get returns the entry stored under name.
func (m *SymbolMap[V]) Get(name string) (V, bool) {
	if m == nil {
		var zero V
		return zero, false
	}
	i, ok := m.index[FoldName(name)]
	if !ok {
		var zero V
		return zero, false
	}
	return m.entries[i], true
}

// Has reports whether an entry exists under name.
func (m *SymbolMap[V]) Has(name string) bool {
	_, ok := m.Get(name)
	return ok
}

// Len returns the number of entries.
func (m *SymbolMap[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Names returns the entry names in insertion order.
func (m *SymbolMap[V]) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, len(m.names))
	copy(names, m.names)
	return names
}

// Values returns the entries in insertion order.
func (m *SymbolMap[V]) Values() []V {
	if m == nil {
		return nil
	}
	values := make([]V, len(m.entries))
	copy(values, m.entries)
	return values
}

// All iterates over name/value pairs in insertion order.
func (m *SymbolMap[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		if m == nil {
			return
		}
		for i, name := range m.names {
			if !yield(name, m.entries[i]) {
				return
			}
		}
	}
}

// Merge overwrites entries of m with every entry of other, in other's order.
func (m *SymbolMap[V]) Merge(other *SymbolMap[V]) {
	for name, v := range other.All() {
		m.Set(name, v)
	}
}
