package symtab

import (
	"slices"
	"strings"

	"strsym/internal/source"
)

// Entry is one label definition.
type Entry struct {
	Label   string      `json:"label" msgpack:"label"`
	Content string      `json:"content" msgpack:"content"`
	Uses    int         `json:"uses" msgpack:"uses"`
	First   source.Span `json:"first" msgpack:"first"`
}

// Table maps labels to literal content. Entries keep insertion order; a label
// is present at most once.
type Table struct {
	entries []Entry
	byLabel map[string]int // метка → индекс в entries
	order   Order
}

func NewTable(order Order) *Table {
	return &Table{
		byLabel: make(map[string]int),
		order:   order,
	}
}

// Len returns the number of distinct labels.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Lookup returns the content recorded under label.
func (t *Table) Lookup(label string) (string, bool) {
	if t == nil {
		return "", false
	}
	idx, ok := t.byLabel[label]
	if !ok {
		return "", false
	}
	return t.entries[idx].Content, true
}

// Has reports whether label is defined.
func (t *Table) Has(label string) bool {
	if t == nil {
		return false
	}
	_, ok := t.byLabel[label]
	return ok
}

// Entries returns a copy of the entries in the table's configured order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := slices.Clone(t.entries)
	if t.order == OrderLabel {
		slices.SortStableFunc(out, func(a, b Entry) int {
			return strings.Compare(a.Label, b.Label)
		})
	}
	return out
}

// Order returns the iteration order of Entries.
func (t *Table) Order() Order {
	if t == nil {
		return OrderInsertion
	}
	return t.order
}

func (t *Table) insert(label, content string, sp source.Span) {
	t.byLabel[label] = len(t.entries)
	t.entries = append(t.entries, Entry{Label: label, Content: content, Uses: 1, First: sp})
}

// replace supersedes the content under an existing label, keeping its position.
func (t *Table) replace(label, content string) {
	idx := t.byLabel[label]
	t.entries[idx].Content = content
	t.entries[idx].Uses++
}

func (t *Table) use(label string) {
	if idx, ok := t.byLabel[label]; ok {
		t.entries[idx].Uses++
	}
}

func (t *Table) entry(label string) (Entry, bool) {
	idx, ok := t.byLabel[label]
	if !ok {
		return Entry{}, false
	}
	return t.entries[idx], true
}

// FromEntries rebuilds a table from entries in insertion order.
// Used by the result cache.
func FromEntries(order Order, entries []Entry) *Table {
	t := NewTable(order)
	for _, e := range entries {
		if _, dup := t.byLabel[e.Label]; dup {
			continue
		}
		t.byLabel[e.Label] = len(t.entries)
		t.entries = append(t.entries, e)
	}
	return t
}

// Raw returns the entries in insertion order regardless of the configured order.
func (t *Table) Raw() []Entry {
	if t == nil {
		return nil
	}
	return slices.Clone(t.entries)
}
