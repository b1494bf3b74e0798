package mapping

import (
	"bytes"
	"fmt"
)

// Table is an ordered collection of mappings keyed by bad sequence.
// Order is insertion order, which is also ID order.
//
// A Table is not safe for concurrent use.
type Table struct {
	mappings []*Mapping
	byBad    map[string]*Mapping
	targets  map[string]int
}

// Stats summarises a table.
type Stats struct {
	Total      int `json:"total"`
	Resolved   int `json:"resolved"`
	Unresolved int `json:"unresolved"`
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		byBad:   make(map[string]*Mapping),
		targets: make(map[string]int),
	}
}

// Len returns the number of mappings.
func (t *Table) Len() int {
	return len(t.mappings)
}

// Mappings returns a copy of every mapping in ID order.
func (t *Table) Mappings() []Mapping {
	out := make([]Mapping, len(t.mappings))
	for i, m := range t.mappings {
		out[i] = *m
	}
	return out
}

// Find looks up the mapping for an exact bad sequence.
func (t *Table) Find(bad []byte) (Mapping, bool) {
	m, ok := t.byBad[string(bad)]
	if !ok {
		return Mapping{}, false
	}
	return *m, true
}

// Contains reports whether bad has a mapping, resolved or not.
func (t *Table) Contains(bad []byte) bool {
	_, ok := t.byBad[string(bad)]
	return ok
}

// IsResolved reports whether bad has a mapping with a replacement.
func (t *Table) IsResolved(bad []byte) bool {
	m, ok := t.byBad[string(bad)]
	return ok && m.Resolved()
}

// AddIfNew registers bad as an unresolved mapping unless it is already
// present. It returns the mapping's id and whether it was added.
func (t *Table) AddIfNew(bad []byte) (id int, added bool) {
	if m, ok := t.byBad[string(bad)]; ok {
		return m.ID, false
	}
	if len(bad) == 0 {
		panic("mapping: empty bad sequence")
	}
	m := &Mapping{ID: len(t.mappings) + 1, Bad: bytes.Clone(bad), Replacement: Unresolved()}
	t.insert(m)
	return m.ID, true
}

// IsReplacementTarget reports whether some resolved mapping replaces its bad
// sequence with exactly b.
func (t *Table) IsReplacementTarget(b []byte) bool {
	return t.targets[string(b)] > 0
}

// Stats counts resolved and unresolved mappings.
func (t *Table) Stats() Stats {
	s := Stats{Total: len(t.mappings)}
	for _, m := range t.mappings {
		if m.Resolved() {
			s.Resolved++
		} else {
			s.Unresolved++
		}
	}
	return s
}

// Add appends a mapping with the next id, as when reading persisted form.
// Empty and duplicate bad sequences are rejected.
func (t *Table) Add(bad []byte, r Replacement) error {
	if len(bad) == 0 {
		return fmt.Errorf("empty bad sequence")
	}
	if existing, ok := t.byBad[string(bad)]; ok {
		return fmt.Errorf("duplicate bad sequence %s (first defined as mapping %d)", FormatSequence(bad), existing.ID)
	}
	t.insert(&Mapping{ID: len(t.mappings) + 1, Bad: bytes.Clone(bad), Replacement: r})
	return nil
}

func (t *Table) insert(m *Mapping) {
	t.mappings = append(t.mappings, m)
	t.byBad[string(m.Bad)] = m
	if v, ok := m.Replacement.Value(); ok {
		t.targets[string(v)]++
	}
}
