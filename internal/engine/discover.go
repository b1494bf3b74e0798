package engine

import (
	"github.com/alphagov/character-encoding-cleaner/internal/extent"
	"github.com/alphagov/character-encoding-cleaner/internal/mapping"
)

// Discovery is a suspicious run left in a cleaned buffer that the table
// does not resolve.
type Discovery struct {
	Mapping mapping.Mapping
	Extent  extent.Extent
	// New is true when this Discover call registered the mapping.
	New bool
}

// Discover partitions cleaned and registers every suspicious run the table
// does not already resolve as an unresolved mapping. It returns one
// Discovery per remaining run, in buffer order.
//
// Runs equal to some replacement's output are legitimate and skipped, as
// are runs whose mapping is resolved (the replacement kept high bytes).
// Discover only appends to t; replacements are never changed.
func Discover(t *mapping.Table, cleaned []byte) []Discovery {
	var out []Discovery
	for _, run := range extent.SuspiciousOf(extent.Partition(cleaned)) {
		value := run.Value()
		if t.IsReplacementTarget(value) || t.IsResolved(value) {
			continue
		}
		_, added := t.AddIfNew(value)
		m, _ := t.Find(value)
		out = append(out, Discovery{Mapping: m, Extent: run, New: added})
	}
	return out
}

// Registered returns the mappings that were newly added, in order.
func Registered(ds []Discovery) []mapping.Mapping {
	var out []mapping.Mapping
	for _, d := range ds {
		if d.New {
			out = append(out, d.Mapping)
		}
	}
	return out
}
