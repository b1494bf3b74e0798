package engine

import (
	"sort"

	"github.com/alphagov/character-encoding-cleaner/internal/mapping"
)

// Plan is the order in which mappings may be applied to a buffer.
//
// Order holds every mapping sorted by bad-sequence length, longest first,
// ties in id order. Cut is the index of the first unresolved mapping in
// Order (len(Order) if none): only Order[:Cut] is applied.
type Plan struct {
	Order []mapping.Mapping
	Cut   int
}

// NewPlan computes the application order for t.
func NewPlan(t *mapping.Table) Plan {
	order := t.Mappings()
	sort.SliceStable(order, func(i, j int) bool {
		return len(order[i].Bad) > len(order[j].Bad)
	})
	return Plan{Order: order, Cut: CutIndex(order)}
}

// CutIndex returns the index of the first unresolved mapping in order, or
// len(order) when every mapping is resolved.
//
// A resolved rule for a shorter sequence may be a substring of a longer
// unresolved one. Applying it would hide the longer pattern from the
// operator, so everything from the first unresolved mapping on waits.
func CutIndex(order []mapping.Mapping) int {
	for i, m := range order {
		if !m.Resolved() {
			return i
		}
	}
	return len(order)
}

// Eligible returns the mappings that will be applied, in order.
func (p Plan) Eligible() []mapping.Mapping {
	return p.Order[:p.Cut]
}

// Withheld returns the resolved mappings held back by an unresolved mapping
// of equal or greater length.
func (p Plan) Withheld() []mapping.Mapping {
	var out []mapping.Mapping
	for _, m := range p.Order[p.Cut:] {
		if m.Resolved() {
			out = append(out, m)
		}
	}
	return out
}

// Blocker returns the unresolved mapping at the cut, if any.
func (p Plan) Blocker() (mapping.Mapping, bool) {
	if p.Cut >= len(p.Order) {
		return mapping.Mapping{}, false
	}
	return p.Order[p.Cut], true
}
