package report

import (
	"github.com/alphagov/character-encoding-cleaner/internal/engine"
	"github.com/alphagov/character-encoding-cleaner/internal/hint"
	"github.com/alphagov/character-encoding-cleaner/internal/mapping"
)

// Summary is the machine-readable report of one run.
type Summary struct {
	RunID      string           `json:"run_id,omitempty"`
	Input      string           `json:"input"`
	Output     string           `json:"output,omitempty"`
	Replaced   int              `json:"replaced"`
	Applied    []AppliedEntry   `json:"applied"`
	Withheld   []int            `json:"withheld,omitempty"`
	BlockedBy  int              `json:"blocked_by,omitempty"`
	Remaining  []RemainingEntry `json:"remaining"`
	Registered int              `json:"registered"`
	Table      mapping.Stats    `json:"table"`
}

// AppliedEntry describes one mapping that replaced something.
type AppliedEntry struct {
	ID          int    `json:"id"`
	BadSequence string `json:"bad_sequence"`
	Replacement string `json:"replacement"`
	Count       int    `json:"count"`
	Offsets     []int  `json:"offsets"`
}

// RemainingEntry describes one unresolved run in the output.
type RemainingEntry struct {
	ID          int         `json:"id"`
	BadSequence string      `json:"bad_sequence"`
	Offset      int         `json:"offset"`
	New         bool        `json:"new"`
	Hints       []hint.Hint `json:"hints,omitempty"`
}

// Summarize builds a Summary. hinter may be nil.
func Summarize(res engine.Result, ds []engine.Discovery, t *mapping.Table, hinter *hint.Hinter) Summary {
	s := Summary{
		Replaced:   res.Replaced(),
		Applied:    []AppliedEntry{},
		Remaining:  []RemainingEntry{},
		Registered: len(engine.Registered(ds)),
		Table:      t.Stats(),
	}

	for _, app := range res.Applied {
		if app.Count() == 0 {
			continue
		}
		repl, _ := app.Mapping.Replacement.Value()
		entry := AppliedEntry{
			ID:          app.Mapping.ID,
			BadSequence: mapping.FormatSequence(app.Mapping.Bad),
			Replacement: string(repl),
			Count:       app.Count(),
		}
		for _, occ := range app.Occurrences {
			entry.Offsets = append(entry.Offsets, occ.Offset())
		}
		s.Applied = append(s.Applied, entry)
	}

	if blocker, ok := res.Plan.Blocker(); ok {
		for _, m := range res.Plan.Withheld() {
			s.Withheld = append(s.Withheld, m.ID)
		}
		if len(s.Withheld) > 0 {
			s.BlockedBy = blocker.ID
		}
	}

	for _, d := range ds {
		entry := RemainingEntry{
			ID:          d.Mapping.ID,
			BadSequence: mapping.FormatSequence(d.Mapping.Bad),
			Offset:      d.Extent.From,
			New:         d.New,
		}
		if hinter != nil {
			entry.Hints = hinter.For(d.Extent.Value())
		}
		s.Remaining = append(s.Remaining, entry)
	}
	return s
}
