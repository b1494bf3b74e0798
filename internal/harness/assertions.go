package harness

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/alphagov/character-encoding-cleaner/internal/mapping"
)

// Check compares a result against expectations and returns one message per
// mismatch. Omitted expectations are not checked.
func Check(expect Expect, result *Result) []string {
	var errs []string

	if expect.Output != nil {
		want, err := DecodeEscapes(*expect.Output)
		if err != nil {
			errs = append(errs, fmt.Sprintf("output: %v", err))
		} else if !bytes.Equal(want, result.Output) {
			errs = append(errs, mismatch("output", Escape(want), Escape(result.Output)))
		}
	}

	if expect.Applied != nil {
		if want, got := formatApplied(expect.Applied), formatApplied(result.Applied); want != got {
			errs = append(errs, mismatch("applied", want, got))
		}
	}

	if expect.Discovered != nil {
		want := make([]string, len(expect.Discovered))
		for i, seq := range expect.Discovered {
			want[i] = normalizeSequence(seq)
		}
		if w, g := strings.Join(want, " "), strings.Join(result.Discovered, " "); w != g {
			errs = append(errs, mismatch("discovered", w, g))
		}
	}

	if expect.Table != nil {
		if w, g := strings.Join(expect.Table, "\n"), strings.Join(result.Table, "\n"); w != g {
			errs = append(errs, mismatch("table", w, g))
		}
	}

	return errs
}

func mismatch(what, expected, actual string) string {
	return fmt.Sprintf("%s mismatch\n  Expected: %s\n  Actual:   %s", what, expected, actual)
}

// formatApplied renders id/count pairs in id order, e.g. "1x2 3x1".
func formatApplied(applied map[int]int) string {
	ids := make([]int, 0, len(applied))
	for id, n := range applied {
		if n > 0 {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%dx%d", id, applied[id])
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, " ")
}

// normalizeSequence re-renders a \xHH sequence with uppercase digits.
func normalizeSequence(seq string) string {
	b, err := mapping.ParseSequence(seq)
	if err != nil {
		return seq
	}
	return mapping.FormatSequence(b)
}
