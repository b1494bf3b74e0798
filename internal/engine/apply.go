package engine

import (
	"bytes"

	"github.com/alphagov/character-encoding-cleaner/internal/extent"
	"github.com/alphagov/character-encoding-cleaner/internal/mapping"
)

// Occurrence is one replaced instance of a bad sequence.
type Occurrence struct {
	// Before covers the bad sequence in the buffer the pass read.
	Before extent.Extent
	// After covers the replacement in the buffer the pass produced.
	After extent.Extent
}

// Offset is the byte offset of the occurrence in the pass input.
func (o Occurrence) Offset() int {
	return o.Before.From
}

// Application records one mapping's pass over the buffer.
type Application struct {
	Mapping     mapping.Mapping
	Occurrences []Occurrence
}

// Count returns how many occurrences were replaced.
func (a Application) Count() int {
	return len(a.Occurrences)
}

// Result is the outcome of Apply.
type Result struct {
	Plan    Plan
	Output  []byte
	Applied []Application // one per eligible mapping, in plan order
}

// Replaced returns the total number of occurrences replaced.
func (r Result) Replaced() int {
	n := 0
	for _, a := range r.Applied {
		n += a.Count()
	}
	return n
}

// Apply rewrites every occurrence of each eligible mapping in plan order
// and returns the new buffer. buf is not modified.
//
// Each mapping makes exactly one left-to-right, non-overlapping pass over
// the output of the previous one and is never revisited, even if a later
// replacement recreates its bad sequence.
func Apply(t *mapping.Table, buf []byte) Result {
	plan := NewPlan(t)
	res := Result{Plan: plan, Output: bytes.Clone(buf)}
	if res.Output == nil {
		res.Output = []byte{}
	}

	for _, m := range plan.Eligible() {
		var app Application
		res.Output, app = replaceAll(res.Output, m)
		res.Applied = append(res.Applied, app)
	}
	return res
}

// replaceAll performs a single pass for m over in, returning a new buffer.
func replaceAll(in []byte, m mapping.Mapping) ([]byte, Application) {
	app := Application{Mapping: m}
	repl, _ := m.Replacement.Value()

	if bytes.Index(in, m.Bad) < 0 {
		return in, app
	}

	type hit struct{ from, outFrom int }
	var hits []hit
	out := make([]byte, 0, len(in))
	pos := 0
	for {
		i := bytes.Index(in[pos:], m.Bad)
		if i < 0 {
			break
		}
		from := pos + i
		out = append(out, in[pos:from]...)
		hits = append(hits, hit{from: from, outFrom: len(out)})
		out = append(out, repl...)
		pos = from + len(m.Bad)
	}
	out = append(out, in[pos:]...)

	// Extents are built once out is final so they never alias a stale array.
	app.Occurrences = make([]Occurrence, len(hits))
	for k, h := range hits {
		app.Occurrences[k] = Occurrence{
			Before: extent.New(in, h.from, h.from+len(m.Bad)-1, extent.Suspicious),
			After:  extent.New(out, h.outFrom, h.outFrom+len(repl)-1, extent.Clean),
		}
	}
	return out, app
}
