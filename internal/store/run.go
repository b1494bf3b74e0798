package store

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/alphagov/character-encoding-cleaner/internal/engine"
	"github.com/alphagov/character-encoding-cleaner/internal/mapping"
)

// Run is one recorded cleaning run.
type Run struct {
	ID          string `json:"id"`
	Seq         int64  `json:"seq"` // assigned by WriteRun
	InputPath   string `json:"input_path"`
	OutputPath  string `json:"output_path,omitempty"`
	TablePath   string `json:"table_path"`
	InputBytes  int    `json:"input_bytes"`
	OutputBytes int    `json:"output_bytes"`
	InputHash   string `json:"input_hash"`  // BLAKE3, hex
	OutputHash  string `json:"output_hash"` // BLAKE3, hex
	Replaced    int    `json:"replaced"`
	Registered  int    `json:"registered"`
	Remaining   int    `json:"remaining"`

	Applications []Application `json:"applications,omitempty"`
	Discoveries  []Discovery   `json:"discoveries,omitempty"`
}

// Application is one mapping's pass within a run.
type Application struct {
	MappingID   int    `json:"mapping_id"`
	BadSequence string `json:"bad_sequence"` // \xHH form
	Replacement []byte `json:"replacement"`
	Count       int    `json:"count"`
}

// Discovery is one unresolved run reported by a run.
type Discovery struct {
	MappingID   int    `json:"mapping_id"`
	BadSequence string `json:"bad_sequence"` // \xHH form
	Offset      int    `json:"offset"`
	New         bool   `json:"new"`
}

// Time returns the creation time embedded in a UUIDv7 run id.
func (r Run) Time() (time.Time, bool) {
	id, err := uuid.Parse(r.ID)
	if err != nil || id.Version() != 7 {
		return time.Time{}, false
	}
	sec, nsec := id.Time().UnixTime()
	return time.Unix(sec, nsec).UTC(), true
}

// NewRun summarises an engine result and its discoveries as a history
// record. Applications that replaced nothing are omitted.
func NewRun(id string, res engine.Result, input []byte, ds []engine.Discovery) Run {
	run := Run{
		ID:          id,
		InputBytes:  len(input),
		OutputBytes: len(res.Output),
		InputHash:   Digest(input),
		OutputHash:  Digest(res.Output),
		Replaced:    res.Replaced(),
		Registered:  len(engine.Registered(ds)),
		Remaining:   len(ds),
	}
	for _, a := range res.Applied {
		if a.Count() == 0 {
			continue
		}
		repl, _ := a.Mapping.Replacement.Value()
		run.Applications = append(run.Applications, Application{
			MappingID:   a.Mapping.ID,
			BadSequence: mapping.FormatSequence(a.Mapping.Bad),
			Replacement: repl,
			Count:       a.Count(),
		})
	}
	for _, d := range ds {
		run.Discoveries = append(run.Discoveries, Discovery{
			MappingID:   d.Mapping.ID,
			BadSequence: mapping.FormatSequence(d.Mapping.Bad),
			Offset:      d.Extent.From,
			New:         d.New,
		})
	}
	return run
}

// Digest returns the hex BLAKE3-256 hash of b. Runs over the same bytes
// share a digest, so a rerun on unchanged input is easy to spot.
func Digest(b []byte) string {
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Unchanged reports whether the run left its input as it was.
func (r Run) Unchanged() bool {
	return r.InputHash != "" && r.InputHash == r.OutputHash
}
