package harness

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alphagov/character-encoding-cleaner/internal/engine"
	"github.com/alphagov/character-encoding-cleaner/internal/mapping"
)

// Harness runs scenarios entirely in memory.
type Harness struct {
	logger *slog.Logger
}

// New creates a harness. A nil logger discards output.
func New(logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{logger: logger}
}

// Run executes a scenario with a silent harness.
func Run(scenario *Scenario) (*Result, error) {
	return New(nil).Run(scenario)
}

// Run executes a scenario and checks its expectations.
//
// Execution flow:
// 1. Parse the table lines
// 2. Apply the table to the decoded input
// 3. Discover remaining runs in the output
// 4. Write the table back and split it into lines
// 5. Compare against the scenario's expectations
//
// A returned error means the scenario could not run; mismatches are
// reported on the Result instead.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	tbl, err := mapping.Read(strings.NewReader(strings.Join(scenario.Table, "\n")))
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}

	input, err := DecodeEscapes(scenario.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to decode input: %w", err)
	}

	res := engine.Apply(tbl, input)
	h.logger.Debug("applied table",
		"scenario", scenario.Name,
		"eligible", len(res.Plan.Eligible()),
		"replaced", res.Replaced(),
	)

	ds := engine.Discover(tbl, res.Output)
	h.logger.Debug("discovered runs",
		"scenario", scenario.Name,
		"remaining", len(ds),
		"registered", len(engine.Registered(ds)),
	)

	var saved bytes.Buffer
	if err := mapping.Write(&saved, tbl); err != nil {
		return nil, fmt.Errorf("failed to write table: %w", err)
	}

	result := NewResult()
	result.Output = res.Output
	for _, app := range res.Applied {
		if app.Count() > 0 {
			result.Applied[app.Mapping.ID] = app.Count()
		}
	}
	for _, d := range ds {
		result.Discovered = append(result.Discovered, mapping.FormatSequence(d.Mapping.Bad))
	}
	if text := strings.TrimSuffix(saved.String(), "\n"); text != "" {
		result.Table = strings.Split(text, "\n")
	}

	for _, msg := range Check(scenario.Expect, result) {
		result.AddError(msg)
	}

	h.logger.Info("scenario completed",
		"scenario", scenario.Name,
		"pass", result.Pass,
	)
	return result, nil
}
