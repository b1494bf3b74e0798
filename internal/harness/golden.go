package harness

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders a result as stable text for golden comparison.
//
//	scenario: name
//	output: escaped output
//	applied:
//	  <id> x<count>
//	discovered:
//	  \xHH...
//	table:
//	  <persisted line>
func Snapshot(name string, result *Result) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", name)
	fmt.Fprintf(&b, "output: %s\n", Escape(result.Output))

	ids := make([]int, 0, len(result.Applied))
	for id := range result.Applied {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	applied := make([]string, len(ids))
	for i, id := range ids {
		applied[i] = fmt.Sprintf("%d x%d", id, result.Applied[id])
	}

	writeSection(&b, "applied", applied)
	writeSection(&b, "discovered", result.Discovered)
	writeSection(&b, "table", result.Table)
	return []byte(b.String())
}

func writeSection(b *strings.Builder, title string, lines []string) {
	fmt.Fprintf(b, "%s:\n", title)
	if len(lines) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for _, line := range lines {
		fmt.Fprintf(b, "  %s\n", line)
	}
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if the scenario cannot run.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, Snapshot(scenario.Name, result))
	return nil
}
