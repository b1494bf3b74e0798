package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alphagov/character-encoding-cleaner/internal/mapping"
)

// TableOptions holds flags for the table command.
type TableOptions struct {
	*RootOptions
	Unresolved bool
}

// TableEntry is one mapping in table command output.
type TableEntry struct {
	ID          int    `json:"id"`
	BadSequence string `json:"bad_sequence"`
	Replacement string `json:"replacement,omitempty"`
	Resolved    bool   `json:"resolved"`
}

// TableResult is the table command's JSON payload.
type TableResult struct {
	Path     string        `json:"path"`
	Mappings []TableEntry  `json:"mappings"`
	Stats    mapping.Stats `json:"stats"`
}

// NewTableCommand creates the table command.
func NewTableCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TableOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "table",
		Short: "List the mappings table",
		Long: `List every mapping in the table with its id and replacement.

Mappings still marked TODO are shown as unresolved. Filling them in lets
the next run replace them, and unblocks any shorter mappings queued behind
them.

Examples:
  clean-encoding table
  clean-encoding table --unresolved --mappings tables/hmrc.txt
  clean-encoding table --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTable(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Unresolved, "unresolved", false, "only list mappings still marked TODO")

	return cmd
}

func runTable(opts *TableOptions, cmd *cobra.Command) error {
	setupLogging(cmd, opts.Verbose)

	cfg, err := loadConfig(cmd, opts.RootOptions)
	if err != nil {
		return err
	}

	tbl, err := mapping.Load(cfg.Mappings)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load mappings", err)
	}

	result := TableResult{
		Path:     cfg.Mappings,
		Mappings: []TableEntry{},
		Stats:    tbl.Stats(),
	}
	for _, m := range tbl.Mappings() {
		if opts.Unresolved && m.Resolved() {
			continue
		}
		entry := TableEntry{
			ID:          m.ID,
			BadSequence: mapping.FormatSequence(m.Bad),
			Resolved:    m.Resolved(),
		}
		if repl, ok := m.Replacement.Value(); ok {
			entry.Replacement = string(repl)
		}
		result.Mappings = append(result.Mappings, entry)
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		return f.Success(result)
	}
	return f.Success(formatTable(result))
}

// formatTable renders one mapping per line followed by a count line.
func formatTable(result TableResult) string {
	var b strings.Builder
	for _, e := range result.Mappings {
		if e.Resolved {
			fmt.Fprintf(&b, "%d: %s => %q\n", e.ID, e.BadSequence, e.Replacement)
		} else {
			fmt.Fprintf(&b, "%d: %s (unresolved)\n", e.ID, e.BadSequence)
		}
	}
	fmt.Fprintf(&b, "%s: %d mapping(s), %d resolved, %d unresolved",
		result.Path, result.Stats.Total, result.Stats.Resolved, result.Stats.Unresolved)
	return b.String()
}
