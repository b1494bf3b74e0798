package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alphagov/character-encoding-cleaner/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - show one run in detail
	Limit    int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded cleaning runs",
		Long: `Show runs recorded with --history.

Without --run, lists runs newest first. With --run, shows the mappings the
run applied and the bad sequences it left behind.

Examples:
  clean-encoding history --db .clean-encoding.db
  clean-encoding history --db .clean-encoding.db --limit 5
  clean-encoding history --db .clean-encoding.db --run 0190f5c2-... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite history database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show one run in detail")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 for all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	setupLogging(cmd, opts.Verbose)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Opening would create an empty database; a typo should fail instead.
	if _, err := os.Stat(opts.Database); errors.Is(err, fs.ErrNotExist) {
		return WrapExitError(ExitCommandError, "history database not found", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	if opts.RunID != "" {
		run, err := st.ReadRun(ctx, opts.RunID)
		if errors.Is(err, store.ErrRunNotFound) {
			return WrapExitError(ExitCommandError, "unknown run", err)
		}
		if err != nil {
			return WrapExitError(ExitFailure, "failed to read run", err)
		}
		if opts.Format == "json" {
			return f.Success(run)
		}
		return f.Success(formatRunDetail(run))
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list runs", err)
	}
	if opts.Format == "json" {
		return f.Success(runs)
	}
	if len(runs) == 0 {
		return f.Success("No runs recorded.")
	}
	return f.Success(formatRunList(runs))
}

func formatRunList(runs []store.Run) string {
	lines := make([]string, len(runs))
	for i, run := range runs {
		lines[i] = fmt.Sprintf("%s  %s  %s  replaced=%d remaining=%d new=%d",
			run.ID, runTime(run), runPaths(run), run.Replaced, run.Remaining, run.Registered)
	}
	return strings.Join(lines, "\n")
}

func formatRunDetail(run store.Run) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s (#%d)\n", run.ID, run.Seq)
	fmt.Fprintf(&b, "  time:     %s\n", runTime(run))
	fmt.Fprintf(&b, "  files:    %s\n", runPaths(run))
	fmt.Fprintf(&b, "  table:    %s\n", run.TablePath)
	fmt.Fprintf(&b, "  bytes:    %d -> %d\n", run.InputBytes, run.OutputBytes)
	if run.InputHash != "" {
		fmt.Fprintf(&b, "  blake3:   %s -> %s", shortHash(run.InputHash), shortHash(run.OutputHash))
		if run.Unchanged() {
			b.WriteString(" (unchanged)")
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "\nApplied (%d replaced):\n", run.Replaced)
	if len(run.Applications) == 0 {
		b.WriteString("  None.\n")
	}
	for _, a := range run.Applications {
		fmt.Fprintf(&b, "  %d: %s => %q x%d\n", a.MappingID, a.BadSequence, a.Replacement, a.Count)
	}

	fmt.Fprintf(&b, "\nRemaining (%d, %d new):\n", run.Remaining, run.Registered)
	if len(run.Discoveries) == 0 {
		b.WriteString("  None.")
	}
	for i, d := range run.Discoveries {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "  %d: %s at byte %d", d.MappingID, d.BadSequence, d.Offset)
		if d.New {
			b.WriteString(" (new)")
		}
	}
	return b.String()
}

// shortHash abbreviates a hex digest for display.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func runTime(run store.Run) string {
	if t, ok := run.Time(); ok {
		return t.Format(time.RFC3339)
	}
	return "-"
}

func runPaths(run store.Run) string {
	if run.OutputPath == "" {
		return run.InputPath
	}
	return run.InputPath + " -> " + run.OutputPath
}
