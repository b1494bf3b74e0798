package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alphagov/character-encoding-cleaner/internal/atomicfile"
	"github.com/alphagov/character-encoding-cleaner/internal/config"
	"github.com/alphagov/character-encoding-cleaner/internal/engine"
	"github.com/alphagov/character-encoding-cleaner/internal/hint"
	"github.com/alphagov/character-encoding-cleaner/internal/mapping"
	"github.com/alphagov/character-encoding-cleaner/internal/report"
	"github.com/alphagov/character-encoding-cleaner/internal/store"
)

// CleanOptions holds flags for cleaning a file.
type CleanOptions struct {
	*RootOptions
	Context int
	History string
	Color   string
	Hints   []string

	// IDGenerator allows overriding the run id generator (for testing).
	// If nil, defaults to store.UUIDv7Generator.
	IDGenerator store.IDGenerator
}

func newCleanCommand(rootOpts *RootOptions, gen store.IDGenerator) *cobra.Command {
	opts := &CleanOptions{RootOptions: rootOpts, IDGenerator: gen}

	cmd := &cobra.Command{
		Use:   "clean-encoding <input-file> [<output-file>]",
		Short: "Replace known bad byte sequences and find new ones",
		Long: `Clean a file of mis-encoded byte sequences.

Every mapping in the table with a replacement is applied, longest first,
stopping at the first mapping still marked TODO. High-byte runs left in the
result are added to the table as TODO entries for an operator to fill in,
and the table is saved.

The cleaned file is written only when an output file is given.

An input file named like a subcommand (table, history, help) runs that
subcommand instead; give it a path such as ./table to clean it.

Examples:
  clean-encoding export.csv
  clean-encoding export.csv export-clean.csv --mappings tables/hmrc.txt
  clean-encoding export.csv --hint windows-1252 --hint ISO-8859-15
  clean-encoding export.csv out.csv --history .clean-encoding.db --format json`,
		Args:          cleanArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := ""
			if len(args) == 2 {
				output = args[1]
			}
			return runClean(cmd, opts, args[0], output)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	cmd.Flags().IntVar(&opts.Context, "context", config.DefaultContext, "bytes of context shown around each match")
	cmd.Flags().StringVar(&opts.History, "history", "", "record the run in this SQLite database")
	cmd.Flags().StringVar(&opts.Color, "color", config.ColorAuto, "highlight matches (auto|always|never)")
	cmd.Flags().StringArrayVar(&opts.Hints, "hint", nil, "encoding used to suggest replacements (repeatable)")

	return cmd
}

// cleanArgs requires an input file and allows an output file.
func cleanArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.RangeArgs(1, 2)(cmd, args); err != nil {
		return WrapExitError(ExitCommandError, "usage: clean-encoding <input-file> [<output-file>]", err)
	}
	return nil
}

// resolveCleanConfig layers explicitly set flags over the config file.
func resolveCleanConfig(cmd *cobra.Command, opts *CleanOptions) (config.Config, error) {
	cfg, err := loadConfig(cmd, opts.RootOptions)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("context") {
		cfg.Context = opts.Context
	}
	if flags.Changed("history") {
		cfg.History = opts.History
	}
	if flags.Changed("color") {
		cfg.Color = opts.Color
	}
	if flags.Changed("hint") {
		cfg.Hints = opts.Hints
	}
	if len(cfg.Hints) == 0 {
		cfg.Hints = hint.DefaultEncodings
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	return cfg, nil
}

func runClean(cmd *cobra.Command, opts *CleanOptions, inputPath, outputPath string) error {
	setupLogging(cmd, opts.Verbose)

	cfg, err := resolveCleanConfig(cmd, opts)
	if err != nil {
		return err
	}

	hinter, err := hint.New(cfg.Hints...)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid hint encoding", err)
	}

	input, err := os.ReadFile(inputPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read input file", err)
	}
	slog.Debug("read input", "path", inputPath, "bytes", len(input))

	tbl, err := mapping.Load(cfg.Mappings)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load mappings", err)
	}
	stats := tbl.Stats()
	slog.Debug("loaded mappings", "path", cfg.Mappings,
		"total", stats.Total, "resolved", stats.Resolved, "unresolved", stats.Unresolved)

	res := engine.Apply(tbl, input)
	if blocker, ok := res.Plan.Blocker(); ok {
		slog.Debug("replacement stopped at unresolved mapping",
			"mapping", blocker.ID,
			"bad_sequence", mapping.FormatSequence(blocker.Bad),
			"withheld", len(res.Plan.Withheld()),
		)
	}
	slog.Info("applied mappings", "eligible", len(res.Plan.Eligible()), "replaced", res.Replaced())

	ds := engine.Discover(tbl, res.Output)
	slog.Info("discovered bad sequences", "remaining", len(ds), "registered", len(engine.Registered(ds)))

	if outputPath != "" {
		if err := atomicfile.WriteFile(outputPath, res.Output, 0o644); err != nil {
			return WrapExitError(ExitFailure, "failed to write output file", err)
		}
		slog.Debug("wrote output", "path", outputPath, "bytes", len(res.Output))
	}

	if err := mapping.Save(cfg.Mappings, tbl); err != nil {
		return WrapExitError(ExitFailure, "failed to save mappings", err)
	}
	slog.Debug("saved mappings", "path", cfg.Mappings, "total", tbl.Len())

	runID := ""
	if cfg.History != "" {
		runID, err = recordRun(cmd.Context(), opts, cfg, inputPath, outputPath, input, res, ds)
		if err != nil {
			return err
		}
	}

	if opts.Format == "json" {
		summary := report.Summarize(res, ds, tbl, hinter)
		summary.RunID = runID
		summary.Input = inputPath
		summary.Output = outputPath
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		return f.Success(summary)
	}

	r := report.NewText(cmd.OutOrStdout(), report.Options{
		Context: cfg.Context,
		Verbose: opts.Verbose,
		Color:   cfg.Color,
		Hinter:  hinter,
	})
	r.Applied(res)
	r.Discovered(ds)
	r.Output(outputPath)
	return nil
}

// recordRun writes the run to the history database and returns its id.
func recordRun(ctx context.Context, opts *CleanOptions, cfg config.Config, inputPath, outputPath string, input []byte, res engine.Result, ds []engine.Discovery) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(cfg.History)
	if err != nil {
		return "", WrapExitError(ExitFailure, "failed to open history database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing history database", "error", closeErr)
		}
	}()

	gen := opts.IDGenerator
	if gen == nil {
		gen = store.UUIDv7Generator{}
	}

	run := store.NewRun(gen.Generate(), res, input, ds)
	run.InputPath = inputPath
	run.OutputPath = outputPath
	run.TablePath = cfg.Mappings

	seq, err := st.WriteRun(ctx, run)
	if err != nil {
		return "", WrapExitError(ExitFailure, "failed to record run", err)
	}
	slog.Debug("recorded run", "id", run.ID, "seq", seq, "db", cfg.History)
	return run.ID, nil
}

