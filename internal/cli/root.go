package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/alphagov/character-encoding-cleaner/internal/config"
	"github.com/alphagov/character-encoding-cleaner/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Config   string // config file; empty means config.DefaultPath if present
	Mappings string // table file; overrides the config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command. Run with a file argument it
// cleans that file; the table and history subcommands inspect state.
func NewRootCommand() *cobra.Command {
	return newRootCommand(nil)
}

// newRootCommand builds the command tree. gen overrides run ids (for
// testing); nil means UUIDv7.
func newRootCommand(gen store.IDGenerator) *cobra.Command {
	opts := &RootOptions{}
	cmd := newCleanCommand(opts, gen)

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !isValidFormat(opts.Format) {
			return NewExitError(ExitCommandError,
				fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
		}
		return nil
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "config file (default "+config.DefaultPath+" if present)")
	cmd.PersistentFlags().StringVar(&opts.Mappings, "mappings", "", "mappings table file (default "+config.Default().Mappings+")")

	// Add subcommands
	cmd.AddCommand(NewTableCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// Execute runs the command line and reports any error in the requested
// format. It returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	format, _ := cmd.PersistentFlags().GetString("format")
	if !isValidFormat(format) {
		format = "text"
	}
	w := stderr
	if format == "json" {
		w = stdout
	}
	f := &OutputFormatter{Format: format, Writer: w}
	_ = f.Error(errorCode(err), err.Error(), nil)

	return GetExitCode(err)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// loadConfig reads the config file named by --config, or the default file
// when it exists, and applies --mappings.
func loadConfig(cmd *cobra.Command, opts *RootOptions) (config.Config, error) {
	path, optional := opts.Config, false
	if path == "" {
		path, optional = config.DefaultPath, true
	}

	cfg, err := config.Load(path, optional)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if cmd.Flags().Changed("mappings") {
		cfg.Mappings = opts.Mappings
	}
	return cfg, nil
}

// setupLogging installs the default slog logger for this command run.
// Diagnostics go to stderr so stdout stays clean for reports and JSON.
func setupLogging(cmd *cobra.Command, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
