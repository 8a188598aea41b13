package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/benchkit/benchkit"
	"github.com/benchkit/benchkit/engine"
)

// RootOptions holds the bench and global flags shared by all commands.
type RootOptions struct {
	Bench *benchkit.Bench

	Database string // --db
	Config   string // --config
	Format   string // "json" | "text"
	Verbose  bool

	// RunIDs overrides the engine's run id generator (for testing).
	RunIDs engine.IDGenerator
	// Logger overrides the stderr text logger (for testing).
	Logger *slog.Logger
	// Now overrides the engine clock (for testing).
	Now func() time.Time
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// New creates the command tree for a bench. The root command is named
// after the bench, so `cli.New(b).Execute()` behaves like a dedicated
// binary for that benchmark.
func New(b *benchkit.Bench) *cobra.Command {
	return newRootCommand(&RootOptions{Bench: b})
}

// Execute runs the command tree for a bench and returns the process
// exit code. SIGINT and SIGTERM cancel the command context so
// in-flight runs stop between repeats.
func Execute(b *benchkit.Bench) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := &RootOptions{Bench: b}
	cmd := newRootCommand(opts)
	if err := cmd.ExecuteContext(ctx); err != nil {
		f := &OutputFormatter{
			Format:    opts.Format,
			Writer:    os.Stdout,
			ErrWriter: os.Stderr,
			Verbose:   opts.Verbose,
		}
		f.Failure(err)
		return GetExitCode(err)
	}
	return ExitSuccess
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   opts.Bench.Name(),
		Short: fmt.Sprintf("Benchmark runner for %s", opts.Bench.Name()),
		Long: fmt.Sprintf(`Run, store and evaluate %s benchmarks.

Runs append to a local SQLite database (--db, default .benchkit/%s.db).
A YAML config file (--config) can supply defaults for --db and --format;
explicit flags win over the file.`, opts.Bench.Name(), opts.Bench.Name()),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.applyConfig(cmd); err != nil {
				return err
			}
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "run database path (default .benchkit/<bench>.db)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "YAML config file")

	// Add subcommands
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewPlanCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewTypesCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))

	return cmd
}

// applyConfig fills flag values from the config file, if one was
// given. Flags the user set explicitly keep their command-line value.
func (o *RootOptions) applyConfig(cmd *cobra.Command) error {
	if o.Config == "" {
		return nil
	}
	cfg, err := LoadConfig(o.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "load config", err)
	}

	flags := cmd.Root().PersistentFlags()
	if cfg.Database != "" && !flags.Changed("db") {
		o.Database = cfg.Database
	}
	if cfg.Format != "" && !flags.Changed("format") {
		o.Format = cfg.Format
	}
	return nil
}

// openEngine builds the engine for the configured bench and database.
func (o *RootOptions) openEngine() (*engine.Engine, error) {
	var engineOpts []engine.Option
	if o.Database != "" {
		engineOpts = append(engineOpts, engine.WithDatabase(o.Database))
	}
	engineOpts = append(engineOpts, engine.WithLogger(o.logger()))
	if o.RunIDs != nil {
		engineOpts = append(engineOpts, engine.WithRunIDs(o.RunIDs))
	}
	if o.Now != nil {
		engineOpts = append(engineOpts, engine.WithNow(o.Now))
	}

	eng, err := engine.New(o.Bench, engineOpts...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open engine", err)
	}
	return eng, nil
}

// logger returns the command logger: text on stderr, debug level when
// --verbose is set.
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// formatter builds the output formatter bound to the command's writers.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
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
