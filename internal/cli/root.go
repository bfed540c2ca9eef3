package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/carparks/internal/config"
	"github.com/stwalsh4118/carparks/internal/logger"
	"github.com/stwalsh4118/carparks/internal/repository"
)

// StoreOpener opens the record store a command works on.
type StoreOpener func(ctx context.Context) (*repository.Store, error)

// RootOptions holds global flags and the dependencies shared by all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Env selects the log format, as for the server.
	Env string
	// DatasetPath is the CSV ingest reads when no path argument is given.
	DatasetPath string
	OpenStore   StoreOpener
	// In is read for confirmation prompts. Defaults to the command's stdin.
	In io.Reader
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// DefaultOptions builds the options carparkctl runs with.
func DefaultOptions(cfg *config.Config) *RootOptions {
	return &RootOptions{
		Format:      "text",
		Env:         cfg.Server.Env,
		DatasetPath: cfg.Ingest.DatasetPath,
		OpenStore: func(ctx context.Context) (*repository.Store, error) {
			return repository.Open(ctx, cfg.Database)
		},
	}
}

// NewRootCommand creates the root command for carparkctl.
func NewRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "carparkctl",
		Short: "Maintain the car park record store",
		Long: `Batch jobs for the car park record store: load CSV exports, remove
duplicate records, repair sentinel addresses and empty the store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return exitf(ExitCommandError, "invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return exitf(ExitCommandError, "invalid flags: %w", err)
	})

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (logs to stderr)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewIngestCommand(opts))
	cmd.AddCommand(NewDedupeCommand(opts))
	cmd.AddCommand(NewRepairCommand(opts))
	cmd.AddCommand(NewSummaryCommand(opts))
	cmd.AddCommand(NewPurgeCommand(opts))

	return cmd
}

// commandArgs marks argument validation failures as command errors.
func commandArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return exitf(ExitCommandError, "invalid arguments: %w", err)
		}
		return nil
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

// session is what a running command works with.
type session struct {
	store  *repository.Store
	log    *logger.Logger
	out    *Output
	prompt *Prompter
}

func (s *session) Close() {
	s.store.Close()
}

// output returns the Output cmd reports through.
func (o *RootOptions) output(cmd *cobra.Command) *Output {
	return &Output{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// openSession opens the store and wires output for cmd. Failing to open the
// store is a command error.
func (o *RootOptions) openSession(cmd *cobra.Command) (*session, error) {
	out := o.output(cmd)

	log := logger.Nop()
	if o.Verbose {
		log = logger.NewWithWriter(o.Env, cmd.ErrOrStderr()).WithJob(cmd.Name())
	}

	if o.OpenStore == nil {
		return nil, out.Fail(ExitCommandError, Problem{Code: ErrCodeStore, Message: "no record store configured"}, nil)
	}
	store, err := o.OpenStore(cmd.Context())
	if err != nil {
		return nil, out.Fail(ExitCommandError, Problem{Code: ErrCodeStore, Message: "failed to open record store"}, err)
	}
	out.Verbosef("Using %s store", store.Driver)
	if store.IdentityIndexErr != nil {
		log.Warn("Identity index is missing, run dedupe to create it", map[string]interface{}{
			"error": store.IdentityIndexErr.Error(),
		})
	}

	in := o.In
	if in == nil {
		in = cmd.InOrStdin()
	}

	return &session{
		store:  store,
		log:    log,
		out:    out,
		prompt: NewPrompter(in, out.Diagnostics()),
	}, nil
}
