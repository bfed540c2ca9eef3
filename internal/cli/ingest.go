package cli

import (
	"errors"
	"io"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/carparks/internal/dataset"
	"github.com/stwalsh4118/carparks/internal/services"
)

// IngestOptions holds flags for the ingest command.
type IngestOptions struct {
	Strict bool
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IngestOptions{}

	cmd := &cobra.Command{
		Use:   "ingest [path]",
		Short: "Load a car park CSV export into the store",
		Long: `Load a car park CSV export into the store.

Rows whose identity is already stored are skipped, so loading the same file
twice inserts nothing the second time. Rows that fail validation are listed
in the report and skipped unless --strict is set. Without a path argument the
configured DATASET_PATH is read.`,
		Args: commandArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := rootOpts.DatasetPath
			if len(args) == 1 {
				path = args[0]
			}
			return runIngest(rootOpts, opts, cmd, path)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "abort on the first invalid row")

	return cmd
}

// runIngest parses the whole file before opening the store, so a bad path or
// file never touches the store.
func runIngest(rootOpts *RootOptions, opts *IngestOptions, cmd *cobra.Command, path string) error {
	out := rootOpts.output(cmd)
	if path == "" {
		return out.Fail(ExitCommandError, Problem{Code: ErrCodeFileNotFound, Message: "no dataset path given"}, nil)
	}
	out.Verbosef("Reading %s", path)

	file, err := dataset.ReadFile(path)
	if err != nil {
		return ingestError(out, nil, err)
	}

	s, err := rootOpts.openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ingest := services.NewIngestService(s.store.CarParks, s.log, services.IngestOptions{Strict: opts.Strict})
	report, err := ingest.Load(cmd.Context(), file)
	if err != nil {
		return ingestError(s.out, report, err)
	}

	return s.out.Report(report, func(w io.Writer) error {
		return renderIngestReport(w, report)
	})
}

// ingestError reports a failed load. Problems with the file itself are
// command errors; anything after loading started is a job failure.
func ingestError(out *Output, report *services.IngestReport, err error) error {
	var (
		parseErr   *dataset.ParseError
		columnsErr *dataset.MissingColumnsError
		rowErr     *dataset.RowError
	)

	p := Problem{Message: err.Error()}
	switch {
	case errors.Is(err, dataset.ErrFileNotFound):
		p.Code = ErrCodeFileNotFound
		return out.Fail(ExitCommandError, p, err)
	case errors.As(err, &columnsErr):
		p.Code, p.Details = ErrCodeMissingColumns, columnsErr.Columns
		return out.Fail(ExitCommandError, p, err)
	case errors.As(err, &parseErr):
		p.Code = ErrCodeParse
		return out.Fail(ExitCommandError, p, err)
	case errors.As(err, &rowErr):
		p.Code, p.Details = ErrCodeInvalidRow, report
		return out.Fail(ExitFailure, p, err)
	default:
		p.Code, p.Details = ErrCodeStore, report
		return out.Fail(ExitFailure, p, err)
	}
}
