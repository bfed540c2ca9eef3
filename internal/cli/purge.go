package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/carparks/internal/repository"
	"github.com/stwalsh4118/carparks/internal/services"
)

// PurgeOptions holds flags for the purge command.
type PurgeOptions struct {
	Force bool
}

// NewPurgeCommand creates the purge command.
func NewPurgeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PurgeOptions{}

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every record in the store",
		Long: `Delete every record in the store. Asks for confirmation unless --force
is set.`,
		Args: commandArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPurge(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "delete without asking")

	return cmd
}

func runPurge(rootOpts *RootOptions, opts *PurgeOptions, cmd *cobra.Command) error {
	s, err := rootOpts.openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	result := PurgeResult{}

	if !opts.Force {
		total, err := s.store.CarParks.Count(ctx, repository.Filter{})
		if err != nil {
			return s.out.storeFailure(err)
		}

		ok, err := s.prompt.Confirm(fmt.Sprintf("Delete all %d car park records?", total), false)
		if err != nil {
			return s.out.Fail(ExitCommandError, Problem{Code: ErrCodePrompt, Message: err.Error()}, err)
		}
		result.Cancelled = !ok
	}

	if !result.Cancelled {
		result.Deleted, err = services.NewPurgeService(s.store.CarParks, s.log).PurgeAll(ctx)
		if err != nil {
			return s.out.storeFailure(err)
		}
	}

	return s.out.Report(result, func(w io.Writer) error {
		return renderPurgeResult(w, result)
	})
}
