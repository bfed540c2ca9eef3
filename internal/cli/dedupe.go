package cli

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/carparks/internal/services"
)

// NewDedupeCommand creates the dedupe command.
func NewDedupeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dedupe",
		Short: "Remove records that repeat an identity",
		Long: `Remove records that repeat another record's identity (car park number,
address, type, parking system and gantry height). The record with the lowest
id in each group is kept.

Stores filled before the unique identity index existed cannot create it
until their duplicates are gone; dedupe creates it once the sweep is done.`,
		Args: commandArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDedupe(rootOpts, cmd)
		},
	}
}

func runDedupe(rootOpts *RootOptions, cmd *cobra.Command) error {
	s, err := rootOpts.openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	report, err := services.NewDedupeService(s.store.CarParks, s.log).Run(ctx)
	if err != nil {
		return s.out.storeFailure(err)
	}
	result := DedupeResult{DedupeReport: report}

	if s.store.IdentityIndexErr != nil {
		if err := s.store.EnsureIdentityIndex(ctx); err != nil {
			return s.out.storeFailure(err)
		}
		s.log.Info("Identity index created", nil)
		result.IndexCreated = true
	}

	return s.out.Report(result, func(w io.Writer) error {
		return renderDedupeReport(w, result)
	})
}
