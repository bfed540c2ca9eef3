package cli

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/carparks/internal/services"
)

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show record counts and averages",
		Args:  commandArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(rootOpts, cmd)
		},
	}
}

func runSummary(rootOpts *RootOptions, cmd *cobra.Command) error {
	s, err := rootOpts.openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	summary := &StoreSummary{}

	summary.Addresses, err = services.NewRepairService(s.store.CarParks, s.log).Summarize(ctx)
	if err != nil {
		return s.out.storeFailure(err)
	}

	carParks := services.NewCarParkService(s.store.CarParks, s.log)
	if summary.ParkingSystems, err = carParks.GroupByParkingSystem(ctx); err != nil {
		return s.out.storeFailure(err)
	}
	if summary.AverageGantryHeight, err = carParks.AverageGantryHeight(ctx); err != nil {
		return s.out.storeFailure(err)
	}

	return s.out.Report(summary, func(w io.Writer) error {
		return renderStoreSummary(w, summary)
	})
}
