package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/carparks/internal/models"
	"github.com/stwalsh4118/carparks/internal/services"
)

// RepairOptions holds flags for the repair command.
type RepairOptions struct {
	Yes              bool
	DeleteUnresolved bool
}

// RepairResult is the output of the repair command. Report is nil when
// there was nothing to repair or the fix was declined.
type RepairResult struct {
	Before  services.DataSummary   `json:"before"`
	Skipped bool                   `json:"skipped"`
	Report  *services.RepairReport `json:"report,omitempty"`
}

// NewRepairCommand creates the repair command.
func NewRepairCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RepairOptions{}

	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Fix records whose address is " + models.SentinelAddress,
		Long: `Fix records whose address is the spreadsheet sentinel ` + models.SentinelAddress + `.

Records with a known car park number get their address replaced. Any that
remain can then be deleted. Both steps ask for confirmation on stdin unless
--yes and --delete-unresolved answer them.`,
		Args: commandArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepair(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "fix records without asking")
	cmd.Flags().BoolVar(&opts.DeleteUnresolved, "delete-unresolved", false, "delete records that could not be fixed without asking")

	return cmd
}

func runRepair(rootOpts *RootOptions, opts *RepairOptions, cmd *cobra.Command) error {
	s, err := rootOpts.openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	repair := services.NewRepairService(s.store.CarParks, s.log)
	text := s.out.Format != "json"
	result := RepairResult{}

	result.Before, err = repair.Summarize(ctx)
	if err != nil {
		return s.out.storeFailure(err)
	}
	if text {
		_ = renderDataSummary(s.out.Writer, result.Before)
	}

	if result.Before.Sentinel == 0 {
		return s.out.Report(result, func(w io.Writer) error {
			fmt.Fprintf(w, "No %s addresses found. The store is clean.\n", models.SentinelAddress)
			return nil
		})
	}

	if text {
		found, err := repair.Sentinels(ctx)
		if err != nil {
			return s.out.storeFailure(err)
		}
		fmt.Fprintln(s.out.Writer)
		_ = renderSentinelRecords(s.out.Writer, found)
	}

	if !opts.Yes {
		ok, err := s.prompt.Confirm("Fix these records?", true)
		if err != nil {
			return s.out.Fail(ExitCommandError, Problem{Code: ErrCodePrompt, Message: err.Error()}, err)
		}
		if !ok {
			result.Skipped = true
			return s.out.Report(result, func(w io.Writer) error {
				fmt.Fprintln(w, "Skipping fixes.")
				return nil
			})
		}
	}

	confirm := func(ctx context.Context, unresolved []models.CarPark) (bool, error) {
		if opts.DeleteUnresolved {
			return true, nil
		}
		return s.prompt.Confirm(fmt.Sprintf("Delete the %d record(s) that could not be fixed?", len(unresolved)), false)
	}

	result.Report, err = repair.Repair(ctx, confirm)
	if err != nil {
		return s.out.storeFailure(err)
	}

	return s.out.Report(result, func(w io.Writer) error {
		fmt.Fprintln(w)
		return renderRepairReport(w, result.Report)
	})
}
