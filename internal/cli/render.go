package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
	"github.com/stwalsh4118/carparks/internal/models"
	"github.com/stwalsh4118/carparks/internal/services"
)

// newTable returns a table writer that renders to w with headers as given.
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.Style().Format.Header = text.FormatDefault
	return t
}

func renderIngestReport(w io.Writer, report *services.IngestReport) error {
	fmt.Fprintf(w, "Loaded %s\n", report.Path)

	t := newTable(w)
	t.AppendHeader(table.Row{"Rows", "Inserted", "Duplicates skipped", "Invalid"})
	t.AppendRow(table.Row{report.Rows, report.Inserted, report.DuplicatesSkipped, len(report.Invalid)})
	t.Render()

	if len(report.Invalid) == 0 {
		return nil
	}

	fmt.Fprintf(w, "\n%d row(s) were not loaded:\n", len(report.Invalid))
	rows := newTable(w)
	rows.AppendHeader(table.Row{"Line", "Car park", "Column", "Value", "Reason"})
	for _, e := range report.Invalid {
		rows.AppendRow(table.Row{e.Line, e.CarParkNo, e.Column, e.Value, e.Reason})
	}
	rows.Render()
	return nil
}

// DedupeResult is the output of the dedupe command.
type DedupeResult struct {
	*services.DedupeReport
	// IndexCreated is true when the sweep made room for an identity index
	// the store was missing.
	IndexCreated bool `json:"identity_index_created"`
}

func renderDedupeReport(w io.Writer, result DedupeResult) error {
	fmt.Fprintf(w, "Scanned %d records, removed %d duplicate(s).\n", result.Scanned, result.Removed)
	if result.IndexCreated {
		fmt.Fprintln(w, "Created the identity index.")
	}
	return nil
}

func renderDataSummary(w io.Writer, summary services.DataSummary) error {
	t := newTable(w)
	t.AppendHeader(table.Row{"Total car parks", "Valid addresses", "Sentinel addresses"})
	t.AppendRow(table.Row{summary.Total, summary.Valid, summary.Sentinel})
	t.Render()

	if summary.Sentinel == 0 {
		fmt.Fprintln(w, "All addresses are valid.")
	} else {
		fmt.Fprintf(w, "%d address(es) need fixing.\n", summary.Sentinel)
	}
	return nil
}

// StoreSummary is the output of the summary command.
type StoreSummary struct {
	Addresses           services.DataSummary        `json:"addresses"`
	ParkingSystems      []models.ParkingSystemCount `json:"parking_systems"`
	AverageGantryHeight *float64                    `json:"average_gantry_height"`
}

func renderStoreSummary(w io.Writer, summary *StoreSummary) error {
	if err := renderDataSummary(w, summary.Addresses); err != nil {
		return err
	}

	if len(summary.ParkingSystems) > 0 {
		fmt.Fprintln(w)
		t := newTable(w)
		t.AppendHeader(table.Row{"Parking system", "Car parks"})
		for _, g := range summary.ParkingSystems {
			t.AppendRow(table.Row{g.TypeOfParkingSystem, g.Total})
		}
		t.Render()
	}

	if summary.AverageGantryHeight == nil {
		fmt.Fprintln(w, "Average gantry height: n/a")
	} else {
		fmt.Fprintf(w, "Average gantry height: %.2f m\n", *summary.AverageGantryHeight)
	}
	return nil
}

func renderSentinelRecords(w io.Writer, parks []models.CarPark) error {
	fmt.Fprintf(w, "Found %d record(s) with %s addresses:\n", len(parks), models.SentinelAddress)
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Car park", "Type", "X", "Y"})
	for _, p := range parks {
		t.AppendRow(table.Row{p.ID, p.CarParkNo, p.CarParkType, p.XCoord, p.YCoord})
	}
	t.Render()
	return nil
}

func renderRepairReport(w io.Writer, report *services.RepairReport) error {
	if len(report.Fixed) > 0 {
		t := newTable(w)
		t.AppendHeader(table.Row{"ID", "Car park", "New address"})
		for _, f := range report.Fixed {
			t.AppendRow(table.Row{f.ID, f.CarParkNo, f.Address})
		}
		t.Render()
	}
	fmt.Fprintf(w, "Fixed %d record(s).\n", len(report.Fixed))

	if len(report.Unresolved) > 0 {
		if report.DeletionConfirmed {
			fmt.Fprintf(w, "Deleted %d record(s) with %s addresses.\n", report.Deleted, models.SentinelAddress)
		} else {
			fmt.Fprintf(w, "Keeping %d record(s) with %s addresses.\n", len(report.Unresolved), models.SentinelAddress)
		}
	}

	fmt.Fprintln(w)
	return renderDataSummary(w, report.After)
}

// PurgeResult is the output of the purge command.
type PurgeResult struct {
	Deleted   int64 `json:"deleted"`
	Cancelled bool  `json:"cancelled"`
}

func renderPurgeResult(w io.Writer, result PurgeResult) error {
	if result.Cancelled {
		fmt.Fprintln(w, "Purge cancelled, no records deleted.")
		return nil
	}
	fmt.Fprintf(w, "Deleted %d car park record(s).\n", result.Deleted)
	return nil
}
