// Package dataset reads the car park CSV export and decodes its rows into
// car park records.
package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// RequiredColumns lists the header names every input file must carry.
// Column order in the file does not matter.
var RequiredColumns = []string{
	"car_park_no",
	"address",
	"x_coord",
	"y_coord",
	"car_park_type",
	"type_of_parking_system",
	"short_term_parking",
	"free_parking",
	"night_parking",
	"car_park_decks",
	"gantry_height",
	"car_park_basement",
}

// ErrFileNotFound is returned when the input path does not exist.
var ErrFileNotFound = errors.New("dataset file not found")

// ParseError reports a file that is not well-formed CSV.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("failed to parse %s at line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingColumnsError lists required columns absent from the header, in
// RequiredColumns order.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns in CSV: " + strings.Join(e.Columns, ", ")
}

// RowError reports a data row that could not be turned into a valid record.
type RowError struct {
	Line      int    `json:"line"`
	CarParkNo string `json:"car_park_no"`
	Column    string `json:"column"`
	Value     string `json:"value"`
	Reason    string `json:"reason"`
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d (car park %q): %s %q: %s", e.Line, e.CarParkNo, e.Column, e.Value, e.Reason)
}
