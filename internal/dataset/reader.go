package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

const byteOrderMark = "\ufeff"

// File is a fully parsed input file.
type File struct {
	Path   string
	Header []string
	Rows   []Row
}

// ReadFile opens and parses the CSV at path. The whole file is read before
// returning, so callers see parse errors before touching the store.
func ReadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return Parse(f, path)
}

// Parse reads CSV from r. name identifies the source in errors.
// Every data row must have as many fields as the header.
func Parse(r io.Reader, name string) (*File, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Path: name, Err: errors.New("file is empty, expected a header row")}
		}
		return nil, &ParseError{Path: name, Line: lineOf(err), Err: err}
	}

	header = normalizeHeader(header)
	index := make(map[string]int, len(header))
	for i, column := range header {
		if _, seen := index[column]; !seen {
			index[column] = i
		}
	}

	var missing []string
	for _, column := range RequiredColumns {
		if _, ok := index[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	file := &File{Path: name, Header: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Path: name, Line: lineOf(err), Err: err}
		}

		line, _ := reader.FieldPos(0)
		file.Rows = append(file.Rows, Row{Line: line, values: record, index: index})
	}

	return file, nil
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, column := range header {
		if i == 0 {
			column = strings.TrimPrefix(column, byteOrderMark)
		}
		out[i] = strings.TrimSpace(column)
	}
	return out
}

func lineOf(err error) int {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return csvErr.Line
	}
	return 0
}
