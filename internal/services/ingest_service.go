package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/stwalsh4118/carparks/internal/dataset"
	"github.com/stwalsh4118/carparks/internal/logger"
	"github.com/stwalsh4118/carparks/internal/repository"
)

// IngestOptions tunes a load.
type IngestOptions struct {
	// Strict aborts the load on the first invalid row instead of skipping it.
	Strict bool
}

// IngestReport summarises one load. Rows equals Inserted plus
// DuplicatesSkipped plus len(Invalid) when the load runs to completion.
type IngestReport struct {
	Path              string             `json:"path"`
	Rows              int                `json:"rows"`
	Inserted          int                `json:"inserted"`
	DuplicatesSkipped int                `json:"duplicates_skipped"`
	Invalid           []dataset.RowError `json:"invalid"`
}

// IngestService loads car park CSV exports into the store.
type IngestService struct {
	repo repository.CarParkRepository
	log  *logger.Logger
	opts IngestOptions
}

// NewIngestService creates a new IngestService.
func NewIngestService(repo repository.CarParkRepository, log *logger.Logger, opts IngestOptions) *IngestService {
	return &IngestService{
		repo: repo,
		log:  log,
		opts: opts,
	}
}

// LoadFile parses the CSV at path and loads it with Load. The file is fully
// parsed before the store is touched, so a missing file, malformed CSV or
// missing column leaves the store unchanged.
//
// Errors: dataset.ErrFileNotFound, *dataset.ParseError and
// *dataset.MissingColumnsError before any write, then anything Load returns.
func (s *IngestService) LoadFile(ctx context.Context, path string) (*IngestReport, error) {
	file, err := dataset.ReadFile(path)
	if err != nil {
		s.log.Error("Failed to read dataset", err, map[string]interface{}{
			"path": path,
		})
		return nil, err
	}
	return s.Load(ctx, file)
}

// Load inserts every row of an already parsed file whose identity is not
// already stored.
//
// Errors: a *dataset.RowError in strict mode; store failures. On a mid-run
// failure the partial report is returned together with the error.
func (s *IngestService) Load(ctx context.Context, file *dataset.File) (*IngestReport, error) {
	path := file.Path
	s.log.Info("Loading dataset", map[string]interface{}{
		"path":   path,
		"rows":   len(file.Rows),
		"strict": s.opts.Strict,
	})

	report := &IngestReport{Path: path, Invalid: []dataset.RowError{}}

	for _, row := range file.Rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Rows++

		identity, err := row.Identity()
		if err != nil {
			if err := s.reject(report, err); err != nil {
				return report, err
			}
			continue
		}

		existing, err := s.repo.FindByIdentity(ctx, identity)
		if err != nil {
			return report, fmt.Errorf("failed to look up row at line %d: %w", row.Line, err)
		}
		if existing != nil {
			report.DuplicatesSkipped++
			continue
		}

		park, err := row.CarPark()
		if err != nil {
			if err := s.reject(report, err); err != nil {
				return report, err
			}
			continue
		}

		if _, err := s.repo.Create(ctx, park); err != nil {
			// Lost a race with another writer on the same identity.
			if errors.Is(err, repository.ErrDuplicate) {
				report.DuplicatesSkipped++
				continue
			}
			return report, fmt.Errorf("failed to insert row at line %d: %w", row.Line, err)
		}
		report.Inserted++
	}

	s.log.Info("Dataset loaded", map[string]interface{}{
		"path":               path,
		"rows":               report.Rows,
		"inserted":           report.Inserted,
		"duplicates_skipped": report.DuplicatesSkipped,
		"invalid":            len(report.Invalid),
	})

	return report, nil
}

// reject records an invalid row. It returns the row error when the load
// must stop.
func (s *IngestService) reject(report *IngestReport, err error) error {
	var rowErr *dataset.RowError
	if !errors.As(err, &rowErr) {
		return err
	}

	s.log.Warn("Skipping invalid row", map[string]interface{}{
		"line":        rowErr.Line,
		"car_park_no": rowErr.CarParkNo,
		"column":      rowErr.Column,
		"reason":      rowErr.Reason,
	})

	if s.opts.Strict {
		return rowErr
	}
	report.Invalid = append(report.Invalid, *rowErr)
	return nil
}
