package services

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/carparks/internal/logger"
	"github.com/stwalsh4118/carparks/internal/models"
	"github.com/stwalsh4118/carparks/internal/repository"
)

// DedupeReport summarises one deduplication sweep.
type DedupeReport struct {
	Scanned    int     `json:"scanned"`
	Removed    int64   `json:"removed"`
	RemovedIDs []int64 `json:"removed_ids"`
}

// DedupeService removes records that repeat an identity tuple.
type DedupeService struct {
	repo repository.CarParkRepository
	log  *logger.Logger
}

// NewDedupeService creates a new DedupeService.
func NewDedupeService(repo repository.CarParkRepository, log *logger.Logger) *DedupeService {
	return &DedupeService{
		repo: repo,
		log:  log,
	}
}

// Run walks every record in ascending id order and deletes each one whose
// identity was already seen, so the lowest id of every group survives.
// Running it twice removes nothing the second time.
func (s *DedupeService) Run(ctx context.Context) (*DedupeReport, error) {
	parks, err := s.repo.List(ctx, repository.Filter{})
	if err != nil {
		return nil, fmt.Errorf("failed to scan car parks: %w", err)
	}

	report := &DedupeReport{Scanned: len(parks), RemovedIDs: duplicateIDs(parks)}

	if len(report.RemovedIDs) > 0 {
		removed, err := s.repo.Delete(ctx, report.RemovedIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to delete duplicates: %w", err)
		}
		report.Removed = removed
	}

	s.log.Info("Deduplication complete", map[string]interface{}{
		"scanned": report.Scanned,
		"removed": report.Removed,
	})
	return report, nil
}

// duplicateIDs returns the ids of every record after the first with the same
// identity. parks must be in ascending id order.
func duplicateIDs(parks []models.CarPark) []int64 {
	seen := make(map[models.Identity]struct{}, len(parks))
	ids := []int64{}
	for _, p := range parks {
		key := p.Identity()
		if _, ok := seen[key]; ok {
			ids = append(ids, p.ID)
			continue
		}
		seen[key] = struct{}{}
	}
	return ids
}
