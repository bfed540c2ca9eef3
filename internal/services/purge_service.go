package services

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/carparks/internal/logger"
	"github.com/stwalsh4118/carparks/internal/repository"
)

// PurgeService empties the record store.
type PurgeService struct {
	repo repository.CarParkRepository
	log  *logger.Logger
}

// NewPurgeService creates a new PurgeService.
func NewPurgeService(repo repository.CarParkRepository, log *logger.Logger) *PurgeService {
	return &PurgeService{
		repo: repo,
		log:  log,
	}
}

// PurgeAll deletes every record and returns how many were removed.
func (s *PurgeService) PurgeAll(ctx context.Context) (int64, error) {
	removed, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to purge car parks: %w", err)
	}

	s.log.Warn("All car park records deleted", map[string]interface{}{
		"removed": removed,
	})
	return removed, nil
}
