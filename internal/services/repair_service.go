package services

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/stwalsh4118/carparks/internal/logger"
	"github.com/stwalsh4118/carparks/internal/models"
	"github.com/stwalsh4118/carparks/internal/repository"
)

// knownAddresses maps car park numbers to the address their sentinel should
// be replaced with.
var knownAddresses = map[string]string{
	"HE19": "HENDERSON ROAD",
	"Q49":  "QUEENSTOWN AREA",
	"TE26": "TELOK BLANGAH AREA",
	"W16":  "WOODLANDS AREA",
}

// KnownAddress returns the replacement address for a car park number.
func KnownAddress(carParkNo string) (string, bool) {
	address, ok := knownAddresses[carParkNo]
	return address, ok
}

// KnownAddresses returns a copy of the replacement table.
func KnownAddresses() map[string]string {
	return maps.Clone(knownAddresses)
}

// RepairPhase is a step of the repair sweep.
type RepairPhase string

const (
	PhaseIdle               RepairPhase = "idle"
	PhaseScanning           RepairPhase = "scanning"
	PhaseFixing             RepairPhase = "fixing"
	PhaseConfirmingDeletion RepairPhase = "confirming_deletion"
	PhaseDeleting           RepairPhase = "deleting"
	PhaseSkippingDeletion   RepairPhase = "skipping_deletion"
	PhaseDone               RepairPhase = "done"
)

// ConfirmFunc is asked whether the unresolved sentinel records should be
// deleted. A nil ConfirmFunc answers no.
type ConfirmFunc func(ctx context.Context, unresolved []models.CarPark) (bool, error)

// DataSummary counts records by address state.
type DataSummary struct {
	Total    int64 `json:"total"`
	Valid    int64 `json:"valid"`
	Sentinel int64 `json:"sentinel"`
}

// AddressFix is one sentinel address that was rewritten.
type AddressFix struct {
	ID        int64  `json:"id"`
	CarParkNo string `json:"car_park_no"`
	Address   string `json:"address"`
}

// RepairReport summarises one repair sweep.
type RepairReport struct {
	Before            DataSummary      `json:"before"`
	After             DataSummary      `json:"after"`
	Found             []models.CarPark `json:"found"`
	Fixed             []AddressFix     `json:"fixed"`
	Unresolved        []models.CarPark `json:"unresolved"`
	DeletionConfirmed bool             `json:"deletion_confirmed"`
	Deleted           int64            `json:"deleted"`
	Phases            []RepairPhase    `json:"phases"`
}

// RepairService fixes records whose address is the export sentinel.
type RepairService struct {
	repo repository.CarParkRepository
	log  *logger.Logger
}

// NewRepairService creates a new RepairService.
func NewRepairService(repo repository.CarParkRepository, log *logger.Logger) *RepairService {
	return &RepairService{
		repo: repo,
		log:  log,
	}
}

// Summarize counts all records and those carrying the sentinel address.
func (s *RepairService) Summarize(ctx context.Context) (DataSummary, error) {
	total, err := s.repo.Count(ctx, repository.Filter{})
	if err != nil {
		return DataSummary{}, fmt.Errorf("failed to count car parks: %w", err)
	}

	sentinel, err := s.repo.Count(ctx, repository.Filter{Address: models.SentinelAddress})
	if err != nil {
		return DataSummary{}, fmt.Errorf("failed to count sentinel addresses: %w", err)
	}

	return DataSummary{
		Total:    total,
		Valid:    total - sentinel,
		Sentinel: sentinel,
	}, nil
}

// Repair rewrites every sentinel address that has a known replacement. If
// sentinel records remain, confirm decides whether they are deleted.
func (s *RepairService) Repair(ctx context.Context, confirm ConfirmFunc) (*RepairReport, error) {
	report := &RepairReport{
		Fixed:      []AddressFix{},
		Unresolved: []models.CarPark{},
		Phases:     []RepairPhase{PhaseIdle},
	}
	enter := func(p RepairPhase) {
		report.Phases = append(report.Phases, p)
		s.log.Debug("Repair phase", map[string]interface{}{
			"phase": string(p),
		})
	}

	enter(PhaseScanning)
	before, err := s.Summarize(ctx)
	if err != nil {
		return nil, err
	}
	report.Before = before

	found, err := s.Sentinels(ctx)
	if err != nil {
		return nil, err
	}
	report.Found = found

	if len(found) == 0 {
		enter(PhaseDone)
		report.After = before
		return report, nil
	}

	enter(PhaseFixing)
	for _, park := range found {
		address, ok := KnownAddress(park.CarParkNo)
		if !ok {
			s.log.Info("No address mapping for car park", map[string]interface{}{
				"id":          park.ID,
				"car_park_no": park.CarParkNo,
			})
			continue
		}

		updated, err := s.repo.Update(ctx, park.ID, models.CarParkPatch{Address: &address})
		if err != nil {
			// The repaired record would duplicate one already stored.
			if errors.Is(err, repository.ErrDuplicate) {
				s.log.Warn("Address fix collides with an existing record", map[string]interface{}{
					"id":          park.ID,
					"car_park_no": park.CarParkNo,
					"address":     address,
				})
				continue
			}
			return nil, fmt.Errorf("failed to fix address of car park %d: %w", park.ID, err)
		}
		if updated == nil {
			continue
		}

		report.Fixed = append(report.Fixed, AddressFix{ID: park.ID, CarParkNo: park.CarParkNo, Address: address})
		s.log.Info("Fixed sentinel address", map[string]interface{}{
			"id":          park.ID,
			"car_park_no": park.CarParkNo,
			"address":     address,
		})
	}

	remaining, err := s.Sentinels(ctx)
	if err != nil {
		return nil, err
	}
	report.Unresolved = remaining

	if len(remaining) > 0 {
		enter(PhaseConfirmingDeletion)

		confirmed := false
		if confirm != nil {
			confirmed, err = confirm(ctx, remaining)
			if err != nil {
				return nil, fmt.Errorf("failed to confirm deletion: %w", err)
			}
		}
		report.DeletionConfirmed = confirmed

		if confirmed {
			enter(PhaseDeleting)
			ids := make([]int64, len(remaining))
			for i, park := range remaining {
				ids[i] = park.ID
			}
			deleted, err := s.repo.Delete(ctx, ids)
			if err != nil {
				return nil, fmt.Errorf("failed to delete unresolved records: %w", err)
			}
			report.Deleted = deleted
		} else {
			enter(PhaseSkippingDeletion)
		}
	}

	enter(PhaseDone)
	after, err := s.Summarize(ctx)
	if err != nil {
		return nil, err
	}
	report.After = after

	s.log.Info("Repair complete", map[string]interface{}{
		"found":      len(found),
		"fixed":      len(report.Fixed),
		"unresolved": len(report.Unresolved),
		"deleted":    report.Deleted,
	})
	return report, nil
}

// Sentinels returns the records whose address is the export sentinel, in
// ascending id order.
func (s *RepairService) Sentinels(ctx context.Context) ([]models.CarPark, error) {
	parks, err := s.repo.List(ctx, repository.Filter{Address: models.SentinelAddress})
	if err != nil {
		return nil, fmt.Errorf("failed to query sentinel addresses: %w", err)
	}
	return parks, nil
}
