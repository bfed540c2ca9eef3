package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stwalsh4118/carparks/internal/logger"
	"github.com/stwalsh4118/carparks/internal/models"
	"github.com/stwalsh4118/carparks/internal/repository"
)

// Defaults applied to records created through the API.
const (
	ManualCarParkPrefix        = "MANUAL-"
	DefaultTypeOfParkingSystem = "ELECTRONIC PARKING"
	DefaultShortTermParking    = "NO"
	DefaultFreeParking         = "NO"
)

// Service-level errors
var (
	ErrCarParkNotFound    = errors.New("car park not found")
	ErrDuplicateCarPark   = errors.New("a car park with the same identity already exists")
	ErrInvalidCarPark     = errors.New("invalid car park")
	ErrMissingParameter   = errors.New("missing required parameter")
	ErrInvalidHeightRange = errors.New("min_height must not be greater than max_height")
)

// CarParkService defines the record operations exposed over HTTP.
type CarParkService interface {
	// List returns every record in ascending id order.
	List(ctx context.Context) ([]models.CarPark, error)

	// Get returns ErrCarParkNotFound if no record has the id.
	Get(ctx context.Context, id int64) (*models.CarPark, error)

	// Types returns the distinct car park types, sorted.
	Types(ctx context.Context) ([]string, error)

	// FilterByType matches the type exactly, ignoring case.
	// Returns ErrMissingParameter for a blank type.
	FilterByType(ctx context.Context, carParkType string) ([]models.CarPark, error)

	// FreeParking returns records whose free_parking is not NO or FALSE.
	FreeParking(ctx context.Context) ([]models.CarPark, error)

	// SearchByAddress matches a case-insensitive address substring.
	// Returns ErrMissingParameter for a blank query.
	SearchByAddress(ctx context.Context, query string) ([]models.CarPark, error)

	GroupByParkingSystem(ctx context.Context) ([]models.ParkingSystemCount, error)

	// AverageGantryHeight returns nil when there are no records.
	AverageGantryHeight(ctx context.Context) (*float64, error)

	// HeightRange returns records with gantry height inside the inclusive
	// bounds. Either bound may be nil. Returns ErrInvalidHeightRange when
	// min is greater than max.
	HeightRange(ctx context.Context, minHeight, maxHeight *float64) ([]models.CarPark, error)

	// Create fills defaults, validates and stores a new record.
	// Returns ErrInvalidCarPark or ErrDuplicateCarPark.
	Create(ctx context.Context, park models.CarPark) (*models.CarPark, error)

	// Update applies a partial update.
	// Returns ErrCarParkNotFound, ErrInvalidCarPark or ErrDuplicateCarPark.
	Update(ctx context.Context, id int64, patch models.CarParkPatch) (*models.CarPark, error)

	// Delete returns ErrCarParkNotFound if no record has the id.
	Delete(ctx context.Context, id int64) error
}

// carParkService is the concrete implementation of CarParkService.
type carParkService struct {
	repo repository.CarParkRepository
	log  *logger.Logger
}

// NewCarParkService creates a new instance of CarParkService.
func NewCarParkService(repo repository.CarParkRepository, log *logger.Logger) CarParkService {
	return &carParkService{
		repo: repo,
		log:  log,
	}
}

func (s *carParkService) List(ctx context.Context) ([]models.CarPark, error) {
	return s.list(ctx, "list", repository.Filter{})
}

func (s *carParkService) Get(ctx context.Context, id int64) (*models.CarPark, error) {
	park, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to query car park", err, map[string]interface{}{
			"id": id,
		})
		return nil, fmt.Errorf("failed to query car park: %w", err)
	}

	// Repository returns nil, nil when no record found
	if park == nil {
		return nil, ErrCarParkNotFound
	}
	return park, nil
}

func (s *carParkService) Types(ctx context.Context) ([]string, error) {
	types, err := s.repo.DistinctTypes(ctx)
	if err != nil {
		s.log.Error("Failed to query car park types", err, nil)
		return nil, fmt.Errorf("failed to query car park types: %w", err)
	}
	return types, nil
}

func (s *carParkService) FilterByType(ctx context.Context, carParkType string) ([]models.CarPark, error) {
	if strings.TrimSpace(carParkType) == "" {
		return nil, fmt.Errorf("%w: type", ErrMissingParameter)
	}
	return s.list(ctx, "filter by type", repository.Filter{CarParkType: carParkType})
}

func (s *carParkService) FreeParking(ctx context.Context) ([]models.CarPark, error) {
	return s.list(ctx, "free parking", repository.Filter{FreeParkingOnly: true})
}

func (s *carParkService) SearchByAddress(ctx context.Context, query string) ([]models.CarPark, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: address", ErrMissingParameter)
	}
	return s.list(ctx, "search by address", repository.Filter{AddressContains: query})
}

func (s *carParkService) GroupByParkingSystem(ctx context.Context) ([]models.ParkingSystemCount, error) {
	groups, err := s.repo.GroupByParkingSystem(ctx)
	if err != nil {
		s.log.Error("Failed to group car parks", err, nil)
		return nil, fmt.Errorf("failed to group car parks: %w", err)
	}
	return groups, nil
}

func (s *carParkService) AverageGantryHeight(ctx context.Context) (*float64, error) {
	avg, err := s.repo.AverageGantryHeight(ctx)
	if err != nil {
		s.log.Error("Failed to compute average gantry height", err, nil)
		return nil, fmt.Errorf("failed to compute average gantry height: %w", err)
	}
	return avg, nil
}

func (s *carParkService) HeightRange(ctx context.Context, minHeight, maxHeight *float64) ([]models.CarPark, error) {
	if minHeight != nil && maxHeight != nil && *minHeight > *maxHeight {
		s.log.Warn("Invalid height range provided", map[string]interface{}{
			"min_height": *minHeight,
			"max_height": *maxHeight,
		})
		return nil, fmt.Errorf("%w: got %g > %g", ErrInvalidHeightRange, *minHeight, *maxHeight)
	}
	return s.list(ctx, "height range", repository.Filter{
		MinGantryHeight: minHeight,
		MaxGantryHeight: maxHeight,
	})
}

func (s *carParkService) Create(ctx context.Context, park models.CarPark) (*models.CarPark, error) {
	applyCreateDefaults(&park)

	if strings.TrimSpace(park.Address) == "" || strings.TrimSpace(park.CarParkType) == "" {
		return nil, fmt.Errorf("%w: address and car_park_type are required", ErrInvalidCarPark)
	}
	if err := park.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCarPark, err)
	}

	created, err := s.repo.Create(ctx, &park)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.log.Warn("Rejected duplicate car park", map[string]interface{}{
				"car_park_no": park.CarParkNo,
			})
			return nil, ErrDuplicateCarPark
		}
		s.log.Error("Failed to create car park", err, map[string]interface{}{
			"car_park_no": park.CarParkNo,
		})
		return nil, fmt.Errorf("failed to create car park: %w", err)
	}

	s.log.Info("Car park created", map[string]interface{}{
		"id":          created.ID,
		"car_park_no": created.CarParkNo,
	})
	return created, nil
}

func (s *carParkService) Update(ctx context.Context, id int64, patch models.CarParkPatch) (*models.CarPark, error) {
	// Zero values pass validation, so only the patched fields are checked.
	var patched models.CarPark
	patch.Apply(&patched)
	if err := patched.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCarPark, err)
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateCarPark
		}
		s.log.Error("Failed to update car park", err, map[string]interface{}{
			"id": id,
		})
		return nil, fmt.Errorf("failed to update car park: %w", err)
	}

	if updated == nil {
		return nil, ErrCarParkNotFound
	}

	s.log.Info("Car park updated", map[string]interface{}{
		"id": id,
	})
	return updated, nil
}

func (s *carParkService) Delete(ctx context.Context, id int64) error {
	removed, err := s.repo.Delete(ctx, []int64{id})
	if err != nil {
		s.log.Error("Failed to delete car park", err, map[string]interface{}{
			"id": id,
		})
		return fmt.Errorf("failed to delete car park: %w", err)
	}

	if removed == 0 {
		return ErrCarParkNotFound
	}

	s.log.Info("Car park deleted", map[string]interface{}{
		"id": id,
	})
	return nil
}

func (s *carParkService) list(ctx context.Context, op string, filter repository.Filter) ([]models.CarPark, error) {
	parks, err := s.repo.List(ctx, filter)
	if err != nil {
		s.log.Error("Failed to list car parks", err, map[string]interface{}{
			"operation": op,
		})
		return nil, fmt.Errorf("failed to list car parks: %w", err)
	}

	s.log.Debug("Car parks listed", map[string]interface{}{
		"operation": op,
		"count":     len(parks),
	})
	return parks, nil
}

// applyCreateDefaults fills the fields an API client may leave out.
func applyCreateDefaults(park *models.CarPark) {
	if park.CarParkNo == "" {
		park.CarParkNo = ManualCarParkNo()
	}
	if park.TypeOfParkingSystem == "" {
		park.TypeOfParkingSystem = DefaultTypeOfParkingSystem
	}
	if park.ShortTermParking == "" {
		park.ShortTermParking = DefaultShortTermParking
	}
	if park.FreeParking == "" {
		park.FreeParking = DefaultFreeParking
	}
}

// ManualCarParkNo returns a fresh number of the form MANUAL-1A2B3C4D.
func ManualCarParkNo() string {
	return ManualCarParkPrefix + strings.ToUpper(uuid.NewString()[:8])
}
