package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/carparks/internal/database"
	"github.com/stwalsh4118/carparks/internal/dataset"
	"github.com/stwalsh4118/carparks/internal/models"
	"github.com/stwalsh4118/carparks/internal/repository"
)

// MockCarParkRepository is a mock implementation of CarParkRepository for testing
type MockCarParkRepository struct {
	mock.Mock
}

func (m *MockCarParkRepository) park(args mock.Arguments) (*models.CarPark, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	park, ok := args.Get(0).(*models.CarPark)
	if !ok {
		return nil, args.Error(1)
	}
	return park, args.Error(1)
}

func (m *MockCarParkRepository) Create(ctx context.Context, park *models.CarPark) (*models.CarPark, error) {
	return m.park(m.Called(ctx, park))
}

func (m *MockCarParkRepository) FindByID(ctx context.Context, id int64) (*models.CarPark, error) {
	return m.park(m.Called(ctx, id))
}

func (m *MockCarParkRepository) FindByIdentity(ctx context.Context, identity models.Identity) (*models.CarPark, error) {
	return m.park(m.Called(ctx, identity))
}

func (m *MockCarParkRepository) List(ctx context.Context, filter repository.Filter) ([]models.CarPark, error) {
	args := m.Called(ctx, filter)
	parks, _ := args.Get(0).([]models.CarPark)
	return parks, args.Error(1)
}

func (m *MockCarParkRepository) Count(ctx context.Context, filter repository.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCarParkRepository) Update(ctx context.Context, id int64, patch models.CarParkPatch) (*models.CarPark, error) {
	return m.park(m.Called(ctx, id, patch))
}

func (m *MockCarParkRepository) Delete(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCarParkRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCarParkRepository) GroupByParkingSystem(ctx context.Context) ([]models.ParkingSystemCount, error) {
	args := m.Called(ctx)
	groups, _ := args.Get(0).([]models.ParkingSystemCount)
	return groups, args.Error(1)
}

func (m *MockCarParkRepository) AverageGantryHeight(ctx context.Context) (*float64, error) {
	args := m.Called(ctx)
	avg, _ := args.Get(0).(*float64)
	return avg, args.Error(1)
}

func (m *MockCarParkRepository) DistinctTypes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	types, _ := args.Get(0).([]string)
	return types, args.Error(1)
}

// setupStore opens a fresh SQLite store in a temp directory.
func setupStore(t *testing.T) (repository.CarParkRepository, *database.SQLite) {
	t.Helper()

	db, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "carparks.db"))
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.EnsureIdentityIndex(context.Background()))

	return repository.NewSQLiteCarParkRepository(db), db
}

// dropIdentityIndex lets a test store duplicate identities, as tables
// created before the unique index may hold.
func dropIdentityIndex(t *testing.T, db *database.SQLite) {
	t.Helper()
	_, err := db.DB.Exec("DROP INDEX carparks_identity_key")
	require.NoError(t, err)
}

// writeCSV writes a dataset with the standard header followed by rows.
func writeCSV(t *testing.T, rows ...string) string {
	t.Helper()

	content := strings.Join(dataset.RequiredColumns, ",") + "\n" + strings.Join(rows, "\n") + "\n"
	path := filepath.Join(t.TempDir(), "carparks.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func ptr[T any](v T) *T {
	return &v
}

func sampleCarPark(no, address string) models.CarPark {
	return models.CarPark{
		CarParkNo:           no,
		Address:             address,
		XCoord:              30314.7936,
		YCoord:              31490.4942,
		CarParkType:         "SURFACE CAR PARK",
		TypeOfParkingSystem: "ELECTRONIC PARKING",
		ShortTermParking:    "WHOLE DAY",
		FreeParking:         "NO",
		NightParking:        true,
		CarParkDecks:        0,
		GantryHeight:        2.1,
	}
}
