package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/carparks/internal/models"
)

// ErrDuplicate is returned by Create and Update when the write would give two
// records the same identity tuple.
var ErrDuplicate = errors.New("car park with the same identity already exists")

// deleteChunkSize bounds the number of ids bound into a single DELETE.
const deleteChunkSize = 500

// Filter narrows List and Count. Zero-valued fields do not filter.
type Filter struct {
	// CarParkType matches the type exactly, ignoring case.
	CarParkType string
	// Address matches the address exactly.
	Address string
	// AddressContains matches a case-insensitive substring of the address.
	AddressContains string
	// FreeParkingOnly keeps records whose free_parking is not NO or FALSE.
	FreeParkingOnly bool
	// MinGantryHeight and MaxGantryHeight are inclusive bounds.
	MinGantryHeight *float64
	MaxGantryHeight *float64
}

// CarParkRepository defines the data access operations for car park records.
type CarParkRepository interface {
	// Create inserts a record and returns it with its id and timestamps.
	// Returns ErrDuplicate if a record with the same identity exists.
	Create(ctx context.Context, park *models.CarPark) (*models.CarPark, error)

	// FindByID returns nil, nil if no record has the id.
	FindByID(ctx context.Context, id int64) (*models.CarPark, error)

	// FindByIdentity returns the lowest-id record with the identity tuple,
	// or nil, nil if there is none.
	FindByIdentity(ctx context.Context, identity models.Identity) (*models.CarPark, error)

	// List returns matching records in ascending id order. The result is
	// never nil.
	List(ctx context.Context, filter Filter) ([]models.CarPark, error)

	// Count returns the number of matching records.
	Count(ctx context.Context, filter Filter) (int64, error)

	// Update applies the non-nil fields of patch and returns the updated
	// record, or nil, nil if no record has the id.
	// Returns ErrDuplicate if the update collides with another identity.
	Update(ctx context.Context, id int64, patch models.CarParkPatch) (*models.CarPark, error)

	// Delete removes the records with the given ids and returns how many
	// were removed. Unknown ids are ignored.
	Delete(ctx context.Context, ids []int64) (int64, error)

	// DeleteAll removes every record and returns how many were removed.
	DeleteAll(ctx context.Context) (int64, error)

	// GroupByParkingSystem counts records per parking system, ordered by name.
	GroupByParkingSystem(ctx context.Context) ([]models.ParkingSystemCount, error)

	// AverageGantryHeight returns nil when the store is empty.
	AverageGantryHeight(ctx context.Context) (*float64, error)

	// DistinctTypes returns the distinct car park types in sorted order.
	DistinctTypes(ctx context.Context) ([]string, error)
}

// rowScanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// rowIterator is the subset of a result set the repository walks.
type rowIterator interface {
	rowScanner
	Next() bool
	Err() error
	Close()
}

// querier hides the driver behind the three calls the repository makes.
type querier interface {
	queryRow(ctx context.Context, query string, args ...any) rowScanner
	query(ctx context.Context, query string, args ...any) (rowIterator, error)
	exec(ctx context.Context, query string, args ...any) (int64, error)
}

// carParkRepository is the SQL implementation of CarParkRepository shared by
// the PostgreSQL and SQLite stores.
type carParkRepository struct {
	q           querier
	dialect     dialect
	isDuplicate func(error) bool
	now         func() time.Time
}

const carParkColumns = `id, car_park_no, address, x_coord, y_coord, car_park_type,
	type_of_parking_system, short_term_parking, free_parking, night_parking,
	car_park_decks, gantry_height, car_park_basement, created_at, updated_at`

func scanCarPark(row rowScanner) (*models.CarPark, error) {
	var park models.CarPark
	err := row.Scan(
		&park.ID,
		&park.CarParkNo,
		&park.Address,
		&park.XCoord,
		&park.YCoord,
		&park.CarParkType,
		&park.TypeOfParkingSystem,
		&park.ShortTermParking,
		&park.FreeParking,
		&park.NightParking,
		&park.CarParkDecks,
		&park.GantryHeight,
		&park.CarParkBasement,
		&park.CreatedAt,
		&park.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &park, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}

func (r *carParkRepository) Create(ctx context.Context, park *models.CarPark) (*models.CarPark, error) {
	now := r.now()
	b := r.dialect.builder()
	values := []string{
		b.arg(park.CarParkNo),
		b.arg(park.Address),
		b.arg(park.XCoord),
		b.arg(park.YCoord),
		b.arg(park.CarParkType),
		b.arg(park.TypeOfParkingSystem),
		b.arg(park.ShortTermParking),
		b.arg(park.FreeParking),
		b.arg(park.NightParking),
		b.arg(park.CarParkDecks),
		b.arg(park.GantryHeight),
		b.arg(park.CarParkBasement),
		b.arg(now),
		b.arg(now),
	}

	query := fmt.Sprintf(`
		INSERT INTO carparks (
			car_park_no, address, x_coord, y_coord, car_park_type,
			type_of_parking_system, short_term_parking, free_parking, night_parking,
			car_park_decks, gantry_height, car_park_basement, created_at, updated_at
		) VALUES (%s)
		RETURNING %s
	`, strings.Join(values, ", "), carParkColumns)

	created, err := scanCarPark(r.q.queryRow(ctx, query, b.args...))
	if err != nil {
		if r.isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to insert car park %q: %w", park.CarParkNo, err)
	}
	return created, nil
}

func (r *carParkRepository) FindByID(ctx context.Context, id int64) (*models.CarPark, error) {
	b := r.dialect.builder()
	query := fmt.Sprintf("SELECT %s FROM carparks WHERE id = %s", carParkColumns, b.arg(id))

	park, err := scanCarPark(r.q.queryRow(ctx, query, b.args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query car park %d: %w", id, err)
	}
	return park, nil
}

func (r *carParkRepository) FindByIdentity(ctx context.Context, identity models.Identity) (*models.CarPark, error) {
	b := r.dialect.builder()
	b.where("car_park_no = " + b.arg(identity.CarParkNo))
	b.where("address = " + b.arg(identity.Address))
	b.where("car_park_type = " + b.arg(identity.CarParkType))
	b.where("gantry_height = " + b.arg(identity.GantryHeight))
	b.where("type_of_parking_system = " + b.arg(identity.TypeOfParkingSystem))

	query := fmt.Sprintf("SELECT %s FROM carparks%s ORDER BY id LIMIT 1", carParkColumns, b.whereClause())

	park, err := scanCarPark(r.q.queryRow(ctx, query, b.args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query car park by identity %q: %w", identity.CarParkNo, err)
	}
	return park, nil
}

func (r *carParkRepository) List(ctx context.Context, filter Filter) ([]models.CarPark, error) {
	b := r.dialect.builder()
	b.applyFilter(filter)
	query := fmt.Sprintf("SELECT %s FROM carparks%s ORDER BY id", carParkColumns, b.whereClause())

	rows, err := r.q.query(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list car parks: %w", err)
	}
	defer rows.Close()

	parks := []models.CarPark{}
	for rows.Next() {
		park, err := scanCarPark(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan car park row: %w", err)
		}
		parks = append(parks, *park)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating car park rows: %w", err)
	}
	return parks, nil
}

func (r *carParkRepository) Count(ctx context.Context, filter Filter) (int64, error) {
	b := r.dialect.builder()
	b.applyFilter(filter)
	query := "SELECT COUNT(*) FROM carparks" + b.whereClause()

	var total int64
	if err := r.q.queryRow(ctx, query, b.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count car parks: %w", err)
	}
	return total, nil
}

func (r *carParkRepository) Update(ctx context.Context, id int64, patch models.CarParkPatch) (*models.CarPark, error) {
	if patch.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	b := r.dialect.builder()
	sets := b.assignments(patch)
	sets = append(sets, "updated_at = "+b.arg(r.now()))

	query := fmt.Sprintf("UPDATE carparks SET %s WHERE id = %s RETURNING %s",
		strings.Join(sets, ", "), b.arg(id), carParkColumns)

	park, err := scanCarPark(r.q.queryRow(ctx, query, b.args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		if r.isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to update car park %d: %w", id, err)
	}
	return park, nil
}

func (r *carParkRepository) Delete(ctx context.Context, ids []int64) (int64, error) {
	var removed int64
	for start := 0; start < len(ids); start += deleteChunkSize {
		end := min(start+deleteChunkSize, len(ids))

		b := r.dialect.builder()
		placeholders := make([]string, 0, end-start)
		for _, id := range ids[start:end] {
			placeholders = append(placeholders, b.arg(id))
		}

		query := fmt.Sprintf("DELETE FROM carparks WHERE id IN (%s)", strings.Join(placeholders, ", "))
		n, err := r.q.exec(ctx, query, b.args...)
		if err != nil {
			return removed, fmt.Errorf("failed to delete car parks: %w", err)
		}
		removed += n
	}
	return removed, nil
}

func (r *carParkRepository) DeleteAll(ctx context.Context) (int64, error) {
	n, err := r.q.exec(ctx, "DELETE FROM carparks")
	if err != nil {
		return 0, fmt.Errorf("failed to delete all car parks: %w", err)
	}
	return n, nil
}

func (r *carParkRepository) GroupByParkingSystem(ctx context.Context) ([]models.ParkingSystemCount, error) {
	query := `
		SELECT type_of_parking_system, COUNT(*)
		FROM carparks
		GROUP BY type_of_parking_system
		ORDER BY type_of_parking_system
	`

	rows, err := r.q.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to group car parks by parking system: %w", err)
	}
	defer rows.Close()

	groups := []models.ParkingSystemCount{}
	for rows.Next() {
		var g models.ParkingSystemCount
		if err := rows.Scan(&g.TypeOfParkingSystem, &g.Total); err != nil {
			return nil, fmt.Errorf("failed to scan parking system row: %w", err)
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating parking system rows: %w", err)
	}
	return groups, nil
}

func (r *carParkRepository) AverageGantryHeight(ctx context.Context) (*float64, error) {
	var avg *float64
	if err := r.q.queryRow(ctx, "SELECT AVG(gantry_height) FROM carparks").Scan(&avg); err != nil {
		return nil, fmt.Errorf("failed to compute average gantry height: %w", err)
	}
	return avg, nil
}

func (r *carParkRepository) DistinctTypes(ctx context.Context) ([]string, error) {
	rows, err := r.q.query(ctx, "SELECT DISTINCT car_park_type FROM carparks ORDER BY car_park_type")
	if err != nil {
		return nil, fmt.Errorf("failed to query car park types: %w", err)
	}
	defer rows.Close()

	types := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan car park type: %w", err)
		}
		types = append(types, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating car park types: %w", err)
	}
	return types, nil
}
