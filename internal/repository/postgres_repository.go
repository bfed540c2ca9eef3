package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stwalsh4118/carparks/internal/database"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// NewPostgresCarParkRepository creates a CarParkRepository backed by a pgx pool.
func NewPostgresCarParkRepository(db *database.Database) CarParkRepository {
	return &carParkRepository{
		q:           pgxQuerier{pool: db.Pool},
		dialect:     postgresDialect,
		isDuplicate: isPostgresUniqueViolation,
		now:         time.Now,
	}
}

type pgxQuerier struct {
	pool *pgxpool.Pool
}

func (p pgxQuerier) queryRow(ctx context.Context, query string, args ...any) rowScanner {
	return p.pool.QueryRow(ctx, query, args...)
}

func (p pgxQuerier) query(ctx context.Context, query string, args ...any) (rowIterator, error) {
	return p.pool.Query(ctx, query, args...)
}

func (p pgxQuerier) exec(ctx context.Context, query string, args ...any) (int64, error) {
	tag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func isPostgresUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
