package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/stwalsh4118/carparks/internal/database"
)

// NewSQLiteCarParkRepository creates a CarParkRepository backed by a SQLite file.
func NewSQLiteCarParkRepository(db *database.SQLite) CarParkRepository {
	return &carParkRepository{
		q:           sqlQuerier{db: db.DB},
		dialect:     sqliteDialect,
		isDuplicate: isSQLiteUniqueViolation,
		// SQLite stores timestamps as text; keep them in UTC so they sort.
		now: func() time.Time { return time.Now().UTC() },
	}
}

type sqlQuerier struct {
	db *sql.DB
}

// sqlRows adapts *sql.Rows to rowIterator.
type sqlRows struct {
	*sql.Rows
}

func (r sqlRows) Close() {
	_ = r.Rows.Close()
}

func (s sqlQuerier) queryRow(ctx context.Context, query string, args ...any) rowScanner {
	return s.db.QueryRowContext(ctx, query, args...)
}

func (s sqlQuerier) query(ctx context.Context, query string, args ...any) (rowIterator, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{Rows: rows}, nil
}

func (s sqlQuerier) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
