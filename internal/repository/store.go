package repository

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/carparks/internal/config"
	"github.com/stwalsh4118/carparks/internal/database"
)

// Store is an open record store together with its repository.
type Store struct {
	CarParks CarParkRepository
	Driver   string

	// IdentityIndexErr is set when the unique identity index could not be
	// created, which happens while the table holds duplicate records.
	// Without the index, inserts still skip stored identities but nothing
	// stops two concurrent writers from storing the same one.
	IdentityIndexErr error

	ping          func(context.Context) error
	close         func()
	identityIndex func(context.Context) error
}

// Open connects to the store selected by cfg.Driver, applies the schema and
// returns the repository bound to it. A missing identity index does not
// fail the open; it is reported in IdentityIndexErr.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	var store *Store

	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgresPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store = &Store{
			CarParks:      NewPostgresCarParkRepository(db),
			Driver:        cfg.Driver,
			ping:          db.Ping,
			close:         db.Close,
			identityIndex: db.EnsureIdentityIndex,
		}

	case config.DriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		store = &Store{
			CarParks:      NewSQLiteCarParkRepository(db),
			Driver:        cfg.Driver,
			ping:          db.Ping,
			close:         db.Close,
			identityIndex: db.EnsureIdentityIndex,
		}

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	_ = store.EnsureIdentityIndex(ctx)
	return store, nil
}

// EnsureIdentityIndex tries to create the identity index and records the
// outcome in IdentityIndexErr.
func (s *Store) EnsureIdentityIndex(ctx context.Context) error {
	s.IdentityIndexErr = s.identityIndex(ctx)
	return s.IdentityIndexErr
}

// Ping checks that the underlying store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the underlying connections.
func (s *Store) Close() {
	s.close()
}
