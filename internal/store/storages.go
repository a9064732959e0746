package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
)

// Storages bundles the repositories that share one database connection.
type Storages struct {
	DB             *DB
	UserRepository UserRepository
	TaskRepository TaskRepository
}

// NewStorages connects to the configured database, applies pending
// migrations and builds the repositories.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	var (
		db  *DB
		err error
	)

	switch cfg.DB.Driver {
	case config.DriverPostgres:
		db, err = NewConnectPostgres(ctx, cfg.DB, log)
	case config.DriverSQLite:
		db, err = NewConnectSQLite(ctx, cfg.DB, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.DB.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(); err != nil {
		log.Err(err).Str("func", "NewStorages").Msg("error applying migrations")
		_ = db.Close()
		return nil, err
	}

	return &Storages{
		DB:             db,
		UserRepository: NewUserRepository(db, log),
		TaskRepository: NewTaskRepository(db, log),
	}, nil
}

// Close releases the underlying connection pool.
func (s *Storages) Close() error {
	return s.DB.Close()
}
