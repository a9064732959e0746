package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/migrations"
	sq "github.com/Masterminds/squirrel"
	"github.com/sethvargo/go-retry"
)

const (
	defaultRetryBase  = 50 * time.Millisecond
	defaultMaxRetries = 2
)

// DB wraps a *sql.DB with the dialect specific pieces the repositories need:
// a squirrel builder with the right placeholder format, an error classifier
// and the retry policy for read-only queries.
type DB struct {
	*sql.DB
	dialect            migrations.Dialect
	builder            sq.StatementBuilderType
	errorClassificator ErrorClassificator
	logger             *logger.Logger
	retryBase          time.Duration
	maxRetries         uint64
}

func newDB(conn *sql.DB, dialect migrations.Dialect, placeholder sq.PlaceholderFormat, classifier ErrorClassificator, log *logger.Logger) *DB {
	return &DB{
		DB:                 conn,
		dialect:            dialect,
		builder:            sq.StatementBuilder.PlaceholderFormat(placeholder),
		errorClassificator: classifier,
		logger:             log,
		retryBase:          defaultRetryBase,
		maxRetries:         defaultMaxRetries,
	}
}

// Migrate applies every pending migration for the connection's dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// withRetry runs fn and repeats it with exponential backoff while the
// classifier reports the error as transient. Only idempotent reads go
// through here.
func (db *DB) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(db.maxRetries, retry.NewExponential(db.retryBase))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && db.errorClassificator.Classify(err) == Retryable {
			logger.FromContext(ctx).Warn().Err(err).Msg("transient database error, retrying")
			return retry.RetryableError(err)
		}
		return err
	})
}
