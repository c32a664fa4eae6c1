// Package db provides connection helpers for the optional Postgres job
// store and the Redis cache/event backend.
package db

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobmate/aggregator-service/internal/storage"
)

// NewPostgresPool creates and verifies a pgxpool connection pool, then
// applies the job store schema.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "pgxpool.New")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "postgres ping failed")
	}

	if err := storage.NewJobStore(pool).EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
