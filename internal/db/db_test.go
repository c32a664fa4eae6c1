package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/aggregator-service/internal/db"
)

func TestNewRedisClient_RejectsBadURL(t *testing.T) {
	_, err := db.NewRedisClient(context.Background(), "http://not-redis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse REDIS_URL")
}

func TestNewPostgresPool_RejectsBadURL(t *testing.T) {
	_, err := db.NewPostgresPool(context.Background(), "postgres://%zz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pgxpool.New")
}
