package storage_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/aggregator-service/internal/model"
	"jobmate/aggregator-service/internal/storage"
)

// openStore connects to DATABASE_URL or skips the test.
func openStore(t *testing.T) *storage.JobStore {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store := storage.NewJobStore(pool)
	require.NoError(t, store.EnsureSchema(context.Background()))
	return store
}

func TestJobStore_UpsertListCleanup(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	marker := uuid.NewString()
	old := time.Now().Add(-60 * 24 * time.Hour).UTC()
	fresh := time.Now().Add(-time.Hour).UTC()
	salary := 90000.0

	jobs := []model.Job{
		{
			ExternalJobID: marker + "-1", Source: model.SourceRemotive, Title: "Go Engineer " + marker,
			Company: "Acme", Location: "Remote", Remote: model.RemoteYes, JobType: model.JobTypeFullTime,
			ExperienceLevel: model.ExperienceSenior, SalaryMin: &salary, Skills: []string{"Go"}, PostedDate: &fresh,
		},
		{
			ExternalJobID: marker + "-2", Source: model.SourceRemotive, Title: "Old Role " + marker,
			Company: "Acme", Location: "Remote", JobType: model.JobTypeFullTime,
			ExperienceLevel: model.ExperienceMid, PostedDate: &old,
		},
	}

	stats, err := store.StoreBatch(ctx, jobs)
	require.NoError(t, err)
	assert.Equal(t, storage.BatchStats{Inserted: 2}, stats)

	stats, err = store.StoreBatch(ctx, jobs[:1])
	require.NoError(t, err)
	assert.Equal(t, storage.BatchStats{Updated: 1}, stats)

	found, err := store.SearchJobs(ctx, marker, 10)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, jobs[0].ExternalJobID, found[0].ExternalJobID, "newest first")
	assert.Equal(t, model.RemoteYes, found[0].Remote)
	assert.Equal(t, model.RemoteUnknown, found[1].Remote)

	got, err := store.GetJob(ctx, found[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, got.Skills)

	n, err := store.CleanupOldJobs(ctx, time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))

	found, err = store.SearchJobs(ctx, marker, 10)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, store.LogFetch(ctx, storage.FetchLog{
		EpisodeID: uuid.New(), Source: model.SourceRemotive, Query: marker,
		JobsFetched: 2, JobsStored: 2, Status: storage.FetchSuccess,
	}))
}

func TestJobStore_GetJobNotFound(t *testing.T) {
	store := openStore(t)

	_, err := store.GetJob(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.GetJob(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
