package scraper

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"jobmate/aggregator-service/internal/model"
	"jobmate/aggregator-service/internal/parser"
	"jobmate/aggregator-service/internal/storage"
)

// IngestedChannel is the Redis channel an EVENT_JOBS_INGESTED message is
// published on after every ingestion run.
const IngestedChannel = "EVENT_JOBS_INGESTED"

// JobSink persists normalised jobs. *storage.JobStore implements it.
type JobSink interface {
	StoreBatch(ctx context.Context, jobs []model.Job) (storage.BatchStats, error)
	LogFetch(ctx context.Context, l storage.FetchLog) error
}

// Publisher publishes events. *redis.Client implements it.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RunStats totals one ingestion run.
type RunStats struct {
	EpisodeID string             `json:"episodeId"`
	Query     string             `json:"query"`
	Location  string             `json:"location"`
	Fetched   int                `json:"fetched"`
	Parsed    int                `json:"parsed"`
	Stored    storage.BatchStats `json:"stored"`
	Failed    []model.Source     `json:"failedSources,omitempty"`
}

// Worker runs the scheduled ingestion cycle for one search query: one fetch
// episode over every configured source, normalised and upserted into the
// store. It bypasses the real-time cache.
type Worker struct {
	agg  *Aggregator
	sink JobSink
	pub  Publisher
	log  *zap.SugaredLogger
}

// NewWorker constructs a Worker. pub may be nil, in which case no events
// are published.
func NewWorker(agg *Aggregator, sink JobSink, pub Publisher, log *zap.SugaredLogger) *Worker {
	return &Worker{agg: agg, sink: sink, pub: pub, log: nopIfNil(log).Named("worker")}
}

// Run executes one ingestion cycle. Source, parse and storage failures are
// logged and counted; Run only fails when ctx is done.
func (w *Worker) Run(ctx context.Context, q model.SearchQuery) (RunStats, error) {
	ep := w.agg.FetchAll(ctx, q.Query, q.Location, nil)
	stats := RunStats{EpisodeID: ep.ID.String(), Query: q.Query, Location: q.Location}

	for _, src := range w.agg.Configured() {
		res, ok := ep.Results[src]
		if !ok {
			continue
		}
		stats.Fetched += len(res.Records)

		entry := storage.FetchLog{
			EpisodeID:   ep.ID,
			Source:      src,
			Query:       q.Query,
			Location:    q.Location,
			JobsFetched: len(res.Records),
			Status:      storage.FetchSuccess,
		}
		switch {
		case res.Skipped:
			entry.Status = storage.FetchSkipped
		case res.Err != nil:
			entry.Status = storage.FetchFailed
			entry.Error = res.Err.Error()
			stats.Failed = append(stats.Failed, src)
		}

		jobs, err := parser.NormalizeBatch(w.log, res.Records, src)
		if err != nil {
			w.log.Errorw("normalise batch", "source", src, "error", err)
			continue
		}
		stats.Parsed += len(jobs)

		if len(jobs) > 0 {
			batch, err := w.sink.StoreBatch(ctx, jobs)
			if err != nil {
				w.log.Warnw("some jobs were not stored", "source", src, "failed", batch.Failed, "error", err)
			}
			entry.JobsStored = batch.Inserted + batch.Updated
			stats.Stored.Inserted += batch.Inserted
			stats.Stored.Updated += batch.Updated
			stats.Stored.Failed += batch.Failed
		}

		if err := w.sink.LogFetch(ctx, entry); err != nil {
			w.log.Warnw("fetch log not written", "source", src, "error", err)
		}
	}

	w.log.Infow("ingestion done",
		"episode", stats.EpisodeID, "query", q.Query, "location", q.Location,
		"fetched", stats.Fetched, "parsed", stats.Parsed,
		"inserted", stats.Stored.Inserted, "updated", stats.Stored.Updated, "failed", stats.Stored.Failed)

	w.publish(ctx, stats)
	return stats, ctx.Err()
}

// RunAll ingests every query in turn and stops early when ctx is done.
func (w *Worker) RunAll(ctx context.Context, queries []model.SearchQuery) ([]RunStats, error) {
	out := make([]RunStats, 0, len(queries))
	for _, q := range queries {
		stats, err := w.Run(ctx, q)
		out = append(out, stats)
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

// publish announces the run on Redis. Failures are non-fatal.
func (w *Worker) publish(ctx context.Context, stats RunStats) {
	if w.pub == nil {
		return
	}
	event, err := json.Marshal(struct {
		Type string `json:"type"`
		RunStats
		At time.Time `json:"at"`
	}{Type: IngestedChannel, RunStats: stats, At: time.Now().UTC()})
	if err != nil {
		w.log.Warnw("encode ingestion event", "error", err)
		return
	}
	if err := w.pub.Publish(ctx, IngestedChannel, event).Err(); err != nil {
		w.log.Warnw("publish "+IngestedChannel+" failed", "error", err)
	}
}
