// Package scheduler wires up the cron jobs that periodically ingest job
// postings and retire stale ones.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"jobmate/aggregator-service/internal/model"
	"jobmate/aggregator-service/internal/scraper"
)

// CleanupSpec fires the retention job daily at 02:00.
const CleanupSpec = "0 2 * * *"

// DefaultQueries is the fixed list every ingestion cycle fetches.
var DefaultQueries = []model.SearchQuery{
	{Query: "software developer", Location: "United States"},
	{Query: "python developer", Location: "Remote"},
	{Query: "frontend developer", Location: "United States"},
	{Query: "data scientist", Location: "United States"},
	{Query: "backend developer", Location: "Remote"},
}

// Ingester runs ingestion cycles. *scraper.Worker implements it.
type Ingester interface {
	RunAll(ctx context.Context, queries []model.SearchQuery) ([]scraper.RunStats, error)
}

// Cleaner retires old postings. *storage.JobStore implements it.
type Cleaner interface {
	CleanupOldJobs(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler wraps robfig/cron and owns the ingestion and cleanup loops.
type Scheduler struct {
	cron      *cron.Cron
	ingester  Ingester
	cleaner   Cleaner
	queries   []model.SearchQuery
	spec      string // ingestion spec, e.g. "@every 6h"
	retention time.Duration
	now       func() time.Time
	log       *zap.SugaredLogger
	initial   sync.WaitGroup
}

// New creates a Scheduler that ingests every intervalHours hours and marks
// postings older than cleanupDays inactive once a day.
func New(ingester Ingester, cleaner Cleaner, intervalHours, cleanupDays int, log *zap.SugaredLogger) *Scheduler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	log = log.Named("scheduler")
	logger := cron.PrintfLogger(zap.NewStdLog(log.Desugar()))
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		ingester:  ingester,
		cleaner:   cleaner,
		queries:   DefaultQueries,
		spec:      fmt.Sprintf("@every %dh", intervalHours),
		retention: time.Duration(cleanupDays) * 24 * time.Hour,
		now:       time.Now,
		log:       log,
	}
}

// Spec returns the ingestion cron spec.
func (s *Scheduler) Spec() string { return s.spec }

// Start registers both jobs and starts the scheduler. It also runs one
// ingestion immediately so the store is populated without waiting for the
// first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunIngestion(ctx) }); err != nil {
		return errors.Wrapf(err, "schedule ingestion %q", s.spec)
	}
	if _, err := s.cron.AddFunc(CleanupSpec, func() {
		if _, err := s.RunCleanup(ctx); err != nil {
			s.log.Errorw("cleanup failed", "error", err)
		}
	}); err != nil {
		return errors.Wrapf(err, "schedule cleanup %q", CleanupSpec)
	}

	s.cron.Start()
	s.log.Infow("cron started", "ingestion", s.spec, "cleanup", CleanupSpec)

	s.initial.Add(1)
	go func() {
		defer s.initial.Done()
		s.RunIngestion(ctx)
	}()
	return nil
}

// Stop halts the scheduler and waits for running jobs, including the
// startup ingestion, to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.initial.Wait()
	s.log.Info("cron stopped")
}

// RunIngestion ingests every configured query once.
func (s *Scheduler) RunIngestion(ctx context.Context) {
	s.log.Infow("ingestion cycle started", "queries", len(s.queries))
	start := s.now()

	runs, err := s.ingester.RunAll(ctx, s.queries)
	fetched, inserted, updated := 0, 0, 0
	for _, r := range runs {
		fetched += r.Fetched
		inserted += r.Stored.Inserted
		updated += r.Stored.Updated
	}
	if err != nil {
		s.log.Warnw("ingestion cycle interrupted", "completed", len(runs), "error", err)
		return
	}
	s.log.Infow("ingestion cycle complete",
		"fetched", fetched, "inserted", inserted, "updated", updated, "took", s.now().Sub(start))
}

// RunCleanup marks postings older than the retention window inactive and
// returns how many were affected.
func (s *Scheduler) RunCleanup(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.retention)
	n, err := s.cleaner.CleanupOldJobs(ctx, cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "cleanup old jobs")
	}
	s.log.Infow("cleanup complete", "inactive", n, "cutoff", cutoff)
	return n, nil
}
