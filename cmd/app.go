package main

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"jobmate/aggregator-service/internal/cache"
	"jobmate/aggregator-service/internal/config"
	"jobmate/aggregator-service/internal/db"
	"jobmate/aggregator-service/internal/logging"
	"jobmate/aggregator-service/internal/realtime"
	"jobmate/aggregator-service/internal/scraper"
	"jobmate/aggregator-service/internal/storage"
)

// app holds the wired components shared by every command.
type app struct {
	cfg   *config.Config
	log   *zap.SugaredLogger
	pool  *pgxpool.Pool // nil without DATABASE_URL
	rdb   *redis.Client // nil without REDIS_URL
	agg   *scraper.Aggregator
	svc   *realtime.Service
	store *storage.JobStore // nil without DATABASE_URL
}

// newApp loads config and connects the optional backends. requireDB makes
// DATABASE_URL mandatory.
func newApp(ctx context.Context, requireDB bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}
	if requireDB {
		if err := cfg.RequireDatabase(); err != nil {
			return nil, err
		}
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log}

	if cfg.DatabaseURL != "" {
		log.Info("connecting to PostgreSQL")
		if a.pool, err = db.NewPostgresPool(ctx, cfg.DatabaseURL); err != nil {
			a.close()
			return nil, errors.Wrap(err, "postgres")
		}
		a.store = storage.NewJobStore(a.pool)
		log.Info("PostgreSQL connected")
	}

	if cfg.RedisURL != "" {
		log.Info("connecting to Redis")
		if a.rdb, err = db.NewRedisClient(ctx, cfg.RedisURL); err != nil {
			a.close()
			return nil, errors.Wrap(err, "redis")
		}
		log.Info("Redis connected")
	}

	sources := scraper.NewSources(cfg.RapidAPIKey, cfg.AdzunaAppID, cfg.AdzunaAppKey, scraper.NewHTTPClient(), log)
	a.agg = scraper.NewAggregator(sources, cfg.FetchPages, log)
	a.svc = realtime.NewService(a.agg, cache.New[realtime.Response](a.cacheStore(), cfg.CacheTTL, time.Now, log), log)
	return a, nil
}

// cacheStore shares responses through Redis when it is configured.
func (a *app) cacheStore() cache.Store[realtime.Response] {
	if a.rdb != nil {
		return cache.NewRedisStore[realtime.Response](a.rdb, cache.DefaultRedisPrefix, a.cfg.CacheTTL)
	}
	return cache.NewMemoryStore[realtime.Response]()
}

// worker builds the ingestion worker. It needs the job store.
func (a *app) worker() *scraper.Worker {
	var pub scraper.Publisher
	if a.rdb != nil {
		pub = a.rdb
	}
	return scraper.NewWorker(a.agg, a.store, pub, a.log)
}

func (a *app) close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
	_ = a.log.Sync()
}
