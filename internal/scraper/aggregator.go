package scraper

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jobmate/aggregator-service/internal/model"
)

// ErrNotConfigured is reported for a requested source the aggregator has
// no adapter for.
var ErrNotConfigured = errors.New("source not configured")

// Result is the outcome of one adapter within an episode. Err is set when
// the provider failed; Records then holds whatever was fetched before the
// failure. Skipped marks a provider disabled for missing credentials.
type Result struct {
	Source  model.Source
	Records []model.RawRecord
	Err     error
	Skipped bool
	Elapsed time.Duration
}

// OK reports whether the provider answered without error.
func (r Result) OK() bool { return r.Err == nil }

// Episode is one logical fetch across the requested sources.
type Episode struct {
	ID          uuid.UUID
	Query       string
	Location    string
	StartedAt   time.Time
	CompletedAt time.Time
	Results     map[model.Source]Result
}

// Total counts raw records across every source.
func (e *Episode) Total() int {
	n := 0
	for _, r := range e.Results {
		n += len(r.Records)
	}
	return n
}

// Aggregator fans one query out to every configured adapter. Adapters share
// no state, so they run concurrently; one adapter's failure never affects
// another's result.
type Aggregator struct {
	sources map[model.Source]Source
	pages   int
	log     *zap.SugaredLogger
	now     func() time.Time
}

// NewSources builds the five adapters over one shared HTTP client. Missing
// credentials leave JSearch or Adzuna present but disabled.
func NewSources(rapidAPIKey, adzunaAppID, adzunaAppKey string, client *http.Client, log *zap.SugaredLogger) []Source {
	if client == nil {
		client = NewHTTPClient()
	}
	log = nopIfNil(log).Named("fetcher")
	return []Source{
		NewJSearchFetcher(rapidAPIKey, client, log),
		NewAdzunaFetcher(adzunaAppID, adzunaAppKey, client, log),
		NewRemotiveFetcher(client, log),
		NewArbeitnowFetcher(client, log),
		NewTheMuseFetcher(client, log),
	}
}

// NewAggregator returns an Aggregator over sources. pages bounds pagination
// for the providers that support it.
func NewAggregator(sources []Source, pages int, log *zap.SugaredLogger) *Aggregator {
	m := make(map[model.Source]Source, len(sources))
	for _, s := range sources {
		m[s.Name()] = s
	}
	return &Aggregator{
		sources: m,
		pages:   max(pages, 1),
		log:     nopIfNil(log).Named("aggregator"),
		now:     time.Now,
	}
}

// Configured lists the sources with an adapter, sorted.
func (a *Aggregator) Configured() []model.Source {
	out := make([]model.Source, 0, len(a.sources))
	for name := range a.sources {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Enabled reports whether src has an adapter whose credentials are present.
func (a *Aggregator) Enabled(src model.Source) bool {
	s, ok := a.sources[src]
	return ok && s.Enabled()
}

// FetchAll runs one episode over the requested sources (all configured
// sources when none are given). It never fails; per-source errors are
// recorded in the returned Results.
func (a *Aggregator) FetchAll(ctx context.Context, query, location string, sources []model.Source) *Episode {
	if len(sources) == 0 {
		sources = a.Configured()
	}

	ep := &Episode{
		ID:        uuid.New(),
		Query:     query,
		Location:  location,
		StartedAt: a.now(),
		Results:   make(map[model.Source]Result, len(sources)),
	}
	log := a.log.With("episode", ep.ID.String(), "query", query, "location", location)
	log.Infow("fetch episode started", "sources", sources)

	results := make([]Result, len(sources))
	var g errgroup.Group
	for i, name := range sources {
		g.Go(func() error {
			results[i] = a.fetchOne(ctx, name, query, location)
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		ep.Results[r.Source] = r
		switch {
		case r.Skipped:
			log.Warnw("source disabled", "source", r.Source)
		case r.Err != nil:
			log.Warnw("source failed", "source", r.Source, "records", len(r.Records), "error", r.Err)
		default:
			log.Debugw("source done", "source", r.Source, "records", len(r.Records), "elapsed", r.Elapsed)
		}
	}

	ep.CompletedAt = a.now()
	log.Infow("fetch episode complete", "total", ep.Total(), "elapsed", ep.CompletedAt.Sub(ep.StartedAt))
	return ep
}

func (a *Aggregator) fetchOne(ctx context.Context, name model.Source, query, location string) Result {
	src, ok := a.sources[name]
	if !ok {
		return Result{Source: name, Err: ErrNotConfigured}
	}
	if !src.Enabled() {
		return Result{Source: name, Skipped: true}
	}

	start := a.now()
	records, err := src.Fetch(ctx, query, location, a.pages)
	return Result{
		Source:  name,
		Records: records,
		Err:     err,
		Elapsed: a.now().Sub(start),
	}
}
