// Package realtime serves live job searches: it checks the response cache,
// runs a fetch episode on a miss, normalises every source's records and
// caches the merged result.
package realtime

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"jobmate/aggregator-service/internal/cache"
	"jobmate/aggregator-service/internal/model"
	"jobmate/aggregator-service/internal/parser"
	"jobmate/aggregator-service/internal/scraper"
)

// Fetcher runs fetch episodes. *scraper.Aggregator implements it.
type Fetcher interface {
	FetchAll(ctx context.Context, query, location string, sources []model.Source) *scraper.Episode
	Enabled(src model.Source) bool
}

// Request is one real-time search. Sources empty means the default set.
// UseCache false skips the lookup; the fresh response is still stored.
type Request struct {
	Query    string   `json:"query" validate:"required,max=200"`
	Location string   `json:"location" validate:"max=200"`
	Sources  []string `json:"sources" validate:"omitempty,max=5,dive,oneof=jsearch adzuna remotive arbeitnow themuse"`
	UseCache bool     `json:"use_cache"`
}

// Stats summarises a response. Errors names the sources that failed during
// the episode, so an empty source can be told apart from a broken one.
type Stats struct {
	Total    int                     `json:"total"`
	BySource map[model.Source]int    `json:"by_source"`
	Errors   map[model.Source]string `json:"errors,omitempty"`
	Skipped  []model.Source          `json:"skipped,omitempty"`
}

// Response is the cached unit: the merged jobs of one episode.
type Response struct {
	Query         string            `json:"query"`
	Location      string            `json:"location"`
	Timestamp     time.Time         `json:"timestamp"`
	EpisodeID     string            `json:"episode_id"`
	Stats         Stats             `json:"stats"`
	Jobs          []model.Job       `json:"jobs"`
	PlatformLinks map[string]string `json:"platform_links"`
	Message       string            `json:"message"`
	Cached        bool              `json:"cached"`
}

// ValidationError reports a request the service refuses to run.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return "invalid search request: " + e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// Service is the real-time search entry point. It owns its cache; two
// services never share entries unless they share a Redis store.
type Service struct {
	fetcher  Fetcher
	cache    *cache.Cache[Response]
	validate *validator.Validate
	log      *zap.SugaredLogger
}

// NewService builds a Service over fetcher and c. A nil log discards output.
func NewService(fetcher Fetcher, c *cache.Cache[Response], log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{
		fetcher:  fetcher,
		cache:    c,
		validate: validator.New(),
		log:      log.Named("realtime"),
	}
}

// DefaultSources is the set used when a request names none: the keyless
// Remotive and The Muse, plus JSearch and Adzuna when credentials are set.
func (s *Service) DefaultSources() []model.Source {
	out := []model.Source{model.SourceRemotive, model.SourceTheMuse}
	for _, src := range []model.Source{model.SourceJSearch, model.SourceAdzuna} {
		if s.fetcher.Enabled(src) {
			out = append(out, src)
		}
	}
	return out
}

// AvailableSources lists every source that can currently be queried.
func (s *Service) AvailableSources() []model.Source {
	var out []model.Source
	for _, src := range model.AllSources() {
		if s.fetcher.Enabled(src) {
			out = append(out, src)
		}
	}
	return out
}

// CacheTTL returns the response cache validity window.
func (s *Service) CacheTTL() time.Duration { return s.cache.TTL() }

// Search returns the response for req, from cache when a valid entry exists.
// It fails only for invalid requests; provider failures are reported in
// Stats.Errors.
func (s *Service) Search(ctx context.Context, req Request) (*Response, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, &ValidationError{Err: err}
	}

	sources, err := s.resolveSources(req.Sources)
	if err != nil {
		return nil, &ValidationError{Err: err}
	}

	key := cache.Key(req.Query, req.Location, sources)
	if req.UseCache {
		if e, ok := s.cache.Get(ctx, key); ok {
			s.log.Infow("returning cached results", "query", req.Query, "key", key)
			resp := e.Value
			resp.Cached = true
			return &resp, nil
		}
	}

	s.log.Infow("fetching real-time jobs", "query", req.Query, "location", req.Location, "sources", sources)
	ep := s.fetcher.FetchAll(ctx, req.Query, req.Location, sources)
	resp := s.build(req, sources, ep)
	s.cache.Set(ctx, key, *resp)
	return resp, nil
}

// ClearCache drops every cached response.
func (s *Service) ClearCache(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return errors.Wrap(err, "clear cache")
	}
	s.log.Info("cache cleared")
	return nil
}

func (s *Service) resolveSources(raw []string) ([]model.Source, error) {
	if len(raw) == 0 {
		return s.DefaultSources(), nil
	}
	out := make([]model.Source, 0, len(raw))
	for _, r := range raw {
		src, err := model.ParseSource(r)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, src) {
			out = append(out, src)
		}
	}
	return out, nil
}

func (s *Service) build(req Request, sources []model.Source, ep *scraper.Episode) *Response {
	stats := Stats{BySource: make(map[model.Source]int, len(sources))}
	jobs := []model.Job{}
	contributing := 0

	ordered := slices.Clone(sources)
	slices.Sort(ordered)
	for _, src := range ordered {
		res, ok := ep.Results[src]
		if !ok {
			continue
		}
		if res.Skipped {
			stats.Skipped = append(stats.Skipped, src)
		}
		if res.Err != nil {
			if stats.Errors == nil {
				stats.Errors = map[model.Source]string{}
			}
			stats.Errors[src] = res.Err.Error()
		}

		parsed, err := parser.NormalizeBatch(s.log, res.Records, src)
		if err != nil {
			s.log.Errorw("normalise batch", "source", src, "error", err)
			continue
		}
		for i := range parsed {
			parsed[i].ExternalPlatform = parser.IdentifyPlatform(parsed[i].ApplyURL)
		}
		jobs = append(jobs, parsed...)
		if len(parsed) > 0 {
			contributing++
		}
		stats.BySource[src] = len(parsed)
		stats.Total += len(parsed)
	}

	return &Response{
		Query:         req.Query,
		Location:      req.Location,
		Timestamp:     ep.CompletedAt.UTC(),
		EpisodeID:     ep.ID.String(),
		Stats:         stats,
		Jobs:          jobs,
		PlatformLinks: PlatformLinks(req.Query, req.Location),
		Message:       fmt.Sprintf("Found %d real-time jobs from %d sources", stats.Total, contributing),
	}
}
