package realtime_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/aggregator-service/internal/cache"
	"jobmate/aggregator-service/internal/model"
	"jobmate/aggregator-service/internal/realtime"
	"jobmate/aggregator-service/internal/scraper"
)

type fakeFetcher struct {
	mu      sync.Mutex
	calls   int
	lastSrc []model.Source
	enabled map[model.Source]bool
	results map[model.Source]scraper.Result
}

func (f *fakeFetcher) Enabled(src model.Source) bool { return f.enabled[src] }

func (f *fakeFetcher) FetchAll(_ context.Context, query, location string, sources []model.Source) *scraper.Episode {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastSrc = sources

	ep := &scraper.Episode{
		ID: uuid.New(), Query: query, Location: location,
		CompletedAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		Results:     map[model.Source]scraper.Result{},
	}
	for _, s := range sources {
		r, ok := f.results[s]
		if !ok {
			r = scraper.Result{Source: s}
		}
		ep.Results[s] = r
	}
	return ep
}

func newFetcher() *fakeFetcher {
	return &fakeFetcher{
		enabled: map[model.Source]bool{
			model.SourceRemotive: true, model.SourceTheMuse: true, model.SourceArbeitnow: true,
		},
		results: map[model.Source]scraper.Result{
			model.SourceRemotive: {Source: model.SourceRemotive, Records: []model.RawRecord{
				{"id": 1, "title": "Backend Engineer", "description": "Python and Django", "url": "https://www.linkedin.com/jobs/1"},
				{"title": "no id, skipped"},
			}},
			model.SourceTheMuse: {Source: model.SourceTheMuse, Err: errors.New("the muse is down")},
		},
	}
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newService(f realtime.Fetcher, clk *clock) *realtime.Service {
	c := cache.New[realtime.Response](cache.NewMemoryStore[realtime.Response](), 30*time.Minute, clk.now, nil)
	return realtime.NewService(f, c, nil)
}

func TestSearch_BuildsResponse(t *testing.T) {
	f := newFetcher()
	svc := newService(f, &clock{t: time.Now()})

	resp, err := svc.Search(context.Background(), realtime.Request{Query: "python developer", Location: "Remote", UseCache: true})
	require.NoError(t, err)

	assert.Equal(t, []model.Source{model.SourceRemotive, model.SourceTheMuse}, f.lastSrc, "default sources")
	require.Len(t, resp.Jobs, 1)
	assert.Equal(t, "LinkedIn", resp.Jobs[0].ExternalPlatform)
	assert.Equal(t, 1, resp.Stats.Total)
	assert.Equal(t, map[model.Source]int{model.SourceRemotive: 1, model.SourceTheMuse: 0}, resp.Stats.BySource)
	assert.Contains(t, resp.Stats.Errors[model.SourceTheMuse], "down")
	assert.Equal(t, "Found 1 real-time jobs from 1 sources", resp.Message, "failed sources are not counted")
	assert.Len(t, resp.PlatformLinks, 13)
	assert.False(t, resp.Cached)
	assert.NotEmpty(t, resp.EpisodeID)
}

func TestSearch_CacheWindow(t *testing.T) {
	f := newFetcher()
	clk := &clock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	svc := newService(f, clk)
	ctx := context.Background()
	req := realtime.Request{Query: "python developer", Location: "Remote", Sources: []string{"remotive"}, UseCache: true}

	first, err := svc.Search(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls)

	clk.t = clk.t.Add(29 * time.Minute)
	second, err := svc.Search(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls, "served from cache")
	assert.True(t, second.Cached)
	assert.Equal(t, first.Jobs, second.Jobs)
	assert.Equal(t, first.EpisodeID, second.EpisodeID)

	clk.t = clk.t.Add(2 * time.Minute)
	third, err := svc.Search(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, f.calls, "expired entry triggers a new episode")
	assert.False(t, third.Cached)
}

func TestSearch_UseCacheFalseRefreshesEntry(t *testing.T) {
	f := newFetcher()
	svc := newService(f, &clock{t: time.Now()})
	ctx := context.Background()
	req := realtime.Request{Query: "go", Sources: []string{"remotive"}}

	_, err := svc.Search(ctx, req)
	require.NoError(t, err)
	_, err = svc.Search(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, f.calls)

	req.UseCache = true
	resp, err := svc.Search(ctx, req)
	require.NoError(t, err)
	assert.True(t, resp.Cached)
	assert.Equal(t, 2, f.calls)
}

func TestSearch_SourceOrderSharesCacheEntry(t *testing.T) {
	f := newFetcher()
	svc := newService(f, &clock{t: time.Now()})
	ctx := context.Background()

	_, err := svc.Search(ctx, realtime.Request{Query: "go", Sources: []string{"themuse", "remotive"}, UseCache: true})
	require.NoError(t, err)
	resp, err := svc.Search(ctx, realtime.Request{Query: "go", Sources: []string{"remotive", "themuse"}, UseCache: true})
	require.NoError(t, err)
	assert.True(t, resp.Cached)
	assert.Equal(t, 1, f.calls)
}

func TestSearch_ClearCache(t *testing.T) {
	f := newFetcher()
	svc := newService(f, &clock{t: time.Now()})
	ctx := context.Background()
	req := realtime.Request{Query: "go", Sources: []string{"remotive"}, UseCache: true}

	_, err := svc.Search(ctx, req)
	require.NoError(t, err)
	require.NoError(t, svc.ClearCache(ctx))
	_, err = svc.Search(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, f.calls)
}

func TestSearch_Validation(t *testing.T) {
	svc := newService(newFetcher(), &clock{t: time.Now()})
	ctx := context.Background()

	for _, req := range []realtime.Request{
		{Query: ""},
		{Query: "go", Sources: []string{"monster"}},
	} {
		_, err := svc.Search(ctx, req)
		var verr *realtime.ValidationError
		assert.True(t, errors.As(err, &verr), "%+v", req)
	}
}

func TestDefaultSources_IncludeKeyedProvidersWhenEnabled(t *testing.T) {
	f := newFetcher()
	f.enabled[model.SourceJSearch] = true
	f.enabled[model.SourceAdzuna] = true
	svc := newService(f, &clock{t: time.Now()})

	assert.Equal(t, []model.Source{
		model.SourceRemotive, model.SourceTheMuse, model.SourceJSearch, model.SourceAdzuna,
	}, svc.DefaultSources())
	assert.Len(t, svc.AvailableSources(), 5)
}
