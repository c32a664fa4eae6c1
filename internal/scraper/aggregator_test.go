package scraper_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/aggregator-service/internal/model"
	"jobmate/aggregator-service/internal/scraper"
)

type fakeSource struct {
	name    model.Source
	enabled bool
	records []model.RawRecord
	err     error
	calls   atomic.Int32
	pages   atomic.Int32
}

func (f *fakeSource) Name() model.Source { return f.name }
func (f *fakeSource) Enabled() bool      { return f.enabled }
func (f *fakeSource) Fetch(_ context.Context, _, _ string, pages int) ([]model.RawRecord, error) {
	f.calls.Add(1)
	f.pages.Store(int32(pages))
	return f.records, f.err
}

func TestAggregator_IsolatesFailures(t *testing.T) {
	ok := &fakeSource{name: model.SourceRemotive, enabled: true, records: []model.RawRecord{{"id": 1}, {"id": 2}}}
	broken := &fakeSource{
		name: model.SourceJSearch, enabled: true,
		records: []model.RawRecord{{"job_id": "partial"}},
		err:     errors.New("boom"),
	}
	off := &fakeSource{name: model.SourceAdzuna, enabled: false}

	agg := scraper.NewAggregator([]scraper.Source{ok, broken, off}, 2, nil)
	ep := agg.FetchAll(context.Background(), "go", "Remote", []model.Source{
		model.SourceRemotive, model.SourceJSearch, model.SourceAdzuna, model.SourceTheMuse,
	})

	require.Len(t, ep.Results, 4)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", ep.ID.String())

	rem := ep.Results[model.SourceRemotive]
	assert.True(t, rem.OK())
	assert.Len(t, rem.Records, 2)
	assert.Equal(t, int32(2), ok.pages.Load())

	js := ep.Results[model.SourceJSearch]
	assert.False(t, js.OK())
	assert.Len(t, js.Records, 1)

	az := ep.Results[model.SourceAdzuna]
	assert.True(t, az.Skipped)
	assert.Zero(t, off.calls.Load(), "disabled sources are not called")

	muse := ep.Results[model.SourceTheMuse]
	assert.True(t, errors.Is(muse.Err, scraper.ErrNotConfigured))

	assert.Equal(t, 3, ep.Total())
}

func TestAggregator_DefaultsToConfiguredSources(t *testing.T) {
	a := &fakeSource{name: model.SourceArbeitnow, enabled: true}
	b := &fakeSource{name: model.SourceRemotive, enabled: true}

	agg := scraper.NewAggregator([]scraper.Source{a, b}, 0, nil)
	assert.Equal(t, []model.Source{model.SourceArbeitnow, model.SourceRemotive}, agg.Configured())

	ep := agg.FetchAll(context.Background(), "go", "", nil)
	assert.Len(t, ep.Results, 2)
	assert.Equal(t, int32(1), a.calls.Load())
	assert.Equal(t, int32(1), b.calls.Load())
	assert.Equal(t, int32(1), a.pages.Load(), "pages is at least one")
}

func TestNewSources_CredentialGating(t *testing.T) {
	agg := scraper.NewAggregator(scraper.NewSources("", "id", "", nil, nil), 1, nil)

	assert.False(t, agg.Enabled(model.SourceJSearch))
	assert.False(t, agg.Enabled(model.SourceAdzuna))
	assert.True(t, agg.Enabled(model.SourceRemotive))
	assert.True(t, agg.Enabled(model.SourceArbeitnow))
	assert.True(t, agg.Enabled(model.SourceTheMuse))
	assert.Len(t, agg.Configured(), 5)
}
