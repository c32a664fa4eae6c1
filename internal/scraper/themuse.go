package scraper

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"jobmate/aggregator-service/internal/model"
)

const (
	themuseBaseURL   = "https://www.themuse.com/api/public/jobs"
	themuseCategory  = "Software Engineering"
	themusePageDelay = 500 * time.Millisecond
)

// TheMuseFetcher reads The Muse public jobs API. Results are filtered by
// category; The Muse's location names ("New York, NY", "Flexible / Remote")
// do not line up with free-text search locations, so location is not sent.
type TheMuseFetcher struct {
	BaseURL  string
	Category string
	req      requester
	log      *zap.SugaredLogger
}

// NewTheMuseFetcher constructs a fetcher for The Muse public API.
func NewTheMuseFetcher(client *http.Client, log *zap.SugaredLogger) *TheMuseFetcher {
	return &TheMuseFetcher{
		BaseURL:  themuseBaseURL,
		Category: themuseCategory,
		req:      newRequester(model.SourceTheMuse, client, themusePageDelay),
		log:      nopIfNil(log).With("source", model.SourceTheMuse),
	}
}

type themuseResponse struct {
	Results   []model.RawRecord `json:"results"`
	PageCount int               `json:"page_count"`
}

// Name returns the source tag.
func (f *TheMuseFetcher) Name() model.Source { return model.SourceTheMuse }

// Enabled is always true; the API needs no key.
func (f *TheMuseFetcher) Enabled() bool { return true }

// Fetch walks 0-based pages up to pages or the API's page_count.
func (f *TheMuseFetcher) Fetch(ctx context.Context, _, _ string, pages int) ([]model.RawRecord, error) {
	var results []model.RawRecord
	for page := 0; page < max(pages, 1); page++ {
		params := url.Values{}
		params.Set("category", f.Category)
		params.Set("page", strconv.Itoa(page))
		params.Set("descending", "true")

		var resp themuseResponse
		if err := f.req.getJSON(ctx, f.BaseURL+"?"+params.Encode(), nil, &resp); err != nil {
			return results, errors.Wrapf(err, "page %d", page)
		}
		results = append(results, resp.Results...)
		if len(resp.Results) == 0 || page+1 >= resp.PageCount {
			break
		}
	}
	f.log.Debugw("fetched", "count", len(results))
	return results, nil
}
