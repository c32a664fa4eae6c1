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
	jsearchBaseURL         = "https://jsearch.p.rapidapi.com/search"
	jsearchHost            = "jsearch.p.rapidapi.com"
	jsearchPageDelay       = time.Second
	jsearchEmploymentTypes = "FULLTIME,PARTTIME,INTERN"
)

// JSearchFetcher queries the JSearch API on RapidAPI. Free tier: 250
// requests a month, so each page is paced one second apart.
type JSearchFetcher struct {
	APIKey  string
	BaseURL string
	req     requester
	log     *zap.SugaredLogger
}

// NewJSearchFetcher constructs a fetcher; an empty apiKey disables it.
func NewJSearchFetcher(apiKey string, client *http.Client, log *zap.SugaredLogger) *JSearchFetcher {
	return &JSearchFetcher{
		APIKey:  apiKey,
		BaseURL: jsearchBaseURL,
		req:     newRequester(model.SourceJSearch, client, jsearchPageDelay),
		log:     nopIfNil(log).With("source", model.SourceJSearch),
	}
}

type jsearchResponse struct {
	Status string            `json:"status"`
	Data   []model.RawRecord `json:"data"`
}

// Name returns the source tag.
func (f *JSearchFetcher) Name() model.Source { return model.SourceJSearch }

// Enabled reports whether a RapidAPI key is set.
func (f *JSearchFetcher) Enabled() bool { return f.APIKey != "" }

// Fetch requests pages one at a time. A page without data does not stop
// the walk; a failed page does.
func (f *JSearchFetcher) Fetch(ctx context.Context, query, location string, pages int) ([]model.RawRecord, error) {
	if !f.Enabled() {
		f.log.Warn("RAPIDAPI_KEY not set, skipping")
		return nil, nil
	}

	header := http.Header{}
	header.Set("X-RapidAPI-Key", f.APIKey)
	header.Set("X-RapidAPI-Host", jsearchHost)

	var results []model.RawRecord
	for page := 1; page <= max(pages, 1); page++ {
		params := url.Values{}
		params.Set("query", query)
		params.Set("page", strconv.Itoa(page))
		params.Set("num_pages", "1")
		params.Set("date_posted", "all")
		params.Set("employment_types", jsearchEmploymentTypes)
		if location != "" {
			params.Set("location", location)
		}

		var resp jsearchResponse
		if err := f.req.getJSON(ctx, f.BaseURL+"?"+params.Encode(), header, &resp); err != nil {
			return results, errors.Wrapf(err, "page %d", page)
		}
		if resp.Status != "OK" || len(resp.Data) == 0 {
			f.log.Debugw("no jobs on page", "page", page, "status", resp.Status)
			continue
		}
		results = append(results, resp.Data...)
		f.log.Debugw("fetched page", "page", page, "count", len(resp.Data))
	}
	return results, nil
}
