package scraper

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"jobmate/aggregator-service/internal/model"
)

const (
	arbeitnowBaseURL   = "https://www.arbeitnow.com/api/job-board-api"
	arbeitnowPageDelay = 500 * time.Millisecond
)

// ArbeitnowFetcher reads the Arbeitnow job board (European developer jobs).
// The API has no search parameter, so the query is applied client-side as a
// case-insensitive substring match on title and description.
type ArbeitnowFetcher struct {
	BaseURL string
	req     requester
	log     *zap.SugaredLogger
}

// NewArbeitnowFetcher constructs a fetcher for the public Arbeitnow feed.
func NewArbeitnowFetcher(client *http.Client, log *zap.SugaredLogger) *ArbeitnowFetcher {
	return &ArbeitnowFetcher{
		BaseURL: arbeitnowBaseURL,
		req:     newRequester(model.SourceArbeitnow, client, arbeitnowPageDelay),
		log:     nopIfNil(log).With("source", model.SourceArbeitnow),
	}
}

type arbeitnowResponse struct {
	Data []model.RawRecord `json:"data"`
}

// Name returns the source tag.
func (f *ArbeitnowFetcher) Name() model.Source { return model.SourceArbeitnow }

// Enabled is always true; the feed needs no credentials.
func (f *ArbeitnowFetcher) Enabled() bool { return true }

// Fetch reads up to pages feed pages and keeps the records whose title or
// description mentions query. The feed has no location filter.
func (f *ArbeitnowFetcher) Fetch(ctx context.Context, query, _ string, pages int) ([]model.RawRecord, error) {
	var all []model.RawRecord
	for page := 1; page <= max(pages, 1); page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))

		var resp arbeitnowResponse
		if err := f.req.getJSON(ctx, f.BaseURL+"?"+params.Encode(), nil, &resp); err != nil {
			return matchQuery(all, query), errors.Wrapf(err, "page %d", page)
		}
		if len(resp.Data) == 0 {
			break
		}
		all = append(all, resp.Data...)
	}

	matched := matchQuery(all, query)
	f.log.Debugw("fetched", "count", len(all), "matched", len(matched))
	return matched, nil
}

// matchQuery keeps records whose title or description contains query.
func matchQuery(records []model.RawRecord, query string) []model.RawRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records
	}
	out := make([]model.RawRecord, 0, len(records))
	for _, r := range records {
		title, _ := r["title"].(string)
		desc, _ := r["description"].(string)
		if strings.Contains(strings.ToLower(title), q) || strings.Contains(strings.ToLower(desc), q) {
			out = append(out, r)
		}
	}
	return out
}
