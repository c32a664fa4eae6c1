package scraper

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"jobmate/aggregator-service/internal/model"
)

const (
	remotiveBaseURL  = "https://remotive.com/api/remote-jobs"
	remotiveCategory = "software-dev"
	remotiveLimit    = "100"
)

// RemotiveFetcher lists remote jobs from Remotive. No authentication; the
// endpoint is not paginated and location has no meaning for it.
type RemotiveFetcher struct {
	BaseURL  string
	Category string
	req      requester
	log      *zap.SugaredLogger
}

// NewRemotiveFetcher constructs a fetcher for the Remotive remote-jobs API.
func NewRemotiveFetcher(client *http.Client, log *zap.SugaredLogger) *RemotiveFetcher {
	return &RemotiveFetcher{
		BaseURL:  remotiveBaseURL,
		Category: remotiveCategory,
		req:      newRequester(model.SourceRemotive, client, 0),
		log:      nopIfNil(log).With("source", model.SourceRemotive),
	}
}

type remotiveResponse struct {
	Jobs []model.RawRecord `json:"jobs"`
}

// Name returns the source tag.
func (f *RemotiveFetcher) Name() model.Source { return model.SourceRemotive }

// Enabled is always true; the API needs no key.
func (f *RemotiveFetcher) Enabled() bool { return true }

// Fetch runs a single search. Remotive is not paged and ignores location.
func (f *RemotiveFetcher) Fetch(ctx context.Context, query, _ string, _ int) ([]model.RawRecord, error) {
	params := url.Values{}
	params.Set("category", f.Category)
	params.Set("limit", remotiveLimit)
	if query != "" {
		params.Set("search", query)
	}

	var resp remotiveResponse
	if err := f.req.getJSON(ctx, f.BaseURL+"?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	f.log.Debugw("fetched", "count", len(resp.Jobs))
	return resp.Jobs, nil
}
