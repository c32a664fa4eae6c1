package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"jobmate/aggregator-service/internal/model"
	"jobmate/aggregator-service/internal/parser"
)

const (
	adzunaBaseURL   = "https://api.adzuna.com/v1/api/jobs"
	adzunaPageSize  = 50
	adzunaPageDelay = 500 * time.Millisecond
)

// CountryRule maps location keywords to one Adzuna country endpoint.
type CountryRule struct {
	Keywords []string
	Code     string
}

// DefaultCountryTable is checked in order. Adzuna has no Bangladesh
// endpoint, so Bangladesh searches are served from India.
var DefaultCountryTable = []CountryRule{
	{Keywords: []string{"united states", "usa", "us"}, Code: "us"},
	{Keywords: []string{"united kingdom", "uk"}, Code: "gb"},
	{Keywords: []string{"canada"}, Code: "ca"},
	{Keywords: []string{"australia"}, Code: "au"},
	{Keywords: []string{"india"}, Code: "in"},
	{Keywords: []string{"bangladesh"}, Code: "in"},
}

// DefaultCountry is used when a location matches no rule.
const DefaultCountry = "us"

// ResolveCountry returns the country code for location and whether a rule
// matched. Keywords match whole words, so "Houston" does not hit "us".
func ResolveCountry(table []CountryRule, location string) (string, bool) {
	padded := " " + wordsOnly(location) + " "
	for _, rule := range table {
		for _, kw := range rule.Keywords {
			if strings.Contains(padded, " "+kw+" ") {
				return rule.Code, true
			}
		}
	}
	return DefaultCountry, false
}

func wordsOnly(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}), " ")
}

// AdzunaFetcher fetches job offers from the Adzuna public API.
// If AppID or AppKey is empty the fetcher is disabled.
type AdzunaFetcher struct {
	AppID     string
	AppKey    string
	BaseURL   string
	Countries []CountryRule
	req       requester
	log       *zap.SugaredLogger
}

// NewAdzunaFetcher constructs a fetcher with the default country table.
func NewAdzunaFetcher(appID, appKey string, client *http.Client, log *zap.SugaredLogger) *AdzunaFetcher {
	return &AdzunaFetcher{
		AppID:     appID,
		AppKey:    appKey,
		BaseURL:   adzunaBaseURL,
		Countries: DefaultCountryTable,
		req:       newRequester(model.SourceAdzuna, client, adzunaPageDelay),
		log:       nopIfNil(log).With("source", model.SourceAdzuna),
	}
}

// adzunaResponse mirrors the top-level Adzuna JSON response.
type adzunaResponse struct {
	Results []model.RawRecord `json:"results"`
	Count   int               `json:"count"`
}

// Name returns the source tag.
func (f *AdzunaFetcher) Name() model.Source { return model.SourceAdzuna }

// Enabled reports whether both Adzuna credentials are set.
func (f *AdzunaFetcher) Enabled() bool { return f.AppID != "" && f.AppKey != "" }

// Fetch walks result pages until one comes back short or pages is reached.
// Locations that name a country only select the endpoint; anything else is
// also sent as the "where" refinement.
func (f *AdzunaFetcher) Fetch(ctx context.Context, query, location string, pages int) ([]model.RawRecord, error) {
	if !f.Enabled() {
		f.log.Warn("ADZUNA_APP_ID / ADZUNA_APP_KEY not set, skipping")
		return nil, nil
	}

	country, matched := ResolveCountry(f.Countries, location)
	where := ""
	if !matched {
		where = strings.TrimSpace(location)
	}

	var results []model.RawRecord
	for page := 1; page <= max(pages, 1); page++ {
		batch, err := f.fetchPage(ctx, country, query, where, page)
		if err != nil {
			return results, errors.Wrapf(err, "page %d", page)
		}
		if len(batch) == 0 {
			f.log.Debugw("no more results", "page", page)
			break
		}
		results = append(results, batch...)
		f.log.Debugw("fetched page", "page", page, "count", len(batch))
		if len(batch) < adzunaPageSize {
			break
		}
	}
	return results, nil
}

func (f *AdzunaFetcher) fetchPage(ctx context.Context, country, query, where string, page int) ([]model.RawRecord, error) {
	endpoint := fmt.Sprintf("%s/%s/search/%d", f.BaseURL, country, page)

	params := url.Values{}
	params.Set("app_id", f.AppID)
	params.Set("app_key", f.AppKey)
	params.Set("results_per_page", strconv.Itoa(adzunaPageSize))
	params.Set("what", query)
	params.Set("content-type", "application/json")
	if where != "" {
		params.Set("where", where)
	}

	var apiResp adzunaResponse
	if err := f.req.getJSON(ctx, endpoint+"?"+params.Encode(), nil, &apiResp); err != nil {
		return nil, err
	}
	for _, r := range apiResp.Results {
		r[parser.CountryKey] = country
	}
	return apiResp.Results, nil
}
