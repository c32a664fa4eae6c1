// Package scraper implements the job-board source adapters, the aggregator
// that fans out to them, and the ingestion worker.
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"jobmate/aggregator-service/internal/model"
)

const (
	httpTimeout = 10 * time.Second
	userAgent   = "jobmate-aggregator/1.0"
	maxBodySize = 10 << 20
)

// Source is one external job-board API.
type Source interface {
	Name() model.Source
	// Enabled is false when the provider's credentials are missing.
	Enabled() bool
	// Fetch returns raw records for query/location, walking at most pages
	// pages. On failure it returns the records gathered so far together
	// with the error.
	Fetch(ctx context.Context, query, location string, pages int) ([]model.RawRecord, error)
}

// HTTPStatusError is returned when a provider answers with a non-200 status.
type HTTPStatusError struct {
	Source model.Source
	Status int
	Body   string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Source, e.Status, e.Body)
}

// NewHTTPClient returns the client shared by every adapter. The timeout
// applies per request.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: httpTimeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        50,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// requester performs paced JSON GETs for one adapter. The limiter holds
// one token, so the first page goes out at once and every following page
// waits for the provider's inter-page delay.
type requester struct {
	source  model.Source
	client  *http.Client
	limiter *rate.Limiter
}

func newRequester(src model.Source, client *http.Client, delay time.Duration) requester {
	if client == nil {
		client = NewHTTPClient()
	}
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return requester{source: src, client: client, limiter: rate.NewLimiter(limit, 1)}
}

// getJSON issues a GET and decodes the body into out, keeping numbers as
// json.Number so large identifiers survive intact.
func (r requester) getJSON(ctx context.Context, reqURL string, header http.Header, out any) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limiter")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "http GET")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return errors.Wrap(err, "read body")
	}

	if resp.StatusCode != http.StatusOK {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return &HTTPStatusError{Source: r.source, Status: resp.StatusCode, Body: snippet}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return errors.Wrap(err, "json decode")
	}
	return nil
}

func nopIfNil(log *zap.SugaredLogger) *zap.SugaredLogger {
	if log == nil {
		return zap.NewNop().Sugar()
	}
	return log
}
