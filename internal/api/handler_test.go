package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/aggregator-service/internal/api"
	"jobmate/aggregator-service/internal/model"
	"jobmate/aggregator-service/internal/realtime"
	"jobmate/aggregator-service/internal/storage"
)

func init() { gin.SetMode(gin.TestMode) }

func ptr[T any](v T) *T { return &v }

type fakeSearcher struct {
	reqs    []realtime.Request
	jobs    []model.Job
	err     error
	cleared bool
}

func (f *fakeSearcher) Search(_ context.Context, req realtime.Request) (*realtime.Response, error) {
	f.reqs = append(f.reqs, req)
	if req.Query == "" {
		return nil, &realtime.ValidationError{Err: errors.New("query is required")}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &realtime.Response{
		Query:         req.Query,
		Location:      req.Location,
		Stats:         realtime.Stats{Total: len(f.jobs), BySource: map[model.Source]int{model.SourceRemotive: len(f.jobs)}},
		Jobs:          f.jobs,
		PlatformLinks: realtime.PlatformLinks(req.Query, req.Location),
	}, nil
}

func (f *fakeSearcher) ClearCache(context.Context) error {
	f.cleared = true
	return f.err
}

func (f *fakeSearcher) AvailableSources() []model.Source {
	return []model.Source{model.SourceRemotive, model.SourceTheMuse}
}

func (f *fakeSearcher) CacheTTL() time.Duration { return 30 * time.Minute }

func sampleJobs() []model.Job {
	return []model.Job{
		{ExternalJobID: "1", Title: "Python Engineer", Company: "Acme", Location: "Berlin, Germany",
			Remote: model.RemoteYes, JobType: model.JobTypeFullTime, Source: model.SourceRemotive,
			SalaryMin: ptr(90000.0), SalaryMax: ptr(120000.0), Skills: []string{"Python", "Docker"}},
		{ExternalJobID: "2", Title: "Go Developer", Company: "Globex", Location: "Remote",
			Remote: model.RemoteNo, JobType: model.JobTypeContract, Source: model.SourceRemotive,
			Skills: []string{"Go", "Docker"}},
		{ExternalJobID: "3", Title: "React Developer", Company: "Initech", Location: "Austin, USA",
			JobType: model.JobTypeFullTime, Source: model.SourceRemotive, Skills: []string{"React"}},
	}
}

func newServer(svc api.Searcher, store api.JobReader) *gin.Engine {
	return api.NewRouter(api.NewHandler(svc, store, nil))
}

func do(t *testing.T, r http.Handler, method, target, body string) (int, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func TestHealth(t *testing.T) {
	code, body := do(t, newServer(&fakeSearcher{}, nil), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["storage"])
}

func TestRealtimeHealth(t *testing.T) {
	code, body := do(t, newServer(&fakeSearcher{}, nil), http.MethodGet, "/api/realtime-jobs/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []any{"remotive", "themuse"}, body["available_sources"])
	assert.EqualValues(t, 30, body["cache_duration_minutes"])
}

func TestSearch_DefaultsOnEmptyBody(t *testing.T) {
	svc := &fakeSearcher{jobs: sampleJobs()}
	code, body := do(t, newServer(svc, nil), http.MethodPost, "/api/realtime-jobs/search", "")

	assert.Equal(t, http.StatusOK, code)
	require.Len(t, svc.reqs, 1)
	assert.Equal(t, realtime.Request{Query: "software developer", Location: "United States", UseCache: true}, svc.reqs[0])
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["jobs"], 3)
	assert.Nil(t, body["filters_applied"])
}

func TestSearch_AppliesFilters(t *testing.T) {
	svc := &fakeSearcher{jobs: sampleJobs()}
	code, body := do(t, newServer(svc, nil), http.MethodPost, "/api/realtime-jobs/search",
		`{"query":"developer","use_cache":false,"sources":["remotive"],
		  "filters":{"skills":["docker"],"location_filter":"germany","remote":"true"}}`)

	assert.Equal(t, http.StatusOK, code)
	assert.False(t, svc.reqs[0].UseCache)
	assert.Equal(t, []string{"remotive"}, svc.reqs[0].Sources)

	jobs := body["jobs"].([]any)
	require.Len(t, jobs, 1)
	assert.Equal(t, "1", jobs[0].(map[string]any)["external_job_id"])

	stats := body["stats"].(map[string]any)
	assert.EqualValues(t, 3, stats["original_total"])
	assert.EqualValues(t, 1, stats["filtered_total"])
	assert.EqualValues(t, 3, stats["total"])

	applied := body["filters_applied"].(map[string]any)
	assert.Equal(t, "germany", applied["location"])
}

func TestSearch_ValidationError(t *testing.T) {
	code, body := do(t, newServer(&fakeSearcher{}, nil), http.MethodPost, "/api/realtime-jobs/search", `{"query":""}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])
	assert.EqualValues(t, 400, body["code"])
}

func TestSearch_MalformedBody(t *testing.T) {
	code, _ := do(t, newServer(&fakeSearcher{}, nil), http.MethodPost, "/api/realtime-jobs/search", `{"query":`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestQuickSearch(t *testing.T) {
	svc := &fakeSearcher{jobs: sampleJobs()}
	srv := newServer(svc, nil)

	code, _ := do(t, srv, http.MethodGet, "/api/realtime-jobs/quick-search", "")
	assert.Equal(t, http.StatusBadRequest, code, "q is required")

	code, body := do(t, srv, http.MethodGet, "/api/realtime-jobs/quick-search?q=dev&limit=1&job_type=full-time", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "United States", svc.reqs[0].Location)
	assert.Len(t, body["jobs"], 1)
	stats := body["stats"].(map[string]any)
	assert.EqualValues(t, 2, stats["filtered_total"])
	assert.EqualValues(t, 1, stats["returned"])

	code, body = do(t, srv, http.MethodGet, "/api/realtime-jobs/quick-search?q=dev&skills=react,%20go", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, body["jobs"], 2)
	assert.EqualValues(t, 2, body["stats"].(map[string]any)["returned"])
}

func TestMatch(t *testing.T) {
	svc := &fakeSearcher{jobs: sampleJobs()}
	srv := newServer(svc, nil)

	code, _ := do(t, srv, http.MethodPost, "/api/realtime-jobs/match", `{"query":"dev"}`)
	assert.Equal(t, http.StatusBadRequest, code, "user_skills is required")

	code, _ = do(t, srv, http.MethodPost, "/api/realtime-jobs/match", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := do(t, srv, http.MethodPost, "/api/realtime-jobs/match",
		`{"user_skills":["docker","python"],"min_match_percentage":50}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Remote", svc.reqs[len(svc.reqs)-1].Location)
	assert.EqualValues(t, 3, body["total_jobs_found"])
	assert.EqualValues(t, 2, body["matched_jobs_count"])

	jobs := body["jobs"].([]any)
	first := jobs[0].(map[string]any)
	assert.Equal(t, "1", first["external_job_id"])
	assert.EqualValues(t, 100, first["match_percentage"])
	assert.NotEmpty(t, body["platform_links"])
}

func TestSkillGapAnalysis(t *testing.T) {
	srv := newServer(&fakeSearcher{jobs: sampleJobs()}, nil)

	code, body := do(t, srv, http.MethodPost, "/api/realtime-jobs/skill-gap-analysis", `{"user_skills":["Go"]}`)
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 3, body["total_jobs_analyzed"])
	gaps := body["top_skill_gaps"].([]any)
	assert.Equal(t, "Docker", gaps[0].(map[string]any)["skill"])

	code, _ = do(t, srv, http.MethodPost, "/api/realtime-jobs/skill-gap-analysis", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPlatforms(t *testing.T) {
	srv := newServer(&fakeSearcher{}, nil)

	code, _ := do(t, srv, http.MethodGet, "/api/realtime-jobs/platforms", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := do(t, srv, http.MethodGet, "/api/realtime-jobs/platforms?query=go+developer&location=Berlin", "")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 13, body["platform_count"])
}

func TestClearCache(t *testing.T) {
	svc := &fakeSearcher{}
	code, body := do(t, newServer(svc, nil), http.MethodPost, "/api/realtime-jobs/clear-cache", "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, svc.cleared)
	assert.Equal(t, "Cache cleared successfully", body["message"])

	failing := &fakeSearcher{err: errors.New("redis down")}
	code, body = do(t, newServer(failing, nil), http.MethodPost, "/api/realtime-jobs/clear-cache", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, false, body["success"])
}

func TestAnalyticsEndpoints(t *testing.T) {
	srv := newServer(&fakeSearcher{jobs: sampleJobs()}, nil)

	code, body := do(t, srv, http.MethodPost, "/api/realtime-jobs/analytics", `{"filters":{"job_type":"full-time"}}`)
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 3, body["total_jobs_fetched"])
	assert.EqualValues(t, 2, body["jobs_analyzed"])
	overview := body["analytics"].(map[string]any)["overview"].(map[string]any)
	assert.NotEmpty(t, overview)

	code, body = do(t, srv, http.MethodPost, "/api/realtime-jobs/analytics", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, body["filters_applied"])

	code, body = do(t, srv, http.MethodPost, "/api/realtime-jobs/analytics/skill-trends", `{"user_skills":["docker"]}`)
	assert.Equal(t, http.StatusOK, code)
	trends := body["skill_trends"].(map[string]any)
	assert.NotEmpty(t, trends["trending_skills"])
	assert.NotNil(t, trends["user_skills_analysis"])

	code, body = do(t, srv, http.MethodPost, "/api/realtime-jobs/analytics/location-insights", "")
	assert.Equal(t, http.StatusOK, code)
	insights := body["location_insights"].(map[string]any)
	assert.EqualValues(t, 3, insights["total_unique_locations"])
}

func TestSearch_ServiceFailure(t *testing.T) {
	svc := &fakeSearcher{err: errors.New("boom")}
	code, body := do(t, newServer(svc, nil), http.MethodPost, "/api/realtime-jobs/search", `{"query":"go"}`)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Error fetching jobs", body["error"])
}

// ─── Stored jobs ──────────────────────────────────────────────────────────────

type fakeStore struct {
	filter storage.ListFilter
	term   string
	jobs   []storage.StoredJob
}

func (f *fakeStore) ListJobs(_ context.Context, lf storage.ListFilter) ([]storage.StoredJob, error) {
	f.filter = lf
	return f.jobs, nil
}

func (f *fakeStore) SearchJobs(_ context.Context, term string, _ int) ([]storage.StoredJob, error) {
	f.term = term
	return f.jobs, nil
}

func (f *fakeStore) GetJob(_ context.Context, id string) (*storage.StoredJob, error) {
	for i := range f.jobs {
		if f.jobs[i].ID == id {
			return &f.jobs[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

const storedID = "5b0c6c1e-4f5f-4d0a-9c1e-2f2b7d3c9a10"

func TestJobsRoutes_OnlyWithStore(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	w := httptest.NewRecorder()
	newServer(&fakeSearcher{}, nil).ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListJobs(t *testing.T) {
	store := &fakeStore{jobs: []storage.StoredJob{{ID: storedID, Job: sampleJobs()[0], IsActive: true}}}
	srv := newServer(&fakeSearcher{}, store)

	code, body := do(t, srv, http.MethodGet, "/api/jobs?source=remotive&remote=true&limit=10&offset=5", "")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["count"])
	assert.Equal(t, model.SourceRemotive, store.filter.Source)
	assert.Equal(t, ptr(true), store.filter.Remote)
	assert.Equal(t, 10, store.filter.Limit)
	assert.Equal(t, 5, store.filter.Offset)

	code, _ = do(t, srv, http.MethodGet, "/api/jobs?source=monster", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, srv, http.MethodGet, "/api/jobs?limit=1000", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSearchAndGetJob(t *testing.T) {
	store := &fakeStore{jobs: []storage.StoredJob{{ID: storedID, Job: sampleJobs()[1], IsActive: true}}}
	srv := newServer(&fakeSearcher{}, store)

	code, body := do(t, srv, http.MethodGet, "/api/jobs/search?q=golang", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "golang", store.term)
	assert.EqualValues(t, 1, body["count"])

	code, _ = do(t, srv, http.MethodGet, "/api/jobs/search", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = do(t, srv, http.MethodGet, "/api/jobs/"+storedID, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, storedID, body["job"].(map[string]any)["id"])

	code, _ = do(t, srv, http.MethodGet, "/api/jobs/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, srv, http.MethodGet, "/api/jobs/00000000-0000-0000-0000-000000000001", "")
	assert.Equal(t, http.StatusNotFound, code)
}
