package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jobmate/aggregator-service/internal/analytics"
	"jobmate/aggregator-service/internal/filter"
	"jobmate/aggregator-service/internal/match"
	"jobmate/aggregator-service/internal/model"
	"jobmate/aggregator-service/internal/realtime"
)

// searchStats extends the service stats with the counts the filtering
// endpoints add.
type searchStats struct {
	realtime.Stats
	OriginalTotal *int `json:"original_total,omitempty"`
	FilteredTotal *int `json:"filtered_total,omitempty"`
	Returned      *int `json:"returned,omitempty"`
}

type searchResponse struct {
	Success bool `json:"success"`
	*realtime.Response
	Stats          searchStats       `json:"stats"`
	FiltersApplied *filter.FilterSet `json:"filters_applied,omitempty"`
}

// Search handles POST /api/realtime-jobs/search.
func (h *Handler) Search(c *gin.Context) {
	var body searchBody
	if !bindJSON(c, &body) {
		return
	}
	useCache := body.UseCache == nil || *body.UseCache

	resp, ok := h.fetch(c, body.query(), body.location(defaultLocation), body.Sources, useCache)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, filtered(resp, body.Filters.set(), 0))
}

// QuickSearch handles GET /api/realtime-jobs/quick-search.
func (h *Handler) QuickSearch(c *gin.Context) {
	var q quickSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	limit := q.Limit
	if limit == 0 {
		limit = defaultQuickLimit
	}

	resp, ok := h.fetch(c, q.Q, orDefault(q.Location, defaultLocation), nil, true)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, filtered(resp, q.set(), limit))
}

// filtered applies fs and an optional limit to a copy of resp.
func filtered(resp *realtime.Response, fs filter.FilterSet, limit int) searchResponse {
	out := *resp
	stats := searchStats{Stats: resp.Stats}
	var applied *filter.FilterSet

	if len(fs.Active()) > 0 {
		original := len(out.Jobs)
		out.Jobs = filter.Apply(out.Jobs, fs)
		kept := len(out.Jobs)
		stats.OriginalTotal, stats.FilteredTotal = &original, &kept
		applied = &fs
	}
	if limit > 0 {
		if len(out.Jobs) > limit {
			out.Jobs = out.Jobs[:limit]
		}
		returned := len(out.Jobs)
		stats.Returned = &returned
	}
	return searchResponse{Success: true, Response: &out, Stats: stats, FiltersApplied: applied}
}

// Match handles POST /api/realtime-jobs/match.
func (h *Handler) Match(c *gin.Context) {
	var body matchBody
	if !bindJSON(c, &body) {
		return
	}
	query, location := body.query(), body.location(defaultMatchPlace)

	resp, ok := h.fetch(c, query, location, body.Sources, true)
	if !ok {
		return
	}
	matched := match.Match(resp.Jobs, body.UserSkills, body.MinMatchPercentage)

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"query":              query,
		"location":           location,
		"user_skills":        body.UserSkills,
		"total_jobs_found":   len(resp.Jobs),
		"matched_jobs_count": len(matched),
		"jobs":               matched,
		"platform_links":     resp.PlatformLinks,
	})
}

// SkillGap handles POST /api/realtime-jobs/skill-gap-analysis.
func (h *Handler) SkillGap(c *gin.Context) {
	var body skillsBody
	if !bindJSON(c, &body) {
		return
	}
	query, location := body.query(), body.location(defaultLocation)

	resp, ok := h.fetch(c, query, location, body.Sources, true)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, struct {
		Success           bool   `json:"success"`
		Query             string `json:"query"`
		Location          string `json:"location"`
		TotalJobsAnalyzed int    `json:"total_jobs_analyzed"`
		realtime.SkillGapReport
	}{true, query, location, len(resp.Jobs), realtime.AnalyzeSkillGap(resp.Jobs, body.UserSkills)})
}

// Platforms handles GET /api/realtime-jobs/platforms.
func (h *Handler) Platforms(c *gin.Context) {
	var q platformsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Query parameter is required", err)
		return
	}
	links := realtime.PlatformLinks(q.Query, q.Location)
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"query":          q.Query,
		"location":       q.Location,
		"platforms":      links,
		"platform_count": len(links),
	})
}

// ClearCache handles POST /api/realtime-jobs/clear-cache.
func (h *Handler) ClearCache(c *gin.Context) {
	if err := h.svc.ClearCache(c.Request.Context()); err != nil {
		h.internalError(c, "Error clearing cache", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cache cleared successfully"})
}

// Analytics handles POST /api/realtime-jobs/analytics.
func (h *Handler) Analytics(c *gin.Context) {
	var body analyticsBody
	if !bindJSON(c, &body) {
		return
	}
	query, location := body.query(), body.location(defaultLocation)

	resp, ok := h.fetch(c, query, location, body.Sources, true)
	if !ok {
		return
	}
	jobs := resp.Jobs
	fs := body.Filters.set()
	var applied *filter.FilterSet
	if len(fs.Active()) > 0 {
		jobs = filter.Apply(jobs, fs)
		applied = &fs
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"query":              query,
		"location":           location,
		"total_jobs_fetched": len(resp.Jobs),
		"jobs_analyzed":      len(jobs),
		"filters_applied":    applied,
		"analytics":          analytics.Generate(jobs, h.now()),
	})
}

// SkillTrends handles POST /api/realtime-jobs/analytics/skill-trends.
func (h *Handler) SkillTrends(c *gin.Context) {
	var body skillTrendsBody
	if !bindJSON(c, &body) {
		return
	}
	query, location := body.query(), body.location(defaultLocation)

	resp, ok := h.fetch(c, query, location, body.Sources, true)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"query":               query,
		"location":            location,
		"total_jobs_analyzed": len(resp.Jobs),
		"user_skills":         body.UserSkills,
		"skill_trends":        analytics.SkillTrends(resp.Jobs, body.UserSkills),
	})
}

// LocationInsights handles POST /api/realtime-jobs/analytics/location-insights.
func (h *Handler) LocationInsights(c *gin.Context) {
	var body fetchBody
	if !bindJSON(c, &body) {
		return
	}
	query := body.query()

	resp, ok := h.fetch(c, query, body.location(defaultLocation), body.Sources, true)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"query":               query,
		"total_jobs_analyzed": len(resp.Jobs),
		"location_insights":   analytics.LocationInsights(resp.Jobs),
	})
}

// RealtimeHealth handles GET /api/realtime-jobs/health.
func (h *Handler) RealtimeHealth(c *gin.Context) {
	sources := h.svc.AvailableSources()
	if sources == nil {
		sources = []model.Source{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success":                true,
		"status":                 "healthy",
		"message":                "Real-time job service is running",
		"available_sources":      sources,
		"cache_enabled":          true,
		"cache_duration_minutes": int(h.svc.CacheTTL() / time.Minute),
	})
}
