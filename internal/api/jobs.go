package api

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"jobmate/aggregator-service/internal/filter"
	"jobmate/aggregator-service/internal/model"
	"jobmate/aggregator-service/internal/storage"
)

// ListJobs handles GET /api/jobs.
func (h *Handler) ListJobs(c *gin.Context) {
	var q listJobsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}

	f := storage.ListFilter{
		Source:          model.Source(q.Source),
		JobType:         model.JobType(q.JobType),
		ExperienceLevel: model.ExperienceLevel(q.ExperienceLevel),
		Location:        q.Location,
		Limit:           q.Limit,
		Offset:          q.Offset,
	}
	if q.Remote != "" {
		r := filter.ParseRemote(q.Remote)
		f.Remote = &r
	}

	jobs, err := h.store.ListJobs(c.Request.Context(), f)
	if err != nil {
		h.internalError(c, "Error listing jobs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(jobs),
		"limit":   f.Limit,
		"offset":  f.Offset,
		"jobs":    nonNil(jobs),
	})
}

// SearchJobs handles GET /api/jobs/search.
func (h *Handler) SearchJobs(c *gin.Context) {
	var q searchJobsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Search term is required", err)
		return
	}

	jobs, err := h.store.SearchJobs(c.Request.Context(), q.Q, q.Limit)
	if err != nil {
		h.internalError(c, "Error searching jobs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"query":   q.Q,
		"count":   len(jobs),
		"jobs":    nonNil(jobs),
	})
}

// GetJob handles GET /api/jobs/:id.
func (h *Handler) GetJob(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		badRequest(c, "Invalid job id", err)
		return
	}

	job, err := h.store.GetJob(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Job not found", Code: http.StatusNotFound})
		return
	}
	if err != nil {
		h.internalError(c, "Error loading job", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "job": job})
}

func nonNil(jobs []storage.StoredJob) []storage.StoredJob {
	if jobs == nil {
		return []storage.StoredJob{}
	}
	return jobs
}
