// Package api exposes the aggregator over HTTP with gin.
package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"jobmate/aggregator-service/internal/model"
	"jobmate/aggregator-service/internal/realtime"
	"jobmate/aggregator-service/internal/storage"
)

// Version is reported by /health.
const Version = "0.2.0"

// Searcher is the real-time search service. *realtime.Service implements it.
type Searcher interface {
	Search(ctx context.Context, req realtime.Request) (*realtime.Response, error)
	ClearCache(ctx context.Context) error
	AvailableSources() []model.Source
	CacheTTL() time.Duration
}

// JobReader reads persisted jobs. *storage.JobStore implements it.
type JobReader interface {
	ListJobs(ctx context.Context, f storage.ListFilter) ([]storage.StoredJob, error)
	SearchJobs(ctx context.Context, term string, limit int) ([]storage.StoredJob, error)
	GetJob(ctx context.Context, id string) (*storage.StoredJob, error)
}

// Handler holds the dependencies of every route.
type Handler struct {
	svc   Searcher
	store JobReader
	now   func() time.Time
	log   *zap.SugaredLogger
}

// NewHandler creates a Handler. store may be nil; the /api/jobs routes are
// then not registered.
func NewHandler(svc Searcher, store JobReader, log *zap.SugaredLogger) *Handler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Handler{svc: svc, store: store, now: time.Now, log: log.Named("api")}
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(h.log))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		rt := api.Group("/realtime-jobs")
		{
			rt.POST("/search", h.Search)
			rt.GET("/quick-search", h.QuickSearch)
			rt.POST("/match", h.Match)
			rt.POST("/skill-gap-analysis", h.SkillGap)
			rt.GET("/platforms", h.Platforms)
			rt.POST("/clear-cache", h.ClearCache)
			rt.POST("/analytics", h.Analytics)
			rt.POST("/analytics/skill-trends", h.SkillTrends)
			rt.POST("/analytics/location-insights", h.LocationInsights)
			rt.GET("/health", h.RealtimeHealth)
		}

		if h.store != nil {
			jobs := api.Group("/jobs")
			{
				jobs.GET("", h.ListJobs)
				jobs.GET("/search", h.SearchJobs)
				jobs.GET("/:id", h.GetJob)
			}
		}
	}

	return router
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "aggregator-service",
		"version": Version,
		"storage": h.store != nil,
	})
}

// fetch runs a realtime search and writes the error response itself when it
// fails.
func (h *Handler) fetch(c *gin.Context, query, location string, sources []string, useCache bool) (*realtime.Response, bool) {
	resp, err := h.svc.Search(c.Request.Context(), realtime.Request{
		Query:    query,
		Location: location,
		Sources:  sources,
		UseCache: useCache,
	})
	var verr *realtime.ValidationError
	switch {
	case errors.As(err, &verr):
		badRequest(c, "Invalid search request", verr.Err)
		return nil, false
	case err != nil:
		h.internalError(c, "Error fetching jobs", err)
		return nil, false
	}
	return resp, true
}

// bindJSON decodes and validates the body. An empty body is treated as {}.
func bindJSON(c *gin.Context, v any) bool {
	err := c.ShouldBindJSON(v)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(v)
	}
	if err != nil {
		badRequest(c, "Invalid request body", err)
		return false
	}
	return true
}

func badRequest(c *gin.Context, msg string, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   msg,
		Code:    http.StatusBadRequest,
		Details: err.Error(),
	})
}

func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	h.log.Errorw(msg, "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   msg,
		Code:    http.StatusInternalServerError,
		Details: err.Error(),
	})
}

func requestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client", c.ClientIP(),
		)
	}
}
