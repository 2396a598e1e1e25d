// Package httpapi exposes the collection pipeline over a REST API,
// mirroring the platform's /api/v1/product-dna surface.
package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pulse-labs/productdna/internal/core/domain"
	"github.com/pulse-labs/productdna/internal/core/ports/driving"
	"github.com/pulse-labs/productdna/internal/logger"
)

// Options configures the router.
type Options struct {
	// CORSOrigins are the browser origins allowed to call the API.
	CORSOrigins []string
}

// handlers binds the collection service to gin.
type handlers struct {
	svc driving.CollectionService
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(svc driving.CollectionService, opts Options) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), corsMiddleware(opts.CORSOrigins))

	h := &handlers{svc: svc}

	r.GET("/health", h.health)

	api := r.Group("/api/v1/product-dna")
	{
		api.POST("/collect", h.collect)
		api.GET("", h.list)
		api.GET("/stats", h.stats)
		api.POST("/ensure-indexes", h.ensureIndexes)
	}

	return r
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "productdna"})
}

// collect triggers one pipeline run. Pipeline failures come back as
// a 200 with success=false; only invalid requests are 4xx.
func (h *handlers) collect(c *gin.Context) {
	var req domain.CollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.svc.Collect(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("collection failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// list returns stored records with optional filters and pagination.
func (h *handlers) list(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(domain.DefaultQueryLimit)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "skip must be an integer"})
		return
	}

	filter := domain.QueryFilter{
		Sentiment: domain.Sentiment(c.Query("sentiment")),
		Subreddit: c.Query("subreddit"),
		Limit:     limit,
		Skip:      skip,
	}

	posts, err := h.svc.Posts(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("failed to retrieve records: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if posts == nil {
		posts = []domain.EnrichedPost{}
	}
	c.JSON(http.StatusOK, posts)
}

func (h *handlers) stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		logger.Error("failed to get stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *handlers) ensureIndexes(c *gin.Context) {
	if err := h.svc.EnsureIndexes(c.Request.Context()); err != nil {
		logger.Error("failed to create indexes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "indexes created successfully"})
}

// corsMiddleware allows the configured browser origins. An origin
// must match exactly; requests without an Origin header pass through
// untouched.
func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
