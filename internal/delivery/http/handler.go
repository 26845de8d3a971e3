package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zypric/backend/internal/domain"
	"github.com/zypric/backend/internal/usecase"
)

// SessionHeader identifies a display session; a new search from the same
// session cancels the one still running
const SessionHeader = "X-Session-ID"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search *usecase.SearchService
}

// NewHandler creates a new HTTP handler
func NewHandler(search *usecase.SearchService) *Handler {
	return &Handler{
		search: search,
	}
}

// AnalyzeRequest is the body of POST /api/v1/analyze
type AnalyzeRequest struct {
	Reviews []string `json:"reviews" binding:"required"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "zypric-backend",
		"version": "1.0.0",
	})
}

// SearchProducts handles product search requests
func (h *Handler) SearchProducts(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "q is required",
		})
		return
	}

	result, err := h.search.Search(c.Request.Context(), sessionKey(c), query)
	if errors.Is(err, domain.ErrNoResults) {
		response := gin.H{"error": "No products found"}
		if suggestions := h.search.Suggestions(c.Request.Context(), query); len(suggestions) > 0 {
			response["suggestions"] = suggestions
		}
		c.JSON(http.StatusNotFound, response)
		return
	}
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// WordCloud serves the word-cloud PNG for one product
func (h *Handler) WordCloud(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	name := c.Query("name")
	if strings.TrimSpace(name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "name is required",
		})
		return
	}

	image, err := h.search.WordCloud(c.Request.Context(), name)
	if err != nil && !errors.Is(err, domain.ErrRender) {
		h.handleError(c, err)
		return
	}
	if err != nil {
		// blank image is still served
		c.Header("X-Render-Error", "true")
	}

	c.Data(http.StatusOK, "image/png", image)
}

// AnalyzeReviews classifies reviews posted in the request body
func (h *Handler) AnalyzeReviews(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	analysis, err := h.search.Analyze(c.Request.Context(), req.Reviews)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// ReloadCatalog re-reads the catalog source
func (h *Handler) ReloadCatalog(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	count, err := h.search.ReloadCatalog(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "reloaded",
		"products": count,
	})
}

func (h *Handler) ready(c *gin.Context) bool {
	if h.search != nil {
		return true
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error": "Search service not configured",
	})
	return false
}

// handleError maps domain errors to HTTP responses
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
	case errors.Is(err, domain.ErrNoResults):
		c.JSON(http.StatusNotFound, gin.H{"error": "No products found"})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, domain.ErrSearchSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": "Search superseded by a newer query"})
	case errors.Is(err, context.Canceled):
		// client went away
		c.Status(499)
	case errors.Is(err, domain.ErrClassification):
		log.Printf("[Handler] classification failed (request %s): %v", requestID(c), err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Review classification failed", "details": err.Error()})
	case errors.Is(err, domain.ErrCatalogLoad):
		log.Printf("[Handler] catalog unavailable (request %s): %v", requestID(c), err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Product catalog unavailable"})
	default:
		log.Printf("[Handler] unexpected error (request %s): %v", requestID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// sessionKey identifies the caller for search supersession. Requests without
// X-Session-ID never supersede each other.
func sessionKey(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(SessionHeader))
}
