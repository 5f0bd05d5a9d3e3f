package logs

import (
	"net/http"
	"strconv"

	"cityhub/internal/pkg/pagination"
	"cityhub/internal/pkg/response"
	"cityhub/internal/repository"

	"github.com/gin-gonic/gin"
)

var validSortFields = []string{"timestamp", "level", "status"}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Ingestion is public so the front end can report errors even when the user
// is not logged in; querying is admin-only.
func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.POST("/logs", h.Ingest)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/logs", h.List)
}

func (h *Handler) Ingest(c *gin.Context) {
	var req ClientLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	entry, err := h.service.Ingest(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LOG_FAILED", "Failed to store log entry")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"log": entry})
}

func (h *Handler) List(c *gin.Context) {
	p := pagination.FromQuery(c, validSortFields, "timestamp")

	filter := repository.LogFilter{
		Level:  c.Query("level"),
		Source: c.Query("source"),
	}
	if raw := c.Query("status"); raw != "" {
		if status, err := strconv.Atoi(raw); err == nil {
			filter.Status = status
		}
	}

	entries, total, err := h.service.List(c.Request.Context(), filter, p)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list logs")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"logs":       entries,
		"pagination": pagination.NewMeta(total, p),
	})
}
