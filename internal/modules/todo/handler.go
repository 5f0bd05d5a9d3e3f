package todo

import (
	"errors"
	"net/http"
	"strconv"

	"cityhub/internal/pkg/pagination"
	"cityhub/internal/pkg/response"
	"cityhub/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	todos := protected.Group("/todos")
	{
		todos.GET("", h.List)
		todos.POST("", h.Create)
		todos.GET("/:id", h.Get)
		todos.PATCH("/:id", h.Update)
		todos.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	p := pagination.FromQuery(c, ValidSortFields, "created_at")

	filter := repository.TodoFilter{Title: c.Query("title")}
	if raw := c.Query("completed"); raw != "" {
		completed := raw == "true"
		filter.Completed = &completed
	}

	todos, total, err := h.service.List(c.Request.Context(), filter, p)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list todos")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"todos":      todos,
		"pagination": pagination.NewMeta(total, p),
	})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	t, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create todo")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"todo": t})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	t, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTodoNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Todo not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "GET_FAILED", "Failed to load todo")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"todo": t})
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	t, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrTodoNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Todo not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update todo")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"todo": t})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrTodoNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Todo not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "DELETE_FAILED", "Failed to delete todo")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Todo deleted"})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid todo ID")
		return 0, false
	}
	return id, true
}
