package bus

import (
	"errors"
	"net/http"

	"cityhub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	live    *LiveFeed
}

func NewHandler(service *Service, live *LiveFeed) *Handler {
	return &Handler{service: service, live: live}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	group := protected.Group("/bus")
	{
		group.GET("/:lineCode", h.GetRealTimeInfo)
		group.GET("/:lineCode/arrivals", h.GetArrivals)
		group.GET("/:lineCode/plans", h.GetPlans)
		group.GET("/:lineCode/live", h.live.Handle)
	}
}

func (h *Handler) GetRealTimeInfo(c *gin.Context) {
	info, err := h.service.GetRealTimeInfo(c.Request.Context(), c.Param("lineCode"))
	if err != nil {
		writeBusError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"busInfo": info})
}

func (h *Handler) GetArrivals(c *gin.Context) {
	arrivals, err := h.service.GetArrivals(c.Request.Context(), c.Param("lineCode"))
	if err != nil {
		writeBusError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"arrivals": arrivals})
}

func (h *Handler) GetPlans(c *gin.Context) {
	plans, err := h.service.GetPlans(c.Request.Context(), c.Param("lineCode"))
	if err != nil {
		writeBusError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"plans": plans})
}

func writeBusError(c *gin.Context, err error) {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		response.Error(c, http.StatusBadRequest, "BUS_UPSTREAM_ERROR", upstream.Message)
		return
	}
	response.Error(c, http.StatusInternalServerError, "BUS_FAILED", "Failed to query bus data")
}
