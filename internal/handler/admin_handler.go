package handler

import (
	"github.com/adoptly/service-adoption/internal/application"
	"github.com/adoptly/service-adoption/internal/platform/response"
	"github.com/gin-gonic/gin"
)

// AdminRequestHandler serves operator views over adoption requests.
type AdminRequestHandler struct {
	service *application.RequestService
}

// NewAdminRequestHandler creates a new AdminRequestHandler.
func NewAdminRequestHandler(service *application.RequestService) *AdminRequestHandler {
	return &AdminRequestHandler{service: service}
}

// RegisterRoutes registers admin request routes.
func (h *AdminRequestHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	{
		admin.GET("/stats/requests", h.RequestStats)
	}
}

// RequestStats handles GET /admin/stats/requests.
func (h *AdminRequestHandler) RequestStats(c *gin.Context) {
	stats, err := h.service.GetRequestStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}
