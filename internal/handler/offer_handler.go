package handler

import (
	"github.com/adoptly/service-adoption/internal/application"
	"github.com/adoptly/service-adoption/internal/platform/response"
	"github.com/gin-gonic/gin"
)

// OfferHandler serves homepage offers.
type OfferHandler struct {
	service *application.OfferService
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(service *application.OfferService) *OfferHandler {
	return &OfferHandler{service: service}
}

// RegisterRoutes registers GET /offers.
func (h *OfferHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/offers", h.ListOffers)
}

// ListOffers handles GET /offers.
func (h *OfferHandler) ListOffers(c *gin.Context) {
	result, err := h.service.ListOffers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
