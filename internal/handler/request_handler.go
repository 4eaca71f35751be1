package handler

import (
	"errors"
	"io"

	"github.com/adoptly/service-adoption/internal/application"
	"github.com/adoptly/service-adoption/internal/domain"
	"github.com/adoptly/service-adoption/internal/platform/response"
	"github.com/gin-gonic/gin"
)

// RequestHandler handles HTTP requests for adoption request operations.
type RequestHandler struct {
	service *application.RequestService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(service *application.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// RegisterRoutes registers all adoption request routes. writeMW runs in
// front of the create and update routes only.
func (h *RequestHandler) RegisterRoutes(r *gin.RouterGroup, writeMW ...gin.HandlerFunc) {
	requests := r.Group("/request")
	{
		requests.POST("", withMiddleware(writeMW, h.CreateRequest)...)
		requests.GET("", h.ListRequests)
		requests.GET("/user/:email", h.ListUserRequests)
		requests.GET("/:id", h.GetRequest)
		requests.PUT("/:id", withMiddleware(writeMW, h.UpdateRequest)...)
		requests.DELETE("/:id", h.DeleteRequest)
	}
}

// CreateRequest handles POST /request.
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var in application.CreateRequestInput
	if !bindJSON(c, &in) {
		return
	}

	result, err := h.service.CreateRequest(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListRequests handles GET /request.
func (h *RequestHandler) ListRequests(c *gin.Context) {
	result, err := h.service.ListRequests(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListUserRequests handles GET /request/user/:email.
func (h *RequestHandler) ListUserRequests(c *gin.Context) {
	result, err := h.service.ListUserRequests(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetRequest handles GET /request/:id.
func (h *RequestHandler) GetRequest(c *gin.Context) {
	id, err := domain.ParseID("request", c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.GetRequest(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateRequest handles PUT /request/:id.
func (h *RequestHandler) UpdateRequest(c *gin.Context) {
	id, err := domain.ParseID("request", c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var in application.UpdateRequestInput
	if !bindJSON(c, &in) {
		return
	}

	result, err := h.service.UpdateRequest(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteRequest handles DELETE /request/:id.
func (h *RequestHandler) DeleteRequest(c *gin.Context) {
	id, err := domain.ParseID("request", c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.DeleteRequest(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "adoption request deleted", "deletedCount": 1})
}

func withMiddleware(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, len(mw)+1)
	chain = append(chain, mw...)
	return append(chain, h)
}

// bindJSON decodes the body into dst, writing a 400 and returning false on
// an empty or malformed body.
func bindJSON(c *gin.Context, dst interface{}) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) {
		response.BadRequest(c, "request body is required")
		return false
	}
	response.BadRequest(c, err.Error())
	return false
}
