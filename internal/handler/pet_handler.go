package handler

import (
	"strconv"

	"github.com/adoptly/service-adoption/internal/application"
	"github.com/adoptly/service-adoption/internal/domain"
	"github.com/adoptly/service-adoption/internal/platform/response"
	"github.com/gin-gonic/gin"
)

// PetHandler handles HTTP requests for pet listings.
type PetHandler struct {
	service *application.PetService
}

// NewPetHandler creates a new PetHandler.
func NewPetHandler(service *application.PetService) *PetHandler {
	return &PetHandler{service: service}
}

// RegisterRoutes registers all pet routes.
func (h *PetHandler) RegisterRoutes(r *gin.RouterGroup) {
	pets := r.Group("/pets")
	{
		pets.POST("", h.CreatePet)
		pets.GET("", h.ListPets)
		pets.GET("/:id", h.GetPet)
		pets.PUT("/:id", h.UpdatePet)
		pets.DELETE("/:id", h.DeletePet)
	}
}

// CreatePet handles POST /pets.
func (h *PetHandler) CreatePet(c *gin.Context) {
	var in application.CreatePetInput
	if !bindJSON(c, &in) {
		return
	}

	result, err := h.service.CreatePet(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListPets handles GET /pets?category=&isAdopted=.
func (h *PetHandler) ListPets(c *gin.Context) {
	filter := application.PetListFilter{Category: c.Query("category")}
	if raw, ok := c.GetQuery("isAdopted"); ok {
		adopted, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, "isAdopted must be true or false")
			return
		}
		filter.IsAdopted = &adopted
	}

	result, err := h.service.ListPets(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetPet handles GET /pets/:id.
func (h *PetHandler) GetPet(c *gin.Context) {
	id, err := domain.ParseID("pet", c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.GetPet(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdatePet handles PUT /pets/:id.
func (h *PetHandler) UpdatePet(c *gin.Context) {
	id, err := domain.ParseID("pet", c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var in application.UpdatePetInput
	if !bindJSON(c, &in) {
		return
	}

	result, err := h.service.UpdatePet(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeletePet handles DELETE /pets/:id.
func (h *PetHandler) DeletePet(c *gin.Context) {
	id, err := domain.ParseID("pet", c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.DeletePet(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "pet deleted", "deletedCount": 1})
}
