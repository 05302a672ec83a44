package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rongwang/shiftlog-server/internal/models"
	"github.com/rongwang/shiftlog-server/internal/service"
)

func activeOnly(c *gin.Context) bool {
	return c.Query("active") == "true"
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context(), activeOnly(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CategoriesResponse{Status: "success", Categories: categories})
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	category, err := h.service.CreateCategory(c.Request.Context(), callerFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.CategoryResponse{Status: "success", Category: category})
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	category, err := h.service.UpdateCategory(c.Request.Context(), callerFrom(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CategoryResponse{Status: "success", Category: category})
}

// MoveCategory handles POST /api/categories/:id/move and returns the
// reordered list.
func (h *Handler) MoveCategory(c *gin.Context) {
	var req models.MoveCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	categories, err := h.service.MoveCategory(c.Request.Context(), callerFrom(c), c.Param("id"), service.Direction(req.Direction))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CategoriesResponse{Status: "success", Categories: categories})
}

func (h *Handler) ListEquipment(c *gin.Context) {
	equipment, err := h.service.ListEquipment(c.Request.Context(), activeOnly(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.EquipmentListResponse{Status: "success", Equipment: equipment})
}

func (h *Handler) CreateEquipment(c *gin.Context) {
	var req models.ReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	equipment, err := h.service.CreateEquipment(c.Request.Context(), callerFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.EquipmentResponse{Status: "success", Equipment: equipment})
}

func (h *Handler) UpdateEquipment(c *gin.Context) {
	var req models.UpdateReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	equipment, err := h.service.UpdateEquipment(c.Request.Context(), callerFrom(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.EquipmentResponse{Status: "success", Equipment: equipment})
}

func (h *Handler) ListLocations(c *gin.Context) {
	locations, err := h.service.ListLocations(c.Request.Context(), activeOnly(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.LocationsResponse{Status: "success", Locations: locations})
}

func (h *Handler) CreateLocation(c *gin.Context) {
	var req models.ReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	location, err := h.service.CreateLocation(c.Request.Context(), callerFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.LocationResponse{Status: "success", Location: location})
}

func (h *Handler) UpdateLocation(c *gin.Context) {
	var req models.UpdateReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	location, err := h.service.UpdateLocation(c.Request.Context(), callerFrom(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.LocationResponse{Status: "success", Location: location})
}
