package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"printshop-pricing-backend/internal/model"
)

// ListMaterials handles GET /api/materials.
func (h *Handler) ListMaterials(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	materials, err := h.store.ListMaterials(c.Request.Context(), tenant)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, materials)
}

// GetMaterial handles GET /api/materials/:id.
func (h *Handler) GetMaterial(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	mat, err := h.store.GetMaterial(c.Request.Context(), tenant, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mat)
}

// CreateMaterial handles POST /api/materials.
func (h *Handler) CreateMaterial(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	var mat model.Material
	if err := c.ShouldBindJSON(&mat); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mat.ID = 0
	mat.TenantID = tenant
	if err := h.store.CreateMaterial(c.Request.Context(), &mat); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mat)
}

// UpdateMaterial handles PUT /api/materials/:id.
func (h *Handler) UpdateMaterial(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var mat model.Material
	if err := c.ShouldBindJSON(&mat); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mat.ID = id
	mat.TenantID = tenant
	if err := h.store.UpdateMaterial(c.Request.Context(), &mat); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mat)
}

// DeleteMaterial handles DELETE /api/materials/:id.
func (h *Handler) DeleteMaterial(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteMaterial(c.Request.Context(), tenant, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
