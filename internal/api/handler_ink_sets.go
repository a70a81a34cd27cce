package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"printshop-pricing-backend/internal/model"
)

// ListInkSets handles GET /api/ink-sets.
func (h *Handler) ListInkSets(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	inkSets, err := h.store.ListInkSets(c.Request.Context(), tenant)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inkSets)
}

// GetInkSet handles GET /api/ink-sets/:id.
func (h *Handler) GetInkSet(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	i, err := h.store.GetInkSet(c.Request.Context(), tenant, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, i)
}

// CreateInkSet handles POST /api/ink-sets.
func (h *Handler) CreateInkSet(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	var i model.InkSet
	if err := c.ShouldBindJSON(&i); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	i.ID = 0
	i.TenantID = tenant
	if err := h.store.CreateInkSet(c.Request.Context(), &i); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, i)
}

// UpdateInkSet handles PUT /api/ink-sets/:id.
func (h *Handler) UpdateInkSet(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var i model.InkSet
	if err := c.ShouldBindJSON(&i); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	i.ID = id
	i.TenantID = tenant
	impacted, err := h.store.UpdateInkSet(c.Request.Context(), &i)
	if err != nil {
		respondError(c, err)
		return
	}
	h.dispatchImpact(impacted)
	c.JSON(http.StatusOK, i)
}

// DeleteInkSet handles DELETE /api/ink-sets/:id.
func (h *Handler) DeleteInkSet(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteInkSet(c.Request.Context(), tenant, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
