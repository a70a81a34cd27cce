package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"printshop-pricing-backend/internal/model"
)

// ListMarginProfiles handles GET /api/margin-profiles.
func (h *Handler) ListMarginProfiles(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	profiles, err := h.store.ListMarginProfiles(c.Request.Context(), tenant)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// GetMarginProfile handles GET /api/margin-profiles/:id.
func (h *Handler) GetMarginProfile(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	p, err := h.store.GetMarginProfile(c.Request.Context(), tenant, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// CreateMarginProfile handles POST /api/margin-profiles. Tiers travel
// nested inside the profile document.
func (h *Handler) CreateMarginProfile(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	var p model.MarginProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p.ID = 0
	p.TenantID = tenant
	for i := range p.Tiers {
		p.Tiers[i].ID = 0
	}
	if err := h.store.CreateMarginProfile(c.Request.Context(), &p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// UpdateMarginProfile handles PUT /api/margin-profiles/:id. The submitted
// tier set replaces the stored one through a transactional diff.
func (h *Handler) UpdateMarginProfile(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var p model.MarginProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p.ID = id
	p.TenantID = tenant
	if err := h.store.UpdateMarginProfile(c.Request.Context(), &p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeleteMarginProfile handles DELETE /api/margin-profiles/:id.
func (h *Handler) DeleteMarginProfile(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteMarginProfile(c.Request.Context(), tenant, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
