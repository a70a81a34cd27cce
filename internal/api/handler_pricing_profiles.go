package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"printshop-pricing-backend/internal/model"
)

// ListPricingProfiles handles GET /api/pricing-profiles.
func (h *Handler) ListPricingProfiles(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	profiles, err := h.store.ListPricingProfiles(c.Request.Context(), tenant)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// GetPricingProfile handles GET /api/pricing-profiles/:id.
func (h *Handler) GetPricingProfile(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	p, err := h.store.GetPricingProfile(c.Request.Context(), tenant, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// CreatePricingProfile handles POST /api/pricing-profiles.
func (h *Handler) CreatePricingProfile(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	var p model.PricingProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p.ID = 0
	p.TenantID = tenant
	if err := h.store.CreatePricingProfile(c.Request.Context(), &p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// UpdatePricingProfile handles PUT /api/pricing-profiles/:id. Watchers of
// the profile are notified since its binding just changed.
func (h *Handler) UpdatePricingProfile(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var p model.PricingProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p.ID = id
	p.TenantID = tenant
	if err := h.store.UpdatePricingProfile(c.Request.Context(), &p); err != nil {
		respondError(c, err)
		return
	}
	h.dispatchImpact([]int64{p.ID})
	c.JSON(http.StatusOK, p)
}

// DeletePricingProfile handles DELETE /api/pricing-profiles/:id.
func (h *Handler) DeletePricingProfile(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeletePricingProfile(c.Request.Context(), tenant, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
