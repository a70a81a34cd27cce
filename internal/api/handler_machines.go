package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"printshop-pricing-backend/internal/model"
)

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// ListMachines handles GET /api/machines.
func (h *Handler) ListMachines(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	machines, err := h.store.ListMachines(c.Request.Context(), tenant)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, machines)
}

// GetMachine handles GET /api/machines/:id.
func (h *Handler) GetMachine(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	m, err := h.store.GetMachine(c.Request.Context(), tenant, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// CreateMachine handles POST /api/machines.
func (h *Handler) CreateMachine(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	var m model.Machine
	if err := c.ShouldBindJSON(&m); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m.ID = 0
	m.TenantID = tenant
	if err := h.store.CreateMachine(c.Request.Context(), &m); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// UpdateMachine handles PUT /api/machines/:id. Pricing profiles bound to
// the machine get a price-impact notification.
func (h *Handler) UpdateMachine(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var m model.Machine
	if err := c.ShouldBindJSON(&m); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m.ID = id
	m.TenantID = tenant
	impacted, err := h.store.UpdateMachine(c.Request.Context(), &m)
	if err != nil {
		respondError(c, err)
		return
	}
	h.dispatchImpact(impacted)
	c.JSON(http.StatusOK, m)
}

// DeleteMachine handles DELETE /api/machines/:id. The delete is blocked
// while any pricing profile still references the machine.
func (h *Handler) DeleteMachine(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteMachine(c.Request.Context(), tenant, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
