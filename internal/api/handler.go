package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"printshop-pricing-backend/internal/notification"
	"printshop-pricing-backend/internal/pricing"
	"printshop-pricing-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	webpush *webpush.Options
	pool    *notification.WorkerPool
}

// NewHandler creates a new API handler. pool may be nil when price-impact
// notifications are disabled.
func NewHandler(s store.Store, webpushOptions *webpush.Options, pool *notification.WorkerPool) *Handler {
	return &Handler{
		store:   s,
		webpush: webpushOptions,
		pool:    pool,
	}
}

// tenantID extracts the tenant from the X-Tenant-ID header. Tenancy is an
// explicit parameter everywhere below this point, never ambient state.
func tenantID(c *gin.Context) (string, bool) {
	t := c.GetHeader("X-Tenant-ID")
	if t == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "X-Tenant-ID header is required"})
		return "", false
	}
	return t, true
}

// respondError maps the domain error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var validation *pricing.ValidationError
	var configuration *pricing.ConfigurationError
	var referential *store.ReferentialIntegrityError

	switch {
	case errors.As(err, &validation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &configuration):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": configuration.Error()})
	case errors.As(err, &referential):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":         referential.Error(),
			"referenced_by": referential.ReferencedBy,
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "record not found"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// dispatchImpact queues a price-impact notification per affected profile.
func (h *Handler) dispatchImpact(profileIDs []int64) {
	if h.pool == nil {
		return
	}
	for _, id := range profileIDs {
		h.pool.Dispatch(id)
	}
}
