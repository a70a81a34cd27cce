package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"printshop-pricing-backend/internal/pricing"
)

type quoteRequest struct {
	PricingProfileID int64 `json:"pricingProfileId" binding:"required"`
	MaterialID       int64 `json:"materialId" binding:"required"`
	MarginProfileID  int64 `json:"marginProfileId" binding:"required"`

	Quantity int     `json:"quantity" binding:"required,gt=0"`
	WidthMm  float64 `json:"widthMm" binding:"required,gt=0"`
	HeightMm float64 `json:"heightMm" binding:"required,gt=0"`

	CoveragePct    *float64 `json:"coveragePct"`
	BleedMm        *float64 `json:"bleedMm"`
	PiecesPerSheet int      `json:"piecesPerSheet"`
}

// PostQuote handles POST /api/quote: it loads the record combination, runs
// the pricing pipeline and returns the breakdown with the final prices.
func (h *Handler) PostQuote(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inputs, err := h.store.LoadQuoteInputs(c.Request.Context(), tenant, req.PricingProfileID, req.MaterialID, req.MarginProfileID)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := pricing.Quote(inputs.Profile, inputs.Machine, inputs.InkSet, inputs.Material, inputs.MarginProfile, pricing.Order{
		Quantity:       req.Quantity,
		WidthMm:        req.WidthMm,
		HeightMm:       req.HeightMm,
		CoveragePct:    req.CoveragePct,
		BleedMm:        req.BleedMm,
		PiecesPerSheet: req.PiecesPerSheet,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
