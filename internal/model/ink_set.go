package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InkSet describes ink cost and consumption for a press's ink configuration.
type InkSet struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	TenantID string `gorm:"index;size:64;not null" json:"tenantId"`
	Name     string `gorm:"size:128;not null" json:"name"`

	PricePerMl decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"pricePerMl"`

	// Ink volume to fully saturate one m² at 100% coverage.
	MlPerM2At100Pct float64 `json:"mlPerM2At100pct"`

	// Used when an order does not specify actual coverage.
	DefaultCoveragePct float64 `json:"defaultCoveragePct"`

	// Safety margin added to the computed ink volume.
	TolerancePct float64 `json:"tolerancePct"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
