package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialType categorizes the substrate.
type MaterialType string

const (
	MaterialPaper MaterialType = "PAPER"
	MaterialFoil  MaterialType = "FOIL"
	MaterialVinyl MaterialType = "VINYL"
	MaterialOther MaterialType = "OTHER"
)

// MaterialPricingMode selects how the substrate is priced.
type MaterialPricingMode string

const (
	PricePerSheet MaterialPricingMode = "PER_SHEET"
	PricePerM2    MaterialPricingMode = "PER_M2"
)

// Material represents a printable substrate and its cost basis.
type Material struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	TenantID string `gorm:"index;size:64;not null" json:"tenantId"`
	Name     string `gorm:"size:128;not null" json:"name"`

	MaterialType MaterialType        `gorm:"size:16;not null" json:"materialType"`
	PricingMode  MaterialPricingMode `gorm:"size:16;not null" json:"pricingMode"`

	// PER_SHEET fields. Sheet dimensions derive the area per sheet.
	PricePerSheet decimal.Decimal `gorm:"type:decimal(12,4)" json:"pricePerSheet"`
	SheetWidthMm  float64         `json:"sheetWidthMm"`
	SheetHeightMm float64         `json:"sheetHeightMm"`

	// PER_M2 field.
	PricePerM2 decimal.Decimal `gorm:"type:decimal(12,4)" json:"pricePerM2"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
