package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarginMode decides which formula turns a tier percentage into a sell price.
type MarginMode string

const (
	// TargetMargin: sellPrice = cost / (1 - value/100).
	TargetMargin MarginMode = "TARGET_MARGIN"
	// Markup: sellPrice = cost * (1 + value/100).
	Markup MarginMode = "MARKUP"
)

// TierBasis selects what quantity the tier ranges are matched against.
type TierBasis string

const (
	BasisQuantity TierBasis = "QUANTITY"
	BasisArea     TierBasis = "AREA"
)

// MarginProfile owns an ordered set of tiers mapping half-open
// quantity-or-area ranges to a margin or markup percentage.
type MarginProfile struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	TenantID string `gorm:"index;size:64;not null" json:"tenantId"`
	Name     string `gorm:"size:128;not null" json:"name"`

	Mode      MarginMode `gorm:"size:16;not null" json:"mode"`
	TierBasis TierBasis  `gorm:"size:16;not null" json:"tierBasis"`

	// Final price is rounded to the nearest multiple of this step.
	RoundingStep decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"roundingStep"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Associations
	Tiers []MarginTier `gorm:"foreignKey:MarginProfileID;constraint:OnDelete:CASCADE" json:"tiers"`
}

// MarginTier maps [QtyFrom, QtyTo) to a percentage. A nil QtyTo means the
// range is unbounded above.
type MarginTier struct {
	ID              int64 `gorm:"primaryKey" json:"id"`
	MarginProfileID int64 `gorm:"index;not null" json:"marginProfileId"`

	QtyFrom   float64  `gorm:"not null" json:"qtyFrom"`
	QtyTo     *float64 `json:"qtyTo"`
	Value     float64  `gorm:"not null" json:"value"`
	SortOrder int      `gorm:"not null" json:"sortOrder"`
}
