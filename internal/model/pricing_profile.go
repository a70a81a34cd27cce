package model

import "time"

// PricingProfile binds one Machine and one InkSet plus layout defaults into
// a named, reusable costing configuration.
type PricingProfile struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	TenantID string `gorm:"index;size:64;not null" json:"tenantId"`
	Name     string `gorm:"size:128;not null" json:"name"`

	MachineID int64 `gorm:"index;not null" json:"machineId"`
	InkSetID  int64 `gorm:"index;not null" json:"inkSetId"`

	DefaultBleedMm float64 `json:"defaultBleedMm"`
	DefaultGapMm   float64 `json:"defaultGapMm"`

	// Whether the bleed-expanded area feeds the ink volume. Affects cost
	// only, never the cut size.
	IncludeBleedInInk bool `json:"includeBleedInInk"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Associations
	Machine Machine `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	InkSet  InkSet  `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
}
