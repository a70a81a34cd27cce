package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MachineMode selects which physical constraints and throughput figures apply.
type MachineMode string

const (
	ModeSheet MachineMode = "SHEET"
	ModeRoll  MachineMode = "ROLL"
)

// Machine represents a press and its cost/throughput characteristics.
type Machine struct {
	ID       int64       `gorm:"primaryKey" json:"id"`
	TenantID string      `gorm:"index;size:64;not null" json:"tenantId"`
	Name     string      `gorm:"size:128;not null" json:"name"`
	Mode     MachineMode `gorm:"size:16;not null" json:"mode"`

	SheetWidthMm  float64 `json:"sheetWidthMm"`
	SheetHeightMm float64 `json:"sheetHeightMm"`
	RollWidthMm   float64 `json:"rollWidthMm"`

	// Non-printable border subtracted from the usable sheet/roll area.
	MarginLeftMm   float64 `json:"marginLeftMm"`
	MarginRightMm  float64 `json:"marginRightMm"`
	MarginTopMm    float64 `json:"marginTopMm"`
	MarginBottomMm float64 `json:"marginBottomMm"`

	DuplexSupported bool `json:"duplexSupported"`

	// Sheets consumed before usable output begins, charged once per job.
	SetupWasteSheets int     `json:"setupWasteSheets"`
	RunWastePct      float64 `json:"runWastePct"`
	SetupTimeMin     float64 `json:"setupTimeMin"`

	SheetsPerHour float64 `json:"sheetsPerHour"`
	M2PerHour     float64 `json:"m2PerHour"`

	MachineRatePerHour decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"machineRatePerHour"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
