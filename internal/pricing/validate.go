package pricing

import (
	"fmt"
	"sort"

	"printshop-pricing-backend/internal/model"
)

// ValidateMachine checks a machine's invariants before it is persisted.
// Throughput for the active mode is rejected here as well as at compute
// time, so a zero divisor can never reach the engine through a saved record.
func ValidateMachine(m *model.Machine) error {
	var problems []string

	switch m.Mode {
	case model.ModeSheet:
		if m.SheetWidthMm <= 0 || m.SheetHeightMm <= 0 {
			problems = append(problems, "SHEET mode requires positive sheet dimensions")
		}
		if m.SheetsPerHour <= 0 {
			problems = append(problems, "SHEET mode requires positive sheetsPerHour")
		}
	case model.ModeRoll:
		if m.RollWidthMm <= 0 {
			problems = append(problems, "ROLL mode requires positive rollWidthMm")
		}
		if m.M2PerHour <= 0 {
			problems = append(problems, "ROLL mode requires positive m2PerHour")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown mode %q", m.Mode))
	}

	if m.MarginLeftMm < 0 || m.MarginRightMm < 0 || m.MarginTopMm < 0 || m.MarginBottomMm < 0 {
		problems = append(problems, "print margins must be non-negative")
	}
	if m.SetupWasteSheets < 0 {
		problems = append(problems, "setupWasteSheets must be non-negative")
	}
	if m.RunWastePct < 0 {
		problems = append(problems, "runWastePct must be non-negative")
	}
	if m.SetupTimeMin < 0 {
		problems = append(problems, "setupTimeMin must be non-negative")
	}
	if m.MachineRatePerHour.IsNegative() {
		problems = append(problems, "machineRatePerHour must be non-negative")
	}

	if len(problems) > 0 {
		return &ValidationError{Entity: "machine", Problems: problems}
	}
	return nil
}

// ValidateInkSet checks an ink set's invariants before it is persisted.
func ValidateInkSet(i *model.InkSet) error {
	var problems []string

	if i.PricePerMl.IsNegative() {
		problems = append(problems, "pricePerMl must be non-negative")
	}
	if i.MlPerM2At100Pct < 0 {
		problems = append(problems, "mlPerM2At100pct must be non-negative")
	}
	if i.DefaultCoveragePct < 0 || i.DefaultCoveragePct > 100 {
		problems = append(problems, "defaultCoveragePct must be between 0 and 100")
	}
	if i.TolerancePct < 0 {
		problems = append(problems, "tolerancePct must be non-negative")
	}

	if len(problems) > 0 {
		return &ValidationError{Entity: "ink set", Problems: problems}
	}
	return nil
}

// ValidateMaterial checks a material's invariants before it is persisted.
func ValidateMaterial(mat *model.Material) error {
	var problems []string

	switch mat.MaterialType {
	case model.MaterialPaper, model.MaterialFoil, model.MaterialVinyl, model.MaterialOther:
	default:
		problems = append(problems, fmt.Sprintf("unknown materialType %q", mat.MaterialType))
	}

	switch mat.PricingMode {
	case model.PricePerSheet:
		if mat.PricePerSheet.IsNegative() {
			problems = append(problems, "pricePerSheet must be non-negative")
		}
		if mat.SheetWidthMm <= 0 || mat.SheetHeightMm <= 0 {
			problems = append(problems, "PER_SHEET pricing requires positive sheet dimensions")
		}
	case model.PricePerM2:
		if mat.PricePerM2.IsNegative() {
			problems = append(problems, "pricePerM2 must be non-negative")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown pricingMode %q", mat.PricingMode))
	}

	if len(problems) > 0 {
		return &ValidationError{Entity: "material", Problems: problems}
	}
	return nil
}

// ValidateMarginProfile checks the profile and the shape of its tier set:
// sorted, contiguous, non-overlapping half-open ranges with exactly one
// unbounded tier at the end. A profile that passes here resolves a tier for
// every basis value >= 0.
func ValidateMarginProfile(p *model.MarginProfile) error {
	var problems []string

	switch p.Mode {
	case model.TargetMargin, model.Markup:
	default:
		problems = append(problems, fmt.Sprintf("unknown mode %q", p.Mode))
	}

	switch p.TierBasis {
	case model.BasisQuantity, model.BasisArea:
	default:
		problems = append(problems, fmt.Sprintf("unknown tierBasis %q", p.TierBasis))
	}

	if !p.RoundingStep.IsPositive() {
		problems = append(problems, "roundingStep must be positive")
	}

	if len(p.Tiers) == 0 {
		problems = append(problems, "at least one tier is required")
	}

	tiers := make([]model.MarginTier, len(p.Tiers))
	copy(tiers, p.Tiers)
	sort.SliceStable(tiers, func(a, b int) bool { return tiers[a].SortOrder < tiers[b].SortOrder })

	for i, t := range tiers {
		if t.QtyFrom < 0 {
			problems = append(problems, fmt.Sprintf("tier %d: qtyFrom must be non-negative", i))
		}
		if p.Mode == model.TargetMargin && t.Value >= 100 {
			problems = append(problems, fmt.Sprintf("tier %d: a target margin of %v%% is unreachable", i, t.Value))
		}

		last := i == len(tiers)-1
		if last {
			if t.QtyTo != nil {
				problems = append(problems, "the last tier must be unbounded (qtyTo null)")
			}
			continue
		}
		if t.QtyTo == nil {
			problems = append(problems, fmt.Sprintf("tier %d: only the last tier may be unbounded", i))
			continue
		}
		if *t.QtyTo <= t.QtyFrom {
			problems = append(problems, fmt.Sprintf("tier %d: qtyTo must exceed qtyFrom", i))
		}
		if next := tiers[i+1]; next.QtyFrom != *t.QtyTo {
			problems = append(problems, fmt.Sprintf("tier %d ends at %v but tier %d starts at %v", i, *t.QtyTo, i+1, next.QtyFrom))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Entity: "margin profile", Problems: problems}
	}
	return nil
}

// ValidatePricingProfile checks a pricing profile's own fields. Reference
// existence is the store's concern.
func ValidatePricingProfile(p *model.PricingProfile) error {
	var problems []string

	if p.MachineID == 0 {
		problems = append(problems, "machineId is required")
	}
	if p.InkSetID == 0 {
		problems = append(problems, "inkSetId is required")
	}
	if p.DefaultBleedMm < 0 {
		problems = append(problems, "defaultBleedMm must be non-negative")
	}
	if p.DefaultGapMm < 0 {
		problems = append(problems, "defaultGapMm must be non-negative")
	}

	if len(problems) > 0 {
		return &ValidationError{Entity: "pricing profile", Problems: problems}
	}
	return nil
}
