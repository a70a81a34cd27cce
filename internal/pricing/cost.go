package pricing

import (
	"math"

	"github.com/shopspring/decimal"

	"printshop-pricing-backend/internal/model"
)

// Order carries the order-time inputs to a cost computation. Optional fields
// fall back to the pricing profile / ink set defaults when nil.
type Order struct {
	Quantity int     `json:"quantity"`
	WidthMm  float64 `json:"widthMm"`
	HeightMm float64 `json:"heightMm"`

	// Actual ink coverage; nil means the ink set's default.
	CoveragePct *float64 `json:"coveragePct"`
	// Bleed override; nil means the profile's defaultBleedMm.
	BleedMm *float64 `json:"bleedMm"`
	// Imposition: finished pieces per material sheet. Zero means one.
	// How pieces are laid out is the layout step's concern, not ours.
	PiecesPerSheet int `json:"piecesPerSheet"`
}

// CostBreakdown carries each cost component separately so a quote can be
// audited, plus the resolved run plan that produced it.
type CostBreakdown struct {
	MachineCost  decimal.Decimal `json:"machineCost"`
	InkCost      decimal.Decimal `json:"inkCost"`
	MaterialCost decimal.Decimal `json:"materialCost"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	UnitCost     decimal.Decimal `json:"unitCost"`

	InkMl      float64 `json:"inkMl"`
	SheetsUsed int     `json:"sheetsUsed"`
	Run        RunPlan `json:"run"`
}

// ComputeCost combines a pricing profile, material, machine and ink set with
// an order into a cost breakdown. It is pure and deterministic: identical
// inputs always produce an identical breakdown, and every monetary value is
// decimal so repeated additions cannot drift.
func ComputeCost(profile *model.PricingProfile, material *model.Material, machine *model.Machine, inkSet *model.InkSet, order Order) (CostBreakdown, error) {
	bleed := profile.DefaultBleedMm
	if order.BleedMm != nil {
		bleed = *order.BleedMm
	}

	spec := RunSpec{
		Quantity: order.Quantity,
		WidthMm:  order.WidthMm,
		HeightMm: order.HeightMm,
		BleedMm:  bleed,
	}

	plan, err := ResolveRun(machine, spec)
	if err != nil {
		return CostBreakdown{}, err
	}

	machineCost := machine.MachineRatePerHour.Mul(decimal.NewFromFloat(plan.MachineTimeHours))

	inkMl := inkVolumeMl(profile, inkSet, spec, plan, order.CoveragePct)
	inkCost := inkSet.PricePerMl.Mul(decimal.NewFromFloat(inkMl))

	materialCost, sheetsUsed, err := materialCostFor(material, plan, order.PiecesPerSheet)
	if err != nil {
		return CostBreakdown{}, err
	}

	totalCost := machineCost.Add(inkCost).Add(materialCost)

	return CostBreakdown{
		MachineCost:  machineCost,
		InkCost:      inkCost,
		MaterialCost: materialCost,
		TotalCost:    totalCost,
		UnitCost:     totalCost.Div(decimal.NewFromInt(int64(order.Quantity))),
		InkMl:        inkMl,
		SheetsUsed:   sheetsUsed,
		Run:          plan,
	}, nil
}

// inkVolumeMl computes the total ink volume over the whole run, including
// waste output, since wasted pieces are printed before they are discarded.
func inkVolumeMl(profile *model.PricingProfile, inkSet *model.InkSet, spec RunSpec, plan RunPlan, coverageOverride *float64) float64 {
	coverage := inkSet.DefaultCoveragePct
	if coverageOverride != nil {
		coverage = *coverageOverride
	}

	// Whether ink is laid down over the bleed zone is a profile decision;
	// the cut size is unaffected either way.
	unitInkArea := spec.WidthMm * spec.HeightMm / mm2PerM2
	if profile.IncludeBleedInInk {
		unitInkArea = plan.UnitAreaM2
	}

	inkAreaM2 := unitInkArea * plan.EffectivePieces

	return inkAreaM2 * inkSet.MlPerM2At100Pct * (coverage / 100) * (1 + inkSet.TolerancePct/100)
}

func materialCostFor(material *model.Material, plan RunPlan, piecesPerSheet int) (decimal.Decimal, int, error) {
	switch material.PricingMode {
	case model.PricePerSheet:
		if piecesPerSheet <= 0 {
			piecesPerSheet = 1
		}
		sheets := int(math.Ceil(float64(plan.EffectiveQuantity) / float64(piecesPerSheet)))
		return material.PricePerSheet.Mul(decimal.NewFromInt(int64(sheets))), sheets, nil
	case model.PricePerM2:
		// Per-m2 substrate is billed on the ordered area; run waste is
		// already priced through the machine and ink terms.
		return material.PricePerM2.Mul(decimal.NewFromFloat(plan.TotalAreaM2)), 0, nil
	default:
		return decimal.Zero, 0, &ConfigurationError{
			Entity: "material", ID: material.ID,
			Reason: "unknown pricing mode " + string(material.PricingMode),
		}
	}
}
