package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"printshop-pricing-backend/internal/model"
)

// QuoteResult groups the full output of a quote: the audited cost breakdown,
// the tier that applied, and the final sell prices.
type QuoteResult struct {
	Breakdown  CostBreakdown    `json:"breakdown"`
	Tier       model.MarginTier `json:"tier"`
	BasisValue float64          `json:"basisValue"`
	TotalPrice decimal.Decimal  `json:"totalPrice"`
	UnitPrice  decimal.Decimal  `json:"unitPrice"`
}

// Quote runs the whole pipeline: cost aggregation, tier resolution against
// the margin profile's basis, and price finalization. The rounded total is
// authoritative; the unit price is its plain division by quantity.
func Quote(profile *model.PricingProfile, machine *model.Machine, inkSet *model.InkSet, material *model.Material, marginProfile *model.MarginProfile, order Order) (QuoteResult, error) {
	breakdown, err := ComputeCost(profile, material, machine, inkSet, order)
	if err != nil {
		return QuoteResult{}, err
	}

	var basis float64
	switch marginProfile.TierBasis {
	case model.BasisQuantity:
		basis = float64(order.Quantity)
	case model.BasisArea:
		basis = breakdown.Run.TotalAreaM2
	default:
		return QuoteResult{}, &ConfigurationError{
			Entity: "margin profile", ID: marginProfile.ID,
			Reason: fmt.Sprintf("unknown tierBasis %q", marginProfile.TierBasis),
		}
	}

	tier, err := ResolveTier(marginProfile, basis)
	if err != nil {
		return QuoteResult{}, err
	}

	totalPrice, err := FinalizePrice(breakdown.TotalCost, tier, marginProfile.Mode, marginProfile.RoundingStep)
	if err != nil {
		return QuoteResult{}, err
	}

	return QuoteResult{
		Breakdown:  breakdown,
		Tier:       *tier,
		BasisValue: basis,
		TotalPrice: totalPrice,
		UnitPrice:  totalPrice.Div(decimal.NewFromInt(int64(order.Quantity))),
	}, nil
}
