package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"printshop-pricing-backend/internal/model"
)

var hundred = decimal.NewFromInt(100)

// FinalizePrice applies the tier's percentage to a total cost and rounds the
// result to the nearest multiple of roundingStep, half up. A target margin
// at or above 100% and a non-positive step are configuration errors, never
// an infinite or negative price.
func FinalizePrice(totalCost decimal.Decimal, tier *model.MarginTier, mode model.MarginMode, roundingStep decimal.Decimal) (decimal.Decimal, error) {
	if !roundingStep.IsPositive() {
		return decimal.Zero, &ConfigurationError{
			Entity: "margin profile",
			Reason: fmt.Sprintf("roundingStep %s is not positive", roundingStep),
		}
	}

	value := decimal.NewFromFloat(tier.Value)

	var price decimal.Decimal
	switch mode {
	case model.TargetMargin:
		if tier.Value >= 100 {
			return decimal.Zero, &ConfigurationError{
				Entity: "margin tier", ID: tier.ID,
				Reason: fmt.Sprintf("target margin %v%% leaves nothing to divide by", tier.Value),
			}
		}
		price = totalCost.Div(decimal.NewFromInt(1).Sub(value.Div(hundred)))
	case model.Markup:
		price = totalCost.Mul(decimal.NewFromInt(1).Add(value.Div(hundred)))
	default:
		return decimal.Zero, &ConfigurationError{
			Entity: "margin profile",
			Reason: fmt.Sprintf("unknown mode %q", mode),
		}
	}

	return roundToStep(price, roundingStep), nil
}

// roundToStep rounds half up to the nearest multiple of step. Decimal's
// Round is half-away-from-zero, which is half-up for the non-negative
// prices this engine produces.
func roundToStep(price, step decimal.Decimal) decimal.Decimal {
	return price.Div(step).Round(0).Mul(step)
}
