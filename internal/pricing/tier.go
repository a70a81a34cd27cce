package pricing

import (
	"fmt"
	"sort"

	"printshop-pricing-backend/internal/model"
)

// ResolveTier selects the tier whose half-open range [qtyFrom, qtyTo) holds
// basisValue. A boundary value always resolves to the tier that starts
// there. Values below the first tier clamp to the first tier, so resolution
// is total over a profile that passed ValidateMarginProfile. A gap left by
// an unvalidated profile is a ConfigurationError naming the profile and the
// unmatched value, never a silently defaulted percentage.
func ResolveTier(p *model.MarginProfile, basisValue float64) (*model.MarginTier, error) {
	if len(p.Tiers) == 0 {
		return nil, &ConfigurationError{Entity: "margin profile", ID: p.ID, Reason: "no tiers configured"}
	}

	tiers := make([]model.MarginTier, len(p.Tiers))
	copy(tiers, p.Tiers)
	sort.SliceStable(tiers, func(a, b int) bool { return tiers[a].QtyFrom < tiers[b].QtyFrom })

	if basisValue < tiers[0].QtyFrom {
		t := tiers[0]
		return &t, nil
	}

	for i := range tiers {
		t := tiers[i]
		if basisValue < t.QtyFrom {
			break
		}
		if t.QtyTo == nil || basisValue < *t.QtyTo {
			return &t, nil
		}
	}

	return nil, &ConfigurationError{
		Entity: "margin profile", ID: p.ID,
		Reason: fmt.Sprintf("no tier covers basis value %v", basisValue),
	}
}
