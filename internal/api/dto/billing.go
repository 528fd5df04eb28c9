package dto

import (
	"time"

	"github.com/shulepay/shulepay/internal/domain/pricing"
	"github.com/shulepay/shulepay/internal/types"
)

// QuoteRequest prices a prospective plan change. Pure computation; safe
// to call on every input change.
type QuoteRequest struct {
	TargetTier     types.PlanTier `json:"target_tier" binding:"required"`
	DurationMonths int            `json:"duration_months" binding:"required,min=1,max=12"`
}

// Selection converts the request into the domain selection
func (r *QuoteRequest) Selection() pricing.BillingSelection {
	return pricing.BillingSelection{
		TargetTier:     r.TargetTier,
		DurationMonths: r.DurationMonths,
	}
}

// QuoteResponse carries the priced selection plus the derived action and
// projected expiry so the UI renders one consistent panel
type QuoteResponse struct {
	*pricing.PricingResult
	Action          types.BillingAction `json:"action"`
	CurrentTier     types.PlanTier      `json:"current_tier"`
	ProjectedExpiry time.Time           `json:"projected_expiry"`
}
