package pricing

import (
	"context"

	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/types"
	"github.com/shopspring/decimal"
)

const (
	MinDurationMonths = 1
	MaxDurationMonths = 12
)

// PriceQuote is the per-month price of a tier in a given currency,
// sourced from the school backend price list
type PriceQuote struct {
	Tier          types.PlanTier  `json:"tier"`
	Currency      string          `json:"currency"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount"`
}

// PriceBook resolves per-month amounts for each tier in a currency.
// A tier absent from the returned map is simply unavailable for
// self-serve selection in that currency.
type PriceBook interface {
	GetPrices(ctx context.Context, currency string) (map[types.PlanTier]decimal.Decimal, error)
}

// BillingSelection is the user's plan-change input
type BillingSelection struct {
	TargetTier     types.PlanTier `json:"target_tier"`
	DurationMonths int            `json:"duration_months"`
}

// Clamp constrains the duration to the allowed [1,12] window
func (s *BillingSelection) Clamp() {
	if s.DurationMonths < MinDurationMonths {
		s.DurationMonths = MinDurationMonths
	}
	if s.DurationMonths > MaxDurationMonths {
		s.DurationMonths = MaxDurationMonths
	}
}

func (s BillingSelection) Validate() error {
	if err := s.TargetTier.Validate(); err != nil {
		return ierr.NewError("invalid target tier").
			WithHint("Select a valid plan").
			Mark(ierr.ErrValidation)
	}
	if s.DurationMonths < MinDurationMonths || s.DurationMonths > MaxDurationMonths {
		return ierr.NewError("invalid duration").
			WithHintf("Duration must be between %d and %d months", MinDurationMonths, MaxDurationMonths).
			WithReportableDetails(map[string]any{
				"duration_months": s.DurationMonths,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PricingResult is derived from a selection and the price book. It is
// never persisted on its own; a snapshot travels with the pending payment.
type PricingResult struct {
	Tier           types.PlanTier  `json:"tier"`
	Currency       string          `json:"currency"`
	DurationMonths int             `json:"duration_months"`
	MonthlyAmount  decimal.Decimal `json:"monthly_amount"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountRate   decimal.Decimal `json:"discount_rate"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

// MinorUnitTotal converts the total to the gateway's integer minor-unit
// representation (amount x 100, no fractional minor units)
func (r *PricingResult) MinorUnitTotal() int64 {
	return r.Total.Shift(2).Round(0).IntPart()
}
