package pricing

import (
	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/types"
	"github.com/shopspring/decimal"
)

// Compute prices a selection against the tier price map. Pure function,
// safe to call on every input change.
//
// A tier missing from priceByTier is a data-availability problem, not a
// pricing problem: the result carries a zero total and the error blocks
// the caller from proceeding to payment.
func Compute(selection BillingSelection, priceByTier map[types.PlanTier]decimal.Decimal, currency string) (*PricingResult, error) {
	selection.Clamp()

	result := &PricingResult{
		Tier:           selection.TargetTier,
		Currency:       currency,
		DurationMonths: selection.DurationMonths,
		MonthlyAmount:  decimal.Zero,
		Subtotal:       decimal.Zero,
		DiscountRate:   decimal.Zero,
		DiscountAmount: decimal.Zero,
		Total:          decimal.Zero,
	}

	monthly, ok := priceByTier[selection.TargetTier]
	if !ok {
		return result, ierr.NewError("no price available for tier").
			WithHintf("Plan %s is not available in %s", selection.TargetTier, currency).
			WithReportableDetails(map[string]any{
				"tier":     selection.TargetTier,
				"currency": currency,
			}).
			Mark(ierr.ErrValidation)
	}

	result.MonthlyAmount = monthly
	result.Subtotal = monthly.Mul(decimal.NewFromInt(int64(selection.DurationMonths)))
	result.DiscountRate = DiscountRateFor(selection.DurationMonths)
	result.DiscountAmount = result.Subtotal.Mul(result.DiscountRate)
	result.Total = result.Subtotal.Sub(result.DiscountAmount)

	return result, nil
}
