package pricing

import "github.com/shopspring/decimal"

// discountSchedule maps exact contiguous-month durations to a discount
// rate. Durations not in the table get no discount; the round-number
// steps are an intentional incentive, not a continuous curve.
var discountSchedule = map[int]decimal.Decimal{
	3:  decimal.NewFromFloat(0.05),
	6:  decimal.NewFromFloat(0.10),
	12: decimal.NewFromFloat(0.17),
}

// DiscountRateFor returns the discount rate for a duration in months
func DiscountRateFor(durationMonths int) decimal.Decimal {
	if rate, ok := discountSchedule[durationMonths]; ok {
		return rate
	}
	return decimal.Zero
}
