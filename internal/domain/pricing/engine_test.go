package pricing

import (
	"testing"

	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPrices() map[types.PlanTier]decimal.Decimal {
	return map[types.PlanTier]decimal.Decimal{
		types.PlanTierBasic:    decimal.NewFromInt(50),
		types.PlanTierStandard: decimal.NewFromInt(100),
		types.PlanTierPremium:  decimal.NewFromInt(250),
	}
}

func TestDiscountRateFor(t *testing.T) {
	testCases := []struct {
		months   int
		expected string
	}{
		{1, "0"},
		{2, "0"},
		{3, "0.05"},
		{4, "0"},
		{5, "0"},
		{6, "0.1"},
		{7, "0"},
		{11, "0"},
		{12, "0.17"},
	}

	for _, tc := range testCases {
		rate := DiscountRateFor(tc.months)
		assert.True(t, rate.Equal(decimal.RequireFromString(tc.expected)),
			"duration %d: expected %s, got %s", tc.months, tc.expected, rate)
	}
}

func TestCompute(t *testing.T) {
	t.Run("twelve months applies the annual discount", func(t *testing.T) {
		result, err := Compute(BillingSelection{
			TargetTier:     types.PlanTierStandard,
			DurationMonths: 12,
		}, testPrices(), "GHS")
		require.NoError(t, err)

		assert.True(t, result.Subtotal.Equal(decimal.NewFromInt(1200)), "subtotal %s", result.Subtotal)
		assert.True(t, result.DiscountAmount.Equal(decimal.NewFromInt(204)), "discount %s", result.DiscountAmount)
		assert.True(t, result.Total.Equal(decimal.NewFromInt(996)), "total %s", result.Total)
		assert.Equal(t, "GHS", result.Currency)
	})

	t.Run("single month has no discount", func(t *testing.T) {
		result, err := Compute(BillingSelection{
			TargetTier:     types.PlanTierBasic,
			DurationMonths: 1,
		}, testPrices(), "GHS")
		require.NoError(t, err)

		assert.True(t, result.DiscountAmount.IsZero())
		assert.True(t, result.Total.Equal(decimal.NewFromInt(50)))
	})

	t.Run("total always equals subtotal minus discount", func(t *testing.T) {
		for months := 1; months <= 12; months++ {
			result, err := Compute(BillingSelection{
				TargetTier:     types.PlanTierPremium,
				DurationMonths: months,
			}, testPrices(), "GHS")
			require.NoError(t, err)

			assert.True(t, result.Total.Equal(result.Subtotal.Sub(result.DiscountAmount)),
				"duration %d", months)
			assert.True(t, result.DiscountAmount.Equal(result.Subtotal.Mul(result.DiscountRate)),
				"duration %d", months)
		}
	})

	t.Run("duration is clamped into the allowed window", func(t *testing.T) {
		result, err := Compute(BillingSelection{
			TargetTier:     types.PlanTierBasic,
			DurationMonths: 0,
		}, testPrices(), "GHS")
		require.NoError(t, err)
		assert.Equal(t, 1, result.DurationMonths)

		result, err = Compute(BillingSelection{
			TargetTier:     types.PlanTierBasic,
			DurationMonths: 24,
		}, testPrices(), "GHS")
		require.NoError(t, err)
		assert.Equal(t, 12, result.DurationMonths)
	})

	t.Run("missing tier price yields a zero total and an error", func(t *testing.T) {
		prices := testPrices()
		delete(prices, types.PlanTierPremium)

		result, err := Compute(BillingSelection{
			TargetTier:     types.PlanTierPremium,
			DurationMonths: 6,
		}, prices, "GHS")
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
		assert.True(t, result.Total.IsZero())
	})
}

func TestMinorUnitTotal(t *testing.T) {
	result := &PricingResult{Total: decimal.RequireFromString("996.50")}
	assert.Equal(t, int64(99650), result.MinorUnitTotal())

	result = &PricingResult{Total: decimal.RequireFromString("0.005")}
	assert.Equal(t, int64(1), result.MinorUnitTotal())
}
