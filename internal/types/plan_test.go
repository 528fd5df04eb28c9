package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBillingActionFor(t *testing.T) {
	testCases := []struct {
		current  PlanTier
		target   PlanTier
		expected BillingAction
	}{
		{PlanTierBasic, PlanTierStandard, BillingActionUpgrade},
		{PlanTierBasic, PlanTierPremium, BillingActionUpgrade},
		{PlanTierStandard, PlanTierPremium, BillingActionUpgrade},
		{PlanTierBasic, PlanTierBasic, BillingActionExtend},
		{PlanTierStandard, PlanTierStandard, BillingActionExtend},
		{PlanTierPremium, PlanTierPremium, BillingActionExtend},
		// a lower target is still a paid extension, never a refund
		{PlanTierPremium, PlanTierStandard, BillingActionExtend},
		{PlanTierStandard, PlanTierBasic, BillingActionExtend},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, BillingActionFor(tc.current, tc.target),
			"%s -> %s", tc.current, tc.target)
	}
}

func TestPlanTierRank(t *testing.T) {
	assert.Less(t, PlanTierBasic.Rank(), PlanTierStandard.Rank())
	assert.Less(t, PlanTierStandard.Rank(), PlanTierPremium.Rank())
	assert.Equal(t, 0, PlanTier("unknown").Rank())
}

func TestPlanTierValidate(t *testing.T) {
	assert.NoError(t, PlanTierBasic.Validate())
	assert.NoError(t, PlanTierStandard.Validate())
	assert.NoError(t, PlanTierPremium.Validate())
	assert.Error(t, PlanTier("gold").Validate())
	assert.Error(t, PlanTier("").Validate())
}
