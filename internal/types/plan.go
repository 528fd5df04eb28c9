package types

import (
	"fmt"

	"github.com/samber/lo"
)

// PlanTier represents a subscription plan tier
type PlanTier string

const (
	PlanTierBasic    PlanTier = "basic"
	PlanTierStandard PlanTier = "standard"
	PlanTierPremium  PlanTier = "premium"
)

func (t PlanTier) String() string {
	return string(t)
}

// Rank returns the total order of the tier used for upgrade comparisons.
// Unknown tiers rank below every valid tier.
func (t PlanTier) Rank() int {
	switch t {
	case PlanTierBasic:
		return 1
	case PlanTierStandard:
		return 2
	case PlanTierPremium:
		return 3
	default:
		return 0
	}
}

func (t PlanTier) Validate() error {
	allowed := []PlanTier{
		PlanTierBasic,
		PlanTierStandard,
		PlanTierPremium,
	}
	if !lo.Contains(allowed, t) {
		return fmt.Errorf("invalid plan tier: %s", t)
	}
	return nil
}

// BillingAction represents whether a plan change is an upgrade or an
// extension of the current plan
type BillingAction string

const (
	BillingActionUpgrade BillingAction = "upgrade"
	BillingActionExtend  BillingAction = "extend"
)

func (a BillingAction) String() string {
	return string(a)
}

func (a BillingAction) Validate() error {
	allowed := []BillingAction{
		BillingActionUpgrade,
		BillingActionExtend,
	}
	if !lo.Contains(allowed, a) {
		return fmt.Errorf("invalid billing action: %s", a)
	}
	return nil
}

// BillingActionFor derives the billing action from the tier ranks.
// Pricing and expiry projection both consume this so they can never
// disagree on whether a change is an upgrade.
func BillingActionFor(current, target PlanTier) BillingAction {
	if target.Rank() > current.Rank() {
		return BillingActionUpgrade
	}
	return BillingActionExtend
}

// SubscriptionStatus represents the status of a tenant subscription
type SubscriptionStatus string

const (
	SubscriptionStatusActive  SubscriptionStatus = "active"
	SubscriptionStatusExpired SubscriptionStatus = "expired"
	SubscriptionStatusNone    SubscriptionStatus = "none"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}
