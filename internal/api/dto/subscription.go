package dto

import (
	"time"

	"github.com/shulepay/shulepay/internal/domain/subscription"
	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/types"
	"github.com/shopspring/decimal"
)

// SubscriptionResponse is the tenant's subscription record
type SubscriptionResponse struct {
	Tier          types.PlanTier           `json:"tier"`
	Currency      string                   `json:"currency"`
	Status        types.SubscriptionStatus `json:"status"`
	CurrentExpiry *time.Time               `json:"current_expiry,omitempty"`
}

// NewSubscriptionResponse converts a domain subscription
func NewSubscriptionResponse(sub *subscription.Subscription) *SubscriptionResponse {
	return &SubscriptionResponse{
		Tier:          sub.Tier,
		Currency:      sub.Currency,
		Status:        sub.SubscriptionStatus,
		CurrentExpiry: sub.CurrentExpiry,
	}
}

// ApplyVerifiedPaymentRequest carries the reconciled outcome of a
// verified payment into the subscription record of record. Duplicate
// requests with the same gateway reference must not double-credit
// duration.
type ApplyVerifiedPaymentRequest struct {
	Tier                 types.PlanTier  `json:"tier"`
	DurationMonths       int             `json:"duration_months"`
	Amount               decimal.Decimal `json:"amount"`
	Currency             string          `json:"currency"`
	GatewayReference     string          `json:"gateway_reference"`
	GatewayTransactionID string          `json:"gateway_transaction_id"`
	PaidAt               *time.Time      `json:"paid_at,omitempty"`
	NextExpiry           time.Time       `json:"next_expiry"`
}

func (r *ApplyVerifiedPaymentRequest) Validate() error {
	if r.GatewayReference == "" {
		return ierr.NewError("missing gateway reference").
			WithHint("Gateway reference is required").
			Mark(ierr.ErrValidation)
	}
	if err := r.Tier.Validate(); err != nil {
		return ierr.WithError(err).
			WithHint("Tier is invalid").
			Mark(ierr.ErrValidation)
	}
	if r.DurationMonths <= 0 {
		return ierr.NewError("invalid duration").
			WithHint("Duration must be at least one month").
			Mark(ierr.ErrValidation)
	}
	if r.Currency == "" {
		return ierr.NewError("missing currency").
			WithHint("Currency is required").
			Mark(ierr.ErrValidation)
	}
	if r.NextExpiry.IsZero() {
		return ierr.NewError("missing next expiry").
			WithHint("Next expiry is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
