package subscription

import (
	"time"

	"github.com/shulepay/shulepay/internal/types"
)

// Subscription is the server-owned subscription record of a tenant.
// It is read at page load and mutated only after a verified payment.
type Subscription struct {
	ID                 string                   `json:"id"`
	Tier               types.PlanTier           `json:"tier"`
	Currency           string                   `json:"currency"`
	SubscriptionStatus types.SubscriptionStatus `json:"subscription_status"`
	CurrentExpiry      *time.Time               `json:"current_expiry,omitempty"`

	types.BaseModel
}

// IsActive reports whether the subscription still has time remaining
func (s *Subscription) IsActive(now time.Time) bool {
	return s.CurrentExpiry != nil && s.CurrentExpiry.After(now)
}
