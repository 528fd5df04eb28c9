package dto

import "github.com/shulepay/shulepay/internal/types"

// AssistedUpgradeRequest asks the fulfillment team to complete an
// upgrade out-of-band. No money changes hands on this path.
type AssistedUpgradeRequest struct {
	TargetTier     types.PlanTier `json:"target_tier" binding:"required"`
	DurationMonths int            `json:"duration_months" binding:"required,min=1,max=12"`
}

// AssistedUpgradeResponse acknowledges that the request was queued for
// human follow-up
type AssistedUpgradeResponse struct {
	RequestID  string `json:"request_id"`
	Dispatched bool   `json:"dispatched"`
	Message    string `json:"message"`
}
