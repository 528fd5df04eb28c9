package dto

import (
	"time"

	"github.com/shulepay/shulepay/internal/domain/payment"
	"github.com/shulepay/shulepay/internal/domain/pricing"
	"github.com/shulepay/shulepay/internal/types"
)

// InitiatePaymentRequest starts a payment attempt for a plan change
type InitiatePaymentRequest struct {
	TargetTier     types.PlanTier `json:"target_tier" binding:"required"`
	DurationMonths int            `json:"duration_months" binding:"required,min=1,max=12"`
}

// Selection converts the request into the domain selection
func (r *InitiatePaymentRequest) Selection() pricing.BillingSelection {
	return pricing.BillingSelection{
		TargetTier:     r.TargetTier,
		DurationMonths: r.DurationMonths,
	}
}

// InitiatePaymentResponse describes the transport that was started.
// Inline carries the access code for the embedded flow; redirect carries
// the hosted checkout URL to navigate to.
type InitiatePaymentResponse struct {
	Reference        string                 `json:"reference"`
	Transport        types.TransportKind    `json:"transport"`
	AccessCode       string                 `json:"access_code,omitempty"`
	PublicKey        string                 `json:"public_key,omitempty"`
	AuthorizationURL string                 `json:"authorization_url,omitempty"`
	Action           types.BillingAction    `json:"action"`
	Pricing          *pricing.PricingResult `json:"pricing"`
	ProjectedExpiry  time.Time              `json:"projected_expiry"`
}

// PendingPaymentResponse surfaces the outstanding attempt so the UI can
// re-enter the awaiting-verification state after a reload
type PendingPaymentResponse struct {
	Reference       string                 `json:"reference"`
	TargetTier      types.PlanTier         `json:"target_tier"`
	DurationMonths  int                    `json:"duration_months"`
	Currency        string                 `json:"currency"`
	Action          types.BillingAction    `json:"action"`
	Pricing         *pricing.PricingResult `json:"pricing"`
	ProjectedExpiry time.Time              `json:"projected_expiry"`
	CreatedAt       time.Time              `json:"created_at"`
}

// NewPendingPaymentResponse converts a domain pending payment
func NewPendingPaymentResponse(p *payment.PendingPayment) *PendingPaymentResponse {
	return &PendingPaymentResponse{
		Reference:       p.Reference,
		TargetTier:      p.TargetTier,
		DurationMonths:  p.DurationMonths,
		Currency:        p.Currency,
		Action:          p.Action,
		Pricing:         p.Pricing,
		ProjectedExpiry: p.ProjectedExpiry,
		CreatedAt:       p.CreatedAt,
	}
}

// InlineResultRequest reports a terminal event of the embedded flow
type InlineResultRequest struct {
	Reference string            `json:"reference" binding:"required"`
	Event     types.InlineEvent `json:"event" binding:"required"`
}

// VerifyPaymentRequest asks for verification of a reference. The
// reference may be omitted; the stored pending payment is used then.
type VerifyPaymentRequest struct {
	Reference string `json:"reference"`
}

// VerifyPaymentResponse is the outcome of one verification cycle
type VerifyPaymentResponse struct {
	Status       types.PaymentStatus   `json:"status"`
	Reference    string                `json:"reference"`
	Message      string                `json:"message,omitempty"`
	Subscription *SubscriptionResponse `json:"subscription,omitempty"`
}
