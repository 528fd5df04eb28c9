package payment

import (
	"time"

	"github.com/shulepay/shulepay/internal/domain/pricing"
	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/types"
	"github.com/shopspring/decimal"
)

// PendingPayment is the durable record of the single in-flight payment
// attempt for a tenant. It is persisted before the gateway is contacted
// so a crash mid-flow always leaves a resumable hint, and destroyed
// exactly once: on verified success or explicit user cancellation.
type PendingPayment struct {
	// Reference correlates the attempt across client, gateway and backend.
	// Each retry of a logical attempt gets a fresh reference.
	Reference        string                 `json:"reference"`
	TenantID         string                 `json:"tenant_id"`
	TargetTier       types.PlanTier         `json:"target_tier"`
	DurationMonths   int                    `json:"duration_months"`
	Currency         string                 `json:"currency"`
	Action           types.BillingAction    `json:"action"`
	Pricing          *pricing.PricingResult `json:"pricing"`
	ProjectedExpiry  time.Time              `json:"projected_expiry"`
	RequestedBy      string                 `json:"requested_by"`
	RequestedByEmail string                 `json:"requested_by_email"`
	Transport        types.TransportKind    `json:"transport,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
}

func (p *PendingPayment) Validate() error {
	if p.Reference == "" {
		return ierr.NewError("missing payment reference").
			WithHint("Payment reference is required").
			Mark(ierr.ErrValidation)
	}
	if p.TenantID == "" {
		return ierr.NewError("missing tenant id").
			WithHint("Tenant is required").
			Mark(ierr.ErrValidation)
	}
	if err := p.TargetTier.Validate(); err != nil {
		return ierr.WithError(err).
			WithHint("Target tier is invalid").
			Mark(ierr.ErrValidation)
	}
	if p.Pricing == nil || !p.Pricing.Total.IsPositive() {
		return ierr.NewError("invalid total amount").
			WithHint("Amount must be greater than 0").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// GatewayMetadata is the loosely-shaped metadata echoed back by the
// gateway. Every field is optional; readers fall back to the local
// pending-payment snapshot when a field is absent.
type GatewayMetadata struct {
	TenantID        *string          `json:"tenant_id,omitempty"`
	TargetTier      *string          `json:"target_tier,omitempty"`
	DurationMonths  *int             `json:"duration_months,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	Currency        *string          `json:"currency,omitempty"`
	ProjectedExpiry *time.Time       `json:"projected_expiry,omitempty"`
}

// VerificationResult is the transient outcome of one verify call
type VerificationResult struct {
	Status               types.PaymentStatus `json:"status"`
	Reference            string              `json:"reference"`
	GatewayTransactionID string              `json:"gateway_transaction_id,omitempty"`
	PaidAt               *time.Time          `json:"paid_at,omitempty"`
	AmountMinor          int64               `json:"amount_minor,omitempty"`
	Currency             string              `json:"currency,omitempty"`
	Metadata             *GatewayMetadata    `json:"metadata,omitempty"`
}
