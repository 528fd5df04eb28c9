package service

import (
	"context"
	"time"

	"github.com/shulepay/shulepay/internal/api/dto"
	"github.com/shulepay/shulepay/internal/domain/ledger"
	"github.com/shulepay/shulepay/internal/domain/subscription"
	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/types"
)

// SubscriptionService reads the tenant's subscription and applies the
// outcome of verified payments to it
type SubscriptionService interface {
	// Get returns the tenant's current subscription
	Get(ctx context.Context) (*dto.SubscriptionResponse, error)
	// ApplyVerifiedPayment updates the subscription and appends the
	// ledger entry for one verified payment. Idempotent on the gateway
	// reference: a duplicate apply returns the existing entry untouched.
	ApplyVerifiedPayment(ctx context.Context, req *dto.ApplyVerifiedPaymentRequest) (*subscription.Subscription, *ledger.TransactionLedgerEntry, error)
}

type subscriptionService struct {
	ServiceParams
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{ServiceParams: params}
}

func (s *subscriptionService) Get(ctx context.Context) (*dto.SubscriptionResponse, error) {
	sub, err := s.SubscriptionRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewSubscriptionResponse(sub), nil
}

func (s *subscriptionService) ApplyVerifiedPayment(ctx context.Context, req *dto.ApplyVerifiedPaymentRequest) (*subscription.Subscription, *ledger.TransactionLedgerEntry, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	sub, err := s.SubscriptionRepo.Get(ctx)
	if err != nil {
		return nil, nil, err
	}

	// Idempotency gate: one ledger entry per gateway reference, and the
	// subscription is only credited alongside that first append
	if existing, err := s.LedgerRepo.GetByReference(ctx, req.GatewayReference); err == nil {
		s.Logger.Infow("payment already applied, skipping",
			"gateway_reference", req.GatewayReference,
			"receipt_number", existing.ReceiptNumber,
		)
		return sub, existing, nil
	} else if !ierr.IsNotFound(err) {
		return nil, nil, err
	}

	sub.Tier = req.Tier
	sub.SubscriptionStatus = types.SubscriptionStatusActive
	sub.CurrentExpiry = &req.NextExpiry

	if err := s.SubscriptionRepo.Update(ctx, sub); err != nil {
		return nil, nil, ierr.WithError(err).
			WithHint("Subscription could not be updated").
			WithReportableDetails(map[string]any{
				"gateway_reference": req.GatewayReference,
			}).
			Mark(ierr.ErrSystem)
	}

	paidAt := req.PaidAt
	if paidAt == nil {
		now := time.Now().UTC()
		paidAt = &now
	}

	entry := &ledger.TransactionLedgerEntry{
		ID:                   types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRANSACTION),
		ReceiptNumber:        types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_RECEIPT),
		Tier:                 req.Tier,
		Amount:               req.Amount,
		Currency:             req.Currency,
		DurationMonths:       req.DurationMonths,
		PaymentStatus:        types.PaymentStatusSuccess,
		GatewayReference:     req.GatewayReference,
		GatewayTransactionID: req.GatewayTransactionID,
		PaidAt:               paidAt,
		NextExpiry:           req.NextExpiry,
		BaseModel:            types.GetDefaultBaseModel(ctx),
	}

	if err := s.LedgerRepo.Append(ctx, entry); err != nil {
		// The subscription update went through; surface the append
		// failure loudly so the history gap is investigated
		s.Logger.Errorw("subscription updated but ledger append failed",
			"error", err,
			"gateway_reference", req.GatewayReference,
		)
		return nil, nil, ierr.WithError(err).
			WithHint("Payment history could not be recorded").
			WithReportableDetails(map[string]any{
				"gateway_reference": req.GatewayReference,
			}).
			Mark(ierr.ErrSystem)
	}

	s.Logger.Infow("applied verified payment",
		"gateway_reference", req.GatewayReference,
		"receipt_number", entry.ReceiptNumber,
		"tier", req.Tier,
		"next_expiry", req.NextExpiry,
	)

	return sub, entry, nil
}
