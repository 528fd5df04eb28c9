package service

import (
	"context"
	"time"

	"github.com/shulepay/shulepay/internal/api/dto"
	"github.com/shulepay/shulepay/internal/domain/payment"
	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/integration/paystack"
	"github.com/shulepay/shulepay/internal/types"
	"github.com/samber/lo"
)

// PaymentService owns the lifecycle of the tenant's single in-flight
// payment attempt, from initiation through the inline or redirect
// transport up to the point verification takes over.
type PaymentService interface {
	// Initiate starts a new payment attempt. The pending record is
	// persisted before the gateway is contacted so a crash anywhere in
	// the flow leaves a resumable reference behind.
	Initiate(ctx context.Context, req *dto.InitiatePaymentRequest) (*dto.InitiatePaymentResponse, error)
	// GetPending returns the outstanding attempt, if any
	GetPending(ctx context.Context) (*dto.PendingPaymentResponse, error)
	// Cancel abandons the outstanding attempt and clears the stored hint
	Cancel(ctx context.Context) error
	// HandleInlineResult processes a terminal event of the embedded flow
	HandleInlineResult(ctx context.Context, req *dto.InlineResultRequest) (*dto.VerifyPaymentResponse, error)
}

type paymentService struct {
	ServiceParams
	pricingService PricingService
}

// NewPaymentService creates a new payment service
func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{
		ServiceParams:  params,
		pricingService: NewPricingService(params),
	}
}

func (s *paymentService) Initiate(ctx context.Context, req *dto.InitiatePaymentRequest) (*dto.InitiatePaymentResponse, error) {
	if err := types.ValidateTenantContext(ctx); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Tenant context is required").
			Mark(ierr.ErrValidation)
	}

	selection := req.Selection()
	if err := selection.Validate(); err != nil {
		return nil, err
	}

	// Premium is sold through the assisted path only
	if selection.TargetTier == types.PlanTierPremium {
		return nil, ierr.NewError("premium plan is not self-serve").
			WithHint("Premium upgrades are handled through an assisted request").
			Mark(ierr.ErrInvalidOperation)
	}

	// One attempt at a time: the stored slot must be resolved or
	// cancelled before a new reference is created
	if existing, err := s.PendingPaymentRepo.Get(ctx); err == nil {
		return nil, ierr.NewError("a payment is already in progress").
			WithHint("Verify or cancel the outstanding payment before starting a new one").
			WithReportableDetails(map[string]any{
				"reference": existing.Reference,
			}).
			Mark(ierr.ErrAlreadyExists)
	} else if !ierr.IsNotFound(err) {
		return nil, err
	}

	quote, err := s.pricingService.Quote(ctx, &dto.QuoteRequest{
		TargetTier:     selection.TargetTier,
		DurationMonths: selection.DurationMonths,
	})
	if err != nil {
		return nil, err
	}
	if !quote.Total.IsPositive() {
		return nil, ierr.NewError("computed total is not positive").
			WithHint("The selected plan cannot be charged").
			Mark(ierr.ErrValidation)
	}

	pending := &payment.PendingPayment{
		Reference:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PENDING_PAYMENT),
		TenantID:         types.GetTenantID(ctx),
		TargetTier:       selection.TargetTier,
		DurationMonths:   selection.DurationMonths,
		Currency:         quote.Currency,
		Action:           quote.Action,
		Pricing:          quote.PricingResult,
		ProjectedExpiry:  quote.ProjectedExpiry,
		RequestedBy:      types.GetUserID(ctx),
		RequestedByEmail: types.GetUserEmail(ctx),
		CreatedAt:        time.Now().UTC(),
	}
	if err := pending.Validate(); err != nil {
		return nil, err
	}

	// Persist first. If the process dies between here and the gateway
	// response, the stored reference still lets verification find out
	// what happened.
	if err := s.PendingPaymentRepo.Persist(ctx, pending); err != nil {
		return nil, err
	}

	gatewayReq := s.buildGatewayRequest(pending)

	inline, inlineErr := s.Gateway.CreateInlineSession(ctx, gatewayReq)
	if inlineErr == nil {
		pending.Transport = types.TransportKindInline
		if err := s.PendingPaymentRepo.Persist(ctx, pending); err != nil {
			s.Logger.Errorw("failed to record transport on pending payment",
				"error", err,
				"reference", pending.Reference,
			)
		}
		return &dto.InitiatePaymentResponse{
			Reference:       pending.Reference,
			Transport:       types.TransportKindInline,
			AccessCode:      inline.AccessCode,
			PublicKey:       inline.PublicKey,
			Action:          pending.Action,
			Pricing:         pending.Pricing,
			ProjectedExpiry: pending.ProjectedExpiry,
		}, nil
	}

	s.Logger.Warnw("embedded payment flow unavailable, falling back to hosted checkout",
		"error", inlineErr,
		"reference", pending.Reference,
	)

	redirect, redirectErr := s.Gateway.InitializeRedirect(ctx, gatewayReq)
	if redirectErr == nil {
		pending.Transport = types.TransportKindRedirect
		if err := s.PendingPaymentRepo.Persist(ctx, pending); err != nil {
			s.Logger.Errorw("failed to record transport on pending payment",
				"error", err,
				"reference", pending.Reference,
			)
		}
		return &dto.InitiatePaymentResponse{
			Reference:        pending.Reference,
			Transport:        types.TransportKindRedirect,
			AccessCode:       redirect.AccessCode,
			AuthorizationURL: redirect.AuthorizationURL,
			Action:           pending.Action,
			Pricing:          pending.Pricing,
			ProjectedExpiry:  pending.ProjectedExpiry,
		}, nil
	}

	// Neither transport started, so no charge can exist for this
	// reference. Clearing the slot lets the user retry immediately.
	if err := s.PendingPaymentRepo.Clear(ctx); err != nil {
		s.Logger.Errorw("failed to clear pending payment after gateway failure",
			"error", err,
			"reference", pending.Reference,
		)
	}

	return nil, ierr.NewError("payment could not be started").
		WithHint("The payment gateway is unreachable, please try again shortly").
		WithReportableDetails(map[string]any{
			"inline_error":   inlineErr.Error(),
			"redirect_error": redirectErr.Error(),
		}).
		Mark(ierr.ErrGateway)
}

func (s *paymentService) GetPending(ctx context.Context) (*dto.PendingPaymentResponse, error) {
	pending, err := s.PendingPaymentRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewPendingPaymentResponse(pending), nil
}

func (s *paymentService) Cancel(ctx context.Context) error {
	pending, err := s.PendingPaymentRepo.Get(ctx)
	if err != nil {
		return err
	}

	s.Logger.Infow("cancelling pending payment",
		"reference", pending.Reference,
		"tenant_id", pending.TenantID,
	)
	return s.PendingPaymentRepo.Clear(ctx)
}

func (s *paymentService) HandleInlineResult(ctx context.Context, req *dto.InlineResultRequest) (*dto.VerifyPaymentResponse, error) {
	if err := req.Event.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Unknown inline payment event").
			Mark(ierr.ErrValidation)
	}

	pending, err := s.PendingPaymentRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if pending.Reference != req.Reference {
		return nil, ierr.NewError("reference does not match the pending payment").
			WithHint("The reported payment is not the one in progress").
			WithReportableDetails(map[string]any{
				"reported_reference": req.Reference,
				"pending_reference":  pending.Reference,
			}).
			Mark(ierr.ErrValidation)
	}

	switch req.Event {
	case types.InlineEventCompleted:
		// The popup saying "completed" is a hint, not the truth; only
		// the verify call settles the attempt
		verification := NewVerificationService(s.ServiceParams)
		return verification.Verify(ctx, &dto.VerifyPaymentRequest{Reference: req.Reference})
	default:
		// A dismissed popup keeps the slot: the user may reopen and
		// retry, or cancel explicitly
		s.Logger.Infow("inline payment dismissed, keeping pending payment",
			"reference", pending.Reference,
		)
		return &dto.VerifyPaymentResponse{
			Status:    types.PaymentStatusPending,
			Reference: pending.Reference,
			Message:   "Payment was not completed. You can retry or cancel it.",
		}, nil
	}
}

func (s *paymentService) buildGatewayRequest(pending *payment.PendingPayment) *paystack.InitializeRequest {
	return &paystack.InitializeRequest{
		Email:       pending.RequestedByEmail,
		AmountMinor: pending.Pricing.MinorUnitTotal(),
		Currency:    pending.Currency,
		Reference:   pending.Reference,
		Channels:    types.AllowedChannels(pending.Currency),
		Metadata: &payment.GatewayMetadata{
			TenantID:        lo.ToPtr(pending.TenantID),
			TargetTier:      lo.ToPtr(pending.TargetTier.String()),
			DurationMonths:  lo.ToPtr(pending.DurationMonths),
			Amount:          lo.ToPtr(pending.Pricing.Total),
			Currency:        lo.ToPtr(pending.Currency),
			ProjectedExpiry: lo.ToPtr(pending.ProjectedExpiry),
		},
	}
}
