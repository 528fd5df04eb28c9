package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shulepay/shulepay/internal/api/dto"
	"github.com/shulepay/shulepay/internal/domain/ledger"
	"github.com/shulepay/shulepay/internal/domain/payment"
	"github.com/shulepay/shulepay/internal/domain/subscription"
	"github.com/shulepay/shulepay/internal/email"
	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/types"
	"github.com/shopspring/decimal"
)

// VerificationService settles payment attempts against the gateway's
// authoritative status. Verify is idempotent end to end: re-verifying an
// already applied reference never double-credits the subscription.
type VerificationService interface {
	// Verify runs one verification cycle for the reference. An empty
	// reference falls back to the stored pending payment.
	Verify(ctx context.Context, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error)
	// StartPolling verifies the reference in the background on a fixed
	// interval until terminal success or the attempt budget runs out.
	// Calling it again for a reference already being polled is a no-op.
	StartPolling(ctx context.Context, reference string)
}

// activePolls tracks in-flight background polls per reference so that a
// page reload plus a return callback cannot start two polling loops
var activePolls sync.Map

// errStillPending drives the retry loop; never surfaced to callers
var errStillPending = errors.New("payment still pending")

type verificationService struct {
	ServiceParams
	subscriptionService SubscriptionService
}

// NewVerificationService creates a new verification service
func NewVerificationService(params ServiceParams) VerificationService {
	return &verificationService{
		ServiceParams:       params,
		subscriptionService: NewSubscriptionService(params),
	}
}

func (s *verificationService) Verify(ctx context.Context, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error) {
	pending, err := s.PendingPaymentRepo.Get(ctx)
	if err != nil {
		if !ierr.IsNotFound(err) {
			return nil, err
		}
		if req.Reference == "" {
			return nil, ierr.NewError("no payment to verify").
				WithHint("There is no pending payment and no reference was provided").
				Mark(ierr.ErrNotFound)
		}
		// The slot may already be settled and cleaned up, for example
		// when the redirect return lands after polling finished
		if _, err := s.LedgerRepo.GetByReference(ctx, req.Reference); err == nil {
			return s.successResponse(ctx, req.Reference)
		}
		return nil, ierr.NewError("unknown payment reference").
			WithHint("No payment is awaiting verification for this reference").
			WithReportableDetails(map[string]any{
				"reference": req.Reference,
			}).
			Mark(ierr.ErrNotFound)
	}

	reference := req.Reference
	if reference == "" {
		reference = pending.Reference
	}
	if reference != pending.Reference {
		return nil, ierr.NewError("reference does not match the pending payment").
			WithHint("The requested payment is not the one in progress").
			WithReportableDetails(map[string]any{
				"requested_reference": reference,
				"pending_reference":   pending.Reference,
			}).
			Mark(ierr.ErrValidation)
	}

	// Already applied? Then a previous cycle crashed between apply and
	// cleanup, or this is a duplicate trigger. Finish the cleanup and
	// report success without touching the subscription again.
	if entry, err := s.LedgerRepo.GetByReference(ctx, reference); err == nil {
		s.Logger.Infow("payment already applied, clearing pending record",
			"reference", reference,
			"receipt_number", entry.ReceiptNumber,
		)
		if err := s.PendingPaymentRepo.Clear(ctx); err != nil {
			s.Logger.Errorw("failed to clear pending payment",
				"error", err,
				"reference", reference,
			)
		}
		return s.successResponse(ctx, reference)
	} else if !ierr.IsNotFound(err) {
		return nil, err
	}

	result, err := s.Gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, err
	}

	if !result.Status.IsTerminalSuccess() {
		// Failed and abandoned attempts stay in the slot too: the user
		// decides whether to retry or cancel
		return &dto.VerifyPaymentResponse{
			Status:    result.Status,
			Reference: reference,
			Message:   verificationMessage(result.Status),
		}, nil
	}

	applyReq := s.reconcile(pending, result)
	sub, entry, err := s.subscriptionService.ApplyVerifiedPayment(ctx, applyReq)
	if err != nil {
		// The money moved but the subscription did not. Keep the
		// pending record so a later cycle can complete the application.
		s.Logger.Errorw("verified payment could not be applied, keeping pending record",
			"error", err,
			"reference", reference,
		)
		return nil, ierr.WithError(err).
			WithHint("Payment was received but could not be applied yet, it will be retried").
			WithReportableDetails(map[string]any{
				"reference": reference,
			}).
			Mark(ierr.ErrSystem)
	}

	if err := s.PendingPaymentRepo.Clear(ctx); err != nil {
		s.Logger.Errorw("failed to clear pending payment after apply",
			"error", err,
			"reference", reference,
		)
	}

	s.sendReceipt(ctx, pending, entry)

	return &dto.VerifyPaymentResponse{
		Status:       types.PaymentStatusSuccess,
		Reference:    reference,
		Message:      "Payment verified and subscription updated",
		Subscription: dto.NewSubscriptionResponse(sub),
	}, nil
}

func (s *verificationService) StartPolling(ctx context.Context, reference string) {
	if reference == "" {
		return
	}
	if _, loaded := activePolls.LoadOrStore(reference, struct{}{}); loaded {
		return
	}

	// Detach from the request so the poll outlives the HTTP response
	pollCtx := context.WithoutCancel(ctx)

	go func() {
		defer activePolls.Delete(reference)

		operation := func() error {
			resp, err := s.Verify(pollCtx, &dto.VerifyPaymentRequest{Reference: reference})
			if err != nil {
				if ierr.IsNotFound(err) || ierr.IsValidation(err) {
					// The slot is gone or points elsewhere; nothing
					// left for this loop to settle
					return backoff.Permanent(err)
				}
				return err
			}
			if resp.Status.IsTerminalSuccess() {
				return nil
			}
			return errStillPending
		}

		policy := backoff.WithMaxRetries(
			backoff.NewConstantBackOff(s.Config.Billing.PollInterval),
			s.Config.Billing.MaxPollAttempts,
		)

		if err := backoff.Retry(operation, backoff.WithContext(policy, pollCtx)); err != nil {
			s.Logger.Warnw("verification polling finished without success",
				"error", err,
				"reference", reference,
			)
			return
		}

		s.Logger.Infow("verification polling settled payment",
			"reference", reference,
		)
	}()
}

// reconcile merges the gateway's echoed metadata over the local snapshot.
// Gateway values win when present; the snapshot fills every gap, and the
// expiry can always be recomputed from the duration as a last resort.
func (s *verificationService) reconcile(pending *payment.PendingPayment, result *payment.VerificationResult) *dto.ApplyVerifiedPaymentRequest {
	req := &dto.ApplyVerifiedPaymentRequest{
		Tier:                 pending.TargetTier,
		DurationMonths:       pending.DurationMonths,
		Amount:               pending.Pricing.Total,
		Currency:             pending.Currency,
		GatewayReference:     pending.Reference,
		GatewayTransactionID: result.GatewayTransactionID,
		PaidAt:               result.PaidAt,
		NextExpiry:           pending.ProjectedExpiry,
	}

	if result.AmountMinor > 0 {
		req.Amount = decimal.NewFromInt(result.AmountMinor).Shift(-2)
	}
	if result.Currency != "" {
		req.Currency = result.Currency
	}

	if md := result.Metadata; md != nil {
		if md.TargetTier != nil {
			req.Tier = types.PlanTier(*md.TargetTier)
		}
		if md.DurationMonths != nil {
			req.DurationMonths = *md.DurationMonths
		}
		if md.Amount != nil {
			req.Amount = *md.Amount
		}
		if md.ProjectedExpiry != nil {
			req.NextExpiry = *md.ProjectedExpiry
		}
	}

	if req.NextExpiry.IsZero() {
		req.NextExpiry = subscription.AddMonthsClamped(time.Now().UTC(), req.DurationMonths)
	}

	return req
}

func (s *verificationService) successResponse(ctx context.Context, reference string) (*dto.VerifyPaymentResponse, error) {
	resp := &dto.VerifyPaymentResponse{
		Status:    types.PaymentStatusSuccess,
		Reference: reference,
		Message:   "Payment verified and subscription updated",
	}
	if sub, err := s.SubscriptionRepo.Get(ctx); err == nil {
		resp.Subscription = dto.NewSubscriptionResponse(sub)
	}
	return resp, nil
}

// sendReceipt dispatches the payment receipt to the payer. Best effort:
// a delivery failure never fails the verification that triggered it.
func (s *verificationService) sendReceipt(ctx context.Context, pending *payment.PendingPayment, entry *ledger.TransactionLedgerEntry) {
	if pending.RequestedByEmail == "" {
		return
	}

	subject := fmt.Sprintf("Payment receipt %s", entry.ReceiptNumber)
	text := fmt.Sprintf(
		"Your payment was received.\n\n"+
			"Receipt: %s\n"+
			"Plan: %s\n"+
			"Duration: %d month(s)\n"+
			"Amount: %s %s\n"+
			"Subscription valid until: %s\n",
		entry.ReceiptNumber,
		entry.Tier,
		entry.DurationMonths,
		entry.Currency,
		entry.Amount.StringFixed(2),
		entry.NextExpiry.Format("02 Jan 2006"),
	)

	if err := s.EmailSender.Send(ctx, email.SendRequest{
		To:      []string{pending.RequestedByEmail},
		Subject: subject,
		Text:    text,
	}); err != nil {
		s.Logger.Warnw("failed to send payment receipt",
			"error", err,
			"reference", pending.Reference,
		)
	}
}

func verificationMessage(status types.PaymentStatus) string {
	switch status {
	case types.PaymentStatusFailed:
		return "Payment failed. You can retry with a different method or cancel."
	case types.PaymentStatusAbandoned:
		return "Payment was abandoned. You can retry or cancel it."
	default:
		return fmt.Sprintf("Payment is still %s, it will be re-checked automatically", status)
	}
}
