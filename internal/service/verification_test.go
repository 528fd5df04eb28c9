package service

import (
	"testing"
	"time"

	"github.com/shulepay/shulepay/internal/api/dto"
	"github.com/shulepay/shulepay/internal/domain/payment"
	"github.com/shulepay/shulepay/internal/domain/pricing"
	"github.com/shulepay/shulepay/internal/domain/subscription"
	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/testutil"
	"github.com/shulepay/shulepay/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type VerificationServiceSuite struct {
	testutil.BaseServiceTestSuite
	service        VerificationService
	paymentService PaymentService
}

func TestVerificationService(t *testing.T) {
	suite.Run(t, new(VerificationServiceSuite))
}

func (s *VerificationServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewVerificationService(s.params())
	s.paymentService = NewPaymentService(s.params())
}

func (s *VerificationServiceSuite) params() ServiceParams {
	return ServiceParams{
		Logger:             s.GetLogger(),
		Config:             s.GetConfig(),
		Gateway:            s.GetGateway(),
		EmailSender:        s.GetEmailSender(),
		PriceBook:          s.GetStores().PriceBook,
		SubscriptionRepo:   s.GetStores().SubscriptionRepo,
		LedgerRepo:         s.GetStores().LedgerRepo,
		PendingPaymentRepo: s.GetStores().PendingPaymentRepo,
	}
}

func (s *VerificationServiceSuite) seedSubscription(tier types.PlanTier) {
	expiry := time.Now().UTC().AddDate(0, 1, 0)
	s.GetStores().SubscriptionRepo.(*testutil.InMemorySubscriptionStore).Seed(s.GetContext(), &subscription.Subscription{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		Tier:               tier,
		Currency:           "GHS",
		SubscriptionStatus: types.SubscriptionStatusActive,
		CurrentExpiry:      &expiry,
	})
}

// initiate seeds a subscription and starts a standard 3-month payment
func (s *VerificationServiceSuite) initiate() string {
	s.seedSubscription(types.PlanTierBasic)
	resp, err := s.paymentService.Initiate(s.GetContext(), &dto.InitiatePaymentRequest{
		TargetTier:     types.PlanTierStandard,
		DurationMonths: 3,
	})
	s.Require().NoError(err)
	return resp.Reference
}

func (s *VerificationServiceSuite) scriptSuccess(reference string) {
	paidAt := time.Now().UTC()
	s.GetGateway().SetVerifyResult(reference, &payment.VerificationResult{
		Status:               types.PaymentStatusSuccess,
		Reference:            reference,
		GatewayTransactionID: "1234567890",
		PaidAt:               &paidAt,
		AmountMinor:          28500,
		Currency:             "GHS",
	})
}

func (s *VerificationServiceSuite) TestVerifyWithoutAnything() {
	_, err := s.service.Verify(s.GetContext(), &dto.VerifyPaymentRequest{})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *VerificationServiceSuite) TestVerifyStillPendingKeepsSlot() {
	reference := s.initiate()

	resp, err := s.service.Verify(s.GetContext(), &dto.VerifyPaymentRequest{Reference: reference})
	s.NoError(err)
	s.Equal(types.PaymentStatusPending, resp.Status)

	_, err = s.GetStores().PendingPaymentRepo.Get(s.GetContext())
	s.NoError(err)
}

func (s *VerificationServiceSuite) TestVerifyFailedKeepsSlot() {
	reference := s.initiate()
	s.GetGateway().SetVerifyResult(reference, &payment.VerificationResult{
		Status:    types.PaymentStatusFailed,
		Reference: reference,
	})

	resp, err := s.service.Verify(s.GetContext(), &dto.VerifyPaymentRequest{Reference: reference})
	s.NoError(err)
	s.Equal(types.PaymentStatusFailed, resp.Status)

	// A failed charge stays retryable from the stored slot
	_, err = s.GetStores().PendingPaymentRepo.Get(s.GetContext())
	s.NoError(err)
}

func (s *VerificationServiceSuite) TestVerifySuccess() {
	reference := s.initiate()
	s.scriptSuccess(reference)

	resp, err := s.service.Verify(s.GetContext(), &dto.VerifyPaymentRequest{Reference: reference})
	s.NoError(err)
	s.Equal(types.PaymentStatusSuccess, resp.Status)
	s.Require().NotNil(resp.Subscription)
	s.Equal(types.PlanTierStandard, resp.Subscription.Tier)
	s.Equal(types.SubscriptionStatusActive, resp.Subscription.Status)

	// Ledger entry with a receipt number
	entry, err := s.GetStores().LedgerRepo.GetByReference(s.GetContext(), reference)
	s.NoError(err)
	s.Contains(entry.ReceiptNumber, "RCT-")
	s.Equal(types.PaymentStatusSuccess, entry.PaymentStatus)
	s.True(entry.Amount.StringFixed(2) == "285.00", "amount %s", entry.Amount)

	// Slot cleared, receipt dispatched
	_, err = s.GetStores().PendingPaymentRepo.Get(s.GetContext())
	s.True(ierr.IsNotFound(err))
	sent := s.GetEmailSender().Sent()
	s.Require().Len(sent, 1)
	s.Contains(sent[0].Subject, entry.ReceiptNumber)
}

func (s *VerificationServiceSuite) TestVerifyEmptyReferenceFallsBackToSlot() {
	reference := s.initiate()
	s.scriptSuccess(reference)

	resp, err := s.service.Verify(s.GetContext(), &dto.VerifyPaymentRequest{})
	s.NoError(err)
	s.Equal(types.PaymentStatusSuccess, resp.Status)
	s.Equal(reference, resp.Reference)
}

func (s *VerificationServiceSuite) TestVerifyIsIdempotent() {
	reference := s.initiate()
	s.scriptSuccess(reference)

	first, err := s.service.Verify(s.GetContext(), &dto.VerifyPaymentRequest{Reference: reference})
	s.NoError(err)
	expiryAfterFirst := first.Subscription.CurrentExpiry

	// Restore the slot to model a crash after apply but before cleanup,
	// then verify again
	sub, err := s.GetStores().SubscriptionRepo.Get(s.GetContext())
	s.Require().NoError(err)
	s.Require().NoError(s.GetStores().PendingPaymentRepo.Persist(s.GetContext(), &payment.PendingPayment{
		Reference:      reference,
		TenantID:       types.DefaultTenantID,
		TargetTier:     types.PlanTierStandard,
		DurationMonths: 3,
		Currency:       "GHS",
		Action:         types.BillingActionUpgrade,
		Pricing:        s.pricingSnapshot(),
		CreatedAt:      time.Now().UTC(),
	}))

	second, err := s.service.Verify(s.GetContext(), &dto.VerifyPaymentRequest{Reference: reference})
	s.NoError(err)
	s.Equal(types.PaymentStatusSuccess, second.Status)

	// One ledger entry, no double duration credit
	list, err := s.GetStores().LedgerRepo.List(s.GetContext())
	s.NoError(err)
	s.Len(list, 1)

	subAfter, err := s.GetStores().SubscriptionRepo.Get(s.GetContext())
	s.NoError(err)
	s.True(subAfter.CurrentExpiry.Equal(*expiryAfterFirst))
	s.True(subAfter.CurrentExpiry.Equal(*sub.CurrentExpiry))

	// And the restored slot was cleaned up
	_, err = s.GetStores().PendingPaymentRepo.Get(s.GetContext())
	s.True(ierr.IsNotFound(err))
}

func (s *VerificationServiceSuite) TestVerifyGatewayMetadataWins() {
	reference := s.initiate()

	paidAt := time.Now().UTC()
	metadataExpiry := time.Date(2032, time.May, 20, 0, 0, 0, 0, time.UTC)
	s.GetGateway().SetVerifyResult(reference, &payment.VerificationResult{
		Status:      types.PaymentStatusSuccess,
		Reference:   reference,
		PaidAt:      &paidAt,
		AmountMinor: 28500,
		Currency:    "GHS",
		Metadata: &payment.GatewayMetadata{
			ProjectedExpiry: lo.ToPtr(metadataExpiry),
		},
	})

	resp, err := s.service.Verify(s.GetContext(), &dto.VerifyPaymentRequest{Reference: reference})
	s.NoError(err)
	s.Require().NotNil(resp.Subscription)
	s.True(resp.Subscription.CurrentExpiry.Equal(metadataExpiry))
}

func (s *VerificationServiceSuite) TestVerifyApplyFailureKeepsSlot() {
	reference := s.initiate()
	s.scriptSuccess(reference)

	// Losing the subscription record makes the apply step fail
	s.GetStores().SubscriptionRepo.(*testutil.InMemorySubscriptionStore).Reset()

	_, err := s.service.Verify(s.GetContext(), &dto.VerifyPaymentRequest{Reference: reference})
	s.Error(err)

	// The money moved, so the slot must survive for a later retry
	pending, err := s.GetStores().PendingPaymentRepo.Get(s.GetContext())
	s.NoError(err)
	s.Equal(reference, pending.Reference)

	// Once the record is back, the retry completes
	s.seedSubscription(types.PlanTierBasic)
	resp, err := s.service.Verify(s.GetContext(), &dto.VerifyPaymentRequest{Reference: reference})
	s.NoError(err)
	s.Equal(types.PaymentStatusSuccess, resp.Status)
}

func (s *VerificationServiceSuite) TestVerifySurvivesRestart() {
	reference := s.initiate()
	s.scriptSuccess(reference)

	// Fresh services over the same stores model a process restart
	restarted := NewVerificationService(s.params())
	resp, err := restarted.Verify(s.GetContext(), &dto.VerifyPaymentRequest{})
	s.NoError(err)
	s.Equal(types.PaymentStatusSuccess, resp.Status)
	s.Equal(reference, resp.Reference)
}

func (s *VerificationServiceSuite) TestPollingSettlesPayment() {
	reference := s.initiate()
	s.scriptSuccess(reference)

	s.service.StartPolling(s.GetContext(), reference)

	s.Require().Eventually(func() bool {
		_, err := s.GetStores().LedgerRepo.GetByReference(s.GetContext(), reference)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	_, err := s.GetStores().PendingPaymentRepo.Get(s.GetContext())
	s.True(ierr.IsNotFound(err))
}

func (s *VerificationServiceSuite) pricingSnapshot() *pricing.PricingResult {
	prices, err := s.GetStores().PriceBook.GetPrices(s.GetContext(), "GHS")
	s.Require().NoError(err)
	result, err := pricing.Compute(pricing.BillingSelection{
		TargetTier:     types.PlanTierStandard,
		DurationMonths: 3,
	}, prices, "GHS")
	s.Require().NoError(err)
	return result
}
