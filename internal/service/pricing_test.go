package service

import (
	"testing"
	"time"

	"github.com/shulepay/shulepay/internal/api/dto"
	"github.com/shulepay/shulepay/internal/domain/subscription"
	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/testutil"
	"github.com/shulepay/shulepay/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PricingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PricingService
}

func TestPricingService(t *testing.T) {
	suite.Run(t, new(PricingServiceSuite))
}

func (s *PricingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewPricingService(s.params())
}

func (s *PricingServiceSuite) params() ServiceParams {
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

func (s *PricingServiceSuite) seedSubscription(tier types.PlanTier, expiry *time.Time) {
	s.GetStores().SubscriptionRepo.(*testutil.InMemorySubscriptionStore).Seed(s.GetContext(), &subscription.Subscription{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		Tier:               tier,
		Currency:           "GHS",
		SubscriptionStatus: types.SubscriptionStatusActive,
		CurrentExpiry:      expiry,
	})
}

func (s *PricingServiceSuite) TestQuoteAnnualDiscount() {
	expiry := time.Now().UTC().AddDate(0, 2, 0)
	s.seedSubscription(types.PlanTierStandard, &expiry)

	resp, err := s.service.Quote(s.GetContext(), &dto.QuoteRequest{
		TargetTier:     types.PlanTierStandard,
		DurationMonths: 12,
	})
	s.NoError(err)

	s.True(resp.Subtotal.Equal(decimal.NewFromInt(1200)), "subtotal %s", resp.Subtotal)
	s.True(resp.DiscountAmount.Equal(decimal.NewFromInt(204)), "discount %s", resp.DiscountAmount)
	s.True(resp.Total.Equal(decimal.NewFromInt(996)), "total %s", resp.Total)
	s.Equal(types.BillingActionExtend, resp.Action)
	s.Equal(types.PlanTierStandard, resp.CurrentTier)
}

func (s *PricingServiceSuite) TestQuoteDerivesUpgrade() {
	expiry := time.Now().UTC().AddDate(0, 3, 0)
	s.seedSubscription(types.PlanTierBasic, &expiry)

	resp, err := s.service.Quote(s.GetContext(), &dto.QuoteRequest{
		TargetTier:     types.PlanTierStandard,
		DurationMonths: 6,
	})
	s.NoError(err)

	s.Equal(types.BillingActionUpgrade, resp.Action)
	// An upgrade restarts from now, so the projection must land before
	// the sum of the remaining time and the new duration
	s.True(resp.ProjectedExpiry.Before(expiry.AddDate(0, 6, 1)))
}

func (s *PricingServiceSuite) TestQuoteExtensionStacksOnExpiry() {
	expiry := time.Date(2031, time.March, 10, 0, 0, 0, 0, time.UTC)
	s.seedSubscription(types.PlanTierStandard, &expiry)

	resp, err := s.service.Quote(s.GetContext(), &dto.QuoteRequest{
		TargetTier:     types.PlanTierStandard,
		DurationMonths: 3,
	})
	s.NoError(err)

	s.Equal(types.BillingActionExtend, resp.Action)
	s.Equal(time.Date(2031, time.June, 10, 0, 0, 0, 0, time.UTC), resp.ProjectedExpiry)
}

func (s *PricingServiceSuite) TestQuoteInvalidDuration() {
	s.seedSubscription(types.PlanTierBasic, nil)

	_, err := s.service.Quote(s.GetContext(), &dto.QuoteRequest{
		TargetTier:     types.PlanTierBasic,
		DurationMonths: 13,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PricingServiceSuite) TestQuoteUnknownTier() {
	s.seedSubscription(types.PlanTierBasic, nil)

	_, err := s.service.Quote(s.GetContext(), &dto.QuoteRequest{
		TargetTier:     types.PlanTier("gold"),
		DurationMonths: 3,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PricingServiceSuite) TestGetPricesUsesCache() {
	s.seedSubscription(types.PlanTierBasic, nil)

	first, err := s.service.GetPrices(s.GetContext(), "GHS")
	s.NoError(err)
	s.Len(first, 3)

	// Swap the backing table; the cached copy must still be served
	s.GetStores().PriceBook.(*testutil.InMemoryPriceBook).SetPrices("GHS", map[types.PlanTier]decimal.Decimal{
		types.PlanTierBasic: decimal.NewFromInt(999),
	})

	second, err := s.service.GetPrices(s.GetContext(), "GHS")
	s.NoError(err)
	s.True(second[types.PlanTierBasic].Equal(first[types.PlanTierBasic]))
}
