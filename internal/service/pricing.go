package service

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shulepay/shulepay/internal/api/dto"
	"github.com/shulepay/shulepay/internal/domain/pricing"
	"github.com/shulepay/shulepay/internal/domain/subscription"
	"github.com/shulepay/shulepay/internal/types"
	"github.com/shopspring/decimal"
)

// PricingService prices plan selections against the backend price list
type PricingService interface {
	// GetPrices returns the per-month amount of each tier in the currency
	GetPrices(ctx context.Context, currency string) (map[types.PlanTier]decimal.Decimal, error)
	// Quote prices a selection and derives the action and projected
	// expiry from the tenant's current subscription
	Quote(ctx context.Context, req *dto.QuoteRequest) (*dto.QuoteResponse, error)
}

type pricingService struct {
	ServiceParams
	priceCache *cache.Cache
}

// NewPricingService creates a new pricing service
func NewPricingService(params ServiceParams) PricingService {
	ttl := params.Config.Billing.PriceCacheTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &pricingService{
		ServiceParams: params,
		priceCache:    cache.New(ttl, 2*ttl),
	}
}

func (s *pricingService) GetPrices(ctx context.Context, currency string) (map[types.PlanTier]decimal.Decimal, error) {
	cacheKey := fmt.Sprintf("prices:%s", currency)
	if cached, found := s.priceCache.Get(cacheKey); found {
		if prices, ok := cached.(map[types.PlanTier]decimal.Decimal); ok {
			return prices, nil
		}
	}

	prices, err := s.PriceBook.GetPrices(ctx, currency)
	if err != nil {
		return nil, err
	}

	s.priceCache.SetDefault(cacheKey, prices)
	return prices, nil
}

func (s *pricingService) Quote(ctx context.Context, req *dto.QuoteRequest) (*dto.QuoteResponse, error) {
	selection := req.Selection()
	if err := selection.Validate(); err != nil {
		return nil, err
	}

	sub, err := s.SubscriptionRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	prices, err := s.GetPrices(ctx, sub.Currency)
	if err != nil {
		return nil, err
	}

	result, err := pricing.Compute(selection, prices, sub.Currency)
	if err != nil {
		return nil, err
	}

	// The action drives the projection base: extensions stack on the
	// remaining time, upgrades restart from now and forfeit it
	action := types.BillingActionFor(sub.Tier, selection.TargetTier)
	projected := subscription.ProjectExpiry(sub.CurrentExpiry, time.Now().UTC(), selection.DurationMonths, action)

	return &dto.QuoteResponse{
		PricingResult:   result,
		Action:          action,
		CurrentTier:     sub.Tier,
		ProjectedExpiry: projected,
	}, nil
}
