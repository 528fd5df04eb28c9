package testutil

import (
	"context"
	"sync"

	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/types"
	"github.com/shopspring/decimal"
)

// InMemoryPriceBook implements pricing.PriceBook with a fixed price table
type InMemoryPriceBook struct {
	mu     sync.RWMutex
	prices map[string]map[types.PlanTier]decimal.Decimal
	err    error
}

// NewInMemoryPriceBook creates a price book preloaded with a GHS table
func NewInMemoryPriceBook() *InMemoryPriceBook {
	pb := &InMemoryPriceBook{
		prices: make(map[string]map[types.PlanTier]decimal.Decimal),
	}
	pb.SetPrices("GHS", map[types.PlanTier]decimal.Decimal{
		types.PlanTierBasic:    decimal.NewFromInt(50),
		types.PlanTierStandard: decimal.NewFromInt(100),
		types.PlanTierPremium:  decimal.NewFromInt(250),
	})
	return pb
}

// Reset restores the default price table
func (m *InMemoryPriceBook) Reset() {
	m.mu.Lock()
	m.prices = make(map[string]map[types.PlanTier]decimal.Decimal)
	m.err = nil
	m.mu.Unlock()

	m.SetPrices("GHS", map[types.PlanTier]decimal.Decimal{
		types.PlanTierBasic:    decimal.NewFromInt(50),
		types.PlanTierStandard: decimal.NewFromInt(100),
		types.PlanTierPremium:  decimal.NewFromInt(250),
	})
}

// SetPrices installs the price table for a currency
func (m *InMemoryPriceBook) SetPrices(currency string, prices map[types.PlanTier]decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[currency] = prices
}

// SetError makes every lookup fail with the given error
func (m *InMemoryPriceBook) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *InMemoryPriceBook) GetPrices(ctx context.Context, currency string) (map[types.PlanTier]decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return nil, m.err
	}

	prices, ok := m.prices[currency]
	if !ok {
		return nil, ierr.NewError("no prices for currency").
			WithHintf("No prices are published for %s", currency).
			Mark(ierr.ErrNotFound)
	}

	result := make(map[types.PlanTier]decimal.Decimal, len(prices))
	for tier, amount := range prices {
		result[tier] = amount
	}
	return result, nil
}
