package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shulepay/shulepay/internal/config"
	"github.com/shulepay/shulepay/internal/domain/pricing"
	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/httpclient"
	"github.com/shulepay/shulepay/internal/types"
	"github.com/shopspring/decimal"
)

type priceBook struct {
	cfg    config.BackendConfig
	client httpclient.Client
}

// NewPriceBook creates a price book backed by the school backend price
// list. The returned map may be partial; a tier absent from the currency's
// price list is unavailable for self-serve selection.
func NewPriceBook(cfg *config.Configuration, client httpclient.Client) pricing.PriceBook {
	return &priceBook{
		cfg:    cfg.Backend,
		client: client,
	}
}

func (p *priceBook) GetPrices(ctx context.Context, currency string) (map[types.PlanTier]decimal.Decimal, error) {
	resp, err := p.client.Send(ctx, &httpclient.Request{
		Method:  http.MethodGet,
		URL:     fmt.Sprintf("%s/internal/billing/prices?currency=%s", p.cfg.BaseURL, currency),
		Headers: backendHeaders(ctx, p.cfg),
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not load plan prices").
			Mark(ierr.ErrHTTPClient)
	}

	var payload struct {
		Data []pricing.PriceQuote `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Price list response was unreadable").
			Mark(ierr.ErrHTTPClient)
	}

	prices := make(map[types.PlanTier]decimal.Decimal, len(payload.Data))
	for _, quote := range payload.Data {
		if !types.IsMatchingCurrency(quote.Currency, currency) {
			continue
		}
		prices[quote.Tier] = quote.MonthlyAmount
	}

	return prices, nil
}
