package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shulepay/shulepay/internal/config"
	"github.com/shulepay/shulepay/internal/domain/subscription"
	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/httpclient"
	"github.com/shulepay/shulepay/internal/types"
)

type subscriptionRepository struct {
	cfg    config.BackendConfig
	client httpclient.Client
}

// NewSubscriptionRepository creates a repository over the school backend
// subscription record
func NewSubscriptionRepository(cfg *config.Configuration, client httpclient.Client) subscription.Repository {
	return &subscriptionRepository{
		cfg:    cfg.Backend,
		client: client,
	}
}

func (r *subscriptionRepository) Get(ctx context.Context) (*subscription.Subscription, error) {
	if err := types.ValidateTenantContext(ctx); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Tenant is required").
			Mark(ierr.ErrValidation)
	}

	resp, err := r.client.Send(ctx, &httpclient.Request{
		Method:  http.MethodGet,
		URL:     fmt.Sprintf("%s/internal/tenants/%s/subscription", r.cfg.BaseURL, types.GetTenantID(ctx)),
		Headers: backendHeaders(ctx, r.cfg),
	})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data *subscription.Subscription `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Subscription response was unreadable").
			Mark(ierr.ErrHTTPClient)
	}
	if payload.Data == nil {
		return nil, ierr.NewError("subscription not found").
			WithHint("No subscription record exists for this school").
			Mark(ierr.ErrNotFound)
	}

	return payload.Data, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	if err := types.ValidateTenantContext(ctx); err != nil {
		return ierr.WithError(err).
			WithHint("Tenant is required").
			Mark(ierr.ErrValidation)
	}

	body, err := json.Marshal(sub)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Invalid subscription payload").
			Mark(ierr.ErrValidation)
	}

	_, err = r.client.Send(ctx, &httpclient.Request{
		Method:  http.MethodPut,
		URL:     fmt.Sprintf("%s/internal/tenants/%s/subscription", r.cfg.BaseURL, types.GetTenantID(ctx)),
		Headers: backendHeaders(ctx, r.cfg),
		Body:    body,
	})
	return err
}
