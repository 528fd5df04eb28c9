package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shulepay/shulepay/internal/config"
	"github.com/shulepay/shulepay/internal/domain/ledger"
	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/httpclient"
	"github.com/shulepay/shulepay/internal/types"
)

type ledgerRepository struct {
	cfg    config.BackendConfig
	client httpclient.Client
}

// NewLedgerRepository creates a repository over the school backend
// transaction ledger
func NewLedgerRepository(cfg *config.Configuration, client httpclient.Client) ledger.Repository {
	return &ledgerRepository{
		cfg:    cfg.Backend,
		client: client,
	}
}

func (r *ledgerRepository) Append(ctx context.Context, entry *ledger.TransactionLedgerEntry) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Invalid ledger entry payload").
			Mark(ierr.ErrValidation)
	}

	_, err = r.client.Send(ctx, &httpclient.Request{
		Method:  http.MethodPost,
		URL:     fmt.Sprintf("%s/internal/tenants/%s/transactions", r.cfg.BaseURL, types.GetTenantID(ctx)),
		Headers: backendHeaders(ctx, r.cfg),
		Body:    body,
	})
	return err
}

func (r *ledgerRepository) List(ctx context.Context) ([]*ledger.TransactionLedgerEntry, error) {
	resp, err := r.client.Send(ctx, &httpclient.Request{
		Method:  http.MethodGet,
		URL:     fmt.Sprintf("%s/internal/tenants/%s/transactions", r.cfg.BaseURL, types.GetTenantID(ctx)),
		Headers: backendHeaders(ctx, r.cfg),
	})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data []*ledger.TransactionLedgerEntry `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Transaction history response was unreadable").
			Mark(ierr.ErrHTTPClient)
	}

	return payload.Data, nil
}

func (r *ledgerRepository) GetByReference(ctx context.Context, reference string) (*ledger.TransactionLedgerEntry, error) {
	resp, err := r.client.Send(ctx, &httpclient.Request{
		Method: http.MethodGet,
		URL: fmt.Sprintf("%s/internal/tenants/%s/transactions?reference=%s",
			r.cfg.BaseURL, types.GetTenantID(ctx), url.QueryEscape(reference)),
		Headers: backendHeaders(ctx, r.cfg),
	})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data []*ledger.TransactionLedgerEntry `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Transaction lookup response was unreadable").
			Mark(ierr.ErrHTTPClient)
	}
	if len(payload.Data) == 0 {
		return nil, ierr.NewError("transaction not found").
			WithHintf("No transaction recorded for reference %s", reference).
			Mark(ierr.ErrNotFound)
	}

	return payload.Data[0], nil
}
