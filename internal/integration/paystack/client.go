package paystack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shulepay/shulepay/internal/config"
	"github.com/shulepay/shulepay/internal/domain/payment"
	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/httpclient"
	"github.com/shulepay/shulepay/internal/logger"
	"github.com/shulepay/shulepay/internal/types"
)

// Client defines the payment gateway operations consumed by the billing
// services. VerifyTransaction is idempotent on the gateway side and safe
// to call arbitrarily many times for the same reference.
type Client interface {
	// CreateInlineSession bootstraps the embedded same-page flow
	// (transport A) and returns the access code the popup consumes
	CreateInlineSession(ctx context.Context, req *InitializeRequest) (*InlineSession, error)
	// InitializeRedirect sets up the hosted checkout fallback
	// (transport B) and returns the authorization URL to navigate to
	InitializeRedirect(ctx context.Context, req *InitializeRequest) (*RedirectSession, error)
	// VerifyTransaction fetches the authoritative status of a reference
	VerifyTransaction(ctx context.Context, reference string) (*payment.VerificationResult, error)
}

type client struct {
	cfg    config.GatewayConfig
	http   httpclient.Client
	logger *logger.Logger
}

// NewClient creates a new gateway client
func NewClient(cfg *config.Configuration, httpClient httpclient.Client, log *logger.Logger) Client {
	return &client{
		cfg:    cfg.Gateway,
		http:   httpClient,
		logger: log,
	}
}

func (c *client) CreateInlineSession(ctx context.Context, req *InitializeRequest) (*InlineSession, error) {
	// The inline popup does not need a callback URL; completion is
	// reported back through the in-page terminal events
	payload := *req
	payload.CallbackURL = ""

	data, err := c.initialize(ctx, &payload)
	if err != nil {
		return nil, err
	}

	if data.AccessCode == "" {
		return nil, ierr.NewError("gateway returned no access code").
			WithHint("Embedded payment flow could not be started").
			Mark(ierr.ErrGateway)
	}

	return &InlineSession{
		Reference:  data.Reference,
		AccessCode: data.AccessCode,
		PublicKey:  c.cfg.PublicKey,
	}, nil
}

func (c *client) InitializeRedirect(ctx context.Context, req *InitializeRequest) (*RedirectSession, error) {
	payload := *req
	if payload.CallbackURL == "" {
		payload.CallbackURL = c.cfg.CallbackURL
	}

	data, err := c.initialize(ctx, &payload)
	if err != nil {
		return nil, err
	}

	if data.AuthorizationURL == "" {
		return nil, ierr.NewError("gateway returned no authorization url").
			WithHint("Hosted checkout could not be started").
			Mark(ierr.ErrGateway)
	}

	return &RedirectSession{
		Reference:        data.Reference,
		AccessCode:       data.AccessCode,
		AuthorizationURL: data.AuthorizationURL,
	}, nil
}

func (c *client) VerifyTransaction(ctx context.Context, reference string) (*payment.VerificationResult, error) {
	if reference == "" {
		return nil, ierr.NewError("missing reference").
			WithHint("A payment reference is required for verification").
			Mark(ierr.ErrValidation)
	}

	resp, err := c.http.Send(ctx, &httpclient.Request{
		Method:  http.MethodGet,
		URL:     fmt.Sprintf("%s/transaction/verify/%s", c.cfg.BaseURL, reference),
		Headers: c.headers(),
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not reach the payment gateway for verification").
			Mark(ierr.ErrGateway)
	}

	var env verifyEnvelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Gateway returned an unreadable verification response").
			Mark(ierr.ErrGateway)
	}

	if !env.Status {
		return nil, ierr.NewError("gateway rejected verification").
			WithHint(env.Message).
			WithReportableDetails(map[string]any{
				"reference": reference,
			}).
			Mark(ierr.ErrGateway)
	}

	result := &payment.VerificationResult{
		Status:      mapGatewayStatus(env.Data.Status),
		Reference:   env.Data.Reference,
		PaidAt:      env.Data.PaidAt,
		AmountMinor: env.Data.Amount,
		Currency:    env.Data.Currency,
		Metadata:    env.Data.Metadata,
	}
	if env.Data.ID != 0 {
		result.GatewayTransactionID = strconv.FormatInt(env.Data.ID, 10)
	}

	c.logger.Debugw("verified transaction with gateway",
		"reference", reference,
		"status", result.Status,
	)

	return result, nil
}

func (c *client) initialize(ctx context.Context, req *InitializeRequest) (*initializeData, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid gateway request payload").
			Mark(ierr.ErrValidation)
	}

	resp, err := c.http.Send(ctx, &httpclient.Request{
		Method:  http.MethodPost,
		URL:     fmt.Sprintf("%s/transaction/initialize", c.cfg.BaseURL),
		Headers: c.headers(),
		Body:    body,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not reach the payment gateway").
			Mark(ierr.ErrGateway)
	}

	var env initializeEnvelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Gateway returned an unreadable response").
			Mark(ierr.ErrGateway)
	}

	if !env.Status {
		return nil, ierr.NewError("gateway rejected initialization").
			WithHint(env.Message).
			Mark(ierr.ErrGateway)
	}

	return &env.Data, nil
}

// headers builds the authenticated request headers. The secret key never
// leaves the server side.
func (c *client) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.cfg.SecretKey,
		"Content-Type":  "application/json",
	}
}

func mapGatewayStatus(status string) types.PaymentStatus {
	switch status {
	case "success":
		return types.PaymentStatusSuccess
	case "failed":
		return types.PaymentStatusFailed
	case "abandoned":
		return types.PaymentStatusAbandoned
	default:
		return types.PaymentStatusPending
	}
}
