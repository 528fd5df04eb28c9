package paystack

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shulepay/shulepay/internal/config"
	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/httpclient"
	"github.com/shulepay/shulepay/internal/logger"
	"github.com/shulepay/shulepay/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubHTTPClient implements httpclient.Client with a canned response
type stubHTTPClient struct {
	response *httpclient.Response
	err      error
	requests []*httpclient.Request
}

func (s *stubHTTPClient) Send(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func newTestClient(t *testing.T, stub *stubHTTPClient) Client {
	cfg := config.GetDefaultConfig()
	log, err := logger.NewLogger(cfg)
	require.NoError(t, err)
	return NewClient(cfg, stub, log)
}

func initializeBody(t *testing.T, reference string) []byte {
	body, err := json.Marshal(map[string]any{
		"status":  true,
		"message": "Authorization URL created",
		"data": map[string]any{
			"authorization_url": "https://checkout.paystack.com/" + reference,
			"access_code":       "ac_" + reference,
			"reference":         reference,
		},
	})
	require.NoError(t, err)
	return body
}

func TestCreateInlineSession(t *testing.T) {
	stub := &stubHTTPClient{response: &httpclient.Response{
		StatusCode: 200,
		Body:       initializeBody(t, "pay_abc"),
	}}
	client := newTestClient(t, stub)

	session, err := client.CreateInlineSession(context.Background(), &InitializeRequest{
		Email:       "bursar@school.test",
		AmountMinor: 28500,
		Currency:    "GHS",
		Reference:   "pay_abc",
		CallbackURL: "http://localhost/v1/billing/return",
	})
	require.NoError(t, err)

	assert.Equal(t, "pay_abc", session.Reference)
	assert.Equal(t, "ac_pay_abc", session.AccessCode)
	assert.NotEmpty(t, session.PublicKey)

	// The embedded flow never carries a callback URL
	require.Len(t, stub.requests, 1)
	var sent InitializeRequest
	require.NoError(t, json.Unmarshal(stub.requests[0].Body, &sent))
	assert.Empty(t, sent.CallbackURL)
	assert.Equal(t, int64(28500), sent.AmountMinor)
}

func TestCreateInlineSessionMissingAccessCode(t *testing.T) {
	body, err := json.Marshal(map[string]any{
		"status": true,
		"data":   map[string]any{"reference": "pay_abc"},
	})
	require.NoError(t, err)

	client := newTestClient(t, &stubHTTPClient{response: &httpclient.Response{
		StatusCode: 200,
		Body:       body,
	}})

	_, err = client.CreateInlineSession(context.Background(), &InitializeRequest{Reference: "pay_abc"})
	require.Error(t, err)
	assert.True(t, ierr.IsGateway(err))
}

func TestInitializeRedirect(t *testing.T) {
	stub := &stubHTTPClient{response: &httpclient.Response{
		StatusCode: 200,
		Body:       initializeBody(t, "pay_xyz"),
	}}
	client := newTestClient(t, stub)

	session, err := client.InitializeRedirect(context.Background(), &InitializeRequest{
		Email:       "bursar@school.test",
		AmountMinor: 9500,
		Currency:    "GHS",
		Reference:   "pay_xyz",
	})
	require.NoError(t, err)

	assert.Equal(t, "pay_xyz", session.Reference)
	assert.Equal(t, "https://checkout.paystack.com/pay_xyz", session.AuthorizationURL)

	// An omitted callback URL falls back to the configured one
	require.Len(t, stub.requests, 1)
	var sent InitializeRequest
	require.NoError(t, json.Unmarshal(stub.requests[0].Body, &sent))
	assert.NotEmpty(t, sent.CallbackURL)
}

func TestInitializeRejectedByGateway(t *testing.T) {
	body, err := json.Marshal(map[string]any{
		"status":  false,
		"message": "Invalid key",
	})
	require.NoError(t, err)

	client := newTestClient(t, &stubHTTPClient{response: &httpclient.Response{
		StatusCode: 200,
		Body:       body,
	}})

	_, err = client.InitializeRedirect(context.Background(), &InitializeRequest{Reference: "pay_xyz"})
	require.Error(t, err)
	assert.True(t, ierr.IsGateway(err))
}

func TestVerifyTransaction(t *testing.T) {
	body, err := json.Marshal(map[string]any{
		"status":  true,
		"message": "Verification successful",
		"data": map[string]any{
			"status":    "success",
			"reference": "pay_abc",
			"id":        int64(987654321),
			"amount":    int64(28500),
			"currency":  "GHS",
		},
	})
	require.NoError(t, err)

	stub := &stubHTTPClient{response: &httpclient.Response{StatusCode: 200, Body: body}}
	client := newTestClient(t, stub)

	result, err := client.VerifyTransaction(context.Background(), "pay_abc")
	require.NoError(t, err)

	assert.Equal(t, types.PaymentStatusSuccess, result.Status)
	assert.Equal(t, "pay_abc", result.Reference)
	assert.Equal(t, "987654321", result.GatewayTransactionID)
	assert.Equal(t, int64(28500), result.AmountMinor)
}

func TestVerifyTransactionStatuses(t *testing.T) {
	testCases := []struct {
		gateway  string
		expected types.PaymentStatus
	}{
		{"success", types.PaymentStatusSuccess},
		{"failed", types.PaymentStatusFailed},
		{"abandoned", types.PaymentStatusAbandoned},
		{"ongoing", types.PaymentStatusPending},
		{"queued", types.PaymentStatusPending},
	}

	for _, tc := range testCases {
		body, err := json.Marshal(map[string]any{
			"status": true,
			"data":   map[string]any{"status": tc.gateway, "reference": "pay_abc"},
		})
		require.NoError(t, err)

		client := newTestClient(t, &stubHTTPClient{response: &httpclient.Response{
			StatusCode: 200,
			Body:       body,
		}})

		result, err := client.VerifyTransaction(context.Background(), "pay_abc")
		require.NoError(t, err)
		assert.Equal(t, tc.expected, result.Status, "gateway status %q", tc.gateway)
	}
}

func TestVerifyTransactionRequiresReference(t *testing.T) {
	client := newTestClient(t, &stubHTTPClient{})

	_, err := client.VerifyTransaction(context.Background(), "")
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}
