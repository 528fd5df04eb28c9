package paystack

import (
	"time"

	"github.com/shulepay/shulepay/internal/domain/payment"
	"github.com/shulepay/shulepay/internal/types"
)

// InitializeRequest is the shared payload for both transports
type InitializeRequest struct {
	Email       string                   `json:"email"`
	AmountMinor int64                    `json:"amount"`
	Currency    string                   `json:"currency"`
	Reference   string                   `json:"reference"`
	Channels    []types.PaymentChannel   `json:"channels,omitempty"`
	CallbackURL string                   `json:"callback_url,omitempty"`
	Metadata    *payment.GatewayMetadata `json:"metadata,omitempty"`
}

// InlineSession carries what the embedded same-page flow needs to open
type InlineSession struct {
	Reference  string `json:"reference"`
	AccessCode string `json:"access_code"`
	PublicKey  string `json:"public_key"`
}

// RedirectSession carries the hosted checkout URL for the full-page flow
type RedirectSession struct {
	Reference        string `json:"reference"`
	AccessCode       string `json:"access_code"`
	AuthorizationURL string `json:"authorization_url"`
}

// envelope is the gateway's response wrapper
type envelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// initializeData is the inner payload of a transaction initialization.
// The inline flow consumes the access code, the redirect flow the URL.
type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type initializeEnvelope struct {
	envelope
	Data initializeData `json:"data"`
}

type verifyEnvelope struct {
	envelope
	Data struct {
		Status    string                   `json:"status"`
		Reference string                   `json:"reference"`
		ID        int64                    `json:"id"`
		Amount    int64                    `json:"amount"`
		Currency  string                   `json:"currency"`
		PaidAt    *time.Time               `json:"paid_at"`
		Channel   string                   `json:"channel"`
		Metadata  *payment.GatewayMetadata `json:"metadata"`
	} `json:"data"`
}
