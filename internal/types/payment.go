package types

import (
	"fmt"

	"github.com/samber/lo"
)

// PaymentStatus represents the gateway status of a payment attempt
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSuccess   PaymentStatus = "success"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusAbandoned PaymentStatus = "abandoned"
)

func (s PaymentStatus) String() string {
	return string(s)
}

// IsTerminalSuccess reports whether the status ends the verification cycle.
// Failed and abandoned payments stay retryable because the gateway keeps
// the reference verifiable.
func (s PaymentStatus) IsTerminalSuccess() bool {
	return s == PaymentStatusSuccess
}

func (s PaymentStatus) Validate() error {
	allowed := []PaymentStatus{
		PaymentStatusPending,
		PaymentStatusSuccess,
		PaymentStatusFailed,
		PaymentStatusAbandoned,
	}
	if !lo.Contains(allowed, s) {
		return fmt.Errorf("invalid payment status: %s", s)
	}
	return nil
}

// TransportKind represents how the gateway interaction is carried:
// an embedded same-page flow or a full-page redirect to hosted checkout
type TransportKind string

const (
	TransportKindInline   TransportKind = "inline"
	TransportKindRedirect TransportKind = "redirect"
)

func (t TransportKind) String() string {
	return string(t)
}

// InlineEvent is a terminal event reported by the embedded payment flow
type InlineEvent string

const (
	InlineEventCompleted InlineEvent = "completed"
	InlineEventCancelled InlineEvent = "cancelled"
)

func (e InlineEvent) Validate() error {
	allowed := []InlineEvent{
		InlineEventCompleted,
		InlineEventCancelled,
	}
	if !lo.Contains(allowed, e) {
		return fmt.Errorf("invalid inline event: %s", e)
	}
	return nil
}
