package payment

import "context"

// PendingPaymentRepository is the durable single-slot store for the
// in-flight payment attempt of the tenant in the context. It survives a
// process restart but is scoped to one client profile: it is a resume
// hint, not a distributed lock. Get returns ErrNotFound when no attempt
// is outstanding.
//
// No component other than the payment services may write through this
// interface.
type PendingPaymentRepository interface {
	Persist(ctx context.Context, pending *PendingPayment) error
	Get(ctx context.Context) (*PendingPayment, error)
	Clear(ctx context.Context) error
}
