package testutil

import (
	"context"
	"sync"

	"github.com/shulepay/shulepay/internal/domain/payment"
	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/types"
)

// InMemoryPendingPaymentStore implements payment.PendingPaymentRepository
// with one slot per tenant
type InMemoryPendingPaymentStore struct {
	mu      sync.RWMutex
	pending map[string]*payment.PendingPayment
}

// NewInMemoryPendingPaymentStore creates a new in-memory pending payment repository
func NewInMemoryPendingPaymentStore() *InMemoryPendingPaymentStore {
	return &InMemoryPendingPaymentStore{
		pending: make(map[string]*payment.PendingPayment),
	}
}

// Reset drops all stored data between tests. The Clear method is taken
// by the repository interface and only clears the tenant in the context.
func (m *InMemoryPendingPaymentStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = make(map[string]*payment.PendingPayment)
}

func (m *InMemoryPendingPaymentStore) Persist(ctx context.Context, pending *payment.PendingPayment) error {
	if pending == nil {
		return ierr.NewError("pending payment cannot be nil").
			WithHint("Pending payment cannot be nil").
			Mark(ierr.ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *pending
	m.pending[types.GetTenantID(ctx)] = &copied
	return nil
}

func (m *InMemoryPendingPaymentStore) Get(ctx context.Context) (*payment.PendingPayment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.pending[types.GetTenantID(ctx)]
	if !ok {
		return nil, ierr.NewError("no pending payment").
			WithHint("No payment is in progress").
			Mark(ierr.ErrNotFound)
	}

	copied := *stored
	return &copied, nil
}

func (m *InMemoryPendingPaymentStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.pending, types.GetTenantID(ctx))
	return nil
}
