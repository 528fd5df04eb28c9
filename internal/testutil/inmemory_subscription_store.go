package testutil

import (
	"context"
	"sync"

	"github.com/shulepay/shulepay/internal/domain/subscription"
	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/types"
)

// InMemorySubscriptionStore implements subscription.Repository
type InMemorySubscriptionStore struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription.Subscription
}

// NewInMemorySubscriptionStore creates a new in-memory subscription repository
func NewInMemorySubscriptionStore() *InMemorySubscriptionStore {
	return &InMemorySubscriptionStore{
		subscriptions: make(map[string]*subscription.Subscription),
	}
}

// Reset drops all stored data between tests
func (m *InMemorySubscriptionStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions = make(map[string]*subscription.Subscription)
}

// Seed installs the subscription for the tenant in the context
func (m *InMemorySubscriptionStore) Seed(ctx context.Context, sub *subscription.Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *sub
	m.subscriptions[types.GetTenantID(ctx)] = &copied
}

func (m *InMemorySubscriptionStore) Get(ctx context.Context) (*subscription.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.subscriptions[types.GetTenantID(ctx)]
	if !ok {
		return nil, ierr.NewError("subscription not found").
			WithHint("No subscription exists for this tenant").
			Mark(ierr.ErrNotFound)
	}

	copied := *stored
	return &copied, nil
}

func (m *InMemorySubscriptionStore) Update(ctx context.Context, sub *subscription.Subscription) error {
	if sub == nil {
		return ierr.NewError("subscription cannot be nil").
			WithHint("Subscription cannot be nil").
			Mark(ierr.ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *sub
	m.subscriptions[types.GetTenantID(ctx)] = &copied
	return nil
}
