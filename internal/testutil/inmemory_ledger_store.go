package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/shulepay/shulepay/internal/domain/ledger"
	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/types"
)

// InMemoryLedgerStore implements ledger.Repository
type InMemoryLedgerStore struct {
	mu      sync.RWMutex
	entries map[string][]*ledger.TransactionLedgerEntry
}

// NewInMemoryLedgerStore creates a new in-memory transaction ledger
func NewInMemoryLedgerStore() *InMemoryLedgerStore {
	return &InMemoryLedgerStore{
		entries: make(map[string][]*ledger.TransactionLedgerEntry),
	}
}

// Reset drops all stored data between tests
func (m *InMemoryLedgerStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string][]*ledger.TransactionLedgerEntry)
}

func (m *InMemoryLedgerStore) Append(ctx context.Context, entry *ledger.TransactionLedgerEntry) error {
	if entry == nil {
		return ierr.NewError("ledger entry cannot be nil").
			WithHint("Ledger entry cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if entry.ID == "" {
		return ierr.NewError("ledger entry ID cannot be empty").
			WithHint("Ledger entry ID cannot be empty").
			Mark(ierr.ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tenantID := types.GetTenantID(ctx)
	copied := *entry
	m.entries[tenantID] = append(m.entries[tenantID], &copied)
	return nil
}

func (m *InMemoryLedgerStore) List(ctx context.Context) ([]*ledger.TransactionLedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored := m.entries[types.GetTenantID(ctx)]
	result := make([]*ledger.TransactionLedgerEntry, 0, len(stored))
	for _, entry := range stored {
		copied := *entry
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		if result[i].PaidAt != nil && result[j].PaidAt != nil {
			return result[i].PaidAt.After(*result[j].PaidAt)
		}
		return result[i].ID > result[j].ID
	})

	return result, nil
}

func (m *InMemoryLedgerStore) GetByReference(ctx context.Context, reference string) (*ledger.TransactionLedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, entry := range m.entries[types.GetTenantID(ctx)] {
		if entry.GatewayReference == reference {
			copied := *entry
			return &copied, nil
		}
	}

	return nil, ierr.NewError("transaction not found").
		WithHint("No transaction exists for this reference").
		WithReportableDetails(map[string]any{
			"reference": reference,
		}).
		Mark(ierr.ErrNotFound)
}
