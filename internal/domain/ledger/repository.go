package ledger

import "context"

// Repository defines the append-only transaction ledger owned by the
// school backend, scoped to the tenant in the context
type Repository interface {
	Append(ctx context.Context, entry *TransactionLedgerEntry) error
	// List returns entries sorted by CreatedAt descending with PaidAt
	// descending as tiebreak
	List(ctx context.Context) ([]*TransactionLedgerEntry, error)
	// GetByReference returns ErrNotFound when no entry exists for the
	// gateway reference; used to keep payment application idempotent
	GetByReference(ctx context.Context, reference string) (*TransactionLedgerEntry, error)
}
