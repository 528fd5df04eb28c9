package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/shulepay/shulepay/internal/config"
	"github.com/shulepay/shulepay/internal/domain/payment"
	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/types"
)

// pendingPaymentStore is the file-backed single-slot store for the
// in-flight payment attempt. One file per tenant under the profile data
// directory; writes go through a temp file and rename so a crash never
// leaves a half-written hint.
type pendingPaymentStore struct {
	mu  sync.Mutex
	dir string
}

// NewPendingPaymentStore creates the profile-scoped pending payment store
func NewPendingPaymentStore(cfg *config.Configuration) (payment.PendingPaymentRepository, error) {
	dir := cfg.Store.DataDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not create the profile data directory").
			Mark(ierr.ErrSystem)
	}
	return &pendingPaymentStore{dir: dir}, nil
}

func (s *pendingPaymentStore) Persist(ctx context.Context, pending *payment.PendingPayment) error {
	if pending == nil {
		return ierr.NewError("pending payment cannot be nil").
			WithHint("Pending payment cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := pending.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(pending, "", "  ")
	if err != nil {
		return ierr.WithError(err).
			WithHint("Could not encode the pending payment").
			Mark(ierr.ErrSystem)
	}

	path := s.path(pending.TenantID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return ierr.WithError(err).
			WithHint("Could not save the pending payment").
			Mark(ierr.ErrSystem)
	}
	if err := os.Rename(tmp, path); err != nil {
		return ierr.WithError(err).
			WithHint("Could not save the pending payment").
			Mark(ierr.ErrSystem)
	}

	return nil
}

func (s *pendingPaymentStore) Get(ctx context.Context) (*payment.PendingPayment, error) {
	tenantID := types.GetTenantID(ctx)
	if tenantID == "" {
		return nil, ierr.NewError("missing tenant id").
			WithHint("Tenant is required").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(tenantID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ierr.NewError("no pending payment").
				WithHint("No payment is awaiting verification").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Could not read the pending payment").
			Mark(ierr.ErrSystem)
	}

	var pending payment.PendingPayment
	if err := json.Unmarshal(data, &pending); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Stored pending payment is unreadable").
			Mark(ierr.ErrSystem)
	}

	return &pending, nil
}

func (s *pendingPaymentStore) Clear(ctx context.Context) error {
	tenantID := types.GetTenantID(ctx)
	if tenantID == "" {
		return ierr.NewError("missing tenant id").
			WithHint("Tenant is required").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(tenantID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return ierr.WithError(err).
			WithHint("Could not clear the pending payment").
			Mark(ierr.ErrSystem)
	}
	return nil
}

func (s *pendingPaymentStore) path(tenantID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("pending_payment_%s.json", tenantID))
}
