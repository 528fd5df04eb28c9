package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"sort"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shulepay/shulepay/internal/api/dto"
	"github.com/shulepay/shulepay/internal/domain/ledger"
	ierr "github.com/shulepay/shulepay/internal/errors"
)

// LedgerService exposes the read-only transaction history and its
// export renditions
type LedgerService interface {
	List(ctx context.Context) (*dto.TransactionListResponse, error)
	// ExportCSV renders the history as a spreadsheet-friendly CSV
	ExportCSV(ctx context.Context) ([]byte, error)
	// ExportJSON renders the history as a JSON document
	ExportJSON(ctx context.Context) ([]byte, error)
}

type ledgerService struct {
	ServiceParams
}

// NewLedgerService creates a new ledger service
func NewLedgerService(params ServiceParams) LedgerService {
	return &ledgerService{ServiceParams: params}
}

func (s *ledgerService) List(ctx context.Context) (*dto.TransactionListResponse, error) {
	entries, err := s.LedgerRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	// The ordering is part of the view contract, so it is enforced here
	// rather than trusted to whatever the backend returns
	sortEntries(entries)

	return &dto.TransactionListResponse{
		Data:  entries,
		Total: len(entries),
	}, nil
}

// sortEntries orders the history newest first: created-at descending,
// paid-at descending as tiebreak
func sortEntries(entries []*ledger.TransactionLedgerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		switch {
		case entries[i].PaidAt == nil:
			return false
		case entries[j].PaidAt == nil:
			return true
		default:
			return entries[i].PaidAt.After(*entries[j].PaidAt)
		}
	})
}

func (s *ledgerService) ExportCSV(ctx context.Context) ([]byte, error) {
	entries, err := s.LedgerRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	sortEntries(entries)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"receipt_number", "paid_at", "plan", "duration_months",
		"amount", "currency", "status", "gateway_reference", "valid_until",
	}
	if err := w.Write(header); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Export could not be generated").
			Mark(ierr.ErrSystem)
	}

	for _, entry := range entries {
		paidAt := ""
		if entry.PaidAt != nil {
			paidAt = entry.PaidAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			entry.ReceiptNumber,
			paidAt,
			entry.Tier.String(),
			strconv.Itoa(entry.DurationMonths),
			entry.Amount.StringFixed(2),
			entry.Currency,
			entry.PaymentStatus.String(),
			entry.GatewayReference,
			entry.NextExpiry.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Export could not be generated").
				Mark(ierr.ErrSystem)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Export could not be generated").
			Mark(ierr.ErrSystem)
	}

	return buf.Bytes(), nil
}

func (s *ledgerService) ExportJSON(ctx context.Context) ([]byte, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(list, "", "  ")
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Export could not be generated").
			Mark(ierr.ErrSystem)
	}
	return data, nil
}
