package dto

import "github.com/shulepay/shulepay/internal/domain/ledger"

// TransactionListResponse is the tenant's payment history, newest first
type TransactionListResponse struct {
	Data  []*ledger.TransactionLedgerEntry `json:"data"`
	Total int                              `json:"total"`
}
