package ledger

import (
	"time"

	"github.com/shulepay/shulepay/internal/types"
	"github.com/shopspring/decimal"
)

// TransactionLedgerEntry is the append-only historical record of one
// completed payment. Entries are never mutated after creation.
type TransactionLedgerEntry struct {
	ID                   string              `json:"id"`
	ReceiptNumber        string              `json:"receipt_number"`
	Tier                 types.PlanTier      `json:"tier"`
	Amount               decimal.Decimal     `json:"amount"`
	Currency             string              `json:"currency"`
	DurationMonths       int                 `json:"duration_months"`
	PaymentStatus        types.PaymentStatus `json:"payment_status"`
	GatewayReference     string              `json:"gateway_reference"`
	GatewayTransactionID string              `json:"gateway_transaction_id"`
	PaidAt               *time.Time          `json:"paid_at,omitempty"`
	NextExpiry           time.Time           `json:"next_expiry"`

	types.BaseModel
}
