package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet transaction types. Amounts are stored as positive magnitudes; the
// sign is implied by the type. Balance = credits + refunds - debits.
const (
	TxCredit = "credit"
	TxDebit  = "debit"
	TxRefund = "refund"
)

// WalletTransaction is one row of the append-only wallet ledger. Rows are
// never updated or deleted; a refund reverses an earlier debit.
type WalletTransaction struct {
	ID          string          `json:"id"`
	StudentID   string          `json:"studentId"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	BookingID   string          `json:"bookingId,omitempty"`
	Description string          `json:"description"`
	Reference   string          `json:"reference,omitempty"`
	ProcessedBy string          `json:"processedBy,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}
