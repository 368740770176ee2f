package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Student mirrors the students table. WalletBalance is a cached copy of the
// ledger sum and must reconcile with it at all times.
type Student struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	StudentCode   string          `json:"studentId"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	WalletBalance decimal.Decimal `json:"walletBalance"`
	CreatedAt     time.Time       `json:"createdAt"`
}
