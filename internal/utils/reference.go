package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const refAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewBookingReference generates a human-readable booking reference:
// SHB-YYYYMMDD-XXXXXX. Uniqueness is still enforced by the database; callers
// regenerate on collision.
func NewBookingReference(now time.Time) string {
	return fmt.Sprintf("SHB-%s-%s", now.Format("20060102"), randomToken(6))
}

// NewTransactionReference generates an internal ledger reference for
// transactions that have no external idempotency key.
func NewTransactionReference(kind string, now time.Time) string {
	return fmt.Sprintf("%s-%d-%s", kind, now.Unix(), randomToken(8))
}

func randomToken(n int) string {
	max := big.NewInt(int64(len(refAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failure is unrecoverable in practice; fall back
			// to a time-derived index rather than panicking mid-request.
			b[i] = refAlphabet[time.Now().UnixNano()%int64(len(refAlphabet))]
			continue
		}
		b[i] = refAlphabet[idx.Int64()]
	}
	return string(b)
}
