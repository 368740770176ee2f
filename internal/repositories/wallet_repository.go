package repositories

import (
	"database/sql"
	"errors"

	intconfig "campusshuttle/internal/config"
	intdb "campusshuttle/internal/db"
	"campusshuttle/internal/domain/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WalletRepository struct {
	DB *sql.DB
}

func (r WalletRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// InsertTransaction appends one ledger row inside the caller's transaction.
// Ledger rows are immutable; there is no update or delete counterpart.
func InsertTransaction(q intdb.Execer, wt models.WalletTransaction) (string, error) {
	if wt.ID == "" {
		wt.ID = uuid.NewString()
	}
	_, err := q.Exec(
		`INSERT INTO wallet_transactions (id, student_id, type, amount, booking_id, description, reference, processed_by)
		 VALUES (?,?,?,?,?,?,?,?)`,
		wt.ID, wt.StudentID, wt.Type, wt.Amount,
		intdb.NullIfEmpty(wt.BookingID), wt.Description, intdb.NullIfEmpty(wt.Reference), intdb.NullIfEmpty(wt.ProcessedBy),
	)
	return wt.ID, err
}

// FindByReference looks up an earlier ledger row by idempotency key inside
// the caller's transaction.
func FindByReference(q intdb.Execer, reference string) (models.WalletTransaction, bool, error) {
	var (
		wt        models.WalletTransaction
		bookingID sql.NullString
		processed sql.NullString
	)
	err := q.QueryRow(
		`SELECT id, student_id, type, amount, COALESCE(booking_id,''), description, COALESCE(reference,''), COALESCE(processed_by,''), created_at
		 FROM wallet_transactions WHERE reference = ?`, reference,
	).Scan(&wt.ID, &wt.StudentID, &wt.Type, &wt.Amount, &bookingID, &wt.Description, &wt.Reference, &processed, &wt.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.WalletTransaction{}, false, nil
	}
	if err != nil {
		return models.WalletTransaction{}, false, err
	}
	wt.BookingID = intdb.StringOrEmpty(bookingID)
	wt.ProcessedBy = intdb.StringOrEmpty(processed)
	return wt, true, nil
}

func (r WalletRepository) ListByStudent(studentID string, limit int) ([]models.WalletTransaction, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db().Query(
		`SELECT id, student_id, type, amount, COALESCE(booking_id,''), description, COALESCE(reference,''), COALESCE(processed_by,''), created_at
		 FROM wallet_transactions WHERE student_id = ? ORDER BY created_at DESC LIMIT ?`, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.WalletTransaction{}
	for rows.Next() {
		var wt models.WalletTransaction
		if err := rows.Scan(&wt.ID, &wt.StudentID, &wt.Type, &wt.Amount, &wt.BookingID, &wt.Description, &wt.Reference, &wt.ProcessedBy, &wt.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, wt)
	}
	return out, rows.Err()
}

// SumLedger replays the ledger for one student: credits + refunds - debits.
// Used by the reconciliation check against the cached balance.
func (r WalletRepository) SumLedger(studentID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db().QueryRow(
		`SELECT COALESCE(SUM(CASE WHEN type = 'debit' THEN -amount ELSE amount END), 0)
		 FROM wallet_transactions WHERE student_id = ?`, studentID,
	).Scan(&sum)
	return sum, err
}
