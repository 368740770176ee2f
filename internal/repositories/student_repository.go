package repositories

import (
	"database/sql"
	"errors"

	intconfig "campusshuttle/internal/config"
	intdb "campusshuttle/internal/db"
	"campusshuttle/internal/domain"
	"campusshuttle/internal/domain/models"

	"github.com/shopspring/decimal"
)

type StudentRepository struct {
	DB *sql.DB
}

func (r StudentRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const studentColumns = `s.id, s.user_id, s.student_code, s.wallet_balance, s.created_at, u.name, u.email`

func scanStudent(row *sql.Row) (models.Student, error) {
	var st models.Student
	err := row.Scan(&st.ID, &st.UserID, &st.StudentCode, &st.WalletBalance, &st.CreatedAt, &st.Name, &st.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Student{}, domain.NotFoundError{Resource: "student"}
	}
	return st, err
}

func (r StudentRepository) GetByID(id string) (models.Student, error) {
	return scanStudent(r.db().QueryRow(
		`SELECT `+studentColumns+` FROM students s JOIN users u ON u.id = s.user_id WHERE s.id = ?`, id))
}

func (r StudentRepository) GetByCode(code string) (models.Student, error) {
	return scanStudent(r.db().QueryRow(
		`SELECT `+studentColumns+` FROM students s JOIN users u ON u.id = s.user_id WHERE s.student_code = ?`, code))
}

func (r StudentRepository) GetByUserID(userID string) (models.Student, error) {
	return scanStudent(r.db().QueryRow(
		`SELECT `+studentColumns+` FROM students s JOIN users u ON u.id = s.user_id WHERE s.user_id = ?`, userID))
}

func (r StudentRepository) List() ([]models.Student, error) {
	rows, err := r.db().Query(
		`SELECT ` + studentColumns + ` FROM students s JOIN users u ON u.id = s.user_id ORDER BY s.student_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Student{}
	for rows.Next() {
		var st models.Student
		if err := rows.Scan(&st.ID, &st.UserID, &st.StudentCode, &st.WalletBalance, &st.CreatedAt, &st.Name, &st.Email); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// LockBalance re-reads the wallet balance under a row lock. Every balance
// check inside a mutation must go through this so two concurrent debits
// cannot both pass against a stale read.
func LockBalance(q intdb.Execer, studentID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := q.QueryRow(`SELECT wallet_balance FROM students WHERE id = ? FOR UPDATE`, studentID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, domain.NotFoundError{Resource: "student"}
	}
	return balance, err
}

// LockBalanceByCode is LockBalance keyed by the human-readable student code.
// It returns the internal id alongside the balance.
func LockBalanceByCode(q intdb.Execer, studentCode string) (string, decimal.Decimal, error) {
	var (
		id      string
		balance decimal.Decimal
	)
	err := q.QueryRow(`SELECT id, wallet_balance FROM students WHERE student_code = ? FOR UPDATE`, studentCode).Scan(&id, &balance)
	if errors.Is(err, sql.ErrNoRows) {
		return "", decimal.Zero, domain.NotFoundError{Resource: "student"}
	}
	return id, balance, err
}

// SetBalance writes the cached wallet balance inside the caller's
// transaction.
func SetBalance(q intdb.Execer, studentID string, balance decimal.Decimal) error {
	res, err := q.Exec(`UPDATE students SET wallet_balance = ? WHERE id = ?`, balance, studentID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "student"}
	}
	return nil
}
