package services

import (
	"context"
	"database/sql"
	"time"

	intconfig "campusshuttle/internal/config"
	"campusshuttle/internal/domain"
	"campusshuttle/internal/domain/models"
	"campusshuttle/internal/repositories"
	"campusshuttle/internal/utils"

	"github.com/shopspring/decimal"
)

// WalletService owns admin-driven wallet mutations and ledger reads. Like
// booking confirmation, every allocation is one transaction over a locked
// student row; the reference acts as an idempotency key.
type WalletService struct {
	WalletRepo  repositories.WalletRepository
	StudentRepo repositories.StudentRepository
	DB          *sql.DB
	Now         func() time.Time
}

func (s WalletService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s WalletService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s WalletService) wallets() repositories.WalletRepository {
	if s.WalletRepo.DB != nil {
		return s.WalletRepo
	}
	return repositories.WalletRepository{DB: s.db()}
}

func (s WalletService) students() repositories.StudentRepository {
	if s.StudentRepo.DB != nil {
		return s.StudentRepo
	}
	return repositories.StudentRepository{DB: s.db()}
}

// AllocationInput is a parsed allocation request.
type AllocationInput struct {
	StudentCode string
	Type        string
	Amount      decimal.Decimal
	Description string
	Reference   string
	ProcessedBy string
}

// Allocate applies a credit, debit or refund to a student's wallet: ledger
// insert plus cached-balance update in one transaction. Replaying the same
// reference with an identical payload is a no-op returning the current
// balance; the same reference with a different payload is rejected.
func (s WalletService) Allocate(ctx context.Context, in AllocationInput) (decimal.Decimal, error) {
	switch in.Type {
	case models.TxCredit, models.TxDebit, models.TxRefund:
	default:
		return decimal.Zero, domain.ValidationError{Field: "type", Msg: "must be credit, debit or refund"}
	}
	if !in.Amount.IsPositive() {
		return decimal.Zero, domain.ValidationError{Field: "amount", Msg: "must be positive"}
	}
	if in.StudentCode == "" {
		return decimal.Zero, domain.ValidationError{Field: "studentCode", Msg: "required"}
	}

	tx, err := s.db().BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, domain.InternalError{Msg: "failed to start transaction", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	studentID, balance, err := repositories.LockBalanceByCode(tx, in.StudentCode)
	if err != nil {
		return decimal.Zero, err
	}

	reference := in.Reference
	if reference == "" {
		reference = utils.NewTransactionReference("ADJ", s.now())
	} else {
		prior, found, err := repositories.FindByReference(tx, reference)
		if err != nil {
			return decimal.Zero, domain.InternalError{Msg: "failed to check reference", Err: err}
		}
		if found {
			if prior.StudentID == studentID && prior.Type == in.Type && prior.Amount.Equal(in.Amount) {
				// Identical replay: already applied, report current state.
				return balance, tx.Commit()
			}
			return decimal.Zero, domain.DuplicateReferenceError{Reference: reference}
		}
	}

	newBalance := balance.Add(in.Amount)
	if in.Type == models.TxDebit {
		if balance.LessThan(in.Amount) {
			return decimal.Zero, domain.InsufficientBalanceError{
				Balance:  utils.FormatPoints(balance),
				Required: utils.FormatPoints(in.Amount),
			}
		}
		newBalance = balance.Sub(in.Amount)
	}

	if _, err := repositories.InsertTransaction(tx, models.WalletTransaction{
		StudentID:   studentID,
		Type:        in.Type,
		Amount:      in.Amount,
		Description: in.Description,
		Reference:   reference,
		ProcessedBy: in.ProcessedBy,
	}); err != nil {
		return decimal.Zero, domain.InternalError{Msg: "failed to record transaction", Err: err}
	}
	if err := repositories.SetBalance(tx, studentID, newBalance); err != nil {
		return decimal.Zero, err
	}

	if err := tx.Commit(); err != nil {
		return decimal.Zero, domain.InternalError{Msg: "failed to commit allocation", Err: err}
	}
	return newBalance, nil
}

// Statement returns the cached balance together with recent ledger rows.
func (s WalletService) Statement(studentID string, limit int) (models.Student, []models.WalletTransaction, error) {
	student, err := s.students().GetByID(studentID)
	if err != nil {
		return models.Student{}, nil, err
	}
	txs, err := s.wallets().ListByStudent(studentID, limit)
	if err != nil {
		return models.Student{}, nil, err
	}
	return student, txs, nil
}

// ReconcileResult reports cached balance vs the ledger sum.
type ReconcileResult struct {
	StudentID     string          `json:"studentId"`
	CachedBalance decimal.Decimal `json:"cachedBalance"`
	LedgerBalance decimal.Decimal `json:"ledgerBalance"`
	Consistent    bool            `json:"consistent"`
}

// Reconcile recomputes the ledger sum for one student. The cached balance
// must always equal it; any drift indicates a bug worth paging over.
func (s WalletService) Reconcile(studentID string) (ReconcileResult, error) {
	student, err := s.students().GetByID(studentID)
	if err != nil {
		return ReconcileResult{}, err
	}
	ledger, err := s.wallets().SumLedger(studentID)
	if err != nil {
		return ReconcileResult{}, err
	}
	return ReconcileResult{
		StudentID:     studentID,
		CachedBalance: student.WalletBalance,
		LedgerBalance: ledger,
		Consistent:    student.WalletBalance.Equal(ledger),
	}, nil
}
