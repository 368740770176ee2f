package repositories

import (
	"testing"

	"campusshuttle/internal/domain"
	"campusshuttle/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestTransitionStatusMovesConfirmedBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE bookings SET status = \? WHERE id = \? AND status = \?`).
		WithArgs(models.BookingCompleted, "booking-1", models.BookingConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := TransitionStatus(db, "booking-1", models.BookingConfirmed, models.BookingCompleted); err != nil {
		t.Fatalf("transition error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransitionStatusReportsConflictWithCurrentStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE bookings SET status = \? WHERE id = \? AND status = \?`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT status FROM bookings WHERE id = \?`).
		WithArgs("booking-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.BookingCancelled))

	err = TransitionStatus(db, "booking-1", models.BookingConfirmed, models.BookingCompleted)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestTransitionStatusUnknownBookingIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE bookings SET status = \? WHERE id = \? AND status = \?`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT status FROM bookings WHERE id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}))

	err = TransitionStatus(db, "missing", models.BookingConfirmed, models.BookingCompleted)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestReferenceExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE booking_reference = \?`).
		WithArgs("SHB-20260105-ABCDEF").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	exists, err := ReferenceExists(db, "SHB-20260105-ABCDEF")
	if err != nil {
		t.Fatalf("reference check error: %v", err)
	}
	if !exists {
		t.Fatalf("expected the reference to exist")
	}
}
