package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"campusshuttle/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

const (
	testStudentID = "11111111-1111-1111-1111-111111111111"
	testRouteID   = "22222222-2222-2222-2222-222222222222"
	testGateStop  = "33333333-3333-3333-3333-333333333333"
	testDormsStop = "44444444-4444-4444-4444-444444444444"
	testHubStop   = "55555555-5555-5555-5555-555555555555"
)

func fixedNow() time.Time {
	return time.Date(2026, 1, 5, 9, 0, 0, 0, time.Local)
}

func singleLeg(cost int64) []ConfirmLeg {
	return []ConfirmLeg{{
		RouteID:       testRouteID,
		FromStopID:    testGateStop,
		ToStopID:      testDormsStop,
		ScheduledTime: fixedNow(),
		Cost:          decimal.NewFromInt(cost),
	}}
}

func expectLegCheck(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT r\.is_active, f\.stop_order, t\.stop_order`).
		WillReturnRows(sqlmock.NewRows([]string{"is_active", "from_order", "to_order"}).AddRow(true, 1, 3))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM stops`).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(2))
}

func TestConfirmDebitsWalletAtomically(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	expectLegCheck(mock)
	mock.ExpectQuery(`SELECT wallet_balance FROM students WHERE id = \? FOR UPDATE`).
		WithArgs(testStudentID).
		WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow("100.00"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE booking_reference`).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO bookings`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO booking_legs`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO wallet_transactions`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE students SET wallet_balance`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := BookingService{DB: db, Now: fixedNow}
	result, err := svc.Confirm(context.Background(), testStudentID, singleLeg(80), decimal.NewFromInt(80))
	if err != nil {
		t.Fatalf("confirm error: %v", err)
	}

	if !result.NewBalance.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("new balance = %s, want 20", result.NewBalance)
	}
	refPattern := regexp.MustCompile(`^SHB-20260105-[A-Z2-9]{6}$`)
	if !refPattern.MatchString(result.BookingReference) {
		t.Fatalf("booking reference %q does not match SHB-YYYYMMDD-XXXXXX", result.BookingReference)
	}
	if result.BookingID == "" {
		t.Fatalf("expected a booking id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConfirmInsufficientBalanceRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	expectLegCheck(mock)
	mock.ExpectQuery(`SELECT wallet_balance FROM students WHERE id = \? FOR UPDATE`).
		WithArgs(testStudentID).
		WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow("50.00"))
	mock.ExpectRollback()

	svc := BookingService{DB: db, Now: fixedNow}
	_, err = svc.Confirm(context.Background(), testStudentID, singleLeg(80), decimal.NewFromInt(80))
	if !domain.IsInsufficientBalance(err) {
		t.Fatalf("expected insufficient balance error, got %v", err)
	}
	// No inserts and no balance update were expected; the rollback is the
	// only thing left after the failed check.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConfirmRejectsUnchainedLegs(t *testing.T) {
	legs := []ConfirmLeg{
		{RouteID: testRouteID, FromStopID: testGateStop, ToStopID: testHubStop, ScheduledTime: fixedNow(), Cost: decimal.NewFromInt(40)},
		{RouteID: testRouteID, FromStopID: testGateStop, ToStopID: testDormsStop, ScheduledTime: fixedNow(), Cost: decimal.NewFromInt(40)},
	}

	svc := BookingService{Now: fixedNow}
	_, err := svc.Confirm(context.Background(), testStudentID, legs, decimal.NewFromInt(80))
	if !domain.IsMalformedLeg(err) {
		t.Fatalf("expected malformed leg error, got %v", err)
	}
}

func TestConfirmRejectsOpaqueGarbageIDs(t *testing.T) {
	legs := singleLeg(80)
	legs[0].RouteID = "not-a-uuid"

	svc := BookingService{Now: fixedNow}
	_, err := svc.Confirm(context.Background(), testStudentID, legs, decimal.NewFromInt(80))
	if !domain.IsMalformedLeg(err) {
		t.Fatalf("expected malformed leg error, got %v", err)
	}
}

func TestConfirmRejectsTotalCostMismatch(t *testing.T) {
	svc := BookingService{Now: fixedNow}
	_, err := svc.Confirm(context.Background(), testStudentID, singleLeg(80), decimal.NewFromInt(70))
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestConfirmFailsWhenRouteDeactivatedSincePlanning(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT r\.is_active, f\.stop_order, t\.stop_order`).
		WillReturnRows(sqlmock.NewRows([]string{"is_active", "from_order", "to_order"}).AddRow(false, 1, 3))
	mock.ExpectRollback()

	svc := BookingService{DB: db, Now: fixedNow}
	_, err = svc.Confirm(context.Background(), testStudentID, singleLeg(80), decimal.NewFromInt(80))
	if !domain.IsMalformedLeg(err) {
		t.Fatalf("expected malformed leg error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConfirmRegeneratesReferenceOnCollision(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	expectLegCheck(mock)
	mock.ExpectQuery(`SELECT wallet_balance FROM students WHERE id = \? FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow("100.00"))
	// First candidate collides, second is free.
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE booking_reference`).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE booking_reference`).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO bookings`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO booking_legs`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO wallet_transactions`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE students SET wallet_balance`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := BookingService{DB: db, Now: fixedNow}
	if _, err := svc.Confirm(context.Background(), testStudentID, singleLeg(80), decimal.NewFromInt(80)); err != nil {
		t.Fatalf("confirm error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelRefundsFullCost(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	bookingID := "66666666-6666-6666-6666-666666666666"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, student_id, total_cost, status, booking_reference, created_at FROM bookings WHERE id = \? FOR UPDATE`).
		WithArgs(bookingID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "total_cost", "status", "booking_reference", "created_at"}).
			AddRow(bookingID, testStudentID, "30.00", "confirmed", "SHB-20260105-ABCDEF", fixedNow()))
	mock.ExpectExec(`UPDATE bookings SET status = \? WHERE id = \? AND status = \?`).
		WithArgs("cancelled", bookingID, "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE bookings SET cancelled_by`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT wallet_balance FROM students WHERE id = \? FOR UPDATE`).
		WithArgs(testStudentID).
		WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow("20.00"))
	mock.ExpectExec(`INSERT INTO wallet_transactions`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE students SET wallet_balance`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := BookingService{DB: db, Now: fixedNow}
	if err := svc.Cancel(context.Background(), bookingID, "admin-1", "shuttle out of service"); err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelRejectsTerminalBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	bookingID := "66666666-6666-6666-6666-666666666666"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, student_id, total_cost, status, booking_reference, created_at FROM bookings WHERE id = \? FOR UPDATE`).
		WithArgs(bookingID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "total_cost", "status", "booking_reference", "created_at"}).
			AddRow(bookingID, testStudentID, "30.00", "completed", "SHB-20260105-ABCDEF", fixedNow()))
	mock.ExpectRollback()

	svc := BookingService{DB: db, Now: fixedNow}
	err = svc.Cancel(context.Background(), bookingID, "admin-1", "")
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMarkCompletedRequiresConfirmedStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	bookingID := "66666666-6666-6666-6666-666666666666"

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE bookings SET status = \? WHERE id = \? AND status = \?`).
		WithArgs("completed", bookingID, "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT status FROM bookings WHERE id = \?`).
		WithArgs(bookingID).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("cancelled"))
	mock.ExpectRollback()

	svc := BookingService{DB: db, Now: fixedNow}
	err = svc.MarkCompleted(context.Background(), bookingID)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
