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

// BookingService owns the booking lifecycle: the confirmation transaction,
// cancellation with refund, and completion. All wallet mutations happen
// inside a single database transaction with the student row locked, so two
// concurrent bookings cannot both spend the same balance.
type BookingService struct {
	DB  *sql.DB
	Now func() time.Time
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ConfirmLeg is one leg of a confirmation request, already parsed.
type ConfirmLeg struct {
	RouteID       string
	FromStopID    string
	ToStopID      string
	ScheduledTime time.Time
	Cost          decimal.Decimal
}

// ConfirmResult is returned to the caller after commit.
type ConfirmResult struct {
	BookingID        string
	BookingReference string
	NewBalance       decimal.Decimal
}

const maxReferenceAttempts = 5

// Confirm atomically validates the legs and wallet balance, creates the
// booking with its legs, appends the debit ledger row and decrements the
// cached balance. Any failure rolls the whole transaction back: either all
// of it is observable or none of it is.
func (s BookingService) Confirm(ctx context.Context, studentID string, legs []ConfirmLeg, totalCost decimal.Decimal) (ConfirmResult, error) {
	if err := validateLegs(studentID, legs, totalCost); err != nil {
		return ConfirmResult{}, err
	}

	tx, err := s.db().BeginTx(ctx, nil)
	if err != nil {
		return ConfirmResult{}, domain.InternalError{Msg: "failed to start transaction", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	// Feasibility is checked inside the transaction: a route deactivated
	// between plan and confirm fails here instead of producing a booking
	// on a dead route.
	for i, leg := range legs {
		if err := checkLegResolves(tx, i, leg); err != nil {
			return ConfirmResult{}, err
		}
	}

	balance, err := repositories.LockBalance(tx, studentID)
	if err != nil {
		return ConfirmResult{}, err
	}
	if balance.LessThan(totalCost) {
		return ConfirmResult{}, domain.InsufficientBalanceError{
			Balance:  utils.FormatPoints(balance),
			Required: utils.FormatPoints(totalCost),
		}
	}

	reference, err := s.uniqueReference(tx)
	if err != nil {
		return ConfirmResult{}, err
	}

	booking := models.Booking{
		StudentID:        studentID,
		TotalCost:        totalCost,
		Status:           models.BookingConfirmed,
		BookingReference: reference,
	}
	for i, leg := range legs {
		booking.Legs = append(booking.Legs, models.BookingLeg{
			LegOrder:      i + 1,
			RouteID:       leg.RouteID,
			FromStopID:    leg.FromStopID,
			ToStopID:      leg.ToStopID,
			ScheduledTime: leg.ScheduledTime,
			Cost:          leg.Cost,
		})
	}
	bookingID, err := repositories.InsertBooking(tx, booking)
	if err != nil {
		return ConfirmResult{}, domain.InternalError{Msg: "failed to create booking", Err: err}
	}

	if _, err := repositories.InsertTransaction(tx, models.WalletTransaction{
		StudentID:   studentID,
		Type:        models.TxDebit,
		Amount:      totalCost,
		BookingID:   bookingID,
		Description: "Shuttle booking " + reference,
		Reference:   reference,
	}); err != nil {
		return ConfirmResult{}, domain.InternalError{Msg: "failed to record debit", Err: err}
	}

	newBalance := balance.Sub(totalCost)
	if err := repositories.SetBalance(tx, studentID, newBalance); err != nil {
		return ConfirmResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return ConfirmResult{}, domain.InternalError{Msg: "failed to commit booking", Err: err}
	}

	return ConfirmResult{BookingID: bookingID, BookingReference: reference, NewBalance: newBalance}, nil
}

func validateLegs(studentID string, legs []ConfirmLeg, totalCost decimal.Decimal) error {
	if studentID == "" {
		return domain.ValidationError{Field: "studentId", Msg: "required"}
	}
	if len(legs) == 0 {
		return domain.ValidationError{Field: "legs", Msg: "at least one leg required"}
	}
	sum := decimal.Zero
	for i, leg := range legs {
		if !utils.IsUUIDShaped(leg.RouteID) || !utils.IsUUIDShaped(leg.FromStopID) || !utils.IsUUIDShaped(leg.ToStopID) {
			return domain.MalformedLegError{Index: i, Msg: "identifier is not well-formed"}
		}
		if leg.FromStopID == leg.ToStopID {
			return domain.MalformedLegError{Index: i, Msg: "departure and arrival stop are identical"}
		}
		if leg.Cost.IsNegative() {
			return domain.MalformedLegError{Index: i, Msg: "negative cost"}
		}
		if i > 0 && legs[i-1].ToStopID != leg.FromStopID {
			return domain.MalformedLegError{Index: i, Msg: "does not depart from the previous arrival stop"}
		}
		sum = sum.Add(leg.Cost)
	}
	if !sum.Equal(totalCost) {
		return domain.ValidationError{Field: "totalCost", Msg: "does not match the sum of leg costs"}
	}
	return nil
}

// checkLegResolves verifies, inside the transaction, that the leg's route is
// active and serves the stop pair in forward order over active stops.
func checkLegResolves(tx *sql.Tx, index int, leg ConfirmLeg) error {
	var (
		routeActive bool
		fromOrder   int
		toOrder     int
	)
	err := tx.QueryRow(
		`SELECT r.is_active, f.stop_order, t.stop_order
		 FROM routes r
		 JOIN route_stops f ON f.route_id = r.id AND f.stop_id = ?
		 JOIN route_stops t ON t.route_id = r.id AND t.stop_id = ?
		 WHERE r.id = ?`,
		leg.FromStopID, leg.ToStopID, leg.RouteID,
	).Scan(&routeActive, &fromOrder, &toOrder)
	if err == sql.ErrNoRows {
		return domain.MalformedLegError{Index: index, Msg: "route does not serve this stop pair"}
	}
	if err != nil {
		return domain.InternalError{Msg: "failed to validate leg", Err: err}
	}
	if !routeActive {
		return domain.MalformedLegError{Index: index, Msg: "route is no longer active"}
	}
	if fromOrder >= toOrder {
		return domain.MalformedLegError{Index: index, Msg: "route serves these stops in the opposite direction"}
	}

	var activeStops int
	if err := tx.QueryRow(
		`SELECT COUNT(*) FROM stops WHERE id IN (?, ?) AND is_active = 1`,
		leg.FromStopID, leg.ToStopID,
	).Scan(&activeStops); err != nil {
		return domain.InternalError{Msg: "failed to validate stops", Err: err}
	}
	if activeStops != 2 {
		return domain.MalformedLegError{Index: index, Msg: "stop is unknown or inactive"}
	}
	return nil
}

func (s BookingService) uniqueReference(tx *sql.Tx) (string, error) {
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		ref := utils.NewBookingReference(s.now())
		exists, err := repositories.ReferenceExists(tx, ref)
		if err != nil {
			return "", domain.InternalError{Msg: "failed to check booking reference", Err: err}
		}
		if !exists {
			return ref, nil
		}
	}
	return "", domain.InternalError{Msg: "could not generate a unique booking reference"}
}

// Cancel transitions confirmed → cancelled and refunds the full cost in the
// same transaction. Cancellation is terminal: a cancelled booking cannot be
// re-confirmed or completed.
func (s BookingService) Cancel(ctx context.Context, bookingID, actorID, reason string) error {
	if bookingID == "" {
		return domain.ValidationError{Field: "bookingId", Msg: "required"}
	}

	tx, err := s.db().BeginTx(ctx, nil)
	if err != nil {
		return domain.InternalError{Msg: "failed to start transaction", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	booking, err := repositories.GetForUpdate(tx, bookingID)
	if err != nil {
		return err
	}
	if booking.Status != models.BookingConfirmed {
		return domain.ConflictError{Resource: "booking", Msg: "cannot cancel a " + booking.Status + " booking"}
	}

	if err := repositories.TransitionStatus(tx, bookingID, models.BookingConfirmed, models.BookingCancelled); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`UPDATE bookings SET cancelled_by = ?, cancellation_reason = ? WHERE id = ?`,
		actorID, reason, bookingID,
	); err != nil {
		return domain.InternalError{Msg: "failed to record cancellation", Err: err}
	}

	balance, err := repositories.LockBalance(tx, booking.StudentID)
	if err != nil {
		return err
	}
	if _, err := repositories.InsertTransaction(tx, models.WalletTransaction{
		StudentID:   booking.StudentID,
		Type:        models.TxRefund,
		Amount:      booking.TotalCost,
		BookingID:   bookingID,
		Description: "Refund for cancelled booking " + booking.BookingReference,
		Reference:   utils.NewTransactionReference("RFD", s.now()),
		ProcessedBy: actorID,
	}); err != nil {
		return domain.InternalError{Msg: "failed to record refund", Err: err}
	}
	if err := repositories.SetBalance(tx, booking.StudentID, balance.Add(booking.TotalCost)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.InternalError{Msg: "failed to commit cancellation", Err: err}
	}
	return nil
}

// MarkCompleted transitions confirmed → completed. No wallet effect; the
// debit already happened at confirmation time.
func (s BookingService) MarkCompleted(ctx context.Context, bookingID string) error {
	if bookingID == "" {
		return domain.ValidationError{Field: "bookingId", Msg: "required"}
	}

	tx, err := s.db().BeginTx(ctx, nil)
	if err != nil {
		return domain.InternalError{Msg: "failed to start transaction", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	if err := repositories.TransitionStatus(tx, bookingID, models.BookingConfirmed, models.BookingCompleted); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return domain.InternalError{Msg: "failed to commit completion", Err: err}
	}
	return nil
}
