package repositories

import (
	"database/sql"
	"errors"

	intconfig "campusshuttle/internal/config"
	intdb "campusshuttle/internal/db"
	"campusshuttle/internal/domain"
	"campusshuttle/internal/domain/models"

	"github.com/google/uuid"
)

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// InsertBooking writes the booking row and its legs inside the caller's
// transaction. Legs never change after this insert; only status does.
func InsertBooking(q intdb.Execer, b models.Booking) (string, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if _, err := q.Exec(
		`INSERT INTO bookings (id, student_id, total_cost, status, booking_reference) VALUES (?,?,?,?,?)`,
		b.ID, b.StudentID, b.TotalCost, b.Status, b.BookingReference,
	); err != nil {
		return "", err
	}
	for _, leg := range b.Legs {
		if _, err := q.Exec(
			`INSERT INTO booking_legs (id, booking_id, leg_order, route_id, from_stop_id, to_stop_id, scheduled_time, cost)
			 VALUES (?,?,?,?,?,?,?,?)`,
			uuid.NewString(), b.ID, leg.LegOrder, leg.RouteID, leg.FromStopID, leg.ToStopID, leg.ScheduledTime, leg.Cost,
		); err != nil {
			return "", err
		}
	}
	return b.ID, nil
}

// ReferenceExists checks a candidate booking reference inside the caller's
// transaction before it is committed.
func ReferenceExists(q intdb.Execer, reference string) (bool, error) {
	var n int
	if err := q.QueryRow(`SELECT COUNT(*) FROM bookings WHERE booking_reference = ?`, reference).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// TransitionStatus moves a booking from one status to another. The WHERE
// clause carries the expected current status, so a terminal booking reports
// a conflict instead of being rewritten.
func TransitionStatus(q intdb.Execer, bookingID, fromStatus, toStatus string) error {
	res, err := q.Exec(`UPDATE bookings SET status = ? WHERE id = ? AND status = ?`, toStatus, bookingID, fromStatus)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var current string
		err := q.QueryRow(`SELECT status FROM bookings WHERE id = ?`, bookingID).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "booking"}
		}
		if err != nil {
			return err
		}
		return domain.ConflictError{Resource: "booking", Msg: "status is " + current + ", expected " + fromStatus}
	}
	return nil
}

// GetForUpdate loads a booking (without legs) under a row lock.
func GetForUpdate(q intdb.Execer, bookingID string) (models.Booking, error) {
	var b models.Booking
	err := q.QueryRow(
		`SELECT id, student_id, total_cost, status, booking_reference, created_at FROM bookings WHERE id = ? FOR UPDATE`,
		bookingID,
	).Scan(&b.ID, &b.StudentID, &b.TotalCost, &b.Status, &b.BookingReference, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	return b, err
}

func (r BookingRepository) GetByID(id string) (models.Booking, error) {
	var b models.Booking
	err := r.db().QueryRow(
		`SELECT id, student_id, total_cost, status, booking_reference,
		        COALESCE(cancelled_by,''), COALESCE(cancellation_reason,''), created_at
		 FROM bookings WHERE id = ?`, id,
	).Scan(&b.ID, &b.StudentID, &b.TotalCost, &b.Status, &b.BookingReference, &b.CancelledBy, &b.CancellationReason, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	if err != nil {
		return models.Booking{}, err
	}

	b.Legs, err = r.legs(id)
	return b, err
}

func (r BookingRepository) legs(bookingID string) ([]models.BookingLeg, error) {
	rows, err := r.db().Query(
		`SELECT leg_order, route_id, from_stop_id, to_stop_id, scheduled_time, cost
		 FROM booking_legs WHERE booking_id = ? ORDER BY leg_order`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.BookingLeg{}
	for rows.Next() {
		var leg models.BookingLeg
		if err := rows.Scan(&leg.LegOrder, &leg.RouteID, &leg.FromStopID, &leg.ToStopID, &leg.ScheduledTime, &leg.Cost); err != nil {
			return nil, err
		}
		out = append(out, leg)
	}
	return out, rows.Err()
}

func (r BookingRepository) ListByStudent(studentID string, limit int) ([]models.Booking, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db().Query(
		`SELECT id, student_id, total_cost, status, booking_reference, created_at
		 FROM bookings WHERE student_id = ? ORDER BY created_at DESC LIMIT ?`, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.StudentID, &b.TotalCost, &b.Status, &b.BookingReference, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Legs, err = r.legs(out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r BookingRepository) ListAll(limit int) ([]models.Booking, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.db().Query(
		`SELECT id, student_id, total_cost, status, booking_reference, created_at
		 FROM bookings ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.StudentID, &b.TotalCost, &b.Status, &b.BookingReference, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
