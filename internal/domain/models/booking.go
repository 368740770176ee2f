package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking status values. Transitions are append-only: confirmed bookings move
// to completed or cancelled and never back.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// Booking mirrors the bookings table. Legs are written once at confirmation
// time; only Status changes afterwards.
type Booking struct {
	ID                 string          `json:"id"`
	StudentID          string          `json:"studentId"`
	Legs               []BookingLeg    `json:"legs"`
	TotalCost          decimal.Decimal `json:"totalCost"`
	Status             string          `json:"status"`
	BookingReference   string          `json:"bookingReference"`
	CancelledBy        string          `json:"cancelledBy,omitempty"`
	CancellationReason string          `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// BookingLeg is one ride segment of a booking.
type BookingLeg struct {
	LegOrder      int             `json:"legOrder"`
	RouteID       string          `json:"routeId"`
	FromStopID    string          `json:"fromStopId"`
	ToStopID      string          `json:"toStopId"`
	ScheduledTime time.Time       `json:"scheduledTime"`
	Cost          decimal.Decimal `json:"cost"`
}
