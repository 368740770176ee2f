package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Route mirrors the routes table plus its ordered stop sequence.
type Route struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Color             string          `json:"color"`
	BaseFare          decimal.Decimal `json:"baseFare"`
	EstimatedDuration int             `json:"estimatedDuration"` // minutes
	IsActive          bool            `json:"isActive"`
	Stops             []RouteStop     `json:"stops,omitempty"`
	OperatingHours    []OperatingHour `json:"operatingHours,omitempty"`
	PeakHours         []PeakHour      `json:"peakHours,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// RouteStop is one entry of a route's stop sequence. StopOrder values are
// unique per route and increase from 1.
type RouteStop struct {
	StopID             string  `json:"stopId"`
	StopOrder          int     `json:"stopOrder"`
	TravelTimeFromPrev int     `json:"travelTimeFromPrevious"` // minutes
	DistanceFromPrev   float64 `json:"distanceFromPrevious"`   // kilometers
}

// OperatingHour is a per-weekday service window. DayOfWeek: 0=Sunday.
type OperatingHour struct {
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"` // HH:MM:SS
	EndTime   string `json:"endTime"`
}

// PeakHour is a fare/crowding window with a multiplier.
type PeakHour struct {
	Name       string  `json:"name"`
	StartTime  string  `json:"startTime"` // HH:MM:SS
	EndTime    string  `json:"endTime"`
	Multiplier float64 `json:"multiplier"`
}
