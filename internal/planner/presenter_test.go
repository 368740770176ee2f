package planner

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testItineraries() []Itinerary {
	departure := time.Date(2026, 1, 5, 9, 0, 0, 0, time.Local)
	return []Itinerary{
		{
			Legs: []Leg{
				{RouteID: "route-red", RouteName: "Red Line", From: "gate", To: "dorms", ScheduledTime: departure, Cost: decimal.NewFromInt(10), TravelMinutes: 15},
			},
			TotalTime:   15,
			TotalCost:   decimal.NewFromInt(10),
			MaxCrowding: 0.2,
		},
		{
			Legs: []Leg{
				{RouteID: "route-red", RouteName: "Red Line", From: "gate", To: "library", ScheduledTime: departure, Cost: decimal.NewFromInt(10), TravelMinutes: 10},
				{RouteID: "route-blue", RouteName: "Blue Line", From: "library", To: "dorms", ScheduledTime: departure.Add(15 * time.Minute), Cost: decimal.NewFromInt(4), TravelMinutes: 8},
			},
			TotalTime:   23,
			TotalCost:   decimal.NewFromInt(14),
			MaxCrowding: 0.7,
		},
	}
}

func TestPresentPreservesOrderAndResolvesNames(t *testing.T) {
	dir := StopDirectory{"gate": "Main Gate", "library": "Library", "dorms": "Dormitories"}

	opts := Present(testItineraries(), dir, 5)
	require.Len(t, opts, 2)

	direct := opts[0]
	require.Equal(t, "Red Line", direct.Name)
	require.Equal(t, "Main Gate", direct.FromStop)
	require.Equal(t, "Dormitories", direct.ToStop)
	require.Equal(t, "Direct", direct.Type)
	require.Equal(t, 15, direct.Duration)
	require.EqualValues(t, 10, direct.Cost)
	require.Empty(t, direct.TransferStop)

	transfer := opts[1]
	require.Equal(t, "Red Line + Blue Line", transfer.Name)
	require.Equal(t, "Transfer", transfer.Type)
	require.Equal(t, "Library", transfer.TransferStop)
	require.Equal(t, 5, transfer.WaitTime)
	require.Equal(t, 1, transfer.Transfers)
}

func TestPresentFallsBackToRawIDs(t *testing.T) {
	// A stale directory must not drop options; unresolved stops keep their ids.
	dir := StopDirectory{"gate": "Main Gate"}

	opts := Present(testItineraries(), dir, 5)
	require.Len(t, opts, 2)
	require.Equal(t, "Main Gate", opts[0].FromStop)
	require.Equal(t, "dorms", opts[0].ToStop)
	require.Equal(t, "library", opts[1].TransferStop)
}

func TestPresentNilDirectory(t *testing.T) {
	opts := Present(testItineraries(), nil, 5)
	require.Len(t, opts, 2)
	require.Equal(t, "gate", opts[0].FromStop)
}

func TestOccupancyBands(t *testing.T) {
	require.Equal(t, OccupancyLow, OccupancyBand(0))
	require.Equal(t, OccupancyLow, OccupancyBand(0.32))
	require.Equal(t, OccupancyMedium, OccupancyBand(0.33))
	require.Equal(t, OccupancyMedium, OccupancyBand(0.65))
	require.Equal(t, OccupancyHigh, OccupancyBand(0.66))
	require.Equal(t, OccupancyHigh, OccupancyBand(1))
}

func TestSelectionReplacesPrevious(t *testing.T) {
	var s Selection

	_, ok := s.Selected()
	require.False(t, ok)

	opts := Present(testItineraries(), nil, 5)
	s.Select(opts[0])
	s.Select(opts[1])

	got, ok := s.Selected()
	require.True(t, ok)
	require.Equal(t, opts[1].ID, got.ID)

	s.Clear()
	_, ok = s.Selected()
	require.False(t, ok)
}
