package planner

import (
	"hash/fnv"
	"time"

	"campusshuttle/internal/domain/models"
)

// Scorer ranks itineraries; lower is better. The ranking heuristic is a
// pluggable strategy so deployments can weight time, cost and transfers
// differently. The engine's ordering is the authoritative display order.
type Scorer func(Itinerary) float64

const (
	costWeight      = 0.5
	transferPenalty = 10.0
)

// DefaultScorer blends total minutes, cost and a per-transfer penalty.
func DefaultScorer(it Itinerary) float64 {
	cost, _ := it.TotalCost.Float64()
	return float64(it.TotalTime) + costWeight*cost + transferPenalty*float64(it.Transfers())
}

// Crowding estimates the occupancy signal for a route at a point in time,
// in [0,1]. It is deterministic: the same route and departure time always
// produce the same estimate. The base load is derived from the route
// identity; peak windows raise it.
func Crowding(rt models.Route, t time.Time) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(rt.ID))
	base := 0.15 + 0.35*float64(h.Sum32()%1000)/1000.0

	load := base
	if m, ok := peakMultiplier(rt, t); ok && m > 1 {
		load += 0.3 * (m - 1)
	}
	if load > 1 {
		load = 1
	}
	if load < 0 {
		load = 0
	}
	return load
}
