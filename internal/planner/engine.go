// Package planner computes candidate itineraries between two stops over the
// active route network. It is a pure query layer: nothing here reserves
// capacity or touches the wallet, so a returned itinerary is a snapshot and
// is re-validated at confirmation time.
package planner

import (
	"sort"
	"time"

	"campusshuttle/internal/domain"
	"campusshuttle/internal/domain/models"
	"campusshuttle/internal/utils"

	"github.com/shopspring/decimal"
)

// Leg is one uninterrupted ride on a single route between two stops.
type Leg struct {
	RouteID       string
	RouteName     string
	From          string
	To            string
	ScheduledTime time.Time
	Cost          decimal.Decimal
	TravelMinutes int
}

// Itinerary is a complete candidate journey. Adjacent legs chain: the
// arrival stop of one leg is the departure stop of the next.
type Itinerary struct {
	Legs        []Leg
	TotalTime   int // minutes, includes transfer waits
	TotalCost   decimal.Decimal
	MaxCrowding float64
}

// Transfers returns the number of transfer points.
func (it Itinerary) Transfers() int {
	if len(it.Legs) == 0 {
		return 0
	}
	return len(it.Legs) - 1
}

// Network is the snapshot the engine searches over.
type Network struct {
	Stops  map[string]models.Stop
	Routes []models.Route
}

// Engine searches the network for direct and single-transfer itineraries.
type Engine struct {
	Network      Network
	Scorer       Scorer
	MaxResults   int
	TransferWait int // minutes added per transfer
}

const (
	defaultMaxResults   = 5
	defaultTransferWait = 5
)

// Plan returns itineraries from origin to destination around the given
// departure time, best first per the blended score. No feasible route is an
// empty result, not an error.
func (e Engine) Plan(originStopID, destinationStopID string, departure time.Time) ([]Itinerary, error) {
	if originStopID == destinationStopID {
		return nil, domain.InvalidStopError{Msg: "origin and destination must differ"}
	}
	if err := e.checkStop(originStopID); err != nil {
		return nil, err
	}
	if err := e.checkStop(destinationStopID); err != nil {
		return nil, err
	}

	wait := e.TransferWait
	if wait <= 0 {
		wait = defaultTransferWait
	}

	itineraries := e.directItineraries(originStopID, destinationStopID, departure)
	itineraries = append(itineraries, e.transferItineraries(originStopID, destinationStopID, departure, wait)...)

	scorer := e.Scorer
	if scorer == nil {
		scorer = DefaultScorer
	}
	sort.SliceStable(itineraries, func(i, j int) bool {
		return scorer(itineraries[i]) < scorer(itineraries[j])
	})

	max := e.MaxResults
	if max <= 0 {
		max = defaultMaxResults
	}
	if len(itineraries) > max {
		itineraries = itineraries[:max]
	}
	return itineraries, nil
}

func (e Engine) checkStop(stopID string) error {
	stop, ok := e.Network.Stops[stopID]
	if !ok {
		return domain.InvalidStopError{StopID: stopID, Msg: "unknown stop " + stopID}
	}
	if !stop.IsActive {
		return domain.InvalidStopError{StopID: stopID, Msg: "stop " + stop.Name + " is inactive"}
	}
	return nil
}

func (e Engine) directItineraries(origin, destination string, departure time.Time) []Itinerary {
	out := []Itinerary{}
	for _, rt := range e.Network.Routes {
		leg, ok := e.buildLeg(rt, origin, destination, departure)
		if !ok {
			continue
		}
		out = append(out, Itinerary{
			Legs:        []Leg{leg},
			TotalTime:   leg.TravelMinutes,
			TotalCost:   leg.Cost,
			MaxCrowding: Crowding(rt, departure),
		})
	}
	return out
}

func (e Engine) transferItineraries(origin, destination string, departure time.Time, wait int) []Itinerary {
	out := []Itinerary{}
	for _, first := range e.Network.Routes {
		for _, hub := range first.Stops {
			x := hub.StopID
			if x == origin || x == destination {
				continue
			}
			firstLeg, ok := e.buildLeg(first, origin, x, departure)
			if !ok {
				continue
			}
			for _, second := range e.Network.Routes {
				if second.ID == first.ID {
					continue
				}
				secondDeparture := departure.Add(time.Duration(firstLeg.TravelMinutes+wait) * time.Minute)
				secondLeg, ok := e.buildLeg(second, x, destination, secondDeparture)
				if !ok {
					continue
				}
				crowding := Crowding(first, departure)
				if c := Crowding(second, secondDeparture); c > crowding {
					crowding = c
				}
				out = append(out, Itinerary{
					Legs:        []Leg{firstLeg, secondLeg},
					TotalTime:   firstLeg.TravelMinutes + wait + secondLeg.TravelMinutes,
					TotalCost:   firstLeg.Cost.Add(secondLeg.Cost),
					MaxCrowding: crowding,
				})
			}
		}
	}
	return out
}

// buildLeg returns a leg on rt from→to when the route serves that stop pair
// in forward order and is operating at the departure time.
func (e Engine) buildLeg(rt models.Route, from, to string, departure time.Time) (Leg, bool) {
	minutes, ok := segmentMinutes(rt, from, to)
	if !ok {
		return Leg{}, false
	}
	if !operatingAt(rt, departure) {
		return Leg{}, false
	}
	return Leg{
		RouteID:       rt.ID,
		RouteName:     rt.Name,
		From:          from,
		To:            to,
		ScheduledTime: departure,
		Cost:          LegFare(rt, departure),
		TravelMinutes: minutes,
	}, true
}

// segmentMinutes sums per-segment travel times between from and to along the
// route's stop order. Returns false when the pair is not served forward.
func segmentMinutes(rt models.Route, from, to string) (int, bool) {
	fromOrder, toOrder := -1, -1
	for _, rs := range rt.Stops {
		switch rs.StopID {
		case from:
			fromOrder = rs.StopOrder
		case to:
			toOrder = rs.StopOrder
		}
	}
	if fromOrder <= 0 || toOrder <= 0 || fromOrder >= toOrder {
		return 0, false
	}
	minutes := 0
	for _, rs := range rt.Stops {
		if rs.StopOrder > fromOrder && rs.StopOrder <= toOrder {
			minutes += rs.TravelTimeFromPrev
		}
	}
	return minutes, true
}

// operatingAt reports whether the route is in service at t. A route without
// configured hours runs all day.
func operatingAt(rt models.Route, t time.Time) bool {
	if len(rt.OperatingHours) == 0 {
		return true
	}
	day := int(t.In(time.Local).Weekday())
	minute := utils.MinutesOfDay(t)
	for _, oh := range rt.OperatingHours {
		if oh.DayOfWeek != day {
			continue
		}
		start, okS := utils.ParseClock(oh.StartTime)
		end, okE := utils.ParseClock(oh.EndTime)
		if okS && okE && minute >= start && minute <= end {
			return true
		}
	}
	return false
}

// LegFare is the route base fare with the peak multiplier applied when the
// departure falls inside a peak window.
func LegFare(rt models.Route, departure time.Time) decimal.Decimal {
	if m, ok := peakMultiplier(rt, departure); ok {
		return rt.BaseFare.Mul(decimal.NewFromFloat(m)).Round(2)
	}
	return rt.BaseFare
}

func peakMultiplier(rt models.Route, t time.Time) (float64, bool) {
	minute := utils.MinutesOfDay(t)
	for _, ph := range rt.PeakHours {
		start, okS := utils.ParseClock(ph.StartTime)
		end, okE := utils.ParseClock(ph.EndTime)
		if okS && okE && minute >= start && minute <= end && ph.Multiplier > 0 {
			return ph.Multiplier, true
		}
	}
	return 1, false
}
