package planner

import (
	"fmt"
	"strings"

	"campusshuttle/internal/utils"
)

// Occupancy bands shown to students.
const (
	OccupancyLow    = "Low"
	OccupancyMedium = "Medium"
	OccupancyHigh   = "High"
)

// DisplayOption is a display-ready route option derived from one itinerary.
type DisplayOption struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	FromStop     string `json:"fromStop"`
	ToStop       string `json:"toStop"`
	Duration     int    `json:"duration"` // minutes
	Cost         int64  `json:"cost"`     // rounded points
	Transfers    int    `json:"transfers"`
	Occupancy    string `json:"occupancy"`
	Type         string `json:"type"` // Direct / Transfer
	TransferStop string `json:"transferStop,omitempty"`
	WaitTime     int    `json:"waitTime,omitempty"` // minutes at the transfer
}

// StopNamer resolves stop ids to display names. A miss is tolerated.
type StopNamer interface {
	StopName(id string) (string, bool)
}

// StopDirectory is a map-backed StopNamer.
type StopDirectory map[string]string

func (d StopDirectory) StopName(id string) (string, bool) {
	name, ok := d[id]
	return name, ok
}

// Present maps itineraries to display options, preserving the engine's
// order. A stale directory must not drop an option: unresolved stops fall
// back to their raw identifiers.
func Present(itineraries []Itinerary, dir StopNamer, transferWait int) []DisplayOption {
	out := make([]DisplayOption, 0, len(itineraries))
	for i, it := range itineraries {
		if len(it.Legs) == 0 {
			continue
		}
		names := make([]string, 0, len(it.Legs))
		for _, leg := range it.Legs {
			names = append(names, leg.RouteName)
		}

		opt := DisplayOption{
			ID:        fmt.Sprintf("option_%d", i),
			Name:      strings.Join(names, " + "),
			FromStop:  resolveStop(dir, it.Legs[0].From),
			ToStop:    resolveStop(dir, it.Legs[len(it.Legs)-1].To),
			Duration:  it.TotalTime,
			Cost:      utils.RoundPoints(it.TotalCost),
			Transfers: it.Transfers(),
			Occupancy: OccupancyBand(it.MaxCrowding),
			Type:      "Direct",
		}
		if it.Transfers() > 0 {
			opt.Type = "Transfer"
			opt.TransferStop = resolveStop(dir, it.Legs[0].To)
			opt.WaitTime = transferWait
		}
		out = append(out, opt)
	}
	return out
}

func resolveStop(dir StopNamer, id string) string {
	if dir != nil {
		if name, ok := dir.StopName(id); ok && name != "" {
			return name
		}
	}
	return id
}

// OccupancyBand buckets a crowding estimate for display.
func OccupancyBand(crowding float64) string {
	switch {
	case crowding < 0.33:
		return OccupancyLow
	case crowding < 0.66:
		return OccupancyMedium
	default:
		return OccupancyHigh
	}
}

// Selection tracks the single selected option in a booking session.
// Selecting a new option replaces the previous one.
type Selection struct {
	current *DisplayOption
}

func (s *Selection) Select(opt DisplayOption) {
	s.current = &opt
}

func (s *Selection) Selected() (DisplayOption, bool) {
	if s.current == nil {
		return DisplayOption{}, false
	}
	return *s.current, true
}

func (s *Selection) Clear() {
	s.current = nil
}
