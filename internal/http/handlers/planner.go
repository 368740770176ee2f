package handlers

import (
	"net/http"
	"time"

	"campusshuttle/internal/planner"
	"campusshuttle/internal/services"
	"campusshuttle/internal/utils"

	"github.com/gin-gonic/gin"
)

// wireLeg and wireItinerary are the optimize endpoint's wire shapes. The
// frontend maps them verbatim, so field names are snake_case.
type wireLeg struct {
	RouteID       string  `json:"route_id"`
	RouteName     string  `json:"route_name"`
	From          string  `json:"from"`
	To            string  `json:"to"`
	ScheduledTime string  `json:"scheduled_time,omitempty"`
	Cost          float64 `json:"cost"`
}

type wireItinerary struct {
	Legs        []wireLeg `json:"legs"`
	TotalTime   int       `json:"total_time"`
	TotalCost   float64   `json:"total_cost"`
	MaxCrowding float64   `json:"max_crowding"`
}

// GET /api/routes/optimize?start_stop_id=&end_stop_id=&departure_time=
// Pure query: nothing is reserved, nothing is debited. The result is a
// snapshot re-validated at confirmation time.
func OptimizeRoutes(c *gin.Context) {
	startID := c.Query("start_stop_id")
	endID := c.Query("end_stop_id")
	if startID == "" || endID == "" {
		RespondError(c, http.StatusBadRequest, "start_stop_id and end_stop_id are required", nil)
		return
	}

	departure := time.Now()
	if raw := c.Query("departure_time"); raw != "" {
		parsed, err := utils.ParseISO(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "departure_time must be ISO-8601 with seconds precision", err)
			return
		}
		departure = parsed
	}

	itineraries, err := (services.PlannerService{}).Plan(startID, endID, departure)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	out := make([]wireItinerary, 0, len(itineraries))
	for _, it := range itineraries {
		wi := wireItinerary{
			TotalTime:   it.TotalTime,
			MaxCrowding: it.MaxCrowding,
		}
		wi.TotalCost, _ = it.TotalCost.Float64()
		for _, leg := range it.Legs {
			cost, _ := leg.Cost.Float64()
			wi.Legs = append(wi.Legs, wireLeg{
				RouteID:       leg.RouteID,
				RouteName:     leg.RouteName,
				From:          leg.From,
				To:            leg.To,
				ScheduledTime: utils.FormatISO(leg.ScheduledTime),
				Cost:          cost,
			})
		}
		out = append(out, wi)
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/routes/options — the same search returned as display-ready
// options with resolved stop names and occupancy bands.
func RouteOptions(c *gin.Context) {
	startID := c.Query("start_stop_id")
	endID := c.Query("end_stop_id")
	if startID == "" || endID == "" {
		RespondError(c, http.StatusBadRequest, "start_stop_id and end_stop_id are required", nil)
		return
	}

	departure := time.Now()
	if raw := c.Query("departure_time"); raw != "" {
		parsed, err := utils.ParseISO(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "departure_time must be ISO-8601 with seconds precision", err)
			return
		}
		departure = parsed
	}

	svc := services.PlannerService{}
	itineraries, err := svc.Plan(startID, endID, departure)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	dir, err := svc.StopDirectory()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to load stop directory", err)
		return
	}
	c.JSON(http.StatusOK, planner.Present(itineraries, dir, 5))
}
