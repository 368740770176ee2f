package handlers

import (
	"net/http"
	"strings"

	"campusshuttle/internal/domain/models"
	"campusshuttle/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type routeStopRequest struct {
	StopID             string  `json:"stopId"`
	StopOrder          int     `json:"stopOrder"`
	TravelTimeFromPrev int     `json:"travelTimeFromPrevious"`
	DistanceFromPrev   float64 `json:"distanceFromPrevious"`
}

type routeRequest struct {
	Name              string                 `json:"name"`
	Color             string                 `json:"color"`
	BaseFare          decimal.Decimal        `json:"baseFare"`
	EstimatedDuration int                    `json:"estimatedDuration"`
	Stops             []routeStopRequest     `json:"stops"`
	OperatingHours    []models.OperatingHour `json:"operatingHours"`
	PeakHours         []models.PeakHour      `json:"peakHours"`
}

// GET /api/routes
func GetRoutes(c *gin.Context) {
	onlyActive := c.Query("all") != "true"
	routes, err := (repositories.RouteRepository{}).ListRoutes(onlyActive)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list routes", err)
		return
	}
	c.JSON(http.StatusOK, routes)
}

// GET /api/routes/:id
func GetRouteByID(c *gin.Context) {
	route, err := (repositories.RouteRepository{}).GetRoute(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, route)
}

// POST /api/admin/routes
func CreateRoute(c *gin.Context) {
	var req routeRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		RespondError(c, http.StatusBadRequest, "name is required", nil)
		return
	}
	if len(req.Stops) < 2 {
		RespondError(c, http.StatusBadRequest, "a route needs at least two stops", nil)
		return
	}
	// Stop orders must be unique and increase from 1.
	seen := map[int]bool{}
	expected := 1
	for _, rs := range req.Stops {
		if rs.StopID == "" || rs.StopOrder != expected || seen[rs.StopOrder] {
			RespondError(c, http.StatusBadRequest, "stop orders must be unique and increase from 1", nil)
			return
		}
		seen[rs.StopOrder] = true
		expected++
	}

	route := models.Route{
		Name:              req.Name,
		Color:             strings.TrimSpace(req.Color),
		BaseFare:          req.BaseFare,
		EstimatedDuration: req.EstimatedDuration,
		IsActive:          true,
		OperatingHours:    req.OperatingHours,
		PeakHours:         req.PeakHours,
	}
	if route.Color == "" {
		route.Color = "#1e3a5f"
	}
	for _, rs := range req.Stops {
		route.Stops = append(route.Stops, models.RouteStop{
			StopID:             rs.StopID,
			StopOrder:          rs.StopOrder,
			TravelTimeFromPrev: rs.TravelTimeFromPrev,
			DistanceFromPrev:   rs.DistanceFromPrev,
		})
	}

	id, err := (repositories.RouteRepository{}).CreateRoute(route)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to create route", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": id})
}

// DELETE /api/admin/routes/:id deactivates the route.
func DeactivateRoute(c *gin.Context) {
	if err := (repositories.RouteRepository{}).SetActive(c.Param("id"), false); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
