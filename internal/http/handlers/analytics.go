package handlers

import (
	"net/http"
	"strconv"

	"campusshuttle/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/admin/analytics/overview
func AnalyticsOverview(c *gin.Context) {
	overview, err := (services.AnalyticsService{}).Overview()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to compute overview", err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// GET /api/admin/analytics/routes?days=30
func AnalyticsRouteUsage(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	usage, err := (services.AnalyticsService{}).RouteUsage(days)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to compute route usage", err)
		return
	}
	c.JSON(http.StatusOK, usage)
}

// GET /api/admin/analytics/bookings/daily?days=14
func AnalyticsDailyBookings(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "14"))
	daily, err := (services.AnalyticsService{}).DailyBookings(days)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to compute daily bookings", err)
		return
	}
	c.JSON(http.StatusOK, daily)
}
