package api

import (
	stdhttp "net/http"

	intconfig "campusshuttle/internal/config"
	"campusshuttle/internal/domain"
	h "campusshuttle/internal/http/handlers"
	"campusshuttle/internal/http/middleware"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	h.Init(env)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.AllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Warnf("failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"message": "route not found",
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	})

	auth := middleware.Auth(h.JWTSecret())
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		api.POST("/auth/login", h.Login)
		api.POST("/auth/register", h.Register)

		// Gateway callback authenticates via signature, not JWT.
		api.POST("/payments/recharge/confirm", h.ConfirmRecharge)

		// Directory and trip planning.
		api.GET("/stops", auth, h.GetStops)
		api.GET("/stops/:id", auth, h.GetStopByID)
		api.GET("/routes", auth, h.GetRoutes)
		api.GET("/routes/optimize", auth, h.OptimizeRoutes)
		api.GET("/routes/options", auth, h.RouteOptions)
		api.GET("/routes/:id", auth, h.GetRouteByID)

		// Student surface.
		student := api.Group("/student", auth)
		student.GET("/wallet", h.GetStudentWallet)
		student.GET("/bookings", h.GetStudentBookings)
		student.POST("/bookings/confirm", h.ConfirmBooking)

		// Bookings shared by students (own) and admins.
		bookings := api.Group("/bookings", auth)
		bookings.GET("/:id", h.GetBookingByID)
		bookings.POST("/:id/cancel", h.CancelBooking)
		bookings.GET("/:id/receipt", h.GetBookingReceipt)

		// Admin surface.
		admin := api.Group("/admin", auth, adminOnly)
		admin.GET("/students", h.GetStudents)
		admin.GET("/bookings", h.GetAllBookings)
		admin.POST("/bookings/:id/complete", h.CompleteBooking)
		admin.POST("/stops", h.CreateStop)
		admin.PUT("/stops/:id", h.UpdateStop)
		admin.DELETE("/stops/:id", h.DeactivateStop)
		admin.POST("/routes", h.CreateRoute)
		admin.DELETE("/routes/:id", h.DeactivateRoute)
		admin.POST("/wallets/allocate", h.AllocateWallet)
		admin.GET("/wallets/:studentId/reconcile", h.ReconcileWallet)
		admin.GET("/analytics/overview", h.AnalyticsOverview)
		admin.GET("/analytics/routes", h.AnalyticsRouteUsage)
		admin.GET("/analytics/bookings/daily", h.AnalyticsDailyBookings)
	}

	return r
}
