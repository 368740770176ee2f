package handlers

import (
	"net/http"

	"campusshuttle/internal/domain"
	"campusshuttle/internal/http/middleware"
	"campusshuttle/internal/repositories"
	"campusshuttle/internal/services"
	"campusshuttle/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type confirmLegRequest struct {
	RouteID       string          `json:"routeId"`
	FromStopID    string          `json:"fromStopId"`
	ToStopID      string          `json:"toStopId"`
	ScheduledTime string          `json:"scheduledTime"`
	Cost          decimal.Decimal `json:"cost"`
}

type confirmRequest struct {
	StudentID string              `json:"studentId"`
	Legs      []confirmLegRequest `json:"legs"`
	TotalCost decimal.Decimal     `json:"totalCost"`
}

// POST /api/student/bookings/confirm
// A failed confirmation leaves no booking, no ledger row and no balance
// change behind; only a 2xx with success=true means anything was written.
func ConfirmBooking(c *gin.Context) {
	var req confirmRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	rc, _ := middleware.GetRequestContext(c)
	if rc.Role == domain.RoleStudent && rc.StudentID != "" && rc.StudentID != req.StudentID {
		RespondError(c, http.StatusForbidden, "cannot book for another student", nil)
		return
	}

	legs := make([]services.ConfirmLeg, 0, len(req.Legs))
	for i, leg := range req.Legs {
		scheduled, err := utils.ParseISO(leg.ScheduledTime)
		if err != nil {
			RespondDomainError(c, domain.MalformedLegError{Index: i, Msg: "scheduledTime must be ISO-8601 with seconds precision"})
			return
		}
		legs = append(legs, services.ConfirmLeg{
			RouteID:       leg.RouteID,
			FromStopID:    leg.FromStopID,
			ToStopID:      leg.ToStopID,
			ScheduledTime: scheduled,
			Cost:          leg.Cost,
		})
	}

	result, err := (services.BookingService{}).Confirm(c.Request.Context(), req.StudentID, legs, req.TotalCost)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"bookingReference": result.BookingReference,
		"bookingId":        result.BookingID,
		"newBalance":       result.NewBalance,
	})
}

// GET /api/student/bookings — booking history for the authenticated student.
func GetStudentBookings(c *gin.Context) {
	rc, ok := middleware.GetRequestContext(c)
	if !ok || rc.StudentID == "" {
		RespondError(c, http.StatusUnauthorized, "student context required", nil)
		return
	}
	bookings, err := (repositories.BookingRepository{}).ListByStudent(rc.StudentID, 50)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list bookings", err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GET /api/bookings/:id
func GetBookingByID(c *gin.Context) {
	booking, err := (repositories.BookingRepository{}).GetByID(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	rc, _ := middleware.GetRequestContext(c)
	if rc.Role == domain.RoleStudent && rc.StudentID != booking.StudentID {
		RespondError(c, http.StatusForbidden, "not your booking", nil)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// GET /api/admin/bookings
func GetAllBookings(c *gin.Context) {
	bookings, err := (repositories.BookingRepository{}).ListAll(200)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list bookings", err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// POST /api/bookings/:id/cancel — refunds the full cost atomically.
func CancelBooking(c *gin.Context) {
	var req cancelRequest
	_ = c.ShouldBindJSON(&req) // reason is optional

	rc, _ := middleware.GetRequestContext(c)
	if rc.Role == domain.RoleStudent {
		booking, err := (repositories.BookingRepository{}).GetByID(c.Param("id"))
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		if booking.StudentID != rc.StudentID {
			RespondError(c, http.StatusForbidden, "not your booking", nil)
			return
		}
	}

	if err := (services.BookingService{}).Cancel(c.Request.Context(), c.Param("id"), rc.UserID, req.Reason); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// POST /api/admin/bookings/:id/complete
func CompleteBooking(c *gin.Context) {
	if err := (services.BookingService{}).MarkCompleted(c.Request.Context(), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/bookings/:id/receipt — PDF download.
func GetBookingReceipt(c *gin.Context) {
	booking, err := (repositories.BookingRepository{}).GetByID(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	rc, _ := middleware.GetRequestContext(c)
	if rc.Role == domain.RoleStudent && rc.StudentID != booking.StudentID {
		RespondError(c, http.StatusForbidden, "not your booking", nil)
		return
	}

	pdf, filename, err := (services.DocsService{}).GenerateReceipt(booking.ID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to render receipt", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
