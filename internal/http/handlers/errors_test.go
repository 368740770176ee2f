package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"campusshuttle/internal/domain"

	"github.com/gin-gonic/gin"
)

func TestRespondDomainErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid stop", domain.InvalidStopError{StopID: "x"}, http.StatusBadRequest},
		{"malformed leg", domain.MalformedLegError{Index: 0, Msg: "bad"}, http.StatusBadRequest},
		{"insufficient balance", domain.InsufficientBalanceError{Balance: "50.00", Required: "80.00"}, http.StatusBadRequest},
		{"duplicate reference", domain.DuplicateReferenceError{Reference: "TOPUP-1"}, http.StatusConflict},
		{"validation", domain.ValidationError{Field: "amount"}, http.StatusBadRequest},
		{"not found", domain.NotFoundError{Resource: "booking"}, http.StatusNotFound},
		{"conflict", domain.ConflictError{Resource: "booking"}, http.StatusConflict},
		{"internal", domain.InternalError{Msg: "boom"}, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			RespondDomainError(c, tc.err)

			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d", w.Code, tc.status)
			}
		})
	}
}

func TestRespondDomainErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	RespondDomainError(c, domain.InternalError{Msg: "dsn user:secret@tcp"})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "secret") {
		t.Fatalf("internal error detail leaked into response: %s", w.Body.String())
	}
}
