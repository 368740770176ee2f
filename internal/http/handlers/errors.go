package handlers

import (
	"net/http"

	"campusshuttle/internal/domain"
	"campusshuttle/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// RespondDomainError maps domain errors to HTTP responses. Errors are
// reported, never silently recovered; a failed mutation left no partial
// state behind.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsInvalidStop(err):
		respondError(c, http.StatusBadRequest, "invalid_stop", err.Error())
	case domain.IsMalformedLeg(err):
		respondError(c, http.StatusBadRequest, "malformed_leg", err.Error())
	case domain.IsInsufficientBalance(err):
		respondError(c, http.StatusBadRequest, "insufficient_balance", err.Error())
	case domain.IsDuplicateReference(err):
		respondError(c, http.StatusConflict, "duplicate_reference", err.Error())
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error())
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success":    false,
		"code":       code,
		"message":    message,
		"request_id": middleware.GetRequestID(c),
	})
}
