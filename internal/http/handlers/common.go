package handlers

import (
	"net/http"

	intconfig "campusshuttle/internal/config"
	"campusshuttle/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

var (
	jwtSecret     []byte
	gatewaySecret []byte
)

// Init wires handler-level configuration. Called once from the router.
func Init(env intconfig.Env) {
	jwtSecret = []byte(env.JWTSecret)
	gatewaySecret = []byte(env.GatewaySecret)
}

// JWTSecret exposes the configured signing key to the router for the auth
// middleware.
func JWTSecret() []byte {
	return jwtSecret
}

// RespondError sends a standard error payload with request_id included.
func RespondError(c *gin.Context, status int, message string, err error) {
	payload := gin.H{
		"success":    false,
		"message":    message,
		"request_id": middleware.GetRequestID(c),
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures the body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "empty request body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return false
	}
	return true
}
