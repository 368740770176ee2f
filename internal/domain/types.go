package domain

// Role values carried in JWT claims.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// RequestContext carries authenticated user info extracted by the auth
// middleware. Handlers receive it explicitly instead of reading globals.
type RequestContext struct {
	UserID    string `json:"userId"`
	StudentID string `json:"studentId,omitempty"`
	Role      string `json:"role"`
}
