package domain

// Role distinguishes the two session types.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleVoter Role = "VOTER"
)

// User is the ephemeral session identity carried inside a token.
// It is never persisted.
type User struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
