package service

import (
	"context"

	"evote-api/internal/domain"
)

// AuthService mints and validates session tokens for both roles.
type AuthService interface {
	// IssueToken creates a signed session token for the user.
	IssueToken(user *domain.User) (string, error)

	// ValidateToken verifies a session token and returns the user it carries.
	ValidateToken(ctx context.Context, token string) (*domain.User, error)
}

// OTPDeliverer carries a one-time code to the voter through an out-of-band
// channel. Production wires email; the default implementation logs the code
// the way the original demo surfaced it in a toast.
type OTPDeliverer interface {
	Deliver(ctx context.Context, email, code string) error
}

// TextGenerator is the optional AI collaborator. Both methods return a
// human-readable fallback string instead of failing, so a dead API key never
// blocks the admin workflow.
type TextGenerator interface {
	GenerateBio(ctx context.Context, name string, department domain.Department) string
	AnalyzeResults(ctx context.Context, candidates []domain.Candidate) string
}
