package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"evote-api/internal/domain"
)

func TestNext(t *testing.T) {
	admin := &domain.User{Email: "admin@example.com", Role: domain.RoleAdmin}
	voter := &domain.User{Email: "a@b.com", Role: domain.RoleVoter}

	tests := []struct {
		name  string
		user  *domain.User
		event Event
		want  Screen
	}{
		{"no user", nil, EventNone, ScreenLogin},
		{"no user ignores event", nil, EventVoteCast, ScreenLogin},
		{"admin login success", admin, EventAdminLogin, ScreenAdminDashboard},
		{"otp verify success", voter, EventOTPVerified, ScreenVoterDashboard},
		{"vote cast success", voter, EventVoteCast, ScreenSuccess},
		{"logout", admin, EventLogout, ScreenLogin},
		{"admin fallback", admin, EventNone, ScreenAdminDashboard},
		{"voter fallback", voter, EventNone, ScreenVoterDashboard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Next(tt.user, tt.event))
		})
	}
}
