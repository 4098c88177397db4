// Package session derives the screen a client should show from the last
// successful operation. It holds no state of its own; the SPA routes on the
// screen name returned alongside each auth-changing response.
package session

import "evote-api/internal/domain"

// Screen is a client-side page name.
type Screen string

const (
	ScreenLogin          Screen = "LOGIN"
	ScreenVoterDashboard Screen = "VOTER_DASHBOARD"
	ScreenAdminDashboard Screen = "ADMIN_DASHBOARD"
	ScreenSuccess        Screen = "SUCCESS"
)

// Event is the last successful operation of a session.
type Event string

const (
	EventNone        Event = "none"
	EventAdminLogin  Event = "admin_login"
	EventOTPVerified Event = "otp_verified"
	EventVoteCast    Event = "vote_cast"
	EventLogout      Event = "logout"
)

// Next maps (current user, last event) to the screen the client should render.
func Next(user *domain.User, event Event) Screen {
	if user == nil {
		return ScreenLogin
	}
	switch event {
	case EventAdminLogin:
		return ScreenAdminDashboard
	case EventOTPVerified:
		return ScreenVoterDashboard
	case EventVoteCast:
		return ScreenSuccess
	case EventLogout:
		return ScreenLogin
	}
	// A user with no recorded event falls back to their role's home screen.
	if user.Role == domain.RoleAdmin {
		return ScreenAdminDashboard
	}
	return ScreenVoterDashboard
}
