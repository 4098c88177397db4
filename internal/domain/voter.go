package domain

// Voter is one registry record, keyed by email (case-sensitive).
// OTP is present only between registration and a successful vote;
// HasVoted=true is terminal for the email.
type Voter struct {
	Email    string `json:"email"`
	HasVoted bool   `json:"hasVoted"`
	OTP      string `json:"otp,omitempty"`
}

// VoteSelection maps each department to the chosen candidate id.
// It is built client-side and submitted as one unit; it is never persisted.
type VoteSelection map[Department]string
