package domain

import "errors"

// Engine error taxonomy. All of these are recoverable: the caller stays on
// the current screen and may retry.
var (
	// ErrAlreadyVoted means the email has cast its ballot; the record is terminal.
	ErrAlreadyVoted = errors.New("this email has already voted")

	// ErrNotRegistered means no voter record exists for the email.
	ErrNotRegistered = errors.New("email not found, please register")

	// ErrInvalidCode means the submitted code does not match the issued one.
	ErrInvalidCode = errors.New("invalid verification code")

	// ErrNotFound means a candidate lookup missed.
	ErrNotFound = errors.New("candidate not found")

	// ErrUnauthorized means the caller lacks the role an operation requires.
	ErrUnauthorized = errors.New("operation requires admin privileges")

	// ErrInvalidCredentials means the admin email/password pair did not match.
	ErrInvalidCredentials = errors.New("invalid admin credentials")
)
