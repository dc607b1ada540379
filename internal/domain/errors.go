package domain

import "errors"

var (
	// ErrValidation indicates malformed or out-of-range input.
	ErrValidation = errors.New("invalid input")
	// ErrUsernameTaken indicates a registration conflict on username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates an ownership violation.
	ErrForbidden = errors.New("forbidden")
	// ErrBadCredentials covers both unknown usernames and wrong passwords;
	// callers must not be able to tell the two apart.
	ErrBadCredentials = errors.New("wrong username or password")
	// ErrDegenerateReps rejects rep counts whose Brzycki denominator is zero.
	ErrDegenerateReps = errors.New("rep count produces an infinite estimate")
	// ErrTooManyAttempts is returned when the login throttle is engaged.
	ErrTooManyAttempts = errors.New("too many login attempts")
)
