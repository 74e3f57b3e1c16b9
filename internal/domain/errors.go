package domain

import "errors"

// Validation (400).
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrTitleRequired     = errors.New("title is required")
	ErrStartRequired     = errors.New("start_datetime is required")
	ErrEndBeforeStart    = errors.New("end_datetime must not be before start_datetime")
	ErrInvalidCapacity   = errors.New("capacity must be a positive integer")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownStatus     = errors.New("unknown event status")
)

// Authentication (401) and authorization (403).
var (
	ErrUnauthenticated  = errors.New("authentication required")
	ErrInsufficientRole = errors.New("insufficient role")
	ErrNotOwner         = errors.New("not the owner of this resource")
	ErrEventNotOpen     = errors.New("event is not open for signups")
	ErrWrongCredentials = errors.New("invalid credentials")
)

// Not found (404).
var (
	ErrEventNotFound   = errors.New("event not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrCommentNotFound = errors.New("comment not found")
)

// Conflict (409).
var (
	ErrAtCapacity      = errors.New("event is at capacity")
	ErrAlreadySignedUp = errors.New("already signed up for this event")
	ErrUserEmailExists = errors.New("email already in use")
)

// ErrNotSignedUp is returned when attendance is marked for a user who holds no signup.
var ErrNotSignedUp = errors.New("user is not signed up for this event")
