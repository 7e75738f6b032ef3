package apperrors

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("not found")
	ErrNoActiveTask          = errors.New("no active task")
	ErrTaskAlreadyActive     = errors.New("a task is already active")
	ErrRequestInFlight       = errors.New("request already in flight")
	ErrInvalidTransition     = errors.New("invalid session transition")
	ErrCapabilityUnavailable = errors.New("capability unavailable")
)
