package registration

import "errors"

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrNotPending           = errors.New("only pending registrations can be cancelled")
	ErrPastDate             = errors.New("event_date must not be in the past")
	ErrDuplicateSlot        = errors.New("the same slot was submitted twice")
	ErrProfileRequired      = errors.New("a profile is required before registering")
)
