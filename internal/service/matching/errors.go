package matching

import "errors"

var (
	ErrRunInProgress       = errors.New("a matching run is already in progress")
	ErrRegistrationClaimed = errors.New("registration is no longer pending")
	ErrUnauthorized        = errors.New("unauthorized")
)
