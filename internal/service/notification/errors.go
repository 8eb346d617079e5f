package notification

import (
	"errors"
	"fmt"
)

var (
	ErrSettingsNotFound = errors.New("notification settings not found")
	ErrLineDisabled     = errors.New("line messaging disabled: no channel access token")
	ErrNotEligible      = errors.New("recipient not eligible for notification")
	ErrInvalidSignature = errors.New("invalid line webhook signature")
	ErrUnauthorized     = errors.New("unauthorized")
)

// APIError is a non-2xx answer from the LINE Messaging API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("line api: status %d: %s", e.StatusCode, e.Body)
}
