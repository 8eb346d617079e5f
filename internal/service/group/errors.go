package group

import "errors"

var (
	// Group errors
	ErrGroupNotFound     = errors.New("group not found")
	ErrInvalidTransition = errors.New("invalid group status transition")

	// Member errors
	ErrNotMember = errors.New("user is not a member of this group")

	// Generic errors
	ErrUnauthorized = errors.New("unauthorized")
)
