package user

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrInvalidBirthDate = errors.New("birth_date must be YYYY-MM-DD")
	ErrAgeOutOfRange    = fmt.Errorf("age must be between %d and %d", MinAge, MaxAge)
)
