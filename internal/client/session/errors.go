package session

import (
	"errors"
	"fmt"
)

var (
	// ErrAuth is the base of every authentication failure; match it with
	// errors.Is to handle any of them.
	ErrAuth = errors.New("authentication failed")

	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrAuth)
	ErrInvalidInput       = fmt.Errorf("%w: invalid input", ErrAuth)
	ErrEmailTaken         = fmt.Errorf("%w: email already registered", ErrAuth)

	// ErrAuthBusy is returned when a login or signup is already in flight.
	ErrAuthBusy = errors.New("another sign-in is in progress")
)
