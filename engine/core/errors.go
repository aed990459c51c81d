package core

import (
	"errors"
)

var (
	ErrEventsNotInitialized = errors.New("event system not initialized")
	ErrInvalidEventCode     = errors.New("invalid event code")
)
