package subscription

import (
	"errors"
	"fmt"
)

var (
	ErrSubscriptionNotFound    = errors.New("subscription not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidQuantity         = errors.New("quantity must be positive")
	ErrInvalidDates            = errors.New("invalid subscription dates")
	ErrInvalidPause            = errors.New("invalid pause window")
	ErrPauseTooLong            = errors.New("pause window exceeds the allowed length")
	ErrNotPaused               = errors.New("subscription is not paused")
	ErrVersionConflict         = errors.New("subscription was modified concurrently")
)

func ErrInvalidTransition(from, to string) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, from, to)
}
