package adhoc

import (
	"errors"
	"fmt"
)

var (
	ErrRequestNotFound     = errors.New("adhoc request not found")
	ErrNoItems             = errors.New("adhoc request needs at least one item")
	ErrInvalidItem         = errors.New("invalid adhoc item")
	ErrNotPending          = errors.New("adhoc request is no longer pending")
	ErrVersionConflict     = errors.New("adhoc request was modified concurrently")
	ErrNotCancellable      = errors.New("adhoc request cannot be cancelled")
	ErrCancelWindowElapsed = errors.New("adhoc request cancellation window has elapsed")
	ErrMissingDecision     = errors.New("every item needs a review decision")
	ErrUnknownItem         = errors.New("decision references an item not in the request")
	ErrInvalidReviewAction = errors.New("invalid review action")
	ErrDateBlocked         = errors.New("date is blocked for adhoc deliveries")
	ErrCapacityExceeded    = errors.New("adhoc capacity exceeded for date")
	ErrInvalidCapacity     = errors.New("invalid capacity settings")
	ErrDateOutsideWindow   = errors.New("requested date is outside the allowed booking window")
)

func ErrCancelDeadline(deadline string) error {
	return fmt.Errorf("%w: deadline was %s", ErrCancelWindowElapsed, deadline)
}
