package delivery

import "errors"

var (
	ErrDeliveryNotFound    = errors.New("delivery not found")
	ErrDeliveryTerminal    = errors.New("delivery is already delivered or cancelled")
	ErrInvalidOutcome      = errors.New("invalid fulfillment outcome")
	ErrInvalidDeliveredQty = errors.New("invalid delivered quantity")
	ErrInvalidScheduledQty = errors.New("scheduled quantity must be positive")
	ErrMissingOriginID     = errors.New("delivery requires its origin id")
)
