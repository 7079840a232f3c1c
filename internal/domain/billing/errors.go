package billing

import "errors"

var (
	ErrBillNotFound              = errors.New("bill not found")
	ErrBillAlreadyExists         = errors.New("bill already exists for this period")
	ErrBillNotPayable            = errors.New("bill does not accept payments")
	ErrPaymentExceedsOutstanding = errors.New("payment exceeds the outstanding amount")
	ErrInvalidAmount             = errors.New("amount must be positive")
	ErrBillHasPayments           = errors.New("bill already has successful payments")
	ErrInsufficientWalletBalance = errors.New("insufficient wallet balance")
	ErrBillVersionConflict       = errors.New("bill was modified concurrently")
)
