package app

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/milkrun/milkrun/internal/shared/biztime"
)

// OptionalDate parses a YYYY-MM-DD flag value. An empty value yields nil.
func OptionalDate(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := biztime.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: expected YYYY-MM-DD", flag, value)
	}
	return &d, nil
}

// RequiredDate is OptionalDate for flags that must be set.
func RequiredDate(flag, value string) (time.Time, error) {
	d, err := OptionalDate(flag, value)
	if err != nil {
		return time.Time{}, err
	}
	if d == nil {
		return time.Time{}, fmt.Errorf("--%s is required", flag)
	}
	return *d, nil
}

// Amount parses a decimal flag value.
func Amount(flag, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", flag, value, err)
	}
	return d, nil
}
