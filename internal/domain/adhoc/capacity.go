package adhoc

import (
	"fmt"
	"time"

	"github.com/milkrun/milkrun/internal/shared/biztime"
)

// Capacity is the adhoc budget of one calendar date. Rows are created lazily;
// a date without a row behaves like NewDefaultCapacity. The maximum follows
// the global default until an admin sets a per-date override.
type Capacity struct {
	date             time.Time
	maxAdhocRequests int
	maxOverridden    bool
	currentApproved  int
	isBlocked        bool
	blockReason      string
}

func NewDefaultCapacity(date time.Time, defaultMax int) *Capacity {
	return &Capacity{date: biztime.TruncateDate(date), maxAdhocRequests: defaultMax}
}

// ReconstructCapacity rebuilds a date with an admin set maximum.
func ReconstructCapacity(date time.Time, maxAdhocRequests, currentApproved int, isBlocked bool, blockReason string) *Capacity {
	return &Capacity{
		date:             date,
		maxAdhocRequests: maxAdhocRequests,
		maxOverridden:    true,
		currentApproved:  currentApproved,
		isBlocked:        isBlocked,
		blockReason:      blockReason,
	}
}

// ReconstructStoredCapacity rebuilds a stored row. A nil maxOverride means
// the date uses defaultMax.
func ReconstructStoredCapacity(date time.Time, maxOverride *int, defaultMax, currentApproved int, isBlocked bool, blockReason string) *Capacity {
	c := &Capacity{
		date:             date,
		maxAdhocRequests: defaultMax,
		currentApproved:  currentApproved,
		isBlocked:        isBlocked,
		blockReason:      blockReason,
	}
	if maxOverride != nil {
		c.maxAdhocRequests = *maxOverride
		c.maxOverridden = true
	}
	return c
}

func (c *Capacity) Date() time.Time       { return c.date }
func (c *Capacity) MaxAdhocRequests() int { return c.maxAdhocRequests }

// MaxOverride returns the admin set maximum, or nil when the date follows
// the global default.
func (c *Capacity) MaxOverride() *int {
	if !c.maxOverridden {
		return nil
	}
	max := c.maxAdhocRequests
	return &max
}
func (c *Capacity) CurrentApproved() int  { return c.currentApproved }
func (c *Capacity) IsBlocked() bool       { return c.isBlocked }
func (c *Capacity) BlockReason() string   { return c.blockReason }

// Available never goes below zero, even when an override pushed
// currentApproved past the maximum.
func (c *Capacity) Available() int {
	if c.currentApproved >= c.maxAdhocRequests {
		return 0
	}
	return c.maxAdhocRequests - c.currentApproved
}

// CanAccept reports whether n more units fit and the date is open.
func (c *Capacity) CanAccept(n int) error {
	if c.isBlocked {
		if c.blockReason != "" {
			return fmt.Errorf("%w: %s (%s)", ErrDateBlocked, biztime.FormatDate(c.date), c.blockReason)
		}
		return fmt.Errorf("%w: %s", ErrDateBlocked, biztime.FormatDate(c.date))
	}
	if n > c.Available() {
		return fmt.Errorf("%w: %s has %d left, %d requested", ErrCapacityExceeded, biztime.FormatDate(c.date), c.Available(), n)
	}
	return nil
}

// CapacitySettings are the admin editable fields. A nil MaxAdhocRequests
// keeps the current maximum.
type CapacitySettings struct {
	MaxAdhocRequests *int
	IsBlocked        bool
	BlockReason      string
}

// ApplySettings overwrites the admin fields and leaves currentApproved alone.
func (c *Capacity) ApplySettings(s CapacitySettings) error {
	if s.MaxAdhocRequests != nil {
		if *s.MaxAdhocRequests < 0 {
			return fmt.Errorf("%w: max capacity cannot be negative", ErrInvalidCapacity)
		}
		c.maxAdhocRequests = *s.MaxAdhocRequests
		c.maxOverridden = true
	}
	c.isBlocked = s.IsBlocked
	c.blockReason = s.BlockReason
	if !s.IsBlocked {
		c.blockReason = ""
	}
	return nil
}
