// Package biztime provides utilities for business timezone calculations.
// Instants are stored in UTC. Calendar dates (delivery dates, billing periods,
// requested dates) are represented as midnight UTC of the civil date, and the
// business timezone is used only to decide which civil date "today" is and
// when a civil date begins.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the default business timezone.
	DefaultTimezone = "Asia/Kolkata"

	DateLayout = "2006-01-02"
)

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error

	nowFunc   = time.Now
	nowFuncMu sync.RWMutex
)

// Init initializes the business timezone. Should be called once at startup.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// Location returns the business timezone location, initializing the default
// when Init was never called.
func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
		}
	}
	return bizLocation
}

// SetNowFunc replaces the clock and returns a restore function. Tests only.
func SetNowFunc(fn func() time.Time) (restore func()) {
	nowFuncMu.Lock()
	prev := nowFunc
	nowFunc = fn
	nowFuncMu.Unlock()
	return func() {
		nowFuncMu.Lock()
		nowFunc = prev
		nowFuncMu.Unlock()
	}
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	nowFuncMu.RLock()
	defer nowFuncMu.RUnlock()
	return nowFunc().UTC()
}

// Date builds a calendar date value.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// TruncateDate drops the clock part, keeping the civil date the value was
// expressed in.
func TruncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current civil date in the business timezone.
func Today() time.Time {
	return TruncateDate(NowUTC().In(Location()))
}

// AddDays shifts a calendar date.
func AddDays(date time.Time, days int) time.Time {
	return TruncateDate(date).AddDate(0, 0, days)
}

// DaysBetween returns the whole-day offset b − a between two calendar dates.
func DaysBetween(a, b time.Time) int {
	return int(TruncateDate(b).Sub(TruncateDate(a)).Hours() / 24)
}

// StartOfDateUTC returns the instant a civil date begins in the business timezone.
func StartOfDateUTC(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, Location()).UTC()
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats a calendar date as YYYY-MM-DD.
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// StartOfMonth and EndOfMonth return the first and last calendar date of a month.
func StartOfMonth(year int, month time.Month) time.Time {
	return Date(year, month, 1)
}

func EndOfMonth(year int, month time.Month) time.Time {
	return Date(year, month+1, 1).AddDate(0, 0, -1)
}
