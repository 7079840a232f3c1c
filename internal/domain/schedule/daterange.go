// Package schedule resolves which calendar dates a recurring delivery pattern
// falls on and which of those dates survive vacations, holidays and pauses.
// Everything here is pure: identical inputs always yield identical output.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/milkrun/milkrun/internal/shared/biztime"
)

var ErrInvalidRange = errors.New("invalid date range")

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	start, end = biztime.TruncateDate(start), biztime.TruncateDate(end)
	if end.Before(start) {
		return DateRange{}, fmt.Errorf("%w: end %s before start %s",
			ErrInvalidRange, biztime.FormatDate(end), biztime.FormatDate(start))
	}
	return DateRange{Start: start, End: end}, nil
}

// MustDateRange is NewDateRange for literals known to be ordered.
func MustDateRange(start, end time.Time) DateRange {
	r, err := NewDateRange(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

// Days counts both endpoints: 2025-01-10..2025-01-12 is 3 days. Every
// duration rule (pause limits, vacation clipping, holiday counts) uses this.
func (r DateRange) Days() int {
	return biztime.DaysBetween(r.Start, r.End) + 1
}

func (r DateRange) Contains(date time.Time) bool {
	date = biztime.TruncateDate(date)
	return !date.Before(r.Start) && !date.After(r.End)
}

// Intersect returns the overlap of two ranges; ok is false when they are disjoint.
func (r DateRange) Intersect(other DateRange) (DateRange, bool) {
	start := r.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := r.End
	if other.End.Before(end) {
		end = other.End
	}
	if end.Before(start) {
		return DateRange{}, false
	}
	return DateRange{Start: start, End: end}, true
}

// Dates lists every date in the range in ascending order.
func (r DateRange) Dates() []time.Time {
	dates := make([]time.Time, 0, r.Days())
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

func (r DateRange) String() string {
	return biztime.FormatDate(r.Start) + ".." + biztime.FormatDate(r.End)
}
