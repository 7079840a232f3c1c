package schedule

import (
	"time"

	"github.com/milkrun/milkrun/internal/shared/biztime"
)

// ExclusionReason tags why a scheduled date was dropped.
type ExclusionReason string

const (
	ExclusionVacation ExclusionReason = "VACATION"
	ExclusionHoliday  ExclusionReason = "HOLIDAY"
	ExclusionPause    ExclusionReason = "PAUSE"
)

// ExclusionSet collects every source that can remove a date from a schedule.
type ExclusionSet struct {
	Vacations []DateRange
	Holidays  []time.Time
	Pause     *DateRange
}

// ExclusionResult splits the input dates into the surviving delivery dates and
// one list per exclusion reason. Each input date lands in exactly one list.
type ExclusionResult struct {
	ActualDates   []time.Time
	VacationDates []time.Time
	HolidayDates  []time.Time
	PausedDates   []time.Time
}

func (r ExclusionResult) ExcludedCount() int {
	return len(r.VacationDates) + len(r.HolidayDates) + len(r.PausedDates)
}

// ApplyExclusions filters vacation first, then holidays, then the pause
// window. A date already removed is never checked by a later filter.
func ApplyExclusions(dates []time.Time, set ExclusionSet) ExclusionResult {
	holidays := make(map[time.Time]struct{}, len(set.Holidays))
	for _, h := range set.Holidays {
		holidays[biztime.TruncateDate(h)] = struct{}{}
	}

	result := ExclusionResult{ActualDates: make([]time.Time, 0, len(dates))}
	for _, d := range normalizeDates(dates) {
		switch reason, excluded := set.reasonFor(d, holidays); {
		case !excluded:
			result.ActualDates = append(result.ActualDates, d)
		case reason == ExclusionVacation:
			result.VacationDates = append(result.VacationDates, d)
		case reason == ExclusionHoliday:
			result.HolidayDates = append(result.HolidayDates, d)
		default:
			result.PausedDates = append(result.PausedDates, d)
		}
	}
	return result
}

func (s ExclusionSet) reasonFor(d time.Time, holidays map[time.Time]struct{}) (ExclusionReason, bool) {
	for _, v := range s.Vacations {
		if v.Contains(d) {
			return ExclusionVacation, true
		}
	}
	if _, ok := holidays[d]; ok {
		return ExclusionHoliday, true
	}
	if s.Pause != nil && s.Pause.Contains(d) {
		return ExclusionPause, true
	}
	return "", false
}

// OverlapDays sums the lengths of the given ranges clipped to window.
// Overlapping ranges are counted once per day.
func OverlapDays(window DateRange, ranges []DateRange) int {
	seen := make(map[time.Time]struct{})
	for _, r := range ranges {
		clipped, ok := window.Intersect(r)
		if !ok {
			continue
		}
		for _, d := range clipped.Dates() {
			seen[d] = struct{}{}
		}
	}
	return len(seen)
}
