package schedule

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/milkrun/milkrun/internal/shared/biztime"
)

var ErrInvalidConfiguration = errors.New("invalid delivery pattern configuration")

// Frequency is the recurrence rule of a subscription.
type Frequency string

const (
	FrequencyDaily     Frequency = "DAILY"
	FrequencyAlternate Frequency = "ALTERNATE"
	FrequencyWeekdays  Frequency = "WEEKDAYS"
	FrequencyWeekends  Frequency = "WEEKENDS"
	FrequencyCustom    Frequency = "CUSTOM"
)

func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToUpper(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", fmt.Errorf("%w: unknown frequency %q", ErrInvalidConfiguration, s)
	}
	return f, nil
}

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyAlternate, FrequencyWeekdays, FrequencyWeekends, FrequencyCustom:
		return true
	default:
		return false
	}
}

func (f Frequency) String() string {
	return string(f)
}

// WeekdaySet is a set of days of the week stored as a bitmask.
type WeekdaySet uint8

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s |= 1 << uint(d)
	}
	return s
}

// ParseWeekdays accepts full or three-letter weekday names in any case.
func ParseWeekdays(names []string) (WeekdaySet, error) {
	var s WeekdaySet
	for _, name := range names {
		d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidConfiguration, name)
		}
		s |= 1 << uint(d)
	}
	return s, nil
}

func (s WeekdaySet) Has(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

func (s WeekdaySet) IsEmpty() bool {
	return s == 0
}

// Names returns upper-case weekday names, Sunday first.
func (s WeekdaySet) Names() []string {
	names := make([]string, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			names = append(names, strings.ToUpper(d.String()))
		}
	}
	return names
}

// Pattern is everything the resolver needs to know about a subscription.
// Anchor is the subscription start date; ALTERNATE parity is counted from it
// so that resolving adjacent windows never shifts the alternation.
type Pattern struct {
	Frequency  Frequency
	CustomDays WeekdaySet
	Anchor     time.Time
}

func (p Pattern) Validate() error {
	if !p.Frequency.IsValid() {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidConfiguration, p.Frequency)
	}
	if p.Frequency == FrequencyCustom && p.CustomDays.IsEmpty() {
		return fmt.Errorf("%w: custom frequency requires at least one weekday", ErrInvalidConfiguration)
	}
	if p.Frequency == FrequencyAlternate && p.Anchor.IsZero() {
		return fmt.Errorf("%w: alternate frequency requires an anchor date", ErrInvalidConfiguration)
	}
	return nil
}

// Matches reports whether date is a delivery day under the pattern.
func (p Pattern) Matches(date time.Time) bool {
	switch p.Frequency {
	case FrequencyDaily:
		return true
	case FrequencyAlternate:
		offset := biztime.DaysBetween(p.Anchor, date)
		return offset%2 == 0
	case FrequencyWeekdays:
		wd := date.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	case FrequencyWeekends:
		wd := date.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	case FrequencyCustom:
		return p.CustomDays.Has(date.Weekday())
	default:
		return false
	}
}

// ResolveDates returns the ascending, de-duplicated dates in rng that the
// pattern selects.
func ResolveDates(rng DateRange, p Pattern) ([]time.Time, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var dates []time.Time
	for d := rng.Start; !d.After(rng.End); d = d.AddDate(0, 0, 1) {
		if p.Matches(d) {
			dates = append(dates, d)
		}
	}
	return dates, nil
}

// normalizeDates truncates, sorts and de-duplicates a caller supplied list.
func normalizeDates(in []time.Time) []time.Time {
	out := make([]time.Time, 0, len(in))
	for _, d := range in {
		out = append(out, biztime.TruncateDate(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })

	uniq := out[:0]
	for i, d := range out {
		if i == 0 || !d.Equal(out[i-1]) {
			uniq = append(uniq, d)
		}
	}
	return uniq
}
