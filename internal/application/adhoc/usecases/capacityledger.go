package usecases

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/milkrun/milkrun/internal/domain/adhoc"
	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

// CapacityLedger tracks how many adhoc items each date has approved. Dates
// without a stored row read as the default capacity with nothing approved.
type CapacityLedger struct {
	capacityRepo adhoc.CapacityRepository
	logger       logger.Interface
}

func NewCapacityLedger(capacityRepo adhoc.CapacityRepository, logger logger.Interface) *CapacityLedger {
	return &CapacityLedger{capacityRepo: capacityRepo, logger: logger}
}

// Get returns the capacity of one date.
func (l *CapacityLedger) Get(ctx context.Context, date time.Time, defaultMax int) (*adhoc.Capacity, error) {
	c, err := l.capacityRepo.GetByDate(ctx, biztime.TruncateDate(date), defaultMax)
	if err != nil {
		return nil, fmt.Errorf("failed to get capacity: %w", err)
	}
	if c == nil {
		return adhoc.NewDefaultCapacity(date, defaultMax), nil
	}
	return c, nil
}

// Snapshot returns one entry per date of rng, in date order.
func (l *CapacityLedger) Snapshot(ctx context.Context, rng schedule.DateRange, defaultMax int) ([]*adhoc.Capacity, error) {
	stored, err := l.capacityRepo.ListInRange(ctx, rng, defaultMax)
	if err != nil {
		return nil, fmt.Errorf("failed to list capacity: %w", err)
	}
	byDate := make(map[time.Time]*adhoc.Capacity, len(stored))
	for _, c := range stored {
		byDate[c.Date()] = c
	}

	out := make([]*adhoc.Capacity, 0, rng.Days())
	for _, d := range rng.Dates() {
		if c, ok := byDate[d]; ok {
			out = append(out, c)
			continue
		}
		out = append(out, adhoc.NewDefaultCapacity(d, defaultMax))
	}
	return out, nil
}

// Reserve takes counts[d] units on every date. Each date is checked and
// incremented in one conditional statement; the first date that cannot take
// its units fails the call and the caller's transaction rolls back the rest.
// force skips the check for blocked or full dates.
func (l *CapacityLedger) Reserve(ctx context.Context, counts map[time.Time]int, defaultMax int, force bool) error {
	dates := sortedDates(counts)
	for _, d := range dates {
		if force {
			if err := l.capacityRepo.Increment(ctx, d, counts[d]); err != nil {
				return fmt.Errorf("failed to increment capacity for %s: %w", biztime.FormatDate(d), err)
			}
			continue
		}

		ok, err := l.capacityRepo.TryReserve(ctx, d, counts[d], defaultMax)
		if err != nil {
			return fmt.Errorf("failed to reserve capacity for %s: %w", biztime.FormatDate(d), err)
		}
		if !ok {
			return l.rejection(ctx, d, counts[d], defaultMax)
		}
	}
	if force {
		l.logger.Infow("adhoc capacity reserved with override", "dates", len(dates))
	}
	return nil
}

// rejection explains why a date refused n units.
func (l *CapacityLedger) rejection(ctx context.Context, date time.Time, n, defaultMax int) error {
	c, err := l.Get(ctx, date, defaultMax)
	if err != nil {
		return err
	}
	if err := c.CanAccept(n); err != nil {
		return err
	}
	return fmt.Errorf("%w: %s", adhoc.ErrCapacityExceeded, biztime.FormatDate(date))
}

// Release gives back previously reserved units. Counts never drop below zero.
func (l *CapacityLedger) Release(ctx context.Context, counts map[time.Time]int) error {
	for _, d := range sortedDates(counts) {
		if err := l.capacityRepo.Increment(ctx, d, -counts[d]); err != nil {
			return fmt.Errorf("failed to release capacity for %s: %w", biztime.FormatDate(d), err)
		}
	}
	return nil
}

// countByDate counts one unit per item on its requested date.
func countByDate(items []*adhoc.Item) map[time.Time]int {
	counts := make(map[time.Time]int)
	for _, item := range items {
		counts[item.RequestedDate()]++
	}
	return counts
}

func sortedDates(counts map[time.Time]int) []time.Time {
	dates := make([]time.Time, 0, len(counts))
	for d := range counts {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
