// Package holiday exposes the global no-delivery calendar.
package holiday

import (
	"context"
	"time"

	"github.com/milkrun/milkrun/internal/domain/schedule"
)

type Holiday struct {
	id   uint
	date time.Time
	name string
}

func ReconstructHoliday(id uint, date time.Time, name string) *Holiday {
	return &Holiday{id: id, date: date, name: name}
}

func (h *Holiday) ID() uint        { return h.id }
func (h *Holiday) Date() time.Time { return h.date }
func (h *Holiday) Name() string    { return h.name }

// Dates extracts the calendar dates of hs.
func Dates(hs []*Holiday) []time.Time {
	dates := make([]time.Time, 0, len(hs))
	for _, h := range hs {
		dates = append(dates, h.date)
	}
	return dates
}

type Repository interface {
	ListInRange(ctx context.Context, rng schedule.DateRange) ([]*Holiday, error)
}
