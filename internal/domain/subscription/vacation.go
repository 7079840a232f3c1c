package subscription

import (
	"time"

	"github.com/milkrun/milkrun/internal/domain/schedule"
)

// Vacation is a customer declared range with no deliveries. It is maintained
// elsewhere; this package only reads it.
type Vacation struct {
	id             uint
	subscriptionID uint
	startDate      time.Time
	endDate        time.Time
}

func ReconstructVacation(id, subscriptionID uint, startDate, endDate time.Time) *Vacation {
	return &Vacation{
		id:             id,
		subscriptionID: subscriptionID,
		startDate:      startDate,
		endDate:        endDate,
	}
}

func (v *Vacation) ID() uint             { return v.id }
func (v *Vacation) SubscriptionID() uint { return v.subscriptionID }
func (v *Vacation) StartDate() time.Time { return v.startDate }
func (v *Vacation) EndDate() time.Time   { return v.endDate }

func (v *Vacation) Range() schedule.DateRange {
	return schedule.DateRange{Start: v.startDate, End: v.endDate}
}

// VacationRanges collects the ranges of vs.
func VacationRanges(vs []*Vacation) []schedule.DateRange {
	ranges := make([]schedule.DateRange, 0, len(vs))
	for _, v := range vs {
		ranges = append(ranges, v.Range())
	}
	return ranges
}
