// Package services holds delivery logic shared by several use cases.
package services

import (
	"context"
	"fmt"

	"github.com/milkrun/milkrun/internal/domain/adhoc"
	"github.com/milkrun/milkrun/internal/domain/delivery"
	"github.com/milkrun/milkrun/internal/domain/holiday"
	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/domain/subscription"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

// MaterializeResult reports what one subscription produced for a window.
type MaterializeResult struct {
	Created    int
	Skipped    int
	Exclusions schedule.ExclusionResult
}

// Materializer turns due dates into delivery rows. Running it again over the
// same window only produces skips.
type Materializer struct {
	deliveryRepo delivery.Repository
	vacationRepo subscription.VacationRepository
	holidayRepo  holiday.Repository
	logger       logger.Interface
}

func NewMaterializer(
	deliveryRepo delivery.Repository,
	vacationRepo subscription.VacationRepository,
	holidayRepo holiday.Repository,
	logger logger.Interface,
) *Materializer {
	return &Materializer{
		deliveryRepo: deliveryRepo,
		vacationRepo: vacationRepo,
		holidayRepo:  holidayRepo,
		logger:       logger,
	}
}

// MaterializeSubscription schedules the subscription's surviving dates inside
// window. A date that already has a delivery counts as skipped.
func (m *Materializer) MaterializeSubscription(ctx context.Context, sub *subscription.Subscription, window schedule.DateRange) (MaterializeResult, error) {
	var result MaterializeResult
	if !sub.Status().IsSchedulable() {
		return result, nil
	}

	effective, ok := sub.EffectiveWindow(window)
	if !ok {
		return result, nil
	}

	dates, err := schedule.ResolveDates(effective, sub.Pattern())
	if err != nil {
		return result, fmt.Errorf("failed to resolve dates for subscription %d: %w", sub.ID(), err)
	}

	vacations, err := m.vacationRepo.ListOverlapping(ctx, sub.ID(), effective)
	if err != nil {
		return result, fmt.Errorf("failed to load vacations: %w", err)
	}
	holidays, err := m.holidayRepo.ListInRange(ctx, effective)
	if err != nil {
		return result, fmt.Errorf("failed to load holidays: %w", err)
	}

	result.Exclusions = schedule.ApplyExclusions(dates, schedule.ExclusionSet{
		Vacations: subscription.VacationRanges(vacations),
		Holidays:  holiday.Dates(holidays),
		Pause:     sub.PauseRange(),
	})

	for _, date := range result.Exclusions.ActualDates {
		d, err := delivery.NewRegularDelivery(sub.ID(), sub.CustomerID(), sub.ProductID(), date, sub.Quantity())
		if err != nil {
			return result, fmt.Errorf("failed to build delivery: %w", err)
		}

		inserted, err := m.deliveryRepo.TryInsert(ctx, d)
		if err != nil {
			return result, fmt.Errorf("failed to insert delivery for %s: %w", date.Format("2006-01-02"), err)
		}
		switch inserted {
		case delivery.InsertCreated:
			result.Created++
		case delivery.InsertAlreadyExists:
			result.Skipped++
		}
	}

	m.logger.Debugw("subscription materialized",
		"subscription_id", sub.ID(),
		"window", effective.String(),
		"created", result.Created,
		"skipped", result.Skipped,
		"excluded", result.Exclusions.ExcludedCount(),
	)
	return result, nil
}

// MaterializeAdhocItems creates one ADHOC delivery per item. Several adhoc
// deliveries may share a date.
func (m *Materializer) MaterializeAdhocItems(ctx context.Context, request *adhoc.Request, items []*adhoc.Item) (int, error) {
	created := 0
	for _, item := range items {
		d, err := delivery.NewAdhocDelivery(item.ID(), request.CustomerID(), item.ProductID(), item.RequestedDate(), item.Quantity(), item.UnitPrice())
		if err != nil {
			return created, fmt.Errorf("failed to build adhoc delivery for item %d: %w", item.ID(), err)
		}
		if err := m.deliveryRepo.Create(ctx, d); err != nil {
			return created, fmt.Errorf("failed to create adhoc delivery for item %d: %w", item.ID(), err)
		}
		created++
	}
	return created, nil
}
