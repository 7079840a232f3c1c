package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/domain/shared/events"
	"github.com/milkrun/milkrun/internal/domain/subscription"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	apperrors "github.com/milkrun/milkrun/internal/shared/errors"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

// mapSubscriptionError turns domain rule violations into application errors.
// Anything else is returned as is.
func mapSubscriptionError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, subscription.ErrVersionConflict):
		return apperrors.NewConflictError(err.Error()).WithCause(err)
	case errors.Is(err, subscription.ErrInvalidStatusTransition),
		errors.Is(err, subscription.ErrInvalidQuantity),
		errors.Is(err, subscription.ErrInvalidDates),
		errors.Is(err, subscription.ErrInvalidPause),
		errors.Is(err, subscription.ErrPauseTooLong),
		errors.Is(err, subscription.ErrNotPaused),
		errors.Is(err, schedule.ErrInvalidConfiguration),
		errors.Is(err, schedule.ErrInvalidRange):
		return apperrors.NewBadRequestError(err.Error()).WithCause(err)
	}
	return err
}

func loadSubscription(ctx context.Context, repo subscription.Repository, id uint) (*subscription.Subscription, error) {
	sub, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperrors.NewNotFoundError("subscription not found").WithCause(subscription.ErrSubscriptionNotFound)
	}
	return sub, nil
}

// lookaheadWindow spans today and the following days.
func lookaheadWindow(today time.Time, days int) schedule.DateRange {
	if days < 0 {
		days = 0
	}
	return schedule.MustDateRange(today, biztime.AddDays(today, days))
}

func publish(ctx context.Context, publisher events.EventPublisher, log logger.Interface, event events.DomainEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		log.Warnw("failed to publish event",
			"event_type", event.GetEventType(),
			"aggregate_id", event.GetAggregateID(),
			"error", err,
		)
	}
}
