package usecases

import (
	"context"
	"errors"

	"github.com/milkrun/milkrun/internal/domain/billing"
	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/domain/shared/events"
	apperrors "github.com/milkrun/milkrun/internal/shared/errors"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

func mapBillingError(err error) error {
	switch {
	case err == nil:
		return nil
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, billing.ErrBillNotFound):
		return apperrors.NewNotFoundError(err.Error()).WithCause(err)
	case errors.Is(err, billing.ErrBillVersionConflict):
		return apperrors.NewConflictError(err.Error()).WithCause(err)
	case errors.Is(err, billing.ErrBillAlreadyExists),
		errors.Is(err, billing.ErrBillNotPayable),
		errors.Is(err, billing.ErrPaymentExceedsOutstanding),
		errors.Is(err, billing.ErrInvalidAmount),
		errors.Is(err, billing.ErrBillHasPayments),
		errors.Is(err, billing.ErrInsufficientWalletBalance),
		errors.Is(err, schedule.ErrInvalidRange):
		return apperrors.NewBadRequestError(err.Error()).WithCause(err)
	}
	return err
}

func loadBill(ctx context.Context, repo billing.BillRepository, id uint) (*billing.Bill, error) {
	b, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperrors.NewNotFoundError("bill not found").WithCause(billing.ErrBillNotFound)
	}
	return b, nil
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
