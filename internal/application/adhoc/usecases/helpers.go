package usecases

import (
	"context"
	"errors"

	"github.com/milkrun/milkrun/internal/domain/adhoc"
	"github.com/milkrun/milkrun/internal/domain/catalog"
	"github.com/milkrun/milkrun/internal/domain/shared/events"
	apperrors "github.com/milkrun/milkrun/internal/shared/errors"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

func mapAdhocError(err error) error {
	switch {
	case err == nil:
		return nil
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, adhoc.ErrRequestNotFound):
		return apperrors.NewNotFoundError(err.Error()).WithCause(err)
	case errors.Is(err, adhoc.ErrVersionConflict):
		return apperrors.NewConflictError(err.Error()).WithCause(err)
	case errors.Is(err, adhoc.ErrNoItems),
		errors.Is(err, adhoc.ErrInvalidItem),
		errors.Is(err, adhoc.ErrNotPending),
		errors.Is(err, adhoc.ErrNotCancellable),
		errors.Is(err, adhoc.ErrCancelWindowElapsed),
		errors.Is(err, adhoc.ErrMissingDecision),
		errors.Is(err, adhoc.ErrUnknownItem),
		errors.Is(err, adhoc.ErrInvalidReviewAction),
		errors.Is(err, adhoc.ErrDateBlocked),
		errors.Is(err, adhoc.ErrCapacityExceeded),
		errors.Is(err, adhoc.ErrInvalidCapacity),
		errors.Is(err, adhoc.ErrDateOutsideWindow),
		errors.Is(err, catalog.ErrProductInactive),
		errors.Is(err, catalog.ErrPriceNotSet):
		return apperrors.NewBadRequestError(err.Error()).WithCause(err)
	}
	return err
}

// lockRequest loads a request for a state change. It must run inside the
// transaction that writes the change.
func lockRequest(ctx context.Context, repo adhoc.RequestRepository, id uint) (*adhoc.Request, error) {
	r, err := repo.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperrors.NewNotFoundError("adhoc request not found").WithCause(adhoc.ErrRequestNotFound)
	}
	return r, nil
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
