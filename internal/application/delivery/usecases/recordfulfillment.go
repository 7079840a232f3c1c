package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/milkrun/milkrun/internal/domain/delivery"
	vo "github.com/milkrun/milkrun/internal/domain/delivery/valueobjects"
	apperrors "github.com/milkrun/milkrun/internal/shared/errors"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

type RecordFulfillmentCommand struct {
	DeliveryID        uint
	Status            vo.DeliveryStatus
	DeliveredQuantity *decimal.Decimal
	Notes             string
}

// RecordFulfillmentUseCase stores what actually happened at the door.
type RecordFulfillmentUseCase struct {
	deliveryRepo delivery.Repository
	logger       logger.Interface
}

func NewRecordFulfillmentUseCase(deliveryRepo delivery.Repository, logger logger.Interface) *RecordFulfillmentUseCase {
	return &RecordFulfillmentUseCase{
		deliveryRepo: deliveryRepo,
		logger:       logger,
	}
}

func (uc *RecordFulfillmentUseCase) Execute(ctx context.Context, cmd RecordFulfillmentCommand) (*delivery.Delivery, error) {
	d, err := uc.deliveryRepo.GetByID(ctx, cmd.DeliveryID)
	if err != nil {
		uc.logger.Errorw("failed to get delivery", "delivery_id", cmd.DeliveryID, "error", err)
		return nil, fmt.Errorf("failed to get delivery: %w", err)
	}
	if d == nil {
		return nil, apperrors.NewNotFoundError("delivery not found").WithCause(delivery.ErrDeliveryNotFound)
	}

	if err := d.RecordFulfillment(cmd.Status, cmd.DeliveredQuantity, cmd.Notes); err != nil {
		switch {
		case errors.Is(err, delivery.ErrDeliveryTerminal),
			errors.Is(err, delivery.ErrInvalidOutcome),
			errors.Is(err, delivery.ErrInvalidDeliveredQty):
			return nil, apperrors.NewBadRequestError(err.Error()).WithCause(err)
		default:
			return nil, err
		}
	}

	if err := uc.deliveryRepo.Update(ctx, d); err != nil {
		uc.logger.Errorw("failed to update delivery", "delivery_id", d.ID(), "error", err)
		return nil, fmt.Errorf("failed to update delivery: %w", err)
	}

	uc.logger.Infow("delivery fulfillment recorded",
		"delivery_id", d.ID(),
		"status", d.Status(),
		"quantity", d.ChargeableQuantity().String(),
	)
	return d, nil
}
