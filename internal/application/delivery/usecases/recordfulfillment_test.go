package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milkrun/milkrun/internal/domain/delivery"
	vo "github.com/milkrun/milkrun/internal/domain/delivery/valueobjects"
	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	apperrors "github.com/milkrun/milkrun/internal/shared/errors"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

type mockDeliveryRepo struct {
	getByIDFunc func(ctx context.Context, id uint) (*delivery.Delivery, error)
	updateFunc  func(ctx context.Context, d *delivery.Delivery) error
}

func (m *mockDeliveryRepo) TryInsert(context.Context, *delivery.Delivery) (delivery.InsertResult, error) {
	return delivery.InsertCreated, nil
}

func (m *mockDeliveryRepo) Create(context.Context, *delivery.Delivery) error { return nil }

func (m *mockDeliveryRepo) GetByID(ctx context.Context, id uint) (*delivery.Delivery, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockDeliveryRepo) Update(ctx context.Context, d *delivery.Delivery) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, d)
	}
	return nil
}

func (m *mockDeliveryRepo) ListForCustomerPeriod(context.Context, uint, schedule.DateRange) ([]*delivery.Delivery, error) {
	return nil, nil
}

func (m *mockDeliveryRepo) CountForSubscription(context.Context, uint) (int64, error) {
	return 0, nil
}

func (m *mockDeliveryRepo) CancelScheduledForSubscription(context.Context, uint, time.Time) (int64, error) {
	return 0, nil
}

func (m *mockDeliveryRepo) DeleteScheduledForSubscription(context.Context, uint, time.Time, *time.Time) (int64, error) {
	return 0, nil
}

func (m *mockDeliveryRepo) CancelScheduledForAdhocItems(context.Context, []uint) (int64, error) {
	return 0, nil
}

func scheduledDelivery(t *testing.T) *delivery.Delivery {
	t.Helper()
	d, err := delivery.NewRegularDelivery(7, 3, 1, biztime.Date(2025, 1, 2), decimal.NewFromInt(2))
	require.NoError(t, err)
	d.SetID(40)
	return d
}

func TestRecordFulfillment_Partial(t *testing.T) {
	d := scheduledDelivery(t)
	var saved *delivery.Delivery
	repo := &mockDeliveryRepo{
		getByIDFunc: func(context.Context, uint) (*delivery.Delivery, error) { return d, nil },
		updateFunc: func(_ context.Context, d *delivery.Delivery) error {
			saved = d
			return nil
		},
	}
	uc := NewRecordFulfillmentUseCase(repo, logger.NewNopLogger())

	qty := decimal.NewFromInt(1)
	got, err := uc.Execute(context.Background(), RecordFulfillmentCommand{
		DeliveryID:        40,
		Status:            vo.StatusPartial,
		DeliveredQuantity: &qty,
	})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, vo.StatusPartial, got.Status())
	assert.True(t, qty.Equal(got.ChargeableQuantity()))
}

func TestRecordFulfillment_NotFound(t *testing.T) {
	uc := NewRecordFulfillmentUseCase(&mockDeliveryRepo{}, logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), RecordFulfillmentCommand{DeliveryID: 1, Status: vo.StatusDelivered})

	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestRecordFulfillment_RejectsTerminalDelivery(t *testing.T) {
	d := scheduledDelivery(t)
	require.NoError(t, d.Cancel())
	repo := &mockDeliveryRepo{
		getByIDFunc: func(context.Context, uint) (*delivery.Delivery, error) { return d, nil },
		updateFunc: func(context.Context, *delivery.Delivery) error {
			t.Fatal("update must not be called")
			return nil
		},
	}
	uc := NewRecordFulfillmentUseCase(repo, logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), RecordFulfillmentCommand{DeliveryID: 40, Status: vo.StatusDelivered})

	assert.True(t, apperrors.IsBadRequestError(err))
	assert.ErrorIs(t, err, delivery.ErrDeliveryTerminal)
}

func TestRecordFulfillment_UpdateError(t *testing.T) {
	d := scheduledDelivery(t)
	repo := &mockDeliveryRepo{
		getByIDFunc: func(context.Context, uint) (*delivery.Delivery, error) { return d, nil },
		updateFunc:  func(context.Context, *delivery.Delivery) error { return errors.New("db down") },
	}
	uc := NewRecordFulfillmentUseCase(repo, logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), RecordFulfillmentCommand{DeliveryID: 40, Status: vo.StatusMissed})

	assert.ErrorContains(t, err, "db down")
}
