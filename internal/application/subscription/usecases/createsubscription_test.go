package usecases

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milkrun/milkrun/internal/domain/catalog"
	"github.com/milkrun/milkrun/internal/domain/customer"
	"github.com/milkrun/milkrun/internal/domain/schedule"
	vo "github.com/milkrun/milkrun/internal/domain/subscription/valueobjects"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	apperrors "github.com/milkrun/milkrun/internal/shared/errors"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

func validCreateCommand() CreateSubscriptionCommand {
	return CreateSubscriptionCommand{
		CustomerID: 3,
		ProductID:  1,
		AddressID:  4,
		Quantity:   decimal.NewFromFloat(1.5),
		Frequency:  "weekdays",
		StartDate:  biztime.Date(2025, 3, 11),
	}
}

func newCreateUseCase(products *mockProductRepository, addresses *mockAddressRepository, m *mockMaterializer) *CreateSubscriptionUseCase {
	return NewCreateSubscriptionUseCase(&mockSubscriptionRepository{}, products, addresses, defaultSettings(), m, logger.NewNopLogger())
}

func TestCreateSubscription_Success(t *testing.T) {
	freezeClock(t)
	m := &mockMaterializer{}
	uc := newCreateUseCase(&mockProductRepository{}, &mockAddressRepository{}, m)

	sub, err := uc.Execute(context.Background(), validCreateCommand())

	require.NoError(t, err)
	assert.Equal(t, vo.StatusActive, sub.Status())
	assert.Equal(t, schedule.FrequencyWeekdays, sub.Frequency())
	require.Len(t, m.windows, 1)
	assert.Equal(t, today, m.windows[0].Start)
	assert.Equal(t, biztime.Date(2025, 3, 17), m.windows[0].End)
}

func TestCreateSubscription_Validation(t *testing.T) {
	freezeClock(t)

	tests := []struct {
		name    string
		mutate  func(*CreateSubscriptionCommand)
		checkFn func(error) bool
	}{
		{"zero quantity", func(c *CreateSubscriptionCommand) { c.Quantity = decimal.Zero }, apperrors.IsValidationError},
		{"unknown frequency", func(c *CreateSubscriptionCommand) { c.Frequency = "MONTHLY" }, apperrors.IsBadRequestError},
		{"custom without days", func(c *CreateSubscriptionCommand) { c.Frequency = "CUSTOM" }, apperrors.IsBadRequestError},
		{"unknown weekday", func(c *CreateSubscriptionCommand) { c.Frequency = "CUSTOM"; c.CustomDays = []string{"funday"} }, apperrors.IsBadRequestError},
		{"start in the past", func(c *CreateSubscriptionCommand) { c.StartDate = biztime.Date(2025, 3, 9) }, apperrors.IsBadRequestError},
		{"end before start", func(c *CreateSubscriptionCommand) { c.EndDate = ptr(biztime.Date(2025, 3, 10)) }, apperrors.IsBadRequestError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := validCreateCommand()
			tt.mutate(&cmd)
			uc := newCreateUseCase(&mockProductRepository{}, &mockAddressRepository{}, &mockMaterializer{})

			_, err := uc.Execute(context.Background(), cmd)

			require.Error(t, err)
			assert.True(t, tt.checkFn(err), "unexpected error type: %v", err)
		})
	}
}

func TestCreateSubscription_ProductChecks(t *testing.T) {
	freezeClock(t)

	t.Run("missing product", func(t *testing.T) {
		products := &mockProductRepository{GetByIDFunc: func(context.Context, uint) (*catalog.Product, error) { return nil, nil }}
		_, err := newCreateUseCase(products, &mockAddressRepository{}, &mockMaterializer{}).Execute(context.Background(), validCreateCommand())
		assert.True(t, apperrors.IsNotFoundError(err))
	})

	t.Run("inactive product", func(t *testing.T) {
		products := &mockProductRepository{GetByIDFunc: func(_ context.Context, id uint) (*catalog.Product, error) {
			return catalog.ReconstructProduct(id, "Toned milk", "litre", decimal.NewFromInt(60), false), nil
		}}
		_, err := newCreateUseCase(products, &mockAddressRepository{}, &mockMaterializer{}).Execute(context.Background(), validCreateCommand())
		assert.True(t, apperrors.IsBadRequestError(err))
		assert.ErrorIs(t, err, catalog.ErrProductInactive)
	})
}

func TestCreateSubscription_AddressOfAnotherCustomer(t *testing.T) {
	freezeClock(t)
	addresses := &mockAddressRepository{GetByIDFunc: func(_ context.Context, id uint) (*customer.Address, error) {
		return customer.ReconstructAddress(id, 99, "Office", "1 Main St"), nil
	}}

	_, err := newCreateUseCase(&mockProductRepository{}, addresses, &mockMaterializer{}).Execute(context.Background(), validCreateCommand())

	assert.True(t, apperrors.IsNotFoundError(err))
	assert.ErrorIs(t, err, customer.ErrAddressNotFound)
}
