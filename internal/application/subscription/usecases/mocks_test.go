package usecases

import (
	"context"
	"time"

	"github.com/milkrun/milkrun/internal/application/delivery/services"
	"github.com/milkrun/milkrun/internal/domain/catalog"
	"github.com/milkrun/milkrun/internal/domain/customer"
	"github.com/milkrun/milkrun/internal/domain/delivery"
	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/domain/setting"
	"github.com/milkrun/milkrun/internal/domain/shared/events"
	"github.com/milkrun/milkrun/internal/domain/subscription"
	"github.com/shopspring/decimal"
)

type mockSubscriptionRepository struct {
	CreateFunc                func(ctx context.Context, s *subscription.Subscription) error
	GetByIDFunc               func(ctx context.Context, id uint) (*subscription.Subscription, error)
	UpdateFunc                func(ctx context.Context, s *subscription.Subscription) error
	ListSchedulableFunc       func(ctx context.Context) ([]*subscription.Subscription, error)
	ListEndedBeforeFunc       func(ctx context.Context, date time.Time) ([]*subscription.Subscription, error)
	ListActiveCustomerIDsFunc func(ctx context.Context) ([]uint, error)
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	return s.SetID(1)
}

func (m *mockSubscriptionRepository) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) Update(ctx context.Context, s *subscription.Subscription) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, s)
	}
	return nil
}

func (m *mockSubscriptionRepository) ListSchedulable(ctx context.Context) ([]*subscription.Subscription, error) {
	if m.ListSchedulableFunc != nil {
		return m.ListSchedulableFunc(ctx)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) ListEndedBefore(ctx context.Context, date time.Time) ([]*subscription.Subscription, error) {
	if m.ListEndedBeforeFunc != nil {
		return m.ListEndedBeforeFunc(ctx, date)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) ListActiveCustomerIDs(ctx context.Context) ([]uint, error) {
	if m.ListActiveCustomerIDsFunc != nil {
		return m.ListActiveCustomerIDsFunc(ctx)
	}
	return nil, nil
}

type mockDeliveryRepository struct {
	DeleteScheduledFunc func(ctx context.Context, subID uint, from time.Time, to *time.Time) (int64, error)
	CancelScheduledFunc func(ctx context.Context, subID uint, from time.Time) (int64, error)
}

func (m *mockDeliveryRepository) TryInsert(context.Context, *delivery.Delivery) (delivery.InsertResult, error) {
	return delivery.InsertCreated, nil
}

func (m *mockDeliveryRepository) Create(context.Context, *delivery.Delivery) error { return nil }

func (m *mockDeliveryRepository) GetByID(context.Context, uint) (*delivery.Delivery, error) {
	return nil, nil
}

func (m *mockDeliveryRepository) Update(context.Context, *delivery.Delivery) error { return nil }

func (m *mockDeliveryRepository) ListForCustomerPeriod(context.Context, uint, schedule.DateRange) ([]*delivery.Delivery, error) {
	return nil, nil
}

func (m *mockDeliveryRepository) CountForSubscription(context.Context, uint) (int64, error) {
	return 0, nil
}

func (m *mockDeliveryRepository) CancelScheduledForSubscription(ctx context.Context, subID uint, from time.Time) (int64, error) {
	if m.CancelScheduledFunc != nil {
		return m.CancelScheduledFunc(ctx, subID, from)
	}
	return 0, nil
}

func (m *mockDeliveryRepository) DeleteScheduledForSubscription(ctx context.Context, subID uint, from time.Time, to *time.Time) (int64, error) {
	if m.DeleteScheduledFunc != nil {
		return m.DeleteScheduledFunc(ctx, subID, from, to)
	}
	return 0, nil
}

func (m *mockDeliveryRepository) CancelScheduledForAdhocItems(context.Context, []uint) (int64, error) {
	return 0, nil
}

type mockProductRepository struct {
	GetByIDFunc func(ctx context.Context, id uint) (*catalog.Product, error)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id uint) (*catalog.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return catalog.ReconstructProduct(id, "Toned milk", "litre", decimal.NewFromInt(60), true), nil
}

func (m *mockProductRepository) GetPriceOn(context.Context, uint, time.Time) (decimal.Decimal, error) {
	return decimal.NewFromInt(60), nil
}

type mockAddressRepository struct {
	GetByIDFunc func(ctx context.Context, id uint) (*customer.Address, error)
}

func (m *mockAddressRepository) GetByID(ctx context.Context, id uint) (*customer.Address, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return customer.ReconstructAddress(id, 3, "Home", "12 Lake Road"), nil
}

type staticSettings struct {
	settings setting.BusinessSettings
	err      error
}

func (s staticSettings) BusinessSettings(context.Context) (setting.BusinessSettings, error) {
	return s.settings, s.err
}

func defaultSettings() staticSettings {
	return staticSettings{settings: setting.DefaultBusinessSettings()}
}

type mockMaterializer struct {
	MaterializeFunc func(ctx context.Context, sub *subscription.Subscription, window schedule.DateRange) (services.MaterializeResult, error)
	windows         []schedule.DateRange
}

func (m *mockMaterializer) MaterializeSubscription(ctx context.Context, sub *subscription.Subscription, window schedule.DateRange) (services.MaterializeResult, error) {
	m.windows = append(m.windows, window)
	if m.MaterializeFunc != nil {
		return m.MaterializeFunc(ctx, sub, window)
	}
	return services.MaterializeResult{Created: window.Days()}, nil
}

type recordingPublisher struct {
	events []events.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e events.DomainEvent) error {
	p.events = append(p.events, e)
	return nil
}
