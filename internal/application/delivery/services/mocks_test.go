package services

import (
	"context"
	"fmt"
	"time"

	"github.com/milkrun/milkrun/internal/domain/delivery"
	"github.com/milkrun/milkrun/internal/domain/holiday"
	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/domain/subscription"
)

// memoryDeliveryRepo keeps one regular delivery per (subscription, date).
type memoryDeliveryRepo struct {
	regular map[string]*delivery.Delivery
	adhoc   []*delivery.Delivery
	nextID  uint
	failOn  *time.Time
}

func newMemoryDeliveryRepo() *memoryDeliveryRepo {
	return &memoryDeliveryRepo{regular: make(map[string]*delivery.Delivery)}
}

func regularKey(subID uint, date time.Time) string {
	return fmt.Sprintf("%d/%s", subID, date.Format("2006-01-02"))
}

func (r *memoryDeliveryRepo) TryInsert(_ context.Context, d *delivery.Delivery) (delivery.InsertResult, error) {
	if r.failOn != nil && r.failOn.Equal(d.DeliveryDate()) {
		return 0, fmt.Errorf("insert failed")
	}
	key := regularKey(*d.SubscriptionID(), d.DeliveryDate())
	if _, ok := r.regular[key]; ok {
		return delivery.InsertAlreadyExists, nil
	}
	r.nextID++
	d.SetID(r.nextID)
	r.regular[key] = d
	return delivery.InsertCreated, nil
}

func (r *memoryDeliveryRepo) Create(_ context.Context, d *delivery.Delivery) error {
	r.nextID++
	d.SetID(r.nextID)
	r.adhoc = append(r.adhoc, d)
	return nil
}

func (r *memoryDeliveryRepo) GetByID(context.Context, uint) (*delivery.Delivery, error) {
	return nil, nil
}

func (r *memoryDeliveryRepo) Update(context.Context, *delivery.Delivery) error { return nil }

func (r *memoryDeliveryRepo) ListForCustomerPeriod(context.Context, uint, schedule.DateRange) ([]*delivery.Delivery, error) {
	return nil, nil
}

func (r *memoryDeliveryRepo) CountForSubscription(_ context.Context, subID uint) (int64, error) {
	var n int64
	for _, d := range r.regular {
		if *d.SubscriptionID() == subID {
			n++
		}
	}
	return n, nil
}

func (r *memoryDeliveryRepo) CancelScheduledForSubscription(context.Context, uint, time.Time) (int64, error) {
	return 0, nil
}

func (r *memoryDeliveryRepo) DeleteScheduledForSubscription(context.Context, uint, time.Time, *time.Time) (int64, error) {
	return 0, nil
}

func (r *memoryDeliveryRepo) CancelScheduledForAdhocItems(context.Context, []uint) (int64, error) {
	return 0, nil
}

type mockVacationRepo struct {
	vacations []*subscription.Vacation
}

func (m *mockVacationRepo) ListOverlapping(_ context.Context, subID uint, rng schedule.DateRange) ([]*subscription.Vacation, error) {
	var out []*subscription.Vacation
	for _, v := range m.vacations {
		if v.SubscriptionID() != subID {
			continue
		}
		if _, ok := v.Range().Intersect(rng); ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *mockVacationRepo) ListOverlappingForCustomer(context.Context, uint, schedule.DateRange) ([]*subscription.Vacation, error) {
	return m.vacations, nil
}

type mockHolidayRepo struct {
	holidays []*holiday.Holiday
	err      error
}

func (m *mockHolidayRepo) ListInRange(_ context.Context, rng schedule.DateRange) ([]*holiday.Holiday, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*holiday.Holiday
	for _, h := range m.holidays {
		if rng.Contains(h.Date()) {
			out = append(out, h)
		}
	}
	return out, nil
}
