package subscription

import (
	"context"
	"time"

	"github.com/milkrun/milkrun/internal/domain/schedule"
)

type Repository interface {
	Create(ctx context.Context, subscription *Subscription) error
	// GetByID returns nil, nil when the subscription does not exist.
	GetByID(ctx context.Context, id uint) (*Subscription, error)
	// Update persists with optimistic locking on version.
	Update(ctx context.Context, subscription *Subscription) error

	// ListSchedulable returns ACTIVE and PAUSED subscriptions.
	ListSchedulable(ctx context.Context) ([]*Subscription, error)
	// ListEndedBefore returns ACTIVE and PAUSED subscriptions whose end date is before date.
	ListEndedBefore(ctx context.Context, date time.Time) ([]*Subscription, error)
	// ListActiveCustomerIDs returns customers with at least one ACTIVE subscription.
	ListActiveCustomerIDs(ctx context.Context) ([]uint, error)
}

type VacationRepository interface {
	// ListOverlapping returns the subscription's vacations intersecting rng.
	ListOverlapping(ctx context.Context, subscriptionID uint, rng schedule.DateRange) ([]*Vacation, error)
	// ListOverlappingForCustomer covers every subscription the customer owns.
	ListOverlappingForCustomer(ctx context.Context, customerID uint, rng schedule.DateRange) ([]*Vacation, error)
}
