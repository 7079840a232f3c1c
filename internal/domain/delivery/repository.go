package delivery

import (
	"context"
	"time"

	"github.com/milkrun/milkrun/internal/domain/schedule"
)

// InsertResult is the outcome of an insert-or-skip.
type InsertResult int

const (
	InsertCreated InsertResult = iota + 1
	InsertAlreadyExists
)

func (r InsertResult) String() string {
	switch r {
	case InsertCreated:
		return "created"
	case InsertAlreadyExists:
		return "already_exists"
	default:
		return "unknown"
	}
}

type Repository interface {
	// TryInsert stores a REGULAR delivery unless one already exists for the
	// same (subscription, date); that case is InsertAlreadyExists, not an error.
	TryInsert(ctx context.Context, d *Delivery) (InsertResult, error)
	Create(ctx context.Context, d *Delivery) error
	// GetByID returns nil, nil when the delivery does not exist.
	GetByID(ctx context.Context, id uint) (*Delivery, error)
	Update(ctx context.Context, d *Delivery) error

	// ListForCustomerPeriod returns every delivery of the customer, of either
	// origin, dated within rng.
	ListForCustomerPeriod(ctx context.Context, customerID uint, rng schedule.DateRange) ([]*Delivery, error)
	CountForSubscription(ctx context.Context, subscriptionID uint) (int64, error)

	// CancelScheduledForSubscription cancels SCHEDULED deliveries dated on or
	// after from.
	CancelScheduledForSubscription(ctx context.Context, subscriptionID uint, from time.Time) (int64, error)
	// DeleteScheduledForSubscription removes SCHEDULED deliveries dated from
	// "from" on, up to "to" when given, so the dates can be materialized again.
	DeleteScheduledForSubscription(ctx context.Context, subscriptionID uint, from time.Time, to *time.Time) (int64, error)
	CancelScheduledForAdhocItems(ctx context.Context, itemIDs []uint) (int64, error)
}
