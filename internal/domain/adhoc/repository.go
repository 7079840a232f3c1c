package adhoc

import (
	"context"
	"time"

	"github.com/milkrun/milkrun/internal/domain/schedule"
)

type RequestRepository interface {
	// Create stores the request and its items, assigning IDs to both.
	Create(ctx context.Context, request *Request) error
	// GetByID returns nil, nil when the request does not exist.
	GetByID(ctx context.Context, id uint) (*Request, error)
	// GetByIDForUpdate is GetByID with the request row locked until the
	// surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uint) (*Request, error)
	// Update stores the request row and the status of every item. It fails
	// with ErrVersionConflict when the row changed since it was loaded.
	Update(ctx context.Context, request *Request) error
	// ReplaceItems deletes the stored items and inserts the current ones.
	ReplaceItems(ctx context.Context, request *Request) error
}

// CapacityRepository stores per-date capacity. Rows without an admin override
// resolve their maximum to the defaultMax passed by the caller.
type CapacityRepository interface {
	// GetByDate returns nil, nil when no row exists for date.
	GetByDate(ctx context.Context, date time.Time, defaultMax int) (*Capacity, error)
	ListInRange(ctx context.Context, rng schedule.DateRange, defaultMax int) ([]*Capacity, error)
	// Increment adds delta to current_approved in one statement, creating the
	// row when absent. The result is floored at zero.
	Increment(ctx context.Context, date time.Time, delta int) error
	// TryReserve adds n to current_approved only if the date is open and the
	// result stays within its maximum, as one conditional statement. It
	// reports false when the row was left unchanged.
	TryReserve(ctx context.Context, date time.Time, n, defaultMax int) (bool, error)
	// SaveSettings upserts the admin fields without touching current_approved.
	SaveSettings(ctx context.Context, capacity *Capacity) error
}
