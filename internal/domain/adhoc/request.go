package adhoc

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/milkrun/milkrun/internal/domain/adhoc/valueobjects"
	"github.com/milkrun/milkrun/internal/shared/biztime"
)

// Request is a customer's one-off order, reviewed by an admin before any
// delivery is scheduled.
type Request struct {
	id            uint
	customerID    uint
	addressID     uint
	status        vo.RequestStatus
	items         []*Item
	estimatedCost decimal.Decimal
	notes         string
	reviewedBy    *uint
	reviewedAt    *time.Time
	adminNotes    string
	cancelledAt   *time.Time
	version       int
	createdAt     time.Time
	updatedAt     time.Time
}

// ItemDecision is the admin's per-item verdict in a partial review.
type ItemDecision struct {
	Approve bool
	Reason  string
}

func NewRequest(customerID, addressID uint, items []*Item, notes string) (*Request, error) {
	if customerID == 0 {
		return nil, fmt.Errorf("customer ID is required")
	}
	if addressID == 0 {
		return nil, fmt.Errorf("address ID is required")
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	now := biztime.NowUTC()
	r := &Request{
		customerID: customerID,
		addressID:  addressID,
		status:     vo.RequestPending,
		notes:      notes,
		version:    1,
		createdAt:  now,
		updatedAt:  now,
	}
	r.setItems(items)
	return r, nil
}

// RequestReconstructParams carries every persisted column.
type RequestReconstructParams struct {
	ID            uint
	CustomerID    uint
	AddressID     uint
	Status        vo.RequestStatus
	Items         []*Item
	EstimatedCost decimal.Decimal
	Notes         string
	ReviewedBy    *uint
	ReviewedAt    *time.Time
	AdminNotes    string
	CancelledAt   *time.Time
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func ReconstructRequest(p RequestReconstructParams) (*Request, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("adhoc request ID cannot be zero")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid adhoc request status: %s", p.Status)
	}
	return &Request{
		id:            p.ID,
		customerID:    p.CustomerID,
		addressID:     p.AddressID,
		status:        p.Status,
		items:         p.Items,
		estimatedCost: p.EstimatedCost,
		notes:         p.Notes,
		reviewedBy:    p.ReviewedBy,
		reviewedAt:    p.ReviewedAt,
		adminNotes:    p.AdminNotes,
		cancelledAt:   p.CancelledAt,
		version:       p.Version,
		createdAt:     p.CreatedAt,
		updatedAt:     p.UpdatedAt,
	}, nil
}

func (r *Request) ID() uint                       { return r.id }
func (r *Request) CustomerID() uint               { return r.customerID }
func (r *Request) AddressID() uint                { return r.addressID }
func (r *Request) Status() vo.RequestStatus       { return r.status }
func (r *Request) Items() []*Item                 { return r.items }
func (r *Request) EstimatedCost() decimal.Decimal { return r.estimatedCost }
func (r *Request) Notes() string                  { return r.notes }
func (r *Request) ReviewedBy() *uint              { return r.reviewedBy }
func (r *Request) ReviewedAt() *time.Time         { return r.reviewedAt }
func (r *Request) AdminNotes() string             { return r.adminNotes }
func (r *Request) CancelledAt() *time.Time        { return r.cancelledAt }
func (r *Request) Version() int                   { return r.version }
func (r *Request) CreatedAt() time.Time           { return r.createdAt }
func (r *Request) UpdatedAt() time.Time           { return r.updatedAt }

// SetID sets the request ID and propagates it to the items (persistence only).
func (r *Request) SetID(id uint) {
	r.id = id
	for _, item := range r.items {
		item.SetRequestID(id)
	}
}

func (r *Request) setItems(items []*Item) {
	total := decimal.Zero
	for _, item := range items {
		item.SetRequestID(r.id)
		total = total.Add(item.Amount())
	}
	r.items = items
	r.estimatedCost = total.Round(2)
}

// ReplaceItems swaps the whole item list while the request is pending.
func (r *Request) ReplaceItems(items []*Item, notes *string) error {
	if r.status != vo.RequestPending {
		return ErrNotPending
	}
	if len(items) == 0 {
		return ErrNoItems
	}
	r.setItems(items)
	if notes != nil {
		r.notes = *notes
	}
	r.updatedAt = biztime.NowUTC()
	r.version++
	return nil
}

// ApprovedItems returns the items currently in APPROVED state.
func (r *Request) ApprovedItems() []*Item {
	var approved []*Item
	for _, item := range r.items {
		if item.status == vo.ItemApproved {
			approved = append(approved, item)
		}
	}
	return approved
}

// Approve accepts every item.
func (r *Request) Approve(reviewerID uint, adminNotes string) error {
	decisions := make(map[uint]ItemDecision, len(r.items))
	for _, item := range r.items {
		decisions[item.id] = ItemDecision{Approve: true}
	}
	return r.review(reviewerID, adminNotes, decisions)
}

// Reject declines every item with the same reason.
func (r *Request) Reject(reviewerID uint, reason, adminNotes string) error {
	decisions := make(map[uint]ItemDecision, len(r.items))
	for _, item := range r.items {
		decisions[item.id] = ItemDecision{Reason: reason}
	}
	return r.review(reviewerID, adminNotes, decisions)
}

// ApplyDecisions reviews item by item. Every item needs a decision.
func (r *Request) ApplyDecisions(reviewerID uint, adminNotes string, decisions map[uint]ItemDecision) error {
	for itemID := range decisions {
		if r.item(itemID) == nil {
			return fmt.Errorf("%w: %d", ErrUnknownItem, itemID)
		}
	}
	return r.review(reviewerID, adminNotes, decisions)
}

func (r *Request) review(reviewerID uint, adminNotes string, decisions map[uint]ItemDecision) error {
	if r.status != vo.RequestPending {
		return ErrNotPending
	}
	for _, item := range r.items {
		if _, ok := decisions[item.id]; !ok {
			return fmt.Errorf("%w: item %d", ErrMissingDecision, item.id)
		}
	}

	for _, item := range r.items {
		if d := decisions[item.id]; d.Approve {
			item.approve()
		} else {
			item.reject(d.Reason)
		}
	}

	now := biztime.NowUTC()
	r.status = DeriveStatus(r.items)
	r.reviewedBy = &reviewerID
	r.reviewedAt = &now
	r.adminNotes = adminNotes
	r.updatedAt = now
	r.version++
	return nil
}

// DeriveStatus maps item states to the request state: all approved is
// APPROVED, all rejected is REJECTED, a mix is PARTIALLY_APPROVED and
// anything still pending keeps the request PENDING.
func DeriveStatus(items []*Item) vo.RequestStatus {
	var approved, rejected int
	for _, item := range items {
		switch item.status {
		case vo.ItemApproved:
			approved++
		case vo.ItemRejected:
			rejected++
		default:
			return vo.RequestPending
		}
	}
	switch {
	case approved == len(items) && approved > 0:
		return vo.RequestApproved
	case rejected == len(items) && rejected > 0:
		return vo.RequestRejected
	case approved > 0:
		return vo.RequestPartiallyApproved
	default:
		return vo.RequestPending
	}
}

// EarliestApprovedDate returns the first requested date among approved items.
func (r *Request) EarliestApprovedDate() (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, item := range r.ApprovedItems() {
		if !found || item.requestedDate.Before(earliest) {
			earliest = item.requestedDate
			found = true
		}
	}
	return earliest, found
}

// CancelDeadline is the last instant an approved request may be cancelled:
// the start of its earliest approved date in the business timezone, minus
// cancelBeforeHours.
func (r *Request) CancelDeadline(cancelBeforeHours int) (time.Time, bool) {
	earliest, ok := r.EarliestApprovedDate()
	if !ok {
		return time.Time{}, false
	}
	return biztime.StartOfDateUTC(earliest).Add(-time.Duration(cancelBeforeHours) * time.Hour), true
}

// Cancel withdraws the request. It returns the items whose approval is being
// undone so callers can release capacity and deliveries.
func (r *Request) Cancel(now time.Time, cancelBeforeHours int) ([]*Item, error) {
	var released []*Item
	switch r.status {
	case vo.RequestPending:
	case vo.RequestApproved:
		deadline, ok := r.CancelDeadline(cancelBeforeHours)
		if ok && now.After(deadline) {
			return nil, ErrCancelDeadline(deadline.Format(time.RFC3339))
		}
		released = r.ApprovedItems()
	default:
		return nil, fmt.Errorf("%w: status is %s", ErrNotCancellable, r.status)
	}

	r.status = vo.RequestCancelled
	r.cancelledAt = &now
	r.updatedAt = now
	r.version++
	return released, nil
}

func (r *Request) item(id uint) *Item {
	for _, item := range r.items {
		if item.id == id {
			return item
		}
	}
	return nil
}
