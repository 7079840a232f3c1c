package delivery

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/milkrun/milkrun/internal/domain/delivery/valueobjects"
	"github.com/milkrun/milkrun/internal/shared/biztime"
)

// Delivery is one drop at a customer's door on one date. Exactly one of
// subscriptionID or adhocItemID is set, matching the type.
type Delivery struct {
	id                uint
	deliveryType      vo.DeliveryType
	subscriptionID    *uint
	adhocItemID       *uint
	customerID        uint
	productID         uint
	deliveryDate      time.Time
	scheduledQuantity decimal.Decimal
	deliveredQuantity *decimal.Decimal
	unitPrice         *decimal.Decimal
	status            vo.DeliveryStatus
	deliveredAt       *time.Time
	notes             string
	createdAt         time.Time
	updatedAt         time.Time
}

// NewRegularDelivery creates a SCHEDULED delivery for a subscription date.
func NewRegularDelivery(subscriptionID, customerID, productID uint, date time.Time, quantity decimal.Decimal) (*Delivery, error) {
	if subscriptionID == 0 {
		return nil, fmt.Errorf("%w: subscription", ErrMissingOriginID)
	}
	return newDelivery(vo.TypeRegular, &subscriptionID, nil, customerID, productID, date, quantity, nil)
}

// NewAdhocDelivery creates a SCHEDULED delivery for an approved adhoc item,
// carrying the unit price snapshotted at submission.
func NewAdhocDelivery(adhocItemID, customerID, productID uint, date time.Time, quantity, unitPrice decimal.Decimal) (*Delivery, error) {
	if adhocItemID == 0 {
		return nil, fmt.Errorf("%w: adhoc item", ErrMissingOriginID)
	}
	return newDelivery(vo.TypeAdhoc, nil, &adhocItemID, customerID, productID, date, quantity, &unitPrice)
}

func newDelivery(t vo.DeliveryType, subscriptionID, adhocItemID *uint, customerID, productID uint, date time.Time, quantity decimal.Decimal, unitPrice *decimal.Decimal) (*Delivery, error) {
	if !quantity.IsPositive() {
		return nil, ErrInvalidScheduledQty
	}
	now := biztime.NowUTC()
	return &Delivery{
		deliveryType:      t,
		subscriptionID:    subscriptionID,
		adhocItemID:       adhocItemID,
		customerID:        customerID,
		productID:         productID,
		deliveryDate:      biztime.TruncateDate(date),
		scheduledQuantity: quantity,
		unitPrice:         unitPrice,
		status:            vo.StatusScheduled,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

// DeliveryReconstructParams carries every persisted column.
type DeliveryReconstructParams struct {
	ID                uint
	Type              vo.DeliveryType
	SubscriptionID    *uint
	AdhocItemID       *uint
	CustomerID        uint
	ProductID         uint
	DeliveryDate      time.Time
	ScheduledQuantity decimal.Decimal
	DeliveredQuantity *decimal.Decimal
	UnitPrice         *decimal.Decimal
	Status            vo.DeliveryStatus
	DeliveredAt       *time.Time
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func ReconstructDelivery(p DeliveryReconstructParams) (*Delivery, error) {
	if !p.Type.IsValid() {
		return nil, fmt.Errorf("invalid delivery type: %s", p.Type)
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid delivery status: %s", p.Status)
	}
	if (p.SubscriptionID == nil) == (p.AdhocItemID == nil) {
		return nil, fmt.Errorf("delivery %d must reference exactly one origin", p.ID)
	}
	return &Delivery{
		id:                p.ID,
		deliveryType:      p.Type,
		subscriptionID:    p.SubscriptionID,
		adhocItemID:       p.AdhocItemID,
		customerID:        p.CustomerID,
		productID:         p.ProductID,
		deliveryDate:      p.DeliveryDate,
		scheduledQuantity: p.ScheduledQuantity,
		deliveredQuantity: p.DeliveredQuantity,
		unitPrice:         p.UnitPrice,
		status:            p.Status,
		deliveredAt:       p.DeliveredAt,
		notes:             p.Notes,
		createdAt:         p.CreatedAt,
		updatedAt:         p.UpdatedAt,
	}, nil
}

func (d *Delivery) ID() uint                            { return d.id }
func (d *Delivery) Type() vo.DeliveryType               { return d.deliveryType }
func (d *Delivery) SubscriptionID() *uint               { return d.subscriptionID }
func (d *Delivery) AdhocItemID() *uint                  { return d.adhocItemID }
func (d *Delivery) CustomerID() uint                    { return d.customerID }
func (d *Delivery) ProductID() uint                     { return d.productID }
func (d *Delivery) DeliveryDate() time.Time             { return d.deliveryDate }
func (d *Delivery) ScheduledQuantity() decimal.Decimal  { return d.scheduledQuantity }
func (d *Delivery) DeliveredQuantity() *decimal.Decimal { return d.deliveredQuantity }
func (d *Delivery) UnitPrice() *decimal.Decimal         { return d.unitPrice }
func (d *Delivery) Status() vo.DeliveryStatus           { return d.status }
func (d *Delivery) DeliveredAt() *time.Time             { return d.deliveredAt }
func (d *Delivery) Notes() string                       { return d.notes }
func (d *Delivery) CreatedAt() time.Time                { return d.createdAt }
func (d *Delivery) UpdatedAt() time.Time                { return d.updatedAt }

// SetID sets the delivery ID (only for persistence layer use)
func (d *Delivery) SetID(id uint) {
	d.id = id
}

// ChargeableQuantity is the delivered quantity when recorded, else the scheduled one.
func (d *Delivery) ChargeableQuantity() decimal.Decimal {
	if d.deliveredQuantity != nil {
		return *d.deliveredQuantity
	}
	return d.scheduledQuantity
}

// RecordFulfillment stores the driver's outcome. DELIVERED without a
// quantity means the full scheduled quantity; PARTIAL needs 0 < qty < scheduled;
// MISSED clears any quantity.
func (d *Delivery) RecordFulfillment(outcome vo.DeliveryStatus, delivered *decimal.Decimal, notes string) error {
	if d.status.IsTerminal() {
		return ErrDeliveryTerminal
	}
	if !outcome.IsFulfillmentOutcome() {
		return fmt.Errorf("%w: %s", ErrInvalidOutcome, outcome)
	}

	var qty *decimal.Decimal
	switch outcome {
	case vo.StatusDelivered:
		q := d.scheduledQuantity
		if delivered != nil {
			if !delivered.IsPositive() {
				return fmt.Errorf("%w: must be positive", ErrInvalidDeliveredQty)
			}
			q = *delivered
		}
		qty = &q
	case vo.StatusPartial:
		if delivered == nil || !delivered.IsPositive() || !delivered.LessThan(d.scheduledQuantity) {
			return fmt.Errorf("%w: partial delivery must be between 0 and %s", ErrInvalidDeliveredQty, d.scheduledQuantity)
		}
		q := *delivered
		qty = &q
	}

	now := biztime.NowUTC()
	d.status = outcome
	d.deliveredQuantity = qty
	if outcome == vo.StatusMissed {
		d.deliveredAt = nil
	} else {
		d.deliveredAt = &now
	}
	if notes != "" {
		d.notes = notes
	}
	d.updatedAt = now
	return nil
}

// Cancel drops a delivery that has not happened yet.
func (d *Delivery) Cancel() error {
	if d.status == vo.StatusCancelled {
		return nil
	}
	if d.status != vo.StatusScheduled {
		return ErrDeliveryTerminal
	}
	d.status = vo.StatusCancelled
	d.updatedAt = biztime.NowUTC()
	return nil
}
