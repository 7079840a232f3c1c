package adhoc

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/milkrun/milkrun/internal/domain/adhoc/valueobjects"
	"github.com/milkrun/milkrun/internal/shared/biztime"
)

// Item is one product/date line of an adhoc request. unitPrice is the price
// at submission and never changes afterwards.
type Item struct {
	id              uint
	requestID       uint
	productID       uint
	requestedDate   time.Time
	quantity        decimal.Decimal
	unitPrice       decimal.Decimal
	status          vo.ItemStatus
	rejectionReason string
}

func NewItem(productID uint, requestedDate time.Time, quantity, unitPrice decimal.Decimal) (*Item, error) {
	if productID == 0 {
		return nil, fmt.Errorf("%w: product ID is required", ErrInvalidItem)
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidItem)
	}
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: unit price cannot be negative", ErrInvalidItem)
	}
	return &Item{
		productID:     productID,
		requestedDate: biztime.TruncateDate(requestedDate),
		quantity:      quantity,
		unitPrice:     unitPrice,
		status:        vo.ItemPending,
	}, nil
}

func ReconstructItem(id, requestID, productID uint, requestedDate time.Time, quantity, unitPrice decimal.Decimal, status vo.ItemStatus, rejectionReason string) *Item {
	return &Item{
		id:              id,
		requestID:       requestID,
		productID:       productID,
		requestedDate:   requestedDate,
		quantity:        quantity,
		unitPrice:       unitPrice,
		status:          status,
		rejectionReason: rejectionReason,
	}
}

func (i *Item) ID() uint                   { return i.id }
func (i *Item) RequestID() uint            { return i.requestID }
func (i *Item) ProductID() uint            { return i.productID }
func (i *Item) RequestedDate() time.Time   { return i.requestedDate }
func (i *Item) Quantity() decimal.Decimal  { return i.quantity }
func (i *Item) UnitPrice() decimal.Decimal { return i.unitPrice }
func (i *Item) Status() vo.ItemStatus      { return i.status }
func (i *Item) RejectionReason() string    { return i.rejectionReason }

// SetID and SetRequestID are for the persistence layer only.
func (i *Item) SetID(id uint)               { i.id = id }
func (i *Item) SetRequestID(requestID uint) { i.requestID = requestID }

func (i *Item) Amount() decimal.Decimal {
	return i.quantity.Mul(i.unitPrice)
}

func (i *Item) approve() {
	i.status = vo.ItemApproved
	i.rejectionReason = ""
}

func (i *Item) reject(reason string) {
	i.status = vo.ItemRejected
	i.rejectionReason = reason
}
