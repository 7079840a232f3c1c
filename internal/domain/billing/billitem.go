package billing

import (
	"sort"

	"github.com/shopspring/decimal"

	vo "github.com/milkrun/milkrun/internal/domain/billing/valueobjects"
)

type BillItem struct {
	id            uint
	billID        uint
	origin        vo.ItemOrigin
	productID     uint
	quantity      decimal.Decimal
	unitPrice     decimal.Decimal
	amount        decimal.Decimal
	deliveryCount int
}

func ReconstructBillItem(id, billID uint, origin vo.ItemOrigin, productID uint, quantity, unitPrice, amount decimal.Decimal, deliveryCount int) *BillItem {
	return &BillItem{
		id:            id,
		billID:        billID,
		origin:        origin,
		productID:     productID,
		quantity:      quantity,
		unitPrice:     unitPrice,
		amount:        amount,
		deliveryCount: deliveryCount,
	}
}

func (i *BillItem) ID() uint                   { return i.id }
func (i *BillItem) BillID() uint               { return i.billID }
func (i *BillItem) Origin() vo.ItemOrigin      { return i.origin }
func (i *BillItem) ProductID() uint            { return i.productID }
func (i *BillItem) Quantity() decimal.Decimal  { return i.quantity }
func (i *BillItem) UnitPrice() decimal.Decimal { return i.unitPrice }
func (i *BillItem) Amount() decimal.Decimal    { return i.amount }
func (i *BillItem) DeliveryCount() int         { return i.deliveryCount }

// SetID and SetBillID are for the persistence layer only.
func (i *BillItem) SetID(id uint)         { i.id = id }
func (i *BillItem) SetBillID(billID uint) { i.billID = billID }

type itemKey struct {
	origin    vo.ItemOrigin
	productID uint
	unitPrice string
}

// ItemGrouper folds charged deliveries into as few bill lines as possible:
// one line per origin, product and unit price.
type ItemGrouper struct {
	items map[itemKey]*BillItem
}

func NewItemGrouper() *ItemGrouper {
	return &ItemGrouper{items: make(map[itemKey]*BillItem)}
}

// Add charges quantity at unitPrice and returns the delivery's amount.
func (g *ItemGrouper) Add(origin vo.ItemOrigin, productID uint, quantity, unitPrice decimal.Decimal) decimal.Decimal {
	key := itemKey{origin: origin, productID: productID, unitPrice: unitPrice.String()}
	item, ok := g.items[key]
	if !ok {
		item = &BillItem{origin: origin, productID: productID, unitPrice: unitPrice}
		g.items[key] = item
	}
	amount := quantity.Mul(unitPrice)
	item.quantity = item.quantity.Add(quantity)
	item.amount = item.amount.Add(amount)
	item.deliveryCount++
	return amount
}

// Items returns the grouped lines with amounts rounded, in a stable order.
func (g *ItemGrouper) Items() []*BillItem {
	items := make([]*BillItem, 0, len(g.items))
	for _, item := range g.items {
		item.amount = vo.RoundMoney(item.amount)
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.origin != b.origin {
			return a.origin == vo.OriginRegular
		}
		if a.productID != b.productID {
			return a.productID < b.productID
		}
		return a.unitPrice.LessThan(b.unitPrice)
	})
	return items
}

// SumByOrigin adds the rounded amounts of items with the given origin.
func SumByOrigin(items []*BillItem, origin vo.ItemOrigin) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.origin == origin {
			total = total.Add(item.amount)
		}
	}
	return total
}
