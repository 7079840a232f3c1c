package billing

import (
	"strconv"

	"github.com/milkrun/milkrun/internal/domain/shared/events"
)

const (
	EventBillGenerated   = "billing.bill.generated"
	EventBillOverdue     = "billing.bill.overdue"
	EventBillCancelled   = "billing.bill.cancelled"
	EventPaymentRecorded = "billing.payment.recorded"
)

// BillEvent carries the bill fields a notifier needs.
type BillEvent struct {
	events.BaseEvent
	BillNumber  string `json:"bill_number"`
	CustomerID  uint   `json:"customer_id"`
	Status      string `json:"status"`
	TotalAmount string `json:"total_amount"`
	DueDate     string `json:"due_date"`
}

func NewBillEvent(eventType string, b *Bill) BillEvent {
	return BillEvent{
		BaseEvent:   events.NewBaseEvent(strconv.FormatUint(uint64(b.ID()), 10), eventType),
		BillNumber:  b.BillNumber(),
		CustomerID:  b.CustomerID(),
		Status:      b.Status().String(),
		TotalAmount: b.TotalAmount().StringFixed(2),
		DueDate:     b.DueDate().Format("2006-01-02"),
	}
}

type PaymentRecordedEvent struct {
	events.BaseEvent
	BillID     uint   `json:"bill_id"`
	CustomerID uint   `json:"customer_id"`
	Amount     string `json:"amount"`
	Method     string `json:"method"`
	BillStatus string `json:"bill_status"`
}

func NewPaymentRecordedEvent(p *Payment, b *Bill) PaymentRecordedEvent {
	return PaymentRecordedEvent{
		BaseEvent:  events.NewBaseEvent(strconv.FormatUint(uint64(p.ID()), 10), EventPaymentRecorded),
		BillID:     b.ID(),
		CustomerID: b.CustomerID(),
		Amount:     p.Amount().StringFixed(2),
		Method:     p.Method().String(),
		BillStatus: b.Status().String(),
	}
}
