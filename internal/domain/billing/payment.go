package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/milkrun/milkrun/internal/domain/billing/valueobjects"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	"github.com/milkrun/milkrun/internal/shared/id"
)

// Payment is money received against a bill. Only SUCCESS payments count
// towards the bill's paid total.
type Payment struct {
	id         uint
	billID     uint
	customerID uint
	amount     decimal.Decimal
	method     vo.PaymentMethod
	status     vo.PaymentStatus
	reference  string
	paidAt     *time.Time
	notes      string
	createdAt  time.Time
}

// NewSuccessfulPayment records a payment that has already cleared. A missing
// reference gets a generated PAY-yyyymm-xxxx number.
func NewSuccessfulPayment(billID, customerID uint, amount decimal.Decimal, method vo.PaymentMethod, reference, notes string) (*Payment, error) {
	if billID == 0 {
		return nil, fmt.Errorf("bill ID is required")
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !method.IsValid() {
		return nil, fmt.Errorf("invalid payment method: %s", method)
	}

	now := biztime.NowUTC()
	if reference == "" {
		ref, err := id.NewDocumentNumber(id.PrefixPayment, now)
		if err != nil {
			return nil, fmt.Errorf("failed to generate payment reference: %w", err)
		}
		reference = ref
	}

	return &Payment{
		billID:     billID,
		customerID: customerID,
		amount:     vo.RoundMoney(amount),
		method:     method,
		status:     vo.PaymentStatusSuccess,
		reference:  reference,
		paidAt:     &now,
		notes:      notes,
		createdAt:  now,
	}, nil
}

func ReconstructPayment(id, billID, customerID uint, amount decimal.Decimal, method vo.PaymentMethod, status vo.PaymentStatus, reference string, paidAt *time.Time, notes string, createdAt time.Time) *Payment {
	return &Payment{
		id:         id,
		billID:     billID,
		customerID: customerID,
		amount:     amount,
		method:     method,
		status:     status,
		reference:  reference,
		paidAt:     paidAt,
		notes:      notes,
		createdAt:  createdAt,
	}
}

func (p *Payment) ID() uint                 { return p.id }
func (p *Payment) BillID() uint             { return p.billID }
func (p *Payment) CustomerID() uint         { return p.customerID }
func (p *Payment) Amount() decimal.Decimal  { return p.amount }
func (p *Payment) Method() vo.PaymentMethod { return p.method }
func (p *Payment) Status() vo.PaymentStatus { return p.status }
func (p *Payment) Reference() string        { return p.reference }
func (p *Payment) PaidAt() *time.Time       { return p.paidAt }
func (p *Payment) Notes() string            { return p.notes }
func (p *Payment) CreatedAt() time.Time     { return p.createdAt }

// SetID sets the payment ID (only for persistence layer use)
func (p *Payment) SetID(id uint) { p.id = id }
