package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/milkrun/milkrun/internal/domain/billing/valueobjects"
	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	"github.com/milkrun/milkrun/internal/shared/id"
)

// Bill is a customer's statement for one billing period.
type Bill struct {
	id               uint
	billNumber       string
	customerID       uint
	periodStart      time.Time
	periodEnd        time.Time
	totalDeliveries  int
	missedDeliveries int
	vacationDays     int
	holidayDays      int
	totals           Totals
	status           vo.BillStatus
	dueDate          time.Time
	generatedAt      time.Time
	cancelledAt      *time.Time
	cancelReason     string
	items            []*BillItem
	version          int
	createdAt        time.Time
	updatedAt        time.Time
}

// NewBillParams is everything the aggregator collected for the period.
type NewBillParams struct {
	CustomerID       uint
	Period           schedule.DateRange
	Items            []*BillItem
	TotalDeliveries  int
	MissedDeliveries int
	VacationDays     int
	HolidayDays      int
	TaxPercentage    decimal.Decimal
	WalletBalance    decimal.Decimal
	DueDays          int
}

// NewBill prices the items and applies tax and wallet credit. A bill whose
// total is fully covered by credit starts out PAID.
func NewBill(p NewBillParams) (*Bill, error) {
	if p.CustomerID == 0 {
		return nil, fmt.Errorf("customer ID is required")
	}
	number, err := id.NewDocumentNumber(id.PrefixBill, p.Period.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to generate bill number: %w", err)
	}

	totals := CalculateTotals(
		SumByOrigin(p.Items, vo.OriginRegular),
		SumByOrigin(p.Items, vo.OriginAdhoc),
		p.TaxPercentage,
		p.WalletBalance,
	)

	status := vo.BillStatusGenerated
	if totals.TotalAmount.IsZero() {
		status = vo.BillStatusPaid
	}

	now := biztime.NowUTC()
	return &Bill{
		billNumber:       number,
		customerID:       p.CustomerID,
		periodStart:      p.Period.Start,
		periodEnd:        p.Period.End,
		totalDeliveries:  p.TotalDeliveries,
		missedDeliveries: p.MissedDeliveries,
		vacationDays:     p.VacationDays,
		holidayDays:      p.HolidayDays,
		totals:           totals,
		status:           status,
		dueDate:          biztime.AddDays(p.Period.End, p.DueDays),
		generatedAt:      now,
		items:            p.Items,
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// BillReconstructParams carries every persisted column.
type BillReconstructParams struct {
	ID               uint
	BillNumber       string
	CustomerID       uint
	PeriodStart      time.Time
	PeriodEnd        time.Time
	TotalDeliveries  int
	MissedDeliveries int
	VacationDays     int
	HolidayDays      int
	Totals           Totals
	Status           vo.BillStatus
	DueDate          time.Time
	GeneratedAt      time.Time
	CancelledAt      *time.Time
	CancelReason     string
	Items            []*BillItem
	Version          int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func ReconstructBill(p BillReconstructParams) (*Bill, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("bill ID cannot be zero")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid bill status: %s", p.Status)
	}
	return &Bill{
		id:               p.ID,
		billNumber:       p.BillNumber,
		customerID:       p.CustomerID,
		periodStart:      p.PeriodStart,
		periodEnd:        p.PeriodEnd,
		totalDeliveries:  p.TotalDeliveries,
		missedDeliveries: p.MissedDeliveries,
		vacationDays:     p.VacationDays,
		holidayDays:      p.HolidayDays,
		totals:           p.Totals,
		status:           p.Status,
		dueDate:          p.DueDate,
		generatedAt:      p.GeneratedAt,
		cancelledAt:      p.CancelledAt,
		cancelReason:     p.CancelReason,
		items:            p.Items,
		version:          p.Version,
		createdAt:        p.CreatedAt,
		updatedAt:        p.UpdatedAt,
	}, nil
}

func (b *Bill) ID() uint                        { return b.id }
func (b *Bill) BillNumber() string              { return b.billNumber }
func (b *Bill) CustomerID() uint                { return b.customerID }
func (b *Bill) PeriodStart() time.Time          { return b.periodStart }
func (b *Bill) PeriodEnd() time.Time            { return b.periodEnd }
func (b *Bill) TotalDeliveries() int            { return b.totalDeliveries }
func (b *Bill) MissedDeliveries() int           { return b.missedDeliveries }
func (b *Bill) VacationDays() int               { return b.vacationDays }
func (b *Bill) HolidayDays() int                { return b.holidayDays }
func (b *Bill) Totals() Totals                  { return b.totals }
func (b *Bill) TotalAmount() decimal.Decimal    { return b.totals.TotalAmount }
func (b *Bill) CreditsApplied() decimal.Decimal { return b.totals.CreditsApplied }
func (b *Bill) Status() vo.BillStatus           { return b.status }
func (b *Bill) DueDate() time.Time              { return b.dueDate }
func (b *Bill) GeneratedAt() time.Time          { return b.generatedAt }
func (b *Bill) CancelledAt() *time.Time         { return b.cancelledAt }
func (b *Bill) CancelReason() string            { return b.cancelReason }
func (b *Bill) Items() []*BillItem              { return b.items }
func (b *Bill) Version() int                    { return b.version }
func (b *Bill) CreatedAt() time.Time            { return b.createdAt }
func (b *Bill) UpdatedAt() time.Time            { return b.updatedAt }

// SetID sets the bill ID and propagates it to the items (persistence only).
func (b *Bill) SetID(id uint) {
	b.id = id
	for _, item := range b.items {
		item.SetBillID(id)
	}
}

func (b *Bill) Period() schedule.DateRange {
	return schedule.DateRange{Start: b.periodStart, End: b.periodEnd}
}

// Outstanding is what remains after paid.
func (b *Bill) Outstanding(paid decimal.Decimal) decimal.Decimal {
	rest := b.totals.TotalAmount.Sub(paid)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// CheckPayment validates a new payment of amount given what was already paid.
func (b *Bill) CheckPayment(amount, paid decimal.Decimal) error {
	if !b.status.AcceptsPayment() {
		return fmt.Errorf("%w: status is %s", ErrBillNotPayable, b.status)
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if outstanding := b.Outstanding(paid); amount.GreaterThan(outstanding) {
		return fmt.Errorf("%w: outstanding %s, offered %s",
			ErrPaymentExceedsOutstanding, outstanding.StringFixed(2), amount.StringFixed(2))
	}
	return nil
}

// ApplyPaidTotal recomputes the status from the sum of successful payments:
// fully covered is PAID, partly covered is PARTIAL, nothing paid keeps the
// current status.
func (b *Bill) ApplyPaidTotal(paid decimal.Decimal) {
	switch {
	case !paid.LessThan(b.totals.TotalAmount):
		b.status = vo.BillStatusPaid
	case paid.IsPositive():
		b.status = vo.BillStatusPartial
	default:
		return
	}
	b.touch()
}

// MarkOverdue flags an unpaid bill whose due date lies before today.
func (b *Bill) MarkOverdue(today time.Time) bool {
	if !b.status.CanBecomeOverdue() || !b.dueDate.Before(biztime.TruncateDate(today)) {
		return false
	}
	b.status = vo.BillStatusOverdue
	b.touch()
	return true
}

// Cancel voids the bill. Bills with successful payments cannot be voided.
func (b *Bill) Cancel(reason string, hasPayments bool) error {
	if b.status == vo.BillStatusCancelled {
		return fmt.Errorf("%w: already cancelled", ErrBillNotPayable)
	}
	if hasPayments {
		return ErrBillHasPayments
	}
	now := biztime.NowUTC()
	b.status = vo.BillStatusCancelled
	b.cancelledAt = &now
	b.cancelReason = reason
	b.touch()
	return nil
}

func (b *Bill) touch() {
	b.updatedAt = biztime.NowUTC()
	b.version++
}
