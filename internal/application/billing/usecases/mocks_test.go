package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/milkrun/milkrun/internal/domain/billing"
	"github.com/milkrun/milkrun/internal/domain/catalog"
	"github.com/milkrun/milkrun/internal/domain/delivery"
	"github.com/milkrun/milkrun/internal/domain/holiday"
	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/domain/setting"
	"github.com/milkrun/milkrun/internal/domain/shared/events"
	"github.com/milkrun/milkrun/internal/domain/subscription"
	"github.com/milkrun/milkrun/internal/shared/biztime"
)

type memoryBillRepo struct {
	bills   map[uint]*billing.Bill
	nextID  uint
	updates int

	UpdateFunc func(ctx context.Context, bill *billing.Bill) error
}

func newMemoryBillRepo(bills ...*billing.Bill) *memoryBillRepo {
	r := &memoryBillRepo{bills: make(map[uint]*billing.Bill), nextID: 500}
	for _, b := range bills {
		r.bills[b.ID()] = b
	}
	return r
}

func (r *memoryBillRepo) Create(_ context.Context, bill *billing.Bill) error {
	for _, b := range r.bills {
		if b.CustomerID() == bill.CustomerID() && b.PeriodStart().Equal(bill.PeriodStart()) && b.PeriodEnd().Equal(bill.PeriodEnd()) {
			return billing.ErrBillAlreadyExists
		}
	}
	r.nextID++
	bill.SetID(r.nextID)
	r.bills[bill.ID()] = bill
	return nil
}

func (r *memoryBillRepo) GetByID(_ context.Context, id uint) (*billing.Bill, error) {
	return r.bills[id], nil
}

func (r *memoryBillRepo) ExistsForPeriod(_ context.Context, customerID uint, period schedule.DateRange) (bool, error) {
	for _, b := range r.bills {
		if b.CustomerID() == customerID && b.PeriodStart().Equal(period.Start) && b.PeriodEnd().Equal(period.End) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryBillRepo) Update(ctx context.Context, bill *billing.Bill) error {
	if r.UpdateFunc != nil {
		return r.UpdateFunc(ctx, bill)
	}
	r.updates++
	r.bills[bill.ID()] = bill
	return nil
}

func (r *memoryBillRepo) ListOverdueCandidates(_ context.Context, date time.Time) ([]*billing.Bill, error) {
	var out []*billing.Bill
	for _, b := range r.bills {
		if b.Status().CanBecomeOverdue() && b.DueDate().Before(date) {
			out = append(out, b)
		}
	}
	return out, nil
}

type memoryPaymentRepo struct {
	payments []*billing.Payment
}

func (r *memoryPaymentRepo) Create(_ context.Context, p *billing.Payment) error {
	p.SetID(uint(len(r.payments) + 1))
	r.payments = append(r.payments, p)
	return nil
}

func (r *memoryPaymentRepo) SumSuccessful(_ context.Context, billID uint) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.payments {
		if p.BillID() == billID {
			sum = sum.Add(p.Amount())
		}
	}
	return sum, nil
}

func (r *memoryPaymentRepo) ListByBill(_ context.Context, billID uint) ([]*billing.Payment, error) {
	var out []*billing.Payment
	for _, p := range r.payments {
		if p.BillID() == billID {
			out = append(out, p)
		}
	}
	return out, nil
}

// memoryWalletRepo keeps one wallet per customer with the conditional debit
// of the SQL store.
type memoryWalletRepo struct {
	balances     map[uint]decimal.Decimal
	transactions []*billing.WalletTransaction
	lockedReads  int
}

func newMemoryWalletRepo() *memoryWalletRepo {
	return &memoryWalletRepo{balances: make(map[uint]decimal.Decimal)}
}

func (r *memoryWalletRepo) wallet(customerID uint) *billing.Wallet {
	return billing.ReconstructWallet(customerID+1000, customerID, r.balances[customerID], time.Time{})
}

func (r *memoryWalletRepo) GetByCustomer(_ context.Context, customerID uint) (*billing.Wallet, error) {
	if _, ok := r.balances[customerID]; !ok {
		return nil, nil
	}
	return r.wallet(customerID), nil
}

func (r *memoryWalletRepo) GetByCustomerForUpdate(ctx context.Context, customerID uint) (*billing.Wallet, error) {
	r.lockedReads++
	return r.GetByCustomer(ctx, customerID)
}

func (r *memoryWalletRepo) Credit(_ context.Context, customerID uint, amount decimal.Decimal) (*billing.Wallet, error) {
	r.balances[customerID] = r.balances[customerID].Add(amount)
	return r.wallet(customerID), nil
}

func (r *memoryWalletRepo) Debit(_ context.Context, customerID uint, amount decimal.Decimal) (*billing.Wallet, error) {
	if r.balances[customerID].LessThan(amount) {
		return nil, billing.ErrInsufficientWalletBalance
	}
	r.balances[customerID] = r.balances[customerID].Sub(amount)
	return r.wallet(customerID), nil
}

func (r *memoryWalletRepo) AppendTransaction(_ context.Context, tx *billing.WalletTransaction) error {
	r.transactions = append(r.transactions, tx)
	return nil
}

func (r *memoryWalletRepo) ListTransactions(_ context.Context, walletID uint) ([]*billing.WalletTransaction, error) {
	var out []*billing.WalletTransaction
	for _, tx := range r.transactions {
		if tx.WalletID() == walletID {
			out = append(out, tx)
		}
	}
	return out, nil
}

type mockDeliveryRepository struct {
	deliveries []*delivery.Delivery
}

func (m *mockDeliveryRepository) TryInsert(context.Context, *delivery.Delivery) (delivery.InsertResult, error) {
	return delivery.InsertCreated, nil
}

func (m *mockDeliveryRepository) Create(context.Context, *delivery.Delivery) error { return nil }

func (m *mockDeliveryRepository) GetByID(context.Context, uint) (*delivery.Delivery, error) {
	return nil, nil
}

func (m *mockDeliveryRepository) Update(context.Context, *delivery.Delivery) error { return nil }

func (m *mockDeliveryRepository) ListForCustomerPeriod(_ context.Context, customerID uint, period schedule.DateRange) ([]*delivery.Delivery, error) {
	var out []*delivery.Delivery
	for _, d := range m.deliveries {
		if d.CustomerID() == customerID && period.Contains(d.DeliveryDate()) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockDeliveryRepository) CountForSubscription(context.Context, uint) (int64, error) {
	return 0, nil
}

func (m *mockDeliveryRepository) CancelScheduledForSubscription(context.Context, uint, time.Time) (int64, error) {
	return 0, nil
}

func (m *mockDeliveryRepository) DeleteScheduledForSubscription(context.Context, uint, time.Time, *time.Time) (int64, error) {
	return 0, nil
}

func (m *mockDeliveryRepository) CancelScheduledForAdhocItems(context.Context, []uint) (int64, error) {
	return 0, nil
}

// mockProductRepository prices milk at 60 before March 15 and 64 from then on.
type mockProductRepository struct {
	lookups int
}

func (m *mockProductRepository) GetByID(context.Context, uint) (*catalog.Product, error) {
	return nil, nil
}

func (m *mockProductRepository) GetPriceOn(_ context.Context, productID uint, date time.Time) (decimal.Decimal, error) {
	m.lookups++
	if productID != 1 {
		return decimal.Zero, errors.New("unknown product")
	}
	if date.Before(biztime.Date(2025, 3, 15)) {
		return decimal.NewFromInt(60), nil
	}
	return decimal.NewFromInt(64), nil
}

type mockVacationRepository struct {
	vacations []*subscription.Vacation
}

func (m mockVacationRepository) ListOverlapping(context.Context, uint, schedule.DateRange) ([]*subscription.Vacation, error) {
	return m.vacations, nil
}

func (m mockVacationRepository) ListOverlappingForCustomer(context.Context, uint, schedule.DateRange) ([]*subscription.Vacation, error) {
	return m.vacations, nil
}

type mockHolidayRepository struct {
	holidays []*holiday.Holiday
}

func (m mockHolidayRepository) ListInRange(context.Context, schedule.DateRange) ([]*holiday.Holiday, error) {
	return m.holidays, nil
}

type mockSubscriptionRepository struct {
	customerIDs []uint
}

func (m mockSubscriptionRepository) Create(context.Context, *subscription.Subscription) error {
	return nil
}

func (m mockSubscriptionRepository) GetByID(context.Context, uint) (*subscription.Subscription, error) {
	return nil, nil
}

func (m mockSubscriptionRepository) Update(context.Context, *subscription.Subscription) error {
	return nil
}

func (m mockSubscriptionRepository) ListSchedulable(context.Context) ([]*subscription.Subscription, error) {
	return nil, nil
}

func (m mockSubscriptionRepository) ListEndedBefore(context.Context, time.Time) ([]*subscription.Subscription, error) {
	return nil, nil
}

func (m mockSubscriptionRepository) ListActiveCustomerIDs(context.Context) ([]uint, error) {
	return m.customerIDs, nil
}

type mockBillGenerator struct {
	ExecuteFunc func(ctx context.Context, cmd GenerateBillCommand) (*billing.Bill, error)
}

func (m *mockBillGenerator) Execute(ctx context.Context, cmd GenerateBillCommand) (*billing.Bill, error) {
	return m.ExecuteFunc(ctx, cmd)
}

type staticSettings struct {
	settings setting.BusinessSettings
}

func (s staticSettings) BusinessSettings(context.Context) (setting.BusinessSettings, error) {
	return s.settings, nil
}

type recordingPublisher struct {
	events []events.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e events.DomainEvent) error {
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.GetEventType())
	}
	return out
}

// beginHookTransactor runs onBegin before fn, standing in for a write that
// commits just before this transaction starts.
type beginHookTransactor struct {
	onBegin func()
}

func (t beginHookTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if t.onBegin != nil {
		t.onBegin()
	}
	return fn(ctx)
}
