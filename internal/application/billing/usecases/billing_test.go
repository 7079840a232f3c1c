package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milkrun/milkrun/internal/domain/billing"
	vo "github.com/milkrun/milkrun/internal/domain/billing/valueobjects"
	"github.com/milkrun/milkrun/internal/domain/delivery"
	deliveryvo "github.com/milkrun/milkrun/internal/domain/delivery/valueobjects"
	"github.com/milkrun/milkrun/internal/domain/holiday"
	"github.com/milkrun/milkrun/internal/domain/setting"
	"github.com/milkrun/milkrun/internal/domain/subscription"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	"github.com/milkrun/milkrun/internal/shared/db"
	apperrors "github.com/milkrun/milkrun/internal/shared/errors"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

const customerID uint = 3

var (
	marchStart = biztime.Date(2025, 3, 1)
	marchEnd   = biztime.Date(2025, 3, 31)
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func freezeClock(t *testing.T) {
	t.Helper()
	restore := biztime.SetNowFunc(func() time.Time {
		return time.Date(2025, 4, 2, 6, 0, 0, 0, time.UTC)
	})
	t.Cleanup(restore)
}

func regularDelivery(t *testing.T, id uint, day int, status deliveryvo.DeliveryStatus, delivered *decimal.Decimal) *delivery.Delivery {
	t.Helper()
	subID := uint(9)
	d, err := delivery.ReconstructDelivery(delivery.DeliveryReconstructParams{
		ID:                id,
		Type:              deliveryvo.TypeRegular,
		SubscriptionID:    &subID,
		CustomerID:        customerID,
		ProductID:         1,
		DeliveryDate:      biztime.Date(2025, 3, day),
		ScheduledQuantity: decimal.NewFromInt(1),
		DeliveredQuantity: delivered,
		Status:            status,
	})
	require.NoError(t, err)
	return d
}

func adhocDelivery(t *testing.T, id uint, day int, quantity, unitPrice decimal.Decimal) *delivery.Delivery {
	t.Helper()
	itemID := uint(77)
	d, err := delivery.ReconstructDelivery(delivery.DeliveryReconstructParams{
		ID:                id,
		Type:              deliveryvo.TypeAdhoc,
		AdhocItemID:       &itemID,
		CustomerID:        customerID,
		ProductID:         2,
		DeliveryDate:      biztime.Date(2025, 3, day),
		ScheduledQuantity: quantity,
		DeliveredQuantity: &quantity,
		UnitPrice:         &unitPrice,
		Status:            deliveryvo.StatusDelivered,
	})
	require.NoError(t, err)
	return d
}

func existingBill(t *testing.T, id uint, status vo.BillStatus, total, credits string, due time.Time) *billing.Bill {
	t.Helper()
	b, err := billing.ReconstructBill(billing.BillReconstructParams{
		ID:          id,
		BillNumber:  "BILL-202503-test",
		CustomerID:  customerID,
		PeriodStart: marchStart,
		PeriodEnd:   marchEnd,
		Totals:      billing.Totals{TotalAmount: dec(total), CreditsApplied: dec(credits)},
		Status:      status,
		DueDate:     due,
		Version:     1,
	})
	require.NoError(t, err)
	return b
}

type billingFixture struct {
	bills      *memoryBillRepo
	payments   *memoryPaymentRepo
	wallets    *memoryWalletRepo
	deliveries *mockDeliveryRepository
	products   *mockProductRepository
	publisher  *recordingPublisher
}

func newBillingFixture(bills ...*billing.Bill) *billingFixture {
	return &billingFixture{
		bills:      newMemoryBillRepo(bills...),
		payments:   &memoryPaymentRepo{},
		wallets:    newMemoryWalletRepo(),
		deliveries: &mockDeliveryRepository{},
		products:   &mockProductRepository{},
		publisher:  &recordingPublisher{},
	}
}

func (f *billingFixture) generator(tax string) *GenerateBillUseCase {
	return f.generatorWith(tax, db.NoopTransactor{})
}

func (f *billingFixture) generatorWith(tax string, txManager db.Transactor) *GenerateBillUseCase {
	settings := setting.DefaultBusinessSettings()
	settings.TaxPercentage = dec(tax)
	vacations := mockVacationRepository{vacations: []*subscription.Vacation{
		subscription.ReconstructVacation(1, 9, biztime.Date(2025, 2, 27), biztime.Date(2025, 3, 3)),
		subscription.ReconstructVacation(2, 9, biztime.Date(2025, 3, 5), biztime.Date(2025, 3, 7)),
	}}
	holidays := mockHolidayRepository{holidays: []*holiday.Holiday{
		holiday.ReconstructHoliday(1, biztime.Date(2025, 3, 14), "Holi"),
	}}
	return NewGenerateBillUseCase(f.bills, f.wallets, f.deliveries, f.products, vacations, holidays,
		staticSettings{settings: settings}, txManager, f.publisher, logger.NewNopLogger())
}

func (f *billingFixture) recorder() *RecordPaymentUseCase {
	return NewRecordPaymentUseCase(f.bills, f.payments, f.wallets, db.NoopTransactor{}, f.publisher, logger.NewNopLogger())
}

func marchCommand() GenerateBillCommand {
	return GenerateBillCommand{CustomerID: customerID, PeriodStart: marchStart, PeriodEnd: marchEnd}
}

func TestGenerateBill(t *testing.T) {
	freezeClock(t)
	f := newBillingFixture()
	half := dec("0.5")
	f.deliveries.deliveries = []*delivery.Delivery{
		regularDelivery(t, 1, 10, deliveryvo.StatusDelivered, nil),
		regularDelivery(t, 2, 11, deliveryvo.StatusPartial, &half),
		regularDelivery(t, 3, 12, deliveryvo.StatusMissed, nil),
		regularDelivery(t, 4, 20, deliveryvo.StatusDelivered, nil),
		regularDelivery(t, 5, 21, deliveryvo.StatusScheduled, nil),
		regularDelivery(t, 6, 22, deliveryvo.StatusCancelled, nil),
		adhocDelivery(t, 7, 18, decimal.NewFromInt(2), dec("45.50")),
	}
	f.wallets.balances[customerID] = decimal.NewFromInt(100)

	bill, err := f.generator("5").Execute(context.Background(), marchCommand())
	require.NoError(t, err)

	totals := bill.Totals()
	assert.True(t, dec("154").Equal(totals.RegularSubtotal), totals.RegularSubtotal.String())
	assert.True(t, dec("91").Equal(totals.AdhocAmount), totals.AdhocAmount.String())
	assert.True(t, dec("12.25").Equal(totals.TaxAmount), totals.TaxAmount.String())
	assert.True(t, dec("100").Equal(totals.CreditsApplied))
	assert.True(t, dec("157.25").Equal(totals.TotalAmount), totals.TotalAmount.String())
	assert.Equal(t, vo.BillStatusGenerated, bill.Status())
	assert.Equal(t, 4, bill.TotalDeliveries())
	assert.Equal(t, 1, bill.MissedDeliveries())
	assert.Equal(t, 6, bill.VacationDays())
	assert.Equal(t, 1, bill.HolidayDays())
	assert.Equal(t, biztime.Date(2025, 4, 7), bill.DueDate())
	assert.Equal(t, 3, f.products.lookups)

	require.Len(t, bill.Items(), 3)
	assert.Equal(t, vo.OriginRegular, bill.Items()[0].Origin())
	assert.True(t, dec("1.5").Equal(bill.Items()[0].Quantity()))
	assert.Equal(t, 2, bill.Items()[0].DeliveryCount())
	assert.Equal(t, vo.OriginAdhoc, bill.Items()[2].Origin())

	assert.True(t, decimal.Zero.Equal(f.wallets.balances[customerID]))
	require.Len(t, f.wallets.transactions, 1)
	assert.Equal(t, vo.WalletDebit, f.wallets.transactions[0].Type())
	assert.Equal(t, vo.WalletRefBill, f.wallets.transactions[0].ReferenceType())
	assert.Equal(t, bill.BillNumber(), f.wallets.transactions[0].ReferenceID())
	assert.Equal(t, []string{billing.EventBillGenerated}, f.publisher.types())
}

func TestGenerateBill_OncePerPeriod(t *testing.T) {
	freezeClock(t)
	f := newBillingFixture()
	f.deliveries.deliveries = []*delivery.Delivery{regularDelivery(t, 1, 10, deliveryvo.StatusDelivered, nil)}
	uc := f.generator("0")

	_, err := uc.Execute(context.Background(), marchCommand())
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), marchCommand())
	require.Error(t, err)
	assert.True(t, apperrors.IsBadRequestError(err))
	assert.True(t, errors.Is(err, billing.ErrBillAlreadyExists))
}

func TestGenerateBill_WalletReadInsideTransaction(t *testing.T) {
	freezeClock(t)
	f := newBillingFixture()
	f.deliveries.deliveries = []*delivery.Delivery{regularDelivery(t, 1, 10, deliveryvo.StatusDelivered, nil)}
	f.wallets.balances[customerID] = decimal.NewFromInt(100)

	// Another bill spends most of the wallet between the charge lookup and
	// the transaction.
	uc := f.generatorWith("0", beginHookTransactor{onBegin: func() {
		f.wallets.balances[customerID] = decimal.NewFromInt(10)
	}})

	bill, err := uc.Execute(context.Background(), marchCommand())
	require.NoError(t, err)
	assert.Equal(t, 1, f.wallets.lockedReads)
	assert.True(t, dec("10").Equal(bill.CreditsApplied()), bill.CreditsApplied().String())
	assert.True(t, decimal.Zero.Equal(f.wallets.balances[customerID]))
	require.Len(t, f.wallets.transactions, 1)
	assert.True(t, dec("10").Equal(f.wallets.transactions[0].Amount()))
}

func TestGenerateBill_CoveredByWalletIsPaid(t *testing.T) {
	freezeClock(t)
	f := newBillingFixture()
	f.deliveries.deliveries = []*delivery.Delivery{regularDelivery(t, 1, 10, deliveryvo.StatusDelivered, nil)}
	f.wallets.balances[customerID] = decimal.NewFromInt(500)

	bill, err := f.generator("0").Execute(context.Background(), marchCommand())
	require.NoError(t, err)

	assert.Equal(t, vo.BillStatusPaid, bill.Status())
	assert.True(t, dec("60").Equal(bill.CreditsApplied()))
	assert.True(t, dec("440").Equal(f.wallets.balances[customerID]))
}

func TestGenerateBill_EmptyPeriod(t *testing.T) {
	freezeClock(t)
	f := newBillingFixture()

	bill, err := f.generator("5").Execute(context.Background(), marchCommand())
	require.NoError(t, err)

	assert.True(t, bill.TotalAmount().IsZero())
	assert.Equal(t, vo.BillStatusPaid, bill.Status())
	assert.Empty(t, bill.Items())
	assert.Empty(t, f.wallets.transactions)
}

func TestGenerateBill_InvalidPeriod(t *testing.T) {
	freezeClock(t)
	f := newBillingFixture()

	_, err := f.generator("0").Execute(context.Background(), GenerateBillCommand{
		CustomerID: customerID, PeriodStart: marchEnd, PeriodEnd: marchStart,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsBadRequestError(err))
}

func TestGenerateBillsForPeriod(t *testing.T) {
	gen := &mockBillGenerator{ExecuteFunc: func(_ context.Context, cmd GenerateBillCommand) (*billing.Bill, error) {
		switch cmd.CustomerID {
		case 1:
			return nil, nil
		case 2:
			return nil, mapBillingError(billing.ErrBillAlreadyExists)
		default:
			return nil, errors.New("database unavailable")
		}
	}}
	uc := NewGenerateBillsForPeriodUseCase(mockSubscriptionRepository{customerIDs: []uint{1, 2, 3}}, gen, logger.NewNopLogger())

	result, err := uc.Execute(context.Background(), marchStart, marchEnd)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Generated)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, uint(3), result.Errors[0].CustomerID)
	assert.Equal(t, 31, result.Period.Days())
}

func TestRecordPayment(t *testing.T) {
	freezeClock(t)
	bill := existingBill(t, 10, vo.BillStatusGenerated, "200", "0", biztime.Date(2025, 4, 7))
	f := newBillingFixture(bill)
	uc := f.recorder()

	_, err := uc.Execute(context.Background(), RecordPaymentCommand{BillID: 10, Amount: dec("50"), Method: "upi"})
	require.NoError(t, err)
	assert.Equal(t, vo.BillStatusPartial, f.bills.bills[10].Status())

	payment, err := uc.Execute(context.Background(), RecordPaymentCommand{BillID: 10, Amount: dec("150"), Method: "CASH", Reference: "RCPT-1"})
	require.NoError(t, err)
	assert.Equal(t, "RCPT-1", payment.Reference())
	assert.Equal(t, vo.BillStatusPaid, f.bills.bills[10].Status())

	_, err = uc.Execute(context.Background(), RecordPaymentCommand{BillID: 10, Amount: dec("1"), Method: "CASH"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, billing.ErrBillNotPayable))
	assert.Equal(t, []string{billing.EventPaymentRecorded, billing.EventPaymentRecorded}, f.publisher.types())
}

func TestRecordPayment_Rejections(t *testing.T) {
	freezeClock(t)

	tests := []struct {
		name  string
		cmd   RecordPaymentCommand
		check func(error) bool
	}{
		{"exceeds outstanding", RecordPaymentCommand{BillID: 10, Amount: dec("200.01"), Method: "CASH"}, apperrors.IsBadRequestError},
		{"unknown method", RecordPaymentCommand{BillID: 10, Amount: dec("10"), Method: "CHEQUE"}, apperrors.IsBadRequestError},
		{"zero amount", RecordPaymentCommand{BillID: 10, Amount: decimal.Zero, Method: "CASH"}, apperrors.IsValidationError},
		{"unknown bill", RecordPaymentCommand{BillID: 99, Amount: dec("10"), Method: "CASH"}, apperrors.IsNotFoundError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBillingFixture(existingBill(t, 10, vo.BillStatusGenerated, "200", "0", biztime.Date(2025, 4, 7)))

			_, err := f.recorder().Execute(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.True(t, tt.check(err), err.Error())
			assert.Empty(t, f.payments.payments)
		})
	}
}

func TestRecordPayment_Wallet(t *testing.T) {
	freezeClock(t)
	f := newBillingFixture(existingBill(t, 10, vo.BillStatusOverdue, "200", "0", biztime.Date(2025, 3, 20)))
	f.wallets.balances[customerID] = decimal.NewFromInt(80)
	uc := f.recorder()

	_, err := uc.Execute(context.Background(), RecordPaymentCommand{BillID: 10, Amount: dec("50"), Method: "WALLET"})
	require.NoError(t, err)
	assert.True(t, dec("30").Equal(f.wallets.balances[customerID]))
	require.Len(t, f.wallets.transactions, 1)
	assert.Equal(t, vo.WalletRefPayment, f.wallets.transactions[0].ReferenceType())
	assert.Equal(t, vo.BillStatusPartial, f.bills.bills[10].Status())

	_, err = uc.Execute(context.Background(), RecordPaymentCommand{BillID: 10, Amount: dec("100"), Method: "WALLET"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, billing.ErrInsufficientWalletBalance))
	assert.Len(t, f.payments.payments, 1)
}

func TestRecordPayment_ConcurrentUpdate(t *testing.T) {
	freezeClock(t)
	f := newBillingFixture(existingBill(t, 10, vo.BillStatusGenerated, "200", "0", biztime.Date(2025, 4, 7)))
	f.bills.UpdateFunc = func(context.Context, *billing.Bill) error {
		return billing.ErrBillVersionConflict
	}

	_, err := f.recorder().Execute(context.Background(), RecordPaymentCommand{BillID: 10, Amount: dec("50"), Method: "CASH"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
	assert.Empty(t, f.publisher.events)
}

func TestMarkOverdueBills(t *testing.T) {
	freezeClock(t)
	f := newBillingFixture(
		existingBill(t, 10, vo.BillStatusGenerated, "200", "0", biztime.Date(2025, 3, 30)),
		existingBill(t, 11, vo.BillStatusPartial, "200", "0", biztime.Date(2025, 4, 1)),
		existingBill(t, 12, vo.BillStatusPaid, "200", "0", biztime.Date(2025, 3, 30)),
		existingBill(t, 13, vo.BillStatusGenerated, "200", "0", biztime.Date(2025, 4, 2)),
	)
	uc := NewMarkOverdueBillsUseCase(f.bills, f.publisher, logger.NewNopLogger())

	marked, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, marked)
	assert.Equal(t, vo.BillStatusOverdue, f.bills.bills[10].Status())
	assert.Equal(t, vo.BillStatusOverdue, f.bills.bills[11].Status())
	assert.Equal(t, vo.BillStatusPaid, f.bills.bills[12].Status())
	assert.Equal(t, vo.BillStatusGenerated, f.bills.bills[13].Status())
	assert.Equal(t, []string{billing.EventBillOverdue, billing.EventBillOverdue}, f.publisher.types())

	marked, err = uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, marked)
}

func TestCancelBill(t *testing.T) {
	freezeClock(t)
	f := newBillingFixture(existingBill(t, 10, vo.BillStatusGenerated, "160", "40", biztime.Date(2025, 4, 7)))
	uc := NewCancelBillUseCase(f.bills, f.payments, f.wallets, db.NoopTransactor{}, f.publisher, logger.NewNopLogger())

	bill, err := uc.Execute(context.Background(), CancelBillCommand{BillID: 10, Reason: "wrong address"})
	require.NoError(t, err)

	assert.Equal(t, vo.BillStatusCancelled, bill.Status())
	assert.Equal(t, "wrong address", bill.CancelReason())
	assert.True(t, dec("40").Equal(f.wallets.balances[customerID]))
	require.Len(t, f.wallets.transactions, 1)
	assert.Equal(t, vo.WalletCredit, f.wallets.transactions[0].Type())
	assert.Equal(t, []string{billing.EventBillCancelled}, f.publisher.types())

	_, err = uc.Execute(context.Background(), CancelBillCommand{BillID: 10})
	require.Error(t, err)
	assert.True(t, apperrors.IsBadRequestError(err))
}

func TestCancelBill_WithPayments(t *testing.T) {
	freezeClock(t)
	f := newBillingFixture(existingBill(t, 10, vo.BillStatusGenerated, "200", "0", biztime.Date(2025, 4, 7)))
	_, err := f.recorder().Execute(context.Background(), RecordPaymentCommand{BillID: 10, Amount: dec("20"), Method: "CASH"})
	require.NoError(t, err)

	uc := NewCancelBillUseCase(f.bills, f.payments, f.wallets, db.NoopTransactor{}, f.publisher, logger.NewNopLogger())
	_, err = uc.Execute(context.Background(), CancelBillCommand{BillID: 10})
	require.Error(t, err)
	assert.True(t, errors.Is(err, billing.ErrBillHasPayments))
	assert.Equal(t, vo.BillStatusPartial, f.bills.bills[10].Status())
}

func TestTopUpWallet(t *testing.T) {
	freezeClock(t)
	f := newBillingFixture()
	uc := NewTopUpWalletUseCase(f.wallets, db.NoopTransactor{}, logger.NewNopLogger())

	wallet, err := uc.Execute(context.Background(), TopUpWalletCommand{CustomerID: customerID, Amount: dec("250.005")})
	require.NoError(t, err)

	assert.True(t, dec("250.01").Equal(wallet.Balance()), wallet.Balance().String())
	require.Len(t, f.wallets.transactions, 1)
	tx := f.wallets.transactions[0]
	assert.Equal(t, vo.WalletCredit, tx.Type())
	assert.Equal(t, vo.WalletRefTopUp, tx.ReferenceType())
	assert.Contains(t, tx.ReferenceID(), "TOP-202504-")

	_, err = uc.Execute(context.Background(), TopUpWalletCommand{CustomerID: customerID, Amount: dec("-5")})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}
