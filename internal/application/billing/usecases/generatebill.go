package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/milkrun/milkrun/internal/domain/billing"
	billingvo "github.com/milkrun/milkrun/internal/domain/billing/valueobjects"
	"github.com/milkrun/milkrun/internal/domain/catalog"
	"github.com/milkrun/milkrun/internal/domain/delivery"
	deliveryvo "github.com/milkrun/milkrun/internal/domain/delivery/valueobjects"
	"github.com/milkrun/milkrun/internal/domain/holiday"
	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/domain/setting"
	"github.com/milkrun/milkrun/internal/domain/shared/events"
	"github.com/milkrun/milkrun/internal/domain/subscription"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	"github.com/milkrun/milkrun/internal/shared/db"
	apperrors "github.com/milkrun/milkrun/internal/shared/errors"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

type GenerateBillCommand struct {
	CustomerID  uint
	PeriodStart time.Time
	PeriodEnd   time.Time
}

type GenerateBillUseCase struct {
	billRepo     billing.BillRepository
	walletRepo   billing.WalletRepository
	deliveryRepo delivery.Repository
	productRepo  catalog.Repository
	vacationRepo subscription.VacationRepository
	holidayRepo  holiday.Repository
	settings     setting.SettingProvider
	txManager    db.Transactor
	publisher    events.EventPublisher
	logger       logger.Interface
}

func NewGenerateBillUseCase(
	billRepo billing.BillRepository,
	walletRepo billing.WalletRepository,
	deliveryRepo delivery.Repository,
	productRepo catalog.Repository,
	vacationRepo subscription.VacationRepository,
	holidayRepo holiday.Repository,
	settings setting.SettingProvider,
	txManager db.Transactor,
	publisher events.EventPublisher,
	logger logger.Interface,
) *GenerateBillUseCase {
	return &GenerateBillUseCase{
		billRepo:     billRepo,
		walletRepo:   walletRepo,
		deliveryRepo: deliveryRepo,
		productRepo:  productRepo,
		vacationRepo: vacationRepo,
		holidayRepo:  holidayRepo,
		settings:     settings,
		txManager:    txManager,
		publisher:    publisher,
		logger:       logger,
	}
}

// Execute bills one customer for one period. The wallet is read under a row
// lock in the same transaction that stores the bill and draws the credits.
func (uc *GenerateBillUseCase) Execute(ctx context.Context, cmd GenerateBillCommand) (*billing.Bill, error) {
	if cmd.CustomerID == 0 {
		return nil, apperrors.NewValidationError("customer is required")
	}
	period, err := schedule.NewDateRange(cmd.PeriodStart, cmd.PeriodEnd)
	if err != nil {
		return nil, mapBillingError(err)
	}

	exists, err := uc.billRepo.ExistsForPeriod(ctx, cmd.CustomerID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing bill: %w", err)
	}
	if exists {
		return nil, mapBillingError(fmt.Errorf("%w: customer %d, %s", billing.ErrBillAlreadyExists, cmd.CustomerID, period))
	}

	settings, err := uc.settings.BusinessSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load business settings: %w", err)
	}

	charges, err := uc.collectCharges(ctx, cmd.CustomerID, period)
	if err != nil {
		return nil, err
	}
	vacationDays, holidayDays, err := uc.disclosures(ctx, cmd.CustomerID, period)
	if err != nil {
		return nil, err
	}

	var bill *billing.Bill
	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		walletBalance := decimal.Zero
		wallet, err := uc.walletRepo.GetByCustomerForUpdate(ctx, cmd.CustomerID)
		if err != nil {
			return fmt.Errorf("failed to get wallet: %w", err)
		}
		if wallet != nil {
			walletBalance = wallet.Balance()
		}

		bill, err = billing.NewBill(billing.NewBillParams{
			CustomerID:       cmd.CustomerID,
			Period:           period,
			Items:            charges.items,
			TotalDeliveries:  charges.delivered,
			MissedDeliveries: charges.missed,
			VacationDays:     vacationDays,
			HolidayDays:      holidayDays,
			TaxPercentage:    settings.TaxPercentage,
			WalletBalance:    walletBalance,
			DueDays:          settings.BillDueDays,
		})
		if err != nil {
			return fmt.Errorf("failed to build bill: %w", err)
		}

		if err := uc.billRepo.Create(ctx, bill); err != nil {
			return err
		}
		credits := bill.CreditsApplied()
		if !credits.IsPositive() {
			return nil
		}
		w, err := uc.walletRepo.Debit(ctx, cmd.CustomerID, credits)
		if err != nil {
			return err
		}
		tx, err := billing.NewWalletTransaction(w.ID(), billingvo.WalletDebit, credits, w.Balance(),
			billingvo.WalletRefBill, bill.BillNumber(), "credits applied to "+bill.BillNumber())
		if err != nil {
			return err
		}
		return uc.walletRepo.AppendTransaction(ctx, tx)
	})
	if err != nil {
		uc.logger.Warnw("failed to store bill", "customer_id", cmd.CustomerID, "period", period.String(), "error", err)
		return nil, mapBillingError(err)
	}

	uc.logger.Infow("bill generated",
		"bill_id", bill.ID(),
		"bill_number", bill.BillNumber(),
		"customer_id", bill.CustomerID(),
		"period", period.String(),
		"total", bill.TotalAmount().StringFixed(2),
		"credits_applied", bill.CreditsApplied().StringFixed(2),
	)
	publish(ctx, uc.publisher, uc.logger, billing.NewBillEvent(billing.EventBillGenerated, bill))
	return bill, nil
}

type charges struct {
	items     []*billing.BillItem
	delivered int
	missed    int
}

func (uc *GenerateBillUseCase) collectCharges(ctx context.Context, customerID uint, period schedule.DateRange) (charges, error) {
	deliveries, err := uc.deliveryRepo.ListForCustomerPeriod(ctx, customerID, period)
	if err != nil {
		return charges{}, fmt.Errorf("failed to list deliveries: %w", err)
	}

	var out charges
	grouper := billing.NewItemGrouper()
	prices := newPriceLookup(uc.productRepo)
	for _, d := range deliveries {
		if d.Type() == deliveryvo.TypeRegular && d.Status() == deliveryvo.StatusMissed {
			out.missed++
			continue
		}
		if !d.Status().IsBillable() {
			continue
		}

		switch d.Type() {
		case deliveryvo.TypeRegular:
			price, err := prices.on(ctx, d.ProductID(), d.DeliveryDate())
			if err != nil {
				return charges{}, err
			}
			grouper.Add(billingvo.OriginRegular, d.ProductID(), d.ChargeableQuantity(), price)
		case deliveryvo.TypeAdhoc:
			if d.UnitPrice() == nil {
				return charges{}, fmt.Errorf("adhoc delivery %d has no unit price", d.ID())
			}
			grouper.Add(billingvo.OriginAdhoc, d.ProductID(), d.ChargeableQuantity(), *d.UnitPrice())
		}
		out.delivered++
	}
	out.items = grouper.Items()
	return out, nil
}

func (uc *GenerateBillUseCase) disclosures(ctx context.Context, customerID uint, period schedule.DateRange) (int, int, error) {
	vacations, err := uc.vacationRepo.ListOverlappingForCustomer(ctx, customerID, period)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list vacations: %w", err)
	}
	holidays, err := uc.holidayRepo.ListInRange(ctx, period)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list holidays: %w", err)
	}
	return schedule.OverlapDays(period, subscription.VacationRanges(vacations)), len(holidays), nil
}

// priceLookup memoizes the effective price per product and date.
type priceLookup struct {
	repo  catalog.Repository
	cache map[string]decimal.Decimal
}

func newPriceLookup(repo catalog.Repository) *priceLookup {
	return &priceLookup{repo: repo, cache: make(map[string]decimal.Decimal)}
}

func (p *priceLookup) on(ctx context.Context, productID uint, date time.Time) (decimal.Decimal, error) {
	key := fmt.Sprintf("%d/%s", productID, biztime.FormatDate(date))
	if price, ok := p.cache[key]; ok {
		return price, nil
	}
	price, err := p.repo.GetPriceOn(ctx, productID, date)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get price of product %d on %s: %w", productID, biztime.FormatDate(date), err)
	}
	p.cache[key] = price
	return price, nil
}
