package usecases

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/milkrun/milkrun/internal/domain/billing"
	vo "github.com/milkrun/milkrun/internal/domain/billing/valueobjects"
	"github.com/milkrun/milkrun/internal/domain/shared/events"
	"github.com/milkrun/milkrun/internal/shared/db"
	apperrors "github.com/milkrun/milkrun/internal/shared/errors"
	"github.com/milkrun/milkrun/internal/shared/logger"
	"github.com/milkrun/milkrun/internal/shared/utils"
)

type RecordPaymentCommand struct {
	BillID    uint            `validate:"required"`
	Amount    decimal.Decimal `validate:"gt=0"`
	Method    string          `validate:"required"`
	Reference string          `validate:"max=100"`
	Notes     string          `validate:"max=500"`
}

type RecordPaymentUseCase struct {
	billRepo    billing.BillRepository
	paymentRepo billing.PaymentRepository
	walletRepo  billing.WalletRepository
	txManager   db.Transactor
	publisher   events.EventPublisher
	logger      logger.Interface
}

func NewRecordPaymentUseCase(
	billRepo billing.BillRepository,
	paymentRepo billing.PaymentRepository,
	walletRepo billing.WalletRepository,
	txManager db.Transactor,
	publisher events.EventPublisher,
	logger logger.Interface,
) *RecordPaymentUseCase {
	return &RecordPaymentUseCase{
		billRepo:    billRepo,
		paymentRepo: paymentRepo,
		walletRepo:  walletRepo,
		txManager:   txManager,
		publisher:   publisher,
		logger:      logger,
	}
}

// Execute stores a successful payment and recomputes the bill status. The
// bill update is version checked, so two racing payments cannot both pass
// the outstanding check.
func (uc *RecordPaymentUseCase) Execute(ctx context.Context, cmd RecordPaymentCommand) (*billing.Payment, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}
	method, err := vo.NewPaymentMethod(cmd.Method)
	if err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	var payment *billing.Payment
	var bill *billing.Bill
	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		b, err := loadBill(ctx, uc.billRepo, cmd.BillID)
		if err != nil {
			return err
		}
		bill = b

		paid, err := uc.paymentRepo.SumSuccessful(ctx, bill.ID())
		if err != nil {
			return fmt.Errorf("failed to sum payments: %w", err)
		}
		if err := bill.CheckPayment(cmd.Amount, paid); err != nil {
			return err
		}

		payment, err = billing.NewSuccessfulPayment(bill.ID(), bill.CustomerID(), cmd.Amount, method, cmd.Reference, cmd.Notes)
		if err != nil {
			return err
		}

		if method.IsWallet() {
			if err := uc.debitWallet(ctx, bill, payment); err != nil {
				return err
			}
		}

		if err := uc.paymentRepo.Create(ctx, payment); err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}

		bill.ApplyPaidTotal(paid.Add(payment.Amount()))
		return uc.billRepo.Update(ctx, bill)
	})
	if err != nil {
		uc.logger.Warnw("failed to record payment", "bill_id", cmd.BillID, "amount", cmd.Amount.String(), "error", err)
		return nil, mapBillingError(err)
	}

	uc.logger.Infow("payment recorded",
		"payment_id", payment.ID(),
		"bill_id", bill.ID(),
		"amount", payment.Amount().StringFixed(2),
		"method", payment.Method(),
		"bill_status", bill.Status(),
	)
	publish(ctx, uc.publisher, uc.logger, billing.NewPaymentRecordedEvent(payment, bill))
	return payment, nil
}

func (uc *RecordPaymentUseCase) debitWallet(ctx context.Context, bill *billing.Bill, payment *billing.Payment) error {
	w, err := uc.walletRepo.Debit(ctx, bill.CustomerID(), payment.Amount())
	if err != nil {
		return err
	}
	tx, err := billing.NewWalletTransaction(w.ID(), vo.WalletDebit, payment.Amount(), w.Balance(),
		vo.WalletRefPayment, payment.Reference(), "payment for "+bill.BillNumber())
	if err != nil {
		return err
	}
	return uc.walletRepo.AppendTransaction(ctx, tx)
}
