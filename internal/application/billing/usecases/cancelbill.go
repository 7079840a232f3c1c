package usecases

import (
	"context"
	"fmt"

	"github.com/milkrun/milkrun/internal/domain/billing"
	vo "github.com/milkrun/milkrun/internal/domain/billing/valueobjects"
	"github.com/milkrun/milkrun/internal/domain/shared/events"
	"github.com/milkrun/milkrun/internal/shared/db"
	"github.com/milkrun/milkrun/internal/shared/logger"
	"github.com/milkrun/milkrun/internal/shared/utils"
)

type CancelBillCommand struct {
	BillID uint   `validate:"required"`
	Reason string `validate:"max=500"`
}

type CancelBillUseCase struct {
	billRepo    billing.BillRepository
	paymentRepo billing.PaymentRepository
	walletRepo  billing.WalletRepository
	txManager   db.Transactor
	publisher   events.EventPublisher
	logger      logger.Interface
}

func NewCancelBillUseCase(
	billRepo billing.BillRepository,
	paymentRepo billing.PaymentRepository,
	walletRepo billing.WalletRepository,
	txManager db.Transactor,
	publisher events.EventPublisher,
	logger logger.Interface,
) *CancelBillUseCase {
	return &CancelBillUseCase{
		billRepo:    billRepo,
		paymentRepo: paymentRepo,
		walletRepo:  walletRepo,
		txManager:   txManager,
		publisher:   publisher,
		logger:      logger,
	}
}

// Execute voids a bill without payments. Wallet credits drawn by the bill go
// back to the wallet.
func (uc *CancelBillUseCase) Execute(ctx context.Context, cmd CancelBillCommand) (*billing.Bill, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	var bill *billing.Bill
	err := uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		b, err := loadBill(ctx, uc.billRepo, cmd.BillID)
		if err != nil {
			return err
		}
		bill = b

		paid, err := uc.paymentRepo.SumSuccessful(ctx, bill.ID())
		if err != nil {
			return fmt.Errorf("failed to sum payments: %w", err)
		}
		if err := bill.Cancel(cmd.Reason, paid.IsPositive()); err != nil {
			return err
		}
		if err := uc.billRepo.Update(ctx, bill); err != nil {
			return err
		}

		credits := bill.CreditsApplied()
		if !credits.IsPositive() {
			return nil
		}
		w, err := uc.walletRepo.Credit(ctx, bill.CustomerID(), credits)
		if err != nil {
			return err
		}
		tx, err := billing.NewWalletTransaction(w.ID(), vo.WalletCredit, credits, w.Balance(),
			vo.WalletRefBill, bill.BillNumber(), "refund of credits applied to "+bill.BillNumber())
		if err != nil {
			return err
		}
		return uc.walletRepo.AppendTransaction(ctx, tx)
	})
	if err != nil {
		uc.logger.Warnw("failed to cancel bill", "bill_id", cmd.BillID, "error", err)
		return nil, mapBillingError(err)
	}

	uc.logger.Infow("bill cancelled",
		"bill_id", bill.ID(),
		"bill_number", bill.BillNumber(),
		"credits_refunded", bill.CreditsApplied().StringFixed(2),
	)
	publish(ctx, uc.publisher, uc.logger, billing.NewBillEvent(billing.EventBillCancelled, bill))
	return bill, nil
}
