package usecases

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/milkrun/milkrun/internal/domain/billing"
	vo "github.com/milkrun/milkrun/internal/domain/billing/valueobjects"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	"github.com/milkrun/milkrun/internal/shared/db"
	"github.com/milkrun/milkrun/internal/shared/id"
	"github.com/milkrun/milkrun/internal/shared/logger"
	"github.com/milkrun/milkrun/internal/shared/utils"
)

type TopUpWalletCommand struct {
	CustomerID uint            `validate:"required"`
	Amount     decimal.Decimal `validate:"gt=0"`
	Reference  string          `validate:"max=100"`
}

type TopUpWalletUseCase struct {
	walletRepo billing.WalletRepository
	txManager  db.Transactor
	logger     logger.Interface
}

func NewTopUpWalletUseCase(walletRepo billing.WalletRepository, txManager db.Transactor, logger logger.Interface) *TopUpWalletUseCase {
	return &TopUpWalletUseCase{walletRepo: walletRepo, txManager: txManager, logger: logger}
}

// Execute credits the wallet, creating it on first use.
func (uc *TopUpWalletUseCase) Execute(ctx context.Context, cmd TopUpWalletCommand) (*billing.Wallet, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}
	amount := vo.RoundMoney(cmd.Amount)
	reference := cmd.Reference
	if reference == "" {
		ref, err := id.NewDocumentNumber("TOP", biztime.Today())
		if err != nil {
			return nil, fmt.Errorf("failed to generate reference: %w", err)
		}
		reference = ref
	}

	var wallet *billing.Wallet
	err := uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		w, err := uc.walletRepo.Credit(ctx, cmd.CustomerID, amount)
		if err != nil {
			return err
		}
		wallet = w
		tx, err := billing.NewWalletTransaction(w.ID(), vo.WalletCredit, amount, w.Balance(), vo.WalletRefTopUp, reference, "wallet top-up")
		if err != nil {
			return err
		}
		return uc.walletRepo.AppendTransaction(ctx, tx)
	})
	if err != nil {
		uc.logger.Errorw("failed to top up wallet", "customer_id", cmd.CustomerID, "error", err)
		return nil, mapBillingError(err)
	}

	uc.logger.Infow("wallet topped up",
		"customer_id", cmd.CustomerID,
		"amount", amount.StringFixed(2),
		"balance", wallet.Balance().StringFixed(2),
		"reference", reference,
	)
	return wallet, nil
}
