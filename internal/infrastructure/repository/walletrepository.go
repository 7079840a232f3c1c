package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/milkrun/milkrun/internal/domain/billing"
	"github.com/milkrun/milkrun/internal/infrastructure/persistence/mappers"
	"github.com/milkrun/milkrun/internal/infrastructure/persistence/models"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	"github.com/milkrun/milkrun/internal/shared/db"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

type WalletRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.BillingMapper
	logger logger.Interface
}

func NewWalletRepository(db *gorm.DB, logger logger.Interface) billing.WalletRepository {
	return &WalletRepositoryImpl{
		db:     db,
		mapper: mappers.NewBillingMapper(),
		logger: logger,
	}
}

func (r *WalletRepositoryImpl) GetByCustomer(ctx context.Context, customerID uint) (*billing.Wallet, error) {
	return r.load(db.GetTxFromContext(ctx, r.db), customerID)
}

func (r *WalletRepositoryImpl) GetByCustomerForUpdate(ctx context.Context, customerID uint) (*billing.Wallet, error) {
	return r.load(db.GetTxFromContext(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), customerID)
}

func (r *WalletRepositoryImpl) load(tx *gorm.DB, customerID uint) (*billing.Wallet, error) {
	var model models.WalletModel

	if err := tx.Where("customer_id = ?", customerID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return r.mapper.WalletToEntity(&model), nil
}

func (r *WalletRepositoryImpl) Credit(ctx context.Context, customerID uint, amount decimal.Decimal) (*billing.Wallet, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	now := biztime.NowUTC()

	model := &models.WalletModel{
		CustomerID: customerID,
		Balance:    amount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "customer_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"balance":    gorm.Expr("wallets.balance + ?", amount),
			"updated_at": now,
		}),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to credit wallet", "customer_id", customerID, "amount", amount.String(), "error", err)
		return nil, fmt.Errorf("failed to credit wallet: %w", err)
	}

	return r.load(tx, customerID)
}

// Debit is a conditional update so two concurrent debits can never take the
// balance below zero.
func (r *WalletRepositoryImpl) Debit(ctx context.Context, customerID uint, amount decimal.Decimal) (*billing.Wallet, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.WalletModel{}).
		Where("customer_id = ? AND balance >= ?", customerID, amount).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance - ?", amount),
			"updated_at": biztime.NowUTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to debit wallet", "customer_id", customerID, "amount", amount.String(), "error", result.Error)
		return nil, fmt.Errorf("failed to debit wallet: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, billing.ErrInsufficientWalletBalance
	}

	return r.load(tx, customerID)
}

func (r *WalletRepositoryImpl) AppendTransaction(ctx context.Context, walletTx *billing.WalletTransaction) error {
	model := r.mapper.WalletTransactionToModel(walletTx)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to append wallet transaction", "wallet_id", walletTx.WalletID(), "error", err)
		return fmt.Errorf("failed to append wallet transaction: %w", err)
	}

	walletTx.SetID(model.ID)
	return nil
}

func (r *WalletRepositoryImpl) ListTransactions(ctx context.Context, walletID uint) ([]*billing.WalletTransaction, error) {
	var list []*models.WalletTransactionModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("wallet_id = ?", walletID).
		Order("id ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet transactions: %w", err)
	}

	out := make([]*billing.WalletTransaction, 0, len(list))
	for _, m := range list {
		out = append(out, r.mapper.WalletTransactionToEntity(m))
	}
	return out, nil
}
