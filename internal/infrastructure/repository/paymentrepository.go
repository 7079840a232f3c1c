package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/milkrun/milkrun/internal/domain/billing"
	vo "github.com/milkrun/milkrun/internal/domain/billing/valueobjects"
	"github.com/milkrun/milkrun/internal/infrastructure/persistence/mappers"
	"github.com/milkrun/milkrun/internal/infrastructure/persistence/models"
	"github.com/milkrun/milkrun/internal/shared/db"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

type PaymentRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.BillingMapper
	logger logger.Interface
}

func NewPaymentRepository(db *gorm.DB, logger logger.Interface) billing.PaymentRepository {
	return &PaymentRepositoryImpl{
		db:     db,
		mapper: mappers.NewBillingMapper(),
		logger: logger,
	}
}

func (r *PaymentRepositoryImpl) Create(ctx context.Context, payment *billing.Payment) error {
	model := r.mapper.PaymentToModel(payment)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create payment", "bill_id", payment.BillID(), "error", err)
		return fmt.Errorf("failed to create payment: %w", err)
	}

	payment.SetID(model.ID)
	return nil
}

func (r *PaymentRepositoryImpl) SumSuccessful(ctx context.Context, billID uint) (decimal.Decimal, error) {
	var list []*models.PaymentModel

	// Summed in Go so the result keeps exact decimal precision on every driver.
	err := db.GetTxFromContext(ctx, r.db).
		Select("amount").
		Where("bill_id = ? AND status = ?", billID, string(vo.PaymentStatusSuccess)).
		Find(&list).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments: %w", err)
	}

	sum := decimal.Zero
	for _, m := range list {
		sum = sum.Add(m.Amount)
	}
	return sum, nil
}

func (r *PaymentRepositoryImpl) ListByBill(ctx context.Context, billID uint) ([]*billing.Payment, error) {
	var list []*models.PaymentModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("bill_id = ?", billID).
		Order("id ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	out := make([]*billing.Payment, 0, len(list))
	for _, m := range list {
		out = append(out, r.mapper.PaymentToEntity(m))
	}
	return out, nil
}
