package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/milkrun/milkrun/internal/domain/billing"
	vo "github.com/milkrun/milkrun/internal/domain/billing/valueobjects"
	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/infrastructure/persistence/mappers"
	"github.com/milkrun/milkrun/internal/infrastructure/persistence/models"
	"github.com/milkrun/milkrun/internal/shared/db"
	apperrors "github.com/milkrun/milkrun/internal/shared/errors"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

type BillRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.BillingMapper
	logger logger.Interface
}

func NewBillRepository(db *gorm.DB, logger logger.Interface) billing.BillRepository {
	return &BillRepositoryImpl{
		db:     db,
		mapper: mappers.NewBillingMapper(),
		logger: logger,
	}
}

func (r *BillRepositoryImpl) Create(ctx context.Context, bill *billing.Bill) error {
	model := r.mapper.BillToModel(bill)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return fmt.Errorf("%w: customer %d, %s", billing.ErrBillAlreadyExists, bill.CustomerID(), bill.Period())
		}
		r.logger.Errorw("failed to create bill", "customer_id", bill.CustomerID(), "error", err)
		return fmt.Errorf("failed to create bill: %w", err)
	}

	bill.SetID(model.ID)
	for i, item := range bill.Items() {
		item.SetID(model.Items[i].ID)
	}
	return nil
}

func (r *BillRepositoryImpl) GetByID(ctx context.Context, id uint) (*billing.Bill, error) {
	var model models.BillModel

	err := db.GetTxFromContext(ctx, r.db).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get bill", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	return r.mapper.BillToEntity(&model)
}

func (r *BillRepositoryImpl) ExistsForPeriod(ctx context.Context, customerID uint, period schedule.DateRange) (bool, error) {
	var count int64

	err := db.GetTxFromContext(ctx, r.db).Model(&models.BillModel{}).
		Where("customer_id = ? AND billing_period_start = ? AND billing_period_end = ?", customerID, period.Start, period.End).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check bill existence: %w", err)
	}
	return count > 0, nil
}

// Update only touches status columns; amounts are fixed at generation.
func (r *BillRepositoryImpl) Update(ctx context.Context, bill *billing.Bill) error {
	model := r.mapper.BillToModel(bill)

	result := db.GetTxFromContext(ctx, r.db).Model(&models.BillModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]interface{}{
			"status":        model.Status,
			"cancelled_at":  model.CancelledAt,
			"cancel_reason": model.CancelReason,
			"version":       model.Version,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update bill", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update bill: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: bill %d", billing.ErrBillVersionConflict, model.ID)
	}
	return nil
}

func (r *BillRepositoryImpl) ListOverdueCandidates(ctx context.Context, date time.Time) ([]*billing.Bill, error) {
	var list []*models.BillModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("status IN ?", []string{string(vo.BillStatusGenerated), string(vo.BillStatusPartial)}).
		Where("due_date < ?", date).
		Order("id ASC").
		Find(&list).Error
	if err != nil {
		r.logger.Errorw("failed to list overdue candidates", "date", date, "error", err)
		return nil, fmt.Errorf("failed to list overdue candidates: %w", err)
	}

	return r.mapper.BillsToEntities(list)
}
