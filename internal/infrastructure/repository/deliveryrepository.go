package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/milkrun/milkrun/internal/domain/delivery"
	vo "github.com/milkrun/milkrun/internal/domain/delivery/valueobjects"
	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/infrastructure/persistence/mappers"
	"github.com/milkrun/milkrun/internal/infrastructure/persistence/models"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	"github.com/milkrun/milkrun/internal/shared/db"
	apperrors "github.com/milkrun/milkrun/internal/shared/errors"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

type DeliveryRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.DeliveryMapper
	logger logger.Interface
}

func NewDeliveryRepository(db *gorm.DB, logger logger.Interface) delivery.Repository {
	return &DeliveryRepositoryImpl{
		db:     db,
		mapper: mappers.NewDeliveryMapper(),
		logger: logger,
	}
}

// TryInsert relies on the (subscription_id, delivery_date) unique index: a
// conflicting row is skipped and reported as InsertAlreadyExists.
func (r *DeliveryRepositoryImpl) TryInsert(ctx context.Context, d *delivery.Delivery) (delivery.InsertResult, error) {
	model := r.mapper.ToModel(d)

	result := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model)
	if result.Error != nil {
		if apperrors.IsDuplicateError(result.Error) {
			return delivery.InsertAlreadyExists, nil
		}
		r.logger.Errorw("failed to insert delivery",
			"subscription_id", d.SubscriptionID(),
			"date", biztime.FormatDate(d.DeliveryDate()),
			"error", result.Error,
		)
		return 0, fmt.Errorf("failed to insert delivery: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return delivery.InsertAlreadyExists, nil
	}

	d.SetID(model.ID)
	return delivery.InsertCreated, nil
}

func (r *DeliveryRepositoryImpl) Create(ctx context.Context, d *delivery.Delivery) error {
	model := r.mapper.ToModel(d)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create delivery", "type", d.Type(), "error", err)
		return fmt.Errorf("failed to create delivery: %w", err)
	}

	d.SetID(model.ID)
	return nil
}

func (r *DeliveryRepositoryImpl) GetByID(ctx context.Context, id uint) (*delivery.Delivery, error) {
	var model models.DeliveryModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get delivery", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get delivery: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *DeliveryRepositoryImpl) Update(ctx context.Context, d *delivery.Delivery) error {
	model := r.mapper.ToModel(d)

	result := db.GetTxFromContext(ctx, r.db).Model(&models.DeliveryModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"delivered_quantity": model.DeliveredQuantity,
			"status":             model.Status,
			"delivered_at":       model.DeliveredAt,
			"notes":              model.Notes,
			"updated_at":         model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update delivery", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update delivery: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %d", delivery.ErrDeliveryNotFound, model.ID)
	}
	return nil
}

func (r *DeliveryRepositoryImpl) ListForCustomerPeriod(ctx context.Context, customerID uint, rng schedule.DateRange) ([]*delivery.Delivery, error) {
	var list []*models.DeliveryModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("customer_id = ? AND delivery_date BETWEEN ? AND ?", customerID, rng.Start, rng.End).
		Order("delivery_date ASC, id ASC").
		Find(&list).Error
	if err != nil {
		r.logger.Errorw("failed to list deliveries", "customer_id", customerID, "period", rng.String(), "error", err)
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}

	return r.mapper.ToEntities(list)
}

func (r *DeliveryRepositoryImpl) CountForSubscription(ctx context.Context, subscriptionID uint) (int64, error) {
	var count int64

	err := db.GetTxFromContext(ctx, r.db).Model(&models.DeliveryModel{}).
		Where("subscription_id = ?", subscriptionID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count deliveries: %w", err)
	}
	return count, nil
}

func (r *DeliveryRepositoryImpl) CancelScheduledForSubscription(ctx context.Context, subscriptionID uint, from time.Time) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.DeliveryModel{}).
		Where("subscription_id = ? AND status = ? AND delivery_date >= ?", subscriptionID, string(vo.StatusScheduled), from).
		Updates(map[string]interface{}{
			"status":     string(vo.StatusCancelled),
			"updated_at": biztime.NowUTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to cancel scheduled deliveries", "subscription_id", subscriptionID, "error", result.Error)
		return 0, fmt.Errorf("failed to cancel scheduled deliveries: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *DeliveryRepositoryImpl) DeleteScheduledForSubscription(ctx context.Context, subscriptionID uint, from time.Time, to *time.Time) (int64, error) {
	query := db.GetTxFromContext(ctx, r.db).
		Where("subscription_id = ? AND status = ? AND delivery_date >= ?", subscriptionID, string(vo.StatusScheduled), from)
	if to != nil {
		query = query.Where("delivery_date <= ?", *to)
	}

	result := query.Delete(&models.DeliveryModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete scheduled deliveries", "subscription_id", subscriptionID, "error", result.Error)
		return 0, fmt.Errorf("failed to delete scheduled deliveries: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *DeliveryRepositoryImpl) CancelScheduledForAdhocItems(ctx context.Context, itemIDs []uint) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}

	result := db.GetTxFromContext(ctx, r.db).Model(&models.DeliveryModel{}).
		Where("adhoc_item_id IN ? AND status = ?", itemIDs, string(vo.StatusScheduled)).
		Updates(map[string]interface{}{
			"status":     string(vo.StatusCancelled),
			"updated_at": biztime.NowUTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to cancel adhoc deliveries", "items", len(itemIDs), "error", result.Error)
		return 0, fmt.Errorf("failed to cancel adhoc deliveries: %w", result.Error)
	}
	return result.RowsAffected, nil
}
