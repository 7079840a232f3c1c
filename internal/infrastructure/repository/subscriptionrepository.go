package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/domain/subscription"
	vo "github.com/milkrun/milkrun/internal/domain/subscription/valueobjects"
	"github.com/milkrun/milkrun/internal/infrastructure/persistence/mappers"
	"github.com/milkrun/milkrun/internal/infrastructure/persistence/models"
	"github.com/milkrun/milkrun/internal/shared/db"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	logger logger.Interface
}

func NewSubscriptionRepository(db *gorm.DB, logger logger.Interface) subscription.Repository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSubscriptionMapper(),
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, entity *subscription.Subscription) error {
	model := r.mapper.ToModel(entity)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription in database", "customer_id", entity.CustomerID(), "error", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := entity.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set subscription ID: %w", err)
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// Update writes the mutable columns if the stored version is the one the
// entity was loaded with.
func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, entity *subscription.Subscription) error {
	model := r.mapper.ToModel(entity)

	result := db.GetTxFromContext(ctx, r.db).Model(&models.SubscriptionModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]interface{}{
			"quantity":         model.Quantity,
			"frequency":        model.Frequency,
			"custom_days":      model.CustomDays,
			"end_date":         model.EndDate,
			"pause_start_date": model.PauseStartDate,
			"pause_end_date":   model.PauseEndDate,
			"status":           model.Status,
			"cancelled_at":     model.CancelledAt,
			"cancel_reason":    model.CancelReason,
			"version":          model.Version,
			"updated_at":       model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update subscription", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: subscription %d", subscription.ErrVersionConflict, model.ID)
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) ListSchedulable(ctx context.Context) ([]*subscription.Subscription, error) {
	var list []*models.SubscriptionModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("status IN ?", []string{string(vo.StatusActive), string(vo.StatusPaused)}).
		Order("id ASC").
		Find(&list).Error
	if err != nil {
		r.logger.Errorw("failed to list schedulable subscriptions", "error", err)
		return nil, fmt.Errorf("failed to list schedulable subscriptions: %w", err)
	}

	return r.mapper.ToEntities(list)
}

func (r *SubscriptionRepositoryImpl) ListEndedBefore(ctx context.Context, date time.Time) ([]*subscription.Subscription, error) {
	var list []*models.SubscriptionModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("status IN ?", []string{string(vo.StatusActive), string(vo.StatusPaused)}).
		Where("end_date IS NOT NULL AND end_date < ?", date).
		Order("id ASC").
		Find(&list).Error
	if err != nil {
		r.logger.Errorw("failed to list ended subscriptions", "date", date, "error", err)
		return nil, fmt.Errorf("failed to list ended subscriptions: %w", err)
	}

	return r.mapper.ToEntities(list)
}

func (r *SubscriptionRepositoryImpl) ListActiveCustomerIDs(ctx context.Context) ([]uint, error) {
	var ids []uint

	err := db.GetTxFromContext(ctx, r.db).Model(&models.SubscriptionModel{}).
		Where("status = ?", string(vo.StatusActive)).
		Distinct().
		Order("customer_id ASC").
		Pluck("customer_id", &ids).Error
	if err != nil {
		r.logger.Errorw("failed to list active customers", "error", err)
		return nil, fmt.Errorf("failed to list active customers: %w", err)
	}
	return ids, nil
}

type VacationRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	logger logger.Interface
}

func NewVacationRepository(db *gorm.DB, logger logger.Interface) subscription.VacationRepository {
	return &VacationRepositoryImpl{db: db, mapper: mappers.NewSubscriptionMapper(), logger: logger}
}

func (r *VacationRepositoryImpl) ListOverlapping(ctx context.Context, subscriptionID uint, rng schedule.DateRange) ([]*subscription.Vacation, error) {
	var list []*models.VacationModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("subscription_id = ? AND start_date <= ? AND end_date >= ?", subscriptionID, rng.End, rng.Start).
		Order("start_date ASC").
		Find(&list).Error
	if err != nil {
		r.logger.Errorw("failed to list vacations", "subscription_id", subscriptionID, "error", err)
		return nil, fmt.Errorf("failed to list vacations: %w", err)
	}
	return r.toEntities(list), nil
}

func (r *VacationRepositoryImpl) ListOverlappingForCustomer(ctx context.Context, customerID uint, rng schedule.DateRange) ([]*subscription.Vacation, error) {
	var list []*models.VacationModel

	err := db.GetTxFromContext(ctx, r.db).
		Joins("JOIN subscriptions ON subscriptions.id = vacations.subscription_id").
		Where("subscriptions.customer_id = ?", customerID).
		Where("vacations.start_date <= ? AND vacations.end_date >= ?", rng.End, rng.Start).
		Order("vacations.start_date ASC").
		Find(&list).Error
	if err != nil {
		r.logger.Errorw("failed to list customer vacations", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf("failed to list customer vacations: %w", err)
	}
	return r.toEntities(list), nil
}

func (r *VacationRepositoryImpl) toEntities(list []*models.VacationModel) []*subscription.Vacation {
	out := make([]*subscription.Vacation, 0, len(list))
	for _, m := range list {
		out = append(out, r.mapper.VacationToEntity(m))
	}
	return out
}
