package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/milkrun/milkrun/internal/domain/adhoc"
	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/infrastructure/persistence/mappers"
	"github.com/milkrun/milkrun/internal/infrastructure/persistence/models"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	"github.com/milkrun/milkrun/internal/shared/db"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

type AdhocRequestRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.AdhocMapper
	logger logger.Interface
}

func NewAdhocRequestRepository(db *gorm.DB, logger logger.Interface) adhoc.RequestRepository {
	return &AdhocRequestRepositoryImpl{
		db:     db,
		mapper: mappers.NewAdhocMapper(),
		logger: logger,
	}
}

func (r *AdhocRequestRepositoryImpl) Create(ctx context.Context, request *adhoc.Request) error {
	model := r.mapper.RequestToModel(request)
	for _, item := range request.Items() {
		model.Items = append(model.Items, r.mapper.ItemToModel(item, 0))
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create adhoc request", "customer_id", request.CustomerID(), "error", err)
		return fmt.Errorf("failed to create adhoc request: %w", err)
	}

	request.SetID(model.ID)
	for i, item := range request.Items() {
		item.SetID(model.Items[i].ID)
	}
	return nil
}

func (r *AdhocRequestRepositoryImpl) GetByID(ctx context.Context, id uint) (*adhoc.Request, error) {
	return r.get(db.GetTxFromContext(ctx, r.db), id)
}

// GetByIDForUpdate takes a row lock on the request. SQLite has no row locks
// and serializes writers instead.
func (r *AdhocRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id uint) (*adhoc.Request, error) {
	return r.get(db.GetTxFromContext(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *AdhocRequestRepositoryImpl) get(tx *gorm.DB, id uint) (*adhoc.Request, error) {
	var model models.AdhocRequestModel

	err := tx.
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get adhoc request", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get adhoc request: %w", err)
	}

	return r.mapper.RequestToEntity(&model)
}

// Update writes the request if the stored version is the one it was loaded
// with, then the status of every item.
func (r *AdhocRequestRepositoryImpl) Update(ctx context.Context, request *adhoc.Request) error {
	tx := db.GetTxFromContext(ctx, r.db)
	model := r.mapper.RequestToModel(request)

	result := tx.Model(&models.AdhocRequestModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]interface{}{
			"status":         model.Status,
			"estimated_cost": model.EstimatedCost,
			"notes":          model.Notes,
			"reviewed_by":    model.ReviewedBy,
			"reviewed_at":    model.ReviewedAt,
			"admin_notes":    model.AdminNotes,
			"cancelled_at":   model.CancelledAt,
			"version":        model.Version,
			"updated_at":     model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update adhoc request", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update adhoc request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: request %d", adhoc.ErrVersionConflict, model.ID)
	}

	for _, item := range request.Items() {
		err := tx.Model(&models.AdhocItemModel{}).
			Where("id = ? AND request_id = ?", item.ID(), request.ID()).
			Updates(map[string]interface{}{
				"status":           string(item.Status()),
				"rejection_reason": item.RejectionReason(),
			}).Error
		if err != nil {
			r.logger.Errorw("failed to update adhoc item", "item_id", item.ID(), "error", err)
			return fmt.Errorf("failed to update adhoc item: %w", err)
		}
	}
	return nil
}

func (r *AdhocRequestRepositoryImpl) ReplaceItems(ctx context.Context, request *adhoc.Request) error {
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("request_id = ?", request.ID()).Delete(&models.AdhocItemModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete adhoc items: %w", err)
	}

	items := make([]models.AdhocItemModel, 0, len(request.Items()))
	for _, item := range request.Items() {
		m := r.mapper.ItemToModel(item, request.ID())
		m.ID = 0
		items = append(items, m)
	}
	if len(items) == 0 {
		return nil
	}
	if err := tx.Create(&items).Error; err != nil {
		r.logger.Errorw("failed to insert adhoc items", "request_id", request.ID(), "error", err)
		return fmt.Errorf("failed to insert adhoc items: %w", err)
	}

	for i, item := range request.Items() {
		item.SetID(items[i].ID)
	}
	return nil
}

type AdhocCapacityRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.AdhocMapper
	logger logger.Interface
}

func NewAdhocCapacityRepository(db *gorm.DB, logger logger.Interface) adhoc.CapacityRepository {
	return &AdhocCapacityRepositoryImpl{
		db:     db,
		mapper: mappers.NewAdhocMapper(),
		logger: logger,
	}
}

func (r *AdhocCapacityRepositoryImpl) GetByDate(ctx context.Context, date time.Time, defaultMax int) (*adhoc.Capacity, error) {
	var model models.AdhocCapacityModel

	err := db.GetTxFromContext(ctx, r.db).Where("date = ?", biztime.TruncateDate(date)).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get adhoc capacity", "date", biztime.FormatDate(date), "error", err)
		return nil, fmt.Errorf("failed to get adhoc capacity: %w", err)
	}

	return r.mapper.CapacityToEntity(&model, defaultMax), nil
}

func (r *AdhocCapacityRepositoryImpl) ListInRange(ctx context.Context, rng schedule.DateRange, defaultMax int) ([]*adhoc.Capacity, error) {
	var list []*models.AdhocCapacityModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("date BETWEEN ? AND ?", rng.Start, rng.End).
		Order("date ASC").
		Find(&list).Error
	if err != nil {
		r.logger.Errorw("failed to list adhoc capacity", "range", rng.String(), "error", err)
		return nil, fmt.Errorf("failed to list adhoc capacity: %w", err)
	}

	out := make([]*adhoc.Capacity, 0, len(list))
	for _, m := range list {
		out = append(out, r.mapper.CapacityToEntity(m, defaultMax))
	}
	return out, nil
}

// Increment is a single upsert statement, so concurrent approvals on the
// same date never lose an update.
func (r *AdhocCapacityRepositoryImpl) Increment(ctx context.Context, date time.Time, delta int) error {
	now := biztime.NowUTC()
	initial := delta
	if initial < 0 {
		initial = 0
	}

	model := &models.AdhocCapacityModel{
		Date:            biztime.TruncateDate(date),
		CurrentApproved: initial,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := db.GetTxFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"current_approved": gorm.Expr(
				"CASE WHEN adhoc_capacity.current_approved + ? < 0 THEN 0 ELSE adhoc_capacity.current_approved + ? END",
				delta, delta,
			),
			"updated_at": now,
		}),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to increment adhoc capacity",
			"date", biztime.FormatDate(date),
			"delta", delta,
			"error", err,
		)
		return fmt.Errorf("failed to increment adhoc capacity: %w", err)
	}
	return nil
}

// TryReserve makes sure the row exists, then increments it with the capacity
// check in the WHERE clause. The database evaluates the check against the
// latest committed row, so two approvals racing for the last unit cannot
// both succeed.
func (r *AdhocCapacityRepositoryImpl) TryReserve(ctx context.Context, date time.Time, n, defaultMax int) (bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	now := biztime.NowUTC()
	day := biztime.TruncateDate(date)

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoNothing: true,
	}).Create(&models.AdhocCapacityModel{Date: day, CreatedAt: now, UpdatedAt: now}).Error
	if err != nil {
		r.logger.Errorw("failed to ensure adhoc capacity row", "date", biztime.FormatDate(date), "error", err)
		return false, fmt.Errorf("failed to ensure adhoc capacity row: %w", err)
	}

	result := tx.Model(&models.AdhocCapacityModel{}).
		Where("date = ? AND is_blocked = ?", day, false).
		Where("current_approved + ? <= COALESCE(max_adhoc_requests, ?)", n, defaultMax).
		UpdateColumns(map[string]interface{}{
			"current_approved": gorm.Expr("current_approved + ?", n),
			"updated_at":       now,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to reserve adhoc capacity",
			"date", biztime.FormatDate(date),
			"units", n,
			"error", result.Error,
		)
		return false, fmt.Errorf("failed to reserve adhoc capacity: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// SaveSettings upserts the admin fields. A capacity without a max override
// stores NULL so the date keeps following the global default.
func (r *AdhocCapacityRepositoryImpl) SaveSettings(ctx context.Context, capacity *adhoc.Capacity) error {
	now := biztime.NowUTC()
	model := &models.AdhocCapacityModel{
		Date:             biztime.TruncateDate(capacity.Date()),
		MaxAdhocRequests: capacity.MaxOverride(),
		IsBlocked:        capacity.IsBlocked(),
		BlockReason:      capacity.BlockReason(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err := db.GetTxFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"max_adhoc_requests", "is_blocked", "block_reason", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to save adhoc capacity settings", "date", biztime.FormatDate(capacity.Date()), "error", err)
		return fmt.Errorf("failed to save adhoc capacity settings: %w", err)
	}
	return nil
}
