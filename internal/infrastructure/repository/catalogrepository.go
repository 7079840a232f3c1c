package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/milkrun/milkrun/internal/domain/catalog"
	"github.com/milkrun/milkrun/internal/domain/customer"
	"github.com/milkrun/milkrun/internal/domain/holiday"
	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/infrastructure/persistence/models"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	"github.com/milkrun/milkrun/internal/shared/db"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

// ProductRepositoryImpl reads the product catalog. Products are maintained
// outside this module.
type ProductRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewProductRepository(db *gorm.DB, logger logger.Interface) catalog.Repository {
	return &ProductRepositoryImpl{db: db, logger: logger}
}

func (r *ProductRepositoryImpl) GetByID(ctx context.Context, id uint) (*catalog.Product, error) {
	var model models.ProductModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get product", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return catalog.ReconstructProduct(model.ID, model.Name, model.Unit, model.Price, model.IsActive), nil
}

func (r *ProductRepositoryImpl) GetPriceOn(ctx context.Context, productID uint, date time.Time) (decimal.Decimal, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var entry models.ProductPriceModel
	err := tx.Where("product_id = ? AND effective_from <= ?", productID, biztime.TruncateDate(date)).
		Order("effective_from DESC, id DESC").
		First(&entry).Error
	if err == nil {
		return entry.Price, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, fmt.Errorf("failed to get price history: %w", err)
	}

	product, err := r.GetByID(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	if product == nil {
		return decimal.Zero, fmt.Errorf("%w: %d", catalog.ErrProductNotFound, productID)
	}
	return product.Price(), nil
}

type AddressRepositoryImpl struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) customer.AddressRepository {
	return &AddressRepositoryImpl{db: db}
}

func (r *AddressRepositoryImpl) GetByID(ctx context.Context, id uint) (*customer.Address, error) {
	var model models.AddressModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get address: %w", err)
	}

	return customer.ReconstructAddress(model.ID, model.CustomerID, model.Label, model.Line), nil
}

type HolidayRepositoryImpl struct {
	db *gorm.DB
}

func NewHolidayRepository(db *gorm.DB) holiday.Repository {
	return &HolidayRepositoryImpl{db: db}
}

func (r *HolidayRepositoryImpl) ListInRange(ctx context.Context, rng schedule.DateRange) ([]*holiday.Holiday, error) {
	var list []*models.HolidayModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("date BETWEEN ? AND ?", rng.Start, rng.End).
		Order("date ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	out := make([]*holiday.Holiday, 0, len(list))
	for _, m := range list {
		out = append(out, holiday.ReconstructHoliday(m.ID, m.Date, m.Name))
	}
	return out, nil
}
