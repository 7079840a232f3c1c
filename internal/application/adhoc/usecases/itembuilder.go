package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/milkrun/milkrun/internal/domain/adhoc"
	"github.com/milkrun/milkrun/internal/domain/catalog"
	"github.com/milkrun/milkrun/internal/domain/setting"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	apperrors "github.com/milkrun/milkrun/internal/shared/errors"
)

// ItemInput is one requested product on one date.
type ItemInput struct {
	ProductID     uint            `validate:"required"`
	RequestedDate time.Time       `validate:"required"`
	Quantity      decimal.Decimal `validate:"gt=0"`
}

// itemBuilder validates requested items and snapshots their unit price.
type itemBuilder struct {
	productRepo catalog.Repository
	ledger      *CapacityLedger
}

func (b *itemBuilder) build(ctx context.Context, inputs []ItemInput, settings setting.BusinessSettings, today time.Time) ([]*adhoc.Item, error) {
	if len(inputs) == 0 {
		return nil, mapAdhocError(adhoc.ErrNoItems)
	}

	earliest := biztime.AddDays(today, settings.MinAdvanceDays)
	latest := biztime.AddDays(today, settings.MaxAdvanceDays)
	products := make(map[uint]*catalog.Product)

	items := make([]*adhoc.Item, 0, len(inputs))
	for _, in := range inputs {
		date := biztime.TruncateDate(in.RequestedDate)
		if date.Before(earliest) || date.After(latest) {
			return nil, apperrors.NewBadRequestError(
				fmt.Sprintf("requested date must be between %s and %s", biztime.FormatDate(earliest), biztime.FormatDate(latest)),
				biztime.FormatDate(date),
			).WithCause(adhoc.ErrDateOutsideWindow)
		}

		product, err := b.product(ctx, products, in.ProductID)
		if err != nil {
			return nil, err
		}

		c, err := b.ledger.Get(ctx, date, settings.DefaultCapacity)
		if err != nil {
			return nil, err
		}
		if c.IsBlocked() {
			return nil, mapAdhocError(c.CanAccept(0))
		}

		item, err := adhoc.NewItem(product.ID(), date, in.Quantity, product.Price())
		if err != nil {
			return nil, mapAdhocError(err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (b *itemBuilder) product(ctx context.Context, seen map[uint]*catalog.Product, id uint) (*catalog.Product, error) {
	if p, ok := seen[id]; ok {
		return p, nil
	}
	p, err := b.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if p == nil {
		return nil, apperrors.NewNotFoundError("product not found", fmt.Sprint(id)).WithCause(catalog.ErrProductNotFound)
	}
	if err := p.EnsureOrderable(); err != nil {
		return nil, mapAdhocError(err)
	}
	seen[id] = p
	return p, nil
}
