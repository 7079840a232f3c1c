// Package catalog exposes the products customers can subscribe to or order
// ad hoc, together with their price history.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductInactive = errors.New("product is inactive")
	ErrPriceNotSet     = errors.New("product has no price")
)

// Product is read-only for this module.
type Product struct {
	id       uint
	name     string
	unit     string
	price    decimal.Decimal
	isActive bool
}

func ReconstructProduct(id uint, name, unit string, price decimal.Decimal, isActive bool) *Product {
	return &Product{id: id, name: name, unit: unit, price: price, isActive: isActive}
}

func (p *Product) ID() uint               { return p.id }
func (p *Product) Name() string           { return p.name }
func (p *Product) Unit() string           { return p.unit }
func (p *Product) Price() decimal.Decimal { return p.price }
func (p *Product) IsActive() bool         { return p.isActive }

// EnsureOrderable checks the product can be priced for a new order.
func (p *Product) EnsureOrderable() error {
	if !p.isActive {
		return ErrProductInactive
	}
	if !p.price.IsPositive() {
		return ErrPriceNotSet
	}
	return nil
}

type Repository interface {
	// GetByID returns nil, nil when the product does not exist.
	GetByID(ctx context.Context, id uint) (*Product, error)
	// GetPriceOn returns the price effective on date: the latest history entry
	// with effective_from <= date, else the current price.
	GetPriceOn(ctx context.Context, productID uint, date time.Time) (decimal.Decimal, error)
}
