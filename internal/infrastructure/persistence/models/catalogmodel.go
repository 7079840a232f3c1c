package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductModel struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	Name      string          `gorm:"type:varchar(100);not null"`
	Unit      string          `gorm:"type:varchar(20);not null"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	IsActive  bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProductModel) TableName() string {
	return "products"
}

// ProductPriceModel is one entry of a product's price history.
type ProductPriceModel struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"`
	ProductID     uint            `gorm:"not null;index:idx_product_price_effective"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	EffectiveFrom time.Time       `gorm:"type:date;not null;index:idx_product_price_effective"`
	CreatedAt     time.Time
}

func (ProductPriceModel) TableName() string {
	return "product_prices"
}

type AddressModel struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	CustomerID uint   `gorm:"not null;index"`
	Label      string `gorm:"type:varchar(50)"`
	Line       string `gorm:"type:varchar(500);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (AddressModel) TableName() string {
	return "customer_addresses"
}

type HolidayModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex"`
	Name      string    `gorm:"type:varchar(100);not null"`
	CreatedAt time.Time
}

func (HolidayModel) TableName() string {
	return "holidays"
}
