package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryModel is the GORM model for deliveries. The unique index lets the
// materializer insert-or-skip; adhoc rows carry a NULL subscription_id and
// never collide.
type DeliveryModel struct {
	ID                uint             `gorm:"primaryKey;autoIncrement"`
	Type              string           `gorm:"type:varchar(10);not null"`
	SubscriptionID    *uint            `gorm:"uniqueIndex:uk_delivery_subscription_date"`
	AdhocItemID       *uint            `gorm:"index"`
	CustomerID        uint             `gorm:"not null;index:idx_delivery_customer_date"`
	ProductID         uint             `gorm:"not null"`
	DeliveryDate      time.Time        `gorm:"type:date;not null;uniqueIndex:uk_delivery_subscription_date;index:idx_delivery_customer_date"`
	ScheduledQuantity decimal.Decimal  `gorm:"type:decimal(10,3);not null"`
	DeliveredQuantity *decimal.Decimal `gorm:"type:decimal(10,3)"`
	UnitPrice         *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Status            string           `gorm:"type:varchar(20);not null;default:'SCHEDULED'"`
	DeliveredAt       *time.Time
	Notes             string `gorm:"type:varchar(500)"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (DeliveryModel) TableName() string {
	return "deliveries"
}
