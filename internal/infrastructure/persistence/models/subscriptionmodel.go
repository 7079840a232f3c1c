package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// SubscriptionModel is the GORM model for subscriptions
type SubscriptionModel struct {
	ID             uint                        `gorm:"primaryKey;autoIncrement"`
	CustomerID     uint                        `gorm:"not null;index:idx_subscription_customer_status"`
	ProductID      uint                        `gorm:"not null"`
	AddressID      uint                        `gorm:"not null"`
	Quantity       decimal.Decimal             `gorm:"type:decimal(10,3);not null"`
	Frequency      string                      `gorm:"type:varchar(20);not null"`
	CustomDays     datatypes.JSONSlice[string] `gorm:"column:custom_days"`
	StartDate      time.Time                   `gorm:"type:date;not null"`
	EndDate        *time.Time                  `gorm:"type:date"`
	PauseStartDate *time.Time                  `gorm:"type:date"`
	PauseEndDate   *time.Time                  `gorm:"type:date"`
	Status         string                      `gorm:"type:varchar(20);not null;default:'ACTIVE';index:idx_subscription_customer_status"`
	CancelledAt    *time.Time
	CancelReason   string `gorm:"type:varchar(500)"`
	Version        int    `gorm:"not null;default:1"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// VacationModel is a customer-declared absence for one subscription.
type VacationModel struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	SubscriptionID uint      `gorm:"not null;index"`
	StartDate      time.Time `gorm:"type:date;not null"`
	EndDate        time.Time `gorm:"type:date;not null"`
	CreatedAt      time.Time
}

func (VacationModel) TableName() string {
	return "vacations"
}
