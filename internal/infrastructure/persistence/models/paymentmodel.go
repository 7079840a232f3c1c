package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentModel is the GORM model for bill payments
type PaymentModel struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"`
	BillID     uint            `gorm:"not null;index"`
	CustomerID uint            `gorm:"not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Method     string          `gorm:"type:varchar(20);not null"`
	Status     string          `gorm:"type:varchar(20);not null"`
	Reference  string          `gorm:"type:varchar(100)"`
	PaidAt     *time.Time
	Notes      string `gorm:"type:varchar(500)"`
	CreatedAt  time.Time
}

func (PaymentModel) TableName() string {
	return "payments"
}

type WalletModel struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"`
	CustomerID uint            `gorm:"not null;uniqueIndex"`
	Balance    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (WalletModel) TableName() string {
	return "wallets"
}

type WalletTransactionModel struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"`
	WalletID      uint            `gorm:"not null;index"`
	Type          string          `gorm:"type:varchar(10);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ReferenceType string          `gorm:"type:varchar(20);not null"`
	ReferenceID   string          `gorm:"type:varchar(100)"`
	Description   string          `gorm:"type:varchar(255)"`
	CreatedAt     time.Time
}

func (WalletTransactionModel) TableName() string {
	return "wallet_transactions"
}
