package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillModel is the GORM model for bills. One bill per customer and period.
type BillModel struct {
	ID                 uint            `gorm:"primaryKey;autoIncrement"`
	BillNumber         string          `gorm:"type:varchar(40);not null;uniqueIndex"`
	CustomerID         uint            `gorm:"not null;uniqueIndex:uk_bill_customer_period"`
	BillingPeriodStart time.Time       `gorm:"type:date;not null;uniqueIndex:uk_bill_customer_period"`
	BillingPeriodEnd   time.Time       `gorm:"type:date;not null;uniqueIndex:uk_bill_customer_period"`
	TotalDeliveries    int             `gorm:"not null;default:0"`
	MissedDeliveries   int             `gorm:"not null;default:0"`
	VacationDays       int             `gorm:"not null;default:0"`
	HolidayDays        int             `gorm:"not null;default:0"`
	RegularSubtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AdhocAmount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxPercentage      decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	TaxAmount          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreditsApplied     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAmount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status             string          `gorm:"type:varchar(20);not null;index:idx_bill_status_due"`
	DueDate            time.Time       `gorm:"type:date;not null;index:idx_bill_status_due"`
	GeneratedAt        time.Time
	CancelledAt        *time.Time
	CancelReason       string          `gorm:"type:varchar(500)"`
	Items              []BillItemModel `gorm:"foreignKey:BillID"`
	Version            int             `gorm:"not null;default:1"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (BillModel) TableName() string {
	return "bills"
}

type BillItemModel struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"`
	BillID        uint            `gorm:"not null;index"`
	Origin        string          `gorm:"type:varchar(10);not null"`
	ProductID     uint            `gorm:"not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DeliveryCount int             `gorm:"not null"`
}

func (BillItemModel) TableName() string {
	return "bill_items"
}
