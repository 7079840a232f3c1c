package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AdhocRequestModel struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"`
	CustomerID    uint            `gorm:"not null;index"`
	AddressID     uint            `gorm:"not null"`
	Status        string          `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	EstimatedCost decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes         string          `gorm:"type:varchar(500)"`
	ReviewedBy    *uint
	ReviewedAt    *time.Time
	AdminNotes    string `gorm:"type:varchar(500)"`
	CancelledAt   *time.Time
	Version       int              `gorm:"not null;default:1"`
	Items         []AdhocItemModel `gorm:"foreignKey:RequestID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (AdhocRequestModel) TableName() string {
	return "adhoc_requests"
}

type AdhocItemModel struct {
	ID              uint            `gorm:"primaryKey;autoIncrement"`
	RequestID       uint            `gorm:"not null;index"`
	ProductID       uint            `gorm:"not null"`
	RequestedDate   time.Time       `gorm:"type:date;not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status          string          `gorm:"type:varchar(20);not null;default:'PENDING'"`
	RejectionReason string          `gorm:"type:varchar(500)"`
}

func (AdhocItemModel) TableName() string {
	return "adhoc_request_items"
}

// AdhocCapacityModel holds the per-date approval counter. A NULL
// MaxAdhocRequests means the date follows adhoc.default_capacity.
type AdhocCapacityModel struct {
	ID               uint      `gorm:"primaryKey;autoIncrement"`
	Date             time.Time `gorm:"type:date;not null;uniqueIndex"`
	MaxAdhocRequests *int
	CurrentApproved  int    `gorm:"not null;default:0"`
	IsBlocked        bool   `gorm:"not null;default:false"`
	BlockReason      string `gorm:"type:varchar(255)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (AdhocCapacityModel) TableName() string {
	return "adhoc_capacity"
}
