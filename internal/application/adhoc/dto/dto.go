package dto

import (
	"time"

	"github.com/milkrun/milkrun/internal/domain/adhoc"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	"github.com/milkrun/milkrun/internal/shared/mapper"
)

type CapacityDTO struct {
	Date            string `json:"date"`
	MaxCapacity     int    `json:"max_capacity"`
	CurrentApproved int    `json:"current_approved"`
	Available       int    `json:"available"`
	IsBlocked       bool   `json:"is_blocked"`
	BlockReason     string `json:"block_reason,omitempty"`
}

type AdhocItemDTO struct {
	ID              uint   `json:"id"`
	ProductID       uint   `json:"product_id"`
	RequestedDate   string `json:"requested_date"`
	Quantity        string `json:"quantity"`
	UnitPrice       string `json:"unit_price"`
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

type AdhocRequestDTO struct {
	ID            uint           `json:"id"`
	CustomerID    uint           `json:"customer_id"`
	AddressID     uint           `json:"address_id"`
	Status        string         `json:"status"`
	EstimatedCost string         `json:"estimated_cost"`
	Notes         string         `json:"notes,omitempty"`
	AdminNotes    string         `json:"admin_notes,omitempty"`
	ReviewedBy    *uint          `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time     `json:"reviewed_at,omitempty"`
	CancelledAt   *time.Time     `json:"cancelled_at,omitempty"`
	Items         []AdhocItemDTO `json:"items"`
	CreatedAt     time.Time      `json:"created_at"`
}

func ToCapacityDTO(c *adhoc.Capacity) CapacityDTO {
	return CapacityDTO{
		Date:            biztime.FormatDate(c.Date()),
		MaxCapacity:     c.MaxAdhocRequests(),
		CurrentApproved: c.CurrentApproved(),
		Available:       c.Available(),
		IsBlocked:       c.IsBlocked(),
		BlockReason:     c.BlockReason(),
	}
}

func ToCapacityDTOs(cs []*adhoc.Capacity) []CapacityDTO {
	return mapper.MapSlice(cs, ToCapacityDTO)
}

func ToAdhocItemDTO(i *adhoc.Item) AdhocItemDTO {
	return AdhocItemDTO{
		ID:              i.ID(),
		ProductID:       i.ProductID(),
		RequestedDate:   biztime.FormatDate(i.RequestedDate()),
		Quantity:        i.Quantity().String(),
		UnitPrice:       i.UnitPrice().StringFixed(2),
		Status:          i.Status().String(),
		RejectionReason: i.RejectionReason(),
	}
}

func ToAdhocRequestDTO(r *adhoc.Request) *AdhocRequestDTO {
	if r == nil {
		return nil
	}
	return &AdhocRequestDTO{
		ID:            r.ID(),
		CustomerID:    r.CustomerID(),
		AddressID:     r.AddressID(),
		Status:        r.Status().String(),
		EstimatedCost: r.EstimatedCost().StringFixed(2),
		Notes:         r.Notes(),
		AdminNotes:    r.AdminNotes(),
		ReviewedBy:    r.ReviewedBy(),
		ReviewedAt:    r.ReviewedAt(),
		CancelledAt:   r.CancelledAt(),
		Items:         mapper.MapSlice(r.Items(), ToAdhocItemDTO),
		CreatedAt:     r.CreatedAt(),
	}
}
