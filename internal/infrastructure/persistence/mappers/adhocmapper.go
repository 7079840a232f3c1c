package mappers

import (
	"github.com/milkrun/milkrun/internal/domain/adhoc"
	vo "github.com/milkrun/milkrun/internal/domain/adhoc/valueobjects"
	"github.com/milkrun/milkrun/internal/infrastructure/persistence/models"
)

type AdhocMapper interface {
	RequestToEntity(model *models.AdhocRequestModel) (*adhoc.Request, error)
	RequestToModel(entity *adhoc.Request) *models.AdhocRequestModel
	ItemToModel(item *adhoc.Item, requestID uint) models.AdhocItemModel
	CapacityToEntity(model *models.AdhocCapacityModel, defaultMax int) *adhoc.Capacity
}

type AdhocMapperImpl struct{}

func NewAdhocMapper() AdhocMapper {
	return &AdhocMapperImpl{}
}

// RequestToEntity expects model.Items to be preloaded.
func (m *AdhocMapperImpl) RequestToEntity(model *models.AdhocRequestModel) (*adhoc.Request, error) {
	if model == nil {
		return nil, nil
	}

	items := make([]*adhoc.Item, 0, len(model.Items))
	for _, it := range model.Items {
		items = append(items, adhoc.ReconstructItem(
			it.ID, it.RequestID, it.ProductID, it.RequestedDate,
			it.Quantity, it.UnitPrice, vo.ItemStatus(it.Status), it.RejectionReason,
		))
	}

	return adhoc.ReconstructRequest(adhoc.RequestReconstructParams{
		ID:            model.ID,
		CustomerID:    model.CustomerID,
		AddressID:     model.AddressID,
		Status:        vo.RequestStatus(model.Status),
		Items:         items,
		EstimatedCost: model.EstimatedCost,
		Notes:         model.Notes,
		ReviewedBy:    model.ReviewedBy,
		ReviewedAt:    model.ReviewedAt,
		AdminNotes:    model.AdminNotes,
		CancelledAt:   model.CancelledAt,
		Version:       model.Version,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	})
}

// RequestToModel leaves Items empty; items are written separately.
func (m *AdhocMapperImpl) RequestToModel(entity *adhoc.Request) *models.AdhocRequestModel {
	if entity == nil {
		return nil
	}
	return &models.AdhocRequestModel{
		ID:            entity.ID(),
		CustomerID:    entity.CustomerID(),
		AddressID:     entity.AddressID(),
		Status:        string(entity.Status()),
		EstimatedCost: entity.EstimatedCost(),
		Notes:         entity.Notes(),
		ReviewedBy:    entity.ReviewedBy(),
		ReviewedAt:    entity.ReviewedAt(),
		AdminNotes:    entity.AdminNotes(),
		CancelledAt:   entity.CancelledAt(),
		Version:       entity.Version(),
		CreatedAt:     entity.CreatedAt(),
		UpdatedAt:     entity.UpdatedAt(),
	}
}

func (m *AdhocMapperImpl) ItemToModel(item *adhoc.Item, requestID uint) models.AdhocItemModel {
	return models.AdhocItemModel{
		ID:              item.ID(),
		RequestID:       requestID,
		ProductID:       item.ProductID(),
		RequestedDate:   item.RequestedDate(),
		Quantity:        item.Quantity(),
		UnitPrice:       item.UnitPrice(),
		Status:          string(item.Status()),
		RejectionReason: item.RejectionReason(),
	}
}

// CapacityToEntity resolves a NULL maximum to defaultMax.
func (m *AdhocMapperImpl) CapacityToEntity(model *models.AdhocCapacityModel, defaultMax int) *adhoc.Capacity {
	if model == nil {
		return nil
	}
	return adhoc.ReconstructStoredCapacity(model.Date, model.MaxAdhocRequests, defaultMax, model.CurrentApproved, model.IsBlocked, model.BlockReason)
}
