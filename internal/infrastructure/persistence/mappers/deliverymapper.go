package mappers

import (
	"github.com/milkrun/milkrun/internal/domain/delivery"
	vo "github.com/milkrun/milkrun/internal/domain/delivery/valueobjects"
	"github.com/milkrun/milkrun/internal/infrastructure/persistence/models"
	"github.com/milkrun/milkrun/internal/shared/mapper"
)

type DeliveryMapper interface {
	ToEntity(model *models.DeliveryModel) (*delivery.Delivery, error)
	ToModel(entity *delivery.Delivery) *models.DeliveryModel
	ToEntities(models []*models.DeliveryModel) ([]*delivery.Delivery, error)
}

type DeliveryMapperImpl struct{}

func NewDeliveryMapper() DeliveryMapper {
	return &DeliveryMapperImpl{}
}

func (m *DeliveryMapperImpl) ToEntity(model *models.DeliveryModel) (*delivery.Delivery, error) {
	if model == nil {
		return nil, nil
	}
	return delivery.ReconstructDelivery(delivery.DeliveryReconstructParams{
		ID:                model.ID,
		Type:              vo.DeliveryType(model.Type),
		SubscriptionID:    model.SubscriptionID,
		AdhocItemID:       model.AdhocItemID,
		CustomerID:        model.CustomerID,
		ProductID:         model.ProductID,
		DeliveryDate:      model.DeliveryDate,
		ScheduledQuantity: model.ScheduledQuantity,
		DeliveredQuantity: model.DeliveredQuantity,
		UnitPrice:         model.UnitPrice,
		Status:            vo.DeliveryStatus(model.Status),
		DeliveredAt:       model.DeliveredAt,
		Notes:             model.Notes,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	})
}

func (m *DeliveryMapperImpl) ToModel(entity *delivery.Delivery) *models.DeliveryModel {
	if entity == nil {
		return nil
	}
	return &models.DeliveryModel{
		ID:                entity.ID(),
		Type:              string(entity.Type()),
		SubscriptionID:    entity.SubscriptionID(),
		AdhocItemID:       entity.AdhocItemID(),
		CustomerID:        entity.CustomerID(),
		ProductID:         entity.ProductID(),
		DeliveryDate:      entity.DeliveryDate(),
		ScheduledQuantity: entity.ScheduledQuantity(),
		DeliveredQuantity: entity.DeliveredQuantity(),
		UnitPrice:         entity.UnitPrice(),
		Status:            string(entity.Status()),
		DeliveredAt:       entity.DeliveredAt(),
		Notes:             entity.Notes(),
		CreatedAt:         entity.CreatedAt(),
		UpdatedAt:         entity.UpdatedAt(),
	}
}

func (m *DeliveryMapperImpl) ToEntities(list []*models.DeliveryModel) ([]*delivery.Delivery, error) {
	return mapper.MapSliceErr(list, m.ToEntity)
}
