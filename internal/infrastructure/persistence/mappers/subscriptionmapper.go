package mappers

import (
	"fmt"

	"gorm.io/datatypes"

	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/domain/subscription"
	vo "github.com/milkrun/milkrun/internal/domain/subscription/valueobjects"
	"github.com/milkrun/milkrun/internal/infrastructure/persistence/models"
	"github.com/milkrun/milkrun/internal/shared/mapper"
)

// SubscriptionMapper handles conversion between subscription entities and models
type SubscriptionMapper interface {
	ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error)
	ToModel(entity *subscription.Subscription) *models.SubscriptionModel
	ToEntities(models []*models.SubscriptionModel) ([]*subscription.Subscription, error)
	VacationToEntity(model *models.VacationModel) *subscription.Vacation
}

type SubscriptionMapperImpl struct{}

func NewSubscriptionMapper() SubscriptionMapper {
	return &SubscriptionMapperImpl{}
}

func (m *SubscriptionMapperImpl) ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	if model == nil {
		return nil, nil
	}

	frequency, err := schedule.ParseFrequency(model.Frequency)
	if err != nil {
		return nil, fmt.Errorf("subscription %d: %w", model.ID, err)
	}
	days, err := schedule.ParseWeekdays(model.CustomDays)
	if err != nil {
		return nil, fmt.Errorf("subscription %d: %w", model.ID, err)
	}

	return subscription.ReconstructSubscription(subscription.SubscriptionReconstructParams{
		ID:           model.ID,
		CustomerID:   model.CustomerID,
		ProductID:    model.ProductID,
		AddressID:    model.AddressID,
		Quantity:     model.Quantity,
		Frequency:    frequency,
		CustomDays:   days,
		StartDate:    model.StartDate,
		EndDate:      model.EndDate,
		PauseStart:   model.PauseStartDate,
		PauseEnd:     model.PauseEndDate,
		Status:       vo.SubscriptionStatus(model.Status),
		CancelledAt:  model.CancelledAt,
		CancelReason: model.CancelReason,
		Version:      model.Version,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	})
}

func (m *SubscriptionMapperImpl) ToModel(entity *subscription.Subscription) *models.SubscriptionModel {
	if entity == nil {
		return nil
	}

	var days datatypes.JSONSlice[string]
	if !entity.CustomDays().IsEmpty() {
		days = datatypes.JSONSlice[string](entity.CustomDays().Names())
	}

	return &models.SubscriptionModel{
		ID:             entity.ID(),
		CustomerID:     entity.CustomerID(),
		ProductID:      entity.ProductID(),
		AddressID:      entity.AddressID(),
		Quantity:       entity.Quantity(),
		Frequency:      entity.Frequency().String(),
		CustomDays:     days,
		StartDate:      entity.StartDate(),
		EndDate:        entity.EndDate(),
		PauseStartDate: entity.PauseStart(),
		PauseEndDate:   entity.PauseEnd(),
		Status:         string(entity.Status()),
		CancelledAt:    entity.CancelledAt(),
		CancelReason:   entity.CancelReason(),
		Version:        entity.Version(),
		CreatedAt:      entity.CreatedAt(),
		UpdatedAt:      entity.UpdatedAt(),
	}
}

func (m *SubscriptionMapperImpl) ToEntities(list []*models.SubscriptionModel) ([]*subscription.Subscription, error) {
	return mapper.MapSliceErr(list, m.ToEntity)
}

func (m *SubscriptionMapperImpl) VacationToEntity(model *models.VacationModel) *subscription.Vacation {
	return subscription.ReconstructVacation(model.ID, model.SubscriptionID, model.StartDate, model.EndDate)
}
