package mappers

import (
	"github.com/milkrun/milkrun/internal/domain/billing"
	vo "github.com/milkrun/milkrun/internal/domain/billing/valueobjects"
	"github.com/milkrun/milkrun/internal/infrastructure/persistence/models"
	"github.com/milkrun/milkrun/internal/shared/mapper"
)

type BillingMapper interface {
	BillToEntity(model *models.BillModel) (*billing.Bill, error)
	BillToModel(entity *billing.Bill) *models.BillModel
	BillsToEntities(models []*models.BillModel) ([]*billing.Bill, error)
	PaymentToEntity(model *models.PaymentModel) *billing.Payment
	PaymentToModel(entity *billing.Payment) *models.PaymentModel
	WalletToEntity(model *models.WalletModel) *billing.Wallet
	WalletTransactionToEntity(model *models.WalletTransactionModel) *billing.WalletTransaction
	WalletTransactionToModel(entity *billing.WalletTransaction) *models.WalletTransactionModel
}

type BillingMapperImpl struct{}

func NewBillingMapper() BillingMapper {
	return &BillingMapperImpl{}
}

// BillToEntity expects model.Items to be preloaded when the caller needs them.
func (m *BillingMapperImpl) BillToEntity(model *models.BillModel) (*billing.Bill, error) {
	if model == nil {
		return nil, nil
	}

	items := make([]*billing.BillItem, 0, len(model.Items))
	for _, it := range model.Items {
		items = append(items, billing.ReconstructBillItem(
			it.ID, it.BillID, vo.ItemOrigin(it.Origin), it.ProductID,
			it.Quantity, it.UnitPrice, it.Amount, it.DeliveryCount,
		))
	}

	return billing.ReconstructBill(billing.BillReconstructParams{
		ID:               model.ID,
		BillNumber:       model.BillNumber,
		CustomerID:       model.CustomerID,
		PeriodStart:      model.BillingPeriodStart,
		PeriodEnd:        model.BillingPeriodEnd,
		TotalDeliveries:  model.TotalDeliveries,
		MissedDeliveries: model.MissedDeliveries,
		VacationDays:     model.VacationDays,
		HolidayDays:      model.HolidayDays,
		Totals: billing.Totals{
			RegularSubtotal: model.RegularSubtotal,
			AdhocAmount:     model.AdhocAmount,
			Subtotal:        model.Subtotal,
			TaxPercentage:   model.TaxPercentage,
			TaxAmount:       model.TaxAmount,
			CreditsApplied:  model.CreditsApplied,
			TotalAmount:     model.TotalAmount,
		},
		Status:       vo.BillStatus(model.Status),
		DueDate:      model.DueDate,
		GeneratedAt:  model.GeneratedAt,
		CancelledAt:  model.CancelledAt,
		CancelReason: model.CancelReason,
		Items:        items,
		Version:      model.Version,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	})
}

func (m *BillingMapperImpl) BillToModel(entity *billing.Bill) *models.BillModel {
	if entity == nil {
		return nil
	}

	totals := entity.Totals()
	model := &models.BillModel{
		ID:                 entity.ID(),
		BillNumber:         entity.BillNumber(),
		CustomerID:         entity.CustomerID(),
		BillingPeriodStart: entity.PeriodStart(),
		BillingPeriodEnd:   entity.PeriodEnd(),
		TotalDeliveries:    entity.TotalDeliveries(),
		MissedDeliveries:   entity.MissedDeliveries(),
		VacationDays:       entity.VacationDays(),
		HolidayDays:        entity.HolidayDays(),
		RegularSubtotal:    totals.RegularSubtotal,
		AdhocAmount:        totals.AdhocAmount,
		Subtotal:           totals.Subtotal,
		TaxPercentage:      totals.TaxPercentage,
		TaxAmount:          totals.TaxAmount,
		CreditsApplied:     totals.CreditsApplied,
		TotalAmount:        totals.TotalAmount,
		Status:             string(entity.Status()),
		DueDate:            entity.DueDate(),
		GeneratedAt:        entity.GeneratedAt(),
		CancelledAt:        entity.CancelledAt(),
		CancelReason:       entity.CancelReason(),
		Version:            entity.Version(),
		CreatedAt:          entity.CreatedAt(),
		UpdatedAt:          entity.UpdatedAt(),
	}
	for _, it := range entity.Items() {
		model.Items = append(model.Items, models.BillItemModel{
			ID:            it.ID(),
			BillID:        it.BillID(),
			Origin:        string(it.Origin()),
			ProductID:     it.ProductID(),
			Quantity:      it.Quantity(),
			UnitPrice:     it.UnitPrice(),
			Amount:        it.Amount(),
			DeliveryCount: it.DeliveryCount(),
		})
	}
	return model
}

func (m *BillingMapperImpl) BillsToEntities(list []*models.BillModel) ([]*billing.Bill, error) {
	return mapper.MapSliceErr(list, m.BillToEntity)
}

func (m *BillingMapperImpl) PaymentToEntity(model *models.PaymentModel) *billing.Payment {
	if model == nil {
		return nil
	}
	return billing.ReconstructPayment(
		model.ID, model.BillID, model.CustomerID, model.Amount,
		vo.PaymentMethod(model.Method), vo.PaymentStatus(model.Status),
		model.Reference, model.PaidAt, model.Notes, model.CreatedAt,
	)
}

func (m *BillingMapperImpl) PaymentToModel(entity *billing.Payment) *models.PaymentModel {
	if entity == nil {
		return nil
	}
	return &models.PaymentModel{
		ID:         entity.ID(),
		BillID:     entity.BillID(),
		CustomerID: entity.CustomerID(),
		Amount:     entity.Amount(),
		Method:     string(entity.Method()),
		Status:     string(entity.Status()),
		Reference:  entity.Reference(),
		PaidAt:     entity.PaidAt(),
		Notes:      entity.Notes(),
		CreatedAt:  entity.CreatedAt(),
	}
}

func (m *BillingMapperImpl) WalletToEntity(model *models.WalletModel) *billing.Wallet {
	if model == nil {
		return nil
	}
	return billing.ReconstructWallet(model.ID, model.CustomerID, model.Balance, model.UpdatedAt)
}

func (m *BillingMapperImpl) WalletTransactionToEntity(model *models.WalletTransactionModel) *billing.WalletTransaction {
	if model == nil {
		return nil
	}
	return billing.ReconstructWalletTransaction(
		model.ID, model.WalletID, vo.WalletTransactionType(model.Type),
		model.Amount, model.BalanceAfter, vo.WalletReferenceType(model.ReferenceType),
		model.ReferenceID, model.Description, model.CreatedAt,
	)
}

func (m *BillingMapperImpl) WalletTransactionToModel(entity *billing.WalletTransaction) *models.WalletTransactionModel {
	if entity == nil {
		return nil
	}
	return &models.WalletTransactionModel{
		ID:            entity.ID(),
		WalletID:      entity.WalletID(),
		Type:          string(entity.Type()),
		Amount:        entity.Amount(),
		BalanceAfter:  entity.BalanceAfter(),
		ReferenceType: string(entity.ReferenceType()),
		ReferenceID:   entity.ReferenceID(),
		Description:   entity.Description(),
		CreatedAt:     entity.CreatedAt(),
	}
}
