package models

// All lists every model in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&ProductModel{},
		&ProductPriceModel{},
		&AddressModel{},
		&HolidayModel{},
		&SubscriptionModel{},
		&VacationModel{},
		&DeliveryModel{},
		&AdhocRequestModel{},
		&AdhocItemModel{},
		&AdhocCapacityModel{},
		&BillModel{},
		&BillItemModel{},
		&PaymentModel{},
		&WalletModel{},
		&WalletTransactionModel{},
		&SystemSettingModel{},
	}
}
