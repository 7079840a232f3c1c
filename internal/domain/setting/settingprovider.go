package setting

import (
	"context"

	"github.com/shopspring/decimal"
)

// CategoryBusiness groups every setting the delivery and billing core reads.
const CategoryBusiness = "business"

// Keys within CategoryBusiness.
const (
	KeyAdhocMinAdvanceDays    = "adhoc.min_advance_days"
	KeyAdhocMaxAdvanceDays    = "adhoc.max_advance_days"
	KeyAdhocDefaultCapacity   = "adhoc.default_capacity"
	KeyAdhocCancelBeforeHours = "adhoc.cancel_before_hours"
	KeyBillingTaxPercentage   = "billing.tax_percentage"
	KeyBillingDueDays         = "billing.due_days"
	KeyMaxPauseDays           = "subscription.max_pause_days"
	KeyScheduleLookaheadDays  = "schedule.lookahead_days"
)

// KeyTypes declares the value type of every known business key.
var KeyTypes = map[string]ValueType{
	KeyAdhocMinAdvanceDays:    ValueTypeInt,
	KeyAdhocMaxAdvanceDays:    ValueTypeInt,
	KeyAdhocDefaultCapacity:   ValueTypeInt,
	KeyAdhocCancelBeforeHours: ValueTypeInt,
	KeyBillingTaxPercentage:   ValueTypeDecimal,
	KeyBillingDueDays:         ValueTypeInt,
	KeyMaxPauseDays:           ValueTypeInt,
	KeyScheduleLookaheadDays:  ValueTypeInt,
}

// BusinessSettings is a snapshot of the business rules, loaded once per
// operation and passed down explicitly.
type BusinessSettings struct {
	MinAdvanceDays    int
	MaxAdvanceDays    int
	DefaultCapacity   int
	CancelBeforeHours int
	TaxPercentage     decimal.Decimal
	BillDueDays       int
	MaxPauseDays      int
	LookaheadDays     int
}

// DefaultBusinessSettings are used when neither the database nor the
// configuration file provide a value.
func DefaultBusinessSettings() BusinessSettings {
	return BusinessSettings{
		MinAdvanceDays:    1,
		MaxAdvanceDays:    30,
		DefaultCapacity:   50,
		CancelBeforeHours: 12,
		TaxPercentage:     decimal.Zero,
		BillDueDays:       7,
		MaxPauseDays:      30,
		LookaheadDays:     7,
	}
}

// SettingProvider resolves the effective business settings.
// Database values take precedence over configuration fallbacks.
type SettingProvider interface {
	BusinessSettings(ctx context.Context) (BusinessSettings, error)
}
