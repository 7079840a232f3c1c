package billing

import (
	"github.com/shopspring/decimal"

	vo "github.com/milkrun/milkrun/internal/domain/billing/valueobjects"
)

// Totals is the money side of a bill.
type Totals struct {
	RegularSubtotal decimal.Decimal
	AdhocAmount     decimal.Decimal
	Subtotal        decimal.Decimal
	TaxPercentage   decimal.Decimal
	TaxAmount       decimal.Decimal
	CreditsApplied  decimal.Decimal
	TotalAmount     decimal.Decimal
}

// CalculateTotals applies tax and wallet credit:
//
//	subtotal = regular + adhoc
//	tax      = subtotal × taxPercentage / 100
//	credits  = min(walletBalance, subtotal + tax)
//	total    = subtotal + tax − credits
//
// A negative wallet balance is treated as zero, so total is never negative.
func CalculateTotals(regular, adhoc, taxPercentage, walletBalance decimal.Decimal) Totals {
	regular = vo.RoundMoney(regular)
	adhoc = vo.RoundMoney(adhoc)
	subtotal := regular.Add(adhoc)
	tax := vo.Percent(subtotal, taxPercentage)
	gross := subtotal.Add(tax)

	credits := decimal.Zero
	if walletBalance.IsPositive() {
		credits = vo.RoundMoney(vo.MinMoney(walletBalance, gross))
	}

	return Totals{
		RegularSubtotal: regular,
		AdhocAmount:     adhoc,
		Subtotal:        subtotal,
		TaxPercentage:   taxPercentage,
		TaxAmount:       tax,
		CreditsApplied:  credits,
		TotalAmount:     gross.Sub(credits),
	}
}
