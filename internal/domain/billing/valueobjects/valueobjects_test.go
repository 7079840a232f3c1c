package valueobjects

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaymentMethod(t *testing.T) {
	pm, err := NewPaymentMethod("upi")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodUPI, pm)
	assert.False(t, pm.IsWallet())

	_, err = NewPaymentMethod("cheque")
	assert.Error(t, err)
}

func TestMoneyHelpers(t *testing.T) {
	assert.Equal(t, "1.24", RoundMoney(decimal.RequireFromString("1.235")).StringFixed(2))
	assert.Equal(t, "9.00", Percent(decimal.NewFromInt(180), decimal.NewFromInt(5)).StringFixed(2))
	assert.True(t, MinMoney(decimal.NewFromInt(3), decimal.NewFromInt(2)).Equal(decimal.NewFromInt(2)))
}

func TestBillStatusFlags(t *testing.T) {
	assert.True(t, BillStatusOverdue.AcceptsPayment())
	assert.False(t, BillStatusPaid.AcceptsPayment())
	assert.False(t, BillStatusOverdue.CanBecomeOverdue())
	assert.True(t, BillStatusPartial.CanBecomeOverdue())
}
