package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milkrun/milkrun/internal/shared/errors"
)

type sampleCommand struct {
	CustomerID uint            `json:"customer_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity" validate:"gt=0"`
	Method     string          `json:"method" validate:"oneof=CASH UPI"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		err := ValidateStruct(sampleCommand{CustomerID: 1, Quantity: decimal.NewFromInt(2), Method: "UPI"})
		assert.NoError(t, err)
	})

	t.Run("reports every failed field by json name", func(t *testing.T) {
		err := ValidateStruct(sampleCommand{Quantity: decimal.Zero, Method: "CHEQUE"})
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))

		appErr := errors.GetAppError(err)
		assert.Contains(t, appErr.Details, "customer_id is required")
		assert.Contains(t, appErr.Details, "quantity must be greater than 0")
		assert.Contains(t, appErr.Details, "method must be one of [CASH UPI]")
	})

	t.Run("negative decimal rejected", func(t *testing.T) {
		err := ValidateStruct(sampleCommand{CustomerID: 1, Quantity: decimal.NewFromFloat(-0.5), Method: "CASH"})
		assert.Error(t, err)
	})
}
