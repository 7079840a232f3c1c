package id

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	a, err := Generate(0)
	require.NoError(t, err)
	assert.Len(t, a, DefaultLength)

	b, err := Generate(16)
	require.NoError(t, err)
	assert.Len(t, b, 16)
	for _, r := range b {
		assert.True(t, strings.ContainsRune(alphabet, r))
	}
}

func TestDocumentNumberRoundTrip(t *testing.T) {
	number, err := NewDocumentNumber(PrefixBill, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(number, "BILL-202501-"))

	prefix, period, suffix, err := ParseDocumentNumber(number)
	require.NoError(t, err)
	assert.Equal(t, PrefixBill, prefix)
	assert.Equal(t, "202501", period)
	assert.Len(t, suffix, DefaultLength)
}

func TestParseDocumentNumber_Invalid(t *testing.T) {
	for _, in := range []string{"", "BILL", "BILL-2025-abc", "-202501-abc", "BILL-202501-"} {
		_, _, _, err := ParseDocumentNumber(in)
		assert.Error(t, err, in)
	}
}
