package adhoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milkrun/milkrun/internal/shared/biztime"
)

func TestParseItems(t *testing.T) {
	items, err := parseItems([]string{"3:2025-03-14:2", "4:2025-03-15:0.5"})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, uint(3), items[0].ProductID)
	assert.True(t, biztime.Date(2025, 3, 14).Equal(items[0].RequestedDate))
	assert.Equal(t, "2", items[0].Quantity.String())
	assert.Equal(t, "0.5", items[1].Quantity.String())
}

func TestParseItems_Invalid(t *testing.T) {
	for _, raw := range []string{"3:2025-03-14", "x:2025-03-14:1", "3:14/03/2025:1", "3:2025-03-14:abc"} {
		_, err := parseItems([]string{raw})
		assert.Error(t, err, raw)
	}
}
