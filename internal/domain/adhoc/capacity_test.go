package adhoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milkrun/milkrun/internal/shared/biztime"
)

func TestCapacity_Available(t *testing.T) {
	c := NewDefaultCapacity(biztime.Date(2025, 3, 1), 50)
	assert.Equal(t, 50, c.Available())
	assert.NoError(t, c.CanAccept(50))
	assert.ErrorIs(t, c.CanAccept(51), ErrCapacityExceeded)

	over := ReconstructCapacity(biztime.Date(2025, 3, 1), 5, 7, false, "")
	assert.Equal(t, 0, over.Available())
}

func TestCapacity_Blocked(t *testing.T) {
	c := ReconstructCapacity(biztime.Date(2025, 3, 1), 50, 0, true, "festival")
	err := c.CanAccept(1)
	assert.ErrorIs(t, err, ErrDateBlocked)
	assert.Contains(t, err.Error(), "festival")
}

func TestCapacity_ApplySettings(t *testing.T) {
	c := ReconstructCapacity(biztime.Date(2025, 3, 1), 50, 3, false, "")
	require.NoError(t, c.ApplySettings(CapacitySettings{MaxAdhocRequests: intPtr(10), IsBlocked: true, BlockReason: "strike"}))
	assert.Equal(t, 3, c.CurrentApproved())
	assert.Equal(t, 7, c.Available())
	assert.True(t, c.IsBlocked())

	require.NoError(t, c.ApplySettings(CapacitySettings{MaxAdhocRequests: intPtr(10), BlockReason: "ignored"}))
	assert.Empty(t, c.BlockReason())

	assert.ErrorIs(t, c.ApplySettings(CapacitySettings{MaxAdhocRequests: intPtr(-1)}), ErrInvalidCapacity)
}

func TestCapacity_StoredRowFollowsDefault(t *testing.T) {
	date := biztime.Date(2025, 3, 1)

	c := ReconstructStoredCapacity(date, nil, 80, 12, false, "")
	assert.Equal(t, 80, c.MaxAdhocRequests())
	assert.Nil(t, c.MaxOverride())
	assert.Equal(t, 68, c.Available())

	require.NoError(t, c.ApplySettings(CapacitySettings{IsBlocked: true, BlockReason: "strike"}))
	assert.Nil(t, c.MaxOverride(), "blocking alone must not pin the maximum")

	overridden := ReconstructStoredCapacity(date, intPtr(20), 80, 12, false, "")
	require.NotNil(t, overridden.MaxOverride())
	assert.Equal(t, 20, *overridden.MaxOverride())
	assert.Equal(t, 8, overridden.Available())
}

func intPtr(v int) *int { return &v }
