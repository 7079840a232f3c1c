package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(Date(2025, 1, 1), Date(2025, 1, 1)))
	assert.Equal(t, 9, DaysBetween(Date(2025, 1, 1), Date(2025, 1, 10)))
	assert.Equal(t, -1, DaysBetween(Date(2025, 3, 1), Date(2025, 2, 28)))
	// leap year
	assert.Equal(t, 29, DaysBetween(Date(2024, 2, 1), Date(2024, 3, 1)))
}

func TestTodayUsesBusinessTimezone(t *testing.T) {
	require.NoError(t, Init(DefaultTimezone))
	// 20:00 UTC is already the next day in Asia/Kolkata (+05:30).
	restore := SetNowFunc(func() time.Time {
		return time.Date(2025, 1, 31, 20, 0, 0, 0, time.UTC)
	})
	defer restore()

	assert.Equal(t, Date(2025, 2, 1), Today())
}

func TestStartOfDateUTC(t *testing.T) {
	require.NoError(t, Init(DefaultTimezone))
	got := StartOfDateUTC(Date(2025, 2, 1))
	assert.Equal(t, time.Date(2025, 1, 31, 18, 30, 0, 0, time.UTC), got)
}

func TestMonthBounds(t *testing.T) {
	assert.Equal(t, Date(2025, 2, 1), StartOfMonth(2025, time.February))
	assert.Equal(t, Date(2025, 2, 28), EndOfMonth(2025, time.February))
	assert.Equal(t, Date(2024, 12, 31), EndOfMonth(2024, time.December))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-15")
	require.NoError(t, err)
	assert.Equal(t, Date(2025, 1, 15), d)
	assert.Equal(t, "2025-01-15", FormatDate(d))

	_, err = ParseDate("15/01/2025")
	assert.Error(t, err)
}
