package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milkrun/milkrun/internal/domain/adhoc"
	adhocvo "github.com/milkrun/milkrun/internal/domain/adhoc/valueobjects"
	"github.com/milkrun/milkrun/internal/domain/holiday"
	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/domain/subscription"
	subvo "github.com/milkrun/milkrun/internal/domain/subscription/valueobjects"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

func januarySubscription(t *testing.T, status subvo.SubscriptionStatus) *subscription.Subscription {
	t.Helper()
	sub, err := subscription.ReconstructSubscription(subscription.SubscriptionReconstructParams{
		ID:         7,
		CustomerID: 3,
		ProductID:  1,
		AddressID:  4,
		Quantity:   decimal.NewFromInt(2),
		Frequency:  schedule.FrequencyDaily,
		StartDate:  biztime.Date(2025, 1, 1),
		Status:     status,
		Version:    1,
	})
	require.NoError(t, err)
	return sub
}

func january() schedule.DateRange {
	return schedule.MustDateRange(biztime.Date(2025, 1, 1), biztime.Date(2025, 1, 31))
}

func newTestMaterializer(repo *memoryDeliveryRepo) *Materializer {
	vacations := &mockVacationRepo{vacations: []*subscription.Vacation{
		subscription.ReconstructVacation(1, 7, biztime.Date(2025, 1, 10), biztime.Date(2025, 1, 12)),
	}}
	holidays := &mockHolidayRepo{holidays: []*holiday.Holiday{
		holiday.ReconstructHoliday(1, biztime.Date(2025, 1, 26), "Republic Day"),
	}}
	return NewMaterializer(repo, vacations, holidays, logger.NewNopLogger())
}

func TestMaterializeSubscription_AppliesExclusions(t *testing.T) {
	repo := newMemoryDeliveryRepo()
	m := newTestMaterializer(repo)

	result, err := m.MaterializeSubscription(context.Background(), januarySubscription(t, subvo.StatusActive), january())

	require.NoError(t, err)
	assert.Equal(t, 27, result.Created)
	assert.Equal(t, 0, result.Skipped)
	assert.Len(t, result.Exclusions.VacationDates, 3)
	assert.Len(t, result.Exclusions.HolidayDates, 1)
	assert.Empty(t, result.Exclusions.PausedDates)

	count, err := repo.CountForSubscription(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(27), count)
}

func TestMaterializeSubscription_Idempotent(t *testing.T) {
	repo := newMemoryDeliveryRepo()
	m := newTestMaterializer(repo)
	sub := januarySubscription(t, subvo.StatusActive)

	_, err := m.MaterializeSubscription(context.Background(), sub, january())
	require.NoError(t, err)

	second, err := m.MaterializeSubscription(context.Background(), sub, january())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 27, second.Skipped)

	count, _ := repo.CountForSubscription(context.Background(), 7)
	assert.Equal(t, int64(27), count)
}

func TestMaterializeSubscription_PausedDatesExcluded(t *testing.T) {
	sub, err := subscription.ReconstructSubscription(subscription.SubscriptionReconstructParams{
		ID:         7,
		CustomerID: 3,
		ProductID:  1,
		AddressID:  4,
		Quantity:   decimal.NewFromInt(1),
		Frequency:  schedule.FrequencyDaily,
		StartDate:  biztime.Date(2025, 1, 1),
		PauseStart: ptr(biztime.Date(2025, 1, 11)),
		PauseEnd:   ptr(biztime.Date(2025, 1, 15)),
		Status:     subvo.StatusPaused,
		Version:    2,
	})
	require.NoError(t, err)

	repo := newMemoryDeliveryRepo()
	result, err := newTestMaterializer(repo).MaterializeSubscription(context.Background(), sub, january())

	require.NoError(t, err)
	// Jan 11-12 are already vacation days, the pause adds 13-15.
	assert.Len(t, result.Exclusions.PausedDates, 3)
	assert.Equal(t, 24, result.Created)
}

func TestMaterializeSubscription_SkipsTerminalStatus(t *testing.T) {
	for _, status := range []subvo.SubscriptionStatus{subvo.StatusCancelled, subvo.StatusExpired} {
		t.Run(status.String(), func(t *testing.T) {
			repo := newMemoryDeliveryRepo()
			result, err := newTestMaterializer(repo).MaterializeSubscription(context.Background(), januarySubscription(t, status), january())
			require.NoError(t, err)
			assert.Zero(t, result.Created)
			assert.Empty(t, repo.regular)
		})
	}
}

func TestMaterializeSubscription_ClipsToEndDate(t *testing.T) {
	sub, err := subscription.ReconstructSubscription(subscription.SubscriptionReconstructParams{
		ID:         7,
		CustomerID: 3,
		ProductID:  1,
		AddressID:  4,
		Quantity:   decimal.NewFromInt(1),
		Frequency:  schedule.FrequencyDaily,
		StartDate:  biztime.Date(2025, 1, 1),
		EndDate:    ptr(biztime.Date(2025, 1, 5)),
		Status:     subvo.StatusActive,
		Version:    1,
	})
	require.NoError(t, err)

	result, err := newTestMaterializer(newMemoryDeliveryRepo()).MaterializeSubscription(context.Background(), sub, january())
	require.NoError(t, err)
	assert.Equal(t, 5, result.Created)
}

func TestMaterializeSubscription_InsertError(t *testing.T) {
	repo := newMemoryDeliveryRepo()
	repo.failOn = ptr(biztime.Date(2025, 1, 3))

	result, err := newTestMaterializer(repo).MaterializeSubscription(context.Background(), januarySubscription(t, subvo.StatusActive), january())

	require.Error(t, err)
	assert.Equal(t, 2, result.Created)
}

func TestMaterializeSubscription_HolidayLookupError(t *testing.T) {
	m := NewMaterializer(newMemoryDeliveryRepo(), &mockVacationRepo{}, &mockHolidayRepo{err: errors.New("db down")}, logger.NewNopLogger())

	_, err := m.MaterializeSubscription(context.Background(), januarySubscription(t, subvo.StatusActive), january())
	assert.ErrorContains(t, err, "holidays")
}

func TestMaterializeAdhocItems(t *testing.T) {
	date := biztime.Date(2025, 2, 3)
	items := []*adhoc.Item{
		adhoc.ReconstructItem(11, 5, 1, date, decimal.NewFromInt(2), decimal.NewFromInt(30), adhocvo.ItemApproved, ""),
		adhoc.ReconstructItem(12, 5, 2, date, decimal.NewFromInt(1), decimal.NewFromInt(45), adhocvo.ItemApproved, ""),
	}
	request, err := adhoc.NewRequest(3, 4, items, "")
	require.NoError(t, err)

	repo := newMemoryDeliveryRepo()
	created, err := newTestMaterializer(repo).MaterializeAdhocItems(context.Background(), request, items)

	require.NoError(t, err)
	assert.Equal(t, 2, created)
	require.Len(t, repo.adhoc, 2)
	assert.Equal(t, uint(3), repo.adhoc[0].CustomerID())
	assert.True(t, decimal.NewFromInt(45).Equal(*repo.adhoc[1].UnitPrice()))
}

func ptr[T any](v T) *T { return &v }
