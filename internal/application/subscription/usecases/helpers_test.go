package usecases

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/domain/subscription"
	vo "github.com/milkrun/milkrun/internal/domain/subscription/valueobjects"
	"github.com/milkrun/milkrun/internal/shared/biztime"
)

// today is the frozen business date for every test in this package.
var today = biztime.Date(2025, 3, 10)

func freezeClock(t *testing.T) {
	t.Helper()
	restore := biztime.SetNowFunc(func() time.Time {
		return time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	})
	t.Cleanup(restore)
}

func existingSubscription(t *testing.T, status vo.SubscriptionStatus) *subscription.Subscription {
	t.Helper()
	p := subscription.SubscriptionReconstructParams{
		ID:         9,
		CustomerID: 3,
		ProductID:  1,
		AddressID:  4,
		Quantity:   decimal.NewFromInt(1),
		Frequency:  schedule.FrequencyDaily,
		StartDate:  biztime.Date(2025, 3, 1),
		Status:     status,
		Version:    1,
	}
	if status == vo.StatusPaused {
		start, end := biztime.Date(2025, 3, 12), biztime.Date(2025, 3, 15)
		p.PauseStart, p.PauseEnd = &start, &end
	}
	sub, err := subscription.ReconstructSubscription(p)
	require.NoError(t, err)
	return sub
}

func ptr[T any](v T) *T { return &v }
