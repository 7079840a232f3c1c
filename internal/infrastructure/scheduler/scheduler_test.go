package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billingUsecases "github.com/milkrun/milkrun/internal/application/billing/usecases"
	subscriptionUsecases "github.com/milkrun/milkrun/internal/application/subscription/usecases"
	"github.com/milkrun/milkrun/internal/infrastructure/metrics"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

type funcJob func(ctx context.Context) (int, error)

func (f funcJob) Execute(ctx context.Context) (int, error) { return f(ctx) }

type fakeScheduleGenerator struct {
	cmd    subscriptionUsecases.GenerateScheduleCommand
	result *subscriptionUsecases.GenerateScheduleResult
	err    error
}

func (f *fakeScheduleGenerator) Execute(_ context.Context, cmd subscriptionUsecases.GenerateScheduleCommand) (*subscriptionUsecases.GenerateScheduleResult, error) {
	f.cmd = cmd
	return f.result, f.err
}

type fakeBillsGenerator struct {
	start, end time.Time
}

func (f *fakeBillsGenerator) Execute(_ context.Context, start, end time.Time) (*billingUsecases.GenerateBillsResult, error) {
	f.start, f.end = start, end
	return &billingUsecases.GenerateBillsResult{
		Generated: 3,
		Skipped:   1,
		Errors:    []billingUsecases.CustomerFailure{{CustomerID: 9, Error: "boom"}},
	}, nil
}

func TestPreviousMonth(t *testing.T) {
	tests := []struct {
		name      string
		today     time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"mid month", biztime.Date(2025, 3, 17), biztime.Date(2025, 2, 1), biztime.Date(2025, 2, 28)},
		{"first of month", biztime.Date(2025, 5, 1), biztime.Date(2025, 4, 1), biztime.Date(2025, 4, 30)},
		{"january", biztime.Date(2025, 1, 10), biztime.Date(2024, 12, 1), biztime.Date(2024, 12, 31)},
		{"leap february", biztime.Date(2024, 3, 1), biztime.Date(2024, 2, 1), biztime.Date(2024, 2, 29)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := PreviousMonth(tt.today)
			assert.True(t, tt.wantStart.Equal(start), "start %s", start)
			assert.True(t, tt.wantEnd.Equal(end), "end %s", end)
		})
	}
}

func TestGenerateScheduleJob_RecordsOutcomes(t *testing.T) {
	rec := metrics.NewRecorder()
	gen := &fakeScheduleGenerator{result: &subscriptionUsecases.GenerateScheduleResult{Created: 4, Skipped: 2, Failed: 1}}

	n, err := NewGenerateScheduleJob(gen, rec).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, n)
	assert.Nil(t, gen.cmd.StartDate)
	assert.Nil(t, gen.cmd.EndDate)
	assert.Equal(t, 4.0, testutil.ToFloat64(rec.ItemsCounter(metrics.JobScheduleGenerate, metrics.OutcomeCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.ItemsCounter(metrics.JobScheduleGenerate, metrics.OutcomeFailed)))
}

func TestGenerateScheduleJob_Error(t *testing.T) {
	gen := &fakeScheduleGenerator{err: errors.New("db down")}

	n, err := NewGenerateScheduleJob(gen, nil).Execute(context.Background())
	assert.Error(t, err)
	assert.Zero(t, n)
}

func TestGenerateBillsJob_BillsPreviousMonth(t *testing.T) {
	restore := biztime.SetNowFunc(func() time.Time {
		return time.Date(2025, 4, 1, 6, 0, 0, 0, time.UTC)
	})
	defer restore()

	gen := &fakeBillsGenerator{}
	n, err := NewGenerateBillsJob(gen, nil).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	assert.True(t, biztime.Date(2025, 3, 1).Equal(gen.start))
	assert.True(t, biztime.Date(2025, 3, 31).Equal(gen.end))
}

func TestCountingJob(t *testing.T) {
	rec := metrics.NewRecorder()
	job := NewCountingJob(metrics.JobBillingOverdue, metrics.OutcomeUpdated, funcJob(func(context.Context) (int, error) {
		return 5, nil
	}), rec)

	n, err := job.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 5.0, testutil.ToFloat64(rec.ItemsCounter(metrics.JobBillingOverdue, metrics.OutcomeUpdated)))
}

func TestSchedulerManager_RegistersJobs(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger())
	require.NoError(t, err)

	noop := funcJob(func(context.Context) (int, error) { return 0, nil })
	require.NoError(t, m.RegisterScheduleJobs("30 0 * * *", noop, noop))
	require.NoError(t, m.RegisterBillingJobs("0 2 1 * *", noop))
	require.NoError(t, m.RegisterMaintenanceJobs("15 1 * * *", noop))

	names := make([]string, 0, len(m.Jobs()))
	for _, j := range m.Jobs() {
		names = append(names, j.Name())
	}
	assert.ElementsMatch(t, []string{"schedule-generate", "billing-generate", "billing-overdue"}, names)

	m.Start()
	assert.True(t, m.IsStarted())
	require.NoError(t, m.Stop())
	assert.False(t, m.IsStarted())
}

func TestSchedulerManager_InvalidCron(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger())
	require.NoError(t, err)

	err = m.RegisterBillingJobs("not a cron", funcJob(func(context.Context) (int, error) { return 0, nil }))
	assert.Error(t, err)
}

func TestRunSequence_ContinuesAfterFailure(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger())
	require.NoError(t, err)

	var order []string
	m.runSequence(context.Background(), "test",
		namedJob{"first", funcJob(func(context.Context) (int, error) {
			order = append(order, "first")
			return 0, errors.New("failed")
		})},
		namedJob{"nil", nil},
		namedJob{"second", funcJob(func(context.Context) (int, error) {
			order = append(order, "second")
			return 2, nil
		})},
	)

	assert.Equal(t, []string{"first", "second"}, order)
}
