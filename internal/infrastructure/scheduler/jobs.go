package scheduler

import (
	"context"
	"time"

	billingUsecases "github.com/milkrun/milkrun/internal/application/billing/usecases"
	subscriptionUsecases "github.com/milkrun/milkrun/internal/application/subscription/usecases"
	"github.com/milkrun/milkrun/internal/infrastructure/metrics"
	"github.com/milkrun/milkrun/internal/shared/biztime"
)

// JobMetrics receives run and item counts from the job adapters.
type JobMetrics interface {
	ObserveRun(job string, start time.Time, err error)
	AddItems(job, outcome string, n int)
}

type nopMetrics struct{}

func (nopMetrics) ObserveRun(string, time.Time, error) {}
func (nopMetrics) AddItems(string, string, int)        {}

func orNop(m JobMetrics) JobMetrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}

type scheduleGenerator interface {
	Execute(ctx context.Context, cmd subscriptionUsecases.GenerateScheduleCommand) (*subscriptionUsecases.GenerateScheduleResult, error)
}

// GenerateScheduleJob materializes the default lookahead window.
type GenerateScheduleJob struct {
	uc      scheduleGenerator
	metrics JobMetrics
}

func NewGenerateScheduleJob(uc scheduleGenerator, m JobMetrics) *GenerateScheduleJob {
	return &GenerateScheduleJob{uc: uc, metrics: orNop(m)}
}

// Execute returns the number of deliveries created.
func (j *GenerateScheduleJob) Execute(ctx context.Context) (int, error) {
	start := biztime.NowUTC()
	result, err := j.uc.Execute(ctx, subscriptionUsecases.GenerateScheduleCommand{})
	j.metrics.ObserveRun(metrics.JobScheduleGenerate, start, err)
	if err != nil {
		return 0, err
	}

	j.metrics.AddItems(metrics.JobScheduleGenerate, metrics.OutcomeCreated, result.Created)
	j.metrics.AddItems(metrics.JobScheduleGenerate, metrics.OutcomeSkipped, result.Skipped)
	j.metrics.AddItems(metrics.JobScheduleGenerate, metrics.OutcomeFailed, result.Failed)
	return result.Created, nil
}

type billsGenerator interface {
	Execute(ctx context.Context, periodStart, periodEnd time.Time) (*billingUsecases.GenerateBillsResult, error)
}

// GenerateBillsJob bills every active customer for the previous calendar month.
type GenerateBillsJob struct {
	uc      billsGenerator
	metrics JobMetrics
}

func NewGenerateBillsJob(uc billsGenerator, m JobMetrics) *GenerateBillsJob {
	return &GenerateBillsJob{uc: uc, metrics: orNop(m)}
}

// Execute returns the number of bills generated.
func (j *GenerateBillsJob) Execute(ctx context.Context) (int, error) {
	start := biztime.NowUTC()
	periodStart, periodEnd := PreviousMonth(biztime.Today())

	result, err := j.uc.Execute(ctx, periodStart, periodEnd)
	j.metrics.ObserveRun(metrics.JobBillingGenerate, start, err)
	if err != nil {
		return 0, err
	}

	j.metrics.AddItems(metrics.JobBillingGenerate, metrics.OutcomeGenerated, result.Generated)
	j.metrics.AddItems(metrics.JobBillingGenerate, metrics.OutcomeSkipped, result.Skipped)
	j.metrics.AddItems(metrics.JobBillingGenerate, metrics.OutcomeFailed, len(result.Errors))
	return result.Generated, nil
}

// CountingJob records metrics around a use case that already reports a count.
type CountingJob struct {
	name    string
	outcome string
	inner   BatchJob
	metrics JobMetrics
}

func NewCountingJob(name, outcome string, inner BatchJob, m JobMetrics) *CountingJob {
	return &CountingJob{name: name, outcome: outcome, inner: inner, metrics: orNop(m)}
}

func (j *CountingJob) Execute(ctx context.Context) (int, error) {
	start := biztime.NowUTC()
	n, err := j.inner.Execute(ctx)
	j.metrics.ObserveRun(j.name, start, err)
	if err != nil {
		return 0, err
	}
	j.metrics.AddItems(j.name, j.outcome, n)
	return n, nil
}

// NewExpireSubscriptionsJob wraps subscription expiry for the schedule run.
func NewExpireSubscriptionsJob(uc *subscriptionUsecases.ExpireSubscriptionsUseCase, m JobMetrics) *CountingJob {
	return NewCountingJob(metrics.JobSubscriptionExpire, metrics.OutcomeUpdated, uc, m)
}

// NewMarkOverdueBillsJob wraps the overdue sweep for the maintenance run.
func NewMarkOverdueBillsJob(uc *billingUsecases.MarkOverdueBillsUseCase, m JobMetrics) *CountingJob {
	return NewCountingJob(metrics.JobBillingOverdue, metrics.OutcomeUpdated, uc, m)
}

// PreviousMonth returns the first and last date of the month before today.
func PreviousMonth(today time.Time) (time.Time, time.Time) {
	first := biztime.StartOfMonth(today.Year(), today.Month())
	start := first.AddDate(0, -1, 0)
	return start, biztime.AddDays(first, -1)
}
