// Package scheduler provides unified scheduler management using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/milkrun/milkrun/internal/shared/biztime"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// SchedulerManager owns the single gocron scheduler of the worker process.
// Cron expressions are evaluated in the business timezone.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// ========================================
// Schedule Jobs
// ========================================

// RegisterScheduleJobs registers the nightly schedule run:
// - Expire subscriptions whose end date has passed
// - Materialize deliveries for the lookahead window
//
// Expiry runs first so ended subscriptions are not materialized again.
func (m *SchedulerManager) RegisterScheduleJobs(
	cron string,
	expireSubscriptionsJob BatchJob,
	generateScheduleJob BatchJob,
) error {
	_, err := m.scheduler.NewJob(
		gocron.CronJob(cron, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			defer cancel()
			m.runSequence(ctx, "schedule",
				namedJob{"expire subscriptions", expireSubscriptionsJob},
				namedJob{"generate schedule", generateScheduleJob},
			)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("schedule", "expire", "materialize"),
		gocron.WithName("schedule-generate"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered schedule jobs", "cron", cron)
	return nil
}

// ========================================
// Billing Jobs
// ========================================

// RegisterBillingJobs registers the monthly bill run for the month that just ended.
func (m *SchedulerManager) RegisterBillingJobs(cron string, generateBillsJob BatchJob) error {
	_, err := m.scheduler.NewJob(
		gocron.CronJob(cron, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
			defer cancel()
			m.runSequence(ctx, "billing", namedJob{"generate bills", generateBillsJob})
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("billing", "generate"),
		gocron.WithName("billing-generate"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered billing jobs", "cron", cron)
	return nil
}

// ========================================
// Maintenance Jobs
// ========================================

// RegisterMaintenanceJobs registers daily housekeeping:
// - Mark unpaid bills past their due date as overdue
func (m *SchedulerManager) RegisterMaintenanceJobs(cron string, markOverdueJob BatchJob) error {
	_, err := m.scheduler.NewJob(
		gocron.CronJob(cron, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			m.runSequence(ctx, "maintenance", namedJob{"mark overdue bills", markOverdueJob})
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("billing", "overdue"),
		gocron.WithName("billing-overdue"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered maintenance jobs", "cron", cron)
	return nil
}

type namedJob struct {
	name string
	job  BatchJob
}

// runSequence executes jobs in order. A failing step is logged and the next
// step still runs.
func (m *SchedulerManager) runSequence(ctx context.Context, group string, jobs ...namedJob) {
	m.logger.Debugw("scheduled task started", "group", group)

	for _, j := range jobs {
		if j.job == nil {
			continue
		}
		startTime := biztime.NowUTC()

		count, err := j.job.Execute(ctx)
		if err != nil {
			// Don't log error if context was cancelled (graceful shutdown)
			if ctx.Err() != nil {
				return
			}
			m.logger.Errorw("scheduled task failed",
				"group", group,
				"task", j.name,
				"error", err,
				"duration", time.Since(startTime),
			)
			continue
		}

		if count > 0 {
			m.logger.Infow("scheduled task processed",
				"group", group,
				"task", j.name,
				"count", count,
				"duration", time.Since(startTime),
			)
		} else {
			m.logger.Debugw("scheduled task found nothing to process",
				"group", group,
				"task", j.name,
				"duration", time.Since(startTime),
			)
		}
	}
}

// ========================================
// Scheduler Lifecycle Methods
// ========================================

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
