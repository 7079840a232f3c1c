// Package metrics exposes Prometheus collectors for the batch jobs run by the
// worker and the CLI.
//
// Labels are kept to a fixed set of job names and outcomes so cardinality
// stays bounded regardless of how many subscriptions or customers exist.
package metrics

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "milkrun"

// Job names used as label values.
const (
	JobScheduleGenerate   = "schedule_generate"
	JobSubscriptionExpire = "subscription_expire"
	JobBillingGenerate    = "billing_generate"
	JobBillingOverdue     = "billing_overdue"
)

// Outcomes used as label values.
const (
	OutcomeCreated   = "created"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
	OutcomeGenerated = "generated"
	OutcomeUpdated   = "updated"
)

// Recorder owns a private registry so tests can build independent instances.
type Recorder struct {
	registry *prometheus.Registry

	jobRuns     *prometheus.CounterVec
	jobItems    *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
	lastSuccess *prometheus.GaugeVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		jobRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "job_runs_total",
				Help:      "Batch job runs by job and result (success or error).",
			},
			[]string{"job", "result"},
		),
		jobItems: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "job_items_total",
				Help:      "Items handled by batch jobs, by outcome.",
			},
			[]string{"job", "outcome"},
		),
		jobDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "job_duration_seconds",
				Help:      "Duration of batch job runs in seconds.",
				Buckets:   []float64{0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 300},
			},
			[]string{"job"},
		),
		lastSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "job_last_success_timestamp_seconds",
				Help:      "Unix time of the last successful run.",
			},
			[]string{"job"},
		),
	}

	r.registry.MustRegister(
		r.jobRuns,
		r.jobItems,
		r.jobDuration,
		r.lastSuccess,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveRun records one run of job that started at start.
func (r *Recorder) ObserveRun(job string, start time.Time, err error) {
	r.jobDuration.WithLabelValues(job).Observe(time.Since(start).Seconds())
	if err != nil {
		r.jobRuns.WithLabelValues(job, "error").Inc()
		return
	}
	r.jobRuns.WithLabelValues(job, "success").Inc()
	r.lastSuccess.WithLabelValues(job).SetToCurrentTime()
}

// AddItems adds n items with the given outcome. Zero and negative n are ignored.
func (r *Recorder) AddItems(job, outcome string, n int) {
	if n <= 0 {
		return
	}
	r.jobItems.WithLabelValues(job, outcome).Add(float64(n))
}

// ItemsCounter returns the item counter for one job and outcome.
func (r *Recorder) ItemsCounter(job, outcome string) prometheus.Counter {
	return r.jobItems.WithLabelValues(job, outcome)
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Router serves /metrics and a liveness check.
func (r *Recorder) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}
