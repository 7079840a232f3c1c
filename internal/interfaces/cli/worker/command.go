package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/milkrun/milkrun/internal/infrastructure/migration"
	"github.com/milkrun/milkrun/internal/infrastructure/pubsub"
	"github.com/milkrun/milkrun/internal/interfaces/cli/app"
	"github.com/milkrun/milkrun/internal/shared/goroutine"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

var autoMigrate bool

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run the background scheduler",
		Long: `Run the worker process: nightly schedule generation, monthly billing and
overdue maintenance on their configured cron expressions, plus the metrics endpoint.`,
		RunE: run,
	}

	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations on startup (not recommended for production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, cleanup, err := app.Bootstrap(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := c.Config()
	log := c.Logger()

	log.Infow("starting worker",
		"environment", app.Env(),
		"timezone", cfg.Server.Timezone,
		"auto-migrate", autoMigrate,
	)

	if autoMigrate {
		if app.Env() == "production" {
			log.Warnw("auto-migration is enabled in production environment - this is not recommended!")
		}
		if err := migration.NewManager(&cfg.Database).Migrate(ctx, c.DB()); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
	}

	manager, err := c.NewScheduler()
	if err != nil {
		return err
	}
	manager.Start()
	defer func() {
		if err := manager.Stop(); err != nil {
			log.Errorw("failed to stop scheduler", "error", err)
		}
	}()

	if bus := c.EventBus(); bus != nil {
		goroutine.SafeGo(log, "domain-event-subscriber", func() {
			if err := bus.Subscribe(ctx, logEvent(log)); err != nil && ctx.Err() == nil {
				log.Errorw("domain event subscription ended", "error", err)
			}
		})
	}

	var srv *http.Server
	if cfg.Metrics.Enabled {
		srv = &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           c.Metrics().Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		goroutine.SafeGo(log, "metrics-server", func() {
			log.Infow("metrics server starting", "address", cfg.Metrics.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorw("metrics server failed", "error", err)
			}
		})
	}

	<-ctx.Done()
	log.Infow("shutting down worker...")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorw("metrics server forced to shutdown", "error", err)
		}
	}

	log.Infow("worker exited gracefully")
	return nil
}

func logEvent(log logger.Interface) pubsub.EventEnvelopeHandler {
	return func(_ context.Context, e pubsub.EventEnvelope) {
		log.Infow("domain event",
			"type", e.Type,
			"aggregate_id", e.AggregateID,
			"occurred_at", e.OccurredAt,
		)
	}
}
