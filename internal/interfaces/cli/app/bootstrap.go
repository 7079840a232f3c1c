package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/milkrun/milkrun/internal/infrastructure/config"
	"github.com/milkrun/milkrun/internal/infrastructure/database"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

var (
	env        string
	configPath string
)

// BindFlags registers the flags shared by every command.
func BindFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
}

// Env returns the environment selected on the command line.
func Env() string { return env }

// LoadConfig loads configuration and initializes the logger and the business timezone.
func LoadConfig() (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, isDevelopment(cfg.Server.Mode)); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize business timezone for date boundary calculations
	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

// Bootstrap opens the database and, when enabled, Redis, then builds the container.
// The returned cleanup closes both.
func Bootstrap(ctx context.Context) (*Container, func(), error) {
	cfg, log, err := LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			_ = redisClient.Close()
			_ = database.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Infow("redis connection established", "address", cfg.Redis.GetAddr())
	}

	cleanup := func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				log.Warnw("failed to close redis client", "error", err)
			}
		}
		if err := database.Close(); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}

	return NewContainer(cfg, database.Get(), redisClient, log), cleanup, nil
}

func isDevelopment(mode string) bool {
	switch mode {
	case "development", "dev", "debug":
		return true
	default:
		return false
	}
}
