package migrate

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/milkrun/milkrun/internal/infrastructure/config"
	"github.com/milkrun/milkrun/internal/infrastructure/database"
	"github.com/milkrun/milkrun/internal/infrastructure/migration"
	"github.com/milkrun/milkrun/internal/infrastructure/persistence/seeds"
	"github.com/milkrun/milkrun/internal/interfaces/cli/app"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

const scriptsDir = "./internal/infrastructure/migration/scripts"

var (
	name  string
	steps int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, checking status, and creating new migration files.`,
	}

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
		newSeedCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create a new goose SQL migration file with the specified name.`,
		RunE:  runCreate,
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func initEnv() (*config.Config, *gorm.DB, logger.Interface, error) {
	cfg, log, err := app.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return cfg, database.Get(), log, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	cfg, gdb, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running up migrations", "environment", app.Env())

	if err := migration.NewManager(&cfg.Database).Migrate(cmd.Context(), gdb); err != nil {
		return err
	}

	log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	cfg, gdb, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running down migrations", "environment", app.Env(), "steps", steps)

	if err := migration.NewManager(&cfg.Database).Down(cmd.Context(), gdb, steps); err != nil {
		if errors.Is(err, migration.ErrNotVersioned) {
			return fmt.Errorf("down migration is only supported with goose strategy: %w", err)
		}
		log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, gdb, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	manager := migration.NewManager(&cfg.Database)
	info := manager.GetStrategyInfo()

	version, err := manager.Version(cmd.Context(), gdb)
	if err != nil {
		log.Errorw("failed to get migration version", "error", err)
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	fmt.Printf("\nMigration Status:\n")
	fmt.Printf("  Environment:     %s\n", app.Env())
	fmt.Printf("  Strategy:        %s (%s)\n", info["name"], info["description"])
	fmt.Printf("  Current Version: %d\n", version)

	if err := manager.Status(cmd.Context(), gdb); err != nil {
		if errors.Is(err, migration.ErrNotVersioned) {
			return nil
		}
		log.Errorw("failed to get detailed status", "error", err)
		return fmt.Errorf("failed to get detailed status: %w", err)
	}

	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	if _, _, err := app.LoadConfig(); err != nil {
		return err
	}

	scriptsPath, err := filepath.Abs(scriptsDir)
	if err != nil {
		return fmt.Errorf("failed to get scripts path: %w", err)
	}

	path, err := migration.NewGenerator(scriptsPath).CreateMigration(name)
	if err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}

	fmt.Printf("Migration created: %s\n", path)
	return nil
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the default product catalog",
		Long:  `Insert the default products. Products that already exist by name are left untouched.`,
		RunE:  runSeed,
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	_, gdb, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	created, err := seeds.SeedProducts(gdb)
	if err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	log.Infow("seed completed", "products_created", created)
	return nil
}
