package setup

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/redis/rueidis"
	"github.com/robalyx/fotowettbewerb/internal/database"
	"github.com/robalyx/fotowettbewerb/internal/database/migrations"
	"github.com/robalyx/fotowettbewerb/internal/database/service"
	"github.com/robalyx/fotowettbewerb/internal/queue"
	"github.com/robalyx/fotowettbewerb/internal/redis"
	"github.com/robalyx/fotowettbewerb/internal/setup/config"
	"github.com/robalyx/fotowettbewerb/internal/setup/telemetry"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

// ErrPendingMigrations is returned when the database schema is behind the binary.
var ErrPendingMigrations = errors.New("database migrations are pending, run `db migrate` first")

// App bundles all core dependencies needed by the commands.
type App struct {
	Config       *config.Config     // Application configuration
	Logger       *zap.Logger        // Main application logger
	DBLogger     *zap.Logger        // Database-specific logger
	DB           database.Client    // Database connection pool
	RedisManager *redis.Manager     // Redis connection manager
	Queue        *queue.Manager     // Thumbnail job queue
	StatusClient rueidis.Client     // Redis client for worker status reporting
	LogManager   *telemetry.Manager // Log management system
}

// InitializeApp bootstraps all application dependencies in the correct order.
func InitializeApp(ctx context.Context, serviceType telemetry.ServiceType, logDir string) (*App, error) {
	// Load app configuration
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// Logging system is initialized next to capture setup issues
	logManager := telemetry.NewManager(serviceType, logDir, &cfg.Common.Debug)

	logger, dbLogger, err := logManager.GetLoggers()
	if err != nil {
		return nil, err
	}

	// Redis manager provides connection pools for the queue and worker status
	redisManager := redis.NewManager(&cfg.Common.Redis, logger)

	queueClient, err := redisManager.GetClient(redis.QueueDBIndex)
	if err != nil {
		return nil, err
	}
	thumbnailQueue := queue.NewManager(queueClient, logger)

	statusClient, err := redisManager.GetClient(redis.WorkerStatusDBIndex)
	if err != nil {
		redisManager.Close()
		return nil, err
	}

	// Initialize database with migration check
	opts := service.Options{
		LockTimeout:          cfg.Common.Contest.LockTimeoutDuration(),
		MaxActiveSubmissions: cfg.Common.Contest.MaxActiveSubmissions,
		Dispatcher:           thumbnailQueue,
	}

	db, err := connectAndCheckMigrations(ctx, &cfg.Common.PostgreSQL, opts, dbLogger)
	if err != nil {
		redisManager.Close()
		return nil, err
	}

	return &App{
		Config:       cfg,
		Logger:       logger,
		DBLogger:     dbLogger.Named("database"),
		DB:           db,
		RedisManager: redisManager,
		Queue:        thumbnailQueue,
		StatusClient: statusClient,
		LogManager:   logManager,
	}, nil
}

// Cleanup shuts down all components in reverse initialization order.
// Errors are logged so every component gets a cleanup attempt.
func (s *App) Cleanup() {
	// Sync buffered logs before shutdown
	if err := s.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	if err := s.DBLogger.Sync(); err != nil {
		log.Printf("Failed to sync DB logger: %v", err)
	}

	// Close database connections
	if err := s.DB.Close(); err != nil {
		log.Printf("Failed to close database connection: %v", err)
	}

	// Close Redis connections last as other components might need it during cleanup
	s.RedisManager.Close()
}

// connectAndCheckMigrations opens the database and refuses to continue on an outdated schema.
func connectAndCheckMigrations(
	ctx context.Context, cfg *config.PostgreSQL, opts service.Options, dbLogger *zap.Logger,
) (database.Client, error) {
	db, err := database.NewConnection(ctx, cfg, opts, dbLogger, false)
	if err != nil {
		return nil, err
	}

	migrator := migrate.NewMigrator(db.DB(), migrations.Migrations)

	ms, err := migrator.MigrationsWithStatus(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to check migration status: %w", err)
	}

	if unapplied := ms.Unapplied(); len(unapplied) > 0 {
		db.Close()
		return nil, fmt.Errorf("%w: %d unapplied", ErrPendingMigrations, len(unapplied))
	}

	return db, nil
}
