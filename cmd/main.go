package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/texlink-oficial/texlink-scheduler/internal/db"
	"github.com/texlink-oficial/texlink-scheduler/internal/events"
	"github.com/texlink-oficial/texlink-scheduler/internal/handlers"
	"github.com/texlink-oficial/texlink-scheduler/internal/repository"
	"github.com/texlink-oficial/texlink-scheduler/internal/router"
	"github.com/texlink-oficial/texlink-scheduler/internal/router/config"
	"github.com/texlink-oficial/texlink-scheduler/internal/services"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot load config:", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		capacityRepo repository.CapacityRepository
		orderRepo    repository.OrderRepository
	)
	switch cfg.StorageDriver {
	case config.StorageMemory:
		store := repository.NewMemoryStore()
		if cfg.MemorySeed != "" {
			if err := seedMemoryStore(store, cfg.MemorySeed); err != nil {
				logger.Fatal("failed to seed memory store", zap.String("file", cfg.MemorySeed), zap.Error(err))
			}
		}
		capacityRepo, orderRepo = store, store
		logger.Warn("using in-memory storage, data is lost on restart", zap.String("seed", cfg.MemorySeed))
	case config.StoragePostgres:
		dbPool, err := db.InitDb(ctx, cfg)
		if err != nil {
			logger.Fatal("error initializing database", zap.Error(err))
		}
		defer dbPool.Close()

		connString := cfg.PostgresConn
		if connString == "" {
			connString = db.ConnString(cfg)
		}
		runDBMigration(logger, cfg.MigrationURL, connString)

		capacityRepo = repository.NewPostgresCapacityRepository(dbPool)
		orderRepo = repository.NewPostgresOrderRepository(dbPool)
	default:
		logger.Fatal("unknown storage driver", zap.String("driver", cfg.StorageDriver))
	}

	publisher, closePublisher := initPublisher(ctx, cfg, logger)
	defer closePublisher()

	clock := services.SystemClock{}
	capacityService := services.NewCapacityService(capacityRepo, clock)
	calendarService := services.NewCalendarService(capacityRepo, orderRepo, clock, logger, cfg.DefaultMinutesPerPiece)
	acceptanceService := services.NewAcceptanceService(orderRepo, capacityRepo, publisher, clock, services.NewUUID, logger)

	capacityHandler := handlers.NewCapacityHandler(capacityService, calendarService, clock, logger, cfg.RequestTimeout)
	orderHandler := handlers.NewOrderHandler(acceptanceService, logger, cfg.RequestTimeout)

	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router.InitRoutes(capacityHandler, orderHandler, cfg.JWTSecret, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server is listening", zap.String("address", cfg.ServerAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func initLogger(level, format string) (*zap.Logger, error) {
	var zapCfg zap.Config
	if format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapCfg.Build()
}

// initPublisher sends events to Redis when REDIS_ADDR is set and only logs them otherwise.
func initPublisher(ctx context.Context, cfg config.Config, logger *zap.Logger) (events.Publisher, func()) {
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set, order events will only be logged")
		return &events.LogPublisher{Logger: logger}, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis is not reachable, events may be lost", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close redis client", zap.Error(err))
		}
	}
	return events.NewRedisPublisher(client, cfg.EventsChannel), closeFn
}

func seedMemoryStore(store *repository.MemoryStore, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return store.LoadSeed(f)
}

func runDBMigration(logger *zap.Logger, migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		logger.Fatal("cannot create a new migrate instance", zap.Error(err))
	}

	if err = migration.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatal("failed to run migrate up", zap.Error(err))
	}
	logger.Info("db migrated successfully")
}
