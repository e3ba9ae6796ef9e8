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

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/qada-ledger/internal/adapters/cache"
	"github.com/comitanigiacomo/qada-ledger/internal/adapters/events"
	adapterHTTP "github.com/comitanigiacomo/qada-ledger/internal/adapters/handler/http"
	"github.com/comitanigiacomo/qada-ledger/internal/adapters/repository"
	"github.com/comitanigiacomo/qada-ledger/internal/config"
	"github.com/comitanigiacomo/qada-ledger/internal/core/domain"
	"github.com/comitanigiacomo/qada-ledger/internal/core/services"
	"github.com/comitanigiacomo/qada-ledger/internal/core/workers"
	"github.com/comitanigiacomo/qada-ledger/internal/logger"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Critical: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Critical: failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := buildApp(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to start", zap.Error(err))
	}
	defer app.Close()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("Qada ledger running",
			zap.String("addr", srv.Addr),
			zap.String("storage", cfg.Storage.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Critical server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Stop signal received. Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
		return
	}

	log.Info("Server stopped gracefully.")
}

type application struct {
	router  *gin.Engine
	closers []func()
}

func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// buildApp wires storage, cache, events, services and HTTP for cfg. The
// worker stops when ctx is cancelled.
func buildApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*application, error) {
	app := &application{}

	var (
		db        *sqlx.DB
		profiles  domain.ProfileRepository
		ledger    domain.LedgerRepository
		dailyLogs domain.DailyLogRepository
	)

	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		log.Info("Connecting to database...", zap.String("host", cfg.DB.Host), zap.String("name", cfg.DB.Name))

		var err error
		db, err = sqlx.Connect("pgx", cfg.DB.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.closers = append(app.closers, func() { db.Close() })

		db.SetMaxOpenConns(cfg.DB.MaxConns)
		db.SetMaxIdleConns(cfg.DB.MaxConns)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := repository.Migrate(ctx, db); err != nil {
			app.Close()
			return nil, err
		}
		log.Info("Database connected successfully.")

		profiles = repository.NewPostgresProfileRepository(db)
		ledger = repository.NewPostgresLedgerRepository(db)
		dailyLogs = repository.NewPostgresDailyLogRepository(db)

	default:
		log.Warn("Using in-memory storage, data is lost on restart")
		store := repository.NewMemoryStore()
		profiles = store.Profiles()
		ledger = store.Ledger()
		dailyLogs = store.DailyLogs()
	}

	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		client, err := cache.NewRedisClient(cache.Options{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("Redis unavailable, running without cache and rate limiting", zap.Error(err))
		} else {
			rdb = client
			app.closers = append(app.closers, func() { rdb.Close() })
			profiles = repository.NewCachedProfileRepository(profiles, cache.NewProfileCache(rdb, cfg.Redis.CacheTTL), log)
		}
	}

	var publisher domain.EventPublisher = events.NewLogPublisher(log)
	if cfg.MQ.URL != "" {
		rabbit, err := events.NewRabbitPublisher(cfg.MQ.URL, log)
		if err != nil {
			log.Warn("RabbitMQ unavailable, events are only logged", zap.Error(err))
		} else {
			publisher = rabbit
			app.closers = append(app.closers, rabbit.Close)
		}
	}

	streakWorker := workers.NewStreakWorker(ledger, profiles, log)
	streakWorker.Start(ctx)

	tokenService := services.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Duration, profiles)
	onboardingService := services.NewOnboardingService(profiles, tokenService, publisher, log).
		WithDefaultTimezone(cfg.App.DefaultTimezone)
	ledgerService := services.NewLedgerService(ledger, profiles, streakWorker, publisher, log)
	dayLogService := services.NewDayLogService(dailyLogs, streakWorker)
	statsService := services.NewStatsService(ledger, log)
	profileService := services.NewProfileService(profiles, publisher, log)

	app.router = adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		OnboardingHandler: adapterHTTP.NewOnboardingHandler(onboardingService),
		LedgerHandler:     adapterHTTP.NewLedgerHandler(ledgerService),
		DayHandler:        adapterHTTP.NewDayHandler(dayLogService),
		StatsHandler:      adapterHTTP.NewStatsHandler(statsService),
		ProfileHandler:    adapterHTTP.NewProfileHandler(profileService),
		TokenValidator:    tokenService,
		DB:                db,
		Redis:             rdb,
		Logger:            log,
		StartTime:         time.Now(),
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		RateLimit:         cfg.App.RateLimit,
		RateWindow:        cfg.App.RateWindow,
	})

	return app, nil
}
