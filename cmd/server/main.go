package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/paymaster/internal/adapter/http"
	"github.com/iho/paymaster/internal/adapter/http/handler"
	postgresRepo "github.com/iho/paymaster/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/paymaster/internal/adapter/repository/redis"
	"github.com/iho/paymaster/internal/infrastructure/config"
	"github.com/iho/paymaster/internal/infrastructure/logger"
	"github.com/iho/paymaster/internal/infrastructure/postgres"
	"github.com/iho/paymaster/internal/infrastructure/rates"
	"github.com/iho/paymaster/internal/infrastructure/redis"
	"github.com/iho/paymaster/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx := context.Background()

	// Run migrations before accepting traffic
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Redis is optional: without it the service simply skips idempotency
	var idempotencyStore usecase.IdempotencyStore
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		log.Info().Msg("connected to redis")
	}

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	rateRepo := postgresRepo.NewRateRepository(pool)
	retrier := postgresRepo.NewRetrier(appLogger)

	// Use cases
	accountUC := usecase.NewAccountUseCase(accountRepo)
	balanceUC := usecase.NewBalanceUseCase(txManager, accountRepo, entryRepo, rateRepo, retrier, cfg.BaseCurrency)
	transferUC := usecase.NewTransferUseCase(txManager, accountRepo, entryRepo, retrier)
	historyUC := usecase.NewHistoryUseCase(accountRepo, entryRepo)
	rateUC := usecase.NewRateUseCase(rateRepo)

	// Background currency rate refresher
	if cfg.RatesAPIKey != "" {
		fetcher := rates.NewClient(cfg.RatesURL, cfg.RatesAPIKey, cfg.BaseCurrency, cfg.RatesFetchTimeout)
		refresher := rates.NewRefresher(fetcher, rateUC, cfg.RatesRefreshInterval, appLogger)
		go refresher.Run(ctx)
	} else {
		log.Warn().Msg("RATES_API_KEY not set, currency rate refresh disabled")
	}

	// Handlers
	accountHandler := handler.NewAccountHandler(accountUC)
	balanceHandler := handler.NewBalanceHandler(balanceUC, cfg.BaseCurrency)
	transferHandler := handler.NewTransferHandler(transferUC)
	historyHandler := handler.NewHistoryHandler(historyUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		Logger:           appLogger,
		AccountHandler:   accountHandler,
		BalanceHandler:   balanceHandler,
		TransferHandler:  transferHandler,
		HistoryHandler:   historyHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
