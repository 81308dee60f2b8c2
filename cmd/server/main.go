package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/iho/gobank/internal/adapter/gateway"
	httpAdapter "github.com/iho/gobank/internal/adapter/http"
	"github.com/iho/gobank/internal/adapter/http/handler"
	"github.com/iho/gobank/internal/adapter/http/middleware"
	"github.com/iho/gobank/internal/adapter/queue/kafka"
	mongoRepo "github.com/iho/gobank/internal/adapter/repository/mongodb"
	postgresRepo "github.com/iho/gobank/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gobank/internal/adapter/repository/redis"
	"github.com/iho/gobank/internal/infrastructure/config"
	"github.com/iho/gobank/internal/infrastructure/logger"
	"github.com/iho/gobank/internal/infrastructure/mongodb"
	"github.com/iho/gobank/internal/infrastructure/postgres"
	"github.com/iho/gobank/internal/infrastructure/redis"
	"github.com/iho/gobank/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx := context.Background()

	// Postgres: audit trail
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		appLogger.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Redis: cache store and idempotency
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()

	// MongoDB: user profiles
	mongoClient, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer mongoClient.Disconnect(ctx)

	// Kafka: transaction queue and notification events
	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:           cfg.KafkaBrokers,
		TransactionTopic:  cfg.TransactionTopic,
		NotificationTopic: cfg.NotificationTopic,
	}, nil)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to create kafka publisher")
	}
	defer publisher.Close()

	// Core banking gateway
	var coreGateway usecase.CoreBankingGateway
	if cfg.CoreBankingSim {
		appLogger.Warn().Msg("using the core banking simulator, transfers are not real")
		coreGateway = gateway.NewSimulator()
	} else {
		coreGateway = gateway.NewClient(cfg.CoreBankingURL, cfg.CoreBankingTimeout, appLogger)
	}

	// Repositories
	profileRepo := mongoRepo.NewProfileRepository(mongoClient, cfg.MongoDatabase)
	cacheStore := redisRepo.NewCacheStore(redisClient)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Use cases
	balanceUC := usecase.NewBalanceUseCase(profileRepo, cacheStore, coreGateway, appLogger)
	transactionsUC := usecase.NewTransactionsUseCase(profileRepo, cacheStore, coreGateway, appLogger)
	transferUC := usecase.NewTransferUseCase(
		profileRepo, cacheStore, coreGateway, balanceUC,
		publisher, publisher, auditRepo, idGen, appLogger)
	profileUC := usecase.NewProfileUseCase(profileRepo, publisher, appLogger)

	// Router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		BalanceHandler:     handler.NewBalanceHandler(balanceUC),
		TransactionHandler: handler.NewTransactionHandler(transactionsUC),
		TransferHandler:    handler.NewTransferHandler(transferUC),
		ProfileHandler:     handler.NewProfileHandler(profileUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient, mongoClient),
		IdempotencyStore:   idempotencyStore,
		RateLimiter:        middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Logger:             appLogger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server stopped")
}
