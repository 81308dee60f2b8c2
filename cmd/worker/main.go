package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/plugin/kprom"
	"golang.org/x/sync/errgroup"

	"github.com/iho/gobank/internal/adapter/queue/kafka"
	mongoRepo "github.com/iho/gobank/internal/adapter/repository/mongodb"
	postgresRepo "github.com/iho/gobank/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gobank/internal/adapter/repository/redis"
	"github.com/iho/gobank/internal/infrastructure/config"
	"github.com/iho/gobank/internal/infrastructure/logging"
	"github.com/iho/gobank/internal/infrastructure/mongodb"
	"github.com/iho/gobank/internal/infrastructure/notifier"
	"github.com/iho/gobank/internal/infrastructure/postgres"
	"github.com/iho/gobank/internal/infrastructure/redis"
	"github.com/iho/gobank/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat).Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis: cache store and DLQ
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error("cannot connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// MongoDB: user profiles for notification preferences
	mongoClient, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Error("cannot connect to mongodb", "error", err)
		os.Exit(1)
	}
	defer mongoClient.Disconnect(context.Background())

	// Postgres: audit trail
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		logger.Error("cannot connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Kafka publisher: the processor emits notification events
	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:           cfg.KafkaBrokers,
		TransactionTopic:  cfg.TransactionTopic,
		NotificationTopic: cfg.NotificationTopic,
	}, nil)
	if err != nil {
		logger.Error("cannot create kafka publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	profileRepo := mongoRepo.NewProfileRepository(mongoClient, cfg.MongoDatabase)
	cacheStore := redisRepo.NewCacheStore(redisClient)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	dlq := redisRepo.NewDeadLetterQueue(redisClient, "transactions")

	processor := usecase.NewTransactionProcessor(cacheStore, auditRepo, publisher, logger)
	dispatcher := usecase.NewNotificationDispatcher(
		profileRepo,
		notifier.NewPushSender(logger),
		notifier.NewEmailSender(logger),
		notifier.NewSMSSender(logger),
		logger)

	kafkaMetrics := kprom.NewMetrics("gobank")

	txConsumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:        cfg.KafkaBrokers,
		GroupID:        cfg.ConsumerGroup,
		Topic:          cfg.TransactionTopic,
		RecordsPerPoll: cfg.RecordsPerPoll,
	}, kafka.NewTransactionHandler(processor, dlq, logger), kafkaMetrics, logger)
	if err != nil {
		logger.Error("cannot create transactions consumer", "error", err)
		os.Exit(1)
	}

	notifConsumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:        cfg.KafkaBrokers,
		GroupID:        cfg.ConsumerGroup + "-notifications",
		Topic:          cfg.NotificationTopic,
		RecordsPerPoll: cfg.RecordsPerPoll,
	}, kafka.NewNotificationHandler(dispatcher, logger), kafkaMetrics, logger)
	if err != nil {
		logger.Error("cannot create notifications consumer", "error", err)
		os.Exit(1)
	}

	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: promhttp.Handler(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return txConsumer.Poll(gctx) })
	g.Go(func() error { return notifConsumer.Poll(gctx) })
	g.Go(func() error {
		err := metricsServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		return metricsServer.Shutdown(context.Background())
	})

	logger.Info("worker started",
		"transaction_topic", cfg.TransactionTopic,
		"notification_topic", cfg.NotificationTopic,
		"metrics_port", cfg.WorkerMetricsPort)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("worker stopped")
}
