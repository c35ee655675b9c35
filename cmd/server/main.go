package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sathish-R02/Saa-CRM/internal/checkout"
	"github.com/Sathish-R02/Saa-CRM/internal/events"
	"github.com/Sathish-R02/Saa-CRM/internal/handler"
	"github.com/Sathish-R02/Saa-CRM/internal/idempotency"
	"github.com/Sathish-R02/Saa-CRM/internal/middleware"
	"github.com/Sathish-R02/Saa-CRM/internal/model"
	"github.com/Sathish-R02/Saa-CRM/internal/store"
	"github.com/Sathish-R02/Saa-CRM/pkg/config"
	"github.com/Sathish-R02/Saa-CRM/pkg/database"
	"github.com/Sathish-R02/Saa-CRM/pkg/logger"
	"github.com/Sathish-R02/Saa-CRM/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load("pos-service")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()
	log.Info("Starting POS service...", zap.String("environment", cfg.Server.Env))

	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	s, err := openStore(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}

	checkoutOpts := []checkout.Option{checkout.WithCustomerCheck(cfg.Billing.RequireCustomer)}
	if cfg.Kafka.Enabled() {
		checkoutOpts = append(checkoutOpts, checkout.WithSaleEvents(cfg.Kafka.SalesTopic))
	}
	processor := checkout.NewProcessor(s, checkoutOpts...)
	opts := []handler.Option{}

	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		opts = append(opts, handler.WithIdempotency(idempotency.NewRedisStore(client, cfg.Redis.IdempotencyTTL)))
		log.Info("Idempotency keys enabled", zap.String("redis_addr", cfg.Redis.Addr))
	}

	h := handler.New(s, processor, opts...)

	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(middleware.MetricsMiddleware)
	e.Use(middleware.AccessLogMiddleware)

	// Prometheus metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	h.Register(e)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		relay     *events.Relay
		relayDone = make(chan struct{})
	)
	if cfg.Kafka.Enabled() {
		relay = events.NewKafkaRelay(s, cfg.Kafka.Brokers, log,
			events.WithBatchSize(cfg.Kafka.RelayBatchSize),
			events.WithInterval(cfg.Kafka.RelayInterval))
		go func() {
			defer close(relayDone)
			relay.Run(ctx)
		}()
		log.Info("Sale events enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.SalesTopic))
	}

	go func() {
		port := cfg.Server.Port
		log.Info("Starting server", zap.String("port", port))
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}

	if relay != nil {
		<-relayDone
		if _, err := relay.Flush(shutdownCtx); err != nil {
			log.Error("Final outbox flush failed", zap.Error(err))
		}
		if err := relay.Close(); err != nil {
			log.Error("Failed to close Kafka writer", zap.Error(err))
		}
	}
}

// openStore builds the record store for the configured driver
func openStore(cfg *config.Config, log *zap.Logger) (store.Store, error) {
	if cfg.DB.Driver == config.DriverMemory {
		log.Warn("Using in-memory store; data is lost on restart")
		return store.NewMemoryStore(), nil
	}

	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := database.MigrateModels(db, log, model.All()...); err != nil {
		return nil, err
	}
	log.Info("Database connection established and migrations completed",
		zap.String("driver", cfg.DB.Driver),
		zap.String("db_name", cfg.DB.DBName))

	return store.NewGormStore(db), nil
}
