package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/salescore/api/handler"
	"github.com/fastygo/salescore/internal/config"
	"github.com/fastygo/salescore/internal/infrastructure/kafka"
	"github.com/fastygo/salescore/internal/infrastructure/monitor"
	"github.com/fastygo/salescore/internal/infrastructure/outbox"
	pgInfra "github.com/fastygo/salescore/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/salescore/internal/infrastructure/redis"
	"github.com/fastygo/salescore/internal/middleware"
	"github.com/fastygo/salescore/internal/router"
	"github.com/fastygo/salescore/internal/services"
	"github.com/fastygo/salescore/internal/services/lifecycle"
	"github.com/fastygo/salescore/pkg/httpcontext"
	"github.com/fastygo/salescore/pkg/logger"
	"github.com/fastygo/salescore/repository/postgres"
	redisRepo "github.com/fastygo/salescore/repository/redis"
	inventoryUC "github.com/fastygo/salescore/usecase/inventory"
	salesUC "github.com/fastygo/salescore/usecase/sales"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	outboxStore, err := outbox.Open(cfg.Outbox.Path, "events")
	if err != nil {
		zapLogger.Fatal("failed to open event outbox", zap.Error(err))
	}
	manager.Register("outbox", func(ctx context.Context) error {
		return outboxStore.Close()
	})

	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, zapLogger)
	manager.Register("kafka_producer", func(ctx context.Context) error {
		return producer.Close()
	})

	mon := monitor.New(pool, redisClient, outboxStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	// Event sink: live kafka writes, with the bolt outbox absorbing
	// failures so the sale ledger is never lost.
	sink := services.NewResilientSink(producer, outboxStore, zapLogger)

	outboxProcessor := services.NewOutboxProcessor(
		outboxStore,
		mon,
		producer,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Outbox.DrainInterval,
			BatchSize:  cfg.Outbox.BatchSize,
			MaxRetries: cfg.Outbox.MaxRetries,
			Retention:  cfg.Outbox.Retention,
		},
	)
	outboxProcessor.Start()
	manager.Register("outbox_processor", func(ctx context.Context) error {
		outboxProcessor.Stop(ctx)
		return nil
	})

	saleRepo := postgres.NewSaleRepository(pool, sink)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	requestRepo := redisRepo.NewIdempotencyRepository(redisClient, cfg.Redis.RequestTTL)

	inventoryService := inventoryUC.New(productRepo, movementRepo, zapLogger)
	salesUseCase := salesUC.New(saleRepo, productRepo, customerRepo, inventoryService, requestRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Sales:     apiHandler.NewSalesHandler(salesUseCase, ctxAdapter, zapLogger),
		Inventory: apiHandler.NewInventoryHandler(inventoryService, productRepo, movementRepo, ctxAdapter, zapLogger),
		Customers: apiHandler.NewCustomersHandler(customerRepo, ctxAdapter, zapLogger),
		Health:    apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
