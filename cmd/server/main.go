package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adoptly/service-adoption/internal/application"
	"github.com/adoptly/service-adoption/internal/config"
	offerDomain "github.com/adoptly/service-adoption/internal/domain/offer"
	petDomain "github.com/adoptly/service-adoption/internal/domain/pet"
	requestDomain "github.com/adoptly/service-adoption/internal/domain/request"
	"github.com/adoptly/service-adoption/internal/handler"
	"github.com/adoptly/service-adoption/internal/platform/health"
	"github.com/adoptly/service-adoption/internal/platform/idempotency"
	"github.com/adoptly/service-adoption/internal/platform/kafka"
	"github.com/adoptly/service-adoption/internal/platform/logger"
	"github.com/adoptly/service-adoption/internal/platform/metrics"
	"github.com/adoptly/service-adoption/internal/platform/mongodb"
	"github.com/adoptly/service-adoption/internal/repository"
	"github.com/adoptly/service-adoption/internal/repository/memory"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const serviceName = "service-adoption"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("storage_driver", cfg.StorageDriver),
		zap.String("reaccept_policy", string(cfg.ReacceptPolicy)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize repositories
	var (
		requestRepo requestDomain.RequestRepository
		petRepo     petDomain.PetRepository
		offerRepo   offerDomain.OfferRepository
		pinger      health.Pinger
	)
	switch cfg.StorageDriver {
	case config.DriverMemory:
		requestRepo = memory.NewRequestRepository()
		petRepo = memory.NewPetRepository()
		offerRepo = memory.NewOfferRepository()
		log.Warn("using in-memory storage, data is lost on restart")
	default:
		conn, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.Timeout,
		}, log)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer func() {
			closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer closeCancel()
			_ = conn.Close(closeCtx)
		}()

		mongoRequests := repository.NewMongoRequestRepository(conn.Database)
		mongoPets := repository.NewMongoPetRepository(conn.Database)
		if err := mongoRequests.EnsureIndexes(ctx); err != nil {
			log.Fatal("failed to create request indexes", zap.Error(err))
		}
		if err := mongoPets.EnsureIndexes(ctx); err != nil {
			log.Fatal("failed to create pet indexes", zap.Error(err))
		}
		requestRepo = mongoRequests
		petRepo = mongoPets
		offerRepo = repository.NewMongoOfferRepository(conn.Database)
		pinger = conn
	}

	// Initialize Kafka producer
	var publisher application.EventPublisher = kafka.NopProducer{}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
		defer func() { _ = producer.Close() }()
		publisher = producer
	} else {
		log.Info("no kafka brokers configured, events will not be published")
	}

	// Initialize idempotency store
	var idemStore idempotency.Store
	if cfg.Redis.URL != "" {
		client, err := idempotency.ConnectRedis(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = client.Close() }()
		idemStore = idempotency.NewRedisStore(client)
	}

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Initialize application services
	reconciler := application.NewInventoryReconciler(petRepo, m, log)
	requestService := application.NewRequestService(
		requestRepo,
		reconciler,
		publisher,
		cfg.ReacceptPolicy,
		cfg.Kafka.Topic,
		log,
	)
	petService := application.NewPetService(petRepo, log)
	offerService := application.NewOfferService(offerRepo, log)

	// Setup Gin router
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(handler.RouterDeps{
		Service:          serviceName,
		Requests:         requestService,
		Pets:             petService,
		Offers:           offerService,
		Pinger:           pinger,
		Metrics:          m,
		Gatherer:         registry,
		IdempotencyStore: idemStore,
		IdempotencyTTL:   cfg.Redis.IdempotencyTTL,
		Logger:           log,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}
