package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/property-listings-backend/internal/adapter/handler"
	"github.com/marcos-nsantos/property-listings-backend/internal/adapter/messaging"
	"github.com/marcos-nsantos/property-listings-backend/internal/adapter/repository/postgres"
	"github.com/marcos-nsantos/property-listings-backend/internal/adapter/storage"
	"github.com/marcos-nsantos/property-listings-backend/internal/infrastructure/auth"
	"github.com/marcos-nsantos/property-listings-backend/internal/infrastructure/cache"
	"github.com/marcos-nsantos/property-listings-backend/internal/infrastructure/config"
	"github.com/marcos-nsantos/property-listings-backend/internal/infrastructure/database"
	kafkamsg "github.com/marcos-nsantos/property-listings-backend/internal/infrastructure/messaging"
	"github.com/marcos-nsantos/property-listings-backend/internal/infrastructure/middleware"
	"github.com/marcos-nsantos/property-listings-backend/internal/infrastructure/observability"
	"github.com/marcos-nsantos/property-listings-backend/internal/infrastructure/server"
	infrastorage "github.com/marcos-nsantos/property-listings-backend/internal/infrastructure/storage"
	"github.com/marcos-nsantos/property-listings-backend/internal/usecase/upload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Repositories
	listingRepo := postgres.NewListingRepo(pool)
	imageRepo := postgres.NewImageRepo(pool)

	// Infrastructure services
	jwtSvc := auth.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL)

	imageStorage, err := infrastorage.NewImageStorage(cfg.Storage, cfg.S3)
	if err != nil {
		logger.Fatal("failed to create image storage", zap.Error(err))
	}
	imageProcessor := infrastorage.NewImageProcessorWithLimit(cfg.Upload.MaxPixels)

	var publisher messaging.EventPublisher = kafkamsg.NopPublisher{}
	if cfg.Kafka.Enabled() {
		kafkaPublisher := kafkamsg.NewKafkaPublisher(cfg.Kafka)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("publishing image events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	var (
		metricsHandler http.Handler
		observer       upload.Observer
	)
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		promObserver, err := observability.NewPrometheusObserver(cfg.Metrics.Namespace, registry)
		if err != nil {
			logger.Fatal("failed to register metrics", zap.Error(err))
		}
		observer = promObserver
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	}

	// Use cases
	imageSvc := upload.NewService(
		listingRepo,
		imageRepo,
		imageStorage,
		imageProcessor,
		upload.NewGatekeeper(),
		upload.Config{
			AllowedTypes:      cfg.Upload.AllowedTypes,
			MaxFileSize:       cfg.Upload.MaxFileSize,
			MinFileSize:       cfg.Upload.MinFileSize,
			ProcessingTimeout: cfg.Upload.ProcessingTimeout,
			MaxConcurrent:     cfg.Upload.MaxConcurrent,
			Category:          cfg.Storage.Category,
			Transform: storage.TransformOptions{
				Quality:           cfg.Upload.Quality,
				MaxWidth:          cfg.Upload.MaxWidth,
				MaxHeight:         cfg.Upload.MaxHeight,
				GenerateThumbnail: cfg.Upload.GenerateThumbnail,
				ThumbnailWidth:    cfg.Upload.ThumbnailWidth,
				ThumbnailHeight:   cfg.Upload.ThumbnailHeight,
			},
		},
		upload.WithLogger(logger),
		upload.WithPublisher(publisher),
		upload.WithObserver(observer),
	)

	// Handlers
	imageHandler := handler.NewImageHandler(imageSvc, cfg.Upload.MaxFileSize)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		rateLimiter = middleware.NewRateLimiter(redisClient, cfg.RateLimit, logger)
	}

	routerCfg := server.RouterConfig{
		ImageHandler:   imageHandler,
		AuthMiddleware: authMiddleware,
		RateLimiter:    rateLimiter,
		Metrics:        metricsHandler,
		Logger:         logger,
		Environment:    cfg.Server.Environment,
	}
	if cfg.Storage.Driver == config.StorageDriverLocal {
		routerCfg.StaticPrefix = "/" + cfg.Storage.Category
		routerCfg.StaticRoot = filepath.Join(cfg.Storage.RootPath, cfg.Storage.Category)
	}

	// Router
	router := server.NewRouter(routerCfg)

	// Server
	srv := server.NewServer(server.ServerConfig{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Handler:         router.Engine(),
		Logger:          logger,
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped")
}
