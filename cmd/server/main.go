package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	httpadapter "github.com/campusnest/accommodation-service/internal/adapter/http"
	natsadapter "github.com/campusnest/accommodation-service/internal/adapter/messaging/nats"
	"github.com/campusnest/accommodation-service/internal/adapter/repository/cache"
	"github.com/campusnest/accommodation-service/internal/adapter/repository/postgres"
	"github.com/campusnest/accommodation-service/internal/adapter/storage/disk"
	"github.com/campusnest/accommodation-service/internal/adapter/storage/s3"
	"github.com/campusnest/accommodation-service/internal/auth"
	"github.com/campusnest/accommodation-service/internal/config"
	"github.com/campusnest/accommodation-service/internal/domain"
	"github.com/campusnest/accommodation-service/internal/mailer"
	"github.com/campusnest/accommodation-service/internal/platform/logger"
	"github.com/campusnest/accommodation-service/internal/platform/metrics"
	"github.com/campusnest/accommodation-service/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine; configuration falls back to the environment.
	_ = godotenv.Load()

	appLogger := logger.NewLogger()
	defer appLogger.Sync()

	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}
	appLogger.Info("Starting service", zap.String("service_name", cfg.ServiceName))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := postgres.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		appLogger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer store.Close()

	userRepo := postgres.NewUserRepository(store, appLogger)
	accRepo := postgres.NewAccommodationRepository(store, appLogger)

	var fileStore domain.FileStore
	var staticDir string
	switch cfg.StorageDriver {
	case "s3":
		s3Store, err := s3.NewStore(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize S3 file store", zap.Error(err))
		}
		fileStore = s3Store
	case "disk":
		diskStore, err := disk.NewStore(cfg.UploadDir, cfg.PublicBaseURL, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize disk file store", zap.Error(err))
		}
		fileStore = diskStore
		staticDir = cfg.UploadDir
	default:
		appLogger.Fatal("Unknown STORAGE_DRIVER", zap.String("storage_driver", cfg.StorageDriver))
	}

	var accCache *cache.AccommodationCache
	if cfg.RedisAddress != "" {
		accCache, err = cache.NewAccommodationCache(cfg.RedisAddress)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.String("address", cfg.RedisAddress), zap.Error(err))
		}
		appLogger.Info("Redis cache enabled", zap.String("address", cfg.RedisAddress))
	}

	var events usecase.EventPublisher
	if cfg.NATSURL != "" {
		publisher, err := natsadapter.NewPublisher(cfg.NATSURL, appLogger, cfg.ServiceName)
		if err != nil {
			appLogger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer publisher.Close()
		events = publisher
	}

	var mail mailer.Mailer
	if cfg.SMTPEmail != "" && cfg.SMTPPassword != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)
		appLogger.Info("SMTP notifications enabled", zap.String("host", cfg.SMTPHost))
	}

	metricsManager := metrics.NewMetricsManager("accommodation_service")
	go func() {
		if err := metrics.StartMetricsServer(cfg.PrometheusMetricsPort, appLogger, metricsManager.Registry); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Prometheus metrics server failed", zap.Error(err))
		}
	}()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, time.Duration(cfg.JWTTTLMinutes)*time.Minute)

	userUC := usecase.NewUserUsecase(userRepo, tokens, appLogger)
	accUC := usecase.NewAccommodationUsecase(accRepo, userRepo, fileStore, events, accCache, mail, metricsManager, appLogger)

	router := httpadapter.NewRouter(httpadapter.RouterDeps{
		Users:          userUC,
		Accommodations: accUC,
		Tokens:         tokens,
		Metrics:        metricsManager,
		UploadDir:      staticDir,
		Logger:         appLogger,
	})

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		appLogger.Info("HTTP server listening", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Shutdown signal received", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	appLogger.Info("Service stopped")
}
