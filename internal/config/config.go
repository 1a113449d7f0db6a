package config

import (
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/campusnest/accommodation-service/internal/platform/logger"
)

// Config holds all configuration for the service.
type Config struct {
	ServiceName           string `mapstructure:"SERVICE_NAME"`
	HTTPPort              string `mapstructure:"HTTP_PORT"`
	DatabaseURL           string `mapstructure:"DATABASE_URL"`
	UploadDir             string `mapstructure:"UPLOAD_DIR"`
	PublicBaseURL         string `mapstructure:"PUBLIC_BASE_URL"`
	StorageDriver         string `mapstructure:"STORAGE_DRIVER"` // "disk" or "s3"
	MinIOEndpoint         string `mapstructure:"MINIO_ENDPOINT"`
	MinIOAccessKey        string `mapstructure:"MINIO_ACCESS_KEY"`
	MinIOSecretKey        string `mapstructure:"MINIO_SECRET_KEY"`
	MinIOBucket           string `mapstructure:"MINIO_BUCKET"`
	MinIOUseSSL           bool   `mapstructure:"MINIO_USE_SSL"`
	RedisAddress          string `mapstructure:"REDIS_ADDRESS"`
	NATSURL               string `mapstructure:"NATS_URL"`
	JWTSecret             string `mapstructure:"JWT_SECRET"`
	JWTIssuer             string `mapstructure:"JWT_ISSUER"`
	JWTTTLMinutes         int    `mapstructure:"JWT_TTL_MINUTES"`
	SMTPHost              string `mapstructure:"SMTP_HOST"`
	SMTPPort              int    `mapstructure:"SMTP_PORT"`
	SMTPEmail             string `mapstructure:"SMTP_EMAIL"`
	SMTPPassword          string `mapstructure:"SMTP_PASSWORD"`
	PrometheusMetricsPort string `mapstructure:"PROMETHEUS_METRICS_PORT"`
	LogLevel              string `mapstructure:"LOG_LEVEL"`
	LogFormat             string `mapstructure:"LOG_FORMAT"`
}

// LoadConfig reads configuration from environment variables (a .env file, if
// present, is loaded by main before this runs).
func LoadConfig(appLogger *logger.Logger) (*Config, error) {
	viper.SetDefault("SERVICE_NAME", "accommodation-service")
	viper.SetDefault("HTTP_PORT", "8080")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("UPLOAD_DIR", "./uploads")
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	viper.SetDefault("STORAGE_DRIVER", "disk")
	viper.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	viper.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	viper.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	viper.SetDefault("MINIO_BUCKET", "accommodation-photos")
	viper.SetDefault("MINIO_USE_SSL", false)
	viper.SetDefault("REDIS_ADDRESS", "")
	viper.SetDefault("NATS_URL", "")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_ISSUER", "accommodation-service")
	viper.SetDefault("JWT_TTL_MINUTES", 60)
	viper.SetDefault("SMTP_HOST", "smtp.gmail.com")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_EMAIL", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("PROMETHEUS_METRICS_PORT", "")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")

	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		appLogger.Error("Failed to unmarshal configuration", zap.Error(err))
		return nil, err
	}

	if cfg.DatabaseURL == "" {
		appLogger.Fatal("DATABASE_URL is not set. This is required.")
	}
	if cfg.JWTSecret == "" {
		appLogger.Fatal("JWT_SECRET is not set. This is required for security.")
	}
	if cfg.UploadDir == "" {
		appLogger.Fatal("UPLOAD_DIR is not set. The file store requires it.")
	}
	if cfg.PublicBaseURL == "" {
		appLogger.Fatal("PUBLIC_BASE_URL is not set. The file store requires it.")
	}

	appLogger.Debug("Configuration loaded",
		zap.String("service_name", cfg.ServiceName),
		zap.String("http_port", cfg.HTTPPort),
		zap.Bool("database_url_present", cfg.DatabaseURL != ""),
		zap.String("upload_dir", cfg.UploadDir),
		zap.String("public_base_url", cfg.PublicBaseURL),
		zap.String("storage_driver", cfg.StorageDriver),
		zap.String("redis_address", cfg.RedisAddress),
		zap.String("nats_url", cfg.NATSURL),
		zap.Bool("jwt_secret_present", cfg.JWTSecret != ""),
		zap.String("prometheus_port", cfg.PrometheusMetricsPort),
	)

	return &cfg, nil
}
