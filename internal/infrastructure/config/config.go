package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Storage   StorageConfig
	S3        S3Config
	Upload    UploadConfig
	Kafka     KafkaConfig
	Metrics   MetricsConfig
	Log       LogConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"90s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"development"`
}

type DatabaseConfig struct {
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            int           `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" required:"true"`
	Password        string        `envconfig:"DB_PASSWORD" required:"true"`
	Name            string        `envconfig:"DB_NAME" required:"true"`
	SSLMode         string        `envconfig:"DB_SSL_MODE" default:"disable"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

type JWTConfig struct {
	SecretKey      string        `envconfig:"JWT_SECRET_KEY" required:"true"`
	AccessTokenTTL time.Duration `envconfig:"JWT_ACCESS_TOKEN_TTL" default:"15m"`
}

const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

type StorageConfig struct {
	Driver   string `envconfig:"STORAGE_DRIVER" default:"local"`
	RootPath string `envconfig:"STORAGE_ROOT_PATH" default:"./uploads"`
	BaseURL  string `envconfig:"STORAGE_BASE_URL"`
	Category string `envconfig:"STORAGE_CATEGORY" default:"properties"`
}

// S3 credentials are only checked when STORAGE_DRIVER=s3.
type S3Config struct {
	Endpoint        string `envconfig:"S3_ENDPOINT"`
	Region          string `envconfig:"S3_REGION" default:"us-east-1"`
	Bucket          string `envconfig:"S3_BUCKET"`
	AccessKeyID     string `envconfig:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	UsePathStyle    bool   `envconfig:"S3_USE_PATH_STYLE" default:"false"`
	PublicURL       string `envconfig:"S3_PUBLIC_URL"`
}

type UploadConfig struct {
	MaxFileSize       int64         `envconfig:"UPLOAD_MAX_FILE_SIZE" default:"20971520"`
	MinFileSize       int64         `envconfig:"UPLOAD_MIN_FILE_SIZE" default:"64"`
	AllowedTypes      []string      `envconfig:"UPLOAD_ALLOWED_TYPES" default:"image/jpeg,image/jpg,image/png,image/webp"`
	ProcessingTimeout time.Duration `envconfig:"UPLOAD_PROCESSING_TIMEOUT" default:"60s"`
	MaxConcurrent     int64         `envconfig:"UPLOAD_MAX_CONCURRENT" default:"0"`
	MaxPixels         int           `envconfig:"UPLOAD_MAX_PIXELS" default:"50000000"`
	Quality           int           `envconfig:"UPLOAD_QUALITY" default:"85"`
	MaxWidth          int           `envconfig:"UPLOAD_MAX_WIDTH" default:"1920"`
	MaxHeight         int           `envconfig:"UPLOAD_MAX_HEIGHT" default:"1080"`
	GenerateThumbnail bool          `envconfig:"UPLOAD_GENERATE_THUMBNAIL" default:"true"`
	ThumbnailWidth    int           `envconfig:"UPLOAD_THUMBNAIL_WIDTH" default:"300"`
	ThumbnailHeight   int           `envconfig:"UPLOAD_THUMBNAIL_HEIGHT" default:"200"`
}

type KafkaConfig struct {
	Brokers      []string      `envconfig:"KAFKA_BROKERS"`
	Topic        string        `envconfig:"KAFKA_TOPIC" default:"listing-images"`
	WriteTimeout time.Duration `envconfig:"KAFKA_WRITE_TIMEOUT" default:"5s"`
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type MetricsConfig struct {
	Enabled   bool   `envconfig:"METRICS_ENABLED" default:"true"`
	Namespace string `envconfig:"METRICS_NAMESPACE" default:"listing_images"`
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type RateLimitConfig struct {
	Enabled        bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMin int  `envconfig:"RATE_LIMIT_REQUESTS_PER_MIN" default:"100"`
}

// serverTimeoutMargin is the minimum headroom the server read and write
// deadlines keep over the upload processing timeout, so a slow upload fails
// with a pipeline error instead of a dropped connection.
const serverTimeoutMargin = 15 * time.Second

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageDriverLocal, StorageDriverS3:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Upload.MinFileSize < 0 || c.Upload.MaxFileSize <= c.Upload.MinFileSize {
		return fmt.Errorf("invalid upload size bounds %d..%d", c.Upload.MinFileSize, c.Upload.MaxFileSize)
	}
	if c.Upload.ProcessingTimeout <= 0 {
		return fmt.Errorf("upload processing timeout must be positive")
	}
	minServerTimeout := c.Upload.ProcessingTimeout + serverTimeoutMargin
	if c.Server.ReadTimeout > 0 && c.Server.ReadTimeout < minServerTimeout {
		return fmt.Errorf("server read timeout %s must be at least %s", c.Server.ReadTimeout, minServerTimeout)
	}
	if c.Server.WriteTimeout > 0 && c.Server.WriteTimeout < minServerTimeout {
		return fmt.Errorf("server write timeout %s must be at least %s", c.Server.WriteTimeout, minServerTimeout)
	}
	if c.Upload.MaxConcurrent < 0 {
		return fmt.Errorf("upload max concurrent must not be negative")
	}
	return nil
}
