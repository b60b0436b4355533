package config

import (
	"errors"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const insecureJWTSecret = "change-me-bookreview-secret"

// Config holds all configuration for the service.
type Config struct {
	ServiceName string `mapstructure:"SERVICE_NAME"`
	Env         string `mapstructure:"ENV"`
	HTTPPort    string `mapstructure:"HTTP_PORT"`

	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	NATSURL string `mapstructure:"NATS_URL"`

	JWTSecret    string        `mapstructure:"JWT_SECRET"`
	JWTExpiresIn time.Duration `mapstructure:"JWT_EXPIRES_IN"`

	CORSOrigin        string        `mapstructure:"CORS_ORIGIN"`
	RateLimitRequests int           `mapstructure:"RATE_LIMIT_REQUESTS"`
	RateLimitWindow   time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	FeaturedCacheTTL  time.Duration `mapstructure:"FEATURED_CACHE_TTL"`

	PrometheusMetricsPort  string `mapstructure:"PROMETHEUS_METRICS_PORT"`
	GRPCHealthPort         string `mapstructure:"GRPC_HEALTH_PORT"`
	OTExporterOTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	MinioEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinioBucket    string `mapstructure:"MINIO_BUCKET"`
	MinioUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

// IsProduction reports whether internal error details must be hidden.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// CORSOrigins splits CORS_ORIGIN on commas.
func (c *Config) CORSOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// StorageEnabled reports whether cover uploads can be served.
func (c *Config) StorageEnabled() bool {
	return c.MinioEndpoint != "" && c.MinioBucket != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_NAME", "bookreview-service")
	v.SetDefault("ENV", "development")
	v.SetDefault("HTTP_PORT", "5000")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "book_review")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("NATS_URL", "")
	v.SetDefault("JWT_SECRET", insecureJWTSecret)
	v.SetDefault("JWT_EXPIRES_IN", "168h")
	v.SetDefault("CORS_ORIGIN", "*")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", "15m")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
	v.SetDefault("FEATURED_CACHE_TTL", "60s")
	v.SetDefault("PROMETHEUS_METRICS_PORT", "9095")
	v.SetDefault("GRPC_HEALTH_PORT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("MINIO_ENDPOINT", "")
	v.SetDefault("MINIO_ACCESS_KEY", "")
	v.SetDefault("MINIO_SECRET_KEY", "")
	v.SetDefault("MINIO_BUCKET", "book-covers")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// LoadConfig reads configuration from the environment. A .env file, if any,
// has already been loaded into the environment by the caller.
func LoadConfig(log *logger.Logger) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.MongoURI == "" {
		return nil, errors.New("MONGO_URI is required")
	}
	if cfg.MongoDatabase == "" {
		return nil, errors.New("MONGO_DATABASE is required")
	}
	if cfg.JWTSecret == "" || cfg.JWTSecret == insecureJWTSecret {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET must be set in production")
		}
		log.Warn("JWT_SECRET is empty or uses the insecure default; set a strong secret")
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = insecureJWTSecret
		}
	}
	if cfg.JWTExpiresIn <= 0 {
		return nil, errors.New("JWT_EXPIRES_IN must be positive")
	}
	if cfg.RateLimitRequests <= 0 || cfg.RateLimitWindow <= 0 {
		return nil, errors.New("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}

	log.Debug("Configuration loaded",
		zap.String("service_name", cfg.ServiceName),
		zap.String("env", cfg.Env),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("mongo_database", cfg.MongoDatabase),
		zap.String("redis_addr", cfg.RedisAddr),
		zap.Bool("nats_enabled", cfg.NATSURL != ""),
		zap.Bool("storage_enabled", cfg.StorageEnabled()),
		zap.String("prometheus_port", cfg.PrometheusMetricsPort),
		zap.String("otel_endpoint", cfg.OTExporterOTLPEndpoint),
	)
	return &cfg, nil
}
