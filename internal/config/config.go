// Package config provides application configuration management using Viper.
// Configuration is loaded from YAML files, an optional .env file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"country-pulse-service/internal/validator"
)

// Snapshot sources.
const (
	SourceFS   = "fs"
	SourceHTTP = "http"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app" json:"app"`
	Snapshot SnapshotConfig `mapstructure:"snapshot" json:"snapshot"`
	Logger   LoggerConfig   `mapstructure:"logger" json:"logger"`
	Sentry   SentryConfig   `mapstructure:"sentry" json:"sentry"`
	Redis    RedisConfig    `mapstructure:"redis" json:"redis"`
	Cache    CacheConfig    `mapstructure:"cache" json:"cache"`
	Warmup   WarmupConfig   `mapstructure:"warmup" json:"warmup"`
	Metrics  MetricsConfig  `mapstructure:"metrics" json:"metrics"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name            string        `mapstructure:"name" json:"name" validate:"required"`
	Env             string        `mapstructure:"env" json:"env" validate:"oneof=development staging production test"`
	Port            int           `mapstructure:"port" json:"port" validate:"min=1,max=65535"`
	Debug           bool          `mapstructure:"debug" json:"debug"`
	BodyLimit       int           `mapstructure:"body_limit" json:"body_limit" validate:"min=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" json:"shutdown_timeout" validate:"min=0"`
}

// SnapshotConfig selects and configures the snapshot store.
type SnapshotConfig struct {
	Source string       `mapstructure:"source" json:"source" validate:"oneof=fs http"`
	Root   string       `mapstructure:"root" json:"root"`
	Remote RemoteConfig `mapstructure:"remote" json:"remote"`
}

// RemoteConfig holds the HTTP snapshot host settings.
type RemoteConfig struct {
	BaseURL string        `mapstructure:"base_url" json:"base_url" validate:"omitempty,url"`
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
	Retry   RetryConfig   `mapstructure:"retry" json:"retry"`
	CB      CBConfig      `mapstructure:"circuit_breaker" json:"circuit_breaker"`
}

// RetryConfig holds retry settings.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" json:"max_attempts" validate:"min=0"`
	WaitTime    time.Duration `mapstructure:"wait_time" json:"wait_time"`
	MaxWaitTime time.Duration `mapstructure:"max_wait_time" json:"max_wait_time"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests" json:"max_requests"`
	Interval     time.Duration `mapstructure:"interval" json:"interval"`
	Timeout      time.Duration `mapstructure:"timeout" json:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio" json:"failure_ratio" validate:"min=0,max=1"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level" json:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" json:"format"` // json, console
	Output string `mapstructure:"output" json:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled" json:"enabled"`
	DSN         string  `mapstructure:"dsn" json:"-"`
	Environment string  `mapstructure:"environment" json:"environment"`
	Release     string  `mapstructure:"release" json:"release"`
	SampleRate  float64 `mapstructure:"sample_rate" json:"sample_rate" validate:"min=0,max=1"`
}

// RedisConfig holds Redis connection settings for the view-model cache and
// the warm-up lock.
type RedisConfig struct {
	Host     string `mapstructure:"host" json:"host"`
	Port     int    `mapstructure:"port" json:"port"`
	Password string `mapstructure:"password" json:"-"`
	DB       int    `mapstructure:"db" json:"db"`
}

// Addr returns the host:port address of the Redis server.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds view-model caching settings.
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" json:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" json:"ttl"`
	KeyPrefix string        `mapstructure:"key_prefix" json:"key_prefix"`
}

// WarmupConfig holds background cache warm-up settings.
type WarmupConfig struct {
	Enabled     bool          `mapstructure:"enabled" json:"enabled"`
	Interval    time.Duration `mapstructure:"interval" json:"interval"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout"`
	OnStartup   bool          `mapstructure:"on_startup" json:"on_startup"`
	Concurrency int           `mapstructure:"concurrency" json:"concurrency" validate:"min=0"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	Path    string `mapstructure:"path" json:"path" validate:"omitempty,startswith=/"`
}

// Load reads configuration from file and environment variables.
// Priority: env vars > .env file > config file > defaults
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found, continue with defaults + env vars
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadDotEnv exports the variables of path into the process environment
// without overriding variables that are already set. A missing file is fine.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Validate checks field ranges and the settings each snapshot source needs.
func (c *Config) Validate() error {
	if err := validator.New().Validate(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch c.Snapshot.Source {
	case SourceFS:
		if c.Snapshot.Root == "" {
			return errors.New("invalid config: snapshot.root is required for the fs source")
		}
	case SourceHTTP:
		if c.Snapshot.Remote.BaseURL == "" {
			return errors.New("invalid config: snapshot.remote.base_url is required for the http source")
		}
	}

	if c.Warmup.Enabled && c.Warmup.Interval <= 0 {
		return errors.New("invalid config: warmup.interval must be positive")
	}

	return nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "country-pulse-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", false)
	v.SetDefault("app.body_limit", 1<<20)
	v.SetDefault("app.shutdown_timeout", "10s")

	// Snapshot defaults
	v.SetDefault("snapshot.source", SourceFS)
	v.SetDefault("snapshot.root", "./data")
	v.SetDefault("snapshot.remote.base_url", "")
	v.SetDefault("snapshot.remote.timeout", "10s")
	v.SetDefault("snapshot.remote.retry.max_attempts", 3)
	v.SetDefault("snapshot.remote.retry.wait_time", "500ms")
	v.SetDefault("snapshot.remote.retry.max_wait_time", "5s")
	v.SetDefault("snapshot.remote.circuit_breaker.max_requests", 3)
	v.SetDefault("snapshot.remote.circuit_breaker.interval", "60s")
	v.SetDefault("snapshot.remote.circuit_breaker.timeout", "30s")
	v.SetDefault("snapshot.remote.circuit_breaker.failure_ratio", 0.5)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.release", "")
	v.SetDefault("sentry.sample_rate", 1.0)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Cache defaults
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl", "15m")
	v.SetDefault("cache.key_prefix", "country-pulse")

	// Warm-up defaults
	v.SetDefault("warmup.enabled", false)
	v.SetDefault("warmup.interval", "10m")
	v.SetDefault("warmup.timeout", "2m")
	v.SetDefault("warmup.on_startup", true)
	v.SetDefault("warmup.concurrency", 4)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
