package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the CLI.
type Config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Plaza
	PublicKey          string        `envconfig:"BOL_PUBLIC_KEY"`
	PrivateKey         string        `envconfig:"BOL_PRIVATE_KEY"`
	Test               bool          `envconfig:"BOL_TEST" default:"false"`
	BaseURL            string        `envconfig:"BOL_BASE_URL"`
	Timeout            time.Duration `envconfig:"BOL_TIMEOUT" default:"30s"`
	InsecureSkipVerify bool          `envconfig:"BOL_INSECURE_SKIP_VERIFY" default:"false"`
	UseMock            bool          `envconfig:"BOL_USE_MOCK" default:"false"`

	// Watch
	MetricsPort   int           `envconfig:"METRICS_PORT" default:"9090"`
	WatchInterval time.Duration `envconfig:"WATCH_INTERVAL" default:"5m"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"bolplaza"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables after merging env
// files into the environment. Files passed explicitly must exist; without
// any, ./.env is merged when present.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.WatchInterval <= 0 {
		return fmt.Errorf("WATCH_INTERVAL must be positive, got %s", c.WatchInterval)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("BOL_TIMEOUT must not be negative, got %s", c.Timeout)
	}
	return nil
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("bol.test", c.Test),
		attribute.Bool("bol.mock", c.UseMock),
	}
}
