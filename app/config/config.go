package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	GRPCAddr    string `env:"CAMPAVAIL_GRPC_ADDR" envDefault:":1234"`
	HTTPAddr    string `env:"CAMPAVAIL_HTTP_ADDR" envDefault:":8080"`
	MetricsAddr string `env:"CAMPAVAIL_METRICS_ADDR" envDefault:":2112"`

	Provider ProviderConfig

	OTelEndpoint string `env:"CAMPAVAIL_OTEL_ENDPOINT"`
}

type ProviderConfig struct {
	BaseURL         string        `env:"CAMPAVAIL_PROVIDER_BASE_URL" envDefault:"https://www.recreation.gov"`
	Timeout         time.Duration `env:"CAMPAVAIL_PROVIDER_TIMEOUT" envDefault:"30s"`
	UserAgent       string        `env:"CAMPAVAIL_USER_AGENT" envDefault:"campground-availability/1.0"`
	CampsiteWorkers int           `env:"CAMPAVAIL_CAMPSITE_WORKERS" envDefault:"8"`
}

// Parse loads defaults from the environment, then applies command-line flags.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "gRPC listen address")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listing listen address")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Prometheus metrics listen address")
	fs.StringVar(&cfg.Provider.BaseURL, "provider-url", cfg.Provider.BaseURL, "Reservation provider base URL")
	fs.DurationVar(&cfg.Provider.Timeout, "provider-timeout", cfg.Provider.Timeout, "Timeout for a single provider request")
	fs.IntVar(&cfg.Provider.CampsiteWorkers, "campsite-workers", cfg.Provider.CampsiteWorkers, "Concurrent campsite metadata fetches")
	fs.StringVar(&cfg.OTelEndpoint, "otel-endpoint", cfg.OTelEndpoint, "OTLP HTTP endpoint; tracing is off when empty")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.GRPCAddr == "" && c.HTTPAddr == "" {
		return errors.New("at least one of grpc or http address is required")
	}
	u, err := url.Parse(c.Provider.BaseURL)
	if err != nil {
		return fmt.Errorf("provider url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("provider url %q must be http or https", c.Provider.BaseURL)
	}
	if c.Provider.Timeout <= 0 {
		return fmt.Errorf("provider timeout must be positive, got %s", c.Provider.Timeout)
	}
	if c.Provider.CampsiteWorkers <= 0 {
		return fmt.Errorf("campsite workers must be positive, got %d", c.Provider.CampsiteWorkers)
	}
	return nil
}
