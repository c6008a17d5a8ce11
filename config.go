package kuriosity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/viant/afs"
	"github.com/viant/kuriosity/policy"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "KURIOSITY_"

// Snapshot store and event queue kinds.
const (
	StoreMemory = "memory"
	StoreFS     = "fs"
	StoreSQLite = "sqlite"
)

// BaseFactors lists the selectable global base factors.
var BaseFactors = []float64{0.01, 0.1, 0.5, 1, 5, 10, 50}

// Config is a serialisable representation of the engine configuration. It can
// be populated from YAML or JSON and overridden with KURIOSITY_* variables.
type Config struct {
	BaseFactor float64       `json:"baseFactor" yaml:"baseFactor" env:"BASE_FACTOR"`
	Seed       uint64        `json:"seed" yaml:"seed" env:"SEED"`
	Catalog    CatalogConfig `json:"catalog" yaml:"catalog" envPrefix:"CATALOG_"`
	Store      StoreConfig   `json:"store" yaml:"store" envPrefix:"STORE_"`
	Events     EventsConfig  `json:"events" yaml:"events" envPrefix:"EVENTS_"`
	Logging    LoggingConfig `json:"logging" yaml:"logging" envPrefix:"LOG_"`
	Tracing    TracingConfig `json:"tracing" yaml:"tracing" envPrefix:"TRACING_"`
	Metrics    MetricsConfig `json:"metrics" yaml:"metrics" envPrefix:"METRICS_"`
}

// CatalogConfig locates experiment definitions and filters their IDs.
type CatalogConfig struct {
	URL   string   `json:"url" yaml:"url" env:"URL"`
	Allow []string `json:"allow,omitempty" yaml:"allow,omitempty" env:"ALLOW" envSeparator:","`
	Block []string `json:"block,omitempty" yaml:"block,omitempty" env:"BLOCK" envSeparator:","`
}

// Policy returns the experiment ID policy, nil when unrestricted.
func (c *CatalogConfig) Policy() *policy.Policy {
	return policy.FromConfig(&policy.Config{AllowList: c.Allow, BlockList: c.Block})
}

// StoreConfig selects the snapshot store.
type StoreConfig struct {
	Kind string `json:"kind" yaml:"kind" env:"KIND"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty" env:"URL"`
}

// EventsConfig selects the host event queue, fs keeps undelivered events across restarts.
type EventsConfig struct {
	Queue      string `json:"queue" yaml:"queue" env:"QUEUE"`
	URL        string `json:"url,omitempty" yaml:"url,omitempty" env:"URL"`
	MaxRetries int    `json:"maxRetries,omitempty" yaml:"maxRetries,omitempty" env:"MAX_RETRIES"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level       string `json:"level" yaml:"level" env:"LEVEL"`
	Development bool   `json:"development" yaml:"development" env:"DEVELOPMENT"`
}

// TracingConfig controls the OpenTelemetry exporter.
type TracingConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled" env:"ENABLED"`
	OutputFile string `json:"outputFile,omitempty" yaml:"outputFile,omitempty" env:"OUTPUT_FILE"`
}

// MetricsConfig controls prometheus collectors.
type MetricsConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled" env:"ENABLED"`
}

// DefaultConfig returns a Config populated with the engine defaults. Callers
// may modify the returned struct before passing it to New.
func DefaultConfig() *Config {
	return &Config{
		BaseFactor: 1.0,
		Store:      StoreConfig{Kind: StoreMemory},
		Events:     EventsConfig{Queue: StoreMemory, MaxRetries: 3},
		Logging:    LoggingConfig{Level: "info"},
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if !isBaseFactor(c.BaseFactor) {
		errs = append(errs, fmt.Errorf("baseFactor %v must be one of %v", c.BaseFactor, BaseFactors))
	}
	switch c.Store.Kind {
	case "", StoreMemory, StoreSQLite:
	case StoreFS:
		if c.Store.URL == "" {
			errs = append(errs, fmt.Errorf("store.url is required for %q store", c.Store.Kind))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported store.kind %q", c.Store.Kind))
	}
	switch c.Events.Queue {
	case "", StoreMemory:
	case StoreFS:
		if c.Events.URL == "" {
			errs = append(errs, fmt.Errorf("events.url is required for %q queue", c.Events.Queue))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported events.queue %q", c.Events.Queue))
	}
	if c.Events.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("events.maxRetries must be >= 0"))
	}
	if c.Logging.Level != "" {
		if _, err := zap.ParseAtomicLevel(c.Logging.Level); err != nil {
			errs = append(errs, fmt.Errorf("logging.level: %w", err))
		}
	}
	return errors.Join(errs...)
}

func isBaseFactor(factor float64) bool {
	for _, candidate := range BaseFactors {
		if candidate == factor {
			return true
		}
	}
	return false
}

// LoadConfig reads a YAML or JSON config from URL on top of DefaultConfig,
// then applies environment overrides. An empty URL yields defaults with
// overrides only.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	cfg := DefaultConfig()
	if URL != "" {
		data, err := afs.New().DownloadWithURL(ctx, URL)
		if err != nil {
			return nil, fmt.Errorf("failed to download config %v: %w", URL, err)
		}
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %v: %w", URL, err)
		}
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewLogger builds the zap logger described by the config.
func (c *LoggingConfig) NewLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if c.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	if level := strings.TrimSpace(c.Level); level != "" {
		atomic, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = atomic
	}
	return cfg.Build()
}
