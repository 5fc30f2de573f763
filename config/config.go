package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Sync     SyncConfig     `yaml:"sync"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	Database DatabaseConfig `yaml:"database"`
}

// APIConfig describes how to reach the remote reservation backend.
type APIConfig struct {
	BaseURL         string            `yaml:"base_url"`
	TimeoutSeconds  int               `yaml:"timeout_seconds"`
	Timeout         time.Duration     `yaml:"-"`
	RateLimitPerSec float64           `yaml:"rate_limit_per_sec"`
	Headers         map[string]string `yaml:"headers"`
}

// SyncConfig holds the polling cadence of the background sync loop.
type SyncConfig struct {
	PollIntervalSeconds          int           `yaml:"poll_interval_seconds"`
	PollInterval                 time.Duration `yaml:"-"`
	ConfirmedPollIntervalSeconds int           `yaml:"confirmed_poll_interval_seconds"`
	ConfirmedPollInterval        time.Duration `yaml:"-"`
	BreakerFailures              uint32        `yaml:"breaker_failures"`
	BreakerOpenSeconds           int           `yaml:"breaker_open_seconds"`
}

// GatewayConfig holds the local HTTP gateway configuration.
type GatewayConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the local cache database configuration. A DSN starting
// with postgres:// or postgresql:// selects Postgres, anything else is a SQLite path.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogQueries             bool   `yaml:"log_queries"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills unset fields and derives the time.Duration values.
func (cfg *Config) ApplyDefaults() {
	if cfg.API.BaseURL == "" {
		log.Printf("api.base_url is not set; defaulting to http://localhost:8080/api")
		cfg.API.BaseURL = "http://localhost:8080/api"
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = 15
	}
	cfg.API.Timeout = time.Duration(cfg.API.TimeoutSeconds) * time.Second

	if cfg.Sync.PollIntervalSeconds <= 0 {
		cfg.Sync.PollIntervalSeconds = 30
	}
	cfg.Sync.PollInterval = time.Duration(cfg.Sync.PollIntervalSeconds) * time.Second

	if cfg.Sync.ConfirmedPollIntervalSeconds <= 0 {
		cfg.Sync.ConfirmedPollIntervalSeconds = 5
	}
	cfg.Sync.ConfirmedPollInterval = time.Duration(cfg.Sync.ConfirmedPollIntervalSeconds) * time.Second

	if cfg.Sync.BreakerFailures == 0 {
		cfg.Sync.BreakerFailures = 3
	}
	if cfg.Sync.BreakerOpenSeconds <= 0 {
		cfg.Sync.BreakerOpenSeconds = 30
	}

	if cfg.Gateway.Port <= 0 {
		cfg.Gateway.Port = 3000
	}
	if cfg.Gateway.RateLimitPerSec <= 0 {
		cfg.Gateway.RateLimitPerSec = 10
	}
	if cfg.Gateway.RateLimitBurst <= 0 {
		cfg.Gateway.RateLimitBurst = 5
	}
	if cfg.Gateway.CacheTTLSeconds <= 0 {
		cfg.Gateway.CacheTTLSeconds = 30
	}

	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "laundry.db"
	}
}

// Default returns a configuration with every default applied, used when no file exists.
func Default() *Config {
	var cfg Config
	cfg.ApplyDefaults()
	return &cfg
}
