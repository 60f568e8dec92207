// Package config resolves ftops configuration from file, environment and
// flags via viper. Defaults match the documented local deployment: compose
// file in the working directory, Freqtrade API on 127.0.0.1:8080, backend
// webhook on localhost:3001.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Default values for the local deployment
const (
	DefaultComposeFile = "docker-compose.yml"
	DefaultService     = "freqtrade"
	DefaultLogDir      = "user_data/logs"
	DefaultAPIURL      = "http://127.0.0.1:8080"
	DefaultWebhookURL  = "http://localhost:3001/api/freqtrade-signals"
	DefaultTimeframe   = "5m"
)

// DefaultPairs is the monitored portfolio
var DefaultPairs = []string{
	"BTC/USDT",
	"ETH/USDT",
	"ADA/USDT",
	"DOT/USDT",
	"LINK/USDT",
	"MATIC/USDT",
}

// APIConfig holds Freqtrade REST API access settings
type APIConfig struct {
	URL      string
	Username string
	Password string
}

// MonitorConfig holds monitor daemon settings
type MonitorConfig struct {
	Pairs         []string
	Timeframe     string
	Interval      time.Duration
	CandleLimit   int
	WebhookURL    string
	MetricsListen string
	Mock          bool
}

// StoreConfig holds signal persistence settings
type StoreConfig struct {
	Driver string // "sqlite" or "postgres"
	Path   string // sqlite database path
	DSN    string // postgres connection string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	JSON   bool
	ToFile bool
}

// Config is the resolved ftops configuration
type Config struct {
	ComposeFile string
	Service     string
	LogDir      string
	API         APIConfig
	Monitor     MonitorConfig
	Store       StoreConfig
	Log         LogConfig
}

// SetDefaults registers default values on a viper instance
func SetDefaults(v *viper.Viper) {
	v.SetDefault("compose_file", DefaultComposeFile)
	v.SetDefault("service", DefaultService)
	v.SetDefault("log_dir", DefaultLogDir)

	v.SetDefault("api.url", DefaultAPIURL)
	v.SetDefault("api.username", "freqtrade")
	v.SetDefault("api.password", "freqtrade")

	v.SetDefault("monitor.pairs", DefaultPairs)
	v.SetDefault("monitor.timeframe", DefaultTimeframe)
	v.SetDefault("monitor.interval", "60s")
	v.SetDefault("monitor.candle_limit", 100)
	v.SetDefault("monitor.webhook_url", DefaultWebhookURL)
	v.SetDefault("monitor.metrics_listen", "127.0.0.1:9191")
	v.SetDefault("monitor.mock", false)

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "user_data/ftops.db")
	v.SetDefault("store.dsn", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.to_file", true)
}

// Load reads the resolved configuration out of a viper instance
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ComposeFile: v.GetString("compose_file"),
		Service:     v.GetString("service"),
		LogDir:      v.GetString("log_dir"),
		API: APIConfig{
			URL:      v.GetString("api.url"),
			Username: v.GetString("api.username"),
			Password: v.GetString("api.password"),
		},
		Monitor: MonitorConfig{
			Pairs:         v.GetStringSlice("monitor.pairs"),
			Timeframe:     v.GetString("monitor.timeframe"),
			Interval:      v.GetDuration("monitor.interval"),
			CandleLimit:   v.GetInt("monitor.candle_limit"),
			WebhookURL:    v.GetString("monitor.webhook_url"),
			MetricsListen: v.GetString("monitor.metrics_listen"),
			Mock:          v.GetBool("monitor.mock"),
		},
		Store: StoreConfig{
			Driver: v.GetString("store.driver"),
			Path:   v.GetString("store.path"),
			DSN:    v.GetString("store.dsn"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			JSON:   v.GetBool("log.json"),
			ToFile: v.GetBool("log.to_file"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values that can never work
func (c *Config) Validate() error {
	if c.ComposeFile == "" {
		return fmt.Errorf("compose_file must not be empty")
	}
	if c.Service == "" {
		return fmt.Errorf("service must not be empty")
	}
	if c.LogDir == "" {
		return fmt.Errorf("log_dir must not be empty")
	}
	if len(c.Monitor.Pairs) == 0 {
		return fmt.Errorf("monitor.pairs must list at least one pair")
	}
	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("monitor.interval must be positive, got %v", c.Monitor.Interval)
	}
	if c.Monitor.CandleLimit < 50 {
		return fmt.Errorf("monitor.candle_limit must be at least 50 for indicator warm-up, got %d", c.Monitor.CandleLimit)
	}
	if c.Monitor.WebhookURL == "" {
		return fmt.Errorf("monitor.webhook_url must not be empty")
	}
	switch c.Store.Driver {
	case "sqlite", "":
		// path defaulted elsewhere
	case "postgres", "postgresql":
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported store.driver %q", c.Store.Driver)
	}
	return nil
}
