package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Database struct {
		Path        string        `yaml:"path"`
		BusyTimeout time.Duration `yaml:"busy_timeout"`
	} `yaml:"database"`
	Cache struct {
		Backend string `yaml:"backend"` // memory, redis or layered
		MaxSize int    `yaml:"max_size"`
		Redis   struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Prices struct {
		QuoteURL     string        `yaml:"quote_url"`
		HistoryURL   string        `yaml:"history_url"`
		Locale       string        `yaml:"locale"`
		Currency     string        `yaml:"currency"`
		MaxRetries   int           `yaml:"max_retries"`
		QuoteTTL     time.Duration `yaml:"quote_ttl"`
		HistoryTTL   time.Duration `yaml:"history_ttl"`
		FetchTimeout time.Duration `yaml:"fetch_timeout"`
	} `yaml:"prices"`
	Analytics struct {
		RiskFreeRate float64 `yaml:"risk_free_rate"`
	} `yaml:"analytics"`
	Alerts struct {
		Enabled       bool          `yaml:"enabled"`
		CheckSchedule string        `yaml:"check_schedule"`
		RetriggerWait time.Duration `yaml:"retrigger_wait"`
	} `yaml:"alerts"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("RISK_FREE_RATE"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil {
			c.Analytics.RiskFreeRate = r
		}
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = 5 * time.Second
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.MaxSize == 0 {
		c.Cache.MaxSize = 1000
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "etfmanager"
	}
	if c.Prices.QuoteURL == "" {
		c.Prices.QuoteURL = "https://www.google.com/finance/quote"
	}
	if c.Prices.HistoryURL == "" {
		c.Prices.HistoryURL = "https://www.justetf.com/api/etfs"
	}
	if c.Prices.Locale == "" {
		c.Prices.Locale = "it"
	}
	if c.Prices.Currency == "" {
		c.Prices.Currency = "EUR"
	}
	if c.Prices.MaxRetries == 0 {
		c.Prices.MaxRetries = 2
	}
	if c.Prices.QuoteTTL == 0 {
		c.Prices.QuoteTTL = 5 * time.Minute
	}
	if c.Prices.HistoryTTL == 0 {
		c.Prices.HistoryTTL = time.Hour
	}
	if c.Prices.FetchTimeout == 0 {
		c.Prices.FetchTimeout = 10 * time.Second
	}
	if c.Analytics.RiskFreeRate == 0 {
		c.Analytics.RiskFreeRate = 0.02
	}
	if c.Alerts.CheckSchedule == "" {
		c.Alerts.CheckSchedule = "@every 15m"
	}
	if c.Alerts.RetriggerWait == 0 {
		c.Alerts.RetriggerWait = 24 * time.Hour
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	switch c.Cache.Backend {
	case "memory", "redis", "layered":
	default:
		return fmt.Errorf("cache.backend must be 'memory', 'redis' or 'layered', got '%s'", c.Cache.Backend)
	}
	if c.Prices.MaxRetries < 0 || c.Prices.MaxRetries > 5 {
		return fmt.Errorf("prices.max_retries must be between 0 and 5")
	}
	return nil
}
