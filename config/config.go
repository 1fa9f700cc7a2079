// Package config loads the worker configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every setting of the worker.
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	Redis         RedisConfig         `yaml:"redis"`
	Osu           OsuConfig           `yaml:"osu"`
	Queues        QueuesConfig        `yaml:"queues"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig holds the Redis connection used for fetch locking and dedup.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// OsuConfig holds the upstream API credentials and fetch coordination knobs.
type OsuConfig struct {
	BaseURL      string `yaml:"base_url"`
	TokenURL     string `yaml:"token_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`

	RateLimitBudget int           `yaml:"rate_limit_budget"`
	RateLimitWindow time.Duration `yaml:"rate_limit_window"`
	Cooldown        time.Duration `yaml:"cooldown"`

	LockTTL            time.Duration `yaml:"lock_ttl"`
	DedupPendingTTL    time.Duration `yaml:"dedup_pending_ttl"`
	DedupProcessedTTL  time.Duration `yaml:"dedup_processed_ttl"`
	DedupDisabledTypes []string      `yaml:"dedup_disabled_types"`
}

// QueuesConfig maps topic names to subscriber counts.
type QueuesConfig struct {
	Concurrency map[string]int `yaml:"concurrency"`
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
}

// LoadConfig loads the configuration from a YAML file, falling back to
// environment variables when the file is missing. Env vars always win.
func LoadConfig(filename string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filename)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("postgres DSN not set (DATABASE_URL)")
	}
	if cfg.NATS.URL == "" {
		return nil, fmt.Errorf("NATS URL not set (NATS_URL)")
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = n
		}
	}
	if v := os.Getenv("OSU_BASE_URL"); v != "" {
		cfg.Osu.BaseURL = v
	}
	if v := os.Getenv("OSU_TOKEN_URL"); v != "" {
		cfg.Osu.TokenURL = v
	}
	if v := os.Getenv("OSU_CLIENT_ID"); v != "" {
		cfg.Osu.ClientID = v
	}
	if v := os.Getenv("OSU_CLIENT_SECRET"); v != "" {
		cfg.Osu.ClientSecret = v
	}
	if v := os.Getenv("OSU_RATE_LIMIT_BUDGET"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Osu.RateLimitBudget = n
		}
	}
	if v := os.Getenv("OSU_RATE_LIMIT_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Osu.RateLimitWindow = d
		}
	}
	if v := os.Getenv("OSU_COOLDOWN"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Osu.Cooldown = d
		}
	}
	if v := os.Getenv("OSU_DEDUP_DISABLED_TYPES"); v != "" {
		cfg.Osu.DedupDisabledTypes = strings.Split(v, ",")
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Osu.BaseURL == "" {
		cfg.Osu.BaseURL = "https://osu.ppy.sh/api/v2"
	}
	if cfg.Osu.TokenURL == "" {
		cfg.Osu.TokenURL = "https://osu.ppy.sh/oauth/token"
	}
	if cfg.Osu.RateLimitBudget == 0 {
		cfg.Osu.RateLimitBudget = 60
	}
	if cfg.Osu.RateLimitWindow == 0 {
		cfg.Osu.RateLimitWindow = time.Minute
	}
	if cfg.Osu.Cooldown == 0 {
		cfg.Osu.Cooldown = 5 * time.Minute
	}
	if cfg.Osu.LockTTL == 0 {
		cfg.Osu.LockTTL = 30 * time.Second
	}
	if cfg.Osu.DedupPendingTTL == 0 {
		cfg.Osu.DedupPendingTTL = 10 * time.Minute
	}
	if cfg.Osu.DedupProcessedTTL == 0 {
		cfg.Osu.DedupProcessedTTL = time.Minute
	}
	if cfg.Queues.Concurrency == nil {
		cfg.Queues.Concurrency = map[string]int{}
	}
}
