// Package config loads the limiter's runtime settings from the environment
// and turns them into a Redis client and a logger.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
)

// Prefix is prepended to every environment variable name.
const Prefix = "EXCESS_FLOW"

// Config holds the settings read from EXCESS_FLOW_* variables.
type Config struct {
	ConnectionPool    int      `envconfig:"CONNECTION_POOL" default:"100" validate:"gt=0"`
	ConnectionTimeout int      `envconfig:"CONNECTION_TIMEOUT" default:"3" validate:"gt=0"` // seconds
	RedisURL          string   `envconfig:"REDIS_URL" default:"redis://localhost:6379/1" validate:"required"`
	Sentinels         []string `envconfig:"REDIS_SENTINELS" validate:"omitempty,dive,hostname_port"`
	LogLevel          string   `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(Prefix, cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Timeout returns ConnectionTimeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.ConnectionTimeout) * time.Second
}

// NewRedisClient builds the client described by c. When sentinels are
// configured the URL host names the monitored master, e.g.
// redis://mymaster/1.
func NewRedisClient(c *Config) (redis.UniversalClient, error) {
	opts, err := redis.ParseURL(c.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	if len(c.Sentinels) == 0 {
		opts.PoolSize = c.ConnectionPool
		opts.PoolTimeout = c.Timeout()
		opts.DialTimeout = c.Timeout()
		return redis.NewClient(opts), nil
	}

	u, err := url.Parse(c.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewFailoverClient(&redis.FailoverOptions{
		MasterName:    u.Hostname(),
		SentinelAddrs: c.Sentinels,
		Username:      opts.Username,
		Password:      opts.Password,
		DB:            opts.DB,
		PoolSize:      c.ConnectionPool,
		PoolTimeout:   c.Timeout(),
		DialTimeout:   c.Timeout(),
	}), nil
}

// Level maps LogLevel onto slog. Unknown values map to info.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// NewLogger returns a JSON logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: c.Level()}))
}
