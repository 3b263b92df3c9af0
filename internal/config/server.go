package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds everything the HTTP server needs to run.
type ServerConfig struct {
	ListenAddr      string        `mapstructure:"listen_addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	RateLimit  int           `mapstructure:"rate_limit"`
	RateWindow time.Duration `mapstructure:"rate_window"`

	RedisAddr string        `mapstructure:"redis_addr"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`

	PolicyFile string `mapstructure:"policy_file"`

	LogLevel    string `mapstructure:"log_level"`
	LogFile     string `mapstructure:"log_file"`
	Development bool   `mapstructure:"development"`
}

const (
	DefaultListenAddr      = ":8080"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultRateLimit       = 60
	DefaultRateWindow      = time.Minute
	DefaultCacheTTL        = 10 * time.Minute
	DefaultLogLevel        = "info"
)

// LoadServerConfig reads the server configuration from the given file,
// falling back to defaults for anything unset. Environment variables with the
// RENTVSBUY_ prefix override file values. An empty path loads pure defaults.
func LoadServerConfig(path string) (*ServerConfig, error) {
	v := viper.New()

	defaults := map[string]interface{}{
		"listen_addr":      DefaultListenAddr,
		"read_timeout":     DefaultReadTimeout,
		"write_timeout":    DefaultWriteTimeout,
		"idle_timeout":     DefaultIdleTimeout,
		"shutdown_timeout": DefaultShutdownTimeout,
		"rate_limit":       DefaultRateLimit,
		"rate_window":      DefaultRateWindow,
		"cache_ttl":        DefaultCacheTTL,
		"log_level":        DefaultLogLevel,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("RENTVSBUY")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, validateServerConfig(&cfg)
}

func validateServerConfig(cfg *ServerConfig) error {
	if cfg.ListenAddr == "" {
		return errors.New("listen_addr must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return errors.New("server timeouts must be positive")
	}
	if cfg.ShutdownTimeout <= 0 {
		return errors.New("shutdown_timeout must be positive")
	}
	if cfg.RateLimit <= 0 {
		return errors.New("rate_limit must be positive")
	}
	if cfg.RateWindow <= 0 {
		return errors.New("rate_window must be positive")
	}
	if cfg.CacheTTL < 0 {
		return errors.New("cache_ttl cannot be negative")
	}
	return nil
}
