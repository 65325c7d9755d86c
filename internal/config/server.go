package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds the HTTP wrapper settings loaded from environment variables
type ServerConfig struct {
	Addr           string        `mapstructure:"PAYPLAN_ADDR"`
	RequestTimeout time.Duration `mapstructure:"PAYPLAN_REQUEST_TIMEOUT"`
	LogLevel       string        `mapstructure:"PAYPLAN_LOG_LEVEL"` // debug | info | warn | error
	MaxBodyBytes   int64         `mapstructure:"PAYPLAN_MAX_BODY_BYTES"`
}

// LoadServerConfig reads configuration from environment variables (and an optional .env file)
func LoadServerConfig() (*ServerConfig, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("PAYPLAN_ADDR", ":8080")
	v.SetDefault("PAYPLAN_REQUEST_TIMEOUT", "10s")
	v.SetDefault("PAYPLAN_LOG_LEVEL", "info")
	v.SetDefault("PAYPLAN_MAX_BODY_BYTES", 1<<20)

	// optional .env for local development
	_ = v.ReadInConfig()

	cfg := &ServerConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode server config: %w", err)
	}
	if cfg.Addr == "" {
		return nil, fmt.Errorf("PAYPLAN_ADDR cannot be empty")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("PAYPLAN_REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout)
	}
	if cfg.MaxBodyBytes <= 0 {
		return nil, fmt.Errorf("PAYPLAN_MAX_BODY_BYTES must be positive, got %d", cfg.MaxBodyBytes)
	}
	return cfg, nil
}
