// Package config handles configuration loading and validation for the
// Cerberus solver service.
package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the solver service
type Config struct {
	Solver    SolverConfig    `mapstructure:"solver"`
	API       APIConfig       `mapstructure:"api"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	NewRelic  NewRelicConfig  `mapstructure:"newrelic"`
	Profiling ProfilingConfig `mapstructure:"profiling"`
	Log       LogConfig       `mapstructure:"log"`
}

// SolverConfig defines solver pool settings
type SolverConfig struct {
	Threads       uint32        `mapstructure:"threads"`
	Kernel        string        `mapstructure:"kernel"`
	MinDifficulty uint8         `mapstructure:"min_difficulty"`
	MaxDifficulty uint8         `mapstructure:"max_difficulty"`
	SolveTimeout  time.Duration `mapstructure:"solve_timeout"`
	Verify        bool          `mapstructure:"verify"`
}

// APIConfig defines API server settings
type APIConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Bind        string        `mapstructure:"bind"`
	StatsCache  time.Duration `mapstructure:"stats_cache"`
	CORSOrigins []string      `mapstructure:"cors_origins"`
}

// RedisConfig defines Redis connection settings
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	URL      string `mapstructure:"url"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NotifyConfig defines webhook notification settings
type NotifyConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	WebhookURL string `mapstructure:"webhook_url"`
	Name       string `mapstructure:"name"`
}

// NewRelicConfig defines New Relic APM settings
type NewRelicConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	AppName    string `mapstructure:"app_name"`
	LicenseKey string `mapstructure:"license_key"`
}

// ProfilingConfig defines pprof server settings
type ProfilingConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Bind    string `mapstructure:"bind"`
}

// LogConfig defines logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Load reads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/cerberus-solver")
	}

	v.SetEnvPrefix("CERBERUS_SOLVER")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Solver defaults
	v.SetDefault("solver.threads", runtime.NumCPU())
	v.SetDefault("solver.kernel", "quad")
	v.SetDefault("solver.min_difficulty", 1)
	v.SetDefault("solver.max_difficulty", 16)
	v.SetDefault("solver.solve_timeout", "120s")
	v.SetDefault("solver.verify", true)

	// API defaults
	v.SetDefault("api.enabled", true)
	v.SetDefault("api.bind", "0.0.0.0:8080")
	v.SetDefault("api.stats_cache", "10s")
	v.SetDefault("api.cors_origins", []string{"*"})

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.url", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	// Notify defaults
	v.SetDefault("notify.enabled", false)
	v.SetDefault("notify.name", "Cerberus Solver")

	// New Relic defaults
	v.SetDefault("newrelic.enabled", false)
	v.SetDefault("newrelic.app_name", "cerberus-solver")

	// Profiling defaults
	v.SetDefault("profiling.enabled", false)
	v.SetDefault("profiling.bind", "127.0.0.1:6060")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Validate checks configuration for errors
func (c *Config) Validate() error {
	if c.Solver.Threads == 0 {
		return fmt.Errorf("solver.threads must be >= 1")
	}

	if c.Solver.Kernel != "quad" && c.Solver.Kernel != "scalar" {
		return fmt.Errorf("solver.kernel must be quad or scalar")
	}

	if c.Solver.MinDifficulty < 1 || c.Solver.MaxDifficulty > 16 {
		return fmt.Errorf("solver difficulty bounds must be within 1..16")
	}

	if c.Solver.MinDifficulty > c.Solver.MaxDifficulty {
		return fmt.Errorf("solver.min_difficulty must be <= max_difficulty")
	}

	if c.API.Enabled && c.API.Bind == "" {
		return fmt.Errorf("api.bind is required when api is enabled")
	}

	if c.Notify.Enabled && c.Notify.WebhookURL == "" {
		return fmt.Errorf("notify.webhook_url is required when notify is enabled")
	}

	if c.NewRelic.Enabled && c.NewRelic.LicenseKey == "" {
		return fmt.Errorf("newrelic.license_key is required when newrelic is enabled")
	}

	return nil
}
