// Package config loads server configuration: compiled-in defaults, an
// optional TOML file layered over them, then environment overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full server configuration
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Storage    StorageConfig    `toml:"storage"`
	Simulation SimulationConfig `toml:"simulation"`
	Auth       AuthConfig       `toml:"auth"`
	Log        LogConfig        `toml:"log"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Port               int `toml:"port"`
	ReadTimeoutSeconds int `toml:"read_timeout_seconds"`
	ShutdownSeconds    int `toml:"shutdown_seconds"`
}

// StorageConfig selects and tunes the storage backend
type StorageConfig struct {
	// Type is "memory" or "redis"
	Type  string      `toml:"type"`
	Redis RedisConfig `toml:"redis"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	URL          string `toml:"url"`
	PoolSize     int    `toml:"pool_size"`
	MinIdleConns int    `toml:"min_idle_conns"`
}

// SimulationConfig holds tick loop settings
type SimulationConfig struct {
	TickSeconds int `toml:"tick_seconds"`
	MarketEvery int `toml:"market_every"`
}

// AuthConfig holds gate settings
type AuthConfig struct {
	SessionHours    int     `toml:"session_hours"`
	MinPasswordLen  int     `toml:"min_password_len"`
	StartingBalance float64 `toml:"starting_balance"`
	StartingTap     float64 `toml:"starting_tap"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

// Default returns the configuration used when no file and no environment
// overrides are present
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:               8080,
			ReadTimeoutSeconds: 15,
			ShutdownSeconds:    30,
		},
		Storage: StorageConfig{
			Type: "memory",
			Redis: RedisConfig{
				URL:          "redis://localhost:6379",
				PoolSize:     10,
				MinIdleConns: 2,
			},
		},
		Simulation: SimulationConfig{
			TickSeconds: 1,
			MarketEvery: 30,
		},
		Auth: AuthConfig{
			SessionHours:    24,
			MinPasswordLen:  6,
			StartingBalance: 100,
			StartingTap:     1,
		},
		Log: LogConfig{
			Level:  slog.LevelInfo,
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, the TOML file at path (if
// path is non-empty), and finally the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config: %w", err)
		}
		defer file.Close()

		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv layers environment overrides on top of whatever the file set
func applyEnv(cfg *Config) {
	if v, ok := envInt("PORT"); ok {
		cfg.Server.Port = v
	}
	if v := envString("STORAGE_TYPE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := envString("REDIS_URL"); v != "" {
		cfg.Storage.Redis.URL = v
	}
	if v := envString("LOG_LEVEL"); v != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(v)); err == nil {
			cfg.Log.Level = level
		}
	}
	if v, ok := envInt("TICK_SECONDS"); ok {
		cfg.Simulation.TickSeconds = v
	}
}

// Validate rejects configurations the server cannot run with
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Storage.Type != "memory" && c.Storage.Type != "redis" {
		return fmt.Errorf("storage.type must be 'memory' or 'redis', got %q", c.Storage.Type)
	}
	if c.Storage.Type == "redis" && c.Storage.Redis.URL == "" {
		return fmt.Errorf("storage.redis.url required for redis storage")
	}
	if c.Simulation.TickSeconds < 1 {
		return fmt.Errorf("simulation.tick_seconds must be at least 1, got %d", c.Simulation.TickSeconds)
	}
	if c.Simulation.MarketEvery < 1 {
		return fmt.Errorf("simulation.market_every must be at least 1, got %d", c.Simulation.MarketEvery)
	}
	if c.Auth.SessionHours < 1 {
		return fmt.Errorf("auth.session_hours must be at least 1, got %d", c.Auth.SessionHours)
	}
	if c.Auth.StartingBalance < 0 {
		return fmt.Errorf("auth.starting_balance must not be negative")
	}
	return nil
}

// TickPeriod returns the simulation tick period as a duration
func (c *Config) TickPeriod() time.Duration {
	return time.Duration(c.Simulation.TickSeconds) * time.Second
}

// SessionDuration returns the session lifetime as a duration
func (c *Config) SessionDuration() time.Duration {
	return time.Duration(c.Auth.SessionHours) * time.Hour
}

func envString(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envInt(key string) (int, bool) {
	v := envString(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
