// Package config handles loading and managing caddie configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/caddie/caddie/pkg/insights"
)

// Config is the top-level configuration for caddie.
type Config struct {
	Environment string          `yaml:"environment"` // development, staging, production
	LogLevel    string          `yaml:"log_level"`
	Policy      PolicyConfig    `yaml:"policy"`
	CopyGuard   CopyGuardConfig `yaml:"copy_guard"`
	Store       StoreConfig     `yaml:"store"`
	Archive     ArchiveConfig   `yaml:"archive"`
	Events      EventsConfig    `yaml:"events"`
	Server      ServerConfig    `yaml:"server"`
}

// PolicyConfig overrides engine thresholds. Unset (nil) fields keep the
// defaults; an explicit 0 is honoured.
type PolicyConfig struct {
	WeaknessThreshold        *float64 `yaml:"weakness_threshold"`
	ResidualFloor            *float64 `yaml:"residual_floor"`
	ResidualRatio            *float64 `yaml:"residual_ratio"`
	SeparationDelta          *float64 `yaml:"separation_delta"`
	ResidualMentionThreshold *float64 `yaml:"residual_mention_threshold"`
}

// CopyGuardConfig controls the copy guard. Enabled nil means "on outside
// production".
type CopyGuardConfig struct {
	Enabled     *bool    `yaml:"enabled"`
	ExtraTokens []string `yaml:"extra_tokens"`
}

// StoreConfig selects the insight store backend.
type StoreConfig struct {
	Driver string `yaml:"driver"` // postgres or sqlite
	DSN    string `yaml:"dsn"`
}

// ArchiveConfig selects where generated payloads are archived.
type ArchiveConfig struct {
	Backend  string `yaml:"backend"` // local, s3, gcs, or empty to disable
	Path     string `yaml:"path"`    // local
	Bucket   string `yaml:"bucket"`  // s3, gcs
	Prefix   string `yaml:"prefix"`
	Region   string `yaml:"region"`   // s3
	Endpoint string `yaml:"endpoint"` // s3-compatible endpoint (MinIO, R2)
}

// EventsConfig controls Kafka publication of generated insights.
type EventsConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// ServerConfig controls the HTTP daemon.
type ServerConfig struct {
	Port   string `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		LogLevel:    "info",
		Store: StoreConfig{
			Driver: "sqlite",
			DSN:    "caddie.db",
		},
		Events: EventsConfig{
			Topic: "insight.generated",
		},
		Server: ServerConfig{
			Port: "8080",
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from CADDIE_* environment variables and
// DATABASE_URL. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	setString := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&c.Environment, "CADDIE_ENV")
	setString(&c.LogLevel, "CADDIE_LOG_LEVEL")
	setString(&c.Store.Driver, "CADDIE_STORE_DRIVER")
	setString(&c.Store.DSN, "CADDIE_STORE_DSN")
	if v := getenv("DATABASE_URL"); v != "" {
		c.Store.Driver = "postgres"
		c.Store.DSN = v
	}
	setString(&c.Archive.Backend, "CADDIE_ARCHIVE_BACKEND")
	setString(&c.Archive.Path, "CADDIE_ARCHIVE_PATH")
	setString(&c.Archive.Bucket, "CADDIE_ARCHIVE_BUCKET")
	setString(&c.Archive.Region, "CADDIE_ARCHIVE_REGION")
	setString(&c.Archive.Endpoint, "CADDIE_ARCHIVE_ENDPOINT")
	if v := getenv("CADDIE_KAFKA_BROKERS"); v != "" {
		c.Events.Enabled = true
		c.Events.Brokers = strings.Split(v, ",")
	}
	setString(&c.Events.Topic, "CADDIE_KAFKA_TOPIC")
	setString(&c.Server.Port, "PORT")
	setString(&c.Server.APIKey, "CADDIE_API_KEY")
	if v := getenv("CADDIE_COPY_GUARD"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.CopyGuard.Enabled = &b
		}
	}
}

// Thresholds returns the engine thresholds with configured overrides applied.
func (c *Config) Thresholds() insights.Thresholds {
	th := insights.Defaults()
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	p := c.Policy
	set(&th.WeaknessThreshold, p.WeaknessThreshold)
	set(&th.ResidualFloor, p.ResidualFloor)
	set(&th.ResidualRatio, p.ResidualRatio)
	set(&th.SeparationDelta, p.SeparationDelta)
	set(&th.ResidualMentionThreshold, p.ResidualMentionThreshold)
	return th
}

// CopyGuardEnabled reports whether rendered copy should be checked. Unless
// set explicitly the guard runs everywhere except production.
func (c *Config) CopyGuardEnabled() bool {
	if c.CopyGuard.Enabled != nil {
		return *c.CopyGuard.Enabled
	}
	return c.Environment != "production"
}

// NewCopyGuard builds the guard described by the config.
func (c *Config) NewCopyGuard() *insights.CopyGuard {
	g := insights.NewCopyGuard(c.CopyGuardEnabled())
	if len(c.CopyGuard.ExtraTokens) > 0 {
		g.Banned = append(append([]string{}, g.Banned...), c.CopyGuard.ExtraTokens...)
	}
	return g
}

// FindConfigFile looks for .caddie/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".caddie", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// CacheDir returns the per-user directory for local caddie data.
// Uses ~/.cache/caddie/ and falls back to the temp dir without a home.
func CacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".cache", "caddie")
}

// ArchiveDir returns the default local archive directory.
func ArchiveDir() string {
	return filepath.Join(CacheDir(), "archive")
}
