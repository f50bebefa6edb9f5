// Package config holds sysmon's runtime configuration. Values are layered:
// built-in defaults, then the YAML file, then SYSMON_* environment
// variables, then flags the user set explicitly.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"SystemMonitor/pkg/apperrors"
)

// Config holds all sysmon configuration options.
type Config struct {
	// Server settings
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	StaticDir       string        `yaml:"static_dir"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// Sampling settings
	CPUSampleInterval time.Duration `yaml:"cpu_sample_interval"`
	DefaultLimit      int           `yaml:"default_limit"`
	DefaultSortBy     string        `yaml:"default_sort_by"`
	Workers           int           `yaml:"workers"`
	IdleProcessNames  []string      `yaml:"idle_process_names"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Terminal dashboard
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	// InstanceID identifies this process in /info and logs.
	InstanceID string `yaml:"instance_id"`

	// ConfigPath is where the YAML file was looked for. Never read from YAML.
	ConfigPath string `yaml:"-"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Host:              DefaultHost,
		Port:              DefaultPort,
		ReadTimeout:       DefaultReadTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		ShutdownTimeout:   DefaultShutdownTimeout,
		CPUSampleInterval: DefaultCPUSampleInterval,
		DefaultLimit:      DefaultLimit,
		DefaultSortBy:     DefaultSortBy,
		IdleProcessNames:  []string{DefaultIdleProcessName},
		LogLevel:          DefaultLogLevel,
		LogFormat:         DefaultLogFormat,
		RefreshInterval:   DefaultRefreshInterval,
		ConfigPath:        DefaultPath(),
	}
}

// DefaultPath returns ~/.sysmon/config.yaml, or a relative config.yaml when
// the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultConfigFile
	}
	return filepath.Join(home, defaultConfigDir, defaultConfigFile)
}

// LoadFile merges the YAML file at path into c. A missing file is an error
// only when required is set.
func (c *Config) LoadFile(path string, required bool) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return apperrors.NewConfigError("reading config %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return apperrors.NewConfigError("parsing config %s: %v", path, err)
	}
	c.ConfigPath = path
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Host == "" {
		return apperrors.NewConfigError("host cannot be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return apperrors.NewConfigError("port must be in 1-65535, got %d", c.Port)
	}
	if c.CPUSampleInterval <= 0 {
		return apperrors.NewConfigError("cpu sample interval must be positive, got %v", c.CPUSampleInterval)
	}
	if c.ReadTimeout <= 0 {
		return apperrors.NewConfigError("read timeout must be positive, got %v", c.ReadTimeout)
	}
	// Every /stats request blocks for one full sample window.
	if c.WriteTimeout <= c.CPUSampleInterval {
		return apperrors.NewConfigError("write timeout (%v) must exceed cpu sample interval (%v)",
			c.WriteTimeout, c.CPUSampleInterval)
	}
	if c.ShutdownTimeout < 0 {
		return apperrors.NewConfigError("shutdown timeout cannot be negative, got %v", c.ShutdownTimeout)
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("workers cannot be negative, got %d", c.Workers)
	}
	if c.DefaultLimit < 0 {
		return apperrors.NewConfigError("default limit cannot be negative, got %d", c.DefaultLimit)
	}
	if !slices.Contains(ValidSortKeys(), c.DefaultSortBy) {
		return apperrors.NewConfigError("invalid sort key: %s (valid: cpu, memory)", c.DefaultSortBy)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return apperrors.NewConfigError("invalid log level: %s", c.LogLevel)
	}
	if !slices.Contains(ValidLogFormats(), c.LogFormat) {
		return apperrors.NewConfigError("invalid log format: %s (valid: console, json)", c.LogFormat)
	}
	if c.RefreshInterval <= 0 {
		return apperrors.NewConfigError("refresh interval must be positive, got %v", c.RefreshInterval)
	}
	return nil
}

// ValidSortKeys returns the accepted default sort keys.
func ValidSortKeys() []string {
	return []string{"cpu", "memory"}
}

// ValidLogFormats returns the supported log output formats.
func ValidLogFormats() []string {
	return []string{"console", "json"}
}

// ApplyDefaults fills in values that have no static default.
func (c *Config) ApplyDefaults() {
	if c.InstanceID == "" {
		c.InstanceID = uuid.NewString()
	}
	if len(c.IdleProcessNames) == 0 {
		c.IdleProcessNames = []string{DefaultIdleProcessName}
	}
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *Config) String() string {
	return fmt.Sprintf("addr=%s interval=%v workers=%d limit=%d sort=%s",
		c.Addr(), c.CPUSampleInterval, c.Workers, c.DefaultLimit, c.DefaultSortBy)
}
