package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"SystemMonitor/pkg/apperrors"
)

// override ties one setting to its SYSMON_* variable and its CLI flag.
// apply parses an environment value into dst; take copies the field from a
// Config the flag parser already filled in.
type override struct {
	envKey string
	flag   string
	apply  func(dst *Config, v string) error
	take   func(dst, src *Config)
}

var overrides = []override{
	// Server
	{"HOST", "host",
		func(c *Config, v string) error { c.Host = v; return nil },
		func(d, s *Config) { d.Host = s.Host }},
	{"PORT", "port",
		func(c *Config, v string) error { return parseInt(v, &c.Port) },
		func(d, s *Config) { d.Port = s.Port }},
	{"STATIC_DIR", "static-dir",
		func(c *Config, v string) error { c.StaticDir = v; return nil },
		func(d, s *Config) { d.StaticDir = s.StaticDir }},
	{"READ_TIMEOUT", "read-timeout",
		func(c *Config, v string) error { return parseDuration(v, &c.ReadTimeout) },
		func(d, s *Config) { d.ReadTimeout = s.ReadTimeout }},
	{"WRITE_TIMEOUT", "write-timeout",
		func(c *Config, v string) error { return parseDuration(v, &c.WriteTimeout) },
		func(d, s *Config) { d.WriteTimeout = s.WriteTimeout }},
	{"SHUTDOWN_TIMEOUT", "shutdown-timeout",
		func(c *Config, v string) error { return parseDuration(v, &c.ShutdownTimeout) },
		func(d, s *Config) { d.ShutdownTimeout = s.ShutdownTimeout }},

	// Sampling
	{"CPU_SAMPLE_INTERVAL", "sample-interval",
		func(c *Config, v string) error { return parseDuration(v, &c.CPUSampleInterval) },
		func(d, s *Config) { d.CPUSampleInterval = s.CPUSampleInterval }},
	{"DEFAULT_LIMIT", "limit",
		func(c *Config, v string) error { return parseInt(v, &c.DefaultLimit) },
		func(d, s *Config) { d.DefaultLimit = s.DefaultLimit }},
	{"DEFAULT_SORT_BY", "sort-by",
		func(c *Config, v string) error { c.DefaultSortBy = v; return nil },
		func(d, s *Config) { d.DefaultSortBy = s.DefaultSortBy }},
	{"WORKERS", "workers",
		func(c *Config, v string) error { return parseInt(v, &c.Workers) },
		func(d, s *Config) { d.Workers = s.Workers }},
	{"IDLE_PROCESS_NAMES", "idle-names",
		func(c *Config, v string) error { c.IdleProcessNames = splitList(v); return nil },
		func(d, s *Config) { d.IdleProcessNames = s.IdleProcessNames }},

	// Logging
	{"LOG_LEVEL", "log-level",
		func(c *Config, v string) error { c.LogLevel = strings.ToLower(v); return nil },
		func(d, s *Config) { d.LogLevel = s.LogLevel }},
	{"LOG_FORMAT", "log-format",
		func(c *Config, v string) error { c.LogFormat = strings.ToLower(v); return nil },
		func(d, s *Config) { d.LogFormat = s.LogFormat }},

	// Dashboard and identity
	{"REFRESH_INTERVAL", "refresh",
		func(c *Config, v string) error { return parseDuration(v, &c.RefreshInterval) },
		func(d, s *Config) { d.RefreshInterval = s.RefreshInterval }},
	{"INSTANCE_ID", "instance-id",
		func(c *Config, v string) error { c.InstanceID = v; return nil },
		func(d, s *Config) { d.InstanceID = s.InstanceID }},
}

// Resolve rebuilds c from every configuration layer. c must hold the
// values the flag parser wrote; only flags the user actually set survive
// over the YAML file and the environment. The result is validated.
func (c *Config) Resolve(fs *pflag.FlagSet) error {
	return c.resolve(fs, os.Getenv)
}

func (c *Config) resolve(fs *pflag.FlagSet, getenv func(string) string) error {
	flagged := *c
	merged := New()

	path, required := c.ConfigPath, isFlagSet(fs, "config")
	if !required {
		if v := getenv(EnvPrefix + "CONFIG"); v != "" {
			path, required = v, true
		}
	}
	if err := merged.LoadFile(path, required); err != nil {
		return err
	}

	for _, o := range overrides {
		if isFlagSet(fs, o.flag) {
			o.take(merged, &flagged)
			continue
		}
		if v := getenv(EnvPrefix + o.envKey); v != "" {
			if err := o.apply(merged, v); err != nil {
				return apperrors.NewConfigError("%s%s: %v", EnvPrefix, o.envKey, err)
			}
		}
	}

	merged.ApplyDefaults()
	*c = *merged
	return c.Validate()
}

// isFlagSet checks if a flag was explicitly set on the command line.
func isFlagSet(fs *pflag.FlagSet, name string) bool {
	if fs == nil {
		return false
	}
	return fs.Changed(name)
}

func parseInt(v string, dst *int) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func parseDuration(v string, dst *time.Duration) error {
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

// splitList parses a comma-separated list, dropping empty items.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
