package config

import "time"

// Default configuration values.
const (
	DefaultHost              = "127.0.0.1"
	DefaultPort              = 8000
	DefaultCPUSampleInterval = 500 * time.Millisecond
	DefaultLimit             = 10
	DefaultSortBy            = "cpu"
	DefaultReadTimeout       = 10 * time.Second
	DefaultWriteTimeout      = 30 * time.Second
	DefaultShutdownTimeout   = 5 * time.Second
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "console"
	DefaultRefreshInterval   = 2 * time.Second
	DefaultIdleProcessName   = "System Idle Process"

	// EnvPrefix is prepended to every environment override key.
	EnvPrefix = "SYSMON_"

	defaultConfigDir  = ".sysmon"
	defaultConfigFile = "config.yaml"
)
