package config

import (
	"github.com/spf13/cobra"
)

// AddConfigFlag adds the --config flag to every subcommand of cmd.
func (c *Config) AddConfigFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&c.ConfigPath, "config", c.ConfigPath, "Path to YAML config file")
}

// AddLoggingFlags adds logging flags to every subcommand of cmd.
func (c *Config) AddLoggingFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&c.LogFormat, "log-format", c.LogFormat, "Log format (console, json)")
}

// AddServerFlags adds HTTP server flags to a command.
func (c *Config) AddServerFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&c.Host, "host", c.Host, "Address to bind")
	flags.IntVarP(&c.Port, "port", "p", c.Port, "Port to listen on")
	flags.StringVar(&c.StaticDir, "static-dir", c.StaticDir, "Serve dashboard assets from this directory instead of the embedded copy")
	flags.DurationVar(&c.ReadTimeout, "read-timeout", c.ReadTimeout, "HTTP read timeout")
	flags.DurationVar(&c.WriteTimeout, "write-timeout", c.WriteTimeout, "HTTP write timeout (must exceed --sample-interval)")
	flags.DurationVar(&c.ShutdownTimeout, "shutdown-timeout", c.ShutdownTimeout, "Grace period for in-flight requests on shutdown")
	flags.StringVar(&c.InstanceID, "instance-id", c.InstanceID, "Instance identifier (random UUID if empty)")
}

// AddSamplingFlags adds snapshot sampling flags to a command.
func (c *Config) AddSamplingFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.DurationVar(&c.CPUSampleInterval, "sample-interval", c.CPUSampleInterval, "System CPU sampling window")
	flags.IntVarP(&c.DefaultLimit, "limit", "n", c.DefaultLimit, "Number of processes to list")
	flags.StringVarP(&c.DefaultSortBy, "sort-by", "s", c.DefaultSortBy, "Process sort key (cpu, memory)")
	flags.IntVarP(&c.Workers, "workers", "w", c.Workers, "Concurrent per-process readers (0 = sequential)")
	flags.StringSliceVar(&c.IdleProcessNames, "idle-names", c.IdleProcessNames, "Process names excluded as idle pseudo-processes")
}

// AddTopFlags adds terminal dashboard flags to a command.
func (c *Config) AddTopFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&c.RefreshInterval, "refresh", c.RefreshInterval, "Dashboard refresh interval")
}
