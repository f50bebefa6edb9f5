// Package commands provides the sysmon command line.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"SystemMonitor/pkg/apperrors"
	"SystemMonitor/pkg/collecting"
	"SystemMonitor/pkg/config"
	"SystemMonitor/pkg/logging"
	"SystemMonitor/pkg/probing"
)

// Version is stamped at build time with -ldflags "-X SystemMonitor/pkg/commands.Version=...".
var Version = "dev"

var (
	// Cfg is the configuration shared by all subcommands. It is resolved
	// from every layer before a subcommand runs.
	Cfg = config.New()

	// Log is the application logger, built from Cfg once it is resolved.
	Log logging.Logger = logging.Nop()
)

// newSource returns the OS metrics source. Tests swap it for a fixture.
var newSource = func() probing.Source {
	return probing.NewGopsutilSource()
}

// NewRootCmd creates the root command with all subcommands.
func NewRootCmd() *cobra.Command {
	Cfg = config.New()

	root := &cobra.Command{
		Use:   "sysmon",
		Short: "Host CPU, memory and process monitor",
		Long: `sysmon reports system-wide CPU and memory utilization and the busiest
processes on this host. Every request takes a fresh sample; nothing is stored.

Commands:
  serve      Run the HTTP API and browser dashboard
  snapshot   Take one sample and print or export it
  graph      Render an exported snapshot as an HTML chart
  top        Interactive terminal view
  version    Print version information

Configuration is read from ~/.sysmon/config.yaml (or --config), then
SYSMON_* environment variables, then flags.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	Cfg.AddConfigFlag(root)
	Cfg.AddLoggingFlags(root)

	root.AddCommand(
		NewServeCmd(),
		NewSnapshotCmd(),
		NewGraphCmd(),
		NewTopCmd(),
		NewVersionCmd(),
	)

	return root
}

// setup resolves the configuration layers and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	if err := Cfg.Resolve(cmd.Flags()); err != nil {
		return err
	}
	logger, err := logging.New(cmd.ErrOrStderr(), Cfg.LogLevel, Cfg.LogFormat)
	if err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	Log = logger
	Log.Debug("configuration resolved", logging.String("config", Cfg.String()))
	return nil
}

// newService builds the snapshot service from the resolved configuration.
func newService(logger logging.Logger) *collecting.Service {
	return collecting.New(newSource(),
		collecting.WithCPUSampleInterval(Cfg.CPUSampleInterval),
		collecting.WithWorkers(Cfg.Workers),
		collecting.WithIdleProcessNames(Cfg.IdleProcessNames...),
		collecting.WithLogger(logger),
	)
}

// Execute runs the root command and returns its error for exit code mapping.
func Execute() error {
	err := NewRootCmd().ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}
