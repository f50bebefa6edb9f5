package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"SystemMonitor/pkg/logging"
	"SystemMonitor/pkg/metrics"
	"SystemMonitor/pkg/viewing"
)

// NewTopCmd creates the top subcommand.
func NewTopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Interactive terminal view of the busiest processes",
		Long: `Show system utilization and the top processes in the terminal,
refreshed every --refresh.

Keys: c/m sort by cpu/memory, +/- change the row count, p pause,
r refresh, ? help, q quit.

Example:
  sysmon top
  sysmon top -n 25 --sort-by memory --refresh 5s`,
		RunE: runTop,
	}

	Cfg.AddSamplingFlags(cmd)
	Cfg.AddTopFlags(cmd)

	return cmd
}

func runTop(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Log lines would tear the full-screen view.
	svc := newService(logging.Nop())
	return viewing.Run(ctx, svc, viewing.Options{
		Limit:   Cfg.DefaultLimit,
		SortBy:  metrics.ParseSortKey(Cfg.DefaultSortBy),
		Refresh: Cfg.RefreshInterval,
		Version: Version,
	})
}
