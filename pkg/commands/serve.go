package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"SystemMonitor/pkg/apperrors"
	"SystemMonitor/pkg/serving"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Run the HTTP API and browser dashboard",
		Long: `Run an HTTP server exposing live host metrics.

Endpoints:
  /            Browser dashboard
  /stats       System CPU, memory and process count (JSON)
  /processes   Top processes, ?limit=N&sort_by=cpu|memory (JSON)
  /chart       Top processes as an HTML chart
  /info        Host and instance information (JSON)
  /health      Liveness probe
  /metrics     Prometheus metrics

Example:
  sysmon serve
  sysmon serve --host 0.0.0.0 --port 9090 --workers 8`,
		RunE: runServe,
	}

	Cfg.AddServerFlags(cmd)
	Cfg.AddSamplingFlags(cmd)

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := serving.New(Cfg, newService(Log), Log, serving.WithVersion(Version))
	if err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	return srv.Run(ctx)
}
