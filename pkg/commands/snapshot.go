package commands

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"SystemMonitor/pkg/exporting"
	"SystemMonitor/pkg/graphing"
	"SystemMonitor/pkg/logging"
	"SystemMonitor/pkg/metrics"
	"SystemMonitor/pkg/probing"
)

var (
	snapshotOutput string
	snapshotFormat string
	snapshotChart  bool
)

// NewSnapshotCmd creates the snapshot subcommand.
func NewSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"ss"},
		Short:   "Take one sample and print or export it",
		Long: `Take a single system snapshot together with the top processes.

Without --output or --format the report is printed to stdout as JSON.
Otherwise one row per process is written in the chosen format, with the
system columns repeated on every row, plus a <output>_host.json sidecar.

Formats: ` + strings.Join(exporting.Names(), ", ") + `

Example:
  sysmon snapshot -n 5 --sort-by memory
  sysmon snapshot -o snap.parquet --chart
  sysmon snapshot --format csv`,
		RunE: runSnapshot,
	}

	Cfg.AddSamplingFlags(cmd)

	cmd.Flags().StringVarP(&snapshotOutput, "output", "o", "", "Output file (format from extension unless --format is set)")
	cmd.Flags().StringVarP(&snapshotFormat, "format", "f", "", "Output format; without --output writes snapshot-<time>.<ext> here")
	cmd.Flags().BoolVar(&snapshotChart, "chart", false, "Also render an HTML chart next to the output")

	return cmd
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := newService(Log)
	sp := newSpinner(cmd.ErrOrStderr())
	sp.UpdateSuffix(fmt.Sprintf(" sampling for %s", Cfg.CPUSampleInterval))
	sp.Start()
	rep, err := svc.Report(ctx, Cfg.DefaultLimit, metrics.ParseSortKey(Cfg.DefaultSortBy))
	sp.Stop()
	if err != nil {
		return err
	}
	host := probing.HostInfo()

	path := snapshotOutput
	if path == "" && snapshotFormat != "" {
		path = exporting.OutputPath(".", "snapshot", snapshotFormat, rep.SampledAt)
	}

	if path == "" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	} else if err := exportSnapshot(cmd, path, rep, host); err != nil {
		return err
	}

	if snapshotChart {
		chartPath := graphing.OutputPath(path)
		if path == "" {
			chartPath = graphing.OutputPath(exporting.OutputPath(".", "snapshot", "json", rep.SampledAt))
		}
		err := graphing.WriteFile(chartPath, rep,
			graphing.WithHost(host),
			graphing.WithInstanceID(Cfg.InstanceID),
		)
		if err != nil {
			return fmt.Errorf("failed to render chart: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Chart written to: %s\n", chartPath)
	}
	return nil
}

func exportSnapshot(cmd *cobra.Command, path string, rep metrics.Report, host probing.Host) error {
	exp, err := exporting.NewExporter(path, snapshotFormat)
	if err != nil {
		return err
	}
	if err := exp.WriteReport(rep); err != nil {
		exp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := exp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	sidecar, err := exp.WriteStatic("host", host)
	if err != nil {
		return fmt.Errorf("failed to write host info: %w", err)
	}

	Log.Debug("snapshot exported",
		logging.String("path", path),
		logging.String("format", exp.Format()),
		logging.Int("rows", exp.Rows()),
	)
	fmt.Fprintf(cmd.ErrOrStderr(), "Written to: %s (%s)\n", path, sidecar)
	return nil
}
