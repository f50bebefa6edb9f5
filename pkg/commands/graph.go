package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"SystemMonitor/pkg/exporting"
	"SystemMonitor/pkg/graphing"
	"SystemMonitor/pkg/logging"
	"SystemMonitor/pkg/probing"
)

var (
	graphOutput string
	graphTitle  string
)

// NewGraphCmd creates the graph subcommand.
func NewGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Aliases: []string{"g"},
		Use:     "graph <input-file>",
		Short:   "Render an exported snapshot as an HTML chart",
		Long: `Render a snapshot written by "sysmon snapshot" as an HTML page with
system gauges and a bar chart of the top processes. Host details are read
from the <input>_host.json sidecar when present.

Supported input formats: json, jsonl, csv, tsv, parquet

Example:
  sysmon graph snapshot-20240101-120000.parquet
  sysmon graph snap.csv -o report.html`,
		Args: cobra.ExactArgs(1),
		RunE: runGraph,
	}

	cmd.Flags().StringVarP(&graphOutput, "output", "o", "", "Output HTML file (default <input>_chart.html)")
	cmd.Flags().StringVar(&graphTitle, "title", graphing.DefaultTitle, "Page title")

	return cmd
}

func runGraph(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	outputPath := graphOutput
	if outputPath == "" {
		outputPath = graphing.OutputPath(inputPath)
	}

	rep, err := exporting.LoadReport(inputPath)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", inputPath, err)
	}

	opts := []graphing.Option{graphing.WithTitle(graphTitle)}
	var host probing.Host
	switch err := exporting.ReadStatic(inputPath, "host", &host); {
	case err == nil:
		opts = append(opts, graphing.WithHost(host))
	case !errors.Is(err, fs.ErrNotExist):
		Log.Error("ignoring unreadable host sidecar", err, logging.String("input", inputPath))
	}

	if err := graphing.WriteFile(outputPath, rep, opts...); err != nil {
		return fmt.Errorf("failed to generate chart: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Generated chart: %s\n", outputPath)
	return nil
}
