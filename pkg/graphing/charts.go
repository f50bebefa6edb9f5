package graphing

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"SystemMonitor/pkg/metrics"
)

// processBar charts CPU and memory share for every process in the report,
// in ranking order.
func processBar(rep metrics.Report) *charts.Bar {
	bar := charts.NewBar()

	labels := make([]string, len(rep.Processes))
	cpu := make([]opts.BarData, len(rep.Processes))
	mem := make([]opts.BarData, len(rep.Processes))
	for i, p := range rep.Processes {
		labels[i] = fmt.Sprintf("%s (%d)", p.Name, p.PID)
		cpu[i] = opts.BarData{Value: p.CPUPercent}
		mem[i] = opts.BarData{Value: p.MemoryPercent}
	}

	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Top %d processes", len(rep.Processes)),
			Subtitle: "sorted by " + string(rep.SortBy),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", AxisLabel: &opts.AxisLabel{Rotate: 30}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "%", Max: 100}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px"}),
	)

	bar.SetXAxis(labels).
		AddSeries("CPU %", cpu).
		AddSeries("Memory %", mem)
	return bar
}

// gauge shows one system-wide percentage.
func gauge(title string, value float64) *charts.Gauge {
	g := charts.NewGauge()
	g.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{Width: "420px", Height: "320px"}),
	)
	g.AddSeries(title, []opts.GaugeData{{Name: title, Value: value}})
	return g
}
