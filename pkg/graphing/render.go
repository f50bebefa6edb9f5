// Package graphing renders snapshot reports as standalone HTML pages of
// ECharts charts.
package graphing

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/components"

	"SystemMonitor/pkg/metrics"
	"SystemMonitor/pkg/probing"
)

// DefaultTitle is used when no title option is given.
const DefaultTitle = "System Monitor Snapshot"

type pageOptions struct {
	title      string
	host       *probing.Host
	instanceID string
}

// Option customizes a rendered page.
type Option func(*pageOptions)

// WithTitle sets the page and header title.
func WithTitle(title string) Option {
	return func(o *pageOptions) { o.title = title }
}

// WithHost adds host identification to the page header.
func WithHost(h probing.Host) Option {
	return func(o *pageOptions) { o.host = &h }
}

// WithInstanceID adds the serving instance to the page header.
func WithInstanceID(id string) Option {
	return func(o *pageOptions) { o.instanceID = id }
}

type headerData struct {
	Title      string
	SampledAt  time.Time
	InstanceID string
	System     metrics.SystemSnapshot
	Host       *probing.Host
}

// RenderProcesses writes an HTML page with gauges for system CPU and memory
// and a bar chart of the report's processes. The bar chart is omitted when
// the report lists no processes.
func RenderProcesses(w io.Writer, rep metrics.Report, options ...Option) error {
	o := pageOptions{title: DefaultTitle}
	for _, opt := range options {
		opt(&o)
	}

	page := components.NewPage()
	page.PageTitle = o.title
	page.AddCharts(
		gauge("CPU %", rep.System.CPUPercent),
		gauge("Memory %", rep.System.MemoryPercent),
	)
	if len(rep.Processes) > 0 {
		page.AddCharts(processBar(rep))
	}

	var buf strings.Builder
	if err := page.Render(&buf); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}

	var header, head bytes.Buffer
	data := headerData{
		Title:      o.title,
		SampledAt:  rep.SampledAt,
		InstanceID: o.instanceID,
		System:     rep.System,
		Host:       o.host,
	}
	if err := templates.ExecuteTemplate(&header, "header", data); err != nil {
		return fmt.Errorf("failed to execute header template: %w", err)
	}
	for _, name := range []string{"styles", "scripts"} {
		if err := templates.ExecuteTemplate(&head, name, nil); err != nil {
			return fmt.Errorf("failed to execute %s template: %w", name, err)
		}
	}

	html := buf.String()
	html = strings.Replace(html, "<body>", "<body>\n"+header.String(), 1)
	html = strings.Replace(html, "</head>", head.String()+"</head>", 1)

	_, err := io.WriteString(w, html)
	return err
}

// WriteFile renders rep to path.
func WriteFile(path string, rep metrics.Report, options ...Option) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := RenderProcesses(f, rep, options...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// OutputPath derives the chart path for an exported data file:
// dir/name_chart.html.
func OutputPath(inputFile string) string {
	return strings.TrimSuffix(inputFile, filepath.Ext(inputFile)) + "_chart.html"
}
