package exporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"SystemMonitor/pkg/metrics"
)

// Exporter writes reports to a single output file in one format.
type Exporter struct {
	path   string
	format string
	writer Writer
	rows   int
}

// NewExporter creates an exporter for path. An empty format is inferred
// from the path's extension.
func NewExporter(path, format string) (*Exporter, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	var (
		f  Format
		ok bool
	)
	if format == "" {
		f, ok = GetByPath(path)
	} else {
		f, ok = Get(format)
	}
	if !ok {
		return nil, fmt.Errorf("unsupported format %q for %s", format, path)
	}

	writer := f.Writer()
	if err := writer.Init(path); err != nil {
		return nil, fmt.Errorf("failed to initialize writer: %w", err)
	}

	return &Exporter{path: path, format: f.Name(), writer: writer}, nil
}

// OutputPath builds dir/prefix-YYYYMMDD-HHMMSS.ext for format.
func OutputPath(dir, prefix, format string, now time.Time) string {
	name := fmt.Sprintf("%s-%s%s", prefix, now.Format("20060102-150405"), GetExtension(format))
	return filepath.Join(dir, name)
}

// Path returns the output file path.
func (e *Exporter) Path() string {
	return e.path
}

// Format returns the output format name.
func (e *Exporter) Format() string {
	return e.format
}

// Rows returns how many records have been written.
func (e *Exporter) Rows() int {
	return e.rows
}

// WriteReport flattens rep and writes its rows.
func (e *Exporter) WriteReport(rep metrics.Report) error {
	return e.WriteBatch(rep.Records())
}

// Write writes a single record.
func (e *Exporter) Write(record Record) error {
	if err := e.writer.Write(record); err != nil {
		return err
	}
	e.rows++
	return nil
}

// WriteBatch writes multiple records.
func (e *Exporter) WriteBatch(records []Record) error {
	for i, r := range records {
		if err := e.Write(r); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return nil
}

// Flush ensures all buffered data is written.
func (e *Exporter) Flush() error {
	return e.writer.Flush()
}

// Close finalizes and closes the exporter.
func (e *Exporter) Close() error {
	return e.writer.Close()
}

// WriteStatic writes v as indented JSON next to the output file, named
// <output>_<suffix>.json. It carries data that does not vary per row, such
// as host information.
func (e *Exporter) WriteStatic(suffix string, v any) (string, error) {
	staticPath := StaticPath(e.path, suffix)
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s: %w", suffix, err)
	}
	if err := os.WriteFile(staticPath, data, 0o644); err != nil {
		return "", err
	}
	return staticPath, nil
}

// StaticPath returns the sidecar file WriteStatic uses for output and suffix.
func StaticPath(output, suffix string) string {
	base := strings.TrimSuffix(output, filepath.Ext(output))
	return base + "_" + suffix + ".json"
}

// ReadStatic decodes the sidecar written by WriteStatic for output into v.
func ReadStatic(output, suffix string, v any) error {
	data, err := os.ReadFile(StaticPath(output, suffix))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
