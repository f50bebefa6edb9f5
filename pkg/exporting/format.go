// Package exporting writes snapshot reports to files and reads them back.
// Formats register themselves by name and extension; callers pick one by
// name or let the output path's extension decide.
package exporting

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"SystemMonitor/pkg/metrics"
)

// Record is a generic map representing a single flattened row.
type Record = metrics.Record

// Format defines the interface for a data format.
type Format interface {
	Name() string
	Extensions() []string
	Reader() Reader
	Writer() Writer
}

// Reader reads records from a file.
type Reader interface {
	Open(path string) error
	Read() ([]Record, error)
	Close() error
}

// Writer writes records to a file. Writers are not safe for concurrent
// use; Init must be called before Write.
type Writer interface {
	Init(path string) error
	Write(record Record) error
	Flush() error
	Close() error
}

// Registry management
var (
	registry    = make(map[string]Format)
	extRegistry = make(map[string]Format)
)

// Register adds a format to the registry.
func Register(f Format) {
	name := strings.ToLower(f.Name())
	registry[name] = f
	for _, ext := range f.Extensions() {
		extRegistry[strings.ToLower(ext)] = f
	}
}

// Get returns a format by name.
func Get(name string) (Format, bool) {
	f, ok := registry[strings.ToLower(name)]
	return f, ok
}

// GetByExtension returns a format by file extension.
func GetByExtension(ext string) (Format, bool) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	f, ok := extRegistry[ext]
	return f, ok
}

// GetByPath returns a format based on the file's extension.
func GetByPath(path string) (Format, bool) {
	return GetByExtension(filepath.Ext(path))
}

// GetExtension returns the primary file extension for a format name, or
// ".json" for unknown names.
func GetExtension(format string) string {
	if f, ok := Get(format); ok {
		return f.Extensions()[0]
	}
	return ".json"
}

// Names returns the registered format names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadRecords loads all records from a file.
func LoadRecords(path string) ([]Record, error) {
	f, ok := GetByPath(path)
	if !ok {
		return nil, fmt.Errorf("unsupported format for file: %s", path)
	}

	reader := f.Reader()
	if err := reader.Open(path); err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	records, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	return records, nil
}

// SaveRecords writes records to a file.
func SaveRecords(path string, records []Record) error {
	f, ok := GetByPath(path)
	if !ok {
		return fmt.Errorf("unsupported format for file: %s", path)
	}

	writer := f.Writer()
	if err := writer.Init(path); err != nil {
		return fmt.Errorf("failed to initialize writer: %w", err)
	}

	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return errors.Join(fmt.Errorf("record %d: %w", i, err), writer.Close())
		}
	}
	return writer.Close()
}

// LoadReport reads a file written by SaveRecords or an Exporter and
// rebuilds the report it holds.
func LoadReport(path string) (metrics.Report, error) {
	records, err := LoadRecords(path)
	if err != nil {
		return metrics.Report{}, err
	}
	rep, err := metrics.ReportFromRecords(records)
	if err != nil {
		return metrics.Report{}, fmt.Errorf("%s: %w", path, err)
	}
	return rep, nil
}

// orderedKeys returns the record's keys with known report columns first,
// in export order, followed by any others sorted by name.
func orderedKeys(record Record) []string {
	keys := make([]string, 0, len(record))
	for _, col := range metrics.Columns {
		if _, ok := record[col]; ok {
			keys = append(keys, col)
		}
	}
	extra := make([]string, 0)
	for k := range record {
		if !slices.Contains(metrics.Columns, k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}
