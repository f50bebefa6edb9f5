package exporting

import (
	"encoding/json"
	"fmt"
	"os"
)

func init() {
	Register(&JSONFormat{})
}

// JSONFormat stores all records as one indented JSON array. Rows are held
// in memory until Close.
type JSONFormat struct{}

func (f *JSONFormat) Name() string         { return "json" }
func (f *JSONFormat) Extensions() []string { return []string{".json"} }
func (f *JSONFormat) Reader() Reader       { return &JSONReader{} }
func (f *JSONFormat) Writer() Writer       { return &JSONWriter{} }

// JSONReader reads a JSON array of records.
type JSONReader struct {
	file *os.File
}

func (r *JSONReader) Open(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	r.file = file
	return nil
}

func (r *JSONReader) Read() ([]Record, error) {
	dec := json.NewDecoder(r.file)
	dec.UseNumber()
	var records []Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode json: %w", err)
	}
	for _, record := range records {
		normalizeNumbers(record)
	}
	return records, nil
}

func (r *JSONReader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// JSONWriter writes a JSON array of records on Close.
type JSONWriter struct {
	path    string
	records []Record
}

func (w *JSONWriter) Init(path string) error {
	// Create early so an unwritable path fails before sampling.
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	w.path = path
	w.records = make([]Record, 0)
	return file.Close()
}

func (w *JSONWriter) Write(record Record) error {
	w.records = append(w.records, record)
	return nil
}

func (w *JSONWriter) Flush() error {
	data, err := json.MarshalIndent(w.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	return os.WriteFile(w.path, append(data, '\n'), 0o644)
}

func (w *JSONWriter) Close() error {
	return w.Flush()
}
