package exporting

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

func init() {
	Register(delimitedFormat{name: "csv", ext: ".csv", sep: ','})
	Register(delimitedFormat{name: "tsv", ext: ".tsv", sep: '\t'})
}

// delimitedFormat covers CSV and TSV; only the separator differs.
type delimitedFormat struct {
	name string
	ext  string
	sep  rune
}

func (f delimitedFormat) Name() string         { return f.name }
func (f delimitedFormat) Extensions() []string { return []string{f.ext} }
func (f delimitedFormat) Reader() Reader       { return &delimitedReader{sep: f.sep} }
func (f delimitedFormat) Writer() Writer       { return &delimitedWriter{sep: f.sep} }

// delimitedReader loads a header row followed by data rows. Cell types
// are recovered with parseCell since the file itself is untyped.
type delimitedReader struct {
	sep     rune
	file    *os.File
	csv     *csv.Reader
	columns []string
}

func (r *delimitedReader) Open(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	cr := csv.NewReader(file)
	cr.Comma = r.sep
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	columns, err := cr.Read()
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to read header: %w", err)
	}
	r.file = file
	r.csv = cr
	r.columns = append([]string(nil), columns...)
	return nil
}

func (r *delimitedReader) Read() ([]Record, error) {
	var records []Record
	for line := 2; ; line++ {
		cells, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		record := make(Record, len(r.columns))
		for i, cell := range cells {
			if i < len(r.columns) && cell != "" {
				record[r.columns[i]] = parseCell(cell)
			}
		}
		records = append(records, record)
	}
}

func (r *delimitedReader) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}

// parseCell turns a cell back into the value it was written from. Whole
// numbers without a decimal point become int64, other numbers float64.
// Names such as "inf" or "0x10" stay strings.
func parseCell(cell string) any {
	if !strings.ContainsAny(cell, ".eE") {
		if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
			return n
		}
	}
	if !strings.ContainsAny(cell, "nNxX_") {
		if f, err := strconv.ParseFloat(cell, 64); err == nil {
			return f
		}
	}
	if b, err := strconv.ParseBool(cell); err == nil && len(cell) > 1 {
		return b
	}
	return cell
}

// delimitedWriter streams rows. The first record decides the header;
// keys absent from it are not written for later rows.
type delimitedWriter struct {
	sep     rune
	file    *os.File
	csv     *csv.Writer
	columns []string
}

func (w *delimitedWriter) Init(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	w.file = file
	w.csv = csv.NewWriter(file)
	w.csv.Comma = w.sep
	return nil
}

func (w *delimitedWriter) Write(record Record) error {
	if w.columns == nil {
		w.columns = orderedKeys(record)
		if err := w.csv.Write(w.columns); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	cells := make([]string, len(w.columns))
	for i, col := range w.columns {
		cells[i] = formatValue(record[col])
	}
	return w.csv.Write(cells)
}

func (w *delimitedWriter) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}

func (w *delimitedWriter) Close() error {
	return errors.Join(w.Flush(), w.file.Close())
}

// formatValue renders a cell in plain decimal notation so parseCell can
// tell integers from floats on the way back.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	}
	if n, ok := toInt64(v); ok {
		return strconv.FormatInt(n, 10)
	}
	if u, ok := v.(uint64); ok {
		return strconv.FormatUint(u, 10)
	}
	return fmt.Sprint(v)
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	}
	return 0, false
}
