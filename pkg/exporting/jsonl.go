package exporting

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// maxLineSize bounds a single JSONL row on read.
const maxLineSize = 1 << 20

func init() {
	Register(jsonlFormat{})
}

// jsonlFormat stores one JSON object per line. Rows stream straight to
// disk, so it suits long-running exports.
type jsonlFormat struct{}

func (jsonlFormat) Name() string         { return "jsonl" }
func (jsonlFormat) Extensions() []string { return []string{".jsonl", ".ndjson"} }
func (jsonlFormat) Reader() Reader       { return &jsonlReader{} }
func (jsonlFormat) Writer() Writer       { return &jsonlWriter{} }

type jsonlReader struct {
	file *os.File
}

func (r *jsonlReader) Open(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	r.file = file
	return nil
}

// Read decodes every non-blank line. A malformed line aborts the read and
// names the line number.
func (r *jsonlReader) Read() ([]Record, error) {
	sc := bufio.NewScanner(r.file)
	sc.Buffer(nil, maxLineSize)

	var records []Record
	for line := 1; sc.Scan(); line++ {
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var record Record
		if err := dec.Decode(&record); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, normalizeNumbers(record))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning: %w", err)
	}
	return records, nil
}

func (r *jsonlReader) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}

type jsonlWriter struct {
	file *os.File
	buf  *bufio.Writer
	enc  *json.Encoder
}

func (w *jsonlWriter) Init(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	w.file = file
	w.buf = bufio.NewWriter(file)
	w.enc = json.NewEncoder(w.buf)
	return nil
}

// Write appends record and its trailing newline.
func (w *jsonlWriter) Write(record Record) error {
	if err := w.enc.Encode(record); err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	return nil
}

func (w *jsonlWriter) Flush() error {
	return w.buf.Flush()
}

func (w *jsonlWriter) Close() error {
	return errors.Join(w.Flush(), w.file.Close())
}

// normalizeNumbers replaces json.Number values with int64 when the literal
// is integral and float64 otherwise, matching what the other formats
// return.
func normalizeNumbers(record Record) Record {
	for k, v := range record {
		n, ok := v.(json.Number)
		if !ok {
			continue
		}
		if i, err := n.Int64(); err == nil {
			record[k] = i
		} else if f, err := n.Float64(); err == nil {
			record[k] = f
		}
	}
	return record
}
