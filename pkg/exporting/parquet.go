package exporting

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/parquet-go/parquet-go"

	"SystemMonitor/pkg/metrics"
)

const ParquetBatchSize = 1000

func init() {
	Register(&ParquetFormat{})
}

// ParquetFormat handles Parquet files.
type ParquetFormat struct{}

func (f *ParquetFormat) Name() string         { return "parquet" }
func (f *ParquetFormat) Extensions() []string { return []string{".parquet"} }
func (f *ParquetFormat) Reader() Reader       { return &ParquetReader{} }
func (f *ParquetFormat) Writer() Writer       { return &ParquetWriter{} }

// columnKind is the physical type a column is stored as. It is fixed by
// the first record written.
type columnKind int

const (
	kindString columnKind = iota
	kindInt64
	kindDouble
	kindBool
)

func kindOf(v interface{}) columnKind {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return kindInt64
	case float32, float64:
		return kindDouble
	case bool:
		return kindBool
	default:
		return kindString
	}
}

func (k columnKind) node() parquet.Node {
	switch k {
	case kindInt64:
		return parquet.Optional(parquet.Int(64))
	case kindDouble:
		return parquet.Optional(parquet.Leaf(parquet.DoubleType))
	case kindBool:
		return parquet.Optional(parquet.Leaf(parquet.BooleanType))
	default:
		return parquet.Optional(parquet.String())
	}
}

// value converts v to k's physical type. Values that cannot be converted
// are stored as null.
func (k columnKind) value(v interface{}) parquet.Value {
	switch k {
	case kindInt64:
		if n, ok := metrics.AsInt64(v); ok {
			return parquet.Int64Value(n)
		}
	case kindDouble:
		if f, ok := metrics.AsFloat64(v); ok {
			return parquet.DoubleValue(f)
		}
	case kindBool:
		if b, ok := v.(bool); ok {
			return parquet.BooleanValue(b)
		}
	default:
		return parquet.ByteArrayValue([]byte(formatValue(v)))
	}
	return parquet.NullValue()
}

// ParquetReader reads Parquet files.
type ParquetReader struct {
	file  *os.File
	pfile *parquet.File
}

func (r *ParquetReader) Open(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to open parquet file: %w", err)
	}
	r.file = file
	r.pfile = pf
	return nil
}

func (r *ParquetReader) Read() ([]Record, error) {
	if r.pfile == nil {
		return nil, fmt.Errorf("reader not initialized")
	}

	var names []string
	for _, f := range r.pfile.Schema().Fields() {
		names = append(names, f.Name())
	}

	reader := parquet.NewReader(r.pfile)
	defer reader.Close()

	records := make([]Record, 0, r.pfile.NumRows())
	rows := make([]parquet.Row, 128)
	for {
		n, err := reader.ReadRows(rows)
		for _, row := range rows[:n] {
			records = append(records, rowToRecord(row, names))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read rows: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return records, nil
}

func rowToRecord(row parquet.Row, names []string) Record {
	record := make(Record, len(names))
	for _, v := range row {
		col := v.Column()
		if v.IsNull() || col < 0 || col >= len(names) {
			continue
		}
		switch v.Kind() {
		case parquet.Boolean:
			record[names[col]] = v.Boolean()
		case parquet.Int32:
			record[names[col]] = int64(v.Int32())
		case parquet.Int64:
			record[names[col]] = v.Int64()
		case parquet.Float:
			record[names[col]] = float64(v.Float())
		case parquet.Double:
			record[names[col]] = v.Double()
		default:
			record[names[col]] = string(v.ByteArray())
		}
	}
	return record
}

func (r *ParquetReader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// ParquetWriter writes Parquet files using the Row API. The file and its
// schema are created on the first record.
type ParquetWriter struct {
	path    string
	file    *os.File
	writer  *parquet.Writer
	columns []string
	kinds   []columnKind
	buffer  []parquet.Row
}

func (w *ParquetWriter) Init(path string) error {
	w.path = path
	w.buffer = make([]parquet.Row, 0, ParquetBatchSize)
	return nil
}

func (w *ParquetWriter) open(record Record) error {
	// parquet.Group lays out leaves by name, so row values must follow the
	// same sorted order.
	w.columns = make([]string, 0, len(record))
	for k := range record {
		w.columns = append(w.columns, k)
	}
	sort.Strings(w.columns)

	group := make(parquet.Group, len(w.columns))
	w.kinds = make([]columnKind, len(w.columns))
	for i, name := range w.columns {
		w.kinds[i] = kindOf(record[name])
		group[name] = w.kinds[i].node()
	}

	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	w.file = file
	w.writer = parquet.NewWriter(file, parquet.NewSchema("report", group),
		parquet.Compression(&parquet.Snappy),
	)
	return nil
}

func (w *ParquetWriter) toRow(record Record) parquet.Row {
	row := make(parquet.Row, len(w.columns))
	for i, name := range w.columns {
		v := parquet.NullValue()
		if val, ok := record[name]; ok && val != nil {
			v = w.kinds[i].value(val)
		}
		if v.IsNull() {
			row[i] = v.Level(0, 0, i)
		} else {
			row[i] = v.Level(0, 1, i)
		}
	}
	return row
}

func (w *ParquetWriter) Write(record Record) error {
	if w.writer == nil {
		if err := w.open(record); err != nil {
			return err
		}
	}

	w.buffer = append(w.buffer, w.toRow(record))
	if len(w.buffer) >= ParquetBatchSize {
		return w.flushBuffer()
	}
	return nil
}

func (w *ParquetWriter) flushBuffer() error {
	if len(w.buffer) == 0 || w.writer == nil {
		return nil
	}
	if _, err := w.writer.WriteRows(w.buffer); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	w.buffer = w.buffer[:0]
	return nil
}

func (w *ParquetWriter) Flush() error {
	if err := w.flushBuffer(); err != nil {
		return err
	}
	if w.writer != nil {
		return w.writer.Flush()
	}
	return nil
}

func (w *ParquetWriter) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}
	if w.writer != nil {
		if err := w.writer.Close(); err != nil {
			return err
		}
	}
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}
