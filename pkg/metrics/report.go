package metrics

import (
	"fmt"
	"time"
)

// Column names used when a Report is flattened into rows.
const (
	ColSampledAt           = "sampled_at"
	ColSystemCPUPercent    = "system_cpu_percent"
	ColSystemMemoryPercent = "system_memory_percent"
	ColTotalProcesses      = "total_processes"
	ColPID                 = "pid"
	ColName                = "name"
	ColCPUPercent          = "cpu_percent"
	ColMemoryPercent       = "memory_percent"
)

// Columns lists every flattened column in export order.
var Columns = []string{
	ColSampledAt,
	ColSystemCPUPercent,
	ColSystemMemoryPercent,
	ColTotalProcesses,
	ColPID,
	ColName,
	ColCPUPercent,
	ColMemoryPercent,
}

// Report bundles one system snapshot with the ranked process list taken at
// the same moment. It is what the CLI commands print, export and chart.
type Report struct {
	SampledAt time.Time      `json:"sampled_at"`
	SortBy    SortKey        `json:"sort_by"`
	System    SystemSnapshot `json:"system"`
	Processes []ProcessEntry `json:"processes"`
}

// Records flattens the report into one row per process, repeating the
// system columns on every row. A report with no processes yields a single
// row carrying only the system columns so the snapshot is never lost.
func (r Report) Records() []Record {
	base := Record{
		ColSampledAt:           r.SampledAt.UnixMilli(),
		ColSystemCPUPercent:    r.System.CPUPercent,
		ColSystemMemoryPercent: r.System.MemoryPercent,
		ColTotalProcesses:      int64(r.System.TotalProcesses),
	}

	if len(r.Processes) == 0 {
		return []Record{base}
	}

	records := make([]Record, 0, len(r.Processes))
	for _, p := range r.Processes {
		rec := make(Record, len(base)+4)
		for k, v := range base {
			rec[k] = v
		}
		rec[ColPID] = int64(p.PID)
		rec[ColName] = p.Name
		rec[ColCPUPercent] = p.CPUPercent
		rec[ColMemoryPercent] = p.MemoryPercent
		records = append(records, rec)
	}
	return records
}

// ReportFromRecords rebuilds a Report from rows written by Records. Values
// may come back as strings, ints or floats depending on the file format.
func ReportFromRecords(records []Record) (Report, error) {
	var r Report
	if len(records) == 0 {
		return r, fmt.Errorf("no records")
	}

	first := records[0]
	ms, ok := AsInt64(first[ColSampledAt])
	if !ok {
		return r, fmt.Errorf("missing %s column", ColSampledAt)
	}
	r.SampledAt = time.UnixMilli(ms)
	r.System.CPUPercent, _ = AsFloat64(first[ColSystemCPUPercent])
	r.System.MemoryPercent, _ = AsFloat64(first[ColSystemMemoryPercent])
	total, _ := AsInt64(first[ColTotalProcesses])
	r.System.TotalProcesses = int(total)

	r.Processes = make([]ProcessEntry, 0, len(records))
	for i, rec := range records {
		pid, ok := AsInt64(rec[ColPID])
		if !ok {
			if len(records) == 1 {
				break
			}
			return r, fmt.Errorf("record %d: missing %s column", i, ColPID)
		}
		entry := ProcessEntry{PID: int32(pid)}
		if name, ok := rec[ColName].(string); ok {
			entry.Name = name
		} else if rec[ColName] != nil {
			entry.Name = fmt.Sprint(rec[ColName])
		}
		entry.CPUPercent, _ = AsFloat64(rec[ColCPUPercent])
		entry.MemoryPercent, _ = AsFloat64(rec[ColMemoryPercent])
		r.Processes = append(r.Processes, entry)
	}

	return r, nil
}
