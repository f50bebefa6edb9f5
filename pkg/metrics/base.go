// Package metrics defines the request-scoped values produced by the
// snapshot service and their flat record form used for export.
package metrics

import (
	"math"
	"strconv"
)

// Record is a generic map type for flattened metric rows.
type Record = map[string]interface{}

// SystemSnapshot is a point-in-time view of host-wide utilization.
type SystemSnapshot struct {
	CPUPercent     float64 `json:"cpu_percent"`
	MemoryPercent  float64 `json:"memory_percent"`
	TotalProcesses int     `json:"total_processes"`
}

// ProcessEntry is one ranked row of the process table. CPUPercent is a share
// of total machine capacity (all logical cores), not of a single core.
type ProcessEntry struct {
	PID           int32   `json:"pid"`
	Name          string  `json:"name"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
}

// SortKey selects the column processes are ranked by.
type SortKey string

const (
	SortByCPU    SortKey = "cpu"
	SortByMemory SortKey = "memory"
)

// ParseSortKey maps a query value to a SortKey. Only the exact literal
// "memory" selects memory; everything else ranks by CPU.
func ParseSortKey(s string) SortKey {
	if s == string(SortByMemory) {
		return SortByMemory
	}
	return SortByCPU
}

// Value returns the entry's value for the given key.
func (e ProcessEntry) Value(key SortKey) float64 {
	if key == SortByMemory {
		return e.MemoryPercent
	}
	return e.CPUPercent
}

// Percent clamps v to [0, 100] and rounds it to one decimal place. The
// rounding works on v's exact binary value with ties to even, so 0.25
// becomes 0.2 and 0.35 (stored just below the midpoint) becomes 0.3.
func Percent(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		v = 100
	}
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return rounded
}
