// Package probing reads host metrics from the operating system. Everything
// above it talks to the Source interface, so tests can substitute a fixed
// process table for the live one.
package probing

import (
	"context"
	"time"
)

//go:generate mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks

// Source is the capability the snapshot service needs from the OS.
type Source interface {
	// ProcessIDs lists the live process IDs in OS enumeration order.
	ProcessIDs(ctx context.Context) ([]int32, error)
	// CPUPercent blocks for interval and returns system-wide CPU use over
	// that window, 0..100.
	CPUPercent(ctx context.Context, interval time.Duration) (float64, error)
	// VirtualMemoryPercent returns used/total physical memory, 0..100.
	VirtualMemoryPercent(ctx context.Context) (float64, error)
	// LogicalCPUs returns the number of logical cores.
	LogicalCPUs(ctx context.Context) (int, error)
	// Process reads one process. ok is false when the process exited or
	// could not be opened after it was enumerated.
	Process(ctx context.Context, pid int32) (p RawProcess, ok bool)
}

// RawProcess is a process as the OS reports it, before normalization.
// CPUPercent is scaled 0..100*cores. A nil metric means the OS refused
// that attribute while the process itself was readable.
type RawProcess struct {
	PID           int32
	Name          string
	CPUPercent    *float64
	MemoryPercent *float64
}

// Float returns a pointer to v, for building RawProcess values.
func Float(v float64) *float64 { return &v }
