package probing

import (
	"context"
	"time"
)

// StaticSource is a Source over a fixed, in-memory process table. Two
// calls against the same StaticSource always see identical OS state.
type StaticSource struct {
	SystemCPU     float64
	MemoryPercent float64
	Cores         int

	// Processes are returned by ProcessIDs in slice order.
	Processes []RawProcess
	// Vanished PIDs are enumerated but fail to read, like a process that
	// exits between listing and inspection.
	Vanished map[int32]bool

	PIDsErr   error
	CPUErr    error
	MemoryErr error
	CoresErr  error
}

func (s *StaticSource) ProcessIDs(ctx context.Context) ([]int32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.PIDsErr != nil {
		return nil, s.PIDsErr
	}
	pids := make([]int32, len(s.Processes))
	for i, p := range s.Processes {
		pids[i] = p.PID
	}
	return pids, nil
}

// CPUPercent returns SystemCPU without waiting out the interval, but still
// observes cancellation.
func (s *StaticSource) CPUPercent(ctx context.Context, _ time.Duration) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.CPUErr != nil {
		return 0, s.CPUErr
	}
	return s.SystemCPU, nil
}

func (s *StaticSource) VirtualMemoryPercent(ctx context.Context) (float64, error) {
	if s.MemoryErr != nil {
		return 0, s.MemoryErr
	}
	return s.MemoryPercent, nil
}

func (s *StaticSource) LogicalCPUs(ctx context.Context) (int, error) {
	if s.CoresErr != nil {
		return 0, s.CoresErr
	}
	return s.Cores, nil
}

func (s *StaticSource) Process(ctx context.Context, pid int32) (RawProcess, bool) {
	if s.Vanished[pid] {
		return RawProcess{}, false
	}
	for _, p := range s.Processes {
		if p.PID == pid {
			return p, true
		}
	}
	return RawProcess{}, false
}
