package probing

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// GopsutilSource reads the live host through gopsutil.
type GopsutilSource struct{}

func NewGopsutilSource() *GopsutilSource { return &GopsutilSource{} }

func (s *GopsutilSource) ProcessIDs(ctx context.Context) ([]int32, error) {
	pids, err := process.PidsWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pids: %w", err)
	}
	return pids, nil
}

func (s *GopsutilSource) CPUPercent(ctx context.Context, interval time.Duration) (float64, error) {
	pcts, err := cpu.PercentWithContext(ctx, interval, false)
	if err != nil {
		return 0, fmt.Errorf("cpu percent: %w", err)
	}
	if len(pcts) == 0 {
		return 0, errors.New("cpu percent: no samples")
	}
	return pcts[0], nil
}

func (s *GopsutilSource) VirtualMemoryPercent(ctx context.Context) (float64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("virtual memory: %w", err)
	}
	return vm.UsedPercent, nil
}

func (s *GopsutilSource) LogicalCPUs(ctx context.Context) (int, error) {
	n, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("cpu count: %w", err)
	}
	return n, nil
}

// Process reads name, CPU and memory for pid. The CPU figure is gopsutil's
// lifetime average (CPU time over wall time since start), which needs no
// state carried between calls.
func (s *GopsutilSource) Process(ctx context.Context, pid int32) (RawProcess, bool) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return RawProcess{}, false
	}

	name, err := p.NameWithContext(ctx)
	if err != nil {
		return RawProcess{}, false
	}
	raw := RawProcess{PID: pid, Name: name}

	if v, err := p.CPUPercentWithContext(ctx); err == nil {
		raw.CPUPercent = &v
	} else if exited(err) {
		return RawProcess{}, false
	}

	if v, err := p.MemoryPercentWithContext(ctx); err == nil {
		raw.MemoryPercent = Float(float64(v))
	} else if exited(err) {
		return RawProcess{}, false
	}

	return raw, true
}

func exited(err error) bool {
	return errors.Is(err, process.ErrorProcessNotRunning) || errors.Is(err, fs.ErrNotExist)
}
