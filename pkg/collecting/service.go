// Package collecting produces system snapshots and ranked process tables
// from a probing.Source. A Service keeps no state between calls: every
// operation reads the OS afresh.
package collecting

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"SystemMonitor/pkg/apperrors"
	"SystemMonitor/pkg/logging"
	"SystemMonitor/pkg/metrics"
	"SystemMonitor/pkg/probing"
)

// Service is the metrics snapshot service. It holds only configuration set
// at construction and is safe for concurrent use.
type Service struct {
	src      probing.Source
	interval time.Duration
	workers  int
	idle     map[string]struct{}
	log      logging.Logger
}

// New builds a Service reading from src.
func New(src probing.Source, opts ...Option) *Service {
	s := &Service{
		src:      src,
		interval: DefaultCPUSampleInterval,
		workers:  1,
		idle:     map[string]struct{}{DefaultIdleProcessName: {}},
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CPUSampleInterval returns the window GetSystemSnapshot blocks for.
func (s *Service) CPUSampleInterval() time.Duration { return s.interval }

// GetSystemSnapshot samples system CPU over the configured interval, then
// reads memory usage and the process count. It blocks for the full
// interval unless ctx is cancelled first, in which case ctx's error is
// returned unwrapped.
func (s *Service) GetSystemSnapshot(ctx context.Context) (metrics.SystemSnapshot, error) {
	start := time.Now()

	cpuPct, err := s.src.CPUPercent(ctx, s.interval)
	if err != nil {
		return metrics.SystemSnapshot{}, apperrors.MetricsUnavailable("cpu percent", err)
	}
	memPct, err := s.src.VirtualMemoryPercent(ctx)
	if err != nil {
		return metrics.SystemSnapshot{}, apperrors.MetricsUnavailable("virtual memory", err)
	}
	pids, err := s.src.ProcessIDs(ctx)
	if err != nil {
		return metrics.SystemSnapshot{}, apperrors.MetricsUnavailable("list processes", err)
	}

	snap := metrics.SystemSnapshot{
		CPUPercent:     metrics.Percent(cpuPct),
		MemoryPercent:  metrics.Percent(memPct),
		TotalProcesses: len(pids),
	}
	s.log.Debug("sampled system",
		logging.Float64("cpu_percent", snap.CPUPercent),
		logging.Float64("memory_percent", snap.MemoryPercent),
		logging.Int("total_processes", snap.TotalProcesses),
		logging.Duration("elapsed", time.Since(start)),
	)
	return snap, nil
}

// Report runs GetSystemSnapshot and ListTopProcesses concurrently and
// stamps the result with the time both finished.
func (s *Service) Report(ctx context.Context, limit int, sortBy metrics.SortKey) (metrics.Report, error) {
	var (
		system    metrics.SystemSnapshot
		processes []metrics.ProcessEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		system, err = s.GetSystemSnapshot(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		processes, err = s.ListTopProcesses(gctx, limit, sortBy)
		return err
	})
	if err := g.Wait(); err != nil {
		return metrics.Report{}, err
	}

	return metrics.Report{
		SampledAt: time.Now(),
		SortBy:    sortBy,
		System:    system,
		Processes: processes,
	}, nil
}
