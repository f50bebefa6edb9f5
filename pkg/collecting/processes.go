package collecting

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"SystemMonitor/pkg/apperrors"
	"SystemMonitor/pkg/logging"
	"SystemMonitor/pkg/metrics"
	"SystemMonitor/pkg/probing"
)

// slot holds one per-pid read. Slots are indexed by enumeration position
// so concurrent reads keep OS order.
type slot struct {
	proc probing.RawProcess
	ok   bool
}

// ListTopProcesses returns up to limit processes ranked descending by
// sortBy. Ties keep OS enumeration order. Processes that exit mid-scan are
// skipped, as is the idle sentinel. A non-positive limit returns an empty
// slice without touching the OS.
func (s *Service) ListTopProcesses(ctx context.Context, limit int, sortBy metrics.SortKey) ([]metrics.ProcessEntry, error) {
	if limit <= 0 {
		return []metrics.ProcessEntry{}, nil
	}
	start := time.Now()

	pids, err := s.src.ProcessIDs(ctx)
	if err != nil {
		return nil, apperrors.MetricsUnavailable("list processes", err)
	}
	cores, err := s.src.LogicalCPUs(ctx)
	if err != nil {
		return nil, apperrors.MetricsUnavailable("logical cpus", err)
	}
	if cores < 1 {
		cores = 1
	}

	slots, err := s.readProcesses(ctx, pids)
	if err != nil {
		return nil, err
	}

	entries := make([]metrics.ProcessEntry, 0, len(slots))
	skipped := 0
	for _, sl := range slots {
		if !sl.ok {
			skipped++
			continue
		}
		if s.isIdle(sl.proc) {
			continue
		}
		entries = append(entries, normalize(sl.proc, cores))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value(sortBy) > entries[j].Value(sortBy)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}

	s.log.Debug("ranked processes",
		logging.Int("enumerated", len(pids)),
		logging.Int("skipped", skipped),
		logging.Int("returned", len(entries)),
		logging.String("sort_by", string(sortBy)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return entries, nil
}

// readProcesses reads every pid, sequentially or on a bounded pool. Only a
// cancelled ctx produces an error.
func (s *Service) readProcesses(ctx context.Context, pids []int32) ([]slot, error) {
	slots := make([]slot, len(pids))

	if s.workers <= 1 {
		for i, pid := range pids {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if pid == idlePID {
				continue
			}
			p, ok := s.src.Process(ctx, pid)
			slots[i] = slot{proc: p, ok: ok}
		}
		return slots, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, pid := range pids {
		if pid == idlePID {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, ok := s.src.Process(gctx, pid)
			slots[i] = slot{proc: p, ok: ok}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slots, ctx.Err()
}

func (s *Service) isIdle(p probing.RawProcess) bool {
	if p.PID == idlePID {
		return true
	}
	_, ok := s.idle[p.Name]
	return ok
}

// normalize converts raw OS figures into a ProcessEntry. CPU is divided
// across logical cores so a fully busy machine reads 100.
func normalize(p probing.RawProcess, cores int) metrics.ProcessEntry {
	var cpuPct, memPct float64
	if p.CPUPercent != nil {
		cpuPct = *p.CPUPercent / float64(cores)
	}
	if p.MemoryPercent != nil {
		memPct = *p.MemoryPercent
	}
	return metrics.ProcessEntry{
		PID:           p.PID,
		Name:          p.Name,
		CPUPercent:    metrics.Percent(cpuPct),
		MemoryPercent: metrics.Percent(memPct),
	}
}
