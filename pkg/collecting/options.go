package collecting

import (
	"time"

	"SystemMonitor/pkg/logging"
)

// Option configures a Service.
type Option func(*Service)

// WithCPUSampleInterval sets the blocking window for system CPU sampling.
// Non-positive values keep the default.
func WithCPUSampleInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithWorkers bounds concurrent per-process reads. Zero or one reads
// sequentially.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithIdleProcessNames replaces the set of process names treated as the
// idle sentinel.
func WithIdleProcessNames(names ...string) Option {
	return func(s *Service) {
		s.idle = make(map[string]struct{}, len(names))
		for _, n := range names {
			s.idle[n] = struct{}{}
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}
