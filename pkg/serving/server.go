// Package serving exposes the snapshot service over HTTP: JSON endpoints for
// system and process metrics, the embedded browser dashboard, a rendered
// chart page and Prometheus metrics.
package serving

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"SystemMonitor/pkg/config"
	"SystemMonitor/pkg/logging"
	"SystemMonitor/pkg/metrics"
	"SystemMonitor/pkg/probing"
)

// SnapshotService is what the HTTP handlers need from the snapshot
// service. *collecting.Service satisfies it.
type SnapshotService interface {
	GetSystemSnapshot(ctx context.Context) (metrics.SystemSnapshot, error)
	ListTopProcesses(ctx context.Context, limit int, sortBy metrics.SortKey) ([]metrics.ProcessEntry, error)
	Report(ctx context.Context, limit int, sortBy metrics.SortKey) (metrics.Report, error)
}

// Server is the HTTP facade. It is built once at startup and holds no
// per-request state.
type Server struct {
	cfg     *config.Config
	svc     SnapshotService
	log     logging.Logger
	metrics *Metrics
	assets  fs.FS
	host    probing.Host
	version string
	started time.Time

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics shares an existing Metrics instead of creating one.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithHost overrides the host description reported by /info.
func WithHost(h probing.Host) Option {
	return func(s *Server) { s.host = h }
}

// WithAssets serves the dashboard from fsys instead of cfg.StaticDir or
// the embedded files.
func WithAssets(fsys fs.FS) Option {
	return func(s *Server) { s.assets = fsys }
}

// New builds a Server. It fails only when cfg.StaticDir is set but does
// not contain a dashboard.
func New(cfg *config.Config, svc SnapshotService, logger logging.Logger, opts ...Option) (*Server, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Server{
		cfg:     cfg,
		svc:     svc,
		log:     logger,
		version: "dev",
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if s.host.Hostname == "" {
		s.host = probing.HostInfo()
	}
	if s.assets == nil {
		assets, err := loadAssets(cfg.StaticDir)
		if err != nil {
			return nil, err
		}
		s.assets = assets
	}
	return s, nil
}

// Metrics returns the server's Prometheus collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// API
	mux.HandleFunc("GET /stats", s.metricsMiddleware("/stats", s.handleStats))
	mux.HandleFunc("GET /processes", s.metricsMiddleware("/processes", s.handleProcesses))
	mux.HandleFunc("GET /health", s.metricsMiddleware("/health", s.handleHealth))
	mux.HandleFunc("GET /info", s.metricsMiddleware("/info", s.handleInfo))
	mux.HandleFunc("GET /chart", s.metricsMiddleware("/chart", s.handleChart))
	mux.Handle("GET /metrics", s.metrics.Handler())

	// Dashboard
	mux.HandleFunc("GET /{$}", s.metricsMiddleware("/", s.handleIndex))
	mux.HandleFunc("GET /favicon.ico", s.metricsMiddleware("/favicon.ico", s.handleFavicon))
	mux.HandleFunc("GET /static/{path...}", s.handleStatic)

	return requestIDMiddleware(s.accessLogMiddleware(securityMiddleware(mux)))
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down,
// giving in-flight requests up to cfg.ShutdownTimeout to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()

	s.log.Info("HTTP server listening",
		logging.String("addr", ln.Addr().String()),
		logging.String("instance_id", s.cfg.InstanceID),
		logging.Duration("cpu_sample_interval", s.cfg.CPUSampleInterval),
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down", logging.Duration("timeout", s.cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
