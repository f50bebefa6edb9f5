package serving

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"SystemMonitor/pkg/apperrors"
	"SystemMonitor/pkg/collecting"
	"SystemMonitor/pkg/config"
	"SystemMonitor/pkg/logging"
	"SystemMonitor/pkg/metrics"
	"SystemMonitor/pkg/probing"
)

func fixtureSource() *probing.StaticSource {
	return &probing.StaticSource{
		SystemCPU:     17.26,
		MemoryPercent: 48.04,
		Cores:         4,
		Processes: []probing.RawProcess{
			{PID: 0, Name: "System Idle Process", CPUPercent: probing.Float(390)},
			{PID: 10, Name: "alpha", CPUPercent: probing.Float(40), MemoryPercent: probing.Float(1.5)},
			{PID: 11, Name: "beta", CPUPercent: probing.Float(200), MemoryPercent: probing.Float(0.5)},
			{PID: 12, Name: "gamma", CPUPercent: probing.Float(4), MemoryPercent: probing.Float(30.04)},
		},
	}
}

type testServer struct {
	*httptest.Server
	srv    *Server
	logBuf *bytes.Buffer
}

func newTestServer(t *testing.T, src probing.Source, mutate ...func(*config.Config)) *testServer {
	t.Helper()
	cfg := config.New()
	cfg.InstanceID = "test-instance"
	for _, m := range mutate {
		m(cfg)
	}
	var logBuf bytes.Buffer
	srv, err := New(cfg, collecting.New(src), logging.NewLogger(&logBuf, "serving"),
		WithVersion("1.2.3"),
		WithHost(probing.Host{Hostname: "testbox", OS: "linux", Arch: "amd64", LogicalCPUs: 4}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testServer{Server: ts, srv: srv, logBuf: &logBuf}
}

func (ts *testServer) get(t *testing.T, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, body
}

func TestStats(t *testing.T) {
	ts := newTestServer(t, fixtureSource())
	resp, body := ts.get(t, "/stats")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	want := map[string]interface{}{"cpu_percent": 17.3, "memory_percent": 48.0, "total_processes": 4.0}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
	if len(got) != 3 {
		t.Errorf("unexpected keys: %v", got)
	}
}

func TestStats_Unavailable(t *testing.T) {
	src := fixtureSource()
	src.CPUErr = errors.New("procfs unreadable")
	ts := newTestServer(t, src)

	resp, body := ts.get(t, "/stats")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
	var got map[string]string
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got["detail"], "os metrics unavailable") {
		t.Errorf("detail = %q", got["detail"])
	}
	if !strings.Contains(ts.logBuf.String(), "metrics unavailable") {
		t.Error("failure should be logged")
	}
}

func TestProcesses(t *testing.T) {
	ts := newTestServer(t, fixtureSource(), func(c *config.Config) { c.DefaultLimit = 2 })

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"defaults", "", []string{"beta", "alpha"}},
		{"explicit limit", "?limit=3", []string{"beta", "alpha", "gamma"}},
		{"memory", "?sort_by=memory&limit=1", []string{"gamma"}},
		{"unknown sort is cpu", "?sort_by=memory_percent&limit=1", []string{"beta"}},
		{"zero limit", "?limit=0", []string{}},
		{"negative limit", "?limit=-4", []string{}},
		{"large limit", "?limit=1000", []string{"beta", "alpha", "gamma"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := ts.get(t, "/processes"+tt.query)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, body %s", resp.StatusCode, body)
			}
			var got []metrics.ProcessEntry
			if err := json.Unmarshal(body, &got); err != nil {
				t.Fatalf("body %s: %v", body, err)
			}
			if got == nil {
				t.Fatalf("body %s should be a JSON array", body)
			}
			names := make([]string, len(got))
			for i, p := range got {
				names[i] = p.Name
			}
			if strings.Join(names, ",") != strings.Join(tt.want, ",") {
				t.Errorf("names = %v, want %v", names, tt.want)
			}
		})
	}
}

func TestProcesses_Normalized(t *testing.T) {
	ts := newTestServer(t, fixtureSource())
	_, body := ts.get(t, "/processes?limit=1")
	var got []map[string]interface{}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	want := map[string]interface{}{"pid": 11.0, "name": "beta", "cpu_percent": 50.0, "memory_percent": 0.5}
	for k, v := range want {
		if got[0][k] != v {
			t.Errorf("%s = %v, want %v", k, got[0][k], v)
		}
	}
}

func TestProcesses_InvalidLimit(t *testing.T) {
	ts := newTestServer(t, fixtureSource())
	for _, q := range []string{"?limit=abc", "?limit=", "?limit=2.5", "?limit=99999999999999999999"} {
		resp, body := ts.get(t, "/processes"+q)
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("%s: status = %d, want 422", q, resp.StatusCode)
			continue
		}
		var got struct {
			Detail []validationError `json:"detail"`
		}
		if err := json.Unmarshal(body, &got); err != nil {
			t.Fatalf("%s: %v", q, err)
		}
		if len(got.Detail) != 1 || strings.Join(got.Detail[0].Loc, ".") != "query.limit" {
			t.Errorf("%s: detail = %+v", q, got.Detail)
		}
	}
}

func TestProcesses_Unavailable(t *testing.T) {
	src := fixtureSource()
	src.PIDsErr = errors.New("no /proc")
	ts := newTestServer(t, src)
	resp, _ := ts.get(t, "/processes")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, fixtureSource())
	for _, path := range []string{"/stats", "/processes", "/health"} {
		resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader("{}"))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("POST %s: status = %d, want 405", path, resp.StatusCode)
		}
	}
}

// heldSource blocks the CPU window until release is closed.
type heldSource struct {
	*probing.StaticSource
	started chan struct{}
	release chan struct{}
}

func (h *heldSource) CPUPercent(ctx context.Context, interval time.Duration) (float64, error) {
	close(h.started)
	select {
	case <-h.release:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	return h.StaticSource.CPUPercent(ctx, interval)
}

func TestStatsWindowDoesNotBlockOtherRequests(t *testing.T) {
	src := &heldSource{
		StaticSource: fixtureSource(),
		started:      make(chan struct{}),
		release:      make(chan struct{}),
	}
	ts := newTestServer(t, src)
	var once sync.Once
	release := func() { once.Do(func() { close(src.release) }) }
	t.Cleanup(release)

	statsDone := make(chan int, 1)
	go func() {
		resp, err := http.Get(ts.URL + "/stats")
		if err != nil {
			statsDone <- 0
			return
		}
		resp.Body.Close()
		statsDone <- resp.StatusCode
	}()

	select {
	case <-src.started:
	case <-time.After(5 * time.Second):
		t.Fatal("/stats never started sampling")
	}

	// /stats is now parked inside its CPU window.
	resp, body := ts.get(t, "/processes?limit=1")
	if resp.StatusCode != http.StatusOK || !bytes.Contains(body, []byte("beta")) {
		t.Errorf("/processes = %d %s", resp.StatusCode, body)
	}
	resp, _ = ts.get(t, "/health")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("/health = %d", resp.StatusCode)
	}
	select {
	case code := <-statsDone:
		t.Fatalf("/stats finished early with %d", code)
	default:
	}

	release()
	select {
	case code := <-statsDone:
		if code != http.StatusOK {
			t.Errorf("/stats = %d", code)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("/stats did not finish after release")
	}
}

func TestHealthAndInfo(t *testing.T) {
	ts := newTestServer(t, fixtureSource())

	resp, body := ts.get(t, "/health")
	if resp.StatusCode != http.StatusOK || strings.TrimSpace(string(body)) != `{"status":"ok"}` {
		t.Errorf("/health = %d %s", resp.StatusCode, body)
	}

	resp, body = ts.get(t, "/info")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/info status = %d", resp.StatusCode)
	}
	var info struct {
		InstanceID string       `json:"instance_id"`
		Version    string       `json:"version"`
		Host       probing.Host `json:"host"`
		Interval   string       `json:"cpu_sample_interval"`
		Limit      int          `json:"default_limit"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		t.Fatal(err)
	}
	if info.InstanceID != "test-instance" || info.Version != "1.2.3" || info.Host.Hostname != "testbox" {
		t.Errorf("/info = %+v", info)
	}
	if info.Interval != "500ms" || info.Limit != 10 {
		t.Errorf("/info sampling = %s/%d", info.Interval, info.Limit)
	}
}

func TestDashboardAssets(t *testing.T) {
	ts := newTestServer(t, fixtureSource())

	tests := []struct {
		path        string
		status      int
		contentType string
		contains    string
	}{
		{"/", http.StatusOK, "text/html", "process-table"},
		{"/favicon.ico", http.StatusOK, "image/png", "PNG"},
		{"/static/script.js", http.StatusOK, "javascript", "fetchProcesses"},
		{"/static/style.css", http.StatusOK, "text/css", "cpu-high"},
		{"/static/index.html", http.StatusOK, "text/html", "process-table"},
		{"/static/favicon.png", http.StatusOK, "image/png", "PNG"},
		{"/static/", http.StatusNotFound, "", ""},
		{"/static/missing.js", http.StatusNotFound, "", ""},
		{"/does-not-exist", http.StatusNotFound, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := ts.get(t, tt.path)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.contentType != "" && !strings.Contains(resp.Header.Get("Content-Type"), tt.contentType) {
				t.Errorf("Content-Type = %q, want %q", resp.Header.Get("Content-Type"), tt.contentType)
			}
			if !bytes.Contains(body, []byte(tt.contains)) {
				t.Errorf("body missing %q", tt.contains)
			}
		})
	}
}

func TestStaticIndexNotRedirected(t *testing.T) {
	ts := newTestServer(t, fixtureSource())
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Get(ts.URL + "/static/index.html")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d (Location %q), want 200", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestStaticDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<p>custom</p>"), 0o644); err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, fixtureSource(), func(c *config.Config) { c.StaticDir = dir })
	_, body := ts.get(t, "/")
	if string(body) != "<p>custom</p>" {
		t.Errorf("/ = %q", body)
	}

	cfg := config.New()
	cfg.StaticDir = t.TempDir()
	if _, err := New(cfg, collecting.New(fixtureSource()), nil); err == nil {
		t.Error("expected error for static dir without index.html")
	}
}

func TestWithAssets(t *testing.T) {
	cfg := config.New()
	assets := fstest.MapFS{"index.html": {Data: []byte("mapfs")}}
	srv, err := New(cfg, collecting.New(fixtureSource()), nil, WithAssets(assets))
	if err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	if rec.Body.String() != "mapfs" {
		t.Errorf("/ = %q", rec.Body.String())
	}
}

func TestChart(t *testing.T) {
	ts := newTestServer(t, fixtureSource())
	resp, body := ts.get(t, "/chart?limit=2&sort_by=memory")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Errorf("Content-Type = %q", resp.Header.Get("Content-Type"))
	}
	html := string(body)
	for _, want := range []string{"gamma (12)", "testbox", "test-instance"} {
		if !strings.Contains(html, want) {
			t.Errorf("chart missing %q", want)
		}
	}

	resp, _ = ts.get(t, "/chart?limit=x")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("bad limit status = %d", resp.StatusCode)
	}
}

func TestMiddleware(t *testing.T) {
	ts := newTestServer(t, fixtureSource())

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/health", http.NoBody)
	req.Header.Set(RequestIDHeader, "req-42")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got := resp.Header.Get(RequestIDHeader); got != "req-42" {
		t.Errorf("%s = %q, want echo", RequestIDHeader, got)
	}
	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	} {
		if got := resp.Header.Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}

	resp, _ = ts.get(t, "/health")
	if len(resp.Header.Get(RequestIDHeader)) != 36 {
		t.Errorf("generated request id = %q, want UUID", resp.Header.Get(RequestIDHeader))
	}

	logged := ts.logBuf.String()
	for _, want := range []string{`"path":"/health"`, `"request_id":"req-42"`, `"status":200`} {
		if !strings.Contains(logged, want) {
			t.Errorf("access log missing %s in %s", want, logged)
		}
	}
}

func TestPrometheusEndpoint(t *testing.T) {
	ts := newTestServer(t, fixtureSource())
	ts.get(t, "/stats")
	ts.get(t, "/processes?limit=abc")

	resp, body := ts.get(t, "/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	out := string(body)
	for _, want := range []string{
		`sysmon_requests_total{code="200",method="GET",route="/stats"} 1`,
		`sysmon_requests_total{code="422",method="GET",route="/processes"} 1`,
		"sysmon_system_cpu_percent 17.3",
		"sysmon_total_processes 4",
		`sysmon_sample_duration_seconds_count{op="system"} 1`,
		"sysmon_active_requests",
		"go_goroutines",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

// failingService returns err from every operation.
type failingService struct{ err error }

func (f failingService) GetSystemSnapshot(context.Context) (metrics.SystemSnapshot, error) {
	return metrics.SystemSnapshot{}, f.err
}

func (f failingService) ListTopProcesses(context.Context, int, metrics.SortKey) ([]metrics.ProcessEntry, error) {
	return nil, f.err
}

func (f failingService) Report(context.Context, int, metrics.SortKey) (metrics.Report, error) {
	return metrics.Report{}, f.err
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unavailable", apperrors.MetricsUnavailable("cpu percent", errors.New("x")), http.StatusServiceUnavailable},
		{"cancelled", context.Canceled, http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, err := New(config.New(), failingService{tt.err}, nil, WithAssets(fstest.MapFS{}))
			if err != nil {
				t.Fatal(err)
			}
			for _, path := range []string{"/stats", "/processes", "/chart"} {
				rec := httptest.NewRecorder()
				srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				if rec.Code != tt.status {
					t.Errorf("%s: status = %d, want %d", path, rec.Code, tt.status)
				}
				if !strings.Contains(rec.Body.String(), `"detail"`) {
					t.Errorf("%s: body %q has no detail", path, rec.Body.String())
				}
			}
		})
	}
}

func TestServe_GracefulShutdown(t *testing.T) {
	cfg := config.New()
	cfg.ShutdownTimeout = 2 * time.Second
	srv, err := New(cfg, collecting.New(fixtureSource()), nil)
	if err != nil {
		t.Fatal(err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/health"
	var resp *http.Response
	for i := 0; i < 50; i++ {
		if resp, err = http.Get(url); err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never came up: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	cfg := config.New()
	cfg.Port = ln.Addr().(*net.TCPAddr).Port
	srv, err := New(cfg, collecting.New(fixtureSource()), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := srv.Run(context.Background()); err == nil {
		t.Error("expected listen error on a busy port")
	}
}
