package collecting

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"SystemMonitor/pkg/apperrors"
	"SystemMonitor/pkg/metrics"
	"SystemMonitor/pkg/probing"
)

func proc(pid int32, name string, cpu, mem float64) probing.RawProcess {
	return probing.RawProcess{PID: pid, Name: name, CPUPercent: probing.Float(cpu), MemoryPercent: probing.Float(mem)}
}

func names(entries []metrics.ProcessEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestGetSystemSnapshot(t *testing.T) {
	src := &probing.StaticSource{
		SystemCPU:     37.46,
		MemoryPercent: 61.04,
		Cores:         4,
		Processes:     []probing.RawProcess{proc(1, "init", 0, 0), proc(2, "sshd", 0, 0), proc(3, "bash", 0, 0)},
	}
	svc := New(src)

	got, err := svc.GetSystemSnapshot(context.Background())
	if err != nil {
		t.Fatalf("GetSystemSnapshot() error = %v", err)
	}
	want := metrics.SystemSnapshot{CPUPercent: 37.5, MemoryPercent: 61.0, TotalProcesses: 3}
	if got != want {
		t.Errorf("GetSystemSnapshot() = %+v, want %+v", got, want)
	}
}

func TestGetSystemSnapshot_Clamps(t *testing.T) {
	src := &probing.StaticSource{SystemCPU: 100.4, MemoryPercent: -2}
	got, err := New(src).GetSystemSnapshot(context.Background())
	if err != nil {
		t.Fatalf("GetSystemSnapshot() error = %v", err)
	}
	if got.CPUPercent != 100 || got.MemoryPercent != 0 {
		t.Errorf("GetSystemSnapshot() = %+v, want cpu 100 and memory 0", got)
	}
	if got.TotalProcesses != 0 {
		t.Errorf("TotalProcesses = %d, want 0", got.TotalProcesses)
	}
}

func TestGetSystemSnapshot_Errors(t *testing.T) {
	denied := errors.New("permission denied")
	tests := []struct {
		name string
		src  *probing.StaticSource
	}{
		{"cpu", &probing.StaticSource{CPUErr: denied}},
		{"memory", &probing.StaticSource{MemoryErr: denied}},
		{"pids", &probing.StaticSource{PIDsErr: denied}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.src).GetSystemSnapshot(context.Background())
			if !errors.Is(err, apperrors.ErrMetricsUnavailable) {
				t.Fatalf("error = %v, want ErrMetricsUnavailable", err)
			}
			if !errors.Is(err, denied) {
				t.Errorf("error = %v, want cause preserved", err)
			}
		})
	}
}

func TestGetSystemSnapshot_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(&probing.StaticSource{}).GetSystemSnapshot(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if errors.Is(err, apperrors.ErrMetricsUnavailable) {
		t.Error("cancellation must not be reported as ErrMetricsUnavailable")
	}
}

func TestListTopProcesses_NormalizesByCores(t *testing.T) {
	src := &probing.StaticSource{
		Cores:     2,
		Processes: []probing.RawProcess{proc(42, "worker", 150, 12.345)},
	}
	got, err := New(src).ListTopProcesses(context.Background(), 10, metrics.SortByCPU)
	if err != nil {
		t.Fatalf("ListTopProcesses() error = %v", err)
	}
	want := []metrics.ProcessEntry{{PID: 42, Name: "worker", CPUPercent: 75.0, MemoryPercent: 12.3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListTopProcesses() = %+v, want %+v", got, want)
	}
}

func TestListTopProcesses_MissingMetricsAreZero(t *testing.T) {
	src := &probing.StaticSource{
		Cores:     1,
		Processes: []probing.RawProcess{{PID: 7, Name: "locked"}},
	}
	got, err := New(src).ListTopProcesses(context.Background(), 10, metrics.SortByCPU)
	if err != nil {
		t.Fatalf("ListTopProcesses() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].CPUPercent != 0 || got[0].MemoryPercent != 0 {
		t.Errorf("entry = %+v, want zero cpu and memory", got[0])
	}
}

func TestListTopProcesses_StableTies(t *testing.T) {
	src := &probing.StaticSource{
		Cores:     1,
		Processes: []probing.RawProcess{proc(1, "A", 10, 0), proc(2, "B", 40, 0), proc(3, "C", 40, 0)},
	}
	for _, workers := range []int{1, 4} {
		svc := New(src, WithWorkers(workers))
		got, err := svc.ListTopProcesses(context.Background(), 2, metrics.SortByCPU)
		if err != nil {
			t.Fatalf("workers=%d: ListTopProcesses() error = %v", workers, err)
		}
		if want := []string{"B", "C"}; !reflect.DeepEqual(names(got), want) {
			t.Errorf("workers=%d: order = %v, want %v", workers, names(got), want)
		}
	}
}

func TestListTopProcesses_SortByMemory(t *testing.T) {
	src := &probing.StaticSource{
		Cores: 1,
		Processes: []probing.RawProcess{
			proc(1, "cpu-heavy", 90, 1),
			proc(2, "mem-heavy", 1, 50),
			proc(3, "middle", 20, 20),
		},
	}
	got, err := New(src).ListTopProcesses(context.Background(), 10, metrics.SortByMemory)
	if err != nil {
		t.Fatalf("ListTopProcesses() error = %v", err)
	}
	if want := []string{"mem-heavy", "middle", "cpu-heavy"}; !reflect.DeepEqual(names(got), want) {
		t.Errorf("order = %v, want %v", names(got), want)
	}
}

func TestListTopProcesses_ExcludesIdle(t *testing.T) {
	src := &probing.StaticSource{
		Cores: 1,
		Processes: []probing.RawProcess{
			proc(0, "kernel_task", 99, 0),
			proc(4, DefaultIdleProcessName, 98, 0),
			proc(5, "app", 1, 0),
		},
	}
	got, err := New(src).ListTopProcesses(context.Background(), 10, metrics.SortByCPU)
	if err != nil {
		t.Fatalf("ListTopProcesses() error = %v", err)
	}
	if want := []string{"app"}; !reflect.DeepEqual(names(got), want) {
		t.Errorf("names = %v, want %v", names(got), want)
	}
}

func TestListTopProcesses_CustomIdleNames(t *testing.T) {
	src := &probing.StaticSource{
		Cores:     1,
		Processes: []probing.RawProcess{proc(3, "swapper", 5, 0), proc(4, DefaultIdleProcessName, 4, 0)},
	}
	got, err := New(src, WithIdleProcessNames("swapper")).ListTopProcesses(context.Background(), 10, metrics.SortByCPU)
	if err != nil {
		t.Fatalf("ListTopProcesses() error = %v", err)
	}
	if want := []string{DefaultIdleProcessName}; !reflect.DeepEqual(names(got), want) {
		t.Errorf("names = %v, want %v", names(got), want)
	}
}

func TestListTopProcesses_SkipsVanished(t *testing.T) {
	src := &probing.StaticSource{
		Cores:     1,
		Processes: []probing.RawProcess{proc(10, "short-lived", 80, 0), proc(11, "steady", 5, 0)},
		Vanished:  map[int32]bool{10: true},
	}
	got, err := New(src, WithWorkers(2)).ListTopProcesses(context.Background(), 10, metrics.SortByCPU)
	if err != nil {
		t.Fatalf("ListTopProcesses() error = %v", err)
	}
	if want := []string{"steady"}; !reflect.DeepEqual(names(got), want) {
		t.Errorf("names = %v, want %v", names(got), want)
	}
}

func TestListTopProcesses_NonPositiveLimit(t *testing.T) {
	// PIDsErr proves the source is never consulted.
	src := &probing.StaticSource{PIDsErr: errors.New("should not be called")}
	for _, limit := range []int{0, -1, -100} {
		got, err := New(src).ListTopProcesses(context.Background(), limit, metrics.SortByCPU)
		if err != nil {
			t.Fatalf("limit=%d: error = %v", limit, err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("limit=%d: got %#v, want empty non-nil slice", limit, got)
		}
	}
}

func TestListTopProcesses_LimitAboveCount(t *testing.T) {
	src := &probing.StaticSource{
		Cores:     1,
		Processes: []probing.RawProcess{proc(1, "a", 1, 0), proc(2, "b", 2, 0)},
	}
	got, err := New(src).ListTopProcesses(context.Background(), 1000, metrics.SortByCPU)
	if err != nil {
		t.Fatalf("ListTopProcesses() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestListTopProcesses_ZeroCoresTreatedAsOne(t *testing.T) {
	src := &probing.StaticSource{
		Cores:     0,
		Processes: []probing.RawProcess{proc(1, "a", 33.3, 0)},
	}
	got, err := New(src).ListTopProcesses(context.Background(), 1, metrics.SortByCPU)
	if err != nil {
		t.Fatalf("ListTopProcesses() error = %v", err)
	}
	if got[0].CPUPercent != 33.3 {
		t.Errorf("CPUPercent = %v, want 33.3", got[0].CPUPercent)
	}
}

func TestListTopProcesses_Errors(t *testing.T) {
	denied := errors.New("denied")
	tests := []struct {
		name string
		src  *probing.StaticSource
	}{
		{"pids", &probing.StaticSource{PIDsErr: denied}},
		{"cores", &probing.StaticSource{CoresErr: denied}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.src).ListTopProcesses(context.Background(), 5, metrics.SortByCPU)
			if !errors.Is(err, apperrors.ErrMetricsUnavailable) {
				t.Errorf("error = %v, want ErrMetricsUnavailable", err)
			}
		})
	}
}

func TestListTopProcesses_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &probing.StaticSource{Cores: 1, Processes: []probing.RawProcess{proc(1, "a", 1, 1)}}

	for _, workers := range []int{1, 3} {
		_, err := New(src, WithWorkers(workers)).ListTopProcesses(ctx, 5, metrics.SortByCPU)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: error = %v, want context.Canceled", workers, err)
		}
	}
}

func TestListTopProcesses_Deterministic(t *testing.T) {
	src := &probing.StaticSource{
		Cores: 8,
		Processes: []probing.RawProcess{
			proc(1, "a", 120, 3.3),
			proc(2, "b", 120, 1.1),
			proc(3, "c", 7, 9.9),
			{PID: 4, Name: "d"},
		},
	}
	svc := New(src, WithWorkers(3))
	first, err := svc.ListTopProcesses(context.Background(), 3, metrics.SortByCPU)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.ListTopProcesses(context.Background(), 3, metrics.SortByCPU)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("calls differ:\n%+v\n%+v", first, second)
	}
}

func TestReport(t *testing.T) {
	src := &probing.StaticSource{
		SystemCPU:     12.34,
		MemoryPercent: 56.78,
		Cores:         2,
		Processes:     []probing.RawProcess{proc(1, "a", 20, 1), proc(2, "b", 40, 2)},
	}
	before := time.Now()
	rep, err := New(src).Report(context.Background(), 1, metrics.SortByCPU)
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if rep.SampledAt.Before(before) {
		t.Errorf("SampledAt %v precedes call start %v", rep.SampledAt, before)
	}
	if rep.SortBy != metrics.SortByCPU {
		t.Errorf("SortBy = %q", rep.SortBy)
	}
	if rep.System.TotalProcesses != 2 || rep.System.CPUPercent != 12.3 {
		t.Errorf("System = %+v", rep.System)
	}
	if len(rep.Processes) != 1 || rep.Processes[0].Name != "b" || rep.Processes[0].CPUPercent != 20 {
		t.Errorf("Processes = %+v", rep.Processes)
	}
}

func TestReport_Error(t *testing.T) {
	src := &probing.StaticSource{MemoryErr: errors.New("no meminfo")}
	_, err := New(src).Report(context.Background(), 5, metrics.SortByCPU)
	if !errors.Is(err, apperrors.ErrMetricsUnavailable) {
		t.Errorf("error = %v, want ErrMetricsUnavailable", err)
	}
}

func TestOptions(t *testing.T) {
	svc := New(&probing.StaticSource{}, WithCPUSampleInterval(0), WithWorkers(-3), WithLogger(nil))
	if svc.CPUSampleInterval() != DefaultCPUSampleInterval {
		t.Errorf("interval = %v, want default", svc.CPUSampleInterval())
	}
	if svc.workers != 1 {
		t.Errorf("workers = %d, want 1", svc.workers)
	}
	if svc.log == nil {
		t.Error("logger must not be nil")
	}

	svc = New(&probing.StaticSource{}, WithCPUSampleInterval(time.Second), WithWorkers(8))
	if svc.CPUSampleInterval() != time.Second || svc.workers != 8 {
		t.Errorf("got interval=%v workers=%d", svc.CPUSampleInterval(), svc.workers)
	}
}
