package otel

import (
	"context"
	"sync"
	"testing"

	docAuth "github.com/doccare/docAuth"
	"github.com/doccare/docAuth/metrics/export/internaldefs"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type fakeSource struct {
	mu       sync.RWMutex
	snapshot docAuth.MetricsSnapshot
	dropped  uint64
}

func (f *fakeSource) MetricsSnapshot() docAuth.MetricsSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := docAuth.MetricsSnapshot{
		Counters:   make(map[docAuth.MetricID]uint64, len(f.snapshot.Counters)),
		Histograms: make(map[docAuth.MetricID][]uint64, len(f.snapshot.Histograms)),
	}
	for k, v := range f.snapshot.Counters {
		out.Counters[k] = v
	}
	for k, buckets := range f.snapshot.Histograms {
		next := make([]uint64, len(buckets))
		copy(next, buckets)
		out.Histograms[k] = next
	}
	return out
}

func (f *fakeSource) AuditDropped() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.dropped
}

func TestExporterRegistersAndCollects(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("doccare-test")

	src := &fakeSource{
		snapshot: docAuth.MetricsSnapshot{
			Counters: map[docAuth.MetricID]uint64{
				docAuth.MetricLoginSuccess: 3,
			},
			Histograms: map[docAuth.MetricID][]uint64{
				docAuth.MetricRehydrateLatency: {1, 1, 1, 1, 1, 1, 1, 1},
			},
		},
		dropped: 1,
	}

	exp, err := NewExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("NewExporterFromSource failed: %v", err)
	}
	defer func() {
		if err := exp.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(rm.ScopeMetrics) == 0 {
		t.Fatal("expected collected metrics, got none")
	}
}

func TestExporterRejectsNilSource(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("doccare-test")

	if _, err := NewExporterFromSource(meter, nil); err == nil {
		t.Fatal("expected error for nil source")
	}
}

func TestExporterConcurrentCollectNoPanic(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("doccare-test")

	src := &fakeSource{
		snapshot: docAuth.MetricsSnapshot{
			Counters: map[docAuth.MetricID]uint64{
				docAuth.MetricLoginSuccess: 1,
			},
			Histograms: map[docAuth.MetricID][]uint64{
				docAuth.MetricRehydrateLatency: {1, 0, 0, 0, 0, 0, 0, 0},
			},
		},
	}

	exp, err := NewExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("NewExporterFromSource failed: %v", err)
	}
	defer func() {
		if err := exp.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			src.mu.Lock()
			src.snapshot.Counters[docAuth.MetricLoginSuccess] = v
			src.mu.Unlock()

			var rm metricdata.ResourceMetrics
			_ = reader.Collect(context.Background(), &rm)
		}(uint64(i + 1))
	}
	wg.Wait()
}

func newCollectingExporter(t *testing.T, src metricsSource) *sdkmetric.ManualReader {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	exp, err := NewExporterFromSource(provider.Meter("doccare-test"), src)
	if err != nil {
		t.Fatalf("NewExporterFromSource failed: %v", err)
	}
	t.Cleanup(func() { _ = exp.Close() })
	return reader
}

func findPoint(points []Point, name, key, value string) (Point, bool) {
	for _, p := range points {
		if p.Name == name && (key == "" || p.Attributes[key] == value) {
			return p, true
		}
	}
	return Point{}, false
}

func TestExporterObservesCounterValues(t *testing.T) {
	reader := newCollectingExporter(t, &fakeSource{
		snapshot: docAuth.MetricsSnapshot{
			Counters: map[docAuth.MetricID]uint64{
				docAuth.MetricRehydrateExpired:   4,
				docAuth.MetricGuardRedirectLogin: 2,
				docAuth.MetricLogout:             1,
			},
		},
		dropped: 3,
	})

	points, err := Collect(context.Background(), reader)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	tests := []struct {
		name, key, value string
		want             int64
	}{
		{"doccare.session.rehydrate", "outcome", "expired", 4},
		{"doccare.session.rehydrate", "outcome", "restored", 0},
		{"doccare.guard.decisions", "decision", "redirect_login", 2},
		{"doccare.session.login", "outcome", "success", 0},
		{"doccare.session.logout", "", "", 1},
		{"doccare.audit.dropped", "", "", 3},
	}
	for _, tc := range tests {
		p, ok := findPoint(points, tc.name, tc.key, tc.value)
		if !ok {
			t.Fatalf("missing point %s{%s=%s}", tc.name, tc.key, tc.value)
		}
		if p.Value != tc.want {
			t.Fatalf("%s{%s=%s} = %d, want %d", tc.name, tc.key, tc.value, p.Value, tc.want)
		}
	}
	if _, ok := findPoint(points, latencyCountName, "", ""); ok {
		t.Fatal("latency gauges must be absent when the snapshot has no histogram")
	}
}

func TestExporterObservesCumulativeLatencyBuckets(t *testing.T) {
	reader := newCollectingExporter(t, &fakeSource{
		snapshot: docAuth.MetricsSnapshot{
			Counters: map[docAuth.MetricID]uint64{},
			Histograms: map[docAuth.MetricID][]uint64{
				docAuth.MetricRehydrateLatency: {2, 0, 1, 0, 0, 0, 0, 1},
			},
		},
	})

	points, err := Collect(context.Background(), reader)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	for le, want := range map[string]int64{"0.005": 2, "0.025": 3, "0.5": 3, "+Inf": 4} {
		p, ok := findPoint(points, latencyBucketName, "le", le)
		if !ok || p.Value != want {
			t.Fatalf("bucket le=%s = %d (found=%v), want %d", le, p.Value, ok, want)
		}
	}
	if p, ok := findPoint(points, latencyCountName, "", ""); !ok || p.Value != 4 {
		t.Fatalf("count = %d (found=%v), want 4", p.Value, ok)
	}
}

func TestFamiliesCoverEveryCounter(t *testing.T) {
	seen := map[docAuth.MetricID]bool{}
	for _, f := range families {
		for _, s := range f.series {
			if seen[s.id] {
				t.Fatalf("metric %d exported twice", s.id)
			}
			seen[s.id] = true
		}
	}
	for _, def := range internaldefs.CounterDefs {
		if !seen[def.ID] {
			t.Fatalf("counter %s has no OTel series", def.Name)
		}
	}
}

func TestCollectIsSorted(t *testing.T) {
	reader := newCollectingExporter(t, &fakeSource{snapshot: docAuth.MetricsSnapshot{}})
	points, err := Collect(context.Background(), reader)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	for i := 1; i < len(points); i++ {
		if points[i-1].sortKey > points[i].sortKey {
			t.Fatalf("points out of order at %d: %q > %q", i, points[i-1].sortKey, points[i].sortKey)
		}
	}
}

func TestNewExporterRejectsNilManager(t *testing.T) {
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	if _, err := NewExporter(provider.Meter("doccare-test"), nil); err != ErrNilSource {
		t.Fatalf("expected ErrNilSource, got %v", err)
	}
}
