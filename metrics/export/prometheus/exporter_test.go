package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	docAuth "github.com/doccare/docAuth"
	"github.com/prometheus/client_golang/prometheus"
)

type fakeSource struct {
	snapshot docAuth.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() docAuth.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                     { return f.dropped }

func sampleSource() fakeSource {
	return fakeSource{
		snapshot: docAuth.MetricsSnapshot{
			Counters: map[docAuth.MetricID]uint64{
				docAuth.MetricLoginSuccess:      7,
				docAuth.MetricGuardRedirectHome: 2,
			},
			Histograms: map[docAuth.MetricID][]uint64{
				docAuth.MetricRehydrateLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		dropped: 2,
	}
}

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewExporterFromSource(fakeSource{
		snapshot: docAuth.MetricsSnapshot{
			Counters:   map[docAuth.MetricID]uint64{},
			Histograms: map[docAuth.MetricID][]uint64{},
		},
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderIncludesCounterAndHistogram(t *testing.T) {
	out := NewExporterFromSource(sampleSource()).Render()

	for _, want := range []string{
		"doccare_login_success_total 7",
		"doccare_guard_redirect_home_total 2",
		"doccare_rehydrate_latency_seconds_bucket{le=\"0.005\"} 1",
		"doccare_rehydrate_latency_seconds_bucket{le=\"+Inf\"} 36",
		"doccare_rehydrate_latency_seconds_count 36",
		"doccare_audit_dropped_total 2",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestRenderOmitsHistogramWhenLatencyDisabled(t *testing.T) {
	src := sampleSource()
	src.snapshot.Histograms = map[docAuth.MetricID][]uint64{}

	if out := NewExporterFromSource(src).Render(); strings.Contains(out, "latency") {
		t.Fatalf("expected no histogram, got:\n%s", out)
	}
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	exp := NewExporterFromSource(sampleSource())

	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCollectorGather(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(NewExporterFromSource(sampleSource()))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	found := map[string]bool{}
	for _, mf := range families {
		found[mf.GetName()] = true
		switch mf.GetName() {
		case "doccare_login_success_total":
			if v := mf.GetMetric()[0].GetCounter().GetValue(); v != 7 {
				t.Fatalf("login_success = %v, want 7", v)
			}
		case "doccare_rehydrate_latency_seconds":
			if c := mf.GetMetric()[0].GetHistogram().GetSampleCount(); c != 36 {
				t.Fatalf("latency sample count = %d, want 36", c)
			}
		}
	}
	for _, name := range []string{"doccare_login_success_total", "doccare_rehydrate_latency_seconds", "doccare_audit_dropped_total"} {
		if !found[name] {
			t.Fatalf("%s not gathered", name)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	exp := NewExporterFromSource(sampleSource())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = exp.Render()
	}
}
