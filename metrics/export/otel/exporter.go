package otel

import (
	"context"
	"errors"
	"fmt"

	docAuth "github.com/doccare/docAuth"
	"github.com/doccare/docAuth/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	// ErrNilMeter is returned when no meter is supplied.
	ErrNilMeter = errors.New("nil meter")
	// ErrNilSource is returned when no metrics source is supplied.
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() docAuth.MetricsSnapshot
	AuditDropped() uint64
}

// series is one counter within a family, told apart by a single attribute.
type series struct {
	id    docAuth.MetricID
	value string
}

// family groups related session counters under one instrument.
type family struct {
	name   string
	desc   string
	key    string
	series []series
}

var families = []family{
	{
		name: "doccare.session.login",
		desc: "Login attempts by outcome.",
		key:  "outcome",
		series: []series{
			{docAuth.MetricLoginSuccess, "success"},
			{docAuth.MetricLoginRejected, "rejected"},
			{docAuth.MetricLoginPersistFailed, "persist_failed"},
		},
	},
	{
		name:   "doccare.session.logout",
		desc:   "Explicit logouts.",
		series: []series{{docAuth.MetricLogout, ""}},
	},
	{
		name: "doccare.session.rehydrate",
		desc: "Session rehydrations by outcome.",
		key:  "outcome",
		series: []series{
			{docAuth.MetricRehydrateRestored, "restored"},
			{docAuth.MetricRehydrateEmpty, "empty"},
			{docAuth.MetricRehydrateExpired, "expired"},
			{docAuth.MetricRehydrateInvalid, "invalid"},
		},
	},
	{
		name: "doccare.guard.decisions",
		desc: "Route guard decisions.",
		key:  "decision",
		series: []series{
			{docAuth.MetricGuardAdmit, "admit"},
			{docAuth.MetricGuardRedirectLogin, "redirect_login"},
			{docAuth.MetricGuardRedirectHome, "redirect_home"},
		},
	},
}

const (
	latencyBucketName = "doccare.session.rehydrate.latency.bucket"
	latencyCountName  = "doccare.session.rehydrate.latency.count"
	auditDroppedName  = "doccare.audit.dropped"
)

type boundSeries struct {
	id   docAuth.MetricID
	opts []metric.ObserveOption
}

type boundFamily struct {
	instrument metric.Int64ObservableCounter
	series     []boundSeries
}

// Exporter publishes session counters as OTel observable instruments. Related
// counters share one instrument and differ by attribute; the rehydrate latency
// histogram is a cumulative bucket gauge keyed by "le". Values are read from
// the source on every collection.
type Exporter struct {
	source       metricsSource
	registration metric.Registration
	families     []boundFamily
	bucketGauge  metric.Int64ObservableGauge
	bucketOpts   [8][]metric.ObserveOption
	countGauge   metric.Int64ObservableGauge
	auditDropped metric.Int64ObservableCounter
}

// NewExporter registers instruments on meter that observe m.
func NewExporter(meter metric.Meter, m *docAuth.Manager) (*Exporter, error) {
	if m == nil {
		return nil, ErrNilSource
	}
	return NewExporterFromSource(meter, m)
}

// NewExporterFromSource registers instruments on meter that observe source.
func NewExporterFromSource(meter metric.Meter, source metricsSource) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	e := &Exporter{source: source}
	observables := make([]metric.Observable, 0, len(families)+3)

	for _, f := range families {
		ins, err := meter.Int64ObservableCounter(f.name, metric.WithDescription(f.desc), metric.WithUnit("{event}"))
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", f.name, err)
		}
		bf := boundFamily{instrument: ins, series: make([]boundSeries, 0, len(f.series))}
		for _, s := range f.series {
			bs := boundSeries{id: s.id}
			if f.key != "" {
				bs.opts = []metric.ObserveOption{metric.WithAttributes(attribute.String(f.key, s.value))}
			}
			bf.series = append(bf.series, bs)
		}
		e.families = append(e.families, bf)
		observables = append(observables, ins)
	}

	var err error
	e.bucketGauge, err = meter.Int64ObservableGauge(latencyBucketName,
		metric.WithDescription("Cumulative rehydration latency samples at or below le seconds."))
	if err != nil {
		return nil, fmt.Errorf("create histogram bucket gauge: %w", err)
	}
	for i, bound := range internaldefs.HistogramBounds {
		e.bucketOpts[i] = []metric.ObserveOption{metric.WithAttributes(attribute.String("le", bound))}
	}
	e.countGauge, err = meter.Int64ObservableGauge(latencyCountName,
		metric.WithDescription("Rehydration latency sample count."))
	if err != nil {
		return nil, fmt.Errorf("create histogram count gauge: %w", err)
	}
	e.auditDropped, err = meter.Int64ObservableCounter(auditDroppedName,
		metric.WithDescription(internaldefs.AuditDroppedHelp), metric.WithUnit("{event}"))
	if err != nil {
		return nil, fmt.Errorf("create audit dropped counter: %w", err)
	}
	observables = append(observables, e.bucketGauge, e.countGauge, e.auditDropped)

	e.registration, err = meter.RegisterCallback(e.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	return e, nil
}

func (e *Exporter) observe(_ context.Context, o metric.Observer) error {
	snapshot := e.source.MetricsSnapshot()
	for _, f := range e.families {
		for _, s := range f.series {
			o.ObserveInt64(f.instrument, int64(snapshot.Counters[s.id]), s.opts...)
		}
	}

	// Without latency histograms enabled there is nothing to report.
	if raw, ok := snapshot.Histograms[docAuth.MetricRehydrateLatency]; ok {
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))
		for i, v := range cumulative {
			o.ObserveInt64(e.bucketGauge, int64(v), e.bucketOpts[i]...)
		}
		o.ObserveInt64(e.countGauge, int64(cumulative[len(cumulative)-1]))
	}

	o.ObserveInt64(e.auditDropped, int64(e.source.AuditDropped()))
	return nil
}

// Close unregisters the collection callback.
func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
