package otel

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Point is one collected int64 observation.
type Point struct {
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Value      int64             `json:"value"`

	sortKey string
}

// Collect reads reader once and flattens its int64 sums and gauges, sorted by
// name and attributes. Other aggregations are skipped.
func Collect(ctx context.Context, reader sdkmetric.Reader) ([]Point, error) {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return nil, err
	}

	enc := attribute.DefaultEncoder()
	var points []Point
	add := func(name string, dps []metricdata.DataPoint[int64]) {
		for _, dp := range dps {
			p := Point{Name: name, Value: dp.Value, sortKey: name + "|" + dp.Attributes.Encoded(enc)}
			if dp.Attributes.Len() > 0 {
				p.Attributes = make(map[string]string, dp.Attributes.Len())
				iter := dp.Attributes.Iter()
				for iter.Next() {
					kv := iter.Attribute()
					p.Attributes[string(kv.Key)] = kv.Value.Emit()
				}
			}
			points = append(points, p)
		}
	}

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				add(m.Name, data.DataPoints)
			case metricdata.Gauge[int64]:
				add(m.Name, data.DataPoints)
			}
		}
	}

	sort.Slice(points, func(i, j int) bool { return points[i].sortKey < points[j].sortKey })
	return points, nil
}
