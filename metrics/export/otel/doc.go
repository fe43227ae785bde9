// Package otel binds session counters to OpenTelemetry observable instruments.
//
// [NewExporter] groups related counters under one instrument each
// (doccare.session.login, doccare.session.rehydrate, doccare.guard.decisions,
// ...) and tells them apart by an outcome or decision attribute. Rehydration
// latency is a cumulative gauge keyed by "le". A single callback reads
// [docAuth.Manager.MetricsSnapshot] on each collection.
//
// Callers own the MeterProvider. [Collect] flattens one reader collection
// into sorted points for JSON output.
package otel
