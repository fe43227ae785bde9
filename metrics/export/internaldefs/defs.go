package internaldefs

import (
	docAuth "github.com/doccare/docAuth"
)

// CounterDef names one session counter for export.
type CounterDef struct {
	ID   docAuth.MetricID
	Name string
	Help string
}

// HistogramDef names one session histogram for export.
type HistogramDef struct {
	ID   docAuth.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in output order.
var CounterDefs = []CounterDef{
	{ID: docAuth.MetricLoginSuccess, Name: "doccare_login_success_total", Help: "Logins persisted and installed."},
	{ID: docAuth.MetricLoginRejected, Name: "doccare_login_rejected_total", Help: "Logins refused before or during persistence."},
	{ID: docAuth.MetricLoginPersistFailed, Name: "doccare_login_persist_failed_total", Help: "Logins whose session store write failed."},
	{ID: docAuth.MetricLogout, Name: "doccare_logout_total", Help: "Explicit logouts."},
	{ID: docAuth.MetricRehydrateRestored, Name: "doccare_rehydrate_restored_total", Help: "Rehydrations that restored a session."},
	{ID: docAuth.MetricRehydrateEmpty, Name: "doccare_rehydrate_empty_total", Help: "Rehydrations with nothing persisted."},
	{ID: docAuth.MetricRehydrateExpired, Name: "doccare_rehydrate_expired_total", Help: "Rehydrations that discarded an expired token."},
	{ID: docAuth.MetricRehydrateInvalid, Name: "doccare_rehydrate_invalid_total", Help: "Rehydrations that discarded an unreadable session."},
	{ID: docAuth.MetricGuardAdmit, Name: "doccare_guard_admit_total", Help: "Navigations admitted by the route guard."},
	{ID: docAuth.MetricGuardRedirectLogin, Name: "doccare_guard_redirect_login_total", Help: "Navigations redirected to the login route."},
	{ID: docAuth.MetricGuardRedirectHome, Name: "doccare_guard_redirect_home_total", Help: "Navigations redirected to the home route."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: docAuth.MetricRehydrateLatency, Name: "doccare_rehydrate_latency_seconds", Help: "Session rehydration latency."},
}

// AuditDroppedName is the counter for audit events lost to backpressure.
const (
	AuditDroppedName = "doccare_audit_dropped_total"
	AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."
)

// HistogramBounds are the text forms of the bucket upper bounds, +Inf last.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramUpperBounds are the finite bucket bounds in seconds.
var HistogramUpperBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// HistogramBoundSuffix are instrument-name-safe forms of HistogramBounds.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies raw into a fixed eight-bucket array, zero-filling
// or truncating.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
