// Package metrics emits application metrics through the gofulmen telemetry
// system. All helpers are safe to call before InitMetrics; they become no-ops.
package metrics

import (
	"time"

	"github.com/regosbridge/regosbridge/internal/observability"
)

// Metric names following Prometheus conventions.
var (
	DispatchTotal      = "regos_dispatch_total"
	DispatchRetryTotal = "regos_dispatch_retry_total"
	DispatchDuration   = "regos_dispatch_duration_ms"
	AdmissionWaits     = "regos_admission_wait_total"
)

// RecordDispatch records one terminal dispatch outcome.
func RecordDispatch(endpoint, outcome string, attempts int, elapsed time.Duration) {
	if observability.TelemetrySystem == nil {
		return
	}

	labels := map[string]string{
		"endpoint": endpoint,
		"outcome":  outcome,
	}
	_ = observability.TelemetrySystem.Counter(DispatchTotal, 1, labels)
	if attempts > 1 {
		_ = observability.TelemetrySystem.Counter(DispatchRetryTotal, float64(attempts-1), labels)
	}
	_ = observability.TelemetrySystem.Histogram(DispatchDuration, elapsed, labels)
}

// RecordAdmissionWait counts limiter waits so saturation shows up before the
// upstream starts answering 429.
func RecordAdmissionWait(credential string) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Counter(AdmissionWaits, 1, map[string]string{
		"credential": credential,
	})
}
