package metrics

import (
	"strconv"

	"github.com/regosbridge/regosbridge/internal/observability"
)

// Metric names
const (
	ErrorsTotalName      = "errors_total"
	PanicsTotalName      = "panics_total"
	ErrorsByEndpointName = "errors_by_endpoint"
)

// RecordError records an error with code and status
func RecordError(errorCode string, httpStatus int) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Counter(ErrorsTotalName, 1, map[string]string{
		"code":   errorCode,
		"status": strconv.Itoa(httpStatus),
	})
}

// RecordPanic records a recovered panic
func RecordPanic(path string) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Counter(PanicsTotalName, 1, map[string]string{
		"path": path,
	})
}

// RecordErrorByEndpoint records an error against the endpoint that produced it
func RecordErrorByEndpoint(path string, errorCode string) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Counter(ErrorsByEndpointName, 1, map[string]string{
		"path": path,
		"code": errorCode,
	})
}
