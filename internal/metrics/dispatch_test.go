package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordDispatchWithoutTelemetry(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordDispatch("PartnerBalance/Get", "success", 1, 150*time.Millisecond)
		RecordDispatch("PartnerBalance/Get", "rate_limit_exhausted", 5, 3*time.Second)
	})
}

func TestRecordAdmissionWaitWithoutTelemetry(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordAdmissionWait("a1b2c3d4")
	})
}
