package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	gferrors "github.com/fulmenhq/gofulmen/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapHelpersCarryCodeAndCause(t *testing.T) {
	cause := stderrors.New("bucket capacity must be positive")

	tests := []struct {
		name string
		code string
		wrap func() *gferrors.ErrorEnvelope
	}{
		{"config invalid", "CONFIG_INVALID", func() *gferrors.ErrorEnvelope {
			return WrapConfigInvalid(t.Context(), cause, "dispatcher initialization failed")
		}},
		{"invalid input", "INVALID_INPUT", func() *gferrors.ErrorEnvelope {
			return WrapInvalidInput(t.Context(), cause, "bad request body")
		}},
		{"internal", "INTERNAL_ERROR", func() *gferrors.ErrorEnvelope {
			return WrapInternal(t.Context(), cause, "unexpected failure")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envelope := tt.wrap()
			require.NotNil(t, envelope)
			assert.Equal(t, tt.code, envelope.Code)
			assert.NotEmpty(t, envelope.CorrelationID)
			assert.Equal(t, cause.Error(), envelope.Context["wrapped_error"])
		})
	}
}

func TestHTTPStatusFromCode(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatusFromCode("BUSINESS_ERROR"))
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatusFromCode("RATE_LIMITED"))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusFromCode("CONFIG_INVALID"))
}
