package regos

import (
	"encoding/json"
	"time"
)

// Kind classifies the terminal result of a dispatched request.
type Kind string

const (
	KindSuccess        Kind = "success"
	KindBusinessError  Kind = "business_error"
	KindTransportError Kind = "transport_error"
	KindTimeout        Kind = "timeout"
	KindNetworkError   Kind = "network_error"
)

// Request describes a single logical call to the REGOS gateway.
type Request struct {
	// Endpoint is the gateway path after /v1/, e.g. "PartnerBalance/Get".
	Endpoint string

	// Payload is encoded as the JSON request body. A nil payload sends {}.
	Payload any

	// Credential is the per-tenant integration token. It selects both the
	// upstream address and the rate limiter.
	Credential string

	// Timeout bounds the network phase of each attempt. Zero uses the
	// client default.
	Timeout time.Duration
}

// Outcome reports how a request terminated. Exactly one kind applies; a 429
// from the upstream is never surfaced here, it is retried internally.
type Outcome struct {
	Kind Kind `json:"kind"`

	// Result holds the upstream result payload when Kind is KindSuccess.
	Result json.RawMessage `json:"result,omitempty"`

	// BusinessCode and Description carry the upstream error object when the
	// transport succeeded but the envelope reported ok=false.
	BusinessCode string `json:"business_code,omitempty"`
	Description  string `json:"description,omitempty"`

	// StatusCode is set for transport errors (and business errors, where it
	// is always 200).
	StatusCode int `json:"status_code,omitempty"`

	// Detail carries the underlying error text for network failures.
	Detail string `json:"detail,omitempty"`

	// Attempts counts admission-to-classification cycles, including the
	// final one.
	Attempts int `json:"attempts"`

	// Elapsed is the wall-clock time spanning admission wait, retries and
	// the network phase.
	Elapsed time.Duration `json:"elapsed"`
}

// OK reports whether the outcome carries a usable result payload.
func (o *Outcome) OK() bool {
	return o != nil && o.Kind == KindSuccess
}

// Err maps a non-success outcome to a typed error, or nil for success.
func (o *Outcome) Err() error {
	if o == nil {
		return &NetworkError{Detail: "missing outcome"}
	}
	switch o.Kind {
	case KindSuccess:
		return nil
	case KindBusinessError:
		return &BusinessError{Code: o.BusinessCode, Description: o.Description}
	case KindTransportError:
		return &TransportError{StatusCode: o.StatusCode}
	case KindTimeout:
		return &TimeoutError{Elapsed: o.Elapsed}
	default:
		return &NetworkError{Detail: o.Detail}
	}
}

// envelope is the REGOS gateway response wrapper.
type envelope struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result"`
}

// upstreamError is the error object carried under result when ok is false.
type upstreamError struct {
	Error       string `json:"error"`
	Description string `json:"description"`
}
