package regos

import (
	"fmt"
	"time"
)

// ConfigError reports invalid limiter or client construction parameters.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid configuration"
	}
	return "invalid configuration: " + e.Reason
}

// BusinessError is a logically failed request that completed at the transport
// level with HTTP 200 and an ok=false envelope.
type BusinessError struct {
	Code        string
	Description string
}

func (e *BusinessError) Error() string {
	if e == nil {
		return "regos business error"
	}
	if e.Description != "" {
		return fmt.Sprintf("regos error %s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("regos error %s", e.Code)
}

// TransportError is a non-200, non-429 upstream response.
type TransportError struct {
	StatusCode int
}

func (e *TransportError) Error() string {
	if e == nil {
		return "regos transport error"
	}
	return fmt.Sprintf("regos returned status %d", e.StatusCode)
}

// TimeoutError reports that the network phase of an attempt exceeded the
// request timeout.
type TimeoutError struct {
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	if e == nil {
		return "regos request timed out"
	}
	return fmt.Sprintf("regos request timed out after %s", e.Elapsed)
}

// NetworkError is a connection-level failure: refused, DNS, TLS.
type NetworkError struct {
	Detail string
}

func (e *NetworkError) Error() string {
	if e == nil || e.Detail == "" {
		return "regos network error"
	}
	return "regos network error: " + e.Detail
}

// RateLimitExhaustedError reports that the upstream kept answering 429 past
// the configured attempt cap.
type RateLimitExhaustedError struct {
	Endpoint string
	Attempts int
}

func (e *RateLimitExhaustedError) Error() string {
	if e == nil {
		return "regos rate limit retries exhausted"
	}
	return fmt.Sprintf("regos rate limit retries exhausted for %s after %d attempts", e.Endpoint, e.Attempts)
}
