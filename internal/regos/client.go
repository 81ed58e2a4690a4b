package regos

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/regosbridge/regosbridge/internal/metrics"
)

const (
	defaultBaseURL     = "https://integration.regos.uz"
	defaultTimeout     = 30 * time.Second
	defaultMaxAttempts = 5
	defaultRetryDelay  = time.Second
)

// RequestRecord captures one terminal outcome for the request log.
type RequestRecord struct {
	ID         string
	Credential string // fingerprint, never the raw token
	Endpoint   string
	Kind       Kind
	StatusCode int
	Attempts   int
	Duration   time.Duration
	CreatedAt  time.Time
}

// RequestRecorder persists terminal outcomes. Implementations must be cheap;
// recording errors are logged and never fail the request.
type RequestRecorder interface {
	RecordRequest(ctx context.Context, rec RequestRecord) error
}

// Client dispatches rate-limited requests to the REGOS gateway.
//
// Zero-value fields fall back to defaults; Limiters is required.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Limiters   *Registry
	Recorder   RequestRecorder
	Logger     *logging.Logger

	// Timeout bounds the network phase of one attempt when the request does
	// not carry its own.
	Timeout time.Duration

	// MaxAttempts caps admission/send cycles for a request that keeps
	// hitting 429. At least 1.
	MaxAttempts int

	// RetryDelay is the base backoff after a 429; actual delays grow
	// exponentially with jitter.
	RetryDelay time.Duration

	Clock func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient wires a client around a fresh registry with the given limits.
func NewClient(baseURL string, limits Limits) (*Client, error) {
	registry, err := NewRegistry(limits)
	if err != nil {
		return nil, err
	}

	return &Client{
		BaseURL:  strings.TrimSpace(baseURL),
		Limiters: registry,
	}, nil
}

// Do performs the full dispatch protocol: admission, network call,
// classification, bounded retry on 429. The caller context bounds the whole
// request including admission waits and retry delays; req.Timeout bounds only
// the network phase of each attempt.
//
// Every expected failure mode comes back as a typed Outcome. Non-nil errors
// are reserved for cancellation, misconfiguration, undecodable responses and
// retry exhaustion.
func (c *Client) Do(ctx context.Context, req Request) (*Outcome, error) {
	if c == nil || c.Limiters == nil {
		return nil, &ConfigError{Reason: "client limiter registry is not configured"}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	endpoint := strings.TrimSpace(req.Endpoint)
	if endpoint == "" {
		return nil, &ConfigError{Reason: "endpoint is required"}
	}
	credential := strings.TrimSpace(req.Credential)
	if credential == "" {
		return nil, &ConfigError{Reason: "credential is required"}
	}
	req.Endpoint = endpoint
	req.Credential = credential

	started := c.now()
	maxAttempts := c.maxAttempts()
	limiter := c.Limiters.Get(credential)

	for attempt := 1; ; attempt++ {
		// Admission counts every retry against the local budget so a
		// server-side rejection cannot bypass the limiter.
		admissionStart := c.now()
		if err := limiter.Acquire(ctx); err != nil {
			return nil, err
		}
		if c.now().Sub(admissionStart) > time.Millisecond {
			metrics.RecordAdmissionWait(Fingerprint(credential))
		}

		outcome, retry, err := c.attempt(ctx, req)
		if err != nil {
			return nil, err
		}

		if !retry {
			outcome.Attempts = attempt
			outcome.Elapsed = c.now().Sub(started)
			c.finish(ctx, req, outcome)
			return outcome, nil
		}

		if attempt >= maxAttempts {
			exhausted := &RateLimitExhaustedError{Endpoint: endpoint, Attempts: attempt}
			elapsed := c.now().Sub(started)
			c.logOutcome(req, &Outcome{
				Kind:       KindTransportError,
				StatusCode: http.StatusTooManyRequests,
				Attempts:   attempt,
				Elapsed:    elapsed,
			}, exhausted)
			metrics.RecordDispatch(endpoint, "rate_limit_exhausted", attempt, elapsed)
			return nil, exhausted
		}

		if err := c.sleepFn()(ctx, c.backoff(attempt)); err != nil {
			return nil, err
		}
	}
}

// attempt runs one admission-free network cycle. retry=true means the
// upstream answered 429 and the caller should loop.
func (c *Client) attempt(ctx context.Context, req Request) (outcome *Outcome, retry bool, err error) {
	body := []byte("{}")
	if req.Payload != nil {
		body, err = json.Marshal(req.Payload)
		if err != nil {
			return nil, false, fmt.Errorf("encode request: %w", err)
		}
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout()
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.requestURL(req), bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json;charset=utf-8")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		// Caller cancellation propagates; an attempt-local deadline is the
		// timeout outcome; anything else is connection-level.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, false, ctxErr
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return &Outcome{Kind: KindTimeout}, false, nil
		}
		return &Outcome{Kind: KindNetworkError, Detail: err.Error()}, false, nil
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, true, nil

	case http.StatusOK:
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return &Outcome{Kind: KindTimeout}, false, nil
			}
			return nil, false, fmt.Errorf("read response: %w", err)
		}

		var env envelope
		if err := json.Unmarshal(respBody, &env); err != nil {
			return nil, false, fmt.Errorf("decode response: %w", err)
		}

		if !env.OK {
			var upstream upstreamError
			_ = json.Unmarshal(env.Result, &upstream)
			description := upstream.Description
			if description == "" {
				description = strings.TrimSpace(string(env.Result))
			}
			return &Outcome{
				Kind:         KindBusinessError,
				BusinessCode: upstream.Error,
				Description:  description,
				StatusCode:   resp.StatusCode,
			}, false, nil
		}

		return &Outcome{Kind: KindSuccess, Result: env.Result, StatusCode: resp.StatusCode}, false, nil

	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return &Outcome{Kind: KindTransportError, StatusCode: resp.StatusCode}, false, nil
	}
}

// finish logs the terminal outcome, emits metrics and records it when a
// recorder is wired.
func (c *Client) finish(ctx context.Context, req Request, outcome *Outcome) {
	c.logOutcome(req, outcome, nil)
	metrics.RecordDispatch(req.Endpoint, string(outcome.Kind), outcome.Attempts, outcome.Elapsed)

	if c.Recorder == nil {
		return
	}
	rec := RequestRecord{
		ID:         uuid.New().String(),
		Credential: Fingerprint(req.Credential),
		Endpoint:   req.Endpoint,
		Kind:       outcome.Kind,
		StatusCode: outcome.StatusCode,
		Attempts:   outcome.Attempts,
		Duration:   outcome.Elapsed,
		CreatedAt:  c.now().UTC(),
	}
	if err := c.Recorder.RecordRequest(ctx, rec); err != nil && c.Logger != nil {
		c.Logger.Warn("Request log write failed", zap.Error(err))
	}
}

func (c *Client) logOutcome(req Request, outcome *Outcome, err error) {
	if c.Logger == nil {
		return
	}

	fields := []zap.Field{
		zap.String("endpoint", req.Endpoint),
		zap.String("credential", Fingerprint(req.Credential)),
		zap.String("outcome", string(outcome.Kind)),
		zap.Int("attempts", outcome.Attempts),
		zap.Duration("elapsed", outcome.Elapsed),
	}
	if outcome.StatusCode != 0 {
		fields = append(fields, zap.Int("status", outcome.StatusCode))
	}

	switch {
	case err != nil:
		c.Logger.Error("REGOS request failed", append(fields, zap.Error(err))...)
	case outcome.Kind == KindSuccess:
		c.Logger.Info("REGOS request completed", fields...)
	default:
		c.Logger.Warn("REGOS request failed", fields...)
	}
}

func (c *Client) requestURL(req Request) string {
	base := c.BaseURL
	if strings.TrimSpace(base) == "" {
		base = defaultBaseURL
	}
	return strings.TrimRight(base, "/") + "/gateway/out/" + url.PathEscape(req.Credential) + "/v1/" + req.Endpoint
}

// backoff grows the base delay exponentially and adds up to 50% jitter so
// concurrent callers rejected together do not retry in lockstep.
func (c *Client) backoff(attempt int) time.Duration {
	base := c.RetryDelay
	if base <= 0 {
		base = defaultRetryDelay
	}

	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	return delay + time.Duration(rand.Int63n(int64(delay)/2+1))
}

func (c *Client) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return defaultTimeout
}

func (c *Client) maxAttempts() int {
	if c.MaxAttempts > 0 {
		return c.MaxAttempts
	}
	return defaultMaxAttempts
}

func (c *Client) now() time.Time {
	if c != nil && c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

func (c *Client) sleepFn() func(ctx context.Context, d time.Duration) error {
	if c.sleep != nil {
		return c.sleep
	}
	return sleepContext
}

// Fingerprint returns a short stable identifier for a credential suitable
// for logs and storage. The raw token never leaves the dispatch path.
func Fingerprint(credential string) string {
	sum := sha256.Sum256([]byte(credential))
	return hex.EncodeToString(sum[:4])
}
