package aptos

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mrz1836/corecall/internal/metrics"
	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

const (
	// httpTimeout bounds one HTTP exchange.
	httpTimeout = 30 * time.Second

	// maxResponseBody caps how much of a response is read (1 MB).
	maxResponseBody = 1 << 20
)

// ClientOptions configures the node and faucet clients. Zero values select
// defaults.
type ClientOptions struct {
	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client
	// RateLimiter overrides DefaultRateLimiter.
	RateLimiter *RateLimiter
	// Retry overrides the retry policy.
	Retry *RetryConfig
	// Logger receives one debug entry per exchange. Defaults to no-op.
	Logger *zap.Logger
	// Metrics records HTTP exchanges. Defaults to metrics.Global.
	Metrics *metrics.Metrics
	// Now overrides the clock used for transaction expiry.
	Now func() time.Time
}

// NodeError is a non-success HTTP response from a node or faucet. Message is
// the "message" field of the JSON error body when there is one.
type NodeError struct {
	Endpoint   string
	StatusCode int
	Message    string
	ErrorCode  string
	RetryAfter time.Duration
}

func (e *NodeError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s returned HTTP %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Endpoint, e.Message)
}

// Unwrap classifies the status for errors.Is.
func (e *NodeError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return coreerr.ErrNotFound
	case e.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case retryableStatus(e.StatusCode):
		return ErrRetryable
	}
	return coreerr.ErrInvalidResponse
}

// TransportError is a failure to complete an HTTP exchange at all.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s unreachable: %v", e.Endpoint, e.Err)
}

// Unwrap marks transport failures as network errors worth retrying.
func (e *TransportError) Unwrap() []error {
	return []error{coreerr.ErrNetworkError, ErrRetryable, e.Err}
}

// apiError is the JSON error body of the node API.
type apiError struct {
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
}

// transport performs JSON exchanges with one base URL.
type transport struct {
	endpoint string
	baseURL  string
	http     *http.Client
	limiter  *RateLimiter
	retry    RetryConfig
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

func newTransport(endpoint, baseURL string, defaultRetry RetryConfig, opts *ClientOptions) transport {
	t := transport{
		endpoint: endpoint,
		baseURL:  baseURL,
		http: &http.Client{
			Timeout: httpTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
			},
		},
		limiter: DefaultRateLimiter(),
		retry:   defaultRetry,
		logger:  zap.NewNop(),
		metrics: metrics.Global,
	}
	if opts == nil {
		return t
	}
	if opts.HTTPClient != nil {
		t.http = opts.HTTPClient
	}
	if opts.RateLimiter != nil {
		t.limiter = opts.RateLimiter
	}
	if opts.Retry != nil {
		t.retry = *opts.Retry
	}
	if opts.Logger != nil {
		t.logger = opts.Logger
	}
	if opts.Metrics != nil {
		t.metrics = opts.Metrics
	}
	return t
}

// do sends body (may be nil) to path and decodes a success response into out
// (may be nil). Transient failures are retried per the retry policy.
func (t *transport) do(ctx context.Context, method, path string, body []byte, out any) error {
	_, err := Retry(ctx, t.retry, func() (struct{}, error) {
		return struct{}{}, t.once(ctx, method, path, body, out)
	})
	return err
}

func (t *transport) once(ctx context.Context, method, path string, body []byte, out any) (err error) {
	if err = t.limiter.Wait(ctx, t.endpoint); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	started := time.Now()
	defer func() {
		t.metrics.RecordHTTPCall(time.Since(started), err)
		t.logger.Debug("http exchange",
			zap.String("endpoint", t.endpoint),
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err),
		)
	}()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := t.http.Do(req) //nolint:gosec // base URL comes from configuration
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &TransportError{Endpoint: t.endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return &TransportError{Endpoint: t.endpoint, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ne := &NodeError{
			Endpoint:   t.endpoint,
			StatusCode: resp.StatusCode,
			RetryAfter: ParseRetryAfter(resp.Header.Get("Retry-After")),
		}
		var ae apiError
		if json.Unmarshal(data, &ae) == nil {
			ne.Message, ne.ErrorCode = ae.Message, ae.ErrorCode
		}
		return ne
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return coreerr.WithDetails(coreerr.ErrInvalidResponse, map[string]string{
			"endpoint": t.endpoint,
			"path":     path,
			"error":    err.Error(),
		})
	}
	return nil
}

// isNotFound reports whether err is a 404 from the node.
func isNotFound(err error) bool {
	var ne *NodeError
	return errors.As(err, &ne) && ne.StatusCode == http.StatusNotFound
}
