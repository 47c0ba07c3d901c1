// Package bridge carries typed calls across the native boundary.
//
// A Handle owns one live core. Call blocks the calling goroutine until the
// core answers. CallAsync returns at once and delivers the answer to a
// continuation, on an Executor when one is given. Await suspends a goroutine
// on an asynchronous call. Every native result is copied out and released
// exactly once, whatever the outcome.
package bridge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mrz1836/corecall/internal/envelope"
	"github.com/mrz1836/corecall/internal/ffi"
	"github.com/mrz1836/corecall/internal/metrics"
	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

// Codec encodes requests and decodes responses for one operation.
type Codec[Req, Resp any] interface {
	Marshal(req Req) ([]byte, error)
	Unmarshal(b []byte) (Resp, error)
}

// ViolationHandler is called when the native side breaks the boundary
// contract in a way no pending call can absorb.
type ViolationHandler func(err error)

// PanicOnViolation is the default ViolationHandler.
func PanicOnViolation(err error) {
	panic(err)
}

// Handle is an opened core. It must not be copied.
type Handle struct {
	native      ffi.Native
	id          ffi.CoreID
	logger      *zap.Logger
	metrics     *metrics.Metrics
	executor    Executor
	onViolation ViolationHandler
	calls       registry

	mu       sync.RWMutex
	closed   bool
	freed    bool
	inflight sync.WaitGroup
}

// Option configures a Handle.
type Option func(*Handle)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handle) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink. The default is metrics.Global.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handle) {
		if m != nil {
			h.metrics = m
		}
	}
}

// WithExecutor sets the executor used by CallAsync when no DeliverOn option
// is given. The default is Inline.
func WithExecutor(e Executor) Option {
	return func(h *Handle) {
		if e != nil {
			h.executor = e
		}
	}
}

// WithViolationHandler replaces PanicOnViolation.
func WithViolationHandler(fn ViolationHandler) Option {
	return func(h *Handle) {
		if fn != nil {
			h.onViolation = fn
		}
	}
}

// Open creates a core and returns its handle.
func Open(native ffi.Native, cfg ffi.CoreConfig, opts ...Option) (*Handle, error) {
	h := &Handle{
		native:      native,
		logger:      zap.NewNop(),
		metrics:     metrics.Global,
		executor:    Inline,
		onViolation: PanicOnViolation,
	}
	for _, opt := range opts {
		opt(h)
	}

	id, err := native.CreateCore(cfg)
	if err != nil {
		return nil, coreerr.Wrap(err, "create core")
	}
	if id == 0 {
		return nil, &ffi.ContractViolation{Reason: "create_core returned a zero handle"}
	}
	h.id = id

	h.logger = h.logger.With(zap.Uint64("core", uint64(id)))
	h.logger.Debug("core created",
		zap.String("rest_url", cfg.RestURL),
		zap.String("faucet_url", cfg.FaucetURL))

	return h, nil
}

// ID returns the native identity of the core.
func (h *Handle) ID() ffi.CoreID {
	return h.id
}

// Pending returns the number of asynchronous calls awaiting their trampoline.
func (h *Handle) Pending() int {
	return h.calls.len()
}

// Close rejects new calls, waits until every outstanding call has been
// delivered and then frees the core. If ctx ends first the core stays alive
// and Close may be called again. Closing a freed handle returns
// coreerr.ErrHandleClosed.
func (h *Handle) Close(ctx context.Context) error {
	h.mu.Lock()
	if h.freed {
		h.mu.Unlock()
		return coreerr.ErrHandleClosed
	}
	h.closed = true
	h.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		h.inflight.Wait()
		close(drained)
	}()

	select {
	case <-drained:
	case <-ctx.Done():
		h.logger.Error("close abandoned with calls in flight",
			zap.Int("pending", h.Pending()),
			zap.Error(ctx.Err()))
		return ctx.Err()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.freed {
		return coreerr.ErrHandleClosed
	}
	h.freed = true
	h.native.FreeCore(h.id)
	h.logger.Debug("core freed")
	return nil
}

// begin admits one call. Every successful begin is matched by end.
func (h *Handle) begin() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return coreerr.ErrHandleClosed
	}
	h.inflight.Add(1)
	return nil
}

func (h *Handle) end() {
	h.inflight.Done()
}

// release hands a result back to the native side.
func (h *Handle) release(r ffi.Result) {
	h.native.FreeResult(r)
	h.metrics.RecordResultReleased()
}

// reportViolation records a contract breach that is returned to a caller.
func (h *Handle) reportViolation(err error) {
	h.metrics.RecordContractViolation()
	h.logger.Error("native contract violation", zap.Error(err))
}

// violation handles a contract breach no caller can receive.
func (h *Handle) violation(err error) {
	h.reportViolation(err)
	h.onViolation(err)
}

// finish logs and counts a completed call.
func (h *Handle) finish(op string, async bool, started time.Time, err error) {
	elapsed := time.Since(started)
	if err == nil {
		h.metrics.CallFinished(elapsed, "")
		h.logger.Debug("core call",
			zap.String("op", op),
			zap.Bool("async", async),
			zap.Duration("elapsed", elapsed))
		return
	}

	origin := ""
	if nce, ok := err.(*NativeCallError); ok { //nolint:errorlint // settle returns the concrete type
		origin = nce.Origin.String()
	}
	h.metrics.CallFinished(elapsed, origin)
	h.logger.Debug("core call failed",
		zap.String("op", op),
		zap.Bool("async", async),
		zap.String("origin", origin),
		zap.Duration("elapsed", elapsed),
		zap.Error(err))
}

// settle converts a materialized outcome into a typed response.
func settle[Req, Resp any](codec Codec[Req, Resp], out ffi.Outcome, err error) (Resp, error) {
	var zero Resp
	if err != nil {
		return zero, err
	}
	if out.Failed {
		return zero, &NativeCallError{Message: out.Message, Origin: OriginNative}
	}
	resp, err := codec.Unmarshal(out.Data)
	if err != nil {
		return zero, decodeError(err)
	}
	return resp, nil
}

// opName labels a call for logs.
func opName(codec any) string {
	if c, ok := codec.(interface{ Op() envelope.Op }); ok {
		return c.Op().String()
	}
	return fmt.Sprintf("%T", codec)
}
