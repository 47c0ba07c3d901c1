package bridge

import (
	"context"
	"time"

	"github.com/mrz1836/corecall/internal/ffi"
)

// Continuation receives the outcome of an asynchronous call. Exactly one of
// the two functions runs, exactly once. Both are required.
type Continuation[Resp any] struct {
	OnSuccess func(resp Resp)
	OnError   func(err error)
}

type callOptions struct {
	executor Executor
}

// CallOption configures one asynchronous call.
type CallOption func(*callOptions)

// DeliverOn runs the continuation on e instead of the handle's executor.
func DeliverOn(e Executor) CallOption {
	return func(o *callOptions) {
		if e != nil {
			o.executor = e
		}
	}
}

// CallAsync starts one request and returns without waiting for it. The
// continuation runs on the chosen executor; with Inline it runs on the native
// completion goroutine before the trampoline returns. Encoding failures and
// calls on a closed handle are reported through OnError on the same executor.
//
// CallAsync panics if either continuation function is nil.
func CallAsync[Req, Resp any](h *Handle, codec Codec[Req, Resp], req Req, k Continuation[Resp], opts ...CallOption) {
	if k.OnSuccess == nil || k.OnError == nil {
		panic("bridge: CallAsync requires both OnSuccess and OnError")
	}

	o := callOptions{executor: h.executor}
	for _, opt := range opts {
		opt(&o)
	}

	fail := func(err error) {
		o.executor.Dispatch(func() { k.OnError(err) })
	}

	if err := h.begin(); err != nil {
		fail(err)
		return
	}

	b, err := codec.Marshal(req)
	if err != nil {
		h.end()
		nce := encodeError(err)
		h.metrics.RecordFailure(nce.Origin.String())
		fail(nce)
		return
	}

	p := &pendingCall{op: opName(codec), started: time.Now()}
	p.settle = func(out ffi.Outcome, err error) {
		resp, err := settle(codec, out, err)
		h.finish(p.op, true, p.started, err)
		p.advance(stateCompleted)

		o.executor.Dispatch(func() {
			p.advance(stateDelivered)
			if err != nil {
				k.OnError(err)
				return
			}
			k.OnSuccess(resp)
		})
	}

	token := h.calls.put(p)
	h.metrics.CallStarted(true)
	p.advance(stateInFlight)
	h.native.CallAsync(h.id, b, h.complete, token)
}

// complete is the trampoline handed to the native side.
func (h *Handle) complete(token ffi.Token, r ffi.Result) {
	p, ok := h.calls.take(token)
	if !ok {
		h.release(r)
		h.violation(&ffi.ContractViolation{
			Reason: "trampoline invoked for an unknown or completed call",
			Token:  token,
		})
		return
	}

	out, err := ffi.Take(h.release, r)
	if err != nil {
		h.reportViolation(err)
	}

	// The call stops counting as in flight once its result is released, so
	// a continuation may close the handle.
	h.end()
	p.settle(out, err)
}

// Await performs an asynchronous call and suspends until it completes or ctx
// ends. Ending ctx abandons the wait only: the native call still runs and its
// result is still released.
func Await[Req, Resp any](ctx context.Context, h *Handle, codec Codec[Req, Resp], req Req) (Resp, error) {
	type outcome struct {
		resp Resp
		err  error
	}
	done := make(chan outcome, 1)

	CallAsync(h, codec, req, Continuation[Resp]{
		OnSuccess: func(resp Resp) { done <- outcome{resp: resp} },
		OnError:   func(err error) { done <- outcome{err: err} },
	}, DeliverOn(Inline))

	select {
	case o := <-done:
		return o.resp, o.err
	case <-ctx.Done():
		var zero Resp
		return zero, ctx.Err()
	}
}
