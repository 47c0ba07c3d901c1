package bridge

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mrz1836/corecall/internal/envelope"
	"github.com/mrz1836/corecall/internal/ffi"
	"github.com/mrz1836/corecall/internal/metrics"
	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

const waitFor = 2 * time.Second

func openTestHandle(t *testing.T, f *fakeNative, opts ...Option) (*Handle, *metrics.Metrics) {
	t.Helper()
	m := &metrics.Metrics{}
	h, err := Open(f, ffi.CoreConfig{RestURL: "http://node", FaucetURL: "http://faucet"},
		append([]Option{WithMetrics(m)}, opts...)...)
	require.NoError(t, err)
	return h, m
}

func TestOpen(t *testing.T) {
	t.Parallel()
	f := newFakeNative(t)
	h, _ := openTestHandle(t, f)
	assert.Equal(t, ffi.CoreID(7), h.ID())
	assert.Zero(t, h.Pending())
}

func TestCallSuccess(t *testing.T) {
	t.Parallel()
	f := newFakeNative(t)
	f.respond = func(req []byte) ffi.Result {
		decoded, err := envelope.UnmarshalRequest(req)
		require.NoError(t, err)
		g := decoded.Body.(*envelope.GreetingRequest) //nolint:forcetypeassert // test
		return f.ok(envelope.OpGreeting, &envelope.GreetingResponse{Text: g.Verb + ", " + g.Name + "!"})
	}
	h, m := openTestHandle(t, f)

	resp, err := Call(h, envelope.GreetingCodec{}, &envelope.GreetingRequest{Verb: "Hello", Name: "Aptos"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, Aptos!", resp.Text)

	f.assertBalanced(t)
	assert.Equal(t, int64(1), f.syncCalls.Load())
	snap := m.Snapshot()
	assert.Equal(t, int64(1), snap.SyncCallsTotal)
	assert.Equal(t, int64(1), snap.ResultsReleased)
	assert.Zero(t, snap.InFlight)
}

// A native error string surfaces verbatim and no decode is attempted.
func TestCallNativeErrorIsVerbatim(t *testing.T) {
	t.Parallel()
	f := newFakeNative(t)
	f.respond = func([]byte) ffi.Result { return f.fail("insufficient funds") }
	h, m := openTestHandle(t, f)

	codec := &spyCodec[*envelope.FundWalletRequest, *envelope.FundWalletResponse]{inner: envelope.FundWalletCodec{}}
	_, err := Call[*envelope.FundWalletRequest, *envelope.FundWalletResponse](h, codec, &envelope.FundWalletRequest{Address: "0x1", Amount: 10})

	var nce *NativeCallError
	require.ErrorAs(t, err, &nce)
	assert.Equal(t, "insufficient funds", nce.Message)
	assert.Equal(t, "insufficient funds", err.Error())
	assert.Equal(t, OriginNative, nce.Origin)
	require.ErrorIs(t, err, coreerr.ErrNativeCall)
	assert.NotErrorIs(t, err, coreerr.ErrDecode)
	assert.Equal(t, coreerr.ExitNative, coreerr.ExitCode(err))

	assert.Zero(t, codec.unmarshals.Load())
	f.assertBalanced(t)
	assert.Equal(t, int64(1), m.Snapshot().NativeErrors)
}

func TestCreateAccountFaucetUnreachable(t *testing.T) {
	t.Parallel()
	f := newFakeNative(t)
	f.respond = func([]byte) ffi.Result { return f.fail("faucet unreachable") }
	h, _ := openTestHandle(t, f)

	_, err := Call(h, envelope.CreateAccountCodec{}, &envelope.CreateAccountRequest{FundAmount: 5000})

	var nce *NativeCallError
	require.ErrorAs(t, err, &nce)
	assert.Equal(t, "faucet unreachable", nce.Message)
	assert.Equal(t, int64(1), f.frees.Load())
	f.assertBalanced(t)
}

func TestCallDecodeFailure(t *testing.T) {
	t.Parallel()
	f := newFakeNative(t)
	f.respond = func([]byte) ffi.Result { return f.raw([]byte{0xff, 0xff, 0xff}) }
	h, m := openTestHandle(t, f)

	_, err := Call(h, envelope.GetWalletBalanceCodec{}, &envelope.GetWalletBalanceRequest{Address: "0x1"})

	var nce *NativeCallError
	require.ErrorAs(t, err, &nce)
	assert.Equal(t, OriginDecode, nce.Origin)
	require.ErrorIs(t, err, coreerr.ErrDecode)
	require.ErrorIs(t, err, coreerr.ErrNativeCall)
	assert.Equal(t, coreerr.ExitInternal, coreerr.ExitCode(err))
	f.assertBalanced(t)

	snap := m.Snapshot()
	assert.Equal(t, int64(1), snap.DecodeErrors)
	assert.Zero(t, snap.NativeErrors)
}

func TestCallWrongVariantIsDecodeFailure(t *testing.T) {
	t.Parallel()
	f := newFakeNative(t)
	f.respond = func([]byte) ffi.Result {
		return f.ok(envelope.OpGreeting, &envelope.GreetingResponse{Text: "hi"})
	}
	h, _ := openTestHandle(t, f)

	_, err := Call(h, envelope.GetWalletBalanceCodec{}, &envelope.GetWalletBalanceRequest{Address: "0x1"})
	require.ErrorIs(t, err, envelope.ErrVariantMismatch)
	require.ErrorIs(t, err, coreerr.ErrDecode)
	f.assertBalanced(t)
}

func TestCallEncodeFailureSkipsNative(t *testing.T) {
	t.Parallel()
	f := newFakeNative(t)
	h, m := openTestHandle(t, f)

	boom := errors.New("boom")
	codec := &spyCodec[*envelope.SleepRequest, *envelope.SleepResponse]{inner: envelope.SleepCodec{}, marshalErr: boom}
	_, err := Call[*envelope.SleepRequest, *envelope.SleepResponse](h, codec, &envelope.SleepRequest{Millis: 1})

	var nce *NativeCallError
	require.ErrorAs(t, err, &nce)
	assert.Equal(t, OriginEncode, nce.Origin)
	require.ErrorIs(t, err, coreerr.ErrEncode)
	require.ErrorIs(t, err, boom)
	assert.Zero(t, f.syncCalls.Load())
	assert.Zero(t, f.allocs.Load())
	assert.Equal(t, int64(1), m.Snapshot().EncodeErrors)
}

func TestCallContractViolation(t *testing.T) {
	t.Parallel()
	f := newFakeNative(t)
	f.respond = func([]byte) ffi.Result { return f.empty() }
	h, m := openTestHandle(t, f)

	_, err := Call(h, envelope.GreetingCodec{}, &envelope.GreetingRequest{})
	var violation *ffi.ContractViolation
	require.ErrorAs(t, err, &violation)
	require.ErrorIs(t, err, coreerr.ErrContractViolation)
	f.assertBalanced(t)
	assert.Equal(t, int64(1), m.Snapshot().ContractViolations)
}

func TestCallLogsOriginDistinctly(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.DebugLevel)
	f := newFakeNative(t)

	var next atomic.Int32
	f.respond = func([]byte) ffi.Result {
		if next.Add(1) == 1 {
			return f.fail("node down")
		}
		return f.raw([]byte{0x0a})
	}
	h, _ := openTestHandle(t, f, WithLogger(zap.New(core)))

	_, err := Call(h, envelope.GetWalletBalanceCodec{}, &envelope.GetWalletBalanceRequest{})
	require.Error(t, err)
	_, err = Call(h, envelope.GetWalletBalanceCodec{}, &envelope.GetWalletBalanceRequest{})
	require.Error(t, err)

	failed := logs.FilterMessage("core call failed").All()
	require.Len(t, failed, 2)
	assert.Equal(t, "native", failed[0].ContextMap()["origin"])
	assert.Equal(t, "decode", failed[1].ContextMap()["origin"])
	assert.Equal(t, "get_wallet_balance", failed[0].ContextMap()["op"])
}

// The balance query completes on a background goroutine and is delivered on
// the "main" queue.
func TestCallAsyncDeliversOnMainQueue(t *testing.T) {
	t.Parallel()
	f := newFakeNative(t)
	h, _ := openTestHandle(t, f)
	main := NewSerialQueue("main")
	defer main.Close()

	type delivery struct {
		balance uint64
		onMain  bool
	}
	got := make(chan delivery, 1)

	CallAsync(h, envelope.GetWalletBalanceCodec{}, &envelope.GetWalletBalanceRequest{Address: "0xabc"},
		Continuation[*envelope.GetWalletBalanceResponse]{
			OnSuccess: func(resp *envelope.GetWalletBalanceResponse) {
				got <- delivery{balance: resp.Balance, onMain: main.Executing()}
			},
			OnError: func(err error) { t.Errorf("unexpected error: %v", err) },
		},
		DeliverOn(main))

	parked := f.takeParked()
	require.Len(t, parked, 1)
	assert.Equal(t, 1, h.Pending())

	go parked[0].fn(parked[0].token, f.ok(envelope.OpGetWalletBalance, &envelope.GetWalletBalanceResponse{Balance: 4200}))

	select {
	case d := <-got:
		assert.Equal(t, uint64(4200), d.balance)
		assert.True(t, d.onMain)
	case <-time.After(waitFor):
		t.Fatal("continuation never ran")
	}
	f.assertBalanced(t)
	assert.Zero(t, h.Pending())
}

// Without an executor the continuation runs inside the trampoline call.
func TestCallAsyncInlineRunsInsideTrampoline(t *testing.T) {
	t.Parallel()
	f := newFakeNative(t)
	h, _ := openTestHandle(t, f)

	var ran atomic.Bool
	returned := make(chan struct{})
	ranBeforeReturn := make(chan bool, 1)

	CallAsync(h, envelope.GreetingCodec{}, &envelope.GreetingRequest{},
		Continuation[*envelope.GreetingResponse]{
			OnSuccess: func(*envelope.GreetingResponse) {
				ran.Store(true)
				select {
				case <-returned:
					ranBeforeReturn <- false
				default:
					ranBeforeReturn <- true
				}
			},
			OnError: func(err error) { t.Errorf("unexpected error: %v", err) },
		})

	parked := f.takeParked()
	require.Len(t, parked, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		parked[0].fn(parked[0].token, f.ok(envelope.OpGreeting, &envelope.GreetingResponse{Text: "hi"}))
		assert.True(t, ran.Load(), "continuation must run before the trampoline returns")
		close(returned)
	}()
	<-done
	assert.True(t, <-ranBeforeReturn)
	f.assertBalanced(t)
}

func TestCallAsyncHandleExecutorIsDefault(t *testing.T) {
	t.Parallel()
	f := newFakeNative(t)
	var dispatched atomic.Int32
	exec := ExecutorFunc(func(fn func()) {
		dispatched.Add(1)
		fn()
	})
	h, _ := openTestHandle(t, f, WithExecutor(exec))

	got := make(chan error, 1)
	CallAsync(h, envelope.SleepCodec{}, &envelope.SleepRequest{Millis: 1},
		Continuation[*envelope.SleepResponse]{
			OnSuccess: func(*envelope.SleepResponse) { got <- nil },
			OnError:   func(err error) { got <- err },
		})
	parked := f.takeParked()
	require.Len(t, parked, 1)
	parked[0].fn(parked[0].token, f.fail("interrupted"))

	err := <-got
	require.Error(t, err)
	assert.Equal(t, "interrupted", err.Error())
	assert.Equal(t, int32(1), dispatched.Load())
	f.assertBalanced(t)
}

// Two calls completed in reverse order each receive their own response.
func TestCallAsyncReverseCompletionNoCrossTalk(t *testing.T) {
	t.Parallel()
	f := newFakeNative(t)
	h, _ := openTestHandle(t, f)
	main := NewSerialQueue("main")
	defer main.Close()

	var wg sync.WaitGroup
	results := make([]uint64, 2)
	deliveries := make([]atomic.Int32, 2)
	for i, addr := range []string{"0xa", "0xb"} {
		wg.Add(1)
		CallAsync(h, envelope.GetWalletBalanceCodec{}, &envelope.GetWalletBalanceRequest{Address: addr},
			Continuation[*envelope.GetWalletBalanceResponse]{
				OnSuccess: func(resp *envelope.GetWalletBalanceResponse) {
					defer wg.Done()
					deliveries[i].Add(1)
					results[i] = resp.Balance
				},
				OnError: func(err error) {
					defer wg.Done()
					t.Errorf("call %d: %v", i, err)
				},
			},
			DeliverOn(main))
	}

	parked := f.takeParked()
	require.Len(t, parked, 2)
	assert.NotEqual(t, parked[0].token, parked[1].token)

	balanceFor := func(c asyncCall) uint64 {
		req, err := envelope.UnmarshalRequest(c.request)
		require.NoError(t, err)
		if req.Body.(*envelope.GetWalletBalanceRequest).Address == "0xa" { //nolint:forcetypeassert // test
			return 100
		}
		return 200
	}

	var completers sync.WaitGroup
	for _, i := range []int{1, 0} {
		c := parked[i]
		res := f.ok(envelope.OpGetWalletBalance, &envelope.GetWalletBalanceResponse{Balance: balanceFor(c)})
		completers.Add(1)
		go func() {
			defer completers.Done()
			c.fn(c.token, res)
		}()
		completers.Wait()
	}

	wg.Wait()
	assert.Equal(t, []uint64{100, 200}, results)
	assert.Equal(t, int32(1), deliveries[0].Load())
	assert.Equal(t, int32(1), deliveries[1].Load())
	f.assertBalanced(t)
}

// A second trampoline invocation for the same token is a detected violation.
func TestTrampolineTwiceIsContractViolation(t *testing.T) {
	t.Parallel()
	f := newFakeNative(t)
	var violations []error
	var mu sync.Mutex
	h, m := openTestHandle(t, f, WithViolationHandler(func(err error) {
		mu.Lock()
		defer mu.Unlock()
		violations = append(violations, err)
	}))

	var successes atomic.Int32
	CallAsync(h, envelope.GreetingCodec{}, &envelope.GreetingRequest{},
		Continuation[*envelope.GreetingResponse]{
			OnSuccess: func(*envelope.GreetingResponse) { successes.Add(1) },
			OnError:   func(err error) { t.Errorf("unexpected error: %v", err) },
		})

	parked := f.takeParked()
	require.Len(t, parked, 1)
	c := parked[0]
	c.fn(c.token, f.ok(envelope.OpGreeting, &envelope.GreetingResponse{Text: "first"}))
	c.fn(c.token, f.ok(envelope.OpGreeting, &envelope.GreetingResponse{Text: "second"}))

	assert.Equal(t, int32(1), successes.Load())
	require.Len(t, violations, 1)
	var violation *ffi.ContractViolation
	require.ErrorAs(t, violations[0], &violation)
	assert.Equal(t, c.token, violation.Token)
	assert.Equal(t, int64(1), m.Snapshot().ContractViolations)

	// Both results were released, including the rejected one.
	f.assertBalanced(t)
}

func TestTrampolineUnknownTokenPanicsByDefault(t *testing.T) {
	t.Parallel()
	f := newFakeNative(t)
	h, _ := openTestHandle(t, f)

	res := f.ok(envelope.OpGreeting, &envelope.GreetingResponse{Text: "stray"})
	assert.Panics(t, func() { h.complete(ffi.Token(999), res) })
	f.assertBalanced(t)
}

func TestCallAsyncMalformedResultGoesToOnError(t *testing.T) {
	t.Parallel()
	f := newFakeNative(t)
	h, _ := openTestHandle(t, f, WithViolationHandler(func(err error) {
		t.Errorf("handler must not run for an attributable violation: %v", err)
	}))

	got := make(chan error, 1)
	CallAsync(h, envelope.GreetingCodec{}, &envelope.GreetingRequest{},
		Continuation[*envelope.GreetingResponse]{
			OnSuccess: func(*envelope.GreetingResponse) { got <- nil },
			OnError:   func(err error) { got <- err },
		})
	parked := f.takeParked()
	parked[0].fn(parked[0].token, f.empty())

	require.ErrorIs(t, <-got, coreerr.ErrContractViolation)
	f.assertBalanced(t)
}

func TestCallAsyncEncodeFailureGoesToOnError(t *testing.T) {
	t.Parallel()
	f := newFakeNative(t)
	h, _ := openTestHandle(t, f)
	main := NewSerialQueue("main")
	defer main.Close()

	codec := &spyCodec[*envelope.SleepRequest, *envelope.SleepResponse]{inner: envelope.SleepCodec{}, marshalErr: errors.New("bad")}
	got := make(chan bool, 1)
	CallAsync[*envelope.SleepRequest, *envelope.SleepResponse](h, codec, &envelope.SleepRequest{},
		Continuation[*envelope.SleepResponse]{
			OnSuccess: func(*envelope.SleepResponse) { t.Error("unexpected success") },
			OnError: func(err error) {
				assert.ErrorIs(t, err, coreerr.ErrEncode)
				got <- main.Executing()
			},
		},
		DeliverOn(main))

	select {
	case onMain := <-got:
		assert.True(t, onMain)
	case <-time.After(waitFor):
		t.Fatal("OnError never ran")
	}
	assert.Zero(t, f.asyncCalls.Load())
	assert.Zero(t, h.Pending())
}

func TestCallAsyncRequiresBothContinuations(t *testing.T) {
	t.Parallel()
	f := newFakeNative(t)
	h, _ := openTestHandle(t, f)

	assert.Panics(t, func() {
		CallAsync(h, envelope.GreetingCodec{}, &envelope.GreetingRequest{},
			Continuation[*envelope.GreetingResponse]{OnSuccess: func(*envelope.GreetingResponse) {}})
	})
	assert.Panics(t, func() {
		CallAsync(h, envelope.GreetingCodec{}, &envelope.GreetingRequest{},
			Continuation[*envelope.GreetingResponse]{OnError: func(error) {}})
	})
	assert.Zero(t, f.asyncCalls.Load())
}

func TestAwait(t *testing.T) {
	t.Parallel()
	f := newFakeNative(t)
	h, _ := openTestHandle(t, f)

	go func() {
		if !assert.Eventually(t, func() bool { return f.parkedLen() == 1 }, waitFor, time.Millisecond) {
			return
		}
		c := f.takeParked()[0]
		c.fn(c.token, f.ok(envelope.OpGetAsyncBacktrace, &envelope.BacktraceResponse{Text: "frames"}))
	}()

	resp, err := Await(context.Background(), h, envelope.AsyncBacktraceCodec{}, &envelope.AsyncBacktraceRequest{})
	require.NoError(t, err)
	assert.Equal(t, "frames", resp.Text)
	f.assertBalanced(t)
}

func TestAwaitCancelAbandonsWaitOnly(t *testing.T) {
	t.Parallel()
	f := newFakeNative(t)
	h, _ := openTestHandle(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Await(ctx, h, envelope.SleepCodec{}, &envelope.SleepRequest{Millis: 10})
	require.ErrorIs(t, err, context.Canceled)

	// The native call is still outstanding and its late result is released.
	parked := f.takeParked()
	require.Len(t, parked, 1)
	assert.Equal(t, 1, h.Pending())
	parked[0].fn(parked[0].token, f.ok(envelope.OpSleep, &envelope.SleepResponse{Text: "slept"}))
	assert.Zero(t, h.Pending())
	f.assertBalanced(t)
}

func TestCloseDrainsInFlightCalls(t *testing.T) {
	t.Parallel()
	f := newFakeNative(t)
	h, _ := openTestHandle(t, f)

	got := make(chan error, 1)
	CallAsync(h, envelope.SleepCodec{}, &envelope.SleepRequest{Millis: 1},
		Continuation[*envelope.SleepResponse]{
			OnSuccess: func(*envelope.SleepResponse) { got <- nil },
			OnError:   func(err error) { got <- err },
		})

	// A short deadline expires while the call is outstanding; the core lives.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, h.Close(ctx), context.DeadlineExceeded)
	assert.Empty(t, f.freedCores())

	// New calls are refused once closing has begun.
	_, err := Call(h, envelope.GreetingCodec{}, &envelope.GreetingRequest{})
	require.ErrorIs(t, err, coreerr.ErrHandleClosed)

	closed := make(chan error, 1)
	go func() { closed <- h.Close(context.Background()) }()

	parked := f.takeParked()
	require.Len(t, parked, 1)
	parked[0].fn(parked[0].token, f.ok(envelope.OpSleep, &envelope.SleepResponse{Text: "slept"}))
	require.NoError(t, <-got)

	select {
	case err := <-closed:
		require.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("Close did not return after the call drained")
	}
	assert.Equal(t, []ffi.CoreID{7}, f.freedCores())
	f.assertBalanced(t)

	require.ErrorIs(t, h.Close(context.Background()), coreerr.ErrHandleClosed)
	assert.Len(t, f.freedCores(), 1)
}

func TestCallAsyncOnClosedHandle(t *testing.T) {
	t.Parallel()
	f := newFakeNative(t)
	h, _ := openTestHandle(t, f)
	require.NoError(t, h.Close(context.Background()))

	got := make(chan error, 1)
	CallAsync(h, envelope.GreetingCodec{}, &envelope.GreetingRequest{},
		Continuation[*envelope.GreetingResponse]{
			OnSuccess: func(*envelope.GreetingResponse) { got <- nil },
			OnError:   func(err error) { got <- err },
		})
	require.ErrorIs(t, <-got, coreerr.ErrHandleClosed)
	assert.Zero(t, f.asyncCalls.Load())
}

func TestContinuationMayCloseHandle(t *testing.T) {
	t.Parallel()
	f := newFakeNative(t)
	h, _ := openTestHandle(t, f)

	closed := make(chan error, 1)
	CallAsync(h, envelope.GreetingCodec{}, &envelope.GreetingRequest{},
		Continuation[*envelope.GreetingResponse]{
			OnSuccess: func(*envelope.GreetingResponse) { closed <- h.Close(context.Background()) },
			OnError:   func(err error) { closed <- err },
		})
	parked := f.takeParked()
	parked[0].fn(parked[0].token, f.ok(envelope.OpGreeting, &envelope.GreetingResponse{}))

	require.NoError(t, <-closed)
	assert.Len(t, f.freedCores(), 1)
}

// Every result produced under a mixed concurrent workload is released once.
func TestReleaseBalanceUnderLoad(t *testing.T) {
	t.Parallel()
	f := newFakeNative(t)
	var n atomic.Int32
	f.respond = func([]byte) ffi.Result {
		switch n.Add(1) % 3 {
		case 0:
			return f.fail("nope")
		case 1:
			return f.raw([]byte{0xff})
		default:
			return f.ok(envelope.OpGreeting, &envelope.GreetingResponse{Text: "ok"})
		}
	}
	h, m := openTestHandle(t, f)

	var wg sync.WaitGroup
	for range 30 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = Call(h, envelope.GreetingCodec{}, &envelope.GreetingRequest{})
		}()
	}
	for range 30 {
		CallAsync(h, envelope.GreetingCodec{}, &envelope.GreetingRequest{},
			Continuation[*envelope.GreetingResponse]{OnSuccess: func(*envelope.GreetingResponse) {}, OnError: func(error) {}})
	}
	wg.Wait()

	for _, c := range f.takeParked() {
		wg.Add(1)
		res := f.respond(c.request)
		go func() {
			defer wg.Done()
			c.fn(c.token, res)
		}()
	}
	wg.Wait()

	require.NoError(t, h.Close(context.Background()))
	f.assertBalanced(t)
	assert.Equal(t, int64(60), f.allocs.Load())
	assert.Equal(t, int64(60), m.Snapshot().ResultsReleased)
	assert.Zero(t, m.InFlight())
}

func TestNativeCallErrorOrigins(t *testing.T) {
	t.Parallel()
	cause := errors.New("cause")
	tests := []struct {
		origin Origin
		name   string
		target error
		exit   int
	}{
		{OriginNative, "native", coreerr.ErrNativeCall, coreerr.ExitNative},
		{OriginDecode, "decode", coreerr.ErrDecode, coreerr.ExitInternal},
		{OriginEncode, "encode", coreerr.ErrEncode, coreerr.ExitInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := &NativeCallError{Message: "m", Origin: tt.origin, Cause: cause}
			assert.Equal(t, tt.name, tt.origin.String())
			require.ErrorIs(t, err, tt.target)
			require.ErrorIs(t, err, coreerr.ErrNativeCall)
			require.ErrorIs(t, err, cause)
			assert.Equal(t, tt.exit, coreerr.ExitCode(err))
			assert.Equal(t, "m", err.Error())
		})
	}
}
