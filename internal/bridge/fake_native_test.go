package bridge

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mrz1836/corecall/internal/envelope"
	"github.com/mrz1836/corecall/internal/ffi"
)

// asyncCall is a request parked by fakeNative until the test completes it.
type asyncCall struct {
	request []byte
	fn      ffi.Trampoline
	token   ffi.Token
}

// fakeNative is an instrumented ffi.Native. Every result it hands out is
// tracked by an owner id; freeing twice or freeing an unknown result fails
// the test.
type fakeNative struct {
	t *testing.T

	mu         sync.Mutex
	owners     map[int][]byte
	nextOwner  int
	parked     []asyncCall
	coresFreed []ffi.CoreID

	allocs     atomic.Int64
	frees      atomic.Int64
	syncCalls  atomic.Int64
	asyncCalls atomic.Int64

	// respond produces the result of a request. Defaults to an error result.
	respond func(request []byte) ffi.Result
}

func newFakeNative(t *testing.T) *fakeNative {
	t.Helper()
	f := &fakeNative{t: t, owners: make(map[int][]byte)}
	f.respond = func([]byte) ffi.Result { return f.fail("no response configured") }
	return f
}

func (f *fakeNative) alloc(data, errMsg []byte) ffi.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextOwner++
	owner := f.nextOwner
	buf := data
	if errMsg != nil {
		buf = errMsg
	}
	f.owners[owner] = buf
	f.allocs.Add(1)
	return ffi.Result{Data: data, Err: errMsg, Owner: owner}
}

// ok returns a native-owned data result holding resp.
func (f *fakeNative) ok(op envelope.Op, body envelope.Message) ffi.Result {
	b, err := envelope.MarshalResponse(&envelope.Response{Op: op, Body: body})
	require.NoError(f.t, err)
	return f.alloc(b, nil)
}

// raw returns a native-owned data result holding b verbatim.
func (f *fakeNative) raw(b []byte) ffi.Result {
	cp := make([]byte, len(b))
	copy(cp, b)
	return f.alloc(cp, nil)
}

// fail returns a native-owned error result.
func (f *fakeNative) fail(msg string) ffi.Result {
	return f.alloc(nil, []byte(msg))
}

// empty returns a result with neither branch, tracked for release.
func (f *fakeNative) empty() ffi.Result {
	return f.alloc(nil, nil)
}

func (f *fakeNative) CreateCore(ffi.CoreConfig) (ffi.CoreID, error) {
	return 7, nil
}

func (f *fakeNative) FreeCore(id ffi.CoreID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.coresFreed = append(f.coresFreed, id)
}

func (f *fakeNative) CallSync(_ ffi.CoreID, request []byte) ffi.Result {
	f.syncCalls.Add(1)
	return f.respond(request)
}

func (f *fakeNative) CallAsync(_ ffi.CoreID, request []byte, fn ffi.Trampoline, token ffi.Token) {
	f.asyncCalls.Add(1)
	cp := make([]byte, len(request))
	copy(cp, request)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.parked = append(f.parked, asyncCall{request: cp, fn: fn, token: token})
}

func (f *fakeNative) FreeResult(r ffi.Result) {
	owner, ok := r.Owner.(int)
	if !ok {
		f.t.Errorf("FreeResult with foreign owner %v", r.Owner)
		return
	}

	f.mu.Lock()
	buf, live := f.owners[owner]
	delete(f.owners, owner)
	f.mu.Unlock()

	if !live {
		f.t.Errorf("result %d released twice", owner)
		return
	}
	// Poison so any retained view shows up as corruption.
	for i := range buf {
		buf[i] = 0xDD
	}
	f.frees.Add(1)
}

// takeParked removes and returns the parked async calls in issue order.
func (f *fakeNative) takeParked() []asyncCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := f.parked
	f.parked = nil
	return calls
}

func (f *fakeNative) parkedLen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.parked)
}

func (f *fakeNative) outstanding() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.owners)
}

func (f *fakeNative) freedCores() []ffi.CoreID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ffi.CoreID(nil), f.coresFreed...)
}

// assertBalanced checks that every result produced was released once.
func (f *fakeNative) assertBalanced(t *testing.T) {
	t.Helper()
	require.Equal(t, f.allocs.Load(), f.frees.Load(), "allocations and releases differ")
	require.Zero(t, f.outstanding())
}

// spyCodec wraps a codec, counting decodes and optionally failing encodes.
type spyCodec[Req, Resp any] struct {
	inner      Codec[Req, Resp]
	marshalErr error
	unmarshals atomic.Int32
}

func (s *spyCodec[Req, Resp]) Marshal(req Req) ([]byte, error) {
	if s.marshalErr != nil {
		return nil, s.marshalErr
	}
	return s.inner.Marshal(req)
}

func (s *spyCodec[Req, Resp]) Unmarshal(b []byte) (Resp, error) {
	s.unmarshals.Add(1)
	return s.inner.Unmarshal(b)
}
