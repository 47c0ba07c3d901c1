package bridge

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/mrz1836/corecall/internal/ffi"
)

// callState tracks a pending call through its life.
type callState int32

const (
	stateCreated callState = iota
	stateInFlight
	stateCompleted
	stateDelivered
)

// pendingCall is the completion context of one asynchronous call.
type pendingCall struct {
	op      string
	started time.Time
	state   atomic.Int32

	// settle turns the materialized outcome into a continuation invocation
	// and hands it to the executor.
	settle func(out ffi.Outcome, err error)
}

func (p *pendingCall) advance(s callState) {
	p.state.Store(int32(s))
}

func (p *pendingCall) current() callState {
	return callState(p.state.Load())
}

// registry maps tokens to completion contexts. Tokens are never reused and
// each context can be taken once.
type registry struct {
	seq     atomic.Uint64
	calls   sync.Map
	pending atomic.Int64
}

func (r *registry) put(p *pendingCall) ffi.Token {
	for {
		token := ffi.Token(r.seq.Add(1))
		if token == 0 {
			continue
		}
		r.calls.Store(token, p)
		r.pending.Add(1)
		return token
	}
}

// take removes and returns the context registered under token.
func (r *registry) take(token ffi.Token) (*pendingCall, bool) {
	v, ok := r.calls.LoadAndDelete(token)
	if !ok {
		return nil, false
	}
	r.pending.Add(-1)
	return v.(*pendingCall), true //nolint:forcetypeassert // only *pendingCall is stored
}

func (r *registry) len() int {
	return int(r.pending.Load())
}
