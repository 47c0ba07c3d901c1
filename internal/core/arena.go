package core

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/mrz1836/corecall/internal/ffi"
)

// poison is written over released buffers so stale views read as garbage.
const poison = 0xDD

// allocation is the Owner of every Result the library hands out.
type allocation struct {
	id uint64
}

// ArenaStats counts the buffers handed across the boundary.
type ArenaStats struct {
	Allocated int64
	Freed     int64
	Live      int
}

// arena owns every buffer the library returns until the caller releases it.
type arena struct {
	mu   sync.Mutex
	live map[uint64][]byte
	next uint64

	allocated atomic.Int64
	freed     atomic.Int64
}

func newArena() *arena {
	return &arena{live: make(map[uint64][]byte)}
}

// data returns a Result viewing an encoded response.
func (a *arena) data(b []byte) ffi.Result {
	buf, owner := a.alloc(b)
	return ffi.Result{Data: buf, Owner: owner}
}

// failure returns a Result viewing an error message.
func (a *arena) failure(msg string) ffi.Result {
	buf, owner := a.alloc([]byte(msg))
	return ffi.Result{Err: buf, Owner: owner}
}

func (a *arena) alloc(b []byte) ([]byte, *allocation) {
	buf := make([]byte, len(b))
	copy(buf, b)

	a.mu.Lock()
	a.next++
	owner := &allocation{id: a.next}
	a.live[owner.id] = buf
	a.mu.Unlock()

	a.allocated.Add(1)
	return buf, owner
}

// free releases the buffer behind r. Releasing a result twice, or one the
// arena never produced, panics.
func (a *arena) free(r ffi.Result) {
	owner, ok := r.Owner.(*allocation)
	if !ok || owner == nil {
		panic(&ffi.ContractViolation{Reason: fmt.Sprintf("released a result with foreign owner %T", r.Owner)})
	}

	a.mu.Lock()
	buf, live := a.live[owner.id]
	delete(a.live, owner.id)
	a.mu.Unlock()

	if !live {
		panic(&ffi.ContractViolation{Reason: fmt.Sprintf("result %d released twice", owner.id)})
	}
	for i := range buf {
		buf[i] = poison
	}
	a.freed.Add(1)
}

func (a *arena) stats() ArenaStats {
	a.mu.Lock()
	live := len(a.live)
	a.mu.Unlock()
	return ArenaStats{
		Allocated: a.allocated.Load(),
		Freed:     a.freed.Load(),
		Live:      live,
	}
}
