//go:build cgo && rustcore

package rustcore

/*
#include "corecall.h"
*/
import "C"

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/mrz1836/corecall/internal/ffi"
)

// pendingCall is what the core's callback context resolves to.
type pendingCall struct {
	fn    ffi.Trampoline
	token ffi.Token
}

// Asynchronous calls in flight, keyed by the context handed to the core.
// Zero is never issued.
var (
	pending   sync.Map // uintptr -> pendingCall
	pendingID atomic.Uintptr
)

func register(fn ffi.Trampoline, token ffi.Token) uintptr {
	id := pendingID.Add(1)
	pending.Store(id, pendingCall{fn: fn, token: token})
	return id
}

//export corecallTrampoline
func corecallTrampoline(ctx unsafe.Pointer, data C.RustData) {
	v, ok := pending.LoadAndDelete(uintptr(ctx))
	if !ok {
		C.rust_free_data(data)
		panic(&ffi.ContractViolation{Reason: "native callback with an unknown or spent context"})
	}
	call := v.(pendingCall)
	call.fn(call.token, resultOf(data))
}
