//go:build cgo && rustcore

package rustcore

/*
#cgo CFLAGS: -I${SRCDIR}
#cgo linux LDFLAGS: -L${SRCDIR}/lib -lcore -lm -ldl -lpthread
#cgo darwin LDFLAGS: -L${SRCDIR}/lib -lcore -framework Security -framework CoreFoundation
#include <string.h>
#include "corecall.h"

extern void corecallTrampoline(void *ctx, RustData data);

// call_async hides the context pointer from Go: the context is a registry
// key, never a Go pointer.
static void call_async(Core *core, const uint8_t *data, uintptr_t len, uintptr_t ctx) {
	RustCallback cb = { (const void *)ctx, (void (*)(const void *, RustData))corecallTrampoline };
	rust_call_async(core, data, len, cb);
}
*/
import "C"

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/mrz1836/corecall/internal/ffi"
	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

// Available reports whether the native core is linked in.
const Available = true

// library is the cgo implementation of ffi.Native.
type library struct {
	cores  sync.Map // ffi.CoreID -> *C.Core
	nextID atomic.Uintptr
}

// New returns the native core library.
func New() (ffi.Native, error) {
	return &library{}, nil
}

func (l *library) CreateCore(cfg ffi.CoreConfig) (ffi.CoreID, error) {
	rest := C.CString(cfg.RestURL)
	defer C.free(unsafe.Pointer(rest))
	faucet := C.CString(cfg.FaucetURL)
	defer C.free(unsafe.Pointer(faucet))
	level := C.CString(cfg.LogLevel)
	defer C.free(unsafe.Pointer(level))

	core := C.create_core(rest, faucet, level)
	if core == nil {
		return 0, coreerr.WithDetails(coreerr.ErrNativeCall, map[string]string{
			"rest_url":   cfg.RestURL,
			"faucet_url": cfg.FaucetURL,
		})
	}

	id := ffi.CoreID(l.nextID.Add(1))
	l.cores.Store(id, core)
	return id, nil
}

func (l *library) FreeCore(id ffi.CoreID) {
	v, ok := l.cores.LoadAndDelete(id)
	if !ok {
		panic(&ffi.ContractViolation{Reason: "free_core on an unknown core"})
	}
	C.free_core(v.(*C.Core))
}

func (l *library) core(id ffi.CoreID) *C.Core {
	v, ok := l.cores.Load(id)
	if !ok {
		panic(&ffi.ContractViolation{Reason: "call on an unknown core"})
	}
	return v.(*C.Core)
}

func (l *library) CallSync(id ffi.CoreID, request []byte) ffi.Result {
	ptr, n := requestPtr(request)
	return resultOf(C.rust_call_sync(l.core(id), ptr, n))
}

func (l *library) CallAsync(id ffi.CoreID, request []byte, fn ffi.Trampoline, token ffi.Token) {
	core := l.core(id)
	ctx := register(fn, token)
	ptr, n := requestPtr(request)
	C.call_async(core, ptr, n, C.uintptr_t(ctx))
}

func (l *library) FreeResult(r ffi.Result) {
	d, ok := r.Owner.(C.RustData)
	if !ok {
		panic(&ffi.ContractViolation{Reason: "released a result the core did not produce"})
	}
	C.rust_free_data(d)
}

// requestPtr passes the request for the duration of one call. The core
// copies what it keeps.
func requestPtr(request []byte) (*C.uint8_t, C.uintptr_t) {
	if len(request) == 0 {
		return nil, 0
	}
	return (*C.uint8_t)(unsafe.Pointer(&request[0])), C.uintptr_t(len(request))
}

// resultOf exposes a RustData as views over the core's memory. The views
// stay valid until FreeResult.
func resultOf(d C.RustData) ffi.Result {
	r := ffi.Result{Owner: d}
	if d.err != nil {
		r.Err = unsafe.Slice((*byte)(unsafe.Pointer(d.err)), int(C.strlen(d.err)))
		return r
	}
	if d.ptr != nil {
		r.Data = unsafe.Slice((*byte)(unsafe.Pointer(d.ptr)), int(d.len))
	}
	return r
}
