// Package ffi describes the boundary between corecall and a wallet core
// whose memory the caller does not own.
//
// A core is reached through five entry points (Native). Results come back as
// views over native-owned memory (Result) that must be copied out and then
// released exactly once.
package ffi

// CoreID identifies one live core on the native side. Zero is never a valid
// core.
type CoreID uintptr

// Token is the opaque value a caller hands to CallAsync and receives back in
// the trampoline. Zero is reserved.
type Token uintptr

// Trampoline is the fixed-signature completion function the native side
// invokes exactly once per asynchronous call.
type Trampoline func(token Token, result Result)

// CoreConfig carries the construction parameters of a core.
type CoreConfig struct {
	RestURL   string
	FaucetURL string
	LogLevel  string
}

// Native is the entry point surface of a wallet core.
type Native interface {
	// CreateCore constructs a core and returns its identity.
	CreateCore(cfg CoreConfig) (CoreID, error)

	// FreeCore destroys a core. No calls may be outstanding.
	FreeCore(id CoreID)

	// CallSync executes one encoded request, blocking until it completes.
	CallSync(id CoreID, request []byte) Result

	// CallAsync schedules one encoded request and returns immediately. The
	// native side invokes fn(token, result) exactly once, from a goroutine
	// of its choosing. The request bytes are not retained past the call.
	CallAsync(id CoreID, request []byte, fn Trampoline, token Token)

	// FreeResult releases the memory referenced by a Result.
	FreeResult(r Result)
}
