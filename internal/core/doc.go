// Package core is an in-process wallet core reached through ffi.Native.
//
// Library behaves like the native library the bridge was built for: every
// Result it returns views memory it owns until FreeResult, asynchronous
// requests run on the library's own worker pool, and each one completes by
// invoking the caller's trampoline exactly once from a worker goroutine.
package core
