package bridge

import (
	"github.com/mrz1836/corecall/internal/metrics"
	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

// Origin tells where a failed call failed.
type Origin int

// Failure origins.
const (
	// OriginNative means the core answered through its error branch.
	OriginNative Origin = iota
	// OriginDecode means the core answered but the response did not decode.
	OriginDecode
	// OriginEncode means the request never left the caller.
	OriginEncode
)

// String returns the origin name used in logs and metrics.
func (o Origin) String() string {
	switch o {
	case OriginDecode:
		return metrics.OriginDecode
	case OriginEncode:
		return metrics.OriginEncode
	case OriginNative:
	}
	return metrics.OriginNative
}

// NativeCallError is the single error type delivered for a failed call.
// For OriginNative, Message is the core's error string, unaltered.
type NativeCallError struct {
	Message string
	Origin  Origin
	Cause   error
}

func (e *NativeCallError) Error() string {
	return e.Message
}

// Unwrap exposes the origin sentinel, coreerr.ErrNativeCall and the cause.
// The origin sentinel comes first so coreerr.ExitCode reflects it.
func (e *NativeCallError) Unwrap() []error {
	errs := make([]error, 0, 3)
	switch e.Origin {
	case OriginDecode:
		errs = append(errs, coreerr.ErrDecode)
	case OriginEncode:
		errs = append(errs, coreerr.ErrEncode)
	case OriginNative:
	}
	errs = append(errs, coreerr.ErrNativeCall)
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

func encodeError(err error) *NativeCallError {
	return &NativeCallError{Message: "encode request: " + err.Error(), Origin: OriginEncode, Cause: err}
}

func decodeError(err error) *NativeCallError {
	return &NativeCallError{Message: "decode response: " + err.Error(), Origin: OriginDecode, Cause: err}
}
