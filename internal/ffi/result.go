package ffi

import (
	"fmt"

	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

// Result is the raw outcome of a native call. Data and Err are views over
// memory owned by the native side and are only valid until the Result is
// released. Exactly one of them is non-nil.
type Result struct {
	// Data holds an encoded response envelope.
	Data []byte

	// Err holds the bytes of a native error string.
	Err []byte

	// Owner is native bookkeeping passed back untouched to FreeResult.
	Owner any
}

// Outcome is a caller-owned copy of a Result.
type Outcome struct {
	Data    []byte
	Message string
	Failed  bool
}

// ContractViolation reports a breach of the native boundary contract. It is
// not a recoverable call failure.
type ContractViolation struct {
	Reason string
	Token  Token
}

func (v *ContractViolation) Error() string {
	if v.Token != 0 {
		return fmt.Sprintf("native contract violation: %s (token %d)", v.Reason, v.Token)
	}
	return "native contract violation: " + v.Reason
}

// Unwrap lets errors.Is match coreerr.ErrContractViolation.
func (v *ContractViolation) Unwrap() error {
	return coreerr.ErrContractViolation
}

// Materialize copies whichever branch of r is populated into Go memory. The
// returned Outcome never aliases r.
func Materialize(r Result) (Outcome, error) {
	switch {
	case r.Err != nil && r.Data != nil:
		return Outcome{}, &ContractViolation{Reason: "result carries both data and error"}
	case r.Err != nil:
		return Outcome{Message: string(r.Err), Failed: true}, nil
	case r.Data != nil:
		data := make([]byte, len(r.Data))
		copy(data, r.Data)
		return Outcome{Data: data}, nil
	default:
		return Outcome{}, &ContractViolation{Reason: "result carries neither data nor error"}
	}
}

// Take materializes r and releases it through free. free runs exactly once,
// on every path out of Take.
func Take(free func(Result), r Result) (Outcome, error) {
	defer free(r)
	return Materialize(r)
}
