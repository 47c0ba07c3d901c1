// Package envelope implements the binary request/response envelopes exchanged
// with a wallet core.
//
// Both envelopes are protobuf messages holding a oneof: exactly one variant is
// populated, and its field number identifies the operation. Encoding is plain
// proto3, so any protobuf implementation on the native side can read it.
package envelope

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

var (
	// ErrEmptyEnvelope is returned when no variant is populated.
	ErrEmptyEnvelope = errors.New("envelope has no populated variant")

	// ErrUnknownVariant is returned for a variant outside the schema.
	ErrUnknownVariant = errors.New("envelope variant is not in the schema")
)

// RequestBody is one variant of the request envelope.
type RequestBody interface {
	Message
	Op() Op
}

// Request is the request envelope.
type Request struct {
	Body RequestBody
}

// Op returns the operation of the populated variant.
func (r *Request) Op() Op {
	if r == nil || r.Body == nil {
		return OpUnknown
	}
	return r.Body.Op()
}

// Response is the response envelope. Op names the populated variant because
// the two backtrace operations share a body type.
type Response struct {
	Op   Op
	Body Message
}

// NewRequestBody returns an empty request variant for op.
func NewRequestBody(op Op) (RequestBody, error) {
	switch op {
	case OpCreateAccount:
		return &CreateAccountRequest{}, nil
	case OpCreateWallet:
		return &CreateWalletRequest{}, nil
	case OpFundWallet:
		return &FundWalletRequest{}, nil
	case OpGetWalletBalance:
		return &GetWalletBalanceRequest{}, nil
	case OpGetWalletTransactions:
		return &GetWalletTransactionsRequest{}, nil
	case OpCreateWalletTransaction:
		return &CreateWalletTransactionRequest{}, nil
	case OpSignWalletTransaction:
		return &SignWalletTransactionRequest{}, nil
	case OpSubmitWalletTransaction:
		return &SubmitWalletTransactionRequest{}, nil
	case OpGetSyncBacktrace:
		return &SyncBacktraceRequest{}, nil
	case OpGetAsyncBacktrace:
		return &AsyncBacktraceRequest{}, nil
	case OpGreeting:
		return &GreetingRequest{}, nil
	case OpSleep:
		return &SleepRequest{}, nil
	case OpUnknown:
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownVariant, op)
}

// NewResponseBody returns an empty response variant for op.
func NewResponseBody(op Op) (Message, error) {
	switch op {
	case OpCreateAccount:
		return &CreateAccountResponse{}, nil
	case OpCreateWallet:
		return &CreateWalletResponse{}, nil
	case OpFundWallet:
		return &FundWalletResponse{}, nil
	case OpGetWalletBalance:
		return &GetWalletBalanceResponse{}, nil
	case OpGetWalletTransactions:
		return &GetWalletTransactionsResponse{}, nil
	case OpCreateWalletTransaction:
		return &CreateWalletTransactionResponse{}, nil
	case OpSignWalletTransaction:
		return &SignWalletTransactionResponse{}, nil
	case OpSubmitWalletTransaction:
		return &SubmitWalletTransactionResponse{}, nil
	case OpGetSyncBacktrace, OpGetAsyncBacktrace:
		return &BacktraceResponse{}, nil
	case OpGreeting:
		return &GreetingResponse{}, nil
	case OpSleep:
		return &SleepResponse{}, nil
	case OpUnknown:
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownVariant, op)
}

// MarshalRequest encodes a request envelope.
func MarshalRequest(r *Request) ([]byte, error) {
	if r == nil || r.Body == nil {
		return nil, coreerr.Wrap(ErrEmptyEnvelope, "marshal request")
	}
	return appendMessage(nil, protowire.Number(r.Body.Op()), r.Body), nil
}

// MarshalResponse encodes a response envelope.
func MarshalResponse(r *Response) ([]byte, error) {
	if r == nil || r.Body == nil {
		return nil, coreerr.Wrap(ErrEmptyEnvelope, "marshal response")
	}
	if _, err := NewResponseBody(r.Op); err != nil {
		return nil, coreerr.Wrap(err, "marshal response")
	}
	return appendMessage(nil, protowire.Number(r.Op), r.Body), nil
}

// UnmarshalRequest decodes a request envelope. When several variants are
// present the last one wins, as protobuf oneof semantics require.
func UnmarshalRequest(b []byte) (*Request, error) {
	op, payload, err := lastVariant(b)
	if err != nil {
		return nil, coreerr.Wrap(err, "unmarshal request")
	}
	body, err := NewRequestBody(op)
	if err != nil {
		return nil, coreerr.Wrap(err, "unmarshal request")
	}
	if err := unmarshalMessage(payload, body); err != nil {
		return nil, coreerr.Wrap(err, "unmarshal request %s", op)
	}
	return &Request{Body: body}, nil
}

// UnmarshalResponse decodes a response envelope.
func UnmarshalResponse(b []byte) (*Response, error) {
	op, payload, err := lastVariant(b)
	if err != nil {
		return nil, coreerr.Wrap(err, "unmarshal response")
	}
	body, err := NewResponseBody(op)
	if err != nil {
		return nil, coreerr.Wrap(err, "unmarshal response")
	}
	if err := unmarshalMessage(payload, body); err != nil {
		return nil, coreerr.Wrap(err, "unmarshal response %s", op)
	}
	return &Response{Op: op, Body: body}, nil
}

// lastVariant scans the top-level fields and returns the last
// length-delimited one inside the known tag range. Fields outside the range
// are skipped like any unknown protobuf field.
func lastVariant(b []byte) (Op, []byte, error) {
	var (
		op      Op
		payload []byte
	)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return OpUnknown, nil, protowire.ParseError(n)
		}
		b = b[n:]

		if typ == protowire.BytesType && num >= protowire.Number(OpCreateAccount) && num <= protowire.Number(OpSleep) {
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return OpUnknown, nil, protowire.ParseError(m)
			}
			op, payload = Op(num), v
			b = b[m:]
			continue
		}

		m := protowire.ConsumeFieldValue(num, typ, b)
		if m < 0 {
			return OpUnknown, nil, protowire.ParseError(m)
		}
		b = b[m:]
	}
	if op == OpUnknown {
		return OpUnknown, nil, ErrEmptyEnvelope
	}
	return op, payload, nil
}
