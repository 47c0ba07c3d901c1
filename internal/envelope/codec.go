package envelope

import (
	"errors"
	"fmt"

	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

// ErrVariantMismatch is returned when a response carries a different
// operation than the request that produced it.
var ErrVariantMismatch = errors.New("response variant does not match request")

// Codec encodes requests of type Req and decodes the matching response
// variant Resp. The zero value is ready to use.
type Codec[Req RequestBody, Resp Message] struct{}

// Op returns the operation this codec serves.
func (Codec[Req, Resp]) Op() Op {
	var req Req
	return req.Op()
}

// Marshal wraps req in a request envelope and encodes it.
func (Codec[Req, Resp]) Marshal(req Req) ([]byte, error) {
	return MarshalRequest(&Request{Body: req})
}

// Unmarshal decodes a response envelope and extracts the Resp variant.
func (c Codec[Req, Resp]) Unmarshal(b []byte) (Resp, error) {
	var zero Resp
	resp, err := UnmarshalResponse(b)
	if err != nil {
		return zero, err
	}
	if want := c.Op(); resp.Op != want {
		return zero, fmt.Errorf("%w: want %s, got %s", ErrVariantMismatch, want, resp.Op)
	}
	body, ok := resp.Body.(Resp)
	if !ok {
		return zero, coreerr.Wrap(ErrVariantMismatch, "unexpected body %T for %s", resp.Body, resp.Op)
	}
	return body, nil
}

// Typed codecs for every operation.
type (
	CreateAccountCodec           = Codec[*CreateAccountRequest, *CreateAccountResponse]
	CreateWalletCodec            = Codec[*CreateWalletRequest, *CreateWalletResponse]
	FundWalletCodec              = Codec[*FundWalletRequest, *FundWalletResponse]
	GetWalletBalanceCodec        = Codec[*GetWalletBalanceRequest, *GetWalletBalanceResponse]
	GetWalletTransactionsCodec   = Codec[*GetWalletTransactionsRequest, *GetWalletTransactionsResponse]
	CreateWalletTransactionCodec = Codec[*CreateWalletTransactionRequest, *CreateWalletTransactionResponse]
	SignWalletTransactionCodec   = Codec[*SignWalletTransactionRequest, *SignWalletTransactionResponse]
	SubmitWalletTransactionCodec = Codec[*SubmitWalletTransactionRequest, *SubmitWalletTransactionResponse]
	SyncBacktraceCodec           = Codec[*SyncBacktraceRequest, *BacktraceResponse]
	AsyncBacktraceCodec          = Codec[*AsyncBacktraceRequest, *BacktraceResponse]
	GreetingCodec                = Codec[*GreetingRequest, *GreetingResponse]
	SleepCodec                   = Codec[*SleepRequest, *SleepResponse]
)
