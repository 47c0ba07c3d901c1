// Package wallet exposes the wallet core's operations as typed calls over a
// bridge.Handle.
//
// Each operation has a blocking form, which waits through the asynchronous
// bridge (or the synchronous gateway when the Wallet is opened with
// WithSyncCalls), and a callback form suffixed Async. Errors are always
// returned; nothing is collapsed to a zero value.
package wallet

import (
	"context"
	"time"

	"github.com/mrz1836/corecall/internal/aptos"
	"github.com/mrz1836/corecall/internal/bridge"
	"github.com/mrz1836/corecall/internal/envelope"
)

// Wallet issues wallet requests through one handle.
type Wallet struct {
	h         *bridge.Handle
	syncCalls bool
	opts      []bridge.CallOption
}

// Option configures a Wallet.
type Option func(*Wallet)

// WithSyncCalls makes the blocking forms use the synchronous gateway instead
// of awaiting an asynchronous call.
func WithSyncCalls() Option {
	return func(w *Wallet) { w.syncCalls = true }
}

// WithCallOptions applies opts to every callback-form call.
func WithCallOptions(opts ...bridge.CallOption) Option {
	return func(w *Wallet) { w.opts = append(w.opts, opts...) }
}

// New returns a Wallet over h.
func New(h *bridge.Handle, opts ...Option) *Wallet {
	w := &Wallet{h: h}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Handle returns the underlying handle.
func (w *Wallet) Handle() *bridge.Handle { return w.h }

// invoke runs one blocking request in the wallet's call mode.
func invoke[Req, Resp any](ctx context.Context, w *Wallet, codec bridge.Codec[Req, Resp], req Req) (Resp, error) {
	if !w.syncCalls {
		return bridge.Await(ctx, w.h, codec, req)
	}
	if err := ctx.Err(); err != nil {
		var zero Resp
		return zero, err
	}
	return bridge.Call(w.h, codec, req)
}

// callback starts one request and hands project(resp) to onSuccess.
func callback[Req, Resp, T any](w *Wallet, codec bridge.Codec[Req, Resp], req Req, project func(Resp) T, onSuccess func(T), onError func(error)) {
	bridge.CallAsync(w.h, codec, req, bridge.Continuation[Resp]{
		OnSuccess: func(resp Resp) { onSuccess(project(resp)) },
		OnError:   onError,
	}, w.opts...)
}

// CreateAccount creates an account from a fresh mnemonic and, when
// fundAmount is positive, funds it from the faucet.
func (w *Wallet) CreateAccount(ctx context.Context, fundAmount uint64) (*envelope.CreateAccountResponse, error) {
	return invoke(ctx, w, envelope.CreateAccountCodec{}, &envelope.CreateAccountRequest{FundAmount: fundAmount})
}

// CreateAccountAsync is the callback form of CreateAccount.
func (w *Wallet) CreateAccountAsync(fundAmount uint64, onSuccess func(*envelope.CreateAccountResponse), onError func(error)) {
	callback(w, envelope.CreateAccountCodec{}, &envelope.CreateAccountRequest{FundAmount: fundAmount},
		same[*envelope.CreateAccountResponse], onSuccess, onError)
}

// RestoreAccount rebuilds the account behind mnemonic. The phrase is checked
// locally first so typos come back with suggestions.
func (w *Wallet) RestoreAccount(ctx context.Context, mnemonic string) (*envelope.CreateAccountResponse, error) {
	if err := aptos.ValidateMnemonic(mnemonic); err != nil {
		return nil, err
	}
	return invoke(ctx, w, envelope.CreateAccountCodec{}, &envelope.CreateAccountRequest{
		Mnemonic: aptos.NormalizeMnemonic(mnemonic),
	})
}

// CreateWallet returns the address of a shared wallet every listed key must
// sign for.
func (w *Wallet) CreateWallet(ctx context.Context, publicKeys []string) (string, error) {
	resp, err := invoke(ctx, w, envelope.CreateWalletCodec{}, &envelope.CreateWalletRequest{PublicKeys: publicKeys})
	if err != nil {
		return "", err
	}
	return resp.Address, nil
}

// Fund mints amount into address and returns the faucet's transactions.
func (w *Wallet) Fund(ctx context.Context, address string, amount uint64) ([]*envelope.Transaction, error) {
	resp, err := invoke(ctx, w, envelope.FundWalletCodec{}, &envelope.FundWalletRequest{Address: address, Amount: amount})
	if err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

// FundAsync is the callback form of Fund.
func (w *Wallet) FundAsync(address string, amount uint64, onSuccess func([]*envelope.Transaction), onError func(error)) {
	callback(w, envelope.FundWalletCodec{}, &envelope.FundWalletRequest{Address: address, Amount: amount},
		func(r *envelope.FundWalletResponse) []*envelope.Transaction { return r.Transactions }, onSuccess, onError)
}

// Balance returns the coin balance of address.
func (w *Wallet) Balance(ctx context.Context, address string) (uint64, error) {
	resp, err := invoke(ctx, w, envelope.GetWalletBalanceCodec{}, &envelope.GetWalletBalanceRequest{Address: address})
	if err != nil {
		return 0, err
	}
	return resp.Balance, nil
}

// BalanceAsync is the callback form of Balance.
func (w *Wallet) BalanceAsync(address string, onSuccess func(uint64), onError func(error)) {
	callback(w, envelope.GetWalletBalanceCodec{}, &envelope.GetWalletBalanceRequest{Address: address},
		func(r *envelope.GetWalletBalanceResponse) uint64 { return r.Balance }, onSuccess, onError)
}

// Transactions lists the transactions sent from address.
func (w *Wallet) Transactions(ctx context.Context, address string) ([]*envelope.Transaction, error) {
	resp, err := invoke(ctx, w, envelope.GetWalletTransactionsCodec{}, &envelope.GetWalletTransactionsRequest{Address: address})
	if err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

// TransactionsAsync is the callback form of Transactions.
func (w *Wallet) TransactionsAsync(address string, onSuccess func([]*envelope.Transaction), onError func(error)) {
	callback(w, envelope.GetWalletTransactionsCodec{}, &envelope.GetWalletTransactionsRequest{Address: address},
		func(r *envelope.GetWalletTransactionsResponse) []*envelope.Transaction { return r.Transactions }, onSuccess, onError)
}

// CreateTransaction builds an unsigned transfer of amount from one address
// to another and returns it as JSON text.
func (w *Wallet) CreateTransaction(ctx context.Context, from, to string, amount uint64) (string, error) {
	resp, err := invoke(ctx, w, envelope.CreateWalletTransactionCodec{}, &envelope.CreateWalletTransactionRequest{
		Amount: amount, AddressFrom: from, AddressTo: to,
	})
	if err != nil {
		return "", err
	}
	return resp.Transaction, nil
}

// SignTransaction signs txn with keypair and returns the hex signature.
func (w *Wallet) SignTransaction(ctx context.Context, txn, keypair string) (string, error) {
	resp, err := invoke(ctx, w, envelope.SignWalletTransactionCodec{}, &envelope.SignWalletTransactionRequest{
		Transaction: txn, Keypair: keypair,
	})
	if err != nil {
		return "", err
	}
	return resp.Signature, nil
}

// SubmitTransaction submits txn with one signature per signer.
func (w *Wallet) SubmitTransaction(ctx context.Context, txn string, signatures []*envelope.SignedPayload) (*envelope.Transaction, error) {
	resp, err := invoke(ctx, w, envelope.SubmitWalletTransactionCodec{}, &envelope.SubmitWalletTransactionRequest{
		Transaction: txn, SignedPayloads: signatures,
	})
	if err != nil {
		return nil, err
	}
	return resp.Transaction, nil
}

// SubmitTransactionAsync is the callback form of SubmitTransaction.
func (w *Wallet) SubmitTransactionAsync(txn string, signatures []*envelope.SignedPayload, onSuccess func(*envelope.Transaction), onError func(error)) {
	callback(w, envelope.SubmitWalletTransactionCodec{}, &envelope.SubmitWalletTransactionRequest{Transaction: txn, SignedPayloads: signatures},
		func(r *envelope.SubmitWalletTransactionResponse) *envelope.Transaction { return r.Transaction }, onSuccess, onError)
}

// Backtrace returns a stack trace captured inside the core, on the calling
// goroutine for the synchronous form and on a core worker otherwise.
func (w *Wallet) Backtrace(ctx context.Context, async bool) (string, error) {
	if !async {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		resp, err := bridge.Call(w.h, envelope.SyncBacktraceCodec{}, &envelope.SyncBacktraceRequest{})
		if err != nil {
			return "", err
		}
		return resp.Text, nil
	}
	resp, err := bridge.Await(ctx, w.h, envelope.AsyncBacktraceCodec{}, &envelope.AsyncBacktraceRequest{})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Greeting asks the core to greet name. It always uses the synchronous
// gateway.
func (w *Wallet) Greeting(verb, name string) (string, error) {
	resp, err := bridge.Call(w.h, envelope.GreetingCodec{}, &envelope.GreetingRequest{Verb: verb, Name: name})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Sleep has the core wait d on one of its workers.
func (w *Wallet) Sleep(ctx context.Context, d time.Duration) (string, error) {
	resp, err := bridge.Await(ctx, w.h, envelope.SleepCodec{}, &envelope.SleepRequest{Millis: millis(d)})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// SleepAsync is the callback form of Sleep.
func (w *Wallet) SleepAsync(d time.Duration, onSuccess func(string), onError func(error)) {
	callback(w, envelope.SleepCodec{}, &envelope.SleepRequest{Millis: millis(d)},
		func(r *envelope.SleepResponse) string { return r.Text }, onSuccess, onError)
}

func same[T any](v T) T { return v }

func millis(d time.Duration) uint64 {
	return uint64(max(d, 0).Milliseconds())
}
