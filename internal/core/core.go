package core

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/mrz1836/corecall/internal/aptos"
	"github.com/mrz1836/corecall/internal/envelope"
	"github.com/mrz1836/corecall/internal/ffi"
	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

// Core serves envelope requests against one Aptos node and faucet.
type Core struct {
	id     ffi.CoreID
	cfg    ffi.CoreConfig
	node   *aptos.Client
	faucet *aptos.FaucetClient
	logger *zap.Logger

	balanceResource string
	lockMemory      bool
	callTimeout     time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// ID returns the identity the library assigned to c.
func (c *Core) ID() ffi.CoreID { return c.id }

// Config returns the parameters c was created with.
func (c *Core) Config() ffi.CoreConfig { return c.cfg }

// Serve decodes one request, executes it, and returns the encoded response.
// The returned error's text is what crosses the boundary.
func (c *Core) Serve(request []byte, async bool) ([]byte, error) {
	req, err := envelope.UnmarshalRequest(request)
	if err != nil {
		return nil, err
	}
	op := req.Op()

	ctx := c.ctx
	if c.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}

	started := time.Now()
	body, err := c.dispatch(ctx, req.Body, async)
	fields := []zap.Field{
		zap.Stringer("op", op),
		zap.Bool("async", async),
		zap.Duration("elapsed", time.Since(started)),
	}
	if err != nil {
		c.logger.Error("request failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	c.logger.Info("request served", fields...)

	return envelope.MarshalResponse(&envelope.Response{Op: op, Body: body})
}

func (c *Core) dispatch(ctx context.Context, body envelope.RequestBody, async bool) (envelope.Message, error) {
	switch req := body.(type) {
	case *envelope.CreateAccountRequest:
		return c.createAccount(ctx, req)
	case *envelope.CreateWalletRequest:
		return c.createWallet(req)
	case *envelope.FundWalletRequest:
		return c.fundWallet(ctx, req)
	case *envelope.GetWalletBalanceRequest:
		return c.walletBalance(ctx, req)
	case *envelope.GetWalletTransactionsRequest:
		return c.walletTransactions(ctx, req)
	case *envelope.CreateWalletTransactionRequest:
		return c.createTransaction(ctx, req)
	case *envelope.SignWalletTransactionRequest:
		return c.signTransaction(ctx, req)
	case *envelope.SubmitWalletTransactionRequest:
		return c.submitTransaction(ctx, req)
	case *envelope.SyncBacktraceRequest, *envelope.AsyncBacktraceRequest:
		return backtrace(async), nil
	case *envelope.GreetingRequest:
		return &envelope.GreetingResponse{Text: fmt.Sprintf("%s, %s!", req.Verb, req.Name)}, nil
	case *envelope.SleepRequest:
		return sleep(ctx, req)
	default:
		return nil, coreerr.WithDetails(coreerr.ErrUnsupportedRequest, map[string]string{"type": fmt.Sprintf("%T", body)})
	}
}

func backtrace(async bool) *envelope.BacktraceResponse {
	mode := "sync"
	if async {
		mode = "async"
	}
	return &envelope.BacktraceResponse{Text: fmt.Sprintf("%s backtrace:\n%s", mode, debug.Stack())}
}

func sleep(ctx context.Context, req *envelope.SleepRequest) (*envelope.SleepResponse, error) {
	timer := time.NewTimer(time.Duration(req.Millis) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("sleep interrupted: %w", ctx.Err())
	case <-timer.C:
	}
	return &envelope.SleepResponse{Text: fmt.Sprintf("awake after %d milliseconds", req.Millis)}, nil
}
