package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mrz1836/corecall/internal/aptos"
	"github.com/mrz1836/corecall/internal/bridge"
	"github.com/mrz1836/corecall/internal/config"
	"github.com/mrz1836/corecall/internal/core"
	"github.com/mrz1836/corecall/internal/ffi"
	"github.com/mrz1836/corecall/internal/metrics"
	"github.com/mrz1836/corecall/internal/native/rustcore"
	"github.com/mrz1836/corecall/internal/wallet"
	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

// mainQueueName names the serial queue continuations are delivered on.
const mainQueueName = "main"

// coreSession is the one core a process talks to.
type coreSession struct {
	handle  *bridge.Handle
	queue   *bridge.SerialQueue
	wallet  *wallet.Wallet
	release func()
}

//nolint:gochecknoglobals // One core session per CLI invocation
var session *coreSession

// openWallet starts the configured core on first use and returns the wallet
// bound to it. Later calls in the same process reuse the session.
func openWallet() (*wallet.Wallet, error) {
	if session != nil {
		return session.wallet, nil
	}

	native, release, err := openNative()
	if err != nil {
		return nil, err
	}

	zl := logger.Logger
	queue := bridge.NewSerialQueue(mainQueueName)
	h, err := bridge.Open(native, cfg.CoreParams(),
		bridge.WithLogger(zl),
		bridge.WithMetrics(metrics.Global),
		bridge.WithExecutor(queue),
	)
	if err != nil {
		queue.Close()
		release()
		return nil, err
	}

	var opts []wallet.Option
	if syncCalls {
		opts = append(opts, wallet.WithSyncCalls())
	}

	session = &coreSession{
		handle:  h,
		queue:   queue,
		wallet:  wallet.New(h, opts...),
		release: release,
	}
	return session.wallet, nil
}

// openNative loads the configured core backend. release stops whatever the
// backend runs once every core is freed.
func openNative() (ffi.Native, func(), error) {
	switch cfg.Core.Backend {
	case config.BackendRust:
		native, err := rustcore.New()
		if err != nil {
			return nil, nil, err
		}
		return native, func() {}, nil
	case "", config.BackendGo:
	default:
		return nil, nil, coreerr.WithDetails(coreerr.ErrConfigInvalid, map[string]string{
			"key":   "core.backend",
			"value": cfg.Core.Backend,
		})
	}

	zl := logger.Logger
	lib, err := core.NewLibrary(
		core.WithWorkers(cfg.Core.Workers),
		core.WithLogger(zl),
		core.WithMetrics(metrics.Global),
		core.WithClientOptions(clientOptions(zl)),
		core.WithBalanceResource(cfg.Network.BalanceResource),
		core.WithMemoryLock(cfg.Core.MemoryLock),
		core.WithCallTimeout(seconds(cfg.Core.CallTimeoutSecs)),
	)
	if err != nil {
		return nil, nil, err
	}
	return lib, func() {
		lib.Close()
		st := lib.Stats()
		logger.Debug("core library closed",
			zap.Int64("results_allocated", st.Allocated),
			zap.Int64("results_freed", st.Freed),
			zap.Int("results_live", st.Live))
	}, nil
}

// clientOptions builds the HTTP settings the core's node and faucet clients share.
func clientOptions(zl *zap.Logger) *aptos.ClientOptions {
	rps := cfg.Network.RequestsPerSec
	return &aptos.ClientOptions{
		HTTPClient:  &http.Client{Timeout: seconds(cfg.Network.TimeoutSeconds)},
		RateLimiter: aptos.NewRateLimiter(rps, max(1, int(2*rps))),
		Logger:      zl,
		Metrics:     metrics.Global,
	}
}

// closeSession drains in-flight calls, frees the core and stops its workers.
func closeSession() {
	s := session
	if s == nil {
		return
	}
	session = nil

	timeout := seconds(cfg.Core.CloseTimeoutSecs)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.handle.Close(ctx); err != nil {
		logger.Error("close core", zap.Error(err))
	}
	s.queue.Close()
	s.release()

	snap := metrics.Global.Snapshot()
	logger.Debug("session closed",
		zap.Int64("sync_calls", snap.SyncCallsTotal),
		zap.Int64("async_calls", snap.AsyncCallsTotal),
		zap.Int64("native_errors", snap.NativeErrors),
		zap.Int64("results_released", snap.ResultsReleased),
		zap.Int64("http_calls", snap.HTTPCallsTotal))
}

// commandContext bounds a command by the configured call timeout.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	if d := seconds(cfg.Core.CallTimeoutSecs); d > 0 {
		return context.WithTimeout(base, d)
	}
	return context.WithCancel(base)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
