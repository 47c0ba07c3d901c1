package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/mrz1836/corecall/internal/aptos"
	"github.com/mrz1836/corecall/internal/config"
	"github.com/mrz1836/corecall/internal/ffi"
	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

// Library hosts any number of cores and implements ffi.Native.
type Library struct {
	opts  options
	arena *arena
	pool  *ants.Pool

	mu     sync.RWMutex
	cores  map[ffi.CoreID]*Core
	nextID ffi.CoreID
	closed bool

	work sync.WaitGroup
}

var _ ffi.Native = (*Library)(nil)

// antsLogger routes pool diagnostics to zap.
type antsLogger struct {
	logger *zap.Logger
}

func (l antsLogger) Printf(format string, args ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// NewLibrary creates a library and its worker pool.
func NewLibrary(opts ...Option) (*Library, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	pool, err := ants.NewPool(o.workers,
		ants.WithNonblocking(true),
		ants.WithLogger(antsLogger{logger: o.logger}),
		ants.WithPanicHandler(func(p interface{}) {
			o.logger.Error("worker panic", zap.Any("panic", p))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}

	return &Library{
		opts:  o,
		arena: newArena(),
		pool:  pool,
		cores: make(map[ffi.CoreID]*Core),
	}, nil
}

// CreateCore constructs a core talking to cfg's node and faucet.
func (l *Library) CreateCore(cfg ffi.CoreConfig) (ffi.CoreID, error) {
	if strings.TrimSpace(cfg.RestURL) == "" || strings.TrimSpace(cfg.FaucetURL) == "" {
		return 0, coreerr.WithDetails(coreerr.ErrInvalidInput, map[string]string{
			"rest_url":   cfg.RestURL,
			"faucet_url": cfg.FaucetURL,
		})
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, coreerr.ErrHandleClosed
	}

	l.nextID++
	id := l.nextID
	logger := coreLogger(l.opts.logger, cfg.LogLevel).With(zap.Uint64("core", uint64(id)))

	clientOpts := aptos.ClientOptions{}
	if l.opts.client != nil {
		clientOpts = *l.opts.client
	}
	clientOpts.Logger = logger
	clientOpts.Metrics = l.opts.metrics

	ctx, cancel := context.WithCancel(context.Background())
	l.cores[id] = &Core{
		id:              id,
		cfg:             cfg,
		node:            aptos.NewClient(cfg.RestURL, &clientOpts),
		faucet:          aptos.NewFaucetClient(cfg.FaucetURL, &clientOpts),
		logger:          logger,
		balanceResource: l.opts.balanceResource,
		lockMemory:      l.opts.lockMemory,
		callTimeout:     l.opts.callTimeout,
		ctx:             ctx,
		cancel:          cancel,
	}
	logger.Info("core created", zap.String("rest_url", cfg.RestURL), zap.String("faucet_url", cfg.FaucetURL))
	return id, nil
}

// coreLogger narrows base to the level named in a CoreConfig.
func coreLogger(base *zap.Logger, level string) *zap.Logger {
	lvl := config.ParseLogLevel(level)
	if lvl == config.LogLevelOff {
		return zap.NewNop()
	}
	return base.WithOptions(zap.IncreaseLevel(lvl.ZapLevel()))
}

// FreeCore destroys a core. Freeing an unknown core panics.
func (l *Library) FreeCore(id ffi.CoreID) {
	l.mu.Lock()
	c, ok := l.cores[id]
	delete(l.cores, id)
	l.mu.Unlock()

	if !ok {
		panic(&ffi.ContractViolation{Reason: fmt.Sprintf("free of unknown core %d", id)})
	}
	c.cancel()
	c.logger.Info("core freed")
}

func (l *Library) core(id ffi.CoreID) (*Core, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.cores[id]
	if !ok {
		return nil, coreerr.WithDetails(coreerr.ErrUnknownCore, map[string]string{"core": fmt.Sprint(id)})
	}
	return c, nil
}

// CallSync executes request on the calling goroutine.
func (l *Library) CallSync(id ffi.CoreID, request []byte) ffi.Result {
	return l.serve(id, request, false)
}

// CallAsync queues request on the worker pool. fn runs exactly once, on a
// worker goroutine, even when the pool is saturated or the core is unknown.
func (l *Library) CallAsync(id ffi.CoreID, request []byte, fn ffi.Trampoline, token ffi.Token) {
	req := make([]byte, len(request))
	copy(req, request)

	l.work.Add(1)
	task := func() {
		defer l.work.Done()
		fn(token, l.serve(id, req, true))
	}

	if err := l.pool.Submit(task); err != nil {
		if !errors.Is(err, ants.ErrPoolOverload) && !errors.Is(err, ants.ErrPoolClosed) {
			l.opts.logger.Error("worker pool rejected task", zap.Error(err))
		}
		go task()
	}
}

// serve runs one request and converts every outcome, panics included, into
// a library-owned Result.
func (l *Library) serve(id ffi.CoreID, request []byte, async bool) (r ffi.Result) {
	defer func() {
		if p := recover(); p != nil {
			l.opts.logger.Error("request panicked", zap.Any("panic", p), zap.Stack("stack"))
			r = l.arena.failure(fmt.Sprintf("core panic: %v", p))
		}
	}()

	c, err := l.core(id)
	if err != nil {
		return l.arena.failure(err.Error())
	}
	resp, err := c.Serve(request, async)
	if err != nil {
		return l.arena.failure(err.Error())
	}
	return l.arena.data(resp)
}

// FreeResult releases a Result returned by this library. Releasing twice
// panics.
func (l *Library) FreeResult(r ffi.Result) {
	l.arena.free(r)
}

// Stats reports how many results were handed out and released.
func (l *Library) Stats() ArenaStats {
	return l.arena.stats()
}

// Cores returns the number of live cores.
func (l *Library) Cores() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.cores)
}

// Close waits for queued asynchronous work, stops the worker pool, and
// frees any cores still alive.
func (l *Library) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()

	l.work.Wait()
	l.pool.Release()

	l.mu.Lock()
	cores := l.cores
	l.cores = make(map[ffi.CoreID]*Core)
	l.mu.Unlock()
	for _, c := range cores {
		c.cancel()
	}
}
