package core

import (
	"time"

	"go.uber.org/zap"

	"github.com/mrz1836/corecall/internal/aptos"
	"github.com/mrz1836/corecall/internal/metrics"
)

// Library defaults.
const (
	DefaultWorkers     = 8
	DefaultCallTimeout = time.Minute
)

type options struct {
	workers         int
	logger          *zap.Logger
	metrics         *metrics.Metrics
	client          *aptos.ClientOptions
	balanceResource string
	lockMemory      bool
	callTimeout     time.Duration
}

func defaultOptions() options {
	return options{
		workers:         DefaultWorkers,
		logger:          zap.NewNop(),
		metrics:         metrics.Global,
		balanceResource: aptos.DefaultBalanceResource,
		lockMemory:      true,
		callTimeout:     DefaultCallTimeout,
	}
}

// Option configures a Library.
type Option func(*options)

// WithWorkers sets the size of the asynchronous worker pool.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithLogger sets the library logger. Each core narrows it to the level in
// its CoreConfig.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets where node and faucet exchanges are counted.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithClientOptions sets the HTTP options shared by every core's node and
// faucet clients.
func WithClientOptions(c *aptos.ClientOptions) Option {
	return func(o *options) { o.client = c }
}

// WithBalanceResource sets the account resource balances are read from.
func WithBalanceResource(resource string) Option {
	return func(o *options) {
		if resource != "" {
			o.balanceResource = resource
		}
	}
}

// WithMemoryLock controls whether key material is mlocked while in use.
func WithMemoryLock(lock bool) Option {
	return func(o *options) { o.lockMemory = lock }
}

// WithCallTimeout bounds each request. Zero disables the bound.
func WithCallTimeout(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.callTimeout = d
		}
	}
}
