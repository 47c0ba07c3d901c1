// Package metrics provides application-level metrics collection.
// This is a lightweight metrics foundation using atomic counters.
package metrics

import (
	"sync/atomic"
	"time"
)

// Failure origins counted separately.
const (
	OriginNative = "native"
	OriginDecode = "decode"
	OriginEncode = "encode"
)

// Metrics holds application metrics using atomic counters for thread safety.
type Metrics struct {
	// Boundary call metrics
	syncCallsTotal  atomic.Int64
	asyncCallsTotal atomic.Int64
	callLatency     atomic.Int64
	inFlight        atomic.Int64

	// Failures by origin
	nativeErrors atomic.Int64
	decodeErrors atomic.Int64
	encodeErrors atomic.Int64

	contractViolations atomic.Int64
	resultsReleased    atomic.Int64

	// Node and faucet HTTP metrics
	httpCallsTotal  atomic.Int64
	httpErrorsTotal atomic.Int64
	httpLatency     atomic.Int64
}

// Global is the global metrics instance.
// Use this for recording metrics throughout the application.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// CallStarted records a boundary call leaving for the core.
func (m *Metrics) CallStarted(async bool) {
	if async {
		m.asyncCallsTotal.Add(1)
	} else {
		m.syncCallsTotal.Add(1)
	}
	m.inFlight.Add(1)
}

// CallFinished records a completed boundary call. origin is empty on success.
func (m *Metrics) CallFinished(duration time.Duration, origin string) {
	m.inFlight.Add(-1)
	m.callLatency.Add(duration.Nanoseconds())
	m.RecordFailure(origin)
}

// RecordFailure counts a failure by origin. Unknown or empty origins are ignored.
func (m *Metrics) RecordFailure(origin string) {
	switch origin {
	case OriginNative:
		m.nativeErrors.Add(1)
	case OriginDecode:
		m.decodeErrors.Add(1)
	case OriginEncode:
		m.encodeErrors.Add(1)
	}
}

// RecordContractViolation records a breach of the native contract.
func (m *Metrics) RecordContractViolation() {
	m.contractViolations.Add(1)
}

// RecordResultReleased records a native result handed back for release.
func (m *Metrics) RecordResultReleased() {
	m.resultsReleased.Add(1)
}

// RecordHTTPCall records a node or faucet request.
func (m *Metrics) RecordHTTPCall(duration time.Duration, err error) {
	m.httpCallsTotal.Add(1)
	m.httpLatency.Add(duration.Nanoseconds())
	if err != nil {
		m.httpErrorsTotal.Add(1)
	}
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	SyncCallsTotal     int64
	AsyncCallsTotal    int64
	CallLatencyNanos   int64
	InFlight           int64
	NativeErrors       int64
	DecodeErrors       int64
	EncodeErrors       int64
	ContractViolations int64
	ResultsReleased    int64
	HTTPCallsTotal     int64
	HTTPErrorsTotal    int64
	HTTPLatencyNanos   int64
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		SyncCallsTotal:     m.syncCallsTotal.Load(),
		AsyncCallsTotal:    m.asyncCallsTotal.Load(),
		CallLatencyNanos:   m.callLatency.Load(),
		InFlight:           m.inFlight.Load(),
		NativeErrors:       m.nativeErrors.Load(),
		DecodeErrors:       m.decodeErrors.Load(),
		EncodeErrors:       m.encodeErrors.Load(),
		ContractViolations: m.contractViolations.Load(),
		ResultsReleased:    m.resultsReleased.Load(),
		HTTPCallsTotal:     m.httpCallsTotal.Load(),
		HTTPErrorsTotal:    m.httpErrorsTotal.Load(),
		HTTPLatencyNanos:   m.httpLatency.Load(),
	}
}

// InFlight returns the number of boundary calls awaiting completion.
func (m *Metrics) InFlight() int64 {
	return m.inFlight.Load()
}

// CallLatencyAvgMs returns the average boundary call latency in milliseconds.
// Returns 0 if no calls have completed.
func (m *Metrics) CallLatencyAvgMs() float64 {
	done := m.syncCallsTotal.Load() + m.asyncCallsTotal.Load() - m.inFlight.Load()
	if done <= 0 {
		return 0
	}
	return float64(m.callLatency.Load()) / float64(done) / 1e6
}

// HTTPErrorRate returns the share of failed HTTP calls as a percentage (0-100).
// Returns 0 if no calls have been made.
func (m *Metrics) HTTPErrorRate() float64 {
	total := m.httpCallsTotal.Load()
	if total == 0 {
		return 0
	}
	return float64(m.httpErrorsTotal.Load()) / float64(total) * 100
}

// Reset resets all metrics to zero.
// Useful for testing.
func (m *Metrics) Reset() {
	m.syncCallsTotal.Store(0)
	m.asyncCallsTotal.Store(0)
	m.callLatency.Store(0)
	m.inFlight.Store(0)
	m.nativeErrors.Store(0)
	m.decodeErrors.Store(0)
	m.encodeErrors.Store(0)
	m.contractViolations.Store(0)
	m.resultsReleased.Store(0)
	m.httpCallsTotal.Store(0)
	m.httpErrorsTotal.Store(0)
	m.httpLatency.Store(0)
}
