package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	plansSubmitted   atomic.Uint64
	plansFailed      atomic.Uint64
	versionConflicts atomic.Uint64
	retries          atomic.Uint64
	balanceRefreshes atomic.Uint64

	// RPC latency tracking
	rpcLatencySumNs atomic.Int64
	rpcLatencyCount atomic.Uint64

	// Gauges
	wsConnected atomic.Int32 // 1 = connected, 0 = not
	lanesActive atomic.Int32
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordSubmit records a confirmed plan submission with RPC latency.
func (m *Metrics) RecordSubmit(latencyNs int64) {
	m.plansSubmitted.Add(1)
	m.rpcLatencySumNs.Add(latencyNs)
	m.rpcLatencyCount.Add(1)
}

// RecordFailure records a terminally failed plan.
func (m *Metrics) RecordFailure() {
	m.plansFailed.Add(1)
}

// RecordVersionConflict records a fencing-token mismatch seen from the chain.
func (m *Metrics) RecordVersionConflict() {
	m.versionConflicts.Add(1)
}

// RecordRetry records one retry attempt (conflict or transient).
func (m *Metrics) RecordRetry() {
	m.retries.Add(1)
}

// RecordBalanceRefresh records a cache-miss balance query to the chain.
func (m *Metrics) RecordBalanceRefresh() {
	m.balanceRefreshes.Add(1)
}

// SetWSConnected sets the event stream connection gauge.
func (m *Metrics) SetWSConnected(connected bool) {
	if connected {
		m.wsConnected.Store(1)
	} else {
		m.wsConnected.Store(0)
	}
}

// IncrementLanes increments the active sequencer lane gauge.
func (m *Metrics) IncrementLanes() {
	m.lanesActive.Add(1)
}

// DecrementLanes decrements the active sequencer lane gauge.
func (m *Metrics) DecrementLanes() {
	m.lanesActive.Add(-1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	PlansSubmitted   uint64
	PlansFailed      uint64
	VersionConflicts uint64
	Retries          uint64
	BalanceRefreshes uint64
	AvgRPCLatencyNs  int64
	WSConnected      bool
	LanesActive      int32
	Timestamp        time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgLatency int64
	count := m.rpcLatencyCount.Load()
	if count > 0 {
		avgLatency = m.rpcLatencySumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		PlansSubmitted:   m.plansSubmitted.Load(),
		PlansFailed:      m.plansFailed.Load(),
		VersionConflicts: m.versionConflicts.Load(),
		Retries:          m.retries.Load(),
		BalanceRefreshes: m.balanceRefreshes.Load(),
		AvgRPCLatencyNs:  avgLatency,
		WSConnected:      m.wsConnected.Load() == 1,
		LanesActive:      m.lanesActive.Load(),
		Timestamp:        time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.plansSubmitted.Store(0)
	m.plansFailed.Store(0)
	m.versionConflicts.Store(0)
	m.retries.Store(0)
	m.balanceRefreshes.Store(0)
	m.rpcLatencySumNs.Store(0)
	m.rpcLatencyCount.Store(0)
	m.wsConnected.Store(0)
	m.lanesActive.Store(0)
}
