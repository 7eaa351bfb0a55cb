package infra

import (
	"testing"
)

func TestMetrics_RecordSubmit(t *testing.T) {
	m := &Metrics{}

	m.RecordSubmit(1000)
	m.RecordSubmit(2000)
	m.RecordSubmit(3000)

	snap := m.Snapshot()

	if snap.PlansSubmitted != 3 {
		t.Errorf("Expected 3 plans, got %d", snap.PlansSubmitted)
	}

	// Average latency: (1000 + 2000 + 3000) / 3 = 2000
	if snap.AvgRPCLatencyNs != 2000 {
		t.Errorf("Expected avg latency 2000, got %d", snap.AvgRPCLatencyNs)
	}
}

func TestMetrics_Counters(t *testing.T) {
	m := &Metrics{}

	m.RecordFailure()
	m.RecordVersionConflict()
	m.RecordVersionConflict()
	m.RecordRetry()
	m.RecordBalanceRefresh()

	snap := m.Snapshot()
	if snap.PlansFailed != 1 {
		t.Errorf("Expected 1 failure, got %d", snap.PlansFailed)
	}
	if snap.VersionConflicts != 2 {
		t.Errorf("Expected 2 conflicts, got %d", snap.VersionConflicts)
	}
	if snap.Retries != 1 {
		t.Errorf("Expected 1 retry, got %d", snap.Retries)
	}
	if snap.BalanceRefreshes != 1 {
		t.Errorf("Expected 1 refresh, got %d", snap.BalanceRefreshes)
	}
}

func TestMetrics_Lanes(t *testing.T) {
	m := &Metrics{}

	m.IncrementLanes()
	m.IncrementLanes()
	m.DecrementLanes()

	snap := m.Snapshot()
	if snap.LanesActive != 1 {
		t.Errorf("Expected 1 active lane, got %d", snap.LanesActive)
	}
}

func TestMetrics_WSGauge(t *testing.T) {
	m := &Metrics{}

	snap := m.Snapshot()
	if snap.WSConnected {
		t.Error("Expected disconnected initially")
	}

	m.SetWSConnected(true)
	if !m.Snapshot().WSConnected {
		t.Error("Expected connected")
	}

	m.SetWSConnected(false)
	if m.Snapshot().WSConnected {
		t.Error("Expected disconnected")
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := &Metrics{}
	m.RecordSubmit(500)
	m.RecordFailure()

	m.Reset()

	snap := m.Snapshot()
	if snap.PlansSubmitted != 0 || snap.PlansFailed != 0 || snap.AvgRPCLatencyNs != 0 {
		t.Errorf("Expected zeroed metrics, got %+v", snap)
	}
}
