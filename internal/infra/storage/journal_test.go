package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"deepbook_go/internal/domain"
)

func setupTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := NewJournal(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("failed to open test journal: %v", err)
	}
	return j
}

func samplePlan() *domain.TransactionPlan {
	return &domain.TransactionPlan{
		Sender:    "0xsender",
		GasBudget: 1,
		Steps:     []domain.CallStep{{Target: "pkg::balance_manager::deposit"}},
	}
}

func TestJournal_RecordOutcome(t *testing.T) {
	j := setupTestJournal(t)

	outcome := &domain.TransactionOutcome{Success: true, Digest: "0xdigest"}
	if err := j.Record("mm-main", "deposit", samplePlan(), outcome, nil); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	recs, err := j.RecentByManager("mm-main", 10)
	if err != nil {
		t.Fatalf("RecentByManager failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	r := recs[0]
	if r.Kind != "deposit" || r.Digest != "0xdigest" || !r.Success || r.Steps != 1 {
		t.Errorf("unexpected record %+v", r)
	}
}

func TestJournal_RecordFailure(t *testing.T) {
	j := setupTestJournal(t)

	submitErr := errors.New("connection reset")
	if err := j.Record("mm-main", "withdraw", samplePlan(), nil, submitErr); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	recs, _ := j.RecentByManager("mm-main", 10)
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Success {
		t.Error("failed submission recorded as success")
	}
	if recs[0].Failure != "connection reset" {
		t.Errorf("expected failure reason, got %q", recs[0].Failure)
	}
}

func TestJournal_RecentByManagerOrderAndScope(t *testing.T) {
	j := setupTestJournal(t)

	j.Record("mm-a", "deposit", samplePlan(), &domain.TransactionOutcome{Digest: "d1"}, nil)
	j.Record("mm-a", "withdraw", samplePlan(), &domain.TransactionOutcome{Digest: "d2"}, nil)
	j.Record("mm-b", "deposit", samplePlan(), &domain.TransactionOutcome{Digest: "d3"}, nil)

	recs, err := j.RecentByManager("mm-a", 10)
	if err != nil {
		t.Fatalf("RecentByManager failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records for mm-a, got %d", len(recs))
	}
	// Newest first
	if recs[0].Digest != "d2" || recs[1].Digest != "d1" {
		t.Errorf("unexpected order: %s, %s", recs[0].Digest, recs[1].Digest)
	}
}
