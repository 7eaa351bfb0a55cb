package service

import (
	"errors"
	"testing"

	"deepbook_go/internal/domain"
)

func newStoreWithManager(t *testing.T) *ManagerStore {
	t.Helper()
	s := NewManagerStore()
	err := s.Register(domain.BalanceManager{
		Name:     "mm-main",
		ObjectID: "0xmanager",
		Version:  10,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return s
}

func TestManagerStore_RegisterDuplicate(t *testing.T) {
	s := newStoreWithManager(t)
	err := s.Register(domain.BalanceManager{Name: "mm-main", ObjectID: "0xother"})
	if err == nil {
		t.Error("duplicate registration should fail")
	}
}

func TestManagerStore_GetReturnsCopy(t *testing.T) {
	s := newStoreWithManager(t)

	m, err := s.Get("mm-main")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Version = 999
	m.Balances["SUI"] = domain.CachedBalance{Raw: 1, Fresh: true}

	again, _ := s.Get("mm-main")
	if again.Version != 10 {
		t.Errorf("Store version mutated through copy: %d", again.Version)
	}
	if _, ok := again.Balances["SUI"]; ok {
		t.Error("Store balances mutated through copy")
	}
}

func TestManagerStore_GetUnknown(t *testing.T) {
	s := NewManagerStore()
	if _, err := s.Get("nope"); !errors.Is(err, domain.ErrUnknownManager) {
		t.Errorf("Expected ErrUnknownManager, got %v", err)
	}
}

func TestManagerStore_ApplyOutcome(t *testing.T) {
	s := newStoreWithManager(t)

	outcome := &domain.TransactionOutcome{
		Success:  true,
		Versions: map[string]uint64{"0xmanager": 11, "0xpool": 500},
	}
	if err := s.ApplyOutcome("mm-main", outcome); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m, _ := s.Get("mm-main")
	if m.Version != 11 {
		t.Errorf("Expected version 11, got %d", m.Version)
	}

	// A stale outcome (lower version) must not rewind the entry.
	stale := &domain.TransactionOutcome{Versions: map[string]uint64{"0xmanager": 5}}
	s.ApplyOutcome("mm-main", stale)
	m, _ = s.Get("mm-main")
	if m.Version != 11 {
		t.Errorf("Version rewound to %d", m.Version)
	}

	// An outcome not mentioning the manager object leaves it untouched.
	other := &domain.TransactionOutcome{Versions: map[string]uint64{"0xpool": 501}}
	s.ApplyOutcome("mm-main", other)
	m, _ = s.Get("mm-main")
	if m.Version != 11 {
		t.Errorf("Unrelated outcome changed version to %d", m.Version)
	}
}

func TestManagerStore_SetVersionOverwrites(t *testing.T) {
	s := newStoreWithManager(t)

	// Authoritative refetch may move the version in either direction.
	if err := s.SetVersion("mm-main", 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, _ := s.Get("mm-main")
	if m.Version != 7 {
		t.Errorf("Expected version 7, got %d", m.Version)
	}
}

func TestManagerStore_BalanceLifecycle(t *testing.T) {
	s := newStoreWithManager(t)

	// Never fetched: stale zero value.
	b, err := s.Balance("mm-main", "SUI")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Fresh {
		t.Error("unfetched balance should be stale")
	}

	s.SetBalance("mm-main", "SUI", 5_000_000_000)
	b, _ = s.Balance("mm-main", "SUI")
	if !b.Fresh || b.Raw != 5_000_000_000 {
		t.Errorf("Expected fresh 5000000000, got %+v", b)
	}

	// Confirmed deposit credits the fresh cache.
	s.AdjustBalance("mm-main", "SUI", 1_000_000_000)
	b, _ = s.Balance("mm-main", "SUI")
	if b.Raw != 6_000_000_000 {
		t.Errorf("Expected 6000000000 after credit, got %d", b.Raw)
	}

	// Confirmed withdrawal debits it.
	s.AdjustBalance("mm-main", "SUI", -2_000_000_000)
	b, _ = s.Balance("mm-main", "SUI")
	if b.Raw != 4_000_000_000 {
		t.Errorf("Expected 4000000000 after debit, got %d", b.Raw)
	}
}

func TestManagerStore_AdjustInvalidatesOnUnderflow(t *testing.T) {
	s := newStoreWithManager(t)
	s.SetBalance("mm-main", "SUI", 100)

	// Debit larger than the cache: invalidate rather than guess.
	s.AdjustBalance("mm-main", "SUI", -200)
	b, _ := s.Balance("mm-main", "SUI")
	if b.Fresh {
		t.Error("underflowing debit should invalidate the cache")
	}
}

func TestManagerStore_AdjustStaleStaysStale(t *testing.T) {
	s := newStoreWithManager(t)

	// Adjusting a never-fetched balance must not fabricate a fresh value.
	s.AdjustBalance("mm-main", "SUI", 500)
	b, _ := s.Balance("mm-main", "SUI")
	if b.Fresh {
		t.Error("adjusting a stale cache should keep it stale")
	}
}

func TestManagerStore_Invalidate(t *testing.T) {
	s := newStoreWithManager(t)
	s.SetBalance("mm-main", "SUI", 100)
	s.SetBalance("mm-main", "DEEP", 200)

	s.InvalidateBalance("mm-main", "SUI")
	sui, _ := s.Balance("mm-main", "SUI")
	deep, _ := s.Balance("mm-main", "DEEP")
	if sui.Fresh {
		t.Error("SUI should be stale")
	}
	if !deep.Fresh {
		t.Error("DEEP should be untouched")
	}

	s.InvalidateAll("mm-main")
	deep, _ = s.Balance("mm-main", "DEEP")
	if deep.Fresh {
		t.Error("DEEP should be stale after InvalidateAll")
	}
}

func TestManagerStore_FindByObjectID(t *testing.T) {
	s := newStoreWithManager(t)

	name, ok := s.FindByObjectID("0xmanager")
	if !ok || name != "mm-main" {
		t.Errorf("Expected mm-main, got %q (ok=%v)", name, ok)
	}
	if _, ok := s.FindByObjectID("0xunknown"); ok {
		t.Error("Unknown object id should not resolve")
	}
}
