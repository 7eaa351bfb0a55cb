package registry

import (
	"errors"
	"testing"

	"deepbook_go/internal/domain"
)

func TestRegistry_ResolveDefaults(t *testing.T) {
	reg := New("testnet", nil, nil)

	deep, err := reg.Resolve("DEEP")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deep.Decimals != 6 {
		t.Errorf("Expected DEEP with 6 decimals, got %d", deep.Decimals)
	}

	pool, err := reg.ResolvePool("SUI_DBUSDC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pool.BaseCoin != "SUI" || pool.QuoteCoin != "DBUSDC" {
		t.Errorf("Unexpected pool coins: %s/%s", pool.BaseCoin, pool.QuoteCoin)
	}
}

func TestRegistry_Unknown(t *testing.T) {
	reg := New("testnet", nil, nil)

	if _, err := reg.Resolve("DOGE"); !errors.Is(err, domain.ErrUnknownCoin) {
		t.Errorf("Expected ErrUnknownCoin, got %v", err)
	}
	if _, err := reg.ResolvePool("DOGE_SUI"); !errors.Is(err, domain.ErrUnknownPool) {
		t.Errorf("Expected ErrUnknownPool, got %v", err)
	}
}

func TestRegistry_UnknownEnvFallsBackToTestnet(t *testing.T) {
	reg := New("devnet", nil, nil)
	if reg.Env() != "testnet" {
		t.Errorf("Expected testnet fallback, got %s", reg.Env())
	}
	if reg.Packages() != TestnetPackageIDs {
		t.Error("Expected testnet package ids")
	}
}

func TestRegistry_MainnetPackages(t *testing.T) {
	reg := New("mainnet", nil, nil)
	if reg.Packages() != MainnetPackageIDs {
		t.Error("Expected mainnet package ids")
	}
	if _, err := reg.Resolve("USDC"); err != nil {
		t.Errorf("USDC should exist on mainnet: %v", err)
	}
}

func TestRegistry_Overrides(t *testing.T) {
	custom := domain.CoinMetadata{Symbol: "SUI", Type: "0x2::sui::SUI", Decimals: 9}
	pool := domain.PoolMetadata{Pair: "FOO_BAR", PoolID: "0xabc",
		BaseCoin: "FOO", QuoteCoin: "BAR", TickSize: 1, LotSize: 1, MinSize: 1}

	reg := New("testnet", []domain.CoinMetadata{custom}, []domain.PoolMetadata{pool})

	got, err := reg.ResolvePool("FOO_BAR")
	if err != nil {
		t.Fatalf("override pool missing: %v", err)
	}
	if got.PoolID != "0xabc" {
		t.Errorf("Expected override pool id, got %s", got.PoolID)
	}
}

func TestRegistry_Refresh(t *testing.T) {
	reg := New("testnet", nil, nil)
	before := len(reg.Coins())

	// Replacing pools only must keep the coin snapshot intact.
	reg.Refresh(nil, []domain.PoolMetadata{
		{Pair: "ONLY_ONE", PoolID: "0x1", BaseCoin: "SUI", QuoteCoin: "DBUSDC",
			TickSize: 1, LotSize: 1, MinSize: 1},
	})

	if len(reg.Coins()) != before {
		t.Errorf("Coin snapshot changed: %d -> %d", before, len(reg.Coins()))
	}
	if len(reg.Pools()) != 1 {
		t.Errorf("Expected 1 pool after refresh, got %d", len(reg.Pools()))
	}
	if _, err := reg.ResolvePool("SUI_DBUSDC"); !errors.Is(err, domain.ErrUnknownPool) {
		t.Error("Old pool should be gone after refresh")
	}
}
