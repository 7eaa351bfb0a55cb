// Package registry holds the coin and pool metadata snapshots for one chain
// environment. Snapshots are immutable; Refresh swaps the whole snapshot
// atomically, so readers see either the old or the new view, never a mix.
package registry

import (
	"fmt"
	"sync"

	"deepbook_go/internal/domain"
)

// PackageIDs are the environment's well-known DeepBook object ids.
type PackageIDs struct {
	DeepbookPackageID string
	RegistryID        string
	DeepTreasuryID    string
}

type snapshot struct {
	coins map[string]domain.CoinMetadata
	pools map[string]domain.PoolMetadata
}

// Registry resolves coin symbols and pool pairs to their chain metadata.
type Registry struct {
	env      string
	packages PackageIDs

	mu   sync.RWMutex
	snap *snapshot
}

// New builds a registry for the given environment ("mainnet" or "testnet"),
// applying any overrides on top of the built-in defaults. Unknown
// environments fall back to testnet, matching the reference deployment.
func New(env string, coinOverrides []domain.CoinMetadata, poolOverrides []domain.PoolMetadata) *Registry {
	var coins map[string]domain.CoinMetadata
	var pools map[string]domain.PoolMetadata
	var pkgs PackageIDs

	switch env {
	case "mainnet":
		coins, pools, pkgs = mainnetCoins(), mainnetPools(), MainnetPackageIDs
	default:
		env = "testnet"
		coins, pools, pkgs = testnetCoins(), testnetPools(), TestnetPackageIDs
	}

	for _, c := range coinOverrides {
		coins[c.Symbol] = c
	}
	for _, p := range poolOverrides {
		pools[p.Pair] = p
	}

	return &Registry{
		env:      env,
		packages: pkgs,
		snap:     &snapshot{coins: coins, pools: pools},
	}
}

// Env returns the environment name the registry was built for.
func (r *Registry) Env() string {
	return r.env
}

// Packages returns the environment's package ids.
func (r *Registry) Packages() PackageIDs {
	return r.packages
}

// Resolve returns the metadata for a coin symbol.
func (r *Registry) Resolve(symbol string) (domain.CoinMetadata, error) {
	r.mu.RLock()
	snap := r.snap
	r.mu.RUnlock()

	c, ok := snap.coins[symbol]
	if !ok {
		return domain.CoinMetadata{}, fmt.Errorf("%q: %w", symbol, domain.ErrUnknownCoin)
	}
	return c, nil
}

// ResolvePool returns the metadata for a pool pair key.
func (r *Registry) ResolvePool(pair string) (domain.PoolMetadata, error) {
	r.mu.RLock()
	snap := r.snap
	r.mu.RUnlock()

	p, ok := snap.pools[pair]
	if !ok {
		return domain.PoolMetadata{}, fmt.Errorf("%q: %w", pair, domain.ErrUnknownPool)
	}
	return p, nil
}

// Coins returns all coins in the current snapshot.
func (r *Registry) Coins() []domain.CoinMetadata {
	r.mu.RLock()
	snap := r.snap
	r.mu.RUnlock()

	out := make([]domain.CoinMetadata, 0, len(snap.coins))
	for _, c := range snap.coins {
		out = append(out, c)
	}
	return out
}

// Pools returns all pools in the current snapshot.
func (r *Registry) Pools() []domain.PoolMetadata {
	r.mu.RLock()
	snap := r.snap
	r.mu.RUnlock()

	out := make([]domain.PoolMetadata, 0, len(snap.pools))
	for _, p := range snap.pools {
		out = append(out, p)
	}
	return out
}

// Refresh replaces the whole snapshot. Nil slices keep the current entries.
func (r *Registry) Refresh(coins []domain.CoinMetadata, pools []domain.PoolMetadata) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := &snapshot{
		coins: make(map[string]domain.CoinMetadata, len(r.snap.coins)),
		pools: make(map[string]domain.PoolMetadata, len(r.snap.pools)),
	}

	if coins == nil {
		for k, v := range r.snap.coins {
			next.coins[k] = v
		}
	} else {
		for _, c := range coins {
			next.coins[c.Symbol] = c
		}
	}

	if pools == nil {
		for k, v := range r.snap.pools {
			next.pools[k] = v
		}
	} else {
		for _, p := range pools {
			next.pools[p.Pair] = p
		}
	}

	r.snap = next
}
