package domain

import "time"

// CachedBalance is a locally cached per-coin balance of a balance manager.
// Fresh=false means the next read must go to the chain first.
type CachedBalance struct {
	Raw       uint64    `json:"raw"`
	Fresh     bool      `json:"fresh"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BalanceManager is a capability-gated on-chain sub-account.
// Version is this client's last confirmed view of the object version; it is
// authoritative only until the next mutation and advances exclusively through
// confirmed transaction outcomes.
type BalanceManager struct {
	Name     string                   `json:"name"` // Logical key, e.g. "MANAGER_1"
	ObjectID string                   `json:"object_id"`
	Version  uint64                   `json:"version"`
	Owner    string                   `json:"owner"`
	TradeCap string                   `json:"trade_cap,omitempty"` // Optional TradeCap object id
	Balances map[string]CachedBalance `json:"balances"`            // coin symbol -> cached balance
}

// Clone returns a deep copy so callers never alias store-internal state.
func (m *BalanceManager) Clone() *BalanceManager {
	cp := *m
	cp.Balances = make(map[string]CachedBalance, len(m.Balances))
	for k, v := range m.Balances {
		cp.Balances[k] = v
	}
	return &cp
}
