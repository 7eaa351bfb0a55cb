// Package deepbook is the client facade. Write operations run the full
// build -> sequence -> submit -> apply-outcome pipeline; read operations
// bypass the sequencer and refresh stale caches from the chain.
package deepbook

import (
	"context"
	"fmt"
	"log/slog"

	"deepbook_go/internal/domain"
	"deepbook_go/internal/engine"
	"deepbook_go/internal/infra"
	"deepbook_go/internal/infra/storage"
	"deepbook_go/internal/registry"
	"deepbook_go/internal/scale"
	"deepbook_go/internal/service"
	"deepbook_go/internal/txn"

	"github.com/shopspring/decimal"
)

// Client exposes trading, balance and governance operations against DeepBook.
type Client struct {
	reg     *registry.Registry
	store   *service.ManagerStore
	builder *txn.Builder
	seq     *engine.Sequencer
	gateway domain.ChainGateway
	journal *storage.Journal // Optional
	logger  *slog.Logger
}

// New composes a client. journal may be nil.
func New(reg *registry.Registry, store *service.ManagerStore, gateway domain.ChainGateway,
	policy engine.RetryPolicy, sender string, journal *storage.Journal) *Client {
	return &Client{
		reg:     reg,
		store:   store,
		builder: txn.NewBuilder(reg, store, sender),
		seq:     engine.NewSequencer(store, gateway, policy),
		gateway: gateway,
		journal: journal,
		logger:  slog.Default().With("module", "deepbook_client"),
	}
}

// Close stops the sequencer. In-flight plans finish first.
func (c *Client) Close() {
	c.seq.Close()
}

// Builder exposes the plan builder for callers composing custom plans.
func (c *Client) Builder() *txn.Builder {
	return c.builder
}

// ---- write operations ----

// CreateBalanceManager creates and shares a new balance manager, registers it
// under the logical name and returns the outcome. This is the one mutation
// that cannot go through a manager lane, since the manager does not exist yet.
func (c *Client) CreateBalanceManager(ctx context.Context, name string) (*domain.TransactionOutcome, error) {
	plan := c.builder.CreateAndShareManager()

	outcome, err := c.gateway.Submit(ctx, plan)
	c.record(name, "create_balance_manager", plan, outcome, err)
	if err != nil {
		return nil, err
	}

	// The manager is the plan's single created object. Versions also carries
	// mutated objects (gas coin included), so never pick from there.
	if len(outcome.Created) == 0 {
		return outcome, fmt.Errorf("create %s: outcome reports no created object", name)
	}
	managerID := outcome.Created[0]
	if err := c.store.Register(domain.BalanceManager{
		Name:     name,
		ObjectID: managerID,
		Version:  outcome.Versions[managerID],
		Owner:    plan.Sender,
	}); err != nil {
		return outcome, err
	}
	c.logger.Info("balance manager created",
		slog.String("name", name), slog.String("object_id", managerID))
	return outcome, nil
}

// DepositIntoManager moves amount of coin from the sender's wallet into the
// manager. On confirmation the cached balance is credited locally.
func (c *Client) DepositIntoManager(ctx context.Context, manager, coinSymbol string, amount decimal.Decimal) (*domain.TransactionOutcome, error) {
	coin, err := c.reg.Resolve(coinSymbol)
	if err != nil {
		return nil, err
	}
	raw, err := scale.ToChainAmount(amount, coin)
	if err != nil {
		return nil, err
	}

	outcome, err := c.submit(ctx, manager, "deposit", func() (*domain.TransactionPlan, error) {
		return c.builder.Deposit(manager, coinSymbol, amount)
	})
	if err != nil {
		return nil, err
	}

	c.store.AdjustBalance(manager, coinSymbol, int64(raw))
	return outcome, nil
}

// WithdrawFromManager moves amount of coin from the manager back to the
// sender. On confirmation the cached balance is debited locally.
func (c *Client) WithdrawFromManager(ctx context.Context, manager, coinSymbol string, amount decimal.Decimal) (*domain.TransactionOutcome, error) {
	coin, err := c.reg.Resolve(coinSymbol)
	if err != nil {
		return nil, err
	}
	raw, err := scale.ToChainAmount(amount, coin)
	if err != nil {
		return nil, err
	}

	outcome, err := c.submit(ctx, manager, "withdraw", func() (*domain.TransactionPlan, error) {
		return c.builder.Withdraw(manager, coinSymbol, amount)
	})
	if err != nil {
		return nil, err
	}

	c.store.AdjustBalance(manager, coinSymbol, -int64(raw))
	return outcome, nil
}

// WithdrawAllFromManager empties the manager's balance of one coin. The
// cached amount for the coin becomes stale, not guessed.
func (c *Client) WithdrawAllFromManager(ctx context.Context, manager, coinSymbol, recipient string) (*domain.TransactionOutcome, error) {
	outcome, err := c.submit(ctx, manager, "withdraw_all", func() (*domain.TransactionPlan, error) {
		return c.builder.WithdrawAll(manager, coinSymbol, recipient)
	})
	if err != nil {
		return nil, err
	}

	c.store.InvalidateBalance(manager, coinSymbol)
	return outcome, nil
}

// PlaceLimitOrder places a limit order. Escrowed funds change both pool coins,
// so both cached balances go stale on confirmation.
func (c *Client) PlaceLimitOrder(ctx context.Context, p txn.PlaceLimitOrderParams) (*domain.TransactionOutcome, error) {
	outcome, err := c.submit(ctx, p.Manager, "place_limit_order", func() (*domain.TransactionPlan, error) {
		return c.builder.PlaceLimitOrder(p)
	})
	if err != nil {
		return nil, err
	}

	c.invalidatePoolBalances(p.Manager, p.Pool)
	return outcome, nil
}

// PlaceLimitOrderWithDeposit funds the manager and places the order in one
// atomic plan.
func (c *Client) PlaceLimitOrderWithDeposit(ctx context.Context, coinSymbol string, amount decimal.Decimal, p txn.PlaceLimitOrderParams) (*domain.TransactionOutcome, error) {
	outcome, err := c.submit(ctx, p.Manager, "deposit_and_place_limit_order", func() (*domain.TransactionPlan, error) {
		return c.builder.DepositAndPlaceLimitOrder(coinSymbol, amount, p)
	})
	if err != nil {
		return nil, err
	}

	c.store.InvalidateBalance(p.Manager, coinSymbol)
	c.invalidatePoolBalances(p.Manager, p.Pool)
	return outcome, nil
}

// CancelOrder cancels one order. An already-filled order comes back from the
// chain as a fatal execution error, never a retry.
func (c *Client) CancelOrder(ctx context.Context, manager, pool, orderID string) (*domain.TransactionOutcome, error) {
	outcome, err := c.submit(ctx, manager, "cancel_order", func() (*domain.TransactionPlan, error) {
		return c.builder.CancelOrder(manager, pool, orderID)
	})
	if err != nil {
		return nil, err
	}

	c.invalidatePoolBalances(manager, pool)
	return outcome, nil
}

// CancelAllOrders cancels every open order of the manager in the pool.
func (c *Client) CancelAllOrders(ctx context.Context, manager, pool string) (*domain.TransactionOutcome, error) {
	outcome, err := c.submit(ctx, manager, "cancel_all_orders", func() (*domain.TransactionPlan, error) {
		return c.builder.CancelAllOrders(manager, pool)
	})
	if err != nil {
		return nil, err
	}

	c.invalidatePoolBalances(manager, pool)
	return outcome, nil
}

// ClaimRebates collects accumulated maker rebates into the manager.
func (c *Client) ClaimRebates(ctx context.Context, manager, pool string) (*domain.TransactionOutcome, error) {
	outcome, err := c.submit(ctx, manager, "claim_rebates", func() (*domain.TransactionPlan, error) {
		return c.builder.ClaimRebates(manager, pool)
	})
	if err != nil {
		return nil, err
	}

	c.store.InvalidateBalance(manager, "DEEP")
	return outcome, nil
}

// Stake locks DEEP from the manager into pool governance.
func (c *Client) Stake(ctx context.Context, manager, pool string, amount decimal.Decimal) (*domain.TransactionOutcome, error) {
	outcome, err := c.submit(ctx, manager, "stake", func() (*domain.TransactionPlan, error) {
		return c.builder.Stake(manager, pool, amount)
	})
	if err != nil {
		return nil, err
	}

	c.store.InvalidateBalance(manager, "DEEP")
	return outcome, nil
}

// Unstake releases the manager's staked DEEP.
func (c *Client) Unstake(ctx context.Context, manager, pool string) (*domain.TransactionOutcome, error) {
	outcome, err := c.submit(ctx, manager, "unstake", func() (*domain.TransactionPlan, error) {
		return c.builder.Unstake(manager, pool)
	})
	if err != nil {
		return nil, err
	}

	c.store.InvalidateBalance(manager, "DEEP")
	return outcome, nil
}

// SubmitProposal proposes new pool fee parameters.
func (c *Client) SubmitProposal(ctx context.Context, manager, pool string, takerFee, makerFee, stakeRequired decimal.Decimal) (*domain.TransactionOutcome, error) {
	return c.submit(ctx, manager, "submit_proposal", func() (*domain.TransactionPlan, error) {
		return c.builder.SubmitProposal(manager, pool, takerFee, makerFee, stakeRequired)
	})
}

// Vote casts the manager's stake behind a proposal.
func (c *Client) Vote(ctx context.Context, manager, pool, proposalID string) (*domain.TransactionOutcome, error) {
	return c.submit(ctx, manager, "vote", func() (*domain.TransactionPlan, error) {
		return c.builder.Vote(manager, pool, proposalID)
	})
}

// ---- read operations ----

// CheckManagerBalance returns the manager's balance of one coin in human
// units. A stale cache forces a chain query first.
func (c *Client) CheckManagerBalance(ctx context.Context, manager, coinSymbol string) (decimal.Decimal, error) {
	coin, err := c.reg.Resolve(coinSymbol)
	if err != nil {
		return decimal.Zero, err
	}

	cached, err := c.store.Balance(manager, coinSymbol)
	if err != nil {
		return decimal.Zero, err
	}

	if !cached.Fresh {
		m, err := c.store.Get(manager)
		if err != nil {
			return decimal.Zero, err
		}
		infra.GlobalMetrics.RecordBalanceRefresh()
		state, err := c.gateway.QueryObject(ctx, m.ObjectID)
		if err != nil {
			return decimal.Zero, err
		}
		raw := state.Balances[coin.Type]
		if err := c.store.SetBalance(manager, coinSymbol, raw); err != nil {
			return decimal.Zero, err
		}
		cached = domain.CachedBalance{Raw: raw, Fresh: true}
	}

	return scale.FromChainAmount(cached.Raw, coin), nil
}

// AccountOpenOrders returns one page of the manager's open orders in a pool.
func (c *Client) AccountOpenOrders(ctx context.Context, manager, poolPair, cursor string, limit int) (*domain.OrderPage, error) {
	m, err := c.store.Get(manager)
	if err != nil {
		return nil, err
	}
	pool, err := c.reg.ResolvePool(poolPair)
	if err != nil {
		return nil, err
	}

	page, err := c.gateway.QueryOpenOrders(ctx, pool.PoolID, m.ObjectID, cursor, limit)
	if err != nil {
		return nil, err
	}
	for i := range page.Orders {
		page.Orders[i].Manager = manager
		page.Orders[i].Pool = poolPair
	}
	return page, nil
}

// PoolInfo returns the registry metadata of a pool.
func (c *Client) PoolInfo(poolPair string) (domain.PoolMetadata, error) {
	return c.reg.ResolvePool(poolPair)
}

// PoolWhitelisted reports whether the pool is whitelisted for fee discounts.
func (c *Client) PoolWhitelisted(ctx context.Context, poolPair string) (bool, error) {
	pool, err := c.reg.ResolvePool(poolPair)
	if err != nil {
		return false, err
	}
	state, err := c.gateway.QueryObject(ctx, pool.PoolID)
	if err != nil {
		return false, err
	}
	wl, _ := state.Fields["whitelisted"].(bool)
	return wl, nil
}

// ManagerOwner returns the on-chain owner address of a balance manager.
func (c *Client) ManagerOwner(ctx context.Context, manager string) (string, error) {
	m, err := c.store.Get(manager)
	if err != nil {
		return "", err
	}
	state, err := c.gateway.QueryObject(ctx, m.ObjectID)
	if err != nil {
		return "", err
	}
	return state.Owner, nil
}

// RefreshRegistry swaps in a new coin/pool snapshot.
func (c *Client) RefreshRegistry(coins []domain.CoinMetadata, pools []domain.PoolMetadata) {
	c.reg.Refresh(coins, pools)
}

// InvalidateOnEvent marks a manager's balances stale when the event stream
// reports external activity on its object.
func (c *Client) InvalidateOnEvent(managerObjectID, poolID string) {
	name, ok := c.store.FindByObjectID(managerObjectID)
	if !ok {
		return
	}
	c.store.InvalidateAll(name)
	c.logger.Debug("balances invalidated by chain event",
		slog.String("manager", name), slog.String("pool", poolID))
}

// ---- internals ----

func (c *Client) submit(ctx context.Context, manager, kind string, build engine.BuildFunc) (*domain.TransactionOutcome, error) {
	var lastPlan *domain.TransactionPlan
	wrapped := func() (*domain.TransactionPlan, error) {
		plan, err := build()
		if err == nil {
			lastPlan = plan
		}
		return plan, err
	}

	outcome, err := c.seq.Submit(ctx, manager, wrapped)
	if lastPlan != nil {
		c.record(manager, kind, lastPlan, outcome, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%s for %s: %w", kind, manager, err)
	}
	return outcome, nil
}

func (c *Client) record(manager, kind string, plan *domain.TransactionPlan, outcome *domain.TransactionOutcome, err error) {
	if c.journal == nil {
		return
	}
	if jerr := c.journal.Record(manager, kind, plan, outcome, err); jerr != nil {
		c.logger.Warn("journal write failed", slog.Any("error", jerr))
	}
}

func (c *Client) invalidatePoolBalances(manager, poolPair string) {
	pool, err := c.reg.ResolvePool(poolPair)
	if err != nil {
		return
	}
	c.store.InvalidateBalance(manager, pool.BaseCoin)
	c.store.InvalidateBalance(manager, pool.QuoteCoin)
}
