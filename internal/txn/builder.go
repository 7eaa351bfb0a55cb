// Package txn translates logical trading intents into transaction plans: the
// ordered Move-call sequences DeepBook expects, with every consumed object
// pinned at the version the plan was built from.
package txn

import (
	"fmt"
	"strconv"

	"deepbook_go/internal/domain"
	"deepbook_go/internal/registry"
	"deepbook_go/internal/scale"
	"deepbook_go/internal/service"

	"github.com/shopspring/decimal"
)

const (
	// DefaultGasBudget is 0.25 SUI in MIST.
	DefaultGasBudget = 250_000_000

	// clockObjectID is the well-known shared Sui clock.
	clockObjectID = "0x0000000000000000000000000000000000000000000000000000000000000006"
)

// Builder assembles transaction plans. Each build reads the manager entry
// exactly once, so every plan rests on a single consistent version snapshot.
type Builder struct {
	reg       *registry.Registry
	store     *service.ManagerStore
	sender    string
	gasBudget uint64
}

// NewBuilder creates a plan builder for the given sender address.
func NewBuilder(reg *registry.Registry, store *service.ManagerStore, sender string) *Builder {
	return &Builder{
		reg:       reg,
		store:     store,
		sender:    sender,
		gasBudget: DefaultGasBudget,
	}
}

// PlaceLimitOrderParams carries a limit order intent in human units.
type PlaceLimitOrderParams struct {
	Manager       string
	Pool          string
	Side          string // domain.SideBuy or domain.SideSell
	Price         decimal.Decimal
	Quantity      decimal.Decimal
	TimeInForce   domain.TimeInForce
	ExpireTs      uint64 // 0 means never (MaxTimestamp)
	PayWithDeep   bool
	ClientOrderID uint64
}

// CreateAndShareManager builds the plan that creates a new balance manager
// object and shares it.
func (b *Builder) CreateAndShareManager() *domain.TransactionPlan {
	plan := b.newPlan()
	plan.Steps = append(plan.Steps,
		domain.CallStep{
			Target: b.target("balance_manager", "new"),
		},
		domain.CallStep{
			Target: "0x2::transfer::public_share_object",
			Args:   []domain.CallArg{resultArg(0)},
		},
	)
	return plan
}

// Deposit builds a single-step plan moving amount of coin from the sender's
// wallet into the manager.
func (b *Builder) Deposit(managerName, coinSymbol string, amount decimal.Decimal) (*domain.TransactionPlan, error) {
	manager, err := b.store.Get(managerName)
	if err != nil {
		return nil, err
	}
	coin, err := b.reg.Resolve(coinSymbol)
	if err != nil {
		return nil, err
	}
	raw, err := scale.ToChainAmount(amount, coin)
	if err != nil {
		return nil, err
	}

	plan := b.newPlan()
	b.appendDeposit(plan, manager, coin, raw)
	return plan, nil
}

// Withdraw builds a plan moving amount of coin out of the manager to the
// sender. If the cached balance is fresh and below the requested amount the
// build fails fast with ErrInsufficientBalance instead of submitting a doomed
// transaction; the chain remains authoritative when the cache is stale.
func (b *Builder) Withdraw(managerName, coinSymbol string, amount decimal.Decimal) (*domain.TransactionPlan, error) {
	manager, err := b.store.Get(managerName)
	if err != nil {
		return nil, err
	}
	coin, err := b.reg.Resolve(coinSymbol)
	if err != nil {
		return nil, err
	}
	raw, err := scale.ToChainAmount(amount, coin)
	if err != nil {
		return nil, err
	}

	if cached, ok := manager.Balances[coin.Symbol]; ok && cached.Fresh && cached.Raw < raw {
		return nil, fmt.Errorf("%s has %d, withdraw needs %d: %w",
			managerName, cached.Raw, raw, domain.ErrInsufficientBalance)
	}

	plan := b.newPlan()
	plan.Steps = append(plan.Steps,
		domain.CallStep{
			Target:   b.target("balance_manager", "withdraw"),
			TypeArgs: []string{coin.Type},
			Args:     []domain.CallArg{managerArg(plan, manager), pureU64(raw)},
		},
		domain.CallStep{
			Target: "0x2::transfer::public_transfer",
			Args:   []domain.CallArg{resultArg(0), pureStr(b.sender)},
		},
	)
	return plan, nil
}

// WithdrawAll empties the manager's balance of one coin to the recipient.
func (b *Builder) WithdrawAll(managerName, coinSymbol, recipient string) (*domain.TransactionPlan, error) {
	manager, err := b.store.Get(managerName)
	if err != nil {
		return nil, err
	}
	coin, err := b.reg.Resolve(coinSymbol)
	if err != nil {
		return nil, err
	}
	if recipient == "" {
		recipient = b.sender
	}

	plan := b.newPlan()
	plan.Steps = append(plan.Steps,
		domain.CallStep{
			Target:   b.target("balance_manager", "withdraw_all"),
			TypeArgs: []string{coin.Type},
			Args:     []domain.CallArg{managerArg(plan, manager)},
		},
		domain.CallStep{
			Target: "0x2::transfer::public_transfer",
			Args:   []domain.CallArg{resultArg(0), pureStr(recipient)},
		},
	)
	return plan, nil
}

// PlaceLimitOrder builds the proof + place_limit_order plan for the intent.
// Scaling failures from the amount scaler propagate unchanged.
func (b *Builder) PlaceLimitOrder(p PlaceLimitOrderParams) (*domain.TransactionPlan, error) {
	manager, err := b.store.Get(p.Manager)
	if err != nil {
		return nil, err
	}

	plan := b.newPlan()
	if err := b.appendPlaceLimitOrder(plan, manager, p); err != nil {
		return nil, err
	}
	return plan, nil
}

// DepositAndPlaceLimitOrder builds one atomic plan that funds the manager and
// places the order. Both steps rest on the same version snapshot; the deposit
// produces no new manager version mid-plan from the chain's perspective.
func (b *Builder) DepositAndPlaceLimitOrder(coinSymbol string, amount decimal.Decimal, p PlaceLimitOrderParams) (*domain.TransactionPlan, error) {
	manager, err := b.store.Get(p.Manager)
	if err != nil {
		return nil, err
	}
	coin, err := b.reg.Resolve(coinSymbol)
	if err != nil {
		return nil, err
	}
	raw, err := scale.ToChainAmount(amount, coin)
	if err != nil {
		return nil, err
	}

	plan := b.newPlan()
	b.appendDeposit(plan, manager, coin, raw)
	if err := b.appendPlaceLimitOrder(plan, manager, p); err != nil {
		return nil, err
	}
	return plan, nil
}

// CancelOrder builds the cancel plan. No local precondition: cancelling an
// already-filled order is safe to attempt and comes back as a non-retryable
// chain execution error.
func (b *Builder) CancelOrder(managerName, poolPair, orderID string) (*domain.TransactionPlan, error) {
	manager, err := b.store.Get(managerName)
	if err != nil {
		return nil, err
	}
	pool, baseType, quoteType, err := b.poolTypes(poolPair)
	if err != nil {
		return nil, err
	}

	plan := b.newPlan()
	proof := b.appendProof(plan, manager)
	plan.Steps = append(plan.Steps, domain.CallStep{
		Target:   b.target("pool", "cancel_order"),
		TypeArgs: []string{baseType, quoteType},
		Args: []domain.CallArg{
			poolArg(plan, pool),
			managerArg(plan, manager),
			resultArg(proof),
			pureStr(orderID),
			clockArg(plan),
		},
	})
	return plan, nil
}

// CancelAllOrders cancels every open order of the manager in the pool.
func (b *Builder) CancelAllOrders(managerName, poolPair string) (*domain.TransactionPlan, error) {
	manager, err := b.store.Get(managerName)
	if err != nil {
		return nil, err
	}
	pool, baseType, quoteType, err := b.poolTypes(poolPair)
	if err != nil {
		return nil, err
	}

	plan := b.newPlan()
	proof := b.appendProof(plan, manager)
	plan.Steps = append(plan.Steps, domain.CallStep{
		Target:   b.target("pool", "cancel_all_orders"),
		TypeArgs: []string{baseType, quoteType},
		Args: []domain.CallArg{
			poolArg(plan, pool),
			managerArg(plan, manager),
			resultArg(proof),
			clockArg(plan),
		},
	})
	return plan, nil
}

// ClaimRebates collects the manager's accumulated rebates from the pool.
func (b *Builder) ClaimRebates(managerName, poolPair string) (*domain.TransactionPlan, error) {
	manager, err := b.store.Get(managerName)
	if err != nil {
		return nil, err
	}
	pool, baseType, quoteType, err := b.poolTypes(poolPair)
	if err != nil {
		return nil, err
	}

	plan := b.newPlan()
	proof := b.appendProof(plan, manager)
	plan.Steps = append(plan.Steps, domain.CallStep{
		Target:   b.target("pool", "claim_rebates"),
		TypeArgs: []string{baseType, quoteType},
		Args: []domain.CallArg{
			poolArg(plan, pool),
			managerArg(plan, manager),
			resultArg(proof),
		},
	})
	return plan, nil
}

// Stake locks DEEP from the manager into the pool's governance.
func (b *Builder) Stake(managerName, poolPair string, amount decimal.Decimal) (*domain.TransactionPlan, error) {
	manager, err := b.store.Get(managerName)
	if err != nil {
		return nil, err
	}
	pool, baseType, quoteType, err := b.poolTypes(poolPair)
	if err != nil {
		return nil, err
	}
	deep, err := b.reg.Resolve("DEEP")
	if err != nil {
		return nil, err
	}
	raw, err := scale.ToChainAmount(amount, deep)
	if err != nil {
		return nil, err
	}

	plan := b.newPlan()
	proof := b.appendProof(plan, manager)
	plan.Steps = append(plan.Steps, domain.CallStep{
		Target:   b.target("pool", "stake"),
		TypeArgs: []string{baseType, quoteType},
		Args: []domain.CallArg{
			poolArg(plan, pool),
			managerArg(plan, manager),
			resultArg(proof),
			pureU64(raw),
		},
	})
	return plan, nil
}

// Unstake releases the manager's staked DEEP from the pool.
func (b *Builder) Unstake(managerName, poolPair string) (*domain.TransactionPlan, error) {
	manager, err := b.store.Get(managerName)
	if err != nil {
		return nil, err
	}
	pool, baseType, quoteType, err := b.poolTypes(poolPair)
	if err != nil {
		return nil, err
	}

	plan := b.newPlan()
	proof := b.appendProof(plan, manager)
	plan.Steps = append(plan.Steps, domain.CallStep{
		Target:   b.target("pool", "unstake"),
		TypeArgs: []string{baseType, quoteType},
		Args: []domain.CallArg{
			poolArg(plan, pool),
			managerArg(plan, manager),
			resultArg(proof),
		},
	})
	return plan, nil
}

// SubmitProposal proposes new pool fee parameters. Fees are fractions (e.g.
// 0.0005) encoded at the pool's fixed-point scale.
func (b *Builder) SubmitProposal(managerName, poolPair string, takerFee, makerFee, stakeRequired decimal.Decimal) (*domain.TransactionPlan, error) {
	manager, err := b.store.Get(managerName)
	if err != nil {
		return nil, err
	}
	pool, baseType, quoteType, err := b.poolTypes(poolPair)
	if err != nil {
		return nil, err
	}
	deep, err := b.reg.Resolve("DEEP")
	if err != nil {
		return nil, err
	}

	takerRaw, err := fracToScalar(takerFee, "taker_fee")
	if err != nil {
		return nil, err
	}
	makerRaw, err := fracToScalar(makerFee, "maker_fee")
	if err != nil {
		return nil, err
	}
	stakeRaw, err := scale.ToChainAmount(stakeRequired, deep)
	if err != nil {
		return nil, err
	}

	plan := b.newPlan()
	proof := b.appendProof(plan, manager)
	plan.Steps = append(plan.Steps, domain.CallStep{
		Target:   b.target("pool", "submit_proposal"),
		TypeArgs: []string{baseType, quoteType},
		Args: []domain.CallArg{
			poolArg(plan, pool),
			managerArg(plan, manager),
			resultArg(proof),
			pureU64(takerRaw),
			pureU64(makerRaw),
			pureU64(stakeRaw),
		},
	})
	return plan, nil
}

// Vote casts the manager's stake behind a governance proposal.
func (b *Builder) Vote(managerName, poolPair, proposalID string) (*domain.TransactionPlan, error) {
	manager, err := b.store.Get(managerName)
	if err != nil {
		return nil, err
	}
	pool, baseType, quoteType, err := b.poolTypes(poolPair)
	if err != nil {
		return nil, err
	}

	plan := b.newPlan()
	proof := b.appendProof(plan, manager)
	plan.Steps = append(plan.Steps, domain.CallStep{
		Target:   b.target("pool", "vote"),
		TypeArgs: []string{baseType, quoteType},
		Args: []domain.CallArg{
			poolArg(plan, pool),
			managerArg(plan, manager),
			resultArg(proof),
			pureStr(proposalID),
		},
	})
	return plan, nil
}

// ---- internals ----

func (b *Builder) newPlan() *domain.TransactionPlan {
	return &domain.TransactionPlan{
		Sender:    b.sender,
		GasBudget: b.gasBudget,
	}
}

func (b *Builder) target(module, fn string) string {
	return b.reg.Packages().DeepbookPackageID + "::" + module + "::" + fn
}

func (b *Builder) poolTypes(poolPair string) (domain.PoolMetadata, string, string, error) {
	pool, err := b.reg.ResolvePool(poolPair)
	if err != nil {
		return domain.PoolMetadata{}, "", "", err
	}
	base, err := b.reg.Resolve(pool.BaseCoin)
	if err != nil {
		return domain.PoolMetadata{}, "", "", err
	}
	quote, err := b.reg.Resolve(pool.QuoteCoin)
	if err != nil {
		return domain.PoolMetadata{}, "", "", err
	}
	return pool, base.Type, quote.Type, nil
}

func (b *Builder) appendDeposit(plan *domain.TransactionPlan, manager *domain.BalanceManager, coin domain.CoinMetadata, raw uint64) {
	plan.Steps = append(plan.Steps, domain.CallStep{
		Target:   b.target("balance_manager", "deposit"),
		TypeArgs: []string{coin.Type},
		Args:     []domain.CallArg{managerArg(plan, manager), pureU64(raw)},
	})
}

func (b *Builder) appendPlaceLimitOrder(plan *domain.TransactionPlan, manager *domain.BalanceManager, p PlaceLimitOrderParams) error {
	pool, err := b.reg.ResolvePool(p.Pool)
	if err != nil {
		return err
	}
	base, err := b.reg.Resolve(pool.BaseCoin)
	if err != nil {
		return err
	}
	quote, err := b.reg.Resolve(pool.QuoteCoin)
	if err != nil {
		return err
	}

	priceRaw, err := scale.ToChainPrice(p.Price, pool, base, quote)
	if err != nil {
		return err
	}
	qtyRaw, err := scale.ToChainQuantity(p.Quantity, pool, base)
	if err != nil {
		return err
	}

	isBid := p.Side == domain.SideBuy
	if !isBid && p.Side != domain.SideSell {
		return fmt.Errorf("invalid side %q", p.Side)
	}

	expire := p.ExpireTs
	if expire == 0 {
		expire = domain.MaxTimestamp
	}

	proof := b.appendProof(plan, manager)
	plan.Steps = append(plan.Steps, domain.CallStep{
		Target:   b.target("pool", "place_limit_order"),
		TypeArgs: []string{base.Type, quote.Type},
		Args: []domain.CallArg{
			poolArg(plan, pool),
			managerArg(plan, manager),
			resultArg(proof),
			pureU64(p.ClientOrderID),
			pureU64(uint64(p.TimeInForce)),
			pureU64(priceRaw),
			pureU64(qtyRaw),
			pureBool(isBid),
			pureBool(p.PayWithDeep),
			pureU64(expire),
			clockArg(plan),
		},
	})
	return nil
}

// appendProof emits the trade-proof step for the manager and returns its step
// index. Managers holding a TradeCap prove as trader, otherwise as owner.
func (b *Builder) appendProof(plan *domain.TransactionPlan, manager *domain.BalanceManager) int {
	step := domain.CallStep{
		Target: b.target("balance_manager", "generate_proof_as_owner"),
		Args:   []domain.CallArg{managerArg(plan, manager)},
	}
	if manager.TradeCap != "" {
		capRef := domain.ObjectRef{ID: manager.TradeCap}
		plan.Reference(capRef)
		step = domain.CallStep{
			Target: b.target("balance_manager", "generate_proof_as_trader"),
			Args: []domain.CallArg{
				managerArg(plan, manager),
				{Kind: domain.ArgObject, Object: &capRef},
			},
		}
	}
	plan.Steps = append(plan.Steps, step)
	return len(plan.Steps) - 1
}

func managerArg(plan *domain.TransactionPlan, m *domain.BalanceManager) domain.CallArg {
	ref := domain.ObjectRef{ID: m.ObjectID, Version: m.Version, Mutable: true, Shared: true}
	plan.Reference(ref)
	return domain.CallArg{Kind: domain.ArgObject, Object: &ref}
}

func poolArg(plan *domain.TransactionPlan, p domain.PoolMetadata) domain.CallArg {
	ref := domain.ObjectRef{ID: p.PoolID, Mutable: true, Shared: true}
	plan.Reference(ref)
	return domain.CallArg{Kind: domain.ArgObject, Object: &ref}
}

func clockArg(plan *domain.TransactionPlan) domain.CallArg {
	ref := domain.ObjectRef{ID: clockObjectID, Shared: true}
	plan.Reference(ref)
	return domain.CallArg{Kind: domain.ArgObject, Object: &ref}
}

func resultArg(step int) domain.CallArg {
	return domain.CallArg{Kind: domain.ArgResult, Result: step}
}

func pureU64(v uint64) domain.CallArg {
	return domain.CallArg{Kind: domain.ArgPure, Pure: strconv.FormatUint(v, 10)}
}

func pureBool(v bool) domain.CallArg {
	return domain.CallArg{Kind: domain.ArgPure, Pure: strconv.FormatBool(v)}
}

func pureStr(v string) domain.CallArg {
	return domain.CallArg{Kind: domain.ArgPure, Pure: v}
}

// fracToScalar encodes a fee fraction at FloatScalar precision, exactly.
func fracToScalar(v decimal.Decimal, what string) (uint64, error) {
	scaled := v.Mul(decimal.NewFromInt(scale.FloatScalar))
	if !scaled.IsInteger() || scaled.Sign() < 0 {
		return 0, fmt.Errorf("%s: %w", what, domain.ErrPrecisionLoss)
	}
	bi := scaled.BigInt()
	if !bi.IsUint64() {
		return 0, fmt.Errorf("%s: value %s overflows chain units", what, scaled)
	}
	return bi.Uint64(), nil
}
