package app

import (
	"context"
	"log/slog"
	"sync"

	"deepbook_go/internal/deepbook"
	"deepbook_go/internal/domain"
	"deepbook_go/internal/engine"
	"deepbook_go/internal/infra"
	"deepbook_go/internal/infra/storage"
	"deepbook_go/internal/infra/sui"
	"deepbook_go/internal/registry"
	"deepbook_go/internal/service"
)

// Bootstrap orchestrates the client startup sequence
type Bootstrap struct {
	Config   *infra.Config
	Registry *registry.Registry
	Store    *service.ManagerStore
	Gateway  *sui.Gateway
	Journal  *storage.Journal
	Client   *deepbook.Client
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, logger, gateway, client)
func (b *Bootstrap) Initialize() error {
	slog.Info("🚀 Bootstrapping Deepbook Go...")

	// 1. Load Config
	cfg, err := infra.LoadConfig("configs/config.yaml")
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Coin/pool registry for the configured environment
	b.Registry = registry.New(cfg.Network.Env, cfg.Coins, cfg.Pools)
	slog.Info("✅ Registry initialized",
		slog.String("env", b.Registry.Env()),
		slog.Int("coins", len(b.Registry.Coins())),
		slog.Int("pools", len(b.Registry.Pools())))

	// 4. Manager store, seeded from config (versions synced later)
	b.Store = service.NewManagerStore()
	for name, entry := range cfg.BalanceManagers {
		if err := b.Store.Register(domain.BalanceManager{
			Name:     name,
			ObjectID: entry.ObjectID,
			TradeCap: entry.TradeCap,
		}); err != nil {
			return err
		}
	}

	// 5. Chain gateway
	signer, err := sui.NewLocalSigner(cfg.Network.PrivateKey, cfg.Network.Sender)
	if err != nil {
		return err
	}
	rpcURL, indexerURL := b.endpoints()
	b.Gateway = sui.NewGateway(rpcURL, indexerURL, signer)

	// 6. Optional plan journal
	if cfg.Journal.Enabled {
		journal, err := storage.NewJournal(cfg.Journal.Path)
		if err != nil {
			return err
		}
		b.Journal = journal
		slog.Info("✅ Plan journal initialized")
	}

	// 7. Client facade
	policy := engine.RetryPolicy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay(),
		MaxDelay:    cfg.Retry.MaxDelay(),
	}
	b.Client = deepbook.New(b.Registry, b.Store, b.Gateway, policy, cfg.Network.Sender, b.Journal)

	return nil
}

// endpoints resolves the RPC and indexer URLs, falling back to the public
// endpoints of the configured environment.
func (b *Bootstrap) endpoints() (string, string) {
	rpcURL := b.Config.Network.RPCURL
	indexerURL := b.Config.Network.IndexerURL
	if b.Registry.Env() == "mainnet" {
		if rpcURL == "" {
			rpcURL = sui.MainnetRPCURL
		}
		if indexerURL == "" {
			indexerURL = sui.MainnetIndexerURL
		}
	} else {
		if rpcURL == "" {
			rpcURL = sui.TestnetRPCURL
		}
		if indexerURL == "" {
			indexerURL = sui.TestnetIndexerURL
		}
	}
	return rpcURL, indexerURL
}

// SyncManagers fetches the authoritative version and balances of every
// configured balance manager. Runs in the background at startup; mutations
// queued before a manager syncs just hit one extra version-conflict retry.
func (b *Bootstrap) SyncManagers(ctx context.Context) {
	slog.Info("🔄 Syncing balance managers from chain...")

	// Reverse map for decoding balance keys (coin type tag -> symbol)
	symbolsByType := make(map[string]string)
	for _, c := range b.Registry.Coins() {
		symbolsByType[c.Type] = c.Symbol
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, 5) // Limit concurrent queries

	for _, name := range b.Store.Names() {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}: // Acquire
			}
			defer func() { <-semaphore }() // Release

			m, err := b.Store.Get(name)
			if err != nil {
				return
			}

			state, err := b.Gateway.QueryObject(ctx, m.ObjectID)
			if err != nil {
				slog.Error("Failed to sync manager",
					slog.String("manager", name), slog.Any("error", err))
				return
			}

			if err := b.Store.SetVersion(name, state.Version); err != nil {
				slog.Error("Failed to set manager version",
					slog.String("manager", name), slog.Any("error", err))
				return
			}
			for coinType, raw := range state.Balances {
				symbol, ok := symbolsByType[coinType]
				if !ok {
					continue
				}
				b.Store.SetBalance(name, symbol, raw)
			}

			slog.Info("✅ Manager synced",
				slog.String("manager", name),
				slog.Uint64("version", state.Version),
				slog.Int("balances", len(state.Balances)))
		}(name)
	}

	wg.Wait()
	slog.Info("✨ Manager synchronization completed")
}
