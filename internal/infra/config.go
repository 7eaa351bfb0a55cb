package infra

import (
	"errors"
	"fmt"
	"os"
	"time"

	"deepbook_go/internal/domain"

	"gopkg.in/yaml.v3"
)

// ManagerEntry is a named balance-manager registration.
type ManagerEntry struct {
	ObjectID string `yaml:"object_id"`
	TradeCap string `yaml:"trade_cap"`
}

// RetryConfig bounds internal retries for version conflicts and transient
// RPC failures. The schedule is deliberately configurable, not hard-coded.
type RetryConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
	BaseDelayMS int `yaml:"base_delay_ms"`
	MaxDelayMS  int `yaml:"max_delay_ms"`
}

// BaseDelay returns the configured base delay with the default applied.
func (r RetryConfig) BaseDelay() time.Duration {
	if r.BaseDelayMS <= 0 {
		return time.Second
	}
	return time.Duration(r.BaseDelayMS) * time.Millisecond
}

// MaxDelay returns the configured cap with the default applied.
func (r RetryConfig) MaxDelay() time.Duration {
	if r.MaxDelayMS <= 0 {
		return 30 * time.Second
	}
	return time.Duration(r.MaxDelayMS) * time.Millisecond
}

// Config holds the full client configuration. Loaded once at construction;
// secrets are overridden from the environment after parsing.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Network struct {
		Env        string `yaml:"env"` // "mainnet" or "testnet"
		RPCURL     string `yaml:"rpc_url"`
		IndexerURL string `yaml:"indexer_url"`
		WSURL      string `yaml:"ws_url"`
		Sender     string `yaml:"sender"`
		PrivateKey string `yaml:"private_key"` // Prefer DEEPBOOK_PRIVATE_KEY env
	} `yaml:"network"`

	BalanceManagers map[string]ManagerEntry `yaml:"balance_managers"`

	Coins []domain.CoinMetadata `yaml:"coins"` // Registry overrides
	Pools []domain.PoolMetadata `yaml:"pools"` // Registry overrides

	Retry RetryConfig `yaml:"retry"`

	Journal struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"journal"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.ConfigError{Field: "file", Err: err}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &domain.ConfigError{Field: "yaml", Err: err}
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks configuration validity, failing fast with a ConfigError.
func (c *Config) Validate() error {
	if c.Network.Env != "mainnet" && c.Network.Env != "testnet" {
		return &domain.ConfigError{Field: "network.env",
			Err: fmt.Errorf("must be mainnet or testnet, got %q", c.Network.Env)}
	}
	if !hasPrefix(c.Network.RPCURL, "http://") && !hasPrefix(c.Network.RPCURL, "https://") {
		return &domain.ConfigError{Field: "network.rpc_url",
			Err: fmt.Errorf("invalid URL: %q", c.Network.RPCURL)}
	}
	if c.Network.WSURL != "" && !hasPrefix(c.Network.WSURL, "ws://") && !hasPrefix(c.Network.WSURL, "wss://") {
		return &domain.ConfigError{Field: "network.ws_url",
			Err: fmt.Errorf("invalid URL: %q", c.Network.WSURL)}
	}
	if !hasPrefix(c.Network.Sender, "0x") {
		return &domain.ConfigError{Field: "network.sender",
			Err: errors.New("sender address is required")}
	}

	for name, m := range c.BalanceManagers {
		if !hasPrefix(m.ObjectID, "0x") {
			return &domain.ConfigError{Field: "balance_managers." + name,
				Err: errors.New("object_id is required")}
		}
	}

	for _, coin := range c.Coins {
		if coin.Symbol == "" || coin.Type == "" || coin.Decimals < 0 {
			return &domain.ConfigError{Field: "coins",
				Err: fmt.Errorf("invalid coin override %+v", coin)}
		}
	}
	for _, pool := range c.Pools {
		if pool.Pair == "" || pool.PoolID == "" || pool.BaseCoin == "" || pool.QuoteCoin == "" {
			return &domain.ConfigError{Field: "pools",
				Err: fmt.Errorf("invalid pool override %q", pool.Pair)}
		}
	}

	if c.Retry.MaxAttempts < 0 {
		return &domain.ConfigError{Field: "retry.max_attempts",
			Err: errors.New("must not be negative")}
	}

	return nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[0:len(prefix)] == prefix
}

// overrideWithEnv replaces secrets from environment variables when present.
func overrideWithEnv(cfg *Config) {
	if key := os.Getenv("DEEPBOOK_PRIVATE_KEY"); key != "" {
		cfg.Network.PrivateKey = key
	}
	if sender := os.Getenv("DEEPBOOK_SENDER"); sender != "" {
		cfg.Network.Sender = sender
	}
}
