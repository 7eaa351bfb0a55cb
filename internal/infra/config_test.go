package infra

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"deepbook_go/internal/domain"
)

const validYAML = `
app:
  name: deepbook-go
  version: 1.0.0
network:
  env: testnet
  rpc_url: https://fullnode.testnet.sui.io:443
  ws_url: wss://fullnode.testnet.sui.io:443
  sender: "0xabc"
balance_managers:
  mm-main:
    object_id: "0xmanager"
retry:
  max_attempts: 5
  base_delay_ms: 200
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Network.Env != "testnet" {
		t.Errorf("Expected testnet, got %s", cfg.Network.Env)
	}
	if cfg.BalanceManagers["mm-main"].ObjectID != "0xmanager" {
		t.Error("Manager entry not parsed")
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("Expected 5 attempts, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.BaseDelay() != 200*time.Millisecond {
		t.Errorf("Expected 200ms base delay, got %v", cfg.Retry.BaseDelay())
	}
	// Unset cap falls back to the default.
	if cfg.Retry.MaxDelay() != 30*time.Second {
		t.Errorf("Expected default max delay, got %v", cfg.Retry.MaxDelay())
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	var cfgErr *domain.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected ConfigError, got %v", err)
	}
	if domain.IsRetriable(err) {
		t.Error("Config errors are never retriable")
	}
}

func TestConfig_ValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		yaml  string
		field string
	}{
		{"bad env", `
network:
  env: devnet
  rpc_url: https://x
  sender: "0xabc"
`, "network.env"},
		{"bad rpc url", `
network:
  env: testnet
  rpc_url: ftp://x
  sender: "0xabc"
`, "network.rpc_url"},
		{"bad ws url", `
network:
  env: testnet
  rpc_url: https://x
  ws_url: https://not-ws
  sender: "0xabc"
`, "network.ws_url"},
		{"missing sender", `
network:
  env: testnet
  rpc_url: https://x
`, "network.sender"},
		{"manager without object id", `
network:
  env: testnet
  rpc_url: https://x
  sender: "0xabc"
balance_managers:
  mm-main:
    trade_cap: "0xcap"
`, "balance_managers.mm-main"},
		{"negative retries", `
network:
  env: testnet
  rpc_url: https://x
  sender: "0xabc"
retry:
  max_attempts: -1
`, "retry.max_attempts"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.yaml))
			var cfgErr *domain.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tc.field {
				t.Errorf("Expected field %s, got %s", tc.field, cfgErr.Field)
			}
		})
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DEEPBOOK_PRIVATE_KEY", "deadbeef")
	t.Setenv("DEEPBOOK_SENDER", "0xoverride")

	cfg, err := LoadConfig(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Network.PrivateKey != "deadbeef" {
		t.Error("Private key env override not applied")
	}
	if cfg.Network.Sender != "0xoverride" {
		t.Error("Sender env override not applied")
	}
}
