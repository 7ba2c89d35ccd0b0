package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `
environment: test
server:
  port: 8000
clickhouse:
  host: localhost
  port: 9000
  database: cryptopredict
taapi:
  base_url: https://api.taapi.io
  api_key: k
agent:
  base_url: http://localhost:9100
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Taapi.Exchange != "binance" {
		t.Fatalf("expected default exchange, got %q", cfg.Taapi.Exchange)
	}
	if cfg.Taapi.IntradayTimeframe != "5m" || cfg.Taapi.LongTermTimeframe != "4h" {
		t.Fatalf("unexpected timeframes %q/%q", cfg.Taapi.IntradayTimeframe, cfg.Taapi.LongTermTimeframe)
	}
	if cfg.Taapi.SeriesLength != 10 {
		t.Fatalf("expected series length 10, got %d", cfg.Taapi.SeriesLength)
	}
	if cfg.Agent.Timeout != 60*time.Second {
		t.Fatalf("expected agent timeout 60s, got %v", cfg.Agent.Timeout)
	}
	if cfg.Account.DefaultBalance != 100.0 {
		t.Fatalf("expected default balance 100, got %v", cfg.Account.DefaultBalance)
	}
}

func TestLoadRejectsMissingTaapiURL(t *testing.T) {
	bad := `
environment: test
clickhouse:
  host: localhost
agent:
  base_url: http://localhost:9100
taapi:
  api_key: k
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("TAAPI_API_KEY", "env-secret")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")
	t.Setenv("DEFAULT_BALANCE", "250.5")

	cfg, err := LoadWithEnv(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Taapi.APIKey != "env-secret" {
		t.Fatalf("env key not applied, got %q", cfg.Taapi.APIKey)
	}
	if len(cfg.Events.Brokers) != 2 || cfg.Events.Brokers[1] != "b:9092" {
		t.Fatalf("brokers not split, got %v", cfg.Events.Brokers)
	}
	if cfg.Account.DefaultBalance != 250.5 {
		t.Fatalf("balance override lost, got %v", cfg.Account.DefaultBalance)
	}
}

func TestEventsRequireBrokers(t *testing.T) {
	withEvents := sampleYAML + `
events:
  enabled: true
`
	if _, err := Load(writeConfig(t, withEvents)); err == nil {
		t.Fatalf("expected error when events enabled without brokers")
	}
}
