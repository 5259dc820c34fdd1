package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const baseYAML = `
env: dev
exchange:
  url: ws://127.0.0.1:12345/ws
  teamName: team
  secret: s3cret
engine:
  maxSideOrders: 3
  messageWindow: 2s
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := writeTempConfig(t, baseYAML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine.MaxSideOrders != 3 || cfg.Engine.MessageWindow != 2*time.Second {
		t.Fatalf("yaml values not applied: %+v", cfg.Engine)
	}
	if cfg.Engine.TickSize != 100 || cfg.Engine.DumpPosition != 100 || cfg.Engine.ResetInterval != 100 {
		t.Fatalf("defaults lost: %+v", cfg.Engine)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("log defaults lost: %+v", cfg.Log)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeTempConfig(t, baseYAML)
	t.Setenv("MM_TEAM_NAME", "env-team")
	t.Setenv("MM_SECRET", "env-secret")
	cfg, err := LoadWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Exchange.TeamName != "env-team" || cfg.Exchange.Secret != "env-secret" {
		t.Fatalf("env overrides not applied: %+v", cfg.Exchange)
	}
}

func TestLoadWithEnvFile(t *testing.T) {
	path := writeTempConfig(t, baseYAML)
	envFile := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(envFile, []byte("MM_LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("MM_LOG_LEVEL") })
	cfg, err := LoadWithEnvOverrides(path, envFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("env file not applied, level %q", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(AppConfig{}); err == nil {
		t.Fatalf("expected error for empty config")
	}

	cases := []struct {
		name   string
		mutate func(*EngineConfig)
	}{
		{"pressure bounds exclude zero", func(e *EngineConfig) { e.MinPressure = 1 }},
		{"base above high", func(e *EngineConfig) { e.BaseVolume = 30 }},
		{"high at dump", func(e *EngineConfig) { e.HighPosition = 100 }},
		{"dump above limit", func(e *EngineConfig) { e.DumpPosition = 150 }},
		{"side cap vs open cap", func(e *EngineConfig) { e.MaxSideOrders = 6 }},
		{"unknown fair value mode", func(e *EngineConfig) { e.FairValueMode = "median" }},
		{"zero tick", func(e *EngineConfig) { e.TickSize = 0 }},
	}
	for _, c := range cases {
		cfg := Default()
		cfg.Exchange.URL = "ws://localhost/ws"
		cfg.Exchange.TeamName = "t"
		cfg.Exchange.Secret = "s"
		if err := Validate(cfg); err != nil {
			t.Fatalf("%s: baseline should be valid: %v", c.name, err)
		}
		c.mutate(&cfg.Engine)
		err := Validate(cfg)
		if err == nil {
			t.Fatalf("%s: expected validation error", c.name)
		}
	}
}

func TestValidateReportsField(t *testing.T) {
	cfg := Default()
	err := Validate(cfg)
	var inv ErrInvalid
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestShippedConfigIsValid(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "configs", "autotrader.yaml"))
	if err != nil {
		t.Fatalf("shipped config rejected: %v", err)
	}
	if cfg.Engine.MessageLimit != 20 || cfg.Engine.MessageWindow != time.Second {
		t.Fatalf("unexpected message window: %+v", cfg.Engine)
	}
	if len(cfg.Engine.CapacityErrors) != 2 || cfg.Engine.CapacityErrors[0] != "order count" {
		t.Fatalf("capacity errors = %v", cfg.Engine.CapacityErrors)
	}
}
