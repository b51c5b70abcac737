package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if key == "ANTHROPIC_API_KEY" || strings.HasPrefix(key, "UIGEN_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model.MaxTokens != 1024 || cfg.Runner.MaxSteps != 8 || !cfg.Mock.SimulateLatency {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Telemetry.ArtifactsDir != ".uigen" || cfg.Telemetry.ObserveJSON {
		t.Fatalf("unexpected telemetry defaults: %+v", cfg.Telemetry)
	}
	if cfg.Model.HasAPIKey() {
		t.Fatal("expected no API key by default")
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "uigen.yaml")
	data := `
model:
  id: claude-sonnet-4-0
  max_tokens: 2048
  token_budget: 5000
mock:
  simulate_latency: false
workspace:
  write_root: ./out
telemetry:
  log_level: debug
  observe_json: true
conversation:
  path: ./conv.json
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model.ID != "claude-sonnet-4-0" || cfg.Model.MaxTokens != 2048 || cfg.Model.TokenBudget != 5000 {
		t.Fatalf("model section not applied: %+v", cfg.Model)
	}
	if cfg.Mock.SimulateLatency {
		t.Fatal("expected simulate_latency=false")
	}
	if cfg.Workspace.WriteRoot != "./out" || cfg.Conversation.Path != "./conv.json" {
		t.Fatalf("paths not applied: %+v %+v", cfg.Workspace, cfg.Conversation)
	}
	// Unset keys keep their defaults.
	if cfg.Runner.MaxSteps != 8 || cfg.Telemetry.ArtifactsDir != ".uigen" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("model: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("UIGEN_MODEL_ID", "claude-x")
	t.Setenv("UIGEN_TOKEN_BUDGET", "42")
	t.Setenv("UIGEN_MOCK_SIMULATE_LATENCY", "false")
	t.Setenv("UIGEN_WRITE_ROOT", "/tmp/out")
	t.Setenv("UIGEN_LOG_LEVEL", "warn")
	t.Setenv("UIGEN_OBSERVE_JSON", "true")
	t.Setenv("UIGEN_MAX_STEPS", "3")
	t.Setenv("UIGEN_MODEL_MAX_TOKENS", "not-a-number")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Model.HasAPIKey() || cfg.Model.APIKey != "sk-test" {
		t.Fatal("expected API key override")
	}
	if cfg.Model.ID != "claude-x" || cfg.Model.TokenBudget != 42 {
		t.Fatalf("model overrides not applied: %+v", cfg.Model)
	}
	if cfg.Model.MaxTokens != 1024 {
		t.Fatalf("unparsable override should be ignored, got %d", cfg.Model.MaxTokens)
	}
	if cfg.Mock.SimulateLatency || cfg.Workspace.WriteRoot != "/tmp/out" || !cfg.Telemetry.ObserveJSON || cfg.Runner.MaxSteps != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Telemetry.LogLevel != "warn" {
		t.Fatalf("expected log level warn, got %q", cfg.Telemetry.LogLevel)
	}
}

func TestBlankAPIKeyIsNotAKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "   ")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model.HasAPIKey() {
		t.Fatal("whitespace key must not count as configured")
	}
	cfg.Model.APIKey = " \t"
	if cfg.Model.HasAPIKey() {
		t.Fatal("whitespace key must not count as configured")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"max tokens", func(c *Config) { c.Model.MaxTokens = 0 }, "model.max_tokens"},
		{"temperature", func(c *Config) { c.Model.Temperature = 1.5 }, "model.temperature"},
		{"budget", func(c *Config) { c.Model.TokenBudget = -1 }, "model.token_budget"},
		{"steps", func(c *Config) { c.Runner.MaxSteps = 0 }, "runner.max_steps"},
		{"artifacts", func(c *Config) { c.Telemetry.ArtifactsDir = " " }, "telemetry.artifacts_dir"},
		{"log level", func(c *Config) { c.Telemetry.LogLevel = "loud" }, "telemetry.log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("want error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{"debug": slog.LevelDebug, "INFO": slog.LevelInfo, "warn": slog.LevelWarn, "error": slog.LevelError} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
}
