package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type ModelConfig struct {
	ID          string  `yaml:"id"`
	APIKey      string  `yaml:"api_key"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	TokenBudget int     `yaml:"token_budget"`
}

type MockConfig struct {
	SimulateLatency bool `yaml:"simulate_latency"`
}

type WorkspaceConfig struct {
	ReadRoot  string `yaml:"read_root"`
	WriteRoot string `yaml:"write_root"`
}

type TelemetryConfig struct {
	LogLevel     string `yaml:"log_level"`
	ObserveJSON  bool   `yaml:"observe_json"`
	ArtifactsDir string `yaml:"artifacts_dir"`
	TraceStdout  bool   `yaml:"trace_stdout"`
}

type RunnerConfig struct {
	MaxSteps int `yaml:"max_steps"`
}

type ConversationConfig struct {
	Path string `yaml:"path"`
}

type Config struct {
	Model        ModelConfig        `yaml:"model"`
	Mock         MockConfig         `yaml:"mock"`
	Workspace    WorkspaceConfig    `yaml:"workspace"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
	Runner       RunnerConfig       `yaml:"runner"`
	Conversation ConversationConfig `yaml:"conversation"`
}

func Default() Config {
	return Config{
		Model: ModelConfig{
			MaxTokens:   1024,
			TokenBudget: 100000,
		},
		Mock: MockConfig{
			SimulateLatency: true,
		},
		Telemetry: TelemetryConfig{
			LogLevel:     "info",
			ArtifactsDir: ".uigen",
		},
		Runner: RunnerConfig{
			MaxSteps: 8,
		},
	}
}

// Load reads path (if non-empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Model.APIKey, "ANTHROPIC_API_KEY")
	overrideString(&cfg.Model.ID, "UIGEN_MODEL_ID")
	overrideInt(&cfg.Model.MaxTokens, "UIGEN_MODEL_MAX_TOKENS")
	overrideFloat(&cfg.Model.Temperature, "UIGEN_MODEL_TEMPERATURE")
	overrideInt(&cfg.Model.TokenBudget, "UIGEN_TOKEN_BUDGET")
	overrideBool(&cfg.Mock.SimulateLatency, "UIGEN_MOCK_SIMULATE_LATENCY")
	overrideString(&cfg.Workspace.ReadRoot, "UIGEN_READ_ROOT")
	overrideString(&cfg.Workspace.WriteRoot, "UIGEN_WRITE_ROOT")
	overrideString(&cfg.Telemetry.LogLevel, "UIGEN_LOG_LEVEL")
	overrideBool(&cfg.Telemetry.ObserveJSON, "UIGEN_OBSERVE_JSON")
	overrideString(&cfg.Telemetry.ArtifactsDir, "UIGEN_ARTIFACTS_DIR")
	overrideBool(&cfg.Telemetry.TraceStdout, "UIGEN_TRACE_STDOUT")
	overrideInt(&cfg.Runner.MaxSteps, "UIGEN_MAX_STEPS")
	overrideString(&cfg.Conversation.Path, "UIGEN_CONVERSATION_PATH")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func overrideFloat(target *float64, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			*target = parsed
		}
	}
}

func (cfg Config) Validate() error {
	if cfg.Model.MaxTokens <= 0 {
		return errors.New("model.max_tokens must be positive")
	}
	if cfg.Model.Temperature < 0 || cfg.Model.Temperature > 1 {
		return errors.New("model.temperature must be between 0 and 1")
	}
	if cfg.Model.TokenBudget < 0 {
		return errors.New("model.token_budget must be >= 0")
	}
	if cfg.Runner.MaxSteps <= 0 {
		return errors.New("runner.max_steps must be positive")
	}
	if strings.TrimSpace(cfg.Telemetry.ArtifactsDir) == "" {
		return errors.New("telemetry.artifacts_dir must not be empty")
	}
	if _, err := ParseLevel(cfg.Telemetry.LogLevel); err != nil {
		return err
	}
	return nil
}

// HasAPIKey reports whether a usable credential is configured.
func (m ModelConfig) HasAPIKey() bool {
	return strings.TrimSpace(m.APIKey) != ""
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, errors.New("telemetry.log_level must be one of debug|info|warn|error")
	}
	return lvl, nil
}
