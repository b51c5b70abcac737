// Package backend picks the language model for a run.
package backend

import (
	"log/slog"

	"github.com/petasbytes/uigen/internal/config"
	"github.com/petasbytes/uigen/internal/provider"
	"github.com/petasbytes/uigen/internal/provider/anthropic"
	"github.com/petasbytes/uigen/internal/provider/mock"
	"github.com/petasbytes/uigen/internal/telemetry"
)

// New returns the Anthropic backend when an API key is configured and the
// scripted mock otherwise.
func New(cfg config.Config, events *telemetry.Emitter, logger *slog.Logger) provider.LanguageModel {
	if logger == nil {
		logger = slog.Default()
	}
	modelID := cfg.Model.ID
	if modelID == "" {
		modelID = string(anthropic.DefaultModel)
	}

	if !cfg.Model.HasAPIKey() {
		logger.Warn("no API key found, using mock provider")
		opts := []mock.Option{mock.WithLogger(logger)}
		if !cfg.Mock.SimulateLatency {
			opts = append(opts, mock.WithoutLatency())
		}
		return mock.New("mock-"+modelID, opts...)
	}

	return anthropic.NewWithAPIKey(cfg.Model.APIKey, modelID,
		anthropic.WithTokenBudget(cfg.Model.TokenBudget),
		anthropic.WithTelemetry(events),
		anthropic.WithLogger(logger),
	)
}
