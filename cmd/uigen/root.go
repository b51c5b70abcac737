package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/petasbytes/uigen/internal/backend"
	"github.com/petasbytes/uigen/internal/config"
	"github.com/petasbytes/uigen/internal/fsops"
	"github.com/petasbytes/uigen/internal/provider/anthropic"
	"github.com/petasbytes/uigen/internal/provider/mock"
	"github.com/petasbytes/uigen/internal/runner"
	"github.com/petasbytes/uigen/internal/telemetry"
	"github.com/petasbytes/uigen/tools"
)

var (
	version = "dev"
	commit  = "unknown"
)

var (
	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	assistantLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("214"))
)

type rootOptions struct {
	configPath string
	verbose    bool
	workspace  string
	noLatency  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "uigen",
		Short: "Generate React components with a language model",
		Long: `uigen asks a language model for a React component and lets it create and
edit .jsx files inside a workspace directory.

Without ANTHROPIC_API_KEY (or model.api_key in the config file) a scripted
demo model answers instead, producing a Counter, ContactForm or Card
component depending on the request.

Quick Start:
  uigen generate "a contact form"     # one-shot run
  uigen chat                          # interactive session`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVarP(&opts.workspace, "workspace", "w", "", "Workspace directory (overrides read and write roots)")
	cmd.PersistentFlags().BoolVar(&opts.noLatency, "no-latency", false, "Disable the simulated typing delay of the demo model")
	cmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	cmd.AddCommand(newGenerateCmd(opts), newChatCmd(opts))
	return cmd
}

// session is everything a subcommand needs to talk to the model.
type session struct {
	cfg      config.Config
	logger   *slog.Logger
	runner   *runner.Runner
	shutdown func(context.Context) error
}

func (o *rootOptions) open(ctx context.Context, cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.workspace != "" {
		cfg.Workspace.ReadRoot = o.workspace
		cfg.Workspace.WriteRoot = o.workspace
	}
	if o.noLatency {
		cfg.Mock.SimulateLatency = false
	}

	level, err := config.ParseLevel(cfg.Telemetry.LogLevel)
	if err != nil {
		return nil, err
	}
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	shutdown, err := telemetry.SetupTracing(ctx, cfg.Telemetry.TraceStdout, cmd.ErrOrStderr(), logger)
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}

	ws, err := fsops.Open(cfg.Workspace.ReadRoot, cfg.Workspace.WriteRoot)
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("open workspace: %w", err)
	}
	logger.Debug("workspace ready",
		slog.String("read_root", ws.Roots().Read),
		slog.String("write_root", ws.Roots().Write),
	)

	events := telemetry.New(artifactsDir(cfg.Telemetry.ArtifactsDir, ws.Roots().Write), cfg.Telemetry.ObserveJSON, logger)
	model := backend.New(cfg, events, logger)
	r := runner.New(model, tools.Registry(ws),
		runner.WithOutput(cmd.OutOrStdout()),
		runner.WithLabel(assistantLabelStyle.Render(assistantName(model.Provider()))+": "),
		runner.WithTelemetry(events),
		runner.WithLogger(logger),
		runner.WithMaxTokens(cfg.Model.MaxTokens),
		runner.WithTemperature(cfg.Model.Temperature),
	)
	return &session{cfg: cfg, logger: logger, runner: r, shutdown: shutdown}, nil
}

// artifactsDir resolves a relative artifacts directory inside the write root.
func artifactsDir(dir, writeRoot string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(writeRoot, dir)
}

func assistantName(providerName string) string {
	switch providerName {
	case anthropic.ProviderName:
		return "Claude"
	case mock.ProviderName:
		return "Assistant (demo)"
	default:
		return "Assistant"
	}
}

func (s *session) close(ctx context.Context) {
	if err := s.shutdown(context.WithoutCancel(ctx)); err != nil {
		s.logger.Warn("tracer shutdown failed", slog.Any("error", err))
	}
}
