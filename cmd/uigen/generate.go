package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/petasbytes/uigen/internal/prompt"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <request>",
		Short: "Run one request to completion",
		Long: `Send a single request to the model and let it create and edit files
until it stops asking for tools.

Examples:
  uigen generate "make me a counter"
  uigen generate --workspace ./demo "a profile card"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runGenerate(ctx, cmd, opts, strings.Join(args, " "))
		},
	}
}

func runGenerate(ctx context.Context, cmd *cobra.Command, opts *rootOptions, request string) error {
	s, err := opts.open(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	history, err := s.loadHistory()
	if err != nil {
		return err
	}
	history = append(history, prompt.UserText(request))
	history, runErr := s.runner.Run(ctx, history, s.cfg.Runner.MaxSteps)
	s.saveHistory(history)
	return runErr
}
