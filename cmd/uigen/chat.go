package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/petasbytes/uigen/internal/prompt"
	"github.com/petasbytes/uigen/memory"
)

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session",
		Long: `Read requests from stdin, one per line, and run each against the model.
The conversation is kept across requests and saved after every turn when
conversation.path is configured.

Press Ctrl-C or close stdin to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runChat(ctx, cmd, opts)
		},
	}
}

func runChat(ctx context.Context, cmd *cobra.Command, opts *rootOptions) error {
	s, err := opts.open(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	history, err := s.loadHistory()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	inputCh := make(chan string)
	go func() {
		defer close(inputCh)
		for scanner.Scan() {
			select {
			case inputCh <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintf(out, "Chat with %s (Ctrl-C to quit)\n", s.runner.Model.ModelID())
	for {
		fmt.Fprint(out, userLabelStyle.Render("You")+": ")
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nExiting...")
			return nil
		case line, ok = <-inputCh:
			if !ok {
				fmt.Fprintln(out)
				if err := scanner.Err(); err != nil {
					s.logger.Warn("stdin read error", slog.Any("error", err))
				}
				return nil
			}
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		history = append(history, prompt.UserText(line))
		history, err = s.runner.Run(ctx, history, s.cfg.Runner.MaxSteps)
		s.saveHistory(history)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Fprintln(out, "\nExiting...")
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}
	}
}

func (s *session) loadHistory() ([]prompt.Message, error) {
	if s.cfg.Conversation.Path == "" {
		return nil, nil
	}
	history, err := memory.LoadConversation(s.cfg.Conversation.Path)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	s.logger.Debug("conversation loaded",
		slog.String("path", s.cfg.Conversation.Path),
		slog.Int("messages", len(history)),
	)
	return history, nil
}

// saveHistory persists history when a conversation path is configured.
// Failures are logged, not returned.
func (s *session) saveHistory(history []prompt.Message) {
	if s.cfg.Conversation.Path == "" {
		return
	}
	if err := memory.SaveConversation(s.cfg.Conversation.Path, history); err != nil {
		s.logger.Warn("failed to save conversation", slog.Any("error", err))
	}
}
