package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"hermes/hermes/agents/core"
	"hermes/hermes/controllers"
	"hermes/hermes/utils/color"
	"hermes/hermes/utils/jsonutils"
	"hermes/hermes/utils/logging"
	"hermes/hermes/utils/types"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type ChatCmd struct{}

func NewChatCmd() *ChatCmd {
	return &ChatCmd{}
}

func (c *ChatCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Ask questions about the shipment data in an interactive session",
		RunE: func(cmd *cobra.Command, args []string) error {
			showSteps, err := cmd.Flags().GetBool("steps")
			if err != nil {
				return fmt.Errorf("failed to get steps flag: %w", err)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()
			defer logging.Sync()
			if err := a.StartAgent(); err != nil {
				return err
			}

			sessionID := fmt.Sprintf("cli-%s", uuid.New().String()[:8])
			logging.AppLogger.Info("hermes chat session started",
				zap.String("sessionID", sessionID),
				zap.Int("shipments", a.Dataset.Len()))

			fmt.Println(color.ColorInfo("\nHermes is ready to answer questions about your shipments."))
			fmt.Println("Session:", sessionID)
			fmt.Printf("Shipments loaded: %d\n\n", a.Dataset.Len())
			fmt.Println("Type your question or 'exit' to quit.")
			fmt.Println()

			return repl(ctx, os.Stdin, os.Stdout, a.ChatController(), sessionID, showSteps)
		},
	}
	cmd.Flags().Bool("steps", true, "print each tool call while answering")
	return cmd
}

// repl reads one question per line until EOF, "exit" or "quit".
func repl(ctx context.Context, in io.Reader, out io.Writer, ctrl *controllers.ChatController, userID string, showSteps bool) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, color.ColorPrompt("hermes> "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}
		if line == "" {
			continue
		}

		var onStep func(core.Step)
		if showSteps {
			onStep = func(s core.Step) { printStep(out, s) }
		}
		resp, err := ctrl.Chat(ctx, userID, types.ChatRequest{Content: line}, onStep)
		if err != nil {
			fmt.Fprintln(out, color.ColorError("Error: "+err.Error()))
			continue
		}
		fmt.Fprintln(out, color.ColorAgentResponse(resp.Response))
		fmt.Fprintf(out, "%s\n\n", color.ColorInfo(fmt.Sprintf("(%.0f ms)", resp.ResponseTimeMs)))
	}
}

func printStep(out io.Writer, s core.Step) {
	switch s.Type {
	case core.StepToolCall:
		fmt.Fprintln(out, color.ColorTool(fmt.Sprintf("  -> %s %s", s.Tool, jsonutils.ToJSON(s.Args))))
	case core.StepToolResult:
		if s.Error != "" {
			fmt.Fprintln(out, color.ColorWarning(fmt.Sprintf("  <- %s failed: %s", s.Tool, s.Error)))
			return
		}
		fmt.Fprintln(out, color.ColorTool(fmt.Sprintf("  <- %s", s.Tool)))
	}
}
