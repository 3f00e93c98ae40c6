package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lticona/strive/internal/assistant"
	"github.com/lticona/strive/internal/domain"
	"github.com/lticona/strive/internal/llm"
	"github.com/lticona/strive/internal/observability"
)

const defaultConversation = domain.ConversationID("default")

var (
	youStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	systemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	actionStyle    = lipgloss.NewStyle().Faint(true)
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the on-device assistant",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		desc, err := a.cfg.DefaultDescriptor(a.manager.ListAvailable())
		if err != nil {
			return err
		}
		timeout, err := a.cfg.GenerationTimeout()
		if err != nil {
			return err
		}

		mem := assistant.NewConversationMemory(
			defaultConversation,
			a.cfg.Memory.MaxTurns,
			&assistant.EngineSummarizer{Manager: a.manager},
			a.chatStore,
		)
		if history, err := a.chatStore.ListMessages(defaultConversation, a.cfg.Memory.MaxTurns); err == nil {
			mem.Restore(cmd.Context(), history)
		}

		orch := assistant.NewOrchestrator(
			a.manager,
			mem,
			assistant.NewExecutor(a.tracker),
			a.tracker,
			assistant.Options{
				Model:    desc,
				Generate: generateOptions(a.cfg.Generation.MaxTokens, a.cfg.Generation.Temperature),
				Timeout:  timeout,
			},
		)
		defer a.manager.Unload()

		fmt.Printf("Strive assistant (model %s). Type 'exit' to leave.\n", desc.Name)

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print(youStyle.Render("you") + " > ")
			if !scanner.Scan() {
				fmt.Println()
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "exit" || line == "quit" {
				return nil
			}

			ctx := observability.WithRequestID(cmd.Context(), uuid.NewString())
			msg, err := orch.HandleTurn(ctx, line)
			if err != nil {
				fmt.Println(systemStyle.Render("error: " + err.Error()))
				continue
			}
			printTurn(msg)
		}
	},
}

func generateOptions(maxTokens int, temperature float32) llm.GenerateOptions {
	return llm.GenerateOptions{
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}

func printTurn(msg *domain.ChatMessage) {
	switch msg.Sender {
	case domain.SenderSystem:
		fmt.Println(systemStyle.Render(msg.Text))
	default:
		fmt.Println(assistantStyle.Render("strive") + " > " + msg.Text)
		if msg.Action.Type != domain.ActionNone {
			fmt.Println(actionStyle.Render("  ✓ " + msg.Action.Details))
		} else if msg.Action.Details != "" {
			fmt.Println(actionStyle.Render("  ✗ " + msg.Action.Details))
		}
	}
}
