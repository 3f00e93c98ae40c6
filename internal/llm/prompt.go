package llm

import (
	"strings"

	"github.com/lticona/strive/internal/domain"
)

const baseSystemPrompt = `You are "Strive", an on-device assistant inside a personal productivity app.

Your role:
- You help the user manage goals, tasks and focus time through conversation.
- You run fully on this device; you never mention servers or the cloud.
- You keep replies short and practical: 1-3 sentences.

Taking actions:
- When the user asks you to change their data, perform EXACTLY ONE action by
  starting your reply with a directive tag, then continue conversationally.
- The tag format is [ACTION:TYPE:Item name] with TYPE one of:
  GOAL_CREATED, TASK_CREATED, GOAL_DELETED, TASK_DELETED, TASK_COMPLETED, LIST_SHOWN.
- LIST_SHOWN takes no item name: [ACTION:LIST_SHOWN:]
- Never emit more than one tag. If no data change is needed, emit no tag at all.

Examples:
- [ACTION:TASK_CREATED:Buy milk] Sure, I added that task.
- [ACTION:GOAL_CREATED:Learn Spanish] Great goal, I created it.
- [ACTION:LIST_SHOWN:] Here is what you are working on.
`

const userMessageMarker = "New user message:\n"

// BuildPrompt assembles the full generation prompt: system instructions,
// rolling summary, the user's current goals/tasks, the recent history, and
// the new utterance last. The history already contains the new utterance's
// ChatMessage; it is skipped there and placed after the marker instead.
func BuildPrompt(history []*domain.ChatMessage, summary, dataContext, userMessage string) string {
	var b strings.Builder
	b.WriteString(baseSystemPrompt)

	if summary != "" {
		b.WriteString("\nEarlier in this conversation (summarized):\n")
		b.WriteString(summary)
		b.WriteString("\n")
	}

	if dataContext != "" {
		b.WriteString("\nThe user's current data:\n")
		b.WriteString(dataContext)
		b.WriteString("\n")
	}

	var lines []string
	for i, m := range history {
		if i == len(history)-1 && m.Sender == domain.SenderUser && m.Text == userMessage {
			break
		}
		lines = append(lines, promptRole(m.Sender)+": "+m.Text)
	}
	if len(lines) > 0 {
		b.WriteString("\nConversation so far:\n")
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(userMessageMarker)
	b.WriteString(userMessage)
	return b.String()
}

func promptRole(s domain.Sender) string {
	switch s {
	case domain.SenderAssistant:
		return "assistant"
	case domain.SenderSystem:
		return "system"
	default:
		return "user"
	}
}
