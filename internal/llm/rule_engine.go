package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/lticona/strive/internal/domain"
)

// RuleEngine is a deterministic keyword-intent engine. It gives the
// assistant a useful offline personality without any model weights, and it
// is what the tests drive the orchestrator with.
type RuleEngine struct{}

func NewRuleEngine() *RuleEngine {
	return &RuleEngine{}
}

func (e *RuleEngine) Name() string { return "rule" }

// Load validates that the descriptor's backing file exists and is non-empty.
// The rule engine has no weights to read, but keeping the check here makes
// load failures behave the same as with a real engine.
func (e *RuleEngine) Load(ctx context.Context, desc domain.ModelDescriptor, params EngineParams) (EngineSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if desc.Path != "" {
		info, err := os.Stat(desc.Path)
		if err != nil {
			return nil, fmt.Errorf("model file: %w", err)
		}
		if info.Size() == 0 {
			return nil, fmt.Errorf("model file %s is empty", desc.Path)
		}
	}
	return &ruleSession{}, nil
}

type ruleSession struct {
	closed bool
}

func (s *ruleSession) Generate(ctx context.Context, prompt string, opts GenerateOptions) (*Stream, error) {
	if s.closed {
		return nil, fmt.Errorf("session is closed")
	}

	reply := ruleReply(lastUserMessage(prompt))

	stream, push, finish := NewStream()
	go func() {
		defer finish(nil)
		for _, word := range strings.SplitAfter(reply, " ") {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if !push(word) {
				return
			}
		}
	}()
	return stream, nil
}

func (s *ruleSession) Close() error {
	s.closed = true
	return nil
}

// lastUserMessage pulls the newest user utterance out of the prompt built by
// BuildPrompt; for bare prompts it falls back to the whole text.
func lastUserMessage(prompt string) string {
	if i := strings.LastIndex(prompt, userMessageMarker); i >= 0 {
		return strings.TrimSpace(prompt[i+len(userMessageMarker):])
	}
	return strings.TrimSpace(prompt)
}

// ruleReply maps an utterance to a reply, emitting an action directive when
// the intent is clear. Intent detection mirrors simple keyword matching:
// create/add, complete/done/finish, delete/remove, list/show, help.
func ruleReply(msg string) string {
	lower := strings.ToLower(msg)

	switch {
	case containsAny(lower, "create", "add", "new", "start") && strings.Contains(lower, "goal"):
		name := extractItemName(msg, "New goal")
		return fmt.Sprintf("[ACTION:GOAL_CREATED:%s] Done, I set up the goal %q for you.", name, name)

	case containsAny(lower, "create", "add", "new") && strings.Contains(lower, "task"):
		name := extractItemName(msg, "New task")
		return fmt.Sprintf("[ACTION:TASK_CREATED:%s] Sure, I added the task %q.", name, name)

	case containsAny(lower, "complete", "done", "finish", "finished"):
		name := extractItemName(msg, "")
		if name == "" {
			return "Which task did you finish? Tell me its name and I'll mark it complete."
		}
		return fmt.Sprintf("[ACTION:TASK_COMPLETED:%s] Nice work, marking %q as complete.", name, name)

	case containsAny(lower, "delete", "remove") && strings.Contains(lower, "goal"):
		name := extractItemName(msg, "")
		if name == "" {
			return "Which goal should I delete? Give me its exact name."
		}
		return fmt.Sprintf("[ACTION:GOAL_DELETED:%s] Okay, I removed the goal %q.", name, name)

	case containsAny(lower, "delete", "remove"):
		name := extractItemName(msg, "")
		if name == "" {
			return "Tell me exactly which task you want removed."
		}
		return fmt.Sprintf("[ACTION:TASK_DELETED:%s] Okay, I removed the task %q.", name, name)

	case containsAny(lower, "list", "show", "what are my", "progress", "status"):
		return "[ACTION:LIST_SHOWN:] Here is everything you are working on right now."

	case strings.Contains(lower, "help"):
		return "I can create goals, add tasks, mark tasks done, and show your list. " +
			"Try: create a goal \"Learn Spanish\", or: add a task \"Buy milk\"."

	default:
		return "I'm your on-device assistant. I can manage your goals and tasks; " +
			"ask me to create, complete, or list them."
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// extractItemName pulls the item name from an utterance: a quoted phrase
// wins, then the tail after "called"/"named"/"to", else the fallback.
func extractItemName(msg, fallback string) string {
	if start := strings.IndexByte(msg, '"'); start >= 0 {
		if end := strings.IndexByte(msg[start+1:], '"'); end >= 0 {
			if name := strings.TrimSpace(msg[start+1 : start+1+end]); name != "" {
				return name
			}
		}
	}
	for _, kw := range []string{" called ", " named ", " to "} {
		if i := strings.Index(strings.ToLower(msg), kw); i >= 0 {
			if name := strings.TrimSpace(strings.Trim(msg[i+len(kw):], ".!?")); name != "" {
				return name
			}
		}
	}
	return fallback
}
