package assistant

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/lticona/strive/internal/domain"
	"github.com/lticona/strive/internal/llm"
)

// Summarizer folds dropped turns into the rolling summary. The strategy is
// pluggable; the contract is only that information about the dropped turns
// ends up in the returned summary rather than being discarded.
type Summarizer interface {
	Summarize(ctx context.Context, previous string, dropped []*domain.ChatMessage) (string, error)
}

// RuleSummarizer condenses turns without a model: it keeps a clipped line
// per turn and calls out the actions that were taken. It never fails, which
// makes it the fallback for every other strategy.
type RuleSummarizer struct{}

const summaryClip = 80

func (RuleSummarizer) Summarize(_ context.Context, previous string, dropped []*domain.ChatMessage) (string, error) {
	parts := make([]string, 0, len(dropped)+1)
	if previous != "" {
		parts = append(parts, previous)
	}
	for _, m := range dropped {
		line := clip(strings.TrimSpace(m.Text), summaryClip)
		switch {
		case m.Sender == domain.SenderAssistant && m.Action.Type != domain.ActionNone:
			parts = append(parts, fmt.Sprintf("assistant %s %q", pastTense(m.Action.Type), m.Action.Target))
		case line == "":
			continue
		default:
			parts = append(parts, string(m.Sender)+" said: "+line)
		}
	}
	return strings.Join(parts, "; "), nil
}

func pastTense(t domain.ActionType) string {
	switch t {
	case domain.ActionGoalCreated:
		return "created goal"
	case domain.ActionTaskCreated:
		return "created task"
	case domain.ActionGoalDeleted:
		return "deleted goal"
	case domain.ActionTaskDeleted:
		return "deleted task"
	case domain.ActionTaskCompleted:
		return "completed task"
	case domain.ActionListShown:
		return "listed items"
	}
	return "did nothing for"
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// EngineSummarizer condenses dropped turns with the loaded model, falling
// back to the rule strategy when no session is ready or generation fails.
type EngineSummarizer struct {
	Manager  *llm.Manager
	Opts     llm.GenerateOptions
	Fallback Summarizer
}

func (s *EngineSummarizer) Summarize(ctx context.Context, previous string, dropped []*domain.ChatMessage) (string, error) {
	fallback := s.Fallback
	if fallback == nil {
		fallback = RuleSummarizer{}
	}

	handle, ok := s.Manager.Current()
	if !ok {
		return fallback.Summarize(ctx, previous, dropped)
	}

	var b strings.Builder
	b.WriteString("Condense the following conversation excerpt into at most three short sentences. Keep every goal or task name mentioned.\n")
	if previous != "" {
		b.WriteString("Summary so far: " + previous + "\n")
	}
	b.WriteString("Excerpt:\n")
	for _, m := range dropped {
		b.WriteString(string(m.Sender) + ": " + m.Text + "\n")
	}

	opts := s.Opts
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 160
	}
	stream, err := handle.Generate(ctx, b.String(), opts)
	if err != nil {
		return fallback.Summarize(ctx, previous, dropped)
	}

	var out strings.Builder
	for {
		frag, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fallback.Summarize(ctx, previous, dropped)
		}
		out.WriteString(frag)
	}

	summary := strings.TrimSpace(out.String())
	if summary == "" {
		return fallback.Summarize(ctx, previous, dropped)
	}
	return summary, nil
}
