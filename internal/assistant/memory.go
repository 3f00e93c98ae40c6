package assistant

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/lticona/strive/internal/domain"
	"github.com/lticona/strive/internal/observability"
)

const summaryPrefix = "Earlier in this conversation: "

// ConversationMemory is the bounded, ordered log of chat turns plus a
// rolling summary. It is the in-process authority for the conversation; the
// chat store, when present, is written behind on every append.
//
// Appends are serialized by a single-writer mutex so turn order is never
// violated, and snapshots are prefix-consistent copies.
type ConversationMemory struct {
	conversationID domain.ConversationID
	maxTurns       int
	summarizer     Summarizer
	store          domain.ChatStore // optional write-behind persistence

	mu         sync.Mutex
	msgs       []*domain.ChatMessage
	summary    string
	summaryMsg *domain.ChatMessage // head entry holding the rolling summary
}

// NewConversationMemory creates a memory capped at maxTurns entries.
// maxTurns must leave room for the summary entry plus at least one exchange.
func NewConversationMemory(
	conversationID domain.ConversationID,
	maxTurns int,
	summarizer Summarizer,
	store domain.ChatStore,
) *ConversationMemory {
	if maxTurns < 4 {
		maxTurns = 4
	}
	if summarizer == nil {
		summarizer = RuleSummarizer{}
	}
	return &ConversationMemory{
		conversationID: conversationID,
		maxTurns:       maxTurns,
		summarizer:     summarizer,
		store:          store,
	}
}

// Restore seeds the memory from persisted history, oldest first. Intended
// for startup only, before any appends.
func (m *ConversationMemory) Restore(ctx context.Context, msgs []*domain.ChatMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range msgs {
		m.msgs = append(m.msgs, msg)
		m.foldLocked(ctx)
	}
}

// Append adds one turn to the log, persisting it write-behind and folding
// the oldest turns into the summary when the cap is exceeded.
func (m *ConversationMemory) Append(ctx context.Context, msg *domain.ChatMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.msgs = append(m.msgs, msg)

	if m.store != nil {
		if err := m.store.AppendMessage(msg); err != nil {
			observability.LoggerFromContext(ctx).Error("failed to persist chat message",
				"conversation_id", m.conversationID, "error", err)
		}
	}

	m.foldLocked(ctx)
}

// foldLocked restores the cap invariant: when the log has grown past
// maxTurns, the oldest turns are condensed into the rolling summary and
// replaced by a single system entry, leaving the count at the cap.
func (m *ConversationMemory) foldLocked(ctx context.Context) {
	if len(m.msgs) <= m.maxTurns {
		return
	}

	cut := len(m.msgs) - (m.maxTurns - 1)
	dropped := m.msgs[:cut]

	// The previous summary entry is already folded into m.summary; it only
	// marks where condensed history begins and must not be re-summarized.
	if m.summaryMsg != nil && len(dropped) > 0 && dropped[0] == m.summaryMsg {
		dropped = dropped[1:]
	}

	summary, err := m.summarizer.Summarize(ctx, m.summary, dropped)
	if err != nil {
		// Dropped turns must never vanish silently; fall back to the rule
		// strategy, which cannot fail.
		observability.LoggerFromContext(ctx).Error("summarizer failed, using rule fallback",
			"conversation_id", m.conversationID, "error", err)
		summary, _ = RuleSummarizer{}.Summarize(ctx, m.summary, dropped)
	}
	m.summary = summary

	head := &domain.ChatMessage{
		ID:             domain.MessageID(uuid.NewString()),
		ConversationID: m.conversationID,
		Sender:         domain.SenderSystem,
		Text:           summaryPrefix + summary,
	}
	if len(dropped) > 0 {
		head.CreatedAt = dropped[len(dropped)-1].CreatedAt
	}
	m.summaryMsg = head
	m.msgs = append([]*domain.ChatMessage{head}, m.msgs[cut:]...)
}

// SnapshotForPrompt returns a prefix-consistent copy of the window and the
// rolling summary, for prompt construction.
func (m *ConversationMemory) SnapshotForPrompt() ([]*domain.ChatMessage, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.ChatMessage, len(m.msgs))
	copy(out, m.msgs)
	return out, m.summary
}

// Len reports the current turn count, the summary entry included.
func (m *ConversationMemory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.msgs)
}

// Summary returns the rolling summary, empty until the first fold.
func (m *ConversationMemory) Summary() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summary
}
