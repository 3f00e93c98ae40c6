package memory

import (
	"sync"

	"github.com/lticona/strive/internal/domain"
)

type ChatStore struct {
	mu       sync.RWMutex
	messages map[domain.ConversationID][]*domain.ChatMessage
}

func NewChatStore() *ChatStore {
	return &ChatStore{messages: make(map[domain.ConversationID][]*domain.ChatMessage)}
}

func (s *ChatStore) AppendMessage(msg *domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *msg
	s.messages[msg.ConversationID] = append(s.messages[msg.ConversationID], &cp)
	return nil
}

func (s *ChatStore) ListMessages(conversationID domain.ConversationID, limit int) ([]*domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.messages[conversationID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]*domain.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}
