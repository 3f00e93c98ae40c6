package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/lticona/strive/internal/domain"
)

type FocusStore struct {
	mu       sync.RWMutex
	sessions []*domain.FocusSession
}

func NewFocusStore() *FocusStore {
	return &FocusStore{}
}

func (s *FocusStore) AppendFocus(f *domain.FocusSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *f
	s.sessions = append(s.sessions, &cp)
	return nil
}

func (s *FocusStore) ListFocusSince(since time.Time) ([]*domain.FocusSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.FocusSession
	for _, f := range s.sessions {
		if f.StartedAt.Before(since) {
			continue
		}
		cp := *f
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}
