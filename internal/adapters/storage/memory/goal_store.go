// Package memory holds in-process store implementations. They are NOT
// persistent and are meant for dev mode and tests.
package memory

import (
	"sort"
	"sync"

	"github.com/lticona/strive/internal/domain"
)

type GoalStore struct {
	mu    sync.RWMutex
	goals map[domain.GoalID]*domain.Goal
}

func NewGoalStore() *GoalStore {
	return &GoalStore{goals: make(map[domain.GoalID]*domain.Goal)}
}

func (s *GoalStore) CreateGoal(g *domain.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *g
	s.goals[g.ID] = &cp
	return nil
}

func (s *GoalStore) DeleteGoal(id domain.GoalID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[id]; !ok {
		return domain.ErrGoalNotFound
	}
	delete(s.goals, id)
	return nil
}

func (s *GoalStore) ListGoals() ([]*domain.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Goal, 0, len(s.goals))
	for _, g := range s.goals {
		cp := *g
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
