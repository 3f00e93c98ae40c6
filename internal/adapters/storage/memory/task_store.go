package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/lticona/strive/internal/domain"
)

type TaskStore struct {
	mu    sync.RWMutex
	tasks map[domain.TaskID]*domain.Task
}

func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[domain.TaskID]*domain.Task)}
}

func (s *TaskStore) CreateTask(t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.tasks[t.ID] = &cp
	return nil
}

func (s *TaskStore) DeleteTask(id domain.TaskID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *TaskStore) CompleteTask(id domain.TaskID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	t.Done = true
	t.CompletedAt = at
	return nil
}

func (s *TaskStore) ListTasks(includeDone bool) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !includeDone && t.Done {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
