// Package tracker holds the goal/task/focus application service. This is
// ordinary CRUD plumbing over the storage ports; the assistant's executor
// and the CLI are its only callers.
package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lticona/strive/internal/domain"
)

type Service struct {
	goals domain.GoalStore
	tasks domain.TaskStore
	focus domain.FocusStore
	now   func() time.Time
}

func NewService(goals domain.GoalStore, tasks domain.TaskStore, focus domain.FocusStore) *Service {
	return &Service{
		goals: goals,
		tasks: tasks,
		focus: focus,
		now:   time.Now,
	}
}

const (
	defaultGoalMonths  = 3
	defaultGoalMinutes = 30
	defaultTaskMinutes = 30
)

func (s *Service) CreateGoal(ctx context.Context, title string, durationMonths, dailyMinutes int) (*domain.Goal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("goal title is required")
	}
	if durationMonths <= 0 {
		durationMonths = defaultGoalMonths
	}
	if dailyMinutes <= 0 {
		dailyMinutes = defaultGoalMinutes
	}

	g := &domain.Goal{
		ID:             domain.GoalID(uuid.NewString()),
		Title:          title,
		DurationMonths: durationMonths,
		DailyMinutes:   dailyMinutes,
		CreatedAt:      s.now(),
	}
	if err := s.goals.CreateGoal(g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Service) CreateTask(ctx context.Context, title, due string, minutes int) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("task title is required")
	}
	if minutes <= 0 {
		minutes = defaultTaskMinutes
	}

	t := &domain.Task{
		ID:        domain.TaskID(uuid.NewString()),
		Title:     title,
		Due:       due,
		Minutes:   minutes,
		CreatedAt: s.now(),
	}
	if err := s.tasks.CreateTask(t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteGoalByTitle removes the goal whose title matches. Matching is
// case-insensitive exact first, then unique prefix; an ambiguous name is an
// error so the assistant never guesses on a destructive action.
func (s *Service) DeleteGoalByTitle(ctx context.Context, title string) (*domain.Goal, error) {
	g, err := s.findGoal(title)
	if err != nil {
		return nil, err
	}
	if err := s.goals.DeleteGoal(g.ID); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Service) DeleteTaskByTitle(ctx context.Context, title string) (*domain.Task, error) {
	t, err := s.findTask(title)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.DeleteTask(t.ID); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) CompleteTaskByTitle(ctx context.Context, title string) (*domain.Task, error) {
	t, err := s.findTask(title)
	if err != nil {
		return nil, err
	}
	done := s.now()
	if err := s.tasks.CompleteTask(t.ID, done); err != nil {
		return nil, err
	}
	t.Done = true
	t.CompletedAt = done
	return t, nil
}

// ListActive returns all goals and the open tasks.
func (s *Service) ListActive(ctx context.Context) ([]*domain.Goal, []*domain.Task, error) {
	goals, err := s.goals.ListGoals()
	if err != nil {
		return nil, nil, err
	}
	tasks, err := s.tasks.ListTasks(false)
	if err != nil {
		return nil, nil, err
	}
	return goals, tasks, nil
}

func (s *Service) RecordFocus(ctx context.Context, taskID domain.TaskID, startedAt time.Time, d time.Duration) (*domain.FocusSession, error) {
	if d <= 0 {
		return nil, fmt.Errorf("focus duration must be positive")
	}
	f := &domain.FocusSession{
		ID:        domain.FocusID(uuid.NewString()),
		TaskID:    taskID,
		StartedAt: startedAt,
		Duration:  d,
	}
	if err := s.focus.AppendFocus(f); err != nil {
		return nil, err
	}
	return f, nil
}

// ProgressSummary aggregates usage for the stats view and for the prompt.
func (s *Service) ProgressSummary(ctx context.Context) (domain.Progress, error) {
	var p domain.Progress

	goals, err := s.goals.ListGoals()
	if err != nil {
		return p, err
	}
	p.ActiveGoals = len(goals)

	all, err := s.tasks.ListTasks(true)
	if err != nil {
		return p, err
	}
	for _, t := range all {
		if t.Done {
			p.DoneTasks++
		} else {
			p.OpenTasks++
		}
	}

	since := s.now().AddDate(0, 0, -7)
	sessions, err := s.focus.ListFocusSince(since)
	if err != nil {
		return p, err
	}
	p.FocusSessions = len(sessions)
	for _, f := range sessions {
		p.FocusMinutes7d += int(f.Duration.Minutes())
	}
	return p, nil
}

// ContextSnapshot renders a compact description of the user's data for the
// assistant prompt.
func (s *Service) ContextSnapshot(ctx context.Context) (string, error) {
	goals, tasks, err := s.ListActive(ctx)
	if err != nil {
		return "", err
	}
	p, err := s.ProgressSummary(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if len(goals) == 0 {
		b.WriteString("Goals: none yet.\n")
	} else {
		b.WriteString("Goals:\n")
		for _, g := range goals {
			fmt.Fprintf(&b, "- %s (%d months, %d min/day)\n", g.Title, g.DurationMonths, g.DailyMinutes)
		}
	}
	if len(tasks) == 0 {
		b.WriteString("Open tasks: none.\n")
	} else {
		b.WriteString("Open tasks:\n")
		for _, t := range tasks {
			if t.Due != "" {
				fmt.Fprintf(&b, "- %s (due %s)\n", t.Title, t.Due)
			} else {
				fmt.Fprintf(&b, "- %s\n", t.Title)
			}
		}
	}
	fmt.Fprintf(&b, "Done tasks: %d. Focus time last 7 days: %d min.",
		p.DoneTasks, p.FocusMinutes7d)
	return b.String(), nil
}

func (s *Service) findGoal(title string) (*domain.Goal, error) {
	goals, err := s.goals.ListGoals()
	if err != nil {
		return nil, err
	}
	idx, err := matchTitle(len(goals), title, func(i int) string { return goals[i].Title })
	if err != nil {
		if err == errNotFound {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return goals[idx], nil
}

func (s *Service) findTask(title string) (*domain.Task, error) {
	tasks, err := s.tasks.ListTasks(false)
	if err != nil {
		return nil, err
	}
	idx, err := matchTitle(len(tasks), title, func(i int) string { return tasks[i].Title })
	if err != nil {
		if err == errNotFound {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return tasks[idx], nil
}

var errNotFound = fmt.Errorf("no match")

// matchTitle resolves a spoken item name against stored titles:
// case-insensitive exact match wins, then a unique prefix match.
func matchTitle(n int, title string, get func(int) string) (int, error) {
	want := strings.ToLower(strings.TrimSpace(title))
	if want == "" {
		return 0, errNotFound
	}

	for i := 0; i < n; i++ {
		if strings.ToLower(get(i)) == want {
			return i, nil
		}
	}

	match := -1
	for i := 0; i < n; i++ {
		if strings.HasPrefix(strings.ToLower(get(i)), want) {
			if match >= 0 {
				return 0, domain.ErrAmbiguousTarget
			}
			match = i
		}
	}
	if match < 0 {
		return 0, errNotFound
	}
	return match, nil
}
