package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lticona/strive/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "strive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func ts(offset int) time.Time {
	return time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC).Add(time.Duration(offset) * time.Minute)
}

func TestGoalRoundTrip(t *testing.T) {
	s := openTestStore(t)

	g := &domain.Goal{
		ID:             "g1",
		Title:          "Learn Spanish",
		DurationMonths: 6,
		DailyMinutes:   20,
		CreatedAt:      ts(0),
	}
	require.NoError(t, s.CreateGoal(g))

	goals, err := s.ListGoals()
	require.NoError(t, err)
	require.Len(t, goals, 1)

	got := goals[0]
	assert.Equal(t, g.ID, got.ID)
	assert.Equal(t, g.Title, got.Title)
	assert.Equal(t, g.DurationMonths, got.DurationMonths)
	assert.Equal(t, g.DailyMinutes, got.DailyMinutes)
	assert.True(t, got.CreatedAt.Equal(g.CreatedAt))

	require.NoError(t, s.DeleteGoal("g1"))
	assert.ErrorIs(t, s.DeleteGoal("g1"), domain.ErrGoalNotFound)
}

func TestTaskLifecycle(t *testing.T) {
	s := openTestStore(t)

	task := &domain.Task{
		ID:        "t1",
		Title:     "Buy milk",
		Due:       "Friday",
		Minutes:   15,
		CreatedAt: ts(0),
	}
	require.NoError(t, s.CreateTask(task))
	require.NoError(t, s.CreateTask(&domain.Task{ID: "t2", Title: "Call mom", Minutes: 10, CreatedAt: ts(1)}))

	done := ts(30)
	require.NoError(t, s.CompleteTask("t1", done))
	assert.ErrorIs(t, s.CompleteTask("missing", done), domain.ErrTaskNotFound)

	open, err := s.ListTasks(false)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "Call mom", open[0].Title)
	assert.True(t, open[0].CompletedAt.IsZero())

	all, err := s.ListTasks(true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].Done)
	assert.True(t, all[0].CompletedAt.Equal(done))

	require.NoError(t, s.DeleteTask("t2"))
	assert.ErrorIs(t, s.DeleteTask("t2"), domain.ErrTaskNotFound)
}

func TestFocusSinceFilter(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.AppendFocus(&domain.FocusSession{ID: "f1", TaskID: "t1", StartedAt: ts(0), Duration: 25 * time.Minute}))
	require.NoError(t, s.AppendFocus(&domain.FocusSession{ID: "f2", TaskID: "t1", StartedAt: ts(120), Duration: 50 * time.Minute}))

	sessions, err := s.ListFocusSince(ts(60))
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, domain.FocusID("f2"), sessions[0].ID)
	assert.Equal(t, 50*time.Minute, sessions[0].Duration)
	assert.True(t, sessions[0].StartedAt.Equal(ts(120)))
}

func TestMessageRoundTripPreservesAction(t *testing.T) {
	s := openTestStore(t)

	msg := &domain.ChatMessage{
		ID:             "m1",
		ConversationID: "default",
		Sender:         domain.SenderAssistant,
		Text:           "Done, I set up the goal \"Learn Spanish\" for you.",
		CreatedAt:      ts(0),
		Action: domain.ActionTaken{
			Type:    domain.ActionGoalCreated,
			Target:  "Learn Spanish",
			Details: "goal created",
		},
	}
	require.NoError(t, s.AppendMessage(msg))

	got, err := s.ListMessages("default", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, msg.Sender, got[0].Sender)
	assert.Equal(t, msg.Text, got[0].Text)
	assert.True(t, got[0].CreatedAt.Equal(msg.CreatedAt))
	assert.Equal(t, msg.Action, got[0].Action)
}

func TestListMessagesLimitKeepsNewestOldestFirst(t *testing.T) {
	s := openTestStore(t)

	texts := []string{"one", "two", "three", "four", "five"}
	for i, txt := range texts {
		require.NoError(t, s.AppendMessage(&domain.ChatMessage{
			ID:             domain.MessageID(txt),
			ConversationID: "default",
			Sender:         domain.SenderUser,
			Text:           txt,
			CreatedAt:      ts(i),
			Action:         domain.NoAction(),
		}))
	}

	got, err := s.ListMessages("default", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "three", got[0].Text)
	assert.Equal(t, "four", got[1].Text)
	assert.Equal(t, "five", got[2].Text)

	other, err := s.ListMessages("other", 0)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strive.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.CreateGoal(&domain.Goal{ID: "g1", Title: "Learn Spanish", DurationMonths: 3, DailyMinutes: 30, CreatedAt: ts(0)}))
	require.NoError(t, s1.Close())

	// Reopening keeps the data.
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	goals, err := s2.ListGoals()
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "Learn Spanish", goals[0].Title)
}
