// Package sqlite implements the storage ports over a single SQLite file.
// One Store implements every port, so the app wires it once and hands it
// out as each interface.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lticona/strive/internal/domain"
)

type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS goals (
	id              TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	duration_months INTEGER NOT NULL,
	daily_minutes   INTEGER NOT NULL,
	created_at      INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS tasks (
	id           TEXT PRIMARY KEY,
	goal_id      TEXT NOT NULL DEFAULT '',
	title        TEXT NOT NULL,
	due          TEXT NOT NULL DEFAULT '',
	minutes      INTEGER NOT NULL,
	done         INTEGER NOT NULL DEFAULT 0,
	created_at   INTEGER NOT NULL,
	completed_at INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS focus_sessions (
	id               TEXT PRIMARY KEY,
	task_id          TEXT NOT NULL DEFAULT '',
	started_at       INTEGER NOT NULL,
	duration_seconds INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	id              TEXT PRIMARY KEY,
	conversation_id TEXT NOT NULL,
	sender          TEXT NOT NULL,
	text            TEXT NOT NULL,
	created_at      INTEGER NOT NULL,
	action_type     TEXT NOT NULL DEFAULT 'NONE',
	action_target   TEXT NOT NULL DEFAULT '',
	action_details  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_messages_conversation
	ON messages(conversation_id, created_at);
CREATE INDEX IF NOT EXISTS idx_focus_started ON focus_sessions(started_at);
`

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	// The driver is not safe for concurrent writes on multiple conns.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Timestamps are stored as unix nanoseconds; zero means "not set".
func toNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromNanos(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// ─── GoalStore ───

func (s *Store) CreateGoal(g *domain.Goal) error {
	_, err := s.db.Exec(
		`INSERT INTO goals (id, title, duration_months, daily_minutes, created_at) VALUES (?, ?, ?, ?, ?)`,
		string(g.ID), g.Title, g.DurationMonths, g.DailyMinutes, toNanos(g.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting goal: %w", err)
	}
	return nil
}

func (s *Store) DeleteGoal(id domain.GoalID) error {
	res, err := s.db.Exec(`DELETE FROM goals WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

func (s *Store) ListGoals() ([]*domain.Goal, error) {
	rows, err := s.db.Query(`SELECT id, title, duration_months, daily_minutes, created_at FROM goals ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()

	var out []*domain.Goal
	for rows.Next() {
		var g domain.Goal
		var id string
		var created int64
		if err := rows.Scan(&id, &g.Title, &g.DurationMonths, &g.DailyMinutes, &created); err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}
		g.ID = domain.GoalID(id)
		g.CreatedAt = fromNanos(created)
		out = append(out, &g)
	}
	return out, rows.Err()
}

// ─── TaskStore ───

func (s *Store) CreateTask(t *domain.Task) error {
	_, err := s.db.Exec(
		`INSERT INTO tasks (id, goal_id, title, due, minutes, done, created_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(t.ID), string(t.GoalID), t.Title, t.Due, t.Minutes,
		boolToInt(t.Done), toNanos(t.CreatedAt), toNanos(t.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (s *Store) DeleteTask(id domain.TaskID) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (s *Store) CompleteTask(id domain.TaskID, at time.Time) error {
	res, err := s.db.Exec(
		`UPDATE tasks SET done = 1, completed_at = ? WHERE id = ?`,
		toNanos(at), string(id),
	)
	if err != nil {
		return fmt.Errorf("completing task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (s *Store) ListTasks(includeDone bool) ([]*domain.Task, error) {
	q := `SELECT id, goal_id, title, due, minutes, done, created_at, completed_at FROM tasks`
	if !includeDone {
		q += ` WHERE done = 0`
	}
	q += ` ORDER BY created_at`

	rows, err := s.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var out []*domain.Task
	for rows.Next() {
		var t domain.Task
		var id, goalID string
		var done int
		var created, completed int64
		if err := rows.Scan(&id, &goalID, &t.Title, &t.Due, &t.Minutes, &done, &created, &completed); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		t.ID = domain.TaskID(id)
		t.GoalID = domain.GoalID(goalID)
		t.Done = done != 0
		t.CreatedAt = fromNanos(created)
		t.CompletedAt = fromNanos(completed)
		out = append(out, &t)
	}
	return out, rows.Err()
}

// ─── FocusStore ───

func (s *Store) AppendFocus(f *domain.FocusSession) error {
	_, err := s.db.Exec(
		`INSERT INTO focus_sessions (id, task_id, started_at, duration_seconds) VALUES (?, ?, ?, ?)`,
		string(f.ID), string(f.TaskID), toNanos(f.StartedAt), int64(f.Duration.Seconds()),
	)
	if err != nil {
		return fmt.Errorf("inserting focus session: %w", err)
	}
	return nil
}

func (s *Store) ListFocusSince(since time.Time) ([]*domain.FocusSession, error) {
	rows, err := s.db.Query(
		`SELECT id, task_id, started_at, duration_seconds FROM focus_sessions
		 WHERE started_at >= ? ORDER BY started_at`,
		toNanos(since),
	)
	if err != nil {
		return nil, fmt.Errorf("listing focus sessions: %w", err)
	}
	defer rows.Close()

	var out []*domain.FocusSession
	for rows.Next() {
		var f domain.FocusSession
		var id, taskID string
		var started, seconds int64
		if err := rows.Scan(&id, &taskID, &started, &seconds); err != nil {
			return nil, fmt.Errorf("scanning focus session: %w", err)
		}
		f.ID = domain.FocusID(id)
		f.TaskID = domain.TaskID(taskID)
		f.StartedAt = fromNanos(started)
		f.Duration = time.Duration(seconds) * time.Second
		out = append(out, &f)
	}
	return out, rows.Err()
}

// ─── ChatStore ───

func (s *Store) AppendMessage(msg *domain.ChatMessage) error {
	_, err := s.db.Exec(
		`INSERT INTO messages (id, conversation_id, sender, text, created_at, action_type, action_target, action_details)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(msg.ID), string(msg.ConversationID), string(msg.Sender), msg.Text,
		toNanos(msg.CreatedAt), string(msg.Action.Type), msg.Action.Target, msg.Action.Details,
	)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	return nil
}

func (s *Store) ListMessages(conversationID domain.ConversationID, limit int) ([]*domain.ChatMessage, error) {
	q := `SELECT id, conversation_id, sender, text, created_at, action_type, action_target, action_details
	      FROM messages WHERE conversation_id = ? ORDER BY created_at`
	args := []any{string(conversationID)}
	if limit > 0 {
		// Newest N, returned oldest-first.
		q = `SELECT * FROM (` + q + ` DESC LIMIT ?) ORDER BY created_at`
		args = append(args, limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	var out []*domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		var id, conv, sender, actionType string
		var created int64
		if err := rows.Scan(&id, &conv, &sender, &m.Text, &created,
			&actionType, &m.Action.Target, &m.Action.Details); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.ID = domain.MessageID(id)
		m.ConversationID = domain.ConversationID(conv)
		m.Sender = domain.Sender(sender)
		m.CreatedAt = fromNanos(created)
		if typ, ok := domain.ParseActionType(actionType); ok {
			m.Action.Type = typ
		} else {
			m.Action.Type = domain.ActionNone
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
