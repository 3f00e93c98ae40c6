package domain

import "time"

// GoalStore defines goal persistence.
type GoalStore interface {
	CreateGoal(g *Goal) error
	DeleteGoal(id GoalID) error
	ListGoals() ([]*Goal, error)
}

// TaskStore defines task persistence.
type TaskStore interface {
	CreateTask(t *Task) error
	DeleteTask(id TaskID) error
	CompleteTask(id TaskID, at time.Time) error
	ListTasks(includeDone bool) ([]*Task, error)
}

// FocusStore defines focus-session persistence.
type FocusStore interface {
	AppendFocus(f *FocusSession) error
	ListFocusSince(since time.Time) ([]*FocusSession, error)
}

// ChatStore defines durable chat history, keyed by conversation.
// ConversationMemory is the in-process authority; the store is write-behind.
type ChatStore interface {
	AppendMessage(msg *ChatMessage) error
	ListMessages(conversationID ConversationID, limit int) ([]*ChatMessage, error)
}
