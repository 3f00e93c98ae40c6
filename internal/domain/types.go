package domain

import "time"

type ConversationID string
type MessageID string
type GoalID string
type TaskID string
type FocusID string

// Sender identifies who produced a chat message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
	SenderSystem    Sender = "system"
)

// ActionType is the closed set of actions the assistant may take on the
// user's data. Anything the grammar cannot map onto this set degrades to
// ActionNone.
type ActionType string

const (
	ActionNone          ActionType = "NONE"
	ActionGoalCreated   ActionType = "GOAL_CREATED"
	ActionTaskCreated   ActionType = "TASK_CREATED"
	ActionGoalDeleted   ActionType = "GOAL_DELETED"
	ActionTaskDeleted   ActionType = "TASK_DELETED"
	ActionTaskCompleted ActionType = "TASK_COMPLETED"
	ActionListShown     ActionType = "LIST_SHOWN"
)

// ParseActionType maps a raw token onto the closed action set.
// Unknown tokens report ok=false; callers decide how to degrade.
func ParseActionType(s string) (ActionType, bool) {
	switch ActionType(s) {
	case ActionNone, ActionGoalCreated, ActionTaskCreated, ActionGoalDeleted,
		ActionTaskDeleted, ActionTaskCompleted, ActionListShown:
		return ActionType(s), true
	}
	return ActionNone, false
}

// RequiresTarget reports whether the action needs a non-empty item name.
func (t ActionType) RequiresTarget() bool {
	switch t {
	case ActionNone, ActionListShown:
		return false
	}
	return true
}

type Timestamp = time.Time
