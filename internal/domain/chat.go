package domain

// ActionTaken records the single action the assistant performed (or declined
// to perform) during one of its turns. The zero value means "no action".
type ActionTaken struct {
	Type    ActionType
	Target  string // item name; empty only for NONE and LIST_SHOWN
	Details string
}

// NoAction is the ActionTaken recorded for conversational-only turns.
func NoAction() ActionTaken {
	return ActionTaken{Type: ActionNone}
}

// ChatMessage represents one turn in a conversation timeline.
// Messages are immutable once appended to memory.
type ChatMessage struct {
	ID             MessageID
	ConversationID ConversationID
	Sender         Sender
	Text           string
	CreatedAt      Timestamp

	// Action is meaningful for assistant turns only; user and system turns
	// always carry the zero value.
	Action ActionTaken
}
