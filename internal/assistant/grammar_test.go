package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lticona/strive/internal/domain"
)

func TestParseActionSingleDirective(t *testing.T) {
	action, clean := ParseAction("[ACTION:TASK_CREATED:Buy milk] Sure, I added that task.")

	assert.Equal(t, domain.ActionTaskCreated, action.Type)
	assert.Equal(t, "Buy milk", action.Target)
	assert.Equal(t, "Sure, I added that task.", clean)
}

func TestParseActionNoDirective(t *testing.T) {
	action, clean := ParseAction("Just chatting, nothing to do here.")

	assert.Equal(t, domain.ActionNone, action.Type)
	assert.Equal(t, "Just chatting, nothing to do here.", clean)
}

func TestParseActionFirstValidWins(t *testing.T) {
	raw := "[ACTION:TASK_CREATED:Buy milk] ok [ACTION:GOAL_DELETED:Learn Spanish] done"
	action, clean := ParseAction(raw)

	assert.Equal(t, domain.ActionTaskCreated, action.Type)
	assert.Equal(t, "Buy milk", action.Target)
	assert.NotContains(t, clean, "[ACTION")
}

func TestParseActionSkipsMalformedCandidates(t *testing.T) {
	t.Run("unknown type then valid", func(t *testing.T) {
		action, _ := ParseAction("[ACTION:EXPLODE:Everything] [ACTION:TASK_COMPLETED:Buy milk]")
		assert.Equal(t, domain.ActionTaskCompleted, action.Type)
		assert.Equal(t, "Buy milk", action.Target)
	})

	t.Run("missing target then valid", func(t *testing.T) {
		action, _ := ParseAction("[ACTION:GOAL_CREATED:] [ACTION:GOAL_CREATED:Run a marathon]")
		assert.Equal(t, domain.ActionGoalCreated, action.Type)
		assert.Equal(t, "Run a marathon", action.Target)
	})

	t.Run("only malformed", func(t *testing.T) {
		action, _ := ParseAction("[ACTION:MAKE_COFFEE:now] please")
		assert.Equal(t, domain.ActionNone, action.Type)
	})
}

func TestParseActionListShownDropsTarget(t *testing.T) {
	action, _ := ParseAction("[ACTION:LIST_SHOWN:whatever] here you go")

	assert.Equal(t, domain.ActionListShown, action.Type)
	assert.Empty(t, action.Target)
}

func TestParseActionLowercaseTypeAccepted(t *testing.T) {
	action, _ := ParseAction("[ACTION:task_created:Buy milk] sure")

	assert.Equal(t, domain.ActionTaskCreated, action.Type)
}

// The parser is total: any input yields exactly one action from the closed
// set and never panics.
func TestParseActionTotality(t *testing.T) {
	inputs := []string{
		"",
		"[ACTION:",
		"[ACTION::]",
		"[ACTION:::::]",
		"]]][[[ACTION:TASK_CREATED:",
		"[ACTION:TASK_CREATED:unterminated",
		"[action:TASK_CREATED:lower tag]",
		"nested [ACTION:GOAL_CREATED:[ACTION:TASK_CREATED:x]]",
		"unicode [ACTION:GOAL_CREATED:日本語を学ぶ] ok",
		"\x00\xff binary [ACTION:NONE:]",
	}

	valid := map[domain.ActionType]bool{
		domain.ActionNone: true, domain.ActionGoalCreated: true,
		domain.ActionTaskCreated: true, domain.ActionGoalDeleted: true,
		domain.ActionTaskDeleted: true, domain.ActionTaskCompleted: true,
		domain.ActionListShown: true,
	}

	for _, in := range inputs {
		action, _ := ParseAction(in)
		require.True(t, valid[action.Type], "input %q produced type %q", in, action.Type)
	}
}

func TestStripDirectivesCollapsesWhitespace(t *testing.T) {
	_, clean := ParseAction("before [ACTION:LIST_SHOWN:] after")
	assert.Equal(t, "before after", clean)
}
