package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/lticona/strive/internal/app/tracker"
	"github.com/lticona/strive/internal/domain"
	"github.com/lticona/strive/internal/observability"
)

// Executor applies exactly one parsed action to the data layer. Execution
// failures never fail the turn: the action downgrades to NONE and the
// failure reason lands in the details, so the conversation continues.
type Executor struct {
	tracker *tracker.Service
}

func NewExecutor(svc *tracker.Service) *Executor {
	return &Executor{tracker: svc}
}

// Execute returns the action as it should be recorded on the assistant's
// turn: the input action with details filled in on success, or a NONE
// action carrying the failure reason.
func (e *Executor) Execute(ctx context.Context, action domain.ActionTaken) domain.ActionTaken {
	resolved, err := e.apply(ctx, action)
	if err == nil {
		return resolved
	}

	execErr := &domain.ActionExecutionError{Action: action.Type, Target: action.Target, Err: err}
	observability.LoggerFromContext(ctx).Warn("action downgraded",
		"action", action.Type, "target", action.Target, "error", err)

	details := "could not " + strings.ToLower(strings.ReplaceAll(string(action.Type), "_", " "))
	if action.Target != "" {
		details += " " + fmt.Sprintf("%q", action.Target)
	}
	return domain.ActionTaken{
		Type:    domain.ActionNone,
		Details: details + ": " + execErr.Err.Error(),
	}
}

func (e *Executor) apply(ctx context.Context, action domain.ActionTaken) (domain.ActionTaken, error) {
	switch action.Type {
	case domain.ActionNone:
		return action, nil

	case domain.ActionGoalCreated:
		g, err := e.tracker.CreateGoal(ctx, action.Target, 0, 0)
		if err != nil {
			return action, err
		}
		action.Details = fmt.Sprintf("goal %q created (%d months, %d min/day)",
			g.Title, g.DurationMonths, g.DailyMinutes)
		return action, nil

	case domain.ActionTaskCreated:
		t, err := e.tracker.CreateTask(ctx, action.Target, "", 0)
		if err != nil {
			return action, err
		}
		action.Details = fmt.Sprintf("task %q created", t.Title)
		return action, nil

	case domain.ActionGoalDeleted:
		g, err := e.tracker.DeleteGoalByTitle(ctx, action.Target)
		if err != nil {
			return action, err
		}
		action.Target = g.Title
		action.Details = fmt.Sprintf("goal %q deleted", g.Title)
		return action, nil

	case domain.ActionTaskDeleted:
		t, err := e.tracker.DeleteTaskByTitle(ctx, action.Target)
		if err != nil {
			return action, err
		}
		action.Target = t.Title
		action.Details = fmt.Sprintf("task %q deleted", t.Title)
		return action, nil

	case domain.ActionTaskCompleted:
		t, err := e.tracker.CompleteTaskByTitle(ctx, action.Target)
		if err != nil {
			return action, err
		}
		action.Target = t.Title
		action.Details = fmt.Sprintf("task %q completed", t.Title)
		return action, nil

	case domain.ActionListShown:
		goals, tasks, err := e.tracker.ListActive(ctx)
		if err != nil {
			return action, err
		}
		action.Details = formatListing(goals, tasks)
		return action, nil
	}

	return action, fmt.Errorf("unknown action type %q", action.Type)
}

func formatListing(goals []*domain.Goal, tasks []*domain.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d goals, %d open tasks", len(goals), len(tasks))
	for _, g := range goals {
		b.WriteString("\ngoal: " + g.Title)
	}
	for _, t := range tasks {
		b.WriteString("\ntask: " + t.Title)
	}
	return b.String()
}
