package domain

import (
	"errors"
	"fmt"
)

var (
	ErrGoalNotFound    = errors.New("goal not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrAmbiguousTarget = errors.New("target name matches more than one item")
)

// ModelLoadError reports a failed model load. The load attempt is fatal but
// the process is not: the manager reverts to "no model loaded" and the user
// can retry or pick another model.
type ModelLoadError struct {
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("loading model %s: %v", e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error { return e.Err }

// InferenceError reports a failed or impossible generation, surfaced to the
// user as a system turn.
type InferenceError struct {
	Reason string
	Err    error
}

func (e *InferenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("inference: %s: %v", e.Reason, e.Err)
	}
	return "inference: " + e.Reason
}

func (e *InferenceError) Unwrap() error { return e.Err }

// ActionExecutionError reports that a parsed action could not be applied to
// the data layer. It is recovered locally: the turn still succeeds and the
// recorded action downgrades to NONE with the reason in its details.
type ActionExecutionError struct {
	Action ActionType
	Target string
	Err    error
}

func (e *ActionExecutionError) Error() string {
	return fmt.Sprintf("executing %s for %q: %v", e.Action, e.Target, e.Err)
}

func (e *ActionExecutionError) Unwrap() error { return e.Err }
