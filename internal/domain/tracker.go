package domain

import "time"

// Goal is a long-running objective the user commits daily time to.
type Goal struct {
	ID             GoalID
	Title          string
	DurationMonths int
	DailyMinutes   int
	CreatedAt      time.Time
}

// Task is a single unit of work, optionally tied to a goal.
type Task struct {
	ID          TaskID
	GoalID      GoalID // empty when the task is standalone
	Title       string
	Due         string // free-form ("today", "2026-09-02"); the app does not schedule
	Minutes     int
	Done        bool
	CreatedAt   time.Time
	CompletedAt time.Time // zero until Done
}

// FocusSession is one completed run of the focus timer.
type FocusSession struct {
	ID        FocusID
	TaskID    TaskID // empty for untargeted sessions
	StartedAt time.Time
	Duration  time.Duration
}

// Progress aggregates usage for the stats view and for the assistant's
// prompt context.
type Progress struct {
	ActiveGoals    int
	OpenTasks      int
	DoneTasks      int
	FocusSessions  int
	FocusMinutes7d int
}
