package domain

import (
	"strings"
	"time"
)

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists every valid priority from least to most urgent.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// ParsePriority converts user input into a Priority. Matching is case
// insensitive; an empty string yields the default priority.
func ParsePriority(s string) (Priority, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PriorityMedium, true
	}
	for _, p := range Priorities {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Rank orders priorities; unknown values rank as medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	default:
		return 2
	}
}

// Task represents a task in the domain model.
// Timer fields are only ever written by the timer engine.
type Task struct {
	ID          string
	Title       string
	Description string
	CategoryID  string
	Priority    Priority
	DueDate     *time.Time
	Completed   bool
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	IsTimerActive      bool
	TimerStartTime     *time.Time
	TimerLastStartTime *time.Time
	TimerTotalTime     int64
	TimerCompletedAt   *time.Time
}

// NewTask creates a new Task with the given title and default priority.
func NewTask(title string) Task {
	return Task{
		Title:    title,
		Priority: PriorityMedium,
	}
}

// IsValid checks if the task has valid data.
func (t Task) IsValid() bool {
	return strings.TrimSpace(t.Title) != ""
}

// String returns the task title for display purposes.
func (t Task) String() string {
	return t.Title
}

// HasTimer reports whether the task has ever accumulated or is accumulating
// tracked time.
func (t Task) HasTimer() bool {
	return t.IsTimerActive || t.TimerTotalTime > 0
}

// IsTimerStopped reports whether the timer was explicitly stopped and has
// not been restarted since.
func (t Task) IsTimerStopped() bool {
	return !t.IsTimerActive && t.TimerCompletedAt != nil
}

// ShortID returns the first eight characters of the id.
func (t Task) ShortID() string {
	if len(t.ID) <= 8 {
		return t.ID
	}
	return t.ID[:8]
}

// Clone returns a deep copy so callers can hand out tasks without sharing
// the underlying time pointers.
func (t Task) Clone() Task {
	c := t
	c.DueDate = cloneTime(t.DueDate)
	c.CompletedAt = cloneTime(t.CompletedAt)
	c.TimerStartTime = cloneTime(t.TimerStartTime)
	c.TimerLastStartTime = cloneTime(t.TimerLastStartTime)
	c.TimerCompletedAt = cloneTime(t.TimerCompletedAt)
	return c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time {
	return &t
}
