package domain

import "time"

// ActiveTimer is the projection of a task whose timer is running.
type ActiveTimer struct {
	ID            string
	Title         string
	StartTime     time.Time
	LastStartTime time.Time
	TotalTime     int64
	IsActive      bool
}

// ActiveTimerOf projects a task with a running timer. Missing timestamps
// fall back to each other so the projection is always usable.
func ActiveTimerOf(t Task) ActiveTimer {
	at := ActiveTimer{
		ID:        t.ID,
		Title:     t.Title,
		TotalTime: t.TimerTotalTime,
		IsActive:  t.IsTimerActive,
	}
	if t.TimerStartTime != nil {
		at.StartTime = *t.TimerStartTime
	}
	if t.TimerLastStartTime != nil {
		at.LastStartTime = *t.TimerLastStartTime
	} else {
		at.LastStartTime = at.StartTime
	}
	if at.StartTime.IsZero() {
		at.StartTime = at.LastStartTime
	}
	return at
}

// Task returns the timer fields as a task so display math can be shared.
func (a ActiveTimer) Task() Task {
	t := Task{
		ID:             a.ID,
		Title:          a.Title,
		IsTimerActive:  a.IsActive,
		TimerTotalTime: a.TotalTime,
	}
	if !a.StartTime.IsZero() {
		t.TimerStartTime = TimePtr(a.StartTime)
	}
	if !a.LastStartTime.IsZero() {
		t.TimerLastStartTime = TimePtr(a.LastStartTime)
	}
	return t
}
