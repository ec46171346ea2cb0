package domain

import "time"

// NullTime is an optional, nullable timestamp in a patch. Set=false leaves
// the field untouched; Set=true with a nil Time clears it.
type NullTime struct {
	Set  bool
	Time *time.Time
}

// SetTime returns a NullTime that assigns t.
func SetTime(t time.Time) NullTime {
	return NullTime{Set: true, Time: &t}
}

// ClearTime returns a NullTime that clears the field.
func ClearTime() NullTime {
	return NullTime{Set: true}
}

// TaskPatch is a partial update. Nil pointers and unset NullTimes are left
// unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	CategoryID  *string
	Priority    *Priority
	DueDate     NullTime
	Completed   *bool

	IsTimerActive      *bool
	TimerStartTime     NullTime
	TimerLastStartTime NullTime
	TimerTotalTime     *int64
	TimerCompletedAt   NullTime
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.CategoryID == nil &&
		p.Priority == nil && !p.DueDate.Set && p.Completed == nil &&
		p.IsTimerActive == nil && !p.TimerStartTime.Set &&
		!p.TimerLastStartTime.Set && p.TimerTotalTime == nil &&
		!p.TimerCompletedAt.Set
}

// TouchesTimer reports whether the patch writes any timer field.
func (p TaskPatch) TouchesTimer() bool {
	return p.IsTimerActive != nil || p.TimerStartTime.Set ||
		p.TimerLastStartTime.Set || p.TimerTotalTime != nil ||
		p.TimerCompletedAt.Set
}

// Apply merges the patch into the task and stamps UpdatedAt with now.
// Changing Completed also sets or clears CompletedAt.
func (p TaskPatch) Apply(t *Task, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.CategoryID != nil {
		t.CategoryID = *p.CategoryID
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate.Set {
		t.DueDate = cloneTime(p.DueDate.Time)
	}
	if p.Completed != nil && *p.Completed != t.Completed {
		t.Completed = *p.Completed
		if t.Completed {
			t.CompletedAt = TimePtr(now)
		} else {
			t.CompletedAt = nil
		}
	}

	if p.IsTimerActive != nil {
		t.IsTimerActive = *p.IsTimerActive
	}
	if p.TimerStartTime.Set {
		t.TimerStartTime = cloneTime(p.TimerStartTime.Time)
	}
	if p.TimerLastStartTime.Set {
		t.TimerLastStartTime = cloneTime(p.TimerLastStartTime.Time)
	}
	if p.TimerTotalTime != nil {
		t.TimerTotalTime = *p.TimerTotalTime
	}
	if p.TimerCompletedAt.Set {
		t.TimerCompletedAt = cloneTime(p.TimerCompletedAt.Time)
	}

	t.UpdatedAt = now
}
