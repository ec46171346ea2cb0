package domain

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected Task
	}{
		{
			name:     "creates task with title",
			title:    "Write report",
			expected: Task{Title: "Write report", Priority: PriorityMedium},
		},
		{
			name:     "creates task with empty title",
			title:    "",
			expected: Task{Title: "", Priority: PriorityMedium},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewTask(tt.title))
		})
	}
}

func TestTask_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		task     Task
		expected bool
	}{
		{name: "valid task", task: Task{Title: "Valid"}, expected: true},
		{name: "empty title", task: Task{Title: ""}, expected: false},
		{name: "whitespace title", task: Task{Title: "   "}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.task.IsValid())
		})
	}
}

func TestTask_TimerHelpers(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	assert.False(t, Task{}.HasTimer())
	assert.True(t, Task{IsTimerActive: true}.HasTimer())
	assert.True(t, Task{TimerTotalTime: 1}.HasTimer())

	assert.False(t, Task{}.IsTimerStopped())
	assert.True(t, Task{TimerCompletedAt: &now}.IsTimerStopped())
	assert.False(t, Task{IsTimerActive: true, TimerCompletedAt: &now}.IsTimerStopped())
}

func TestTask_ShortID(t *testing.T) {
	assert.Equal(t, "0190a7b2", Task{ID: "0190a7b2-1111-7000-8000-000000000000"}.ShortID())
	assert.Equal(t, "abc", Task{ID: "abc"}.ShortID())
}

func TestTask_Clone(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	original := Task{ID: "1", TimerStartTime: &start}

	clone := original.Clone()
	*clone.TimerStartTime = start.Add(time.Hour)

	assert.Equal(t, start, *original.TimerStartTime)
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input    string
		expected Priority
		ok       bool
	}{
		{"", PriorityMedium, true},
		{"low", PriorityLow, true},
		{"HIGH", PriorityHigh, true},
		{" urgent ", PriorityUrgent, true},
		{"critical", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, ok := ParsePriority(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestPriority_Rank(t *testing.T) {
	assert.Less(t, PriorityLow.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityMedium.Rank(), PriorityHigh.Rank())
	assert.Less(t, PriorityHigh.Rank(), PriorityUrgent.Rank())
	assert.Equal(t, PriorityMedium.Rank(), Priority("bogus").Rank())
}

func TestTaskPatch_Apply(t *testing.T) {
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	now := created.Add(time.Hour)

	t.Run("applies only set fields", func(t *testing.T) {
		task := Task{ID: "1", Title: "Old", Description: "keep", Priority: PriorityLow, CreatedAt: created}
		title := "New"
		TaskPatch{Title: &title}.Apply(&task, now)

		assert.Equal(t, "New", task.Title)
		assert.Equal(t, "keep", task.Description)
		assert.Equal(t, PriorityLow, task.Priority)
		assert.Equal(t, now, task.UpdatedAt)
	})

	t.Run("completing stamps CompletedAt and undoing clears it", func(t *testing.T) {
		task := Task{ID: "1"}
		done := true
		TaskPatch{Completed: &done}.Apply(&task, now)
		require.NotNil(t, task.CompletedAt)
		assert.Equal(t, now, *task.CompletedAt)

		undone := false
		TaskPatch{Completed: &undone}.Apply(&task, now.Add(time.Minute))
		assert.False(t, task.Completed)
		assert.Nil(t, task.CompletedAt)
	})

	t.Run("re-completing keeps original CompletedAt", func(t *testing.T) {
		task := Task{ID: "1", Completed: true, CompletedAt: &created}
		done := true
		TaskPatch{Completed: &done}.Apply(&task, now)
		assert.Equal(t, created, *task.CompletedAt)
	})

	t.Run("null time distinguishes unchanged from cleared", func(t *testing.T) {
		task := Task{ID: "1", DueDate: &created, TimerStartTime: &created}
		TaskPatch{TimerStartTime: ClearTime()}.Apply(&task, now)

		assert.Nil(t, task.TimerStartTime)
		require.NotNil(t, task.DueDate)
		assert.Equal(t, created, *task.DueDate)
	})

	t.Run("timer fields", func(t *testing.T) {
		task := Task{ID: "1"}
		active := true
		total := int64(42)
		TaskPatch{
			IsTimerActive:      &active,
			TimerStartTime:     SetTime(created),
			TimerLastStartTime: SetTime(now),
			TimerTotalTime:     &total,
		}.Apply(&task, now)

		assert.True(t, task.IsTimerActive)
		assert.Equal(t, created, *task.TimerStartTime)
		assert.Equal(t, now, *task.TimerLastStartTime)
		assert.Equal(t, int64(42), task.TimerTotalTime)
	})
}

func TestTaskPatch_Predicates(t *testing.T) {
	assert.True(t, TaskPatch{}.IsEmpty())
	assert.False(t, TaskPatch{DueDate: ClearTime()}.IsEmpty())

	title := "x"
	assert.False(t, TaskPatch{Title: &title}.TouchesTimer())
	assert.True(t, TaskPatch{TimerCompletedAt: ClearTime()}.TouchesTimer())
}

func TestView_Matches(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, loc)
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)
	nextWeek := today.AddDate(0, 0, 7)

	tests := []struct {
		name     string
		task     Task
		today    bool
		upcoming bool
	}{
		{name: "due today", task: Task{DueDate: &today}, today: true},
		{name: "due today and completed", task: Task{DueDate: &today, Completed: true}, today: true},
		{name: "undated open", task: Task{}, today: true},
		{name: "undated completed", task: Task{Completed: true}},
		{name: "overdue", task: Task{DueDate: &yesterday}},
		{name: "due tomorrow", task: Task{DueDate: &tomorrow}, upcoming: true},
		{name: "due next week", task: Task{DueDate: &nextWeek}, upcoming: true},
		{name: "due tomorrow completed", task: Task{DueDate: &tomorrow, Completed: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.today, ViewToday.Matches(tt.task, now), "today")
			assert.Equal(t, tt.upcoming, ViewUpcoming.Matches(tt.task, now), "upcoming")
			assert.True(t, ViewAll.Matches(tt.task, now), "all")
		})
	}
}

func TestParseView(t *testing.T) {
	v, ok := ParseView("")
	assert.True(t, ok)
	assert.Equal(t, ViewToday, v)

	v, ok = ParseView("Upcoming")
	assert.True(t, ok)
	assert.Equal(t, ViewUpcoming, v)

	_, ok = ParseView("someday")
	assert.False(t, ok)
}

func TestSearchOptions_MatchesText(t *testing.T) {
	task := Task{Title: "Write Report", Description: "quarterly numbers"}

	assert.True(t, SearchOptions{}.MatchesText(task))
	assert.True(t, SearchOptions{Text: "report"}.MatchesText(task))
	assert.True(t, SearchOptions{Text: "QUARTERLY"}.MatchesText(task))
	assert.False(t, SearchOptions{Text: "invoice"}.MatchesText(task))
}

func TestActiveTimerOf(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	last := start.Add(30 * time.Minute)

	at := ActiveTimerOf(Task{
		ID: "1", Title: "Focus", IsTimerActive: true,
		TimerStartTime: &start, TimerLastStartTime: &last, TimerTotalTime: 600,
	})
	assert.Equal(t, ActiveTimer{ID: "1", Title: "Focus", StartTime: start, LastStartTime: last, TotalTime: 600, IsActive: true}, at)

	back := at.Task()
	assert.Equal(t, last, *back.TimerLastStartTime)
	assert.Equal(t, int64(600), back.TimerTotalTime)

	// missing last start falls back to the start time
	at = ActiveTimerOf(Task{ID: "2", IsTimerActive: true, TimerStartTime: &start})
	assert.Equal(t, start, at.LastStartTime)
}

func TestNewCategory(t *testing.T) {
	c := NewCategory("Work")
	assert.Equal(t, DefaultCategoryColor, c.Color)
	assert.Equal(t, DefaultCategoryIcon, c.Icon)

	name := "Home"
	CategoryPatch{Name: &name}.Apply(&c)
	assert.Equal(t, "Home", c.Name)
	assert.Equal(t, DefaultCategoryColor, c.Color)
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestOptimistic(t *testing.T) {
	t.Run("confirm replaces proposed with actual", func(t *testing.T) {
		o := NewOptimistic(false, true)
		assert.Equal(t, OptimisticPending, o.State())
		assert.True(t, o.Value())

		require.NoError(t, o.Confirm(true))
		assert.Equal(t, OptimisticConfirmed, o.State())
		assert.True(t, o.Value())
	})

	t.Run("revert restores previous", func(t *testing.T) {
		cause := errors.New("store down")
		o := NewOptimistic("old", "new")

		require.NoError(t, o.Revert(cause))
		assert.Equal(t, OptimisticReverted, o.State())
		assert.Equal(t, "old", o.Value())
		assert.Equal(t, cause, o.Err())
	})

	t.Run("settles only once", func(t *testing.T) {
		o := NewOptimistic(1, 2)
		require.NoError(t, o.Confirm(3))
		assert.ErrorIs(t, o.Revert(errors.New("late")), ErrSettled)
		assert.ErrorIs(t, o.Confirm(4), ErrSettled)
		assert.Equal(t, 3, o.Value())
	})

	t.Run("settle picks the branch from the error", func(t *testing.T) {
		assert.Equal(t, 5, NewOptimistic(1, 2).Settle(5, nil))
		assert.Equal(t, 1, NewOptimistic(1, 2).Settle(5, errors.New("boom")))
	})

	t.Run("concurrent settles leave one winner", func(t *testing.T) {
		o := NewOptimistic(0, 1)
		var wg sync.WaitGroup
		results := make(chan error, 2)
		wg.Add(2)
		go func() { defer wg.Done(); results <- o.Confirm(1) }()
		go func() { defer wg.Done(); results <- o.Revert(errors.New("x")) }()
		wg.Wait()
		close(results)

		var ok int
		for err := range results {
			if err == nil {
				ok++
			}
		}
		assert.Equal(t, 1, ok)
	})
}

func TestOptimisticState_String(t *testing.T) {
	assert.Equal(t, "pending", OptimisticPending.String())
	assert.Equal(t, "confirmed", OptimisticConfirmed.String())
	assert.Equal(t, "reverted", OptimisticReverted.String())
	assert.Equal(t, "unknown", OptimisticState(9).String())
}
