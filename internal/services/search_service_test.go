package services

import (
	"context"
	"testing"
	"time"

	"taskflow/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taskTitles(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestSortTasks(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	d1 := base.AddDate(0, 0, 1)
	d2 := base.AddDate(0, 0, 2)

	fresh := func() []domain.Task {
		return []domain.Task{
			{ID: "1", Title: "banana", Priority: domain.PriorityLow, DueDate: &d1, CreatedAt: base},
			{ID: "2", Title: "Apple", Priority: domain.PriorityUrgent, CreatedAt: base.Add(time.Hour)},
			{ID: "3", Title: "cherry", Priority: domain.PriorityHigh, DueDate: &d2, CreatedAt: base.Add(2 * time.Hour)},
			{ID: "4", Title: "date", Priority: domain.PriorityUrgent, Completed: true, DueDate: &d1, CreatedAt: base.Add(3 * time.Hour)},
			{ID: "5", Title: "elder", Priority: domain.PriorityHigh, DueDate: &d1, CreatedAt: base.Add(4 * time.Hour)},
		}
	}

	tests := []struct {
		order    domain.SortOrder
		expected []string
	}{
		{domain.SortPriority, []string{"Apple", "elder", "cherry", "banana", "date"}},
		{"", []string{"Apple", "elder", "cherry", "banana", "date"}},
		{domain.SortDue, []string{"elder", "banana", "date", "cherry", "Apple"}},
		{domain.SortTitle, []string{"Apple", "banana", "cherry", "date", "elder"}},
		{domain.SortCreated, []string{"elder", "date", "cherry", "Apple", "banana"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			tasks := fresh()
			SortTasks(tasks, tt.order)
			assert.Equal(t, tt.expected, taskTitles(tasks))
		})
	}
}

func TestSearchService_SearchTasks(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	tasks := NewTaskService(s, nil, fixedClock)
	search := NewSearchService(s, fixedClock)

	work, err := s.CreateCategory(ctx, &domain.Category{Name: "Work"})
	require.NoError(t, err)

	tomorrow := fixedNow.AddDate(0, 0, 1)
	_, err = tasks.CreateTask(ctx, CreateTaskInput{Title: "Write quarterly report", CategoryID: work.ID, Priority: domain.PriorityHigh})
	require.NoError(t, err)
	_, err = tasks.CreateTask(ctx, CreateTaskInput{Title: "Buy milk", Description: "and a report binder"})
	require.NoError(t, err)
	_, err = tasks.CreateTask(ctx, CreateTaskInput{Title: "Plan offsite", CategoryID: work.ID, DueDate: &tomorrow})
	require.NoError(t, err)
	done, err := tasks.CreateTask(ctx, CreateTaskInput{Title: "Old report", CategoryID: work.ID})
	require.NoError(t, err)
	_, err = tasks.SetCompleted(ctx, done.ID, true)
	require.NoError(t, err)

	tests := []struct {
		name     string
		opts     domain.SearchOptions
		expected []string
	}{
		{
			name:     "text matches title and description",
			opts:     domain.SearchOptions{Text: "REPORT", Sort: domain.SortTitle},
			expected: []string{"Buy milk", "Write quarterly report"},
		},
		{
			name:     "including completed",
			opts:     domain.SearchOptions{Text: "report", IncludeCompleted: true, Sort: domain.SortTitle},
			expected: []string{"Buy milk", "Old report", "Write quarterly report"},
		},
		{
			name:     "category filter",
			opts:     domain.SearchOptions{CategoryID: work.ID},
			expected: []string{"Write quarterly report", "Plan offsite"},
		},
		{
			name:     "view filter",
			opts:     domain.SearchOptions{View: domain.ViewUpcoming},
			expected: []string{"Plan offsite"},
		},
		{
			name:     "no match",
			opts:     domain.SearchOptions{Text: "zebra"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := search.SearchTasks(ctx, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, taskTitles(result))
		})
	}
}
