package services

import (
	"context"
	"testing"
	"time"

	"taskflow/internal/domain"
	"taskflow/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportingService_GetSummary(t *testing.T) {
	s := memory.New(memory.WithClock(fixedClock))
	ctx := context.Background()
	reporting := NewReportingService(s, fixedClock)

	work, err := s.CreateCategory(ctx, &domain.Category{Name: "Work"})
	require.NoError(t, err)
	home, err := s.CreateCategory(ctx, &domain.Category{Name: "Home"})
	require.NoError(t, err)

	yesterday := fixedNow.AddDate(0, 0, -1)
	today := domain.StartOfDay(fixedNow, fixedNow.Location())
	started := fixedNow.Add(-10 * time.Minute)

	seed := []domain.Task{
		{Title: "overdue", CategoryID: work.ID, DueDate: &yesterday, TimerTotalTime: 600},
		{Title: "due today", CategoryID: work.ID, DueDate: &today},
		{Title: "running", CategoryID: home.ID, IsTimerActive: true, TimerStartTime: &started, TimerLastStartTime: &started, TimerTotalTime: 60},
		{Title: "done", Completed: true, TimerTotalTime: 30},
	}
	for i := range seed {
		_, err := s.Create(ctx, &seed[i])
		require.NoError(t, err)
	}

	summary, err := reporting.GetSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 1, summary.Completed)
	assert.Equal(t, 3, summary.Open)
	assert.Equal(t, 1, summary.Overdue)
	assert.Equal(t, 1, summary.DueToday)
	assert.Equal(t, 1, summary.ActiveTimers)
	assert.Equal(t, int64(600+60+600+30), summary.TrackedSeconds)

	require.Len(t, summary.ByCategory, 3)
	assert.Equal(t, "Work", summary.ByCategory[0].Name)
	assert.Equal(t, 2, summary.ByCategory[0].Tasks)
	assert.Equal(t, int64(600), summary.ByCategory[0].TrackedSeconds)
	assert.Equal(t, "Home", summary.ByCategory[1].Name)
	assert.Equal(t, int64(660), summary.ByCategory[1].TrackedSeconds)
	assert.Equal(t, uncategorizedName, summary.ByCategory[2].Name)
	assert.Equal(t, 1, summary.ByCategory[2].Completed)
}

func TestReportingService_EmptyStore(t *testing.T) {
	reporting := NewReportingService(memory.New(), fixedClock)

	summary, err := reporting.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
	assert.Empty(t, summary.ByCategory)
}
