package timer

import (
	"testing"
	"time"

	"taskflow/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		seconds  int64
		expected string
	}{
		{0, "0:00"},
		{9, "0:09"},
		{59, "0:59"},
		{60, "1:00"},
		{65, "1:05"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3661, "1:01:01"},
		{36061, "10:01:01"},
		{-5, "0:00"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatElapsed(tt.seconds))
		})
	}
}

func TestComputeDisplay(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		task     domain.Task
		now      time.Time
		expected string
		ok       bool
	}{
		{
			name: "never tracked",
			task: domain.Task{},
			now:  t0,
			ok:   false,
		},
		{
			name:     "an hour at rest",
			task:     domain.Task{TimerTotalTime: 3600},
			now:      t0,
			expected: "1:00:00",
			ok:       true,
		},
		{
			name:     "just started",
			task:     domain.Task{IsTimerActive: true, TimerStartTime: &t0, TimerLastStartTime: &t0},
			now:      t0,
			expected: "0:00",
			ok:       true,
		},
		{
			name:     "running segment is added to the total",
			task:     domain.Task{IsTimerActive: true, TimerTotalTime: 100, TimerLastStartTime: &t0},
			now:      t0.Add(65 * time.Second),
			expected: "2:45",
			ok:       true,
		},
		{
			name:     "fractions of a second are floored",
			task:     domain.Task{IsTimerActive: true, TimerLastStartTime: &t0},
			now:      t0.Add(59*time.Second + 999*time.Millisecond),
			expected: "0:59",
			ok:       true,
		},
		{
			name:     "clock behind last start counts as zero",
			task:     domain.Task{IsTimerActive: true, TimerTotalTime: 10, TimerLastStartTime: &t0},
			now:      t0.Add(-time.Minute),
			expected: "0:10",
			ok:       true,
		},
		{
			name:     "falls back to start time",
			task:     domain.Task{IsTimerActive: true, TimerStartTime: &t0},
			now:      t0.Add(time.Hour),
			expected: "1:00:00",
			ok:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ComputeDisplay(tt.task, tt.now)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestComputeDisplay_IsPure(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	task := domain.Task{IsTimerActive: true, TimerTotalTime: 42, TimerLastStartTime: &t0}
	now := t0.Add(17*time.Minute + 300*time.Millisecond)

	first, ok1 := ComputeDisplay(task, now)
	second, ok2 := ComputeDisplay(task, now)

	assert.Equal(t, first, second)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, int64(42), task.TimerTotalTime)
}

func TestElapsed(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	paused := domain.Task{TimerTotalTime: 30, TimerLastStartTime: &t0}
	assert.Equal(t, int64(30), Elapsed(paused, t0.Add(time.Hour)))

	running := domain.Task{IsTimerActive: true, TimerTotalTime: 30, TimerLastStartTime: &t0}
	assert.Equal(t, int64(90), Elapsed(running, t0.Add(time.Minute)))
}

func TestHumanDuration(t *testing.T) {
	assert.Equal(t, "0m", HumanDuration(0))
	assert.Equal(t, "45s", HumanDuration(45))
	assert.Equal(t, "5m", HumanDuration(300))
	assert.Equal(t, "1h 5m", HumanDuration(3900))
	assert.Equal(t, "26h 0m", HumanDuration(26*3600))
}
