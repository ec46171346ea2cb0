package timer

import (
	"fmt"
	"time"

	"taskflow/internal/domain"
)

// SegmentSeconds returns the whole seconds elapsed in the running segment of
// t at now. Inactive timers and clock skew yield 0.
func SegmentSeconds(t domain.Task, now time.Time) int64 {
	if !t.IsTimerActive {
		return 0
	}
	last := t.TimerLastStartTime
	if last == nil {
		last = t.TimerStartTime
	}
	if last == nil {
		return 0
	}
	d := now.Sub(*last)
	if d <= 0 {
		return 0
	}
	return int64(d / time.Second)
}

// Elapsed returns the total tracked seconds of t at now: completed segments
// plus the running one.
func Elapsed(t domain.Task, now time.Time) int64 {
	return t.TimerTotalTime + SegmentSeconds(t, now)
}

// FormatElapsed renders seconds as H:MM:SS from one hour upwards and M:SS
// below that.
func FormatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// ComputeDisplay formats the elapsed time of t at now. It reports false when
// the task has never tracked any time and is not running.
func ComputeDisplay(t domain.Task, now time.Time) (string, bool) {
	total := Elapsed(t, now)
	if total == 0 && !t.IsTimerActive {
		return "", false
	}
	return FormatElapsed(total), true
}

// HumanDuration formats seconds as a short "1h 5m" style summary.
func HumanDuration(seconds int64) string {
	if seconds <= 0 {
		return "0m"
	}
	d := time.Duration(seconds) * time.Second
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%ds", seconds)
}
