package timer

import (
	"context"
	"time"

	"taskflow/internal/domain"
	"taskflow/internal/errors"
	"taskflow/internal/logging"
)

// LeftRunning is a timer that the hints show was running before the last
// shutdown and that the store confirms is still running.
type LeftRunning struct {
	Task      domain.Task
	HintStart time.Time
	Elapsed   int64
}

// RecoveryReport is the outcome of checking recovery hints against the store.
type RecoveryReport struct {
	LeftRunning []LeftRunning
	// Stale lists task ids whose hints were removed because the task is gone
	// or no longer running.
	Stale []string
}

// IsEmpty reports whether recovery found nothing.
func (r *RecoveryReport) IsEmpty() bool {
	return len(r.LeftRunning) == 0 && len(r.Stale) == 0
}

// Recover validates every hint against the task store. Hints are never
// trusted over the store and the store is never written. Unreadable hint
// storage yields an empty report.
func (e *Engine) Recover(ctx context.Context) (*RecoveryReport, error) {
	report := &RecoveryReport{}

	list, err := e.hints.List(ctx)
	if err != nil {
		logging.Warnf("could not read recovery hints: %v", err)
		return report, nil
	}

	now := e.now()
	for _, h := range list {
		task, err := e.loadOptional(ctx, h.TaskID)
		if err != nil {
			return nil, err
		}
		if task == nil || !task.IsTimerActive {
			report.Stale = append(report.Stale, h.TaskID)
			e.removeHint(ctx, h.TaskID)
			continue
		}
		report.LeftRunning = append(report.LeftRunning, LeftRunning{
			Task:      *task,
			HintStart: h.StartTime,
			Elapsed:   Elapsed(*task, now),
		})
	}

	logging.Debugf("recovery: %d running, %d stale", len(report.LeftRunning), len(report.Stale))
	return report, nil
}

func (e *Engine) loadOptional(ctx context.Context, id string) (*domain.Task, error) {
	sctx, cancel := e.storeContext(ctx)
	defer cancel()

	task, err := e.store.GetByID(sctx, id)
	if err != nil {
		return nil, errors.FromStore("get task", err)
	}
	return task, nil
}
