// Package timer owns the elapsed-time state of tasks. The Engine is the only
// writer of timer fields; the Aggregator derives a live display of running
// timers without writing anything.
package timer

import (
	"context"
	"time"

	"taskflow/internal/domain"
	"taskflow/internal/errors"
	"taskflow/internal/hints"
	"taskflow/internal/logging"
	"taskflow/internal/store"
)

// ResumePolicy decides whether a stopped timer may be resumed.
type ResumePolicy int

const (
	// ResumeAllow lets resume reopen a stopped timer, clearing its
	// completion stamp.
	ResumeAllow ResumePolicy = iota
	// ResumeReject refuses to resume a stopped timer; start must be used.
	ResumeReject
)

// ParseResumePolicy maps the config value to a policy.
func ParseResumePolicy(s string) (ResumePolicy, bool) {
	switch s {
	case "", "allow":
		return ResumeAllow, true
	case "reject":
		return ResumeReject, true
	default:
		return ResumeAllow, false
	}
}

const defaultStoreTimeout = 5 * time.Second

// Engine translates timer commands into task updates.
type Engine struct {
	store   store.TaskStore
	hints   hints.Store
	now     func() time.Time
	policy  ResumePolicy
	timeout time.Duration
	locks   *taskLocks
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used for every timestamp and elapsed calculation.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithResumePolicy sets how resume treats stopped timers.
func WithResumePolicy(p ResumePolicy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithStoreTimeout bounds each store round trip. Zero disables the bound.
func WithStoreTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// NewEngine creates an engine over the task store. A nil hint store disables
// recovery hints.
func NewEngine(ts store.TaskStore, hs hints.Store, opts ...Option) *Engine {
	if hs == nil {
		hs = hints.Nop{}
	}
	e := &Engine{
		store:   ts,
		hints:   hs,
		now:     time.Now,
		policy:  ResumeAllow,
		timeout: defaultStoreTimeout,
		locks:   newTaskLocks(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the engine clock's current time.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Start begins a new tracking session. Stopped timers may be restarted;
// accumulated time is kept.
func (e *Engine) Start(ctx context.Context, id string) (*domain.Task, error) {
	unlock := e.locks.lock(id)
	defer unlock()

	task, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.IsTimerActive {
		return nil, errors.NewTimerStateError(id, "timer already active")
	}

	now := e.now()
	active := true
	patch := domain.TaskPatch{
		IsTimerActive:      &active,
		TimerStartTime:     domain.SetTime(now),
		TimerLastStartTime: domain.SetTime(now),
	}
	if task.TimerCompletedAt != nil {
		patch.TimerCompletedAt = domain.ClearTime()
	}

	updated, err := e.update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	logging.Debugf("timer started for %s at %s", id, now.Format(time.RFC3339))
	e.saveHint(ctx, updated)
	return updated, nil
}

// Pause folds the running segment into the total and leaves the timer
// resumable.
func (e *Engine) Pause(ctx context.Context, id string) (*domain.Task, error) {
	return e.fold(ctx, id, false)
}

// Stop folds the running segment into the total and marks the timer as
// explicitly ended.
func (e *Engine) Stop(ctx context.Context, id string) (*domain.Task, error) {
	return e.fold(ctx, id, true)
}

func (e *Engine) fold(ctx context.Context, id string, stop bool) (*domain.Task, error) {
	unlock := e.locks.lock(id)
	defer unlock()

	task, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !task.IsTimerActive {
		return nil, errors.NewTimerStateError(id, "timer not active")
	}

	now := e.now()
	elapsed := SegmentSeconds(*task, now)
	total := task.TimerTotalTime + elapsed
	inactive := false
	patch := domain.TaskPatch{
		IsTimerActive:      &inactive,
		TimerTotalTime:     &total,
		TimerStartTime:     domain.ClearTime(),
		TimerLastStartTime: domain.ClearTime(),
	}
	if stop {
		patch.TimerCompletedAt = domain.SetTime(now)
	}

	updated, err := e.update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	logging.Debugf("timer %s for %s: +%ds, total %ds", verb(stop), id, elapsed, total)
	e.removeHint(ctx, id)
	return updated, nil
}

func verb(stop bool) string {
	if stop {
		return "stopped"
	}
	return "paused"
}

// Resume reactivates a timer at rest without touching the accumulated total.
// Resuming a running timer is a no-op.
func (e *Engine) Resume(ctx context.Context, id string) (*domain.Task, error) {
	unlock := e.locks.lock(id)
	defer unlock()

	task, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.IsTimerActive {
		return task, nil
	}
	if task.IsTimerStopped() && e.policy == ResumeReject {
		return nil, errors.NewTimerStateError(id, "timer was stopped")
	}

	now := e.now()
	active := true
	patch := domain.TaskPatch{
		IsTimerActive:      &active,
		TimerLastStartTime: domain.SetTime(now),
	}
	if task.TimerStartTime == nil {
		patch.TimerStartTime = domain.SetTime(now)
	}
	if task.TimerCompletedAt != nil {
		patch.TimerCompletedAt = domain.ClearTime()
	}

	updated, err := e.update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	logging.Debugf("timer resumed for %s with %ds tracked", id, updated.TimerTotalTime)
	e.saveHint(ctx, updated)
	return updated, nil
}

// ActiveTimers lists every task whose timer is running.
func (e *Engine) ActiveTimers(ctx context.Context) ([]domain.ActiveTimer, error) {
	sctx, cancel := e.storeContext(ctx)
	defer cancel()

	tasks, err := e.store.GetAll(sctx)
	if err != nil {
		return nil, errors.FromStore("list active timers", err)
	}

	timers := make([]domain.ActiveTimer, 0)
	for _, t := range tasks {
		if t.IsTimerActive {
			timers = append(timers, domain.ActiveTimerOf(t))
		}
	}
	return timers, nil
}

// Display formats the task's elapsed time at the engine clock.
func (e *Engine) Display(t domain.Task) (string, bool) {
	return ComputeDisplay(t, e.now())
}

func (e *Engine) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.timeout)
}

func (e *Engine) load(ctx context.Context, id string) (*domain.Task, error) {
	sctx, cancel := e.storeContext(ctx)
	defer cancel()

	task, err := e.store.GetByID(sctx, id)
	if err != nil {
		return nil, errors.FromStore("get task", err)
	}
	if task == nil {
		return nil, errors.NewNotFoundError("task", id)
	}
	return task, nil
}

func (e *Engine) update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	sctx, cancel := e.storeContext(ctx)
	defer cancel()

	task, err := e.store.Update(sctx, id, patch)
	if err != nil {
		return nil, errors.FromStore("update task", err)
	}
	return task, nil
}

func (e *Engine) saveHint(ctx context.Context, t *domain.Task) {
	h := hints.Hint{
		TaskID:    t.ID,
		IsActive:  t.IsTimerActive,
		Timestamp: e.now(),
	}
	if t.TimerStartTime != nil {
		h.StartTime = *t.TimerStartTime
	}
	if err := e.hints.Save(ctx, h); err != nil {
		logging.Warnf("could not save recovery hint for %s: %v", t.ID, err)
	}
}

func (e *Engine) removeHint(ctx context.Context, id string) {
	if err := e.hints.Remove(ctx, id); err != nil {
		logging.Warnf("could not remove recovery hint for %s: %v", id, err)
	}
}
