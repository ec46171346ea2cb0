package timer

import (
	"context"
	"sync"
	"time"

	"taskflow/internal/domain"
	"taskflow/internal/logging"
)

const (
	DefaultTickInterval    = time.Second
	DefaultRefreshInterval = 5 * time.Second
)

// ActiveTimerSource lists running timers. *Engine satisfies it.
type ActiveTimerSource interface {
	ActiveTimers(ctx context.Context) ([]domain.ActiveTimer, error)
}

// Row is one running timer with its elapsed time at the snapshot instant.
type Row struct {
	Timer   domain.ActiveTimer
	Seconds int64
	Elapsed string
}

// Snapshot is the display state at one tick.
type Snapshot struct {
	At   time.Time
	Rows []Row
}

// TotalSeconds sums the elapsed time across all rows.
func (s *Snapshot) TotalSeconds() int64 {
	var total int64
	for _, r := range s.Rows {
		total += r.Seconds
	}
	return total
}

// Aggregator keeps a live view of running timers. The display clock moves on
// every tick while the set of timers is re-queried on the slower refresh
// interval and after each local change.
type Aggregator struct {
	source  ActiveTimerSource
	tick    time.Duration
	refresh time.Duration

	mu     sync.Mutex
	timers []domain.ActiveTimer
	at     time.Time
	// generation counts Apply calls. A refresh whose query started in an
	// older generation is discarded.
	generation uint64
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithTickInterval sets how often the display clock advances.
func WithTickInterval(d time.Duration) AggregatorOption {
	return func(a *Aggregator) { a.tick = d }
}

// WithRefreshInterval sets how often the active set is re-queried.
func WithRefreshInterval(d time.Duration) AggregatorOption {
	return func(a *Aggregator) { a.refresh = d }
}

// NewAggregator creates an aggregator reading from source.
func NewAggregator(source ActiveTimerSource, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		source:  source,
		tick:    DefaultTickInterval,
		refresh: DefaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// TickInterval returns how often the display clock should advance.
func (a *Aggregator) TickInterval() time.Duration {
	return a.tick
}

// RefreshInterval returns how often the active set should be re-queried.
func (a *Aggregator) RefreshInterval() time.Duration {
	return a.refresh
}

// Refresh re-queries the running timers. On failure the previous set is kept
// and the error returned. A result that was queried before the latest Apply
// is dropped, since it may predate that change.
func (a *Aggregator) Refresh(ctx context.Context) error {
	a.mu.Lock()
	generation := a.generation
	a.mu.Unlock()

	timers, err := a.source.ActiveTimers(ctx)
	if err != nil {
		logging.Warnf("could not refresh active timers: %v", err)
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.generation != generation {
		logging.Debugf("dropping active timers queried before a local change")
		return nil
	}
	a.timers = timers
	return nil
}

// Tick moves the display clock to now. It never touches the store.
func (a *Aggregator) Tick(now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.at = now
}

// Apply replaces one timer in the current set without a store round trip.
// A task that is no longer running is removed.
func (a *Aggregator) Apply(t domain.Task) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.generation++

	out := a.timers[:0:0]
	replaced := false
	for _, at := range a.timers {
		if at.ID != t.ID {
			out = append(out, at)
			continue
		}
		replaced = true
		if t.IsTimerActive {
			out = append(out, domain.ActiveTimerOf(t))
		}
	}
	if !replaced && t.IsTimerActive {
		out = append(out, domain.ActiveTimerOf(t))
	}
	a.timers = out
}

// Snapshot returns the display rows at the last tick, or nil when nothing is
// running.
func (a *Aggregator) Snapshot() *Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.timers) == 0 {
		return nil
	}

	snap := &Snapshot{At: a.at, Rows: make([]Row, 0, len(a.timers))}
	for _, at := range a.timers {
		task := at.Task()
		elapsed, _ := ComputeDisplay(task, a.at)
		snap.Rows = append(snap.Rows, Row{
			Timer:   at,
			Seconds: Elapsed(task, a.at),
			Elapsed: elapsed,
		})
	}
	return snap
}
