package timer

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"taskflow/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu     sync.Mutex
	timers []domain.ActiveTimer
	err    error
	calls  int

	// when set, the query result is taken and then held until release
	entered chan struct{}
	release chan struct{}
}

func (f *fakeSource) ActiveTimers(context.Context) ([]domain.ActiveTimer, error) {
	f.mu.Lock()
	f.calls++
	timers, err := append([]domain.ActiveTimer(nil), f.timers...), f.err
	entered, release := f.entered, f.release
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
		<-release
	}
	if err != nil {
		return nil, err
	}
	return timers, nil
}

func (f *fakeSource) set(timers []domain.ActiveTimer, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timers = timers
	f.err = err
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestAggregator_EmptySnapshotIsNil(t *testing.T) {
	agg := NewAggregator(&fakeSource{})
	require.NoError(t, agg.Refresh(context.Background()))
	agg.Tick(time.Now())

	assert.Nil(t, agg.Snapshot())
}

func TestAggregator_SnapshotMatchesComputeDisplay(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	src := &fakeSource{timers: []domain.ActiveTimer{
		{ID: "a", Title: "alpha", StartTime: t0, LastStartTime: t0, TotalTime: 3590, IsActive: true},
		{ID: "b", Title: "beta", StartTime: t0, LastStartTime: t0.Add(30 * time.Second), IsActive: true},
	}}
	agg := NewAggregator(src)
	require.NoError(t, agg.Refresh(context.Background()))

	tickAt := t0.Add(75*time.Second + 400*time.Millisecond)
	agg.Tick(tickAt)

	snap := agg.Snapshot()
	require.NotNil(t, snap)
	assert.True(t, snap.At.Equal(tickAt))
	require.Len(t, snap.Rows, 2)

	for _, row := range snap.Rows {
		want, ok := ComputeDisplay(row.Timer.Task(), tickAt)
		require.True(t, ok)
		assert.Equal(t, want, row.Elapsed)
	}
	assert.Equal(t, "1:01:05", snap.Rows[0].Elapsed)
	assert.Equal(t, "0:45", snap.Rows[1].Elapsed)
	assert.Equal(t, int64(3665+45), snap.TotalSeconds())
}

func TestAggregator_TickDoesNotQuerySource(t *testing.T) {
	src := &fakeSource{timers: []domain.ActiveTimer{{ID: "a", IsActive: true, LastStartTime: time.Now()}}}
	agg := NewAggregator(src)
	require.NoError(t, agg.Refresh(context.Background()))

	for i := 0; i < 10; i++ {
		agg.Tick(time.Now().Add(time.Duration(i) * time.Second))
		_ = agg.Snapshot()
	}
	assert.Equal(t, 1, src.callCount())
}

func TestAggregator_RefreshFailureKeepsPreviousSet(t *testing.T) {
	t0 := time.Now()
	src := &fakeSource{timers: []domain.ActiveTimer{{ID: "a", IsActive: true, LastStartTime: t0}}}
	agg := NewAggregator(src)
	require.NoError(t, agg.Refresh(context.Background()))

	boom := stderrors.New("store down")
	src.set(nil, boom)

	err := agg.Refresh(context.Background())
	assert.ErrorIs(t, err, boom)

	agg.Tick(t0)
	snap := agg.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, "a", snap.Rows[0].Timer.ID)
}

func TestAggregator_Apply(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	src := &fakeSource{timers: []domain.ActiveTimer{{ID: "a", IsActive: true, LastStartTime: t0}}}
	agg := NewAggregator(src)
	require.NoError(t, agg.Refresh(context.Background()))
	agg.Tick(t0)

	agg.Apply(domain.Task{ID: "b", IsTimerActive: true, TimerStartTime: &t0, TimerLastStartTime: &t0})
	require.Len(t, agg.Snapshot().Rows, 2)

	agg.Apply(domain.Task{ID: "a", TimerTotalTime: 10})
	snap := agg.Snapshot()
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, "b", snap.Rows[0].Timer.ID)

	agg.Apply(domain.Task{ID: "b"})
	assert.Nil(t, agg.Snapshot())
}

func TestAggregator_RefreshOlderThanApplyIsDropped(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	src := &fakeSource{timers: []domain.ActiveTimer{{ID: "a", Title: "alpha", IsActive: true, LastStartTime: t0}}}
	agg := NewAggregator(src)
	require.NoError(t, agg.Refresh(context.Background()))
	agg.Tick(t0)

	src.mu.Lock()
	src.entered = make(chan struct{})
	src.release = make(chan struct{})
	src.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- agg.Refresh(context.Background()) }()
	<-src.entered

	// paused locally while the query is in flight
	agg.Apply(domain.Task{ID: "a", TimerTotalTime: 30})
	close(src.release)
	require.NoError(t, <-done)
	assert.Nil(t, agg.Snapshot())

	src.mu.Lock()
	src.entered = nil
	src.mu.Unlock()

	// a refresh that starts after the change is accepted
	require.NoError(t, agg.Refresh(context.Background()))
	require.NotNil(t, agg.Snapshot())
	assert.Equal(t, 3, src.callCount())
}

func TestAggregator_WithEngine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	task := f.createTask(t, domain.Task{})

	agg := NewAggregator(f.engine)
	require.NoError(t, agg.Refresh(ctx))
	assert.Nil(t, agg.Snapshot())

	started, err := f.engine.Start(ctx, task.ID)
	require.NoError(t, err)
	require.NoError(t, agg.Refresh(ctx))

	f.clock.Advance(65 * time.Second)
	agg.Tick(f.clock.Now())

	snap := agg.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, "1:05", snap.Rows[0].Elapsed)

	// the value shown on the last tick is what pause folds in
	paused, err := f.engine.Pause(ctx, started.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.Rows[0].Seconds, paused.TimerTotalTime)
}
