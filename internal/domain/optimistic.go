package domain

import (
	"errors"
	"sync"
)

// OptimisticState is the lifecycle of an optimistically applied change.
type OptimisticState int

const (
	OptimisticPending OptimisticState = iota
	OptimisticConfirmed
	OptimisticReverted
)

func (s OptimisticState) String() string {
	switch s {
	case OptimisticPending:
		return "pending"
	case OptimisticConfirmed:
		return "confirmed"
	case OptimisticReverted:
		return "reverted"
	default:
		return "unknown"
	}
}

// ErrSettled is returned when settling a change that already settled.
var ErrSettled = errors.New("optimistic change already settled")

// Optimistic holds a value shown to the user before the store confirms it.
// It moves pending -> confirmed or pending -> reverted exactly once.
type Optimistic[T any] struct {
	mu       sync.Mutex
	previous T
	current  T
	state    OptimisticState
	err      error
}

// NewOptimistic starts a pending change from previous to proposed.
func NewOptimistic[T any](previous, proposed T) *Optimistic[T] {
	return &Optimistic[T]{
		previous: previous,
		current:  proposed,
		state:    OptimisticPending,
	}
}

// Value returns what should be displayed right now.
func (o *Optimistic[T]) Value() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// State returns the current lifecycle state.
func (o *Optimistic[T]) State() OptimisticState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Err returns the failure that caused a revert, if any.
func (o *Optimistic[T]) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// Confirm replaces the proposed value with what the store returned.
func (o *Optimistic[T]) Confirm(actual T) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != OptimisticPending {
		return ErrSettled
	}
	o.current = actual
	o.state = OptimisticConfirmed
	return nil
}

// Revert restores the previous value after a failed store write.
func (o *Optimistic[T]) Revert(cause error) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != OptimisticPending {
		return ErrSettled
	}
	o.current = o.previous
	o.state = OptimisticReverted
	o.err = cause
	return nil
}

// Settle confirms with actual when err is nil and reverts otherwise. It
// returns the value to display afterwards.
func (o *Optimistic[T]) Settle(actual T, err error) T {
	if err != nil {
		_ = o.Revert(err)
	} else {
		_ = o.Confirm(actual)
	}
	return o.Value()
}
