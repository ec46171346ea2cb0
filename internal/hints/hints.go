// Package hints keeps a local, non-authoritative record of running timers so
// a timer left running across a restart can be detected. The task store is
// always the source of truth; hints are only compared against it.
package hints

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Hint is the local shadow of a running timer.
type Hint struct {
	TaskID    string
	StartTime time.Time
	IsActive  bool
	Timestamp time.Time
}

// Store persists hints keyed by task id.
type Store interface {
	Save(ctx context.Context, h Hint) error
	Remove(ctx context.Context, taskID string) error
	List(ctx context.Context) ([]Hint, error)
	Close() error
}

// MemoryStore is an in-process hint store.
type MemoryStore struct {
	mu    sync.Mutex
	hints map[string]Hint
}

// NewMemoryStore returns an empty in-memory hint store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{hints: make(map[string]Hint)}
}

func (m *MemoryStore) Save(_ context.Context, h Hint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hints[h.TaskID] = h
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.hints, taskID)
	return nil
}

// List returns hints ordered by task id.
func (m *MemoryStore) List(_ context.Context) ([]Hint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Hint, 0, len(m.hints))
	for _, h := range m.hints {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskID < out[j].TaskID })
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }

// Nop discards every hint. It is used when hints are disabled.
type Nop struct{}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = Nop{}
)

func (Nop) Save(context.Context, Hint) error { return nil }
func (Nop) Remove(context.Context, string) error { return nil }
func (Nop) List(context.Context) ([]Hint, error) { return nil, nil }
func (Nop) Close() error { return nil }
