package timer

import "sync"

// taskLocks serializes commands per task id. Entries are dropped once no
// command holds or waits for them.
type taskLocks struct {
	mu    sync.Mutex
	locks map[string]*taskLock
}

type taskLock struct {
	mu   sync.Mutex
	refs int
}

func newTaskLocks() *taskLocks {
	return &taskLocks{locks: make(map[string]*taskLock)}
}

// lock blocks until id is free and returns the matching unlock.
func (l *taskLocks) lock(id string) func() {
	l.mu.Lock()
	tl, ok := l.locks[id]
	if !ok {
		tl = &taskLock{}
		l.locks[id] = tl
	}
	tl.refs++
	l.mu.Unlock()

	tl.mu.Lock()

	return func() {
		tl.mu.Unlock()

		l.mu.Lock()
		tl.refs--
		if tl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *taskLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
