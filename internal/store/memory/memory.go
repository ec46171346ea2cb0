// Package memory is an in-process task store. It stands in for a remote
// record API and can simulate network latency.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskflow/internal/domain"
	"taskflow/internal/errors"
	"taskflow/internal/store"
)

// Option configures a Store.
type Option func(*Store)

// WithLatency delays every call by d, honoring context cancellation.
func WithLatency(d time.Duration) Option {
	return func(s *Store) { s.latency = d }
}

// WithClock sets the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store keeps tasks and categories in maps guarded by a RWMutex.
type Store struct {
	mu         sync.RWMutex
	tasks      map[string]domain.Task
	categories map[string]domain.Category
	latency    time.Duration
	now        func() time.Time
	closed     bool
}

var _ store.Store = (*Store)(nil)

// New creates an empty memory store.
func New(opts ...Option) *Store {
	s := &Store{
		tasks:      make(map[string]domain.Task),
		categories: make(map[string]domain.Category),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) wait(ctx context.Context, op string) error {
	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return errors.FromStore(op, ctx.Err())
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return errors.FromStore(op, err)
	}
	if s.isClosed() {
		return errors.NewStoreUnavailableError(op, errors.ErrStoreClosed)
	}
	return nil
}

func (s *Store) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// GetAll returns every task, oldest first.
func (s *Store) GetAll(ctx context.Context) ([]domain.Task, error) {
	if err := s.wait(ctx, "list tasks"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t.Clone())
	}
	store.SortByCreated(tasks)
	return tasks, nil
}

// GetByID returns the task or nil when absent.
func (s *Store) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if err := s.wait(ctx, "get task"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	c := t.Clone()
	return &c, nil
}

// Create stores a new task.
func (s *Store) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if err := s.wait(ctx, "create task"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := store.PrepareNew(task, s.now())
	if _, exists := s.tasks[t.ID]; exists {
		return nil, errors.NewInvalidInputError("id", t.ID, "task already exists")
	}
	s.tasks[t.ID] = t
	c := t.Clone()
	return &c, nil
}

// Update applies the patch to an existing task.
func (s *Store) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if err := s.wait(ctx, "update task"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, errors.NewNotFoundError("task", id)
	}
	patch.Apply(&t, s.now())
	s.tasks[id] = t
	c := t.Clone()
	return &c, nil
}

// Delete removes a task.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.wait(ctx, "delete task"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return errors.NewNotFoundError("task", id)
	}
	delete(s.tasks, id)
	return nil
}

// GetByView returns the tasks in view as of now.
func (s *Store) GetByView(ctx context.Context, view domain.View, now time.Time) ([]domain.Task, error) {
	tasks, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return store.FilterByView(tasks, view, now), nil
}

// ListCategories returns categories in position order with task counts.
func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if err := s.wait(ctx, "list categories"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, t := range s.tasks {
		if t.CategoryID != "" {
			counts[t.CategoryID]++
		}
	}
	categories := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		c.TaskCount = counts[c.ID]
		categories = append(categories, c)
	}
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Position != categories[j].Position {
			return categories[i].Position < categories[j].Position
		}
		return categories[i].ID < categories[j].ID
	})
	return categories, nil
}

// GetCategory returns the category or nil when absent.
func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	if err := s.wait(ctx, "get category"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// CreateCategory appends a category after the existing ones.
func (s *Store) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := s.wait(ctx, "create category"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	last := 0
	for _, existing := range s.categories {
		if existing.Position > last {
			last = existing.Position
		}
	}
	c := store.PrepareNewCategory(category, last)
	s.categories[c.ID] = c
	return &c, nil
}

// UpdateCategory applies the patch to an existing category.
func (s *Store) UpdateCategory(ctx context.Context, id string, patch domain.CategoryPatch) (*domain.Category, error) {
	if err := s.wait(ctx, "update category"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, errors.NewNotFoundError("category", id)
	}
	patch.Apply(&c)
	s.categories[id] = c
	return &c, nil
}

// DeleteCategory removes a category.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	if err := s.wait(ctx, "delete category"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return errors.NewNotFoundError("category", id)
	}
	delete(s.categories, id)
	return nil
}

// Close marks the store unavailable. Further calls fail.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
