// Package store defines the task store contract shared by every backing.
package store

import (
	"context"
	"sort"
	"strings"
	"time"

	"taskflow/internal/domain"
	"taskflow/internal/errors"
)

// TaskStore is the system of record for tasks. Implementations must be safe
// for concurrent use.
type TaskStore interface {
	GetAll(ctx context.Context) ([]domain.Task, error)
	// GetByID returns nil, nil when no task has the id.
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// Create assigns an id and timestamps when missing and returns the stored task.
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// Update applies the set fields of patch. It fails with a not found
	// error when no task has the id.
	Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
	GetByView(ctx context.Context, view domain.View, now time.Time) ([]domain.Task, error)
}

// CategoryStore persists categories.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, patch domain.CategoryPatch) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// Store is a complete backing selected at process start.
type Store interface {
	TaskStore
	CategoryStore
	Close() error
}

// PrepareNew fills the id, default priority and timestamps of a task that
// is about to be inserted.
func PrepareNew(task *domain.Task, now time.Time) domain.Task {
	t := task.Clone()
	if t.ID == "" {
		t.ID = domain.NewID()
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	if t.Completed && t.CompletedAt == nil {
		t.CompletedAt = domain.TimePtr(now)
	}
	return t
}

// PrepareNewCategory fills the id and defaults of a category about to be
// inserted. Position is appended after lastPosition, the highest position in
// use.
func PrepareNewCategory(category *domain.Category, lastPosition int) domain.Category {
	c := *category
	if c.ID == "" {
		c.ID = domain.NewID()
	}
	if c.Color == "" {
		c.Color = domain.DefaultCategoryColor
	}
	if c.Icon == "" {
		c.Icon = domain.DefaultCategoryIcon
	}
	if c.Position == 0 {
		c.Position = lastPosition + 1
	}
	c.TaskCount = 0
	return c
}

// FilterByView keeps the tasks that belong to view as of now, preserving order.
func FilterByView(tasks []domain.Task, view domain.View, now time.Time) []domain.Task {
	result := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if view.Matches(t, now) {
			result = append(result, t)
		}
	}
	return result
}

// SortByCreated orders tasks oldest first, breaking ties by id.
func SortByCreated(tasks []domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
}

// ResolveID finds the single task whose id starts with prefix. An exact
// match always wins.
func ResolveID(ctx context.Context, s TaskStore, prefix string) (string, error) {
	const minPrefix = 4

	prefix = strings.TrimSpace(prefix)
	if len(prefix) < minPrefix {
		return "", errors.NewInvalidInputError("id", prefix, "id prefix must be at least 4 characters")
	}

	task, err := s.GetByID(ctx, prefix)
	if err != nil {
		return "", err
	}
	if task != nil {
		return task.ID, nil
	}

	tasks, err := s.GetAll(ctx)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, prefix) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", errors.NewNotFoundError("task", prefix)
	case 1:
		return matches[0], nil
	default:
		return "", errors.NewInvalidInputError("id", prefix, "id prefix matches more than one task")
	}
}
