package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"taskflow/internal/domain"
	"taskflow/internal/store"
)

// searchServiceImpl implements the SearchService interface
type searchServiceImpl struct {
	store store.TaskStore
	now   Clock
}

// NewSearchService creates a new SearchService instance
func NewSearchService(s store.TaskStore, now Clock) SearchService {
	if now == nil {
		now = time.Now
	}
	return &searchServiceImpl{
		store: s,
		now:   now,
	}
}

// SearchTasks filters the tasks of a view and sorts them. An empty view
// searches all tasks.
func (s *searchServiceImpl) SearchTasks(ctx context.Context, opts domain.SearchOptions) ([]domain.Task, error) {
	view := opts.View
	if view == "" {
		view = domain.ViewAll
	}

	tasks, err := s.store.GetByView(ctx, view, s.now())
	if err != nil {
		return nil, err
	}

	result := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !opts.IncludeCompleted && t.Completed {
			continue
		}
		if opts.CategoryID != "" && t.CategoryID != opts.CategoryID {
			continue
		}
		if !opts.MatchesText(t) {
			continue
		}
		result = append(result, t)
	}

	s.SortTasks(result, opts.Sort)
	return result, nil
}

// SortTasks orders tasks in place
func (s *searchServiceImpl) SortTasks(tasks []domain.Task, order domain.SortOrder) {
	SortTasks(tasks, order)
}

// SortTasks orders tasks in place. The priority order puts incomplete tasks
// first, then higher priority, then earlier due dates with undated tasks
// last.
func SortTasks(tasks []domain.Task, order domain.SortOrder) {
	switch order {
	case domain.SortDue:
		sort.SliceStable(tasks, func(i, j int) bool {
			if c := compareDue(tasks[i], tasks[j]); c != 0 {
				return c < 0
			}
			return defaultLess(tasks[i], tasks[j])
		})
	case domain.SortTitle:
		sort.SliceStable(tasks, func(i, j int) bool {
			a, b := strings.ToLower(tasks[i].Title), strings.ToLower(tasks[j].Title)
			if a != b {
				return a < b
			}
			return tasks[i].ID < tasks[j].ID
		})
	case domain.SortCreated:
		sort.SliceStable(tasks, func(i, j int) bool {
			if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
				return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
			}
			return tasks[i].ID > tasks[j].ID
		})
	default:
		sort.SliceStable(tasks, func(i, j int) bool {
			return defaultLess(tasks[i], tasks[j])
		})
	}
}

func defaultLess(a, b domain.Task) bool {
	if a.Completed != b.Completed {
		return !a.Completed
	}
	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return ra > rb
	}
	if c := compareDue(a, b); c != 0 {
		return c < 0
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// compareDue orders by due date with undated tasks last
func compareDue(a, b domain.Task) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	case a.DueDate.Before(*b.DueDate):
		return -1
	case a.DueDate.After(*b.DueDate):
		return 1
	}
	return 0
}
