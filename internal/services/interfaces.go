package services

import (
	"context"
	"time"

	"taskflow/internal/domain"
)

// Clock returns the current time. Services take it explicitly so views and
// summaries are reproducible in tests.
type Clock func() time.Time

// CreateTaskInput holds the user-supplied fields of a new task
type CreateTaskInput struct {
	Title       string
	Description string
	CategoryID  string
	Priority    domain.Priority
	DueDate     *time.Time
}

// CategorySummary aggregates the tasks of one category. The zero ID stands
// for tasks without a category.
type CategorySummary struct {
	CategoryID     string
	Name           string
	Tasks          int
	Completed      int
	TrackedSeconds int64
}

// Summary is the dashboard overview of all tasks
type Summary struct {
	GeneratedAt    time.Time
	Total          int
	Completed      int
	Open           int
	Overdue        int
	DueToday       int
	ActiveTimers   int
	TrackedSeconds int64
	ByCategory     []CategorySummary
}

// TaskService handles task lifecycle operations
type TaskService interface {
	// Task CRUD operations
	CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	ResolveTaskID(ctx context.Context, prefix string) (string, error)
	UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error

	// Completion
	SetCompleted(ctx context.Context, id string, completed bool) (*domain.Task, error)
	ToggleComplete(ctx context.Context, id string) (*domain.Task, error)

	// Views
	ListByView(ctx context.Context, view domain.View) ([]domain.Task, error)
}

// CategoryService handles category operations
type CategoryService interface {
	CreateCategory(ctx context.Context, name, color, icon string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	FindCategory(ctx context.Context, idOrName string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, patch domain.CategoryPatch) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// SearchService handles filtering and ordering of tasks
type SearchService interface {
	SearchTasks(ctx context.Context, opts domain.SearchOptions) ([]domain.Task, error)
	SortTasks(tasks []domain.Task, order domain.SortOrder)
}

// ReportingService builds summaries over all tasks
type ReportingService interface {
	GetSummary(ctx context.Context) (*Summary, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TaskService      TaskService
	CategoryService  CategoryService
	SearchService    SearchService
	ReportingService ReportingService
}
