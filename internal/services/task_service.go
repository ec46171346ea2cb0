package services

import (
	"context"
	"strings"
	"time"

	"taskflow/internal/domain"
	"taskflow/internal/errors"
	"taskflow/internal/store"
	"taskflow/internal/validation"
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	store         store.Store
	taskValidator *validation.TaskValidator
	now           Clock
}

// NewTaskService creates a new TaskService instance
func NewTaskService(s store.Store, taskValidator *validation.TaskValidator, now Clock) TaskService {
	if taskValidator == nil {
		taskValidator = validation.NewTaskValidator()
	}
	if now == nil {
		now = time.Now
	}
	return &taskServiceImpl{
		store:         s,
		taskValidator: taskValidator,
		now:           now,
	}
}

// dueDay normalises a due date to local midnight
func dueDay(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := domain.StartOfDay(*t, time.Local)
	return &d
}

// ensureCategory checks that a referenced category exists
func (t *taskServiceImpl) ensureCategory(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	c, err := t.store.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return errors.NewNotFoundError("category", id)
	}
	return nil
}

// CreateTask validates and stores a new task
func (t *taskServiceImpl) CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	task := domain.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		CategoryID:  input.CategoryID,
		Priority:    priority,
		DueDate:     dueDay(input.DueDate),
	}

	if err := t.taskValidator.ValidateTask(task); err != nil {
		return nil, errors.NewValidationError("invalid task", err)
	}
	if err := t.ensureCategory(ctx, task.CategoryID); err != nil {
		return nil, err
	}

	return t.store.Create(ctx, &task)
}

// GetTask retrieves a task by its ID
func (t *taskServiceImpl) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	if err := t.taskValidator.ValidateTaskID(id); err != nil {
		return nil, errors.NewValidationError("invalid task ID", err)
	}

	task, err := t.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, errors.NewNotFoundError("task", id)
	}
	return task, nil
}

// ResolveTaskID expands a unique id prefix to the full id
func (t *taskServiceImpl) ResolveTaskID(ctx context.Context, prefix string) (string, error) {
	return store.ResolveID(ctx, t.store, prefix)
}

// UpdateTask applies user edits. Timer fields cannot be changed here.
func (t *taskServiceImpl) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		patch.Title = &title
	}
	if patch.Description != nil {
		desc := strings.TrimSpace(*patch.Description)
		patch.Description = &desc
	}
	if patch.DueDate.Set {
		patch.DueDate.Time = dueDay(patch.DueDate.Time)
	}

	if err := t.taskValidator.ValidatePatch(patch); err != nil {
		return nil, errors.NewValidationError("invalid task update", err)
	}
	if patch.CategoryID != nil {
		if err := t.ensureCategory(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
	}

	return t.store.Update(ctx, id, patch)
}

// DeleteTask removes a task
func (t *taskServiceImpl) DeleteTask(ctx context.Context, id string) error {
	if err := t.taskValidator.ValidateTaskID(id); err != nil {
		return errors.NewValidationError("invalid task ID", err)
	}
	return t.store.Delete(ctx, id)
}

// SetCompleted marks a task done or not done
func (t *taskServiceImpl) SetCompleted(ctx context.Context, id string, completed bool) (*domain.Task, error) {
	return t.store.Update(ctx, id, domain.TaskPatch{Completed: &completed})
}

// ToggleComplete flips the completion flag
func (t *taskServiceImpl) ToggleComplete(ctx context.Context, id string) (*domain.Task, error) {
	task, err := t.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	return t.SetCompleted(ctx, id, !task.Completed)
}

// ListByView returns the tasks of a view in the default order
func (t *taskServiceImpl) ListByView(ctx context.Context, view domain.View) ([]domain.Task, error) {
	tasks, err := t.store.GetByView(ctx, view, t.now())
	if err != nil {
		return nil, err
	}
	SortTasks(tasks, domain.SortPriority)
	return tasks, nil
}
