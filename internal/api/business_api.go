package api

import (
	"context"
	"strings"
	"time"

	"taskflow/internal/domain"
	"taskflow/internal/errors"
	"taskflow/internal/logging"
	"taskflow/internal/services"
	"taskflow/internal/timer"
)

// TaskView is a task together with the values a listing shows next to it
type TaskView struct {
	Task         domain.Task `json:"task"`
	CategoryName string      `json:"category_name,omitempty"`
	Elapsed      string      `json:"elapsed,omitempty"` // empty when the task was never timed
	Seconds      int64       `json:"seconds"`
}

// AddTaskRequest holds raw user input for a new task. Category may be an id
// or a name; Due accepts the forms understood by ParseDueDate.
type AddTaskRequest struct {
	Title       string
	Description string
	Category    string
	Priority    string
	Due         string
}

// TaskEdit holds raw user edits. Nil fields are left unchanged; an empty
// Category or a Due of "" or "none" clears the value.
type TaskEdit struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *string
	Due         *string
}

// TaskFilter selects tasks for listings and exports
type TaskFilter struct {
	View          string
	Text          string
	Category      string
	HideCompleted bool
	Sort          string
}

// BusinessAPI is the single entry point used by the CLI and the watch view
type BusinessAPI interface {
	// ========== Task Workflows ==========

	// AddTask validates input and creates a task
	AddTask(ctx context.Context, req AddTaskRequest) (*domain.Task, error)

	// GetTask returns a task by id or unique id prefix
	GetTask(ctx context.Context, ref string) (*TaskView, error)

	// EditTask applies user edits to a task
	EditTask(ctx context.Context, ref string, edit TaskEdit) (*domain.Task, error)

	// SetCompleted marks a task done or not done
	SetCompleted(ctx context.Context, ref string, completed bool) (*domain.Task, error)

	// DeleteTask stops a running timer and deletes the task
	DeleteTask(ctx context.Context, ref string) (*domain.Task, error)

	// ListTasks returns the tasks selected by the filter in display order
	ListTasks(ctx context.Context, filter TaskFilter) ([]*TaskView, error)

	// ========== Categories ==========

	AddCategory(ctx context.Context, name, color, icon string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	RemoveCategory(ctx context.Context, ref string) (*domain.Category, error)

	// ========== Timers ==========

	StartTimer(ctx context.Context, ref string) (*TaskView, error)
	PauseTimer(ctx context.Context, ref string) (*TaskView, error)
	StopTimer(ctx context.Context, ref string) (*TaskView, error)
	ResumeTimer(ctx context.Context, ref string) (*TaskView, error)

	// ActiveTimers returns the running timers
	ActiveTimers(ctx context.Context) ([]domain.ActiveTimer, error)

	// Recover checks recovery hints left by an earlier process
	Recover(ctx context.Context) (*timer.RecoveryReport, error)

	// ========== Reporting ==========

	GetSummary(ctx context.Context) (*services.Summary, error)

	// Now returns the clock every computed value is based on
	Now() time.Time
}

// businessAPIImpl implements the BusinessAPI interface
type businessAPIImpl struct {
	services *services.ServiceContainer
	engine   *timer.Engine
}

// NewBusinessAPI creates a new BusinessAPI over the services and timer engine
func NewBusinessAPI(container *services.ServiceContainer, engine *timer.Engine) BusinessAPI {
	return &businessAPIImpl{
		services: container,
		engine:   engine,
	}
}

func (b *businessAPIImpl) Now() time.Time {
	return b.engine.Now()
}

// ========== Task Workflows ==========

func (b *businessAPIImpl) AddTask(ctx context.Context, req AddTaskRequest) (*domain.Task, error) {
	priority, ok := domain.ParsePriority(req.Priority)
	if !ok {
		return nil, errors.NewInvalidInputError("priority", req.Priority, "must be one of low, medium, high, urgent")
	}
	due, err := ParseDueDate(req.Due, b.Now())
	if err != nil {
		return nil, err
	}
	categoryID, err := b.categoryID(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	task, err := b.services.TaskService.CreateTask(ctx, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  categoryID,
		Priority:    priority,
		DueDate:     due,
	})
	if err != nil {
		return nil, err
	}
	logging.Debugf("task %s created", task.ID)
	return task, nil
}

func (b *businessAPIImpl) GetTask(ctx context.Context, ref string) (*TaskView, error) {
	id, err := b.services.TaskService.ResolveTaskID(ctx, ref)
	if err != nil {
		return nil, err
	}
	task, err := b.services.TaskService.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	names, err := b.categoryNames(ctx)
	if err != nil {
		return nil, err
	}
	return b.view(*task, names), nil
}

func (b *businessAPIImpl) EditTask(ctx context.Context, ref string, edit TaskEdit) (*domain.Task, error) {
	id, err := b.services.TaskService.ResolveTaskID(ctx, ref)
	if err != nil {
		return nil, err
	}

	patch := domain.TaskPatch{
		Title:       edit.Title,
		Description: edit.Description,
	}
	if edit.Priority != nil {
		p, ok := domain.ParsePriority(*edit.Priority)
		if !ok {
			return nil, errors.NewInvalidInputError("priority", *edit.Priority, "must be one of low, medium, high, urgent")
		}
		patch.Priority = &p
	}
	if edit.Category != nil {
		categoryID, err := b.categoryID(ctx, *edit.Category)
		if err != nil {
			return nil, err
		}
		patch.CategoryID = &categoryID
	}
	if edit.Due != nil {
		due, err := ParseDueDate(*edit.Due, b.Now())
		if err != nil {
			return nil, err
		}
		if due == nil {
			patch.DueDate = domain.ClearTime()
		} else {
			patch.DueDate = domain.SetTime(*due)
		}
	}

	return b.services.TaskService.UpdateTask(ctx, id, patch)
}

func (b *businessAPIImpl) SetCompleted(ctx context.Context, ref string, completed bool) (*domain.Task, error) {
	id, err := b.services.TaskService.ResolveTaskID(ctx, ref)
	if err != nil {
		return nil, err
	}
	return b.services.TaskService.SetCompleted(ctx, id, completed)
}

func (b *businessAPIImpl) DeleteTask(ctx context.Context, ref string) (*domain.Task, error) {
	id, err := b.services.TaskService.ResolveTaskID(ctx, ref)
	if err != nil {
		return nil, err
	}
	task, err := b.services.TaskService.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	// Stopping first folds the running segment and drops the recovery hint.
	if task.IsTimerActive {
		if task, err = b.engine.Stop(ctx, id); err != nil {
			return nil, err
		}
	}
	if err := b.services.TaskService.DeleteTask(ctx, id); err != nil {
		return nil, err
	}
	logging.Debugf("task %s deleted", id)
	return task, nil
}

func (b *businessAPIImpl) ListTasks(ctx context.Context, filter TaskFilter) ([]*TaskView, error) {
	view, ok := domain.ParseView(filter.View)
	if !ok {
		return nil, errors.NewInvalidInputError("view", filter.View, "must be one of today, upcoming, all")
	}
	order, ok := domain.ParseSortOrder(filter.Sort)
	if !ok {
		return nil, errors.NewInvalidInputError("sort", filter.Sort, "must be one of priority, due, title, created")
	}
	categoryID := ""
	if filter.Category != "" {
		c, err := b.services.CategoryService.FindCategory(ctx, filter.Category)
		if err != nil {
			return nil, err
		}
		categoryID = c.ID
	}

	tasks, err := b.services.SearchService.SearchTasks(ctx, domain.SearchOptions{
		Text:             filter.Text,
		CategoryID:       categoryID,
		View:             view,
		IncludeCompleted: !filter.HideCompleted,
		Sort:             order,
	})
	if err != nil {
		return nil, err
	}

	names, err := b.categoryNames(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]*TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, b.view(t, names))
	}
	return views, nil
}

// ========== Categories ==========

func (b *businessAPIImpl) AddCategory(ctx context.Context, name, color, icon string) (*domain.Category, error) {
	return b.services.CategoryService.CreateCategory(ctx, name, color, icon)
}

func (b *businessAPIImpl) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return b.services.CategoryService.ListCategories(ctx)
}

func (b *businessAPIImpl) RemoveCategory(ctx context.Context, ref string) (*domain.Category, error) {
	c, err := b.services.CategoryService.FindCategory(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := b.services.CategoryService.DeleteCategory(ctx, c.ID); err != nil {
		return nil, err
	}
	return c, nil
}

// ========== Timers ==========

func (b *businessAPIImpl) StartTimer(ctx context.Context, ref string) (*TaskView, error) {
	return b.timerCommand(ctx, ref, b.engine.Start)
}

func (b *businessAPIImpl) PauseTimer(ctx context.Context, ref string) (*TaskView, error) {
	return b.timerCommand(ctx, ref, b.engine.Pause)
}

func (b *businessAPIImpl) StopTimer(ctx context.Context, ref string) (*TaskView, error) {
	return b.timerCommand(ctx, ref, b.engine.Stop)
}

func (b *businessAPIImpl) ResumeTimer(ctx context.Context, ref string) (*TaskView, error) {
	return b.timerCommand(ctx, ref, b.engine.Resume)
}

func (b *businessAPIImpl) timerCommand(ctx context.Context, ref string, command func(context.Context, string) (*domain.Task, error)) (*TaskView, error) {
	id, err := b.services.TaskService.ResolveTaskID(ctx, ref)
	if err != nil {
		return nil, err
	}
	task, err := command(ctx, id)
	if err != nil {
		return nil, err
	}
	names, err := b.categoryNames(ctx)
	if err != nil {
		// the command already succeeded; only the label is missing
		logging.Warnf("could not load categories: %v", err)
	}
	return b.view(*task, names), nil
}

func (b *businessAPIImpl) ActiveTimers(ctx context.Context) ([]domain.ActiveTimer, error) {
	return b.engine.ActiveTimers(ctx)
}

func (b *businessAPIImpl) Recover(ctx context.Context) (*timer.RecoveryReport, error) {
	return b.engine.Recover(ctx)
}

// ========== Reporting ==========

func (b *businessAPIImpl) GetSummary(ctx context.Context) (*services.Summary, error) {
	return b.services.ReportingService.GetSummary(ctx)
}

// ========== Helpers ==========

func (b *businessAPIImpl) view(t domain.Task, names map[string]string) *TaskView {
	now := b.Now()
	elapsed, _ := timer.ComputeDisplay(t, now)
	return &TaskView{
		Task:         t,
		CategoryName: names[t.CategoryID],
		Elapsed:      elapsed,
		Seconds:      timer.Elapsed(t, now),
	}
}

func (b *businessAPIImpl) categoryNames(ctx context.Context) (map[string]string, error) {
	categories, err := b.services.CategoryService.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

// categoryID resolves a category reference. An empty reference means none.
func (b *businessAPIImpl) categoryID(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}
	c, err := b.services.CategoryService.FindCategory(ctx, ref)
	if err != nil {
		return "", err
	}
	return c.ID, nil
}
