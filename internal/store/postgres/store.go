// Package postgres is the remote task store backed by PostgreSQL through a
// pgx connection pool.
package postgres

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"taskflow/internal/domain"
	"taskflow/internal/errors"
	"taskflow/internal/logging"
	"taskflow/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, title, description, category_id, priority, due_date, completed, completed_at,
	created_at, updated_at, is_timer_active, timer_start_time, timer_last_start_time,
	timer_total_time, timer_completed_at`

// Store is a PostgreSQL-backed task store.
type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

var _ store.Store = (*Store)(nil)

// New wraps an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{
		pool: pool,
		now:  func() time.Time { return time.Now().Truncate(time.Microsecond) },
	}
}

// Open connects to dsn, verifies the connection and ensures the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.NewStoreUnavailableError("connect postgres", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.FromStore("ping postgres", err)
	}

	s := New(pool)
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	logging.Debugf("connected postgres store")
	return s, nil
}

// EnsureSchema creates the tables if they don't exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id                    TEXT PRIMARY KEY,
			title                 TEXT NOT NULL,
			description           TEXT NOT NULL DEFAULT '',
			category_id           TEXT NOT NULL DEFAULT '',
			priority              TEXT NOT NULL DEFAULT 'medium',
			due_date              TIMESTAMPTZ,
			completed             BOOLEAN NOT NULL DEFAULT FALSE,
			completed_at          TIMESTAMPTZ,
			created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			is_timer_active       BOOLEAN NOT NULL DEFAULT FALSE,
			timer_start_time      TIMESTAMPTZ,
			timer_last_start_time TIMESTAMPTZ,
			timer_total_time      BIGINT NOT NULL DEFAULT 0,
			timer_completed_at    TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_timer_active ON tasks(is_timer_active) WHERE is_timer_active`,
		`CREATE TABLE IF NOT EXISTS categories (
			id       TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			color    TEXT NOT NULL DEFAULT '#8B5CF6',
			icon     TEXT NOT NULL DEFAULT 'Folder',
			position INTEGER NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return errors.FromStore("ensure schema", err)
		}
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var priority string
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.CategoryID, &priority, &t.DueDate,
		&t.Completed, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt, &t.IsTimerActive,
		&t.TimerStartTime, &t.TimerLastStartTime, &t.TimerTotalTime, &t.TimerCompletedAt)
	if err != nil {
		return nil, err
	}
	t.Priority = domain.Priority(priority)
	return &t, nil
}

func scanTaskRows(rows pgx.Rows) ([]domain.Task, error) {
	defer rows.Close()
	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return tasks, nil
}

func taskArgs(t domain.Task) []any {
	return []any{
		t.ID, t.Title, t.Description, t.CategoryID, string(t.Priority), t.DueDate,
		t.Completed, t.CompletedAt, t.CreatedAt, t.UpdatedAt, t.IsTimerActive,
		t.TimerStartTime, t.TimerLastStartTime, t.TimerTotalTime, t.TimerCompletedAt,
	}
}

// GetAll returns every task, oldest first.
func (s *Store) GetAll(ctx context.Context) ([]domain.Task, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, errors.FromStore("list tasks", err)
	}
	tasks, err := scanTaskRows(rows)
	if err != nil {
		return nil, errors.FromStore("list tasks", err)
	}
	return tasks, nil
}

// GetByID returns the task or nil when absent.
func (s *Store) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	t, err := scanTask(s.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.FromStore("get task", err)
	}
	return t, nil
}

// Create inserts a new task.
func (s *Store) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	t := store.PrepareNew(task, s.now())

	row := s.pool.QueryRow(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING `+taskColumns, taskArgs(t)...)
	created, err := scanTask(row)
	if err != nil {
		return nil, errors.FromStore("create task", err)
	}
	return created, nil
}

// Update applies the patch under a row lock.
func (s *Store) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, errors.FromStore("begin update task", err)
	}
	defer tx.Rollback(ctx)

	current, err := scanTask(tx.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 FOR UPDATE`, id))
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, errors.NewNotFoundError("task", id)
	}
	if err != nil {
		return nil, errors.FromStore("update task", err)
	}

	patch.Apply(current, s.now())

	args := append(taskArgs(*current)[1:], id)
	updated, err := scanTask(tx.QueryRow(ctx, `
		UPDATE tasks SET
			title = $1, description = $2, category_id = $3, priority = $4, due_date = $5,
			completed = $6, completed_at = $7, created_at = $8, updated_at = $9,
			is_timer_active = $10, timer_start_time = $11, timer_last_start_time = $12,
			timer_total_time = $13, timer_completed_at = $14
		WHERE id = $15
		RETURNING `+taskColumns, args...))
	if err != nil {
		return nil, errors.FromStore("update task", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.FromStore("commit update task", err)
	}
	return updated, nil
}

// Delete removes a task.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return errors.FromStore("delete task", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NewNotFoundError("task", id)
	}
	return nil
}

// GetByView narrows candidates in SQL and applies the exact date rules in Go.
func (s *Store) GetByView(ctx context.Context, view domain.View, now time.Time) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	switch view {
	case domain.ViewUpcoming:
		query += ` WHERE NOT completed AND due_date IS NOT NULL`
	case domain.ViewToday:
		query += ` WHERE due_date IS NOT NULL OR NOT completed`
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, errors.FromStore("list tasks by view", err)
	}
	tasks, err := scanTaskRows(rows)
	if err != nil {
		return nil, errors.FromStore("list tasks by view", err)
	}
	return store.FilterByView(tasks, view, now), nil
}

// ListCategories returns categories in position order with task counts.
func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.name, c.color, c.icon, c.position, COUNT(t.id)
		FROM categories c
		LEFT JOIN tasks t ON t.category_id = c.id
		GROUP BY c.id
		ORDER BY c.position ASC, c.id ASC`)
	if err != nil {
		return nil, errors.FromStore("list categories", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &c.Position, &c.TaskCount); err != nil {
			return nil, errors.FromStore("list categories", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.FromStore("list categories", err)
	}
	return categories, nil
}

// GetCategory returns the category or nil when absent.
func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	err := s.pool.QueryRow(ctx, `SELECT id, name, color, icon, position FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &c.Position)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.FromStore("get category", err)
	}
	return &c, nil
}

// CreateCategory appends a category after the existing ones.
func (s *Store) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	var last int
	if err := s.pool.QueryRow(ctx, `SELECT COALESCE(MAX(position), 0) FROM categories`).Scan(&last); err != nil {
		return nil, errors.FromStore("find last category position", err)
	}

	c := store.PrepareNewCategory(category, last)
	_, err := s.pool.Exec(ctx, `INSERT INTO categories (id, name, color, icon, position) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Name, c.Color, c.Icon, c.Position)
	if err != nil {
		return nil, errors.FromStore("create category", err)
	}
	return &c, nil
}

// UpdateCategory applies the patch to an existing category.
func (s *Store) UpdateCategory(ctx context.Context, id string, patch domain.CategoryPatch) (*domain.Category, error) {
	current, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, errors.NewNotFoundError("category", id)
	}
	patch.Apply(current)

	tag, err := s.pool.Exec(ctx, `UPDATE categories SET name = $1, color = $2, icon = $3, position = $4 WHERE id = $5`,
		current.Name, current.Color, current.Icon, current.Position, id)
	if err != nil {
		return nil, errors.FromStore("update category", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, errors.NewNotFoundError("category", id)
	}
	return current, nil
}

// DeleteCategory removes a category.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return errors.FromStore("delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NewNotFoundError("category", id)
	}
	return nil
}
