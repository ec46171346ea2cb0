// Package sqlite is the local-file task store backed by modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"taskflow/internal/domain"
	"taskflow/internal/errors"
	"taskflow/internal/logging"
	"taskflow/internal/store"
	"taskflow/internal/store/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Store implements store.Store on a single SQLite connection.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ store.Store = (*Store)(nil)

// New opens (or creates) the database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, errors.NewStoreUnavailableError("create database directory", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewStoreUnavailableError("open database", err)
	}

	// One connection keeps :memory: databases alive and serializes writers
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, errors.NewStoreUnavailableError(fmt.Sprintf("exec pragma %q", p), err)
		}
	}

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewStoreUnavailableError("run migrations", err)
	}

	logging.Debugf("opened sqlite store %s", dbPath)
	return &Store{db: db, now: time.Now}, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

// SetClock replaces the clock used for timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetAll retrieves all tasks, oldest first
func (s *Store) GetAll(ctx context.Context) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at ASC, id ASC`
	return QueryMultiple(ctx, s.db, query, ScanTasks, "tasks")
}

// GetByID retrieves a task by ID, or nil when it does not exist
func (s *Store) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	return QueryOptional(ctx, s.db, query, ScanTask, "task", id, id)
}

// Create inserts a new task
func (s *Store) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	t := store.PrepareNew(task, s.now())

	query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if err := Execute(ctx, s.db, "create task", query, taskArgs(t)...); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, t.ID)
}

// Update applies the patch inside a transaction so the read and the write
// see the same row
func (s *Store) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, HandleDatabaseError("begin update task", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	current, err := QuerySingle(ctx, tx, query, ScanTask, "task", id, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(current, s.now())

	update := `
	UPDATE tasks SET
		title = ?, description = ?, category_id = ?, priority = ?, due_date = ?,
		completed = ?, completed_at = ?, created_at = ?, updated_at = ?,
		is_timer_active = ?, timer_start_time = ?, timer_last_start_time = ?,
		timer_total_time = ?, timer_completed_at = ?
	WHERE id = ?`
	args := append(taskArgs(*current)[1:], id)
	if err := ExecuteWithRowsAffected(ctx, tx, update, "task", id, args...); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, HandleDatabaseError("commit update task", err)
	}
	return s.GetByID(ctx, id)
}

// Delete deletes a task by ID
func (s *Store) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tasks WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, s.db, query, "task", id, id)
}

// GetByView narrows candidates in SQL and applies the exact date rules in Go
func (s *Store) GetByView(ctx context.Context, view domain.View, now time.Time) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	switch view {
	case domain.ViewUpcoming:
		query += ` WHERE completed = 0 AND due_date IS NOT NULL`
	case domain.ViewToday:
		query += ` WHERE due_date IS NOT NULL OR completed = 0`
	}
	query += ` ORDER BY created_at ASC, id ASC`

	tasks, err := QueryMultiple(ctx, s.db, query, ScanTasks, "tasks")
	if err != nil {
		return nil, err
	}
	return store.FilterByView(tasks, view, now), nil
}

// ListCategories returns categories in position order with task counts
func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	query := `
	SELECT c.id, c.name, c.color, c.icon, c.position, COUNT(t.id)
	FROM categories c
	LEFT JOIN tasks t ON t.category_id = c.id
	GROUP BY c.id
	ORDER BY c.position ASC, c.id ASC`
	return QueryMultiple(ctx, s.db, query, ScanCategoriesWithCount, "categories")
}

// GetCategory retrieves a category by ID, or nil when it does not exist
func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = ?`
	return QueryOptional(ctx, s.db, query, ScanCategory, "category", id, id)
}

// CreateCategory appends a category after the existing ones
func (s *Store) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	var last int
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), 0) FROM categories`).Scan(&last); err != nil {
		return nil, HandleDatabaseError("find last category position", err)
	}

	c := store.PrepareNewCategory(category, last)
	query := `INSERT INTO categories (` + categoryColumns + `) VALUES (?, ?, ?, ?, ?)`
	if err := Execute(ctx, s.db, "create category", query, c.ID, c.Name, c.Color, c.Icon, c.Position); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCategory applies the patch to an existing category
func (s *Store) UpdateCategory(ctx context.Context, id string, patch domain.CategoryPatch) (*domain.Category, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, HandleDatabaseError("begin update category", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = ?`
	c, err := QuerySingle(ctx, tx, query, ScanCategory, "category", id, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(c)

	update := `UPDATE categories SET name = ?, color = ?, icon = ?, position = ? WHERE id = ?`
	if err := ExecuteWithRowsAffected(ctx, tx, update, "category", id, c.Name, c.Color, c.Icon, c.Position, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, HandleDatabaseError("commit update category", err)
	}
	return c, nil
}

// DeleteCategory deletes a category by ID
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	query := `DELETE FROM categories WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, s.db, query, "category", id, id)
}
