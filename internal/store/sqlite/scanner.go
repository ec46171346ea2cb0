package sqlite

import (
	"taskflow/internal/domain"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanTask scans a single task from a database row
func ScanTask(scanner Scanner) (*domain.Task, error) {
	var row taskRow
	if err := scanner.Scan(row.dest()...); err != nil {
		return nil, err
	}
	return row.toDomain()
}

// ScanTasks scans multiple tasks from database rows
func ScanTasks(rows Rows) ([]domain.Task, error) {
	var tasks []domain.Task
	for rows.Next() {
		task, err := ScanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// ScanCategory scans a single category from a database row
func ScanCategory(scanner Scanner) (*domain.Category, error) {
	c := &domain.Category{}
	if err := scanner.Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &c.Position); err != nil {
		return nil, err
	}
	return c, nil
}

// ScanCategoriesWithCount scans categories followed by a task count column
func ScanCategoriesWithCount(rows Rows) ([]domain.Category, error) {
	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &c.Position, &c.TaskCount); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}
