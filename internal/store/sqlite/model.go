package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"taskflow/internal/domain"
)

const taskColumns = `id, title, description, category_id, priority, due_date, completed, completed_at,
	created_at, updated_at, is_timer_active, timer_start_time, timer_last_start_time,
	timer_total_time, timer_completed_at`

const categoryColumns = `id, name, color, icon, position`

// taskRow mirrors a row of the tasks table. Timestamps are stored as text.
type taskRow struct {
	ID                 string
	Title              string
	Description        string
	CategoryID         string
	Priority           string
	DueDate            sql.NullString
	Completed          int
	CompletedAt        sql.NullString
	CreatedAt          string
	UpdatedAt          string
	IsTimerActive      int
	TimerStartTime     sql.NullString
	TimerLastStartTime sql.NullString
	TimerTotalTime     int64
	TimerCompletedAt   sql.NullString
}

func (r *taskRow) dest() []interface{} {
	return []interface{}{
		&r.ID, &r.Title, &r.Description, &r.CategoryID, &r.Priority, &r.DueDate,
		&r.Completed, &r.CompletedAt, &r.CreatedAt, &r.UpdatedAt, &r.IsTimerActive,
		&r.TimerStartTime, &r.TimerLastStartTime, &r.TimerTotalTime, &r.TimerCompletedAt,
	}
}

func (r *taskRow) toDomain() (*domain.Task, error) {
	t := &domain.Task{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		CategoryID:     r.CategoryID,
		Priority:       domain.Priority(r.Priority),
		Completed:      r.Completed != 0,
		IsTimerActive:  r.IsTimerActive != 0,
		TimerTotalTime: r.TimerTotalTime,
	}

	var err error
	if t.CreatedAt, err = ParseTimeFromDB(r.CreatedAt); err != nil {
		return nil, fmt.Errorf("task %s created_at: %w", r.ID, err)
	}
	if t.UpdatedAt, err = ParseTimeFromDB(r.UpdatedAt); err != nil {
		return nil, fmt.Errorf("task %s updated_at: %w", r.ID, err)
	}

	nullable := []struct {
		name string
		src  sql.NullString
		dst  **time.Time
	}{
		{"due_date", r.DueDate, &t.DueDate},
		{"completed_at", r.CompletedAt, &t.CompletedAt},
		{"timer_start_time", r.TimerStartTime, &t.TimerStartTime},
		{"timer_last_start_time", r.TimerLastStartTime, &t.TimerLastStartTime},
		{"timer_completed_at", r.TimerCompletedAt, &t.TimerCompletedAt},
	}
	for _, n := range nullable {
		if *n.dst, err = ParseNullTimeFromDB(n.src); err != nil {
			return nil, fmt.Errorf("task %s %s: %w", r.ID, n.name, err)
		}
	}

	return t, nil
}

// taskArgs returns the column values of t in taskColumns order.
func taskArgs(t domain.Task) []interface{} {
	return []interface{}{
		t.ID, t.Title, t.Description, t.CategoryID, string(t.Priority),
		FormatTimePtrForDB(t.DueDate), FormatBoolForDB(t.Completed), FormatTimePtrForDB(t.CompletedAt),
		FormatTimeForDB(t.CreatedAt), FormatTimeForDB(t.UpdatedAt), FormatBoolForDB(t.IsTimerActive),
		FormatTimePtrForDB(t.TimerStartTime), FormatTimePtrForDB(t.TimerLastStartTime),
		t.TimerTotalTime, FormatTimePtrForDB(t.TimerCompletedAt),
	}
}
