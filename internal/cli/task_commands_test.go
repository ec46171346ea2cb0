package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"taskflow/internal/api"
	"taskflow/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCommand_Execute(t *testing.T) {
	env := setupTestApp(t)
	ctx := context.Background()

	t.Run("joins arguments into the title", func(t *testing.T) {
		cmd := NewAddCommand(env.app, AddOptions{Priority: "high", Due: "tomorrow"})
		require.NoError(t, cmd.Execute(ctx, []string{"Write", "report"}))
		assert.Contains(t, env.output(), ": Write report\n")

		tasks, err := env.api.ListTasks(ctx, api.TaskFilter{View: "all"})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "high", string(tasks[0].Task.Priority))
		require.NotNil(t, tasks[0].Task.DueDate)
		assert.Equal(t, 11, tasks[0].Task.DueDate.Day())
	})

	t.Run("requires a title", func(t *testing.T) {
		err := NewAddCommand(env.app, AddOptions{}).Execute(ctx, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "usage: tf add")
	})

	t.Run("rejects an unknown priority", func(t *testing.T) {
		err := NewAddCommand(env.app, AddOptions{Priority: "someday"}).Execute(ctx, []string{"x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to add task: invalid input for priority")
	})

	t.Run("rejects an unknown category", func(t *testing.T) {
		err := NewAddCommand(env.app, AddOptions{Category: "Nowhere"}).Execute(ctx, []string{"x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to add task")
	})

	t.Run("reports store failures as user messages", func(t *testing.T) {
		app, _ := newFailingApp(errors.NewStoreUnavailableError("create", fmt.Errorf("disk full")))
		err := NewAddCommand(app, AddOptions{}).Execute(ctx, []string{"x"})
		require.Error(t, err)
		assert.Equal(t, "failed to add task: The task store is unavailable. Please try again.", err.Error())
	})
}

func TestListCommand_Execute(t *testing.T) {
	env := setupTestApp(t)
	ctx := context.Background()

	env.addTask(t, api.AddTaskRequest{Title: "Undated"})
	env.addTask(t, api.AddTaskRequest{Title: "Urgent thing", Priority: "urgent", Due: "today"})
	env.addTask(t, api.AddTaskRequest{Title: "Later", Due: "3d"})
	env.addTask(t, api.AddTaskRequest{Title: "Missed", Due: "2025-06-09"})

	t.Run("defaults to today sorted by priority", func(t *testing.T) {
		require.NoError(t, NewListCommand(env.app, ListOptions{}).Execute(ctx, nil))
		out := env.output()

		assert.Contains(t, out, "Urgent thing  (urgent, due today)")
		assert.Contains(t, out, "Undated  (medium)")
		assert.NotContains(t, out, "Later")
		assert.Less(t, indexOf(out, "Urgent thing"), indexOf(out, "Undated"))
	})

	t.Run("upcoming shows relative due dates", func(t *testing.T) {
		require.NoError(t, NewListCommand(env.app, ListOptions{}).Execute(ctx, []string{"upcoming"}))
		assert.Contains(t, env.output(), "Later  (medium, due Jun 13 (3 days from now))")
	})

	t.Run("all marks overdue tasks", func(t *testing.T) {
		require.NoError(t, NewListCommand(env.app, ListOptions{}).Execute(ctx, []string{"all"}))
		assert.Contains(t, env.output(), "Missed  (medium, due yesterday, overdue)")
	})

	t.Run("filters by text", func(t *testing.T) {
		require.NoError(t, NewListCommand(env.app, ListOptions{Text: "urg"}).Execute(ctx, []string{"all"}))
		out := env.output()
		assert.Contains(t, out, "Urgent thing")
		assert.NotContains(t, out, "Undated")
	})

	t.Run("reports an empty result", func(t *testing.T) {
		require.NoError(t, NewListCommand(env.app, ListOptions{Text: "nothing like this"}).Execute(ctx, nil))
		assert.Equal(t, "No tasks found.\n", env.output())
	})

	t.Run("rejects an unknown view", func(t *testing.T) {
		err := NewListCommand(env.app, ListOptions{}).Execute(ctx, []string{"someday"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid input for view")
	})

	t.Run("rejects extra arguments", func(t *testing.T) {
		err := NewListCommand(env.app, ListOptions{}).Execute(ctx, []string{"all", "today"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "usage: tf list")
	})
}

func TestListCommand_HidesCompletedWhenOpen(t *testing.T) {
	env := setupTestApp(t)
	ctx := context.Background()

	done := env.addTask(t, api.AddTaskRequest{Title: "Finished", Due: "today"})
	env.addTask(t, api.AddTaskRequest{Title: "Pending", Due: "today"})
	_, err := env.api.SetCompleted(ctx, done.ID, true)
	require.NoError(t, err)

	require.NoError(t, NewListCommand(env.app, ListOptions{}).Execute(ctx, nil))
	assert.Contains(t, env.output(), "[x] ")

	require.NoError(t, NewListCommand(env.app, ListOptions{Open: true}).Execute(ctx, nil))
	out := env.output()
	assert.NotContains(t, out, "Finished")
	assert.Contains(t, out, "[ ] ")
}

func TestShowCommand_Execute(t *testing.T) {
	env := setupTestApp(t)
	ctx := context.Background()

	_, err := env.api.AddCategory(ctx, "Work", "", "")
	require.NoError(t, err)
	task := env.addTask(t, api.AddTaskRequest{Title: "Plan sprint", Description: "with the team", Category: "Work", Due: "tomorrow"})

	require.NoError(t, NewShowCommand(env.app).Execute(ctx, []string{task.ID}))
	out := env.output()
	assert.Contains(t, out, "ID:          "+task.ID)
	assert.Contains(t, out, "Description: with the team")
	assert.Contains(t, out, "Category:    Work")
	assert.Contains(t, out, "Due:         tomorrow")
	assert.Contains(t, out, "Completed:   no")
	assert.NotContains(t, out, "Tracked:")

	t.Run("unknown id", func(t *testing.T) {
		err := NewShowCommand(env.app).Execute(ctx, []string{"ffffffff"})
		require.Error(t, err)
		assert.Equal(t, "failed to show task: task not found: ffffffff", err.Error())
	})

	t.Run("short prefix", func(t *testing.T) {
		err := NewShowCommand(env.app).Execute(ctx, []string{"ab"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 4 characters")
	})
}

func TestEditCommand_Execute(t *testing.T) {
	env := setupTestApp(t)
	ctx := context.Background()
	task := env.addTask(t, api.AddTaskRequest{Title: "Draft", Due: "today"})

	title := "Final draft"
	none := "none"
	require.NoError(t, NewEditCommand(env.app, api.TaskEdit{Title: &title, Due: &none}).Execute(ctx, []string{task.ID}))
	assert.Contains(t, env.output(), "Final draft")

	view, err := env.api.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final draft", view.Task.Title)
	assert.Nil(t, view.Task.DueDate)

	t.Run("nothing to change", func(t *testing.T) {
		err := NewEditCommand(env.app, api.TaskEdit{}).Execute(ctx, []string{task.ID})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nothing to change")
	})
}

func TestDoneCommand_Execute(t *testing.T) {
	env := setupTestApp(t)
	ctx := context.Background()
	a := env.addTask(t, api.AddTaskRequest{Title: "A"})
	b := env.addTask(t, api.AddTaskRequest{Title: "B"})

	require.NoError(t, NewDoneCommand(env.app, true).Execute(ctx, []string{a.ID, b.ID}))
	out := env.output()
	assert.Contains(t, out, "done: A\n")
	assert.Contains(t, out, "done: B\n")

	require.NoError(t, NewDoneCommand(env.app, false).Execute(ctx, []string{a.ID}))
	assert.Contains(t, env.output(), "open: A\n")

	view, err := env.api.GetTask(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, view.Task.Completed)

	t.Run("usage", func(t *testing.T) {
		err := NewDoneCommand(env.app, false).Execute(ctx, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "usage: tf undo")
	})
}

func TestDeleteCommand_Execute(t *testing.T) {
	env := setupTestApp(t)
	ctx := context.Background()
	task := env.addTask(t, api.AddTaskRequest{Title: "Timed"})

	_, err := env.api.StartTimer(ctx, task.ID)
	require.NoError(t, err)
	env.clock.Advance(90 * time.Second)

	require.NoError(t, NewDeleteCommand(env.app).Execute(ctx, []string{task.ID}))
	assert.Contains(t, env.output(), "Timed (tracked 1:30)")

	gone, err := env.store.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	timers, err := env.api.ActiveTimers(ctx)
	require.NoError(t, err)
	assert.Empty(t, timers)

	err = NewDeleteCommand(env.app).Execute(ctx, []string{task.ID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task not found")
}

func indexOf(s, sub string) int {
	return strings.Index(s, sub)
}
