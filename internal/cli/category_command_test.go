package cli

import (
	"context"
	"testing"

	"taskflow/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCommand(t *testing.T) {
	env := setupTestApp(t)
	ctx := context.Background()
	cmd := NewCategoryCommand(env.app)

	require.NoError(t, cmd.List(ctx))
	assert.Equal(t, "No categories.\n", env.output())

	require.NoError(t, cmd.Add(ctx, []string{"Work"}, "#FF0000", ""))
	require.NoError(t, cmd.Add(ctx, []string{"Home"}, "", ""))
	assert.Equal(t, "Added category Work\nAdded category Home\n", env.output())

	env.addTask(t, api.AddTaskRequest{Title: "Report", Category: "Work"})

	require.NoError(t, cmd.List(ctx))
	out := env.output()
	assert.Contains(t, out, "Work  1 task\n")
	assert.Contains(t, out, "Home  0 tasks\n")

	require.NoError(t, cmd.Remove(ctx, []string{"Home"}))
	assert.Equal(t, "Removed category Home\n", env.output())

	t.Run("remove in use", func(t *testing.T) {
		err := cmd.Remove(ctx, []string{"Work"})
		require.Error(t, err)
		assert.Equal(t, `failed to remove category: category "Work" still has 1 task(s)`, err.Error())
	})

	t.Run("remove unknown", func(t *testing.T) {
		err := cmd.Remove(ctx, []string{"Garden"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to remove category")
	})

	t.Run("add needs a name", func(t *testing.T) {
		err := cmd.Add(ctx, nil, "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "usage: tf category add")
	})
}
