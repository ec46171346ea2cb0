package cli

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"taskflow/internal/api"
	"taskflow/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type factoryCalls struct {
	opened int
	closed int
	cfg    *config.Config
}

// execute runs tf with args against the test environment's API
func execute(t *testing.T, env *testEnv, calls *factoryCalls, args ...string) (string, error) {
	t.Helper()
	factory := func(ctx context.Context, cfg *config.Config) (api.BusinessAPI, func() error, error) {
		calls.opened++
		calls.cfg = cfg
		return env.api, func() error {
			calls.closed++
			return nil
		}, nil
	}

	root := NewRootCommand(config.NewConfig(), factory)
	out := &bytes.Buffer{}
	root.Command().SetOut(out)
	root.Command().SetErr(out)
	root.Command().SetArgs(args)

	err := root.Execute(context.Background())
	return out.String(), err
}

func TestRootCommand_EndToEnd(t *testing.T) {
	env := setupTestApp(t)
	calls := &factoryCalls{}

	out, err := execute(t, env, calls, "add", "Write", "docs", "--priority", "high", "--due", "today")
	require.NoError(t, err)
	assert.Contains(t, out, ": Write docs\n")

	tasks, err := env.api.ListTasks(context.Background(), api.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	id := tasks[0].Task.ID

	out, err = execute(t, env, calls, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Write docs  (high, due today)")

	out, err = execute(t, env, calls, "start", id[:len(id)-2])
	require.NoError(t, err)
	assert.Equal(t, "Started timer for Write docs\n", out)

	env.clock.Advance(30 * time.Second)
	out, err = execute(t, env, calls, "stop")
	require.NoError(t, err)
	assert.Equal(t, "Stopped timer for Write docs at 0:30\n", out)

	out, err = execute(t, env, calls, "edit", id, "--title", "Write more docs")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated task")

	out, err = execute(t, env, calls, "done", id)
	require.NoError(t, err)
	assert.Contains(t, out, "done: Write more docs")

	assert.Equal(t, 6, calls.opened)
	assert.Equal(t, calls.opened, calls.closed)
}

func TestRootCommand_GlobalFlags(t *testing.T) {
	env := setupTestApp(t)
	calls := &factoryCalls{}

	_, err := execute(t, env, calls, "active", "--store", "memory", "--store-timeout", "2s", "--resume-after-stop", "reject", "--no-hints")
	require.NoError(t, err)

	require.NotNil(t, calls.cfg)
	assert.Equal(t, config.BackendMemory, calls.cfg.Store.Backend)
	assert.Equal(t, 2*time.Second, calls.cfg.Store.Timeout)
	assert.Equal(t, config.ResumeReject, calls.cfg.Timer.ResumeAfterStop)
	assert.False(t, calls.cfg.Hints.Enabled)
}

func TestRootCommand_InvalidFlagsNeverOpenTheStore(t *testing.T) {
	env := setupTestApp(t)
	calls := &factoryCalls{}

	_, err := execute(t, env, calls, "list", "--store", "floppy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
	assert.Contains(t, err.Error(), "backend must be one of memory, sqlite, postgres")
	assert.Zero(t, calls.opened)
}

func TestRootCommand_FactoryFailure(t *testing.T) {
	factory := func(context.Context, *config.Config) (api.BusinessAPI, func() error, error) {
		return nil, nil, fmt.Errorf("database is locked")
	}
	root := NewRootCommand(nil, factory)
	root.Command().SetOut(&bytes.Buffer{})
	root.Command().SetArgs([]string{"summary"})

	err := root.Execute(context.Background())
	require.Error(t, err)
	assert.Equal(t, "failed to open store: database is locked", err.Error())
}

func TestRootCommand_ArgumentValidation(t *testing.T) {
	env := setupTestApp(t)
	calls := &factoryCalls{}

	_, err := execute(t, env, calls, "show")
	require.Error(t, err)
	_, err = execute(t, env, calls, "pause", "a", "b")
	require.Error(t, err)
	assert.Zero(t, calls.opened)
}

func TestRootCommand_HelpDoesNotOpenTheStore(t *testing.T) {
	env := setupTestApp(t)
	calls := &factoryCalls{}

	out, err := execute(t, env, calls, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "taskflow (tf)")
	assert.Zero(t, calls.opened)
}

func TestWatchCommand_Model(t *testing.T) {
	env := setupTestApp(t)
	ctx := context.Background()
	task := env.addTask(t, api.AddTaskRequest{Title: "Watched"})
	_, err := env.api.StartTimer(ctx, task.ID)
	require.NoError(t, err)
	env.clock.Advance(5 * time.Second)

	m := NewWatchCommand(env.app).Model()
	assert.NotNil(t, m.Init())
	assert.NotContains(t, m.View(), "Watched")
}
