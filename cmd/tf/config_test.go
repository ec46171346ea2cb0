package main

import (
	"context"
	"path/filepath"
	"testing"

	"taskflow/internal/api"
	"taskflow/internal/config"
	"taskflow/internal/hints"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Store.Backend = backend
	cfg.Store.Dir = filepath.Join(t.TempDir(), "data")
	return cfg
}

func TestOpenAPI_SQLitePersists(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.BackendSQLite)

	businessAPI, closeFn, err := OpenAPI(ctx, cfg)
	require.NoError(t, err)
	task, err := businessAPI.AddTask(ctx, api.AddTaskRequest{Title: "Persisted"})
	require.NoError(t, err)
	_, err = businessAPI.StartTimer(ctx, task.ID)
	require.NoError(t, err)
	require.NoError(t, closeFn())

	assert.FileExists(t, cfg.GetDatabasePath())
	assert.FileExists(t, cfg.GetHintsPath())

	reopened, closeFn, err := OpenAPI(ctx, cfg)
	require.NoError(t, err)
	defer closeFn()

	view, err := reopened.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Persisted", view.Task.Title)
	assert.True(t, view.Task.IsTimerActive)

	report, err := reopened.Recover(ctx)
	require.NoError(t, err)
	require.Len(t, report.LeftRunning, 1)
	assert.Equal(t, task.ID, report.LeftRunning[0].Task.ID)
}

func TestOpenAPI_Memory(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.BackendMemory)

	businessAPI, closeFn, err := OpenAPI(ctx, cfg)
	require.NoError(t, err)
	defer closeFn()

	_, err = businessAPI.AddTask(ctx, api.AddTaskRequest{Title: "Ephemeral"})
	require.NoError(t, err)
	tasks, err := businessAPI.ListTasks(ctx, api.TaskFilter{View: "all"})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.NoDirExists(t, cfg.Store.Dir)
}

func TestStoreFactory_CreateHints(t *testing.T) {
	cfg := testConfig(t, config.BackendSQLite)
	cfg.Hints.Enabled = false

	hs, err := NewStoreFactory(cfg).CreateHints()
	require.NoError(t, err)
	assert.IsType(t, hints.Nop{}, hs)

	cfg.Hints.Enabled = true
	cfg.Store.Backend = config.BackendMemory
	hs, err = NewStoreFactory(cfg).CreateHints()
	require.NoError(t, err)
	assert.IsType(t, &hints.MemoryStore{}, hs)
}

func TestOpenAPI_RejectsUnknownResumePolicy(t *testing.T) {
	cfg := testConfig(t, config.BackendMemory)
	cfg.Timer.ResumeAfterStop = "sometimes"

	_, _, err := OpenAPI(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown resume policy")
}
