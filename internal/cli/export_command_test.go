package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"taskflow/internal/api"
	"taskflow/internal/export"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCommand_JSON(t *testing.T) {
	env := setupTestApp(t)
	ctx := context.Background()

	task := env.addTask(t, api.AddTaskRequest{Title: "Timed", Due: "tomorrow"})
	env.addTask(t, api.AddTaskRequest{Title: "Plain"})
	_, err := env.api.StartTimer(ctx, task.ID)
	require.NoError(t, err)
	env.clock.Advance(2 * time.Minute)

	require.NoError(t, NewExportCommand(env.app, ExportOptions{Format: "json", View: "all"}).Execute(ctx, nil))

	var doc export.Document
	require.NoError(t, json.Unmarshal(env.out.Bytes(), &doc))
	assert.Equal(t, 2, doc.Count)

	var timed export.Record
	for _, r := range doc.Tasks {
		if r.ID == task.ID {
			timed = r
		}
	}
	assert.Equal(t, "2025-06-11", timed.Due)
	assert.True(t, timed.TimerActive)
	assert.Equal(t, int64(120), timed.TrackedSeconds)
	assert.Equal(t, "2:00", timed.Tracked)
}

func TestExportCommand_CSVFile(t *testing.T) {
	env := setupTestApp(t)
	ctx := context.Background()
	env.addTask(t, api.AddTaskRequest{Title: "Row"})

	path := filepath.Join(t.TempDir(), "tasks.csv")
	require.NoError(t, NewExportCommand(env.app, ExportOptions{Format: "csv", View: "all", Out: path}).Execute(ctx, nil))
	assert.Equal(t, "Exported 1 task to "+path+"\n", env.output())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID,Title,"))
	assert.Contains(t, lines[1], ",Row,")
}

func TestExportCommand_Errors(t *testing.T) {
	env := setupTestApp(t)
	ctx := context.Background()

	err := NewExportCommand(env.app, ExportOptions{Format: "xml", View: "all"}).Execute(ctx, nil)
	require.Error(t, err)
	assert.Equal(t, "invalid input for format: must be one of json, yaml, csv", err.Error())

	err = NewExportCommand(env.app, ExportOptions{Format: "json", View: "later"}).Execute(ctx, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to export tasks")

	missingDir := filepath.Join(t.TempDir(), "missing", "tasks.json")
	err = NewExportCommand(env.app, ExportOptions{Format: "json", View: "all", Out: missingDir}).Execute(ctx, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid input for out")
}
