package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/internal/db"
	"todo-api/pkg/task"
)

func setupStore(t *testing.T) task.Store {
	t.Helper()
	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.CloseGorm(gdb) })

	store := task.NewGormStore(gdb)
	require.NoError(t, store.EnsureTable(context.Background()))
	return store
}

func runCmd(t *testing.T, store task.Store, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), store, args, &out)
	return out.String(), err
}

func TestRunCreateGetList(t *testing.T) {
	store := setupStore(t)

	out, err := runCmd(t, store, "create", "buy", "milk")
	require.NoError(t, err)
	var created task.Task
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, "buy milk", created.Description)
	assert.False(t, created.Completed)

	out, err = runCmd(t, store, "get", created.ID)
	require.NoError(t, err)
	var got task.Task
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, created.ID, got.ID)

	_, err = runCmd(t, store, "create", "walk dog", "--completed")
	require.NoError(t, err)

	out, err = runCmd(t, store, "list", "--format=short")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "[ ] "+created.ID))
	assert.True(t, strings.HasPrefix(lines[1], "[x] "))
	assert.True(t, strings.HasSuffix(lines[1], "walk dog"))
}

func TestRunUpdateAndComplete(t *testing.T) {
	store := setupStore(t)

	out, err := runCmd(t, store, "create", "draft")
	require.NoError(t, err)
	var created task.Task
	require.NoError(t, json.Unmarshal([]byte(out), &created))

	out, err = runCmd(t, store, "update", created.ID, "--description=final")
	require.NoError(t, err)
	var updated task.Task
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	assert.Equal(t, "final", updated.Description)
	assert.False(t, updated.Completed)

	out, err = runCmd(t, store, "complete", created.ID)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	assert.True(t, updated.Completed)

	out, err = runCmd(t, store, "complete", created.ID, "false")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	assert.False(t, updated.Completed)

	_, err = runCmd(t, store, "complete", created.ID, "maybe")
	assert.Error(t, err)

	_, err = runCmd(t, store, "update", created.ID)
	require.Error(t, err)
	assert.True(t, task.IsValidation(err))
}

func TestRunDeleteAndStatus(t *testing.T) {
	store := setupStore(t)

	out, err := runCmd(t, store, "create", "temp")
	require.NoError(t, err)
	var created task.Task
	require.NoError(t, json.Unmarshal([]byte(out), &created))

	out, err = runCmd(t, store, "status")
	require.NoError(t, err)
	var stats task.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, task.Stats{Tasks: 1, PendingTasks: 1}, stats)

	out, err = runCmd(t, store, "delete", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "deleted "+created.ID+"\n", out)

	_, err = runCmd(t, store, "delete", created.ID)
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestRunErrors(t *testing.T) {
	store := setupStore(t)

	_, err := runCmd(t, store)
	assert.ErrorIs(t, err, errUsage)

	_, err = runCmd(t, store, "frobnicate")
	assert.ErrorIs(t, err, errUsage)

	_, err = runCmd(t, store, "create")
	require.Error(t, err)
	assert.True(t, task.IsValidation(err))

	_, err = runCmd(t, store, "get")
	assert.Error(t, err)
}

func TestSplitArgs(t *testing.T) {
	positional, flags := splitArgs([]string{"a", "--format=short", "b", "--completed"})
	assert.Equal(t, []string{"a", "b"}, positional)
	assert.Equal(t, map[string]string{"format": "short", "completed": ""}, flags)
}
