package task

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdate(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	desc := "x"
	done := false

	cases := []struct {
		name      string
		patch     Patch
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "description only",
			patch:     Patch{Description: &desc},
			wantQuery: "UPDATE tasks SET updated_at = $1, description = $2 WHERE id = $3 RETURNING " + taskColumns,
			wantArgs:  []any{at, "x", "id1"},
		},
		{
			name:      "completed only",
			patch:     Patch{Completed: &done},
			wantQuery: "UPDATE tasks SET updated_at = $1, completed = $2 WHERE id = $3 RETURNING " + taskColumns,
			wantArgs:  []any{at, false, "id1"},
		},
		{
			name:      "both",
			patch:     Patch{Description: &desc, Completed: &done},
			wantQuery: "UPDATE tasks SET updated_at = $1, description = $2, completed = $3 WHERE id = $4 RETURNING " + taskColumns,
			wantArgs:  []any{at, "x", false, "id1"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			query, args := buildUpdate("id1", tc.patch, at)
			assert.Equal(t, tc.wantQuery, query)
			assert.Equal(t, tc.wantArgs, args)
		})
	}
}

// setupPgStore connects to TEST_DATABASE_URL, skipping when it is not set.
func setupPgStore(t *testing.T) *PgStore {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Skipf("Skipping test: database not available: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("Skipping test: database ping failed: %v", err)
	}
	t.Cleanup(pool.Close)

	store := NewPgStore(pool)
	require.NoError(t, store.EnsureTable(ctx))
	_, err = pool.Exec(ctx, "DELETE FROM tasks")
	require.NoError(t, err)
	return store
}

func TestPgStoreLifecycle(t *testing.T) {
	store := setupPgStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, &Task{Description: "buy milk"})
	require.NoError(t, err)
	assert.False(t, created.Completed)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Description, got.Description)
	assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, 0)

	done := true
	updated, err := store.Update(ctx, created.ID, Patch{Completed: &done})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "buy milk", updated.Description)

	removed, err := store.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = store.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Update(ctx, created.ID, Patch{Completed: &done})
	assert.ErrorIs(t, err, ErrNotFound)

	removed, err = store.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestPgStoreListOrder(t *testing.T) {
	store := setupPgStore(t)
	ctx := context.Background()

	tasks, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	var ids []string
	for _, d := range []string{"a", "b", "c"} {
		created, err := store.Create(ctx, &Task{Description: d})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	tasks, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	for i := range tasks {
		assert.Equal(t, ids[i], tasks[i].ID)
	}

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
