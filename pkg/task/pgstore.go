package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = "id, description, completed, created_at, updated_at"

// PgStore is a PostgreSQL-backed task store.
type PgStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PgStore)(nil)

// NewPgStore creates a PgStore.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// EnsureTable creates the tasks table if it doesn't exist.
func (s *PgStore) EnsureTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			id          TEXT PRIMARY KEY,
			description TEXT NOT NULL CHECK (description <> ''),
			completed   BOOLEAN NOT NULL DEFAULT FALSE,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return storageErr("ensure tasks table", err)
	}
	_, err = s.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_tasks_completed ON tasks(completed)`)
	if err != nil {
		return storageErr("ensure tasks index", err)
	}
	return nil
}

// Create inserts a new task.
func (s *PgStore) Create(ctx context.Context, t *Task) (*Task, error) {
	created := *t
	created.ID = newID()
	created.CreatedAt = now()
	created.UpdatedAt = created.CreatedAt

	_, err := s.pool.Exec(ctx, `
		INSERT INTO tasks (id, description, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		created.ID, created.Description, created.Completed, created.CreatedAt, created.UpdatedAt)
	if err != nil {
		return nil, storageErr("create task", err)
	}
	return &created, nil
}

// Get retrieves a single task by ID.
func (s *PgStore) Get(ctx context.Context, id string) (*Task, error) {
	var t Task
	err := s.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id).
		Scan(&t.ID, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr(fmt.Sprintf("get task %s", id), err)
	}
	return &t, nil
}

// List returns all tasks in ascending ID order. IDs are UUIDv7, so this is creation order.
func (s *PgStore) List(ctx context.Context) ([]Task, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id ASC`)
	if err != nil {
		return nil, storageErr("list tasks", err)
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, storageErr("scan task", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("row iteration", err)
	}
	return tasks, nil
}

// Update applies the fields present in p in a single statement.
func (s *PgStore) Update(ctx context.Context, id string, p Patch) (*Task, error) {
	query, args := buildUpdate(id, p, now())

	var t Task
	err := s.pool.QueryRow(ctx, query, args...).
		Scan(&t.ID, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr(fmt.Sprintf("update task %s", id), err)
	}
	return &t, nil
}

// Delete removes a task and reports whether it existed.
func (s *PgStore) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return false, storageErr(fmt.Sprintf("delete task %s", id), err)
	}
	return tag.RowsAffected() > 0, nil
}

// Count returns total task count.
func (s *PgStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		return 0, storageErr("count tasks", err)
	}
	return n, nil
}

// PendingCount returns count of tasks not yet completed.
func (s *PgStore) PendingCount(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE NOT completed`).Scan(&n); err != nil {
		return 0, storageErr("count pending tasks", err)
	}
	return n, nil
}

// Ping checks that the database is reachable.
func (s *PgStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return storageErr("ping", err)
	}
	return nil
}

// buildUpdate builds the SET clause from the fields present in p.
// updated_at is always refreshed.
func buildUpdate(id string, p Patch, at time.Time) (string, []any) {
	setClauses := "updated_at = $1"
	args := []any{at}
	argIdx := 2

	if p.Description != nil {
		setClauses += fmt.Sprintf(", description = $%d", argIdx)
		args = append(args, *p.Description)
		argIdx++
	}
	if p.Completed != nil {
		setClauses += fmt.Sprintf(", completed = $%d", argIdx)
		args = append(args, *p.Completed)
		argIdx++
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = $%d RETURNING %s", setClauses, argIdx, taskColumns)
	return query, args
}
