package task

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Task is a single to-do item.
type Task struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Description string    `json:"description" gorm:"not null"`
	Completed   bool      `json:"completed" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null"`
}

// TableName pins the table name for both store implementations.
func (Task) TableName() string {
	return "tasks"
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// Empty reports whether the patch carries no fields.
func (p Patch) Empty() bool {
	return p.Description == nil && p.Completed == nil
}

// Store is the contract for task persistence.
type Store interface {
	// Create assigns an ID and timestamps and persists t.
	Create(ctx context.Context, t *Task) (*Task, error)

	// Get returns ErrNotFound when no task has the given ID.
	Get(ctx context.Context, id string) (*Task, error)

	// List returns every task in ascending ID order.
	List(ctx context.Context) ([]Task, error)

	// Update applies only the fields present in p and refreshes UpdatedAt.
	Update(ctx context.Context, id string, p Patch) (*Task, error)

	// Delete reports whether a task was removed.
	Delete(ctx context.Context, id string) (bool, error)

	Count(ctx context.Context) (int, error)
	PendingCount(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
	EnsureTable(ctx context.Context) error
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
