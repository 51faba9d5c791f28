package task

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// GormStore is a task store on top of any GORM dialector.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore creates a GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// EnsureTable migrates the tasks table.
func (s *GormStore) EnsureTable(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Task{}); err != nil {
		return storageErr("migrate tasks table", err)
	}
	return nil
}

func (s *GormStore) Create(ctx context.Context, t *Task) (*Task, error) {
	created := *t
	created.ID = newID()
	created.CreatedAt = now()
	created.UpdatedAt = created.CreatedAt

	if err := s.db.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, storageErr("create task", err)
	}
	return &created, nil
}

func (s *GormStore) Get(ctx context.Context, id string) (*Task, error) {
	var t Task
	err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr(fmt.Sprintf("get task %s", id), err)
	}
	return &t, nil
}

func (s *GormStore) List(ctx context.Context) ([]Task, error) {
	tasks := []Task{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, storageErr("list tasks", err)
	}
	return tasks, nil
}

// Update writes only the columns present in p. A map is used so that
// explicit zero values ("" and false) are written too.
func (s *GormStore) Update(ctx context.Context, id string, p Patch) (*Task, error) {
	updates := map[string]any{"updated_at": now()}
	if p.Description != nil {
		updates["description"] = *p.Description
	}
	if p.Completed != nil {
		updates["completed"] = *p.Completed
	}

	var t Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Task{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.First(&t, "id = ?", id).Error
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr(fmt.Sprintf("update task %s", id), err)
	}
	return &t, nil
}

// Delete removes the row outright; Task has no DeletedAt so there is no soft delete.
func (s *GormStore) Delete(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&Task{}, "id = ?", id)
	if res.Error != nil {
		return false, storageErr(fmt.Sprintf("delete task %s", id), res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) Count(ctx context.Context) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Task{}).Count(&n).Error; err != nil {
		return 0, storageErr("count tasks", err)
	}
	return int(n), nil
}

func (s *GormStore) PendingCount(ctx context.Context) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Task{}).Where("completed = ?", false).Count(&n).Error; err != nil {
		return 0, storageErr("count pending tasks", err)
	}
	return int(n), nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return storageErr("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return storageErr("ping", err)
	}
	return nil
}
