package task

import (
	"context"
	"fmt"
	"strings"
)

// Service validates requests and orchestrates the store. It is the only
// place validation and existence errors originate.
type Service struct {
	store Store
}

// NewService creates a Service over store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Stats summarizes the task table.
type Stats struct {
	Tasks        int `json:"tasks"`
	PendingTasks int `json:"pending_tasks"`
}

func (s *Service) Create(ctx context.Context, description string, completed bool) (*Task, error) {
	if strings.TrimSpace(description) == "" {
		return nil, invalid("description is required")
	}
	return s.store.Create(ctx, &Task{Description: description, Completed: completed})
}

func (s *Service) Get(ctx context.Context, id string) (*Task, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Task, error) {
	return s.store.List(ctx)
}

// Update applies a partial update. Fields absent from p are left as they are.
func (s *Service) Update(ctx context.Context, id string, p Patch) (*Task, error) {
	if p.Empty() {
		return nil, invalid("no fields to update")
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return nil, invalid("description cannot be empty")
	}
	return s.store.Update(ctx, id, p)
}

// Complete sets the completion flag. Both directions are allowed.
func (s *Service) Complete(ctx context.Context, id string, completed *bool) (*Task, error) {
	if completed == nil {
		return nil, invalid("completed status is required")
	}
	return s.store.Update(ctx, id, Patch{Completed: completed})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	pending, err := s.store.PendingCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return &Stats{Tasks: total, PendingTasks: pending}, nil
}

// Ping reports whether the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
