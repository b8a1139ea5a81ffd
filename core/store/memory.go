package store

import (
	"context"
	"sort"
	"sync"

	"github.com/campusplan/studyplan/core/model"
)

// MemoryStore is an in-memory Store used in tests and as a throwaway backend.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]model.Task
	avail map[string]model.Availability
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks: make(map[string]model.Task),
		avail: make(map[string]model.Availability),
	}
}

func (m *MemoryStore) CreateTask(_ context.Context, t model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[t.ID] = t
	return nil
}

func (m *MemoryStore) GetTask(_ context.Context, id string) (model.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	return t, nil
}

func (m *MemoryStore) ListTasks(_ context.Context, userID string) ([]model.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Task
	for _, t := range m.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueAt.Equal(out[j].DueAt) {
			return out[i].DueAt.Before(out[j].DueAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) UpdateTask(_ context.Context, t model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[t.ID]; !ok {
		return ErrNotFound
	}
	m.tasks[t.ID] = t
	return nil
}

func (m *MemoryStore) DeleteTask(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *MemoryStore) GetAvailability(_ context.Context, userID string) (model.Availability, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.avail[userID]; ok {
		return a, nil
	}
	return model.DefaultAvailability(userID), nil
}

func (m *MemoryStore) UpsertAvailability(_ context.Context, a model.Availability) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.avail[a.UserID] = a
	return nil
}

func (m *MemoryStore) Close() error { return nil }
