// Package memory is an in-memory task registry for tests and local runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/topicline/research-service/internal/store"
)

type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]store.Task
}

func New() *MemoryStore {
	return &MemoryStore{tasks: map[string]store.Task{}}
}

// CreateTask mirrors the Postgres first-write-wins insert: an existing
// record for the same id is left untouched.
func (m *MemoryStore) CreateTask(ctx context.Context, task store.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tasks[task.ID]; exists {
		return nil
	}
	m.tasks[task.ID] = task
	return nil
}

func (m *MemoryStore) GetTask(ctx context.Context, taskID string) (*store.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	task, ok := m.tasks[taskID]
	if !ok {
		return nil, nil
	}
	copied := task
	return &copied, nil
}

func (m *MemoryStore) ListTasks(ctx context.Context) ([]store.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tasks := make([]store.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CompletedAt != tasks[j].CompletedAt {
			return tasks[i].CompletedAt > tasks[j].CompletedAt
		}
		return tasks[i].ID < tasks[j].ID
	})
	return tasks, nil
}
