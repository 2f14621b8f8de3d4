// Package taskstore contains a simple hand-written in-memory task store
// for unit tests. It mirrors the semantics of the Redis-backed store
// without needing infrastructure.
package taskstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teemtee/tmt-web/internal/core"
	"github.com/teemtee/tmt-web/internal/domain/model"
)

// Ensure compile-time conformance to the port.
var _ core.TaskRepository = (*MemoryTaskStore)(nil)

// MemoryTaskStore keeps task records in a map guarded by a mutex.
// Optional hook functions allow simulating infrastructure failures.
type MemoryTaskStore struct {
	mu    sync.Mutex
	tasks map[string]model.Task

	// Optional failure injection hooks.
	CreateErr error
	GetErr    error
	UpdateErr error

	// Now allows pinning time in tests. Defaults to time.Now.
	Now func() time.Time
}

// NewMemoryTaskStore creates an empty in-memory task store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		tasks: make(map[string]model.Task),
		Now:   time.Now,
	}
}

// Create registers a fresh PENDING record and returns its id.
func (s *MemoryTaskStore) Create(_ context.Context) (string, error) {
	if s.CreateErr != nil {
		return "", s.CreateErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.tasks[id] = model.NewTask(id, s.Now().UTC())
	return id, nil
}

// Get returns the stored record, or a synthesized not-found FAILURE record
// for unknown ids.
func (s *MemoryTaskStore) Get(_ context.Context, id string) (model.Task, error) {
	if s.GetErr != nil {
		return model.Task{}, s.GetErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return model.NotFoundTask(id), nil
	}
	return task, nil
}

// Update merges the update into an existing record. Updates to unknown ids
// are silently dropped, and terminal records refuse further transitions.
func (s *MemoryTaskStore) Update(_ context.Context, id string, upd model.TaskUpdate) error {
	if s.UpdateErr != nil {
		return s.UpdateErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil
	}
	if !task.Status.CanTransition(upd.Status) {
		return nil
	}

	task.Status = upd.Status
	if upd.Result != nil {
		task.Result = upd.Result
	}
	if upd.Error != nil {
		task.Error = upd.Error
	}
	now := s.Now().UTC()
	task.UpdatedAt = &now

	s.tasks[id] = task
	return nil
}

// Put stores a record directly, bypassing transition checks. Useful for
// seeding test fixtures.
func (s *MemoryTaskStore) Put(task model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task
}

// Snapshot returns a copy of the stored record and whether it exists.
func (s *MemoryTaskStore) Snapshot(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	return task, ok
}
