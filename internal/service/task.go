// Package service provides the business logic of the tmt-web service.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/teemtee/tmt-web/internal/core"
	"github.com/teemtee/tmt-web/internal/domain/model"
)

// Work is a unit of asynchronous work. It returns the serialized or
// pre-formatted result stored on the task record.
type Work func(ctx context.Context) (string, error)

// TaskService runs units of work out-of-band from the request/response
// cycle and drives the task record through its state machine:
//
//	PENDING --(execution begins)--> STARTED --(returns)--> SUCCESS
//	                                     \--(errors)-----> FAILURE
//
// There is no retry and no cancellation: once scheduled, a unit of work
// runs to exactly one terminal outcome.
type TaskService struct {
	repo   core.TaskRepository
	logger *slog.Logger
	sem    *semaphore.Weighted
	wg     sync.WaitGroup
}

// TaskServiceOptions groups dependencies for TaskService.
type TaskServiceOptions struct {
	Repo        core.TaskRepository // Required: task store
	Concurrency int                 // Optional: max units of work in flight; defaults to 4
	Logger      *slog.Logger        // Optional: structured logger
}

// NewTaskService creates a TaskService. Panics if the task store is missing.
func NewTaskService(opts TaskServiceOptions) *TaskService {
	if opts.Repo == nil {
		panic("service: TaskService requires a TaskRepository")
	}
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 4
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{
		repo:   opts.Repo,
		logger: logger,
		sem:    semaphore.NewWeighted(int64(concurrency)),
	}
}

// Execute creates a task record and schedules work for out-of-band
// execution, returning the task id immediately. The call never blocks on
// work completion; the concurrency limit is applied inside the spawned
// goroutine.
func (s *TaskService) Execute(ctx context.Context, work Work) (string, error) {
	id, err := s.repo.Create(ctx)
	if err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// Detach from the request context: the work must outlive the
		// HTTP exchange that scheduled it.
		runCtx := context.Background()
		if acquireErr := s.sem.Acquire(runCtx, 1); acquireErr != nil {
			s.fail(runCtx, id, acquireErr.Error())
			return
		}
		defer s.sem.Release(1)
		s.run(runCtx, id, work)
	}()

	return id, nil
}

// run drives a single task through STARTED to a terminal state. No error
// or panic escapes past this boundary; failures become task state.
func (s *TaskService) run(ctx context.Context, id string, work Work) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.ErrorContext(ctx, "task panicked", "task_id", id, "panic", rec)
			s.fail(ctx, id, fmt.Sprintf("%v", rec))
		}
	}()

	if err := s.repo.Update(ctx, id, model.TaskUpdate{Status: model.TaskStatusStarted}); err != nil {
		s.logger.ErrorContext(ctx, "failed to mark task started", "task_id", id, "error", err)
	}
	s.logger.DebugContext(ctx, "starting task", "task_id", id)

	result, err := work(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "task failed", "task_id", id, "error", err)
		s.fail(ctx, id, err.Error())
		return
	}

	if updateErr := s.repo.Update(ctx, id, model.TaskUpdate{
		Status: model.TaskStatusSuccess,
		Result: &result,
	}); updateErr != nil {
		s.logger.ErrorContext(ctx, "failed to store task result", "task_id", id, "error", updateErr)
		return
	}
	s.logger.DebugContext(ctx, "task completed", "task_id", id)
}

// fail records a FAILURE outcome, preserving the original message verbatim
// for client-facing classification.
func (s *TaskService) fail(ctx context.Context, id, msg string) {
	if err := s.repo.Update(ctx, id, model.TaskUpdate{
		Status: model.TaskStatusFailure,
		Error:  &msg,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to mark task failed", "task_id", id, "error", err)
	}
}

// Get reads the current task record through the store.
func (s *TaskService) Get(ctx context.Context, id string) (model.Task, error) {
	return s.repo.Get(ctx, id)
}

// Drain blocks until all in-flight work has reached a terminal state.
// Used during graceful shutdown.
func (s *TaskService) Drain() {
	s.wg.Wait()
}
