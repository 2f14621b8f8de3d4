// Package model defines the core data types used throughout the tmt-web service.
package model

import "time"

// TaskStatus represents the current status of an asynchronous task.
type TaskStatus string

const (
	// TaskStatusPending indicates a task has been created but not yet started.
	TaskStatusPending TaskStatus = "PENDING"
	// TaskStatusStarted indicates task execution has begun.
	TaskStatusStarted TaskStatus = "STARTED"
	// TaskStatusSuccess indicates a task has finished successfully.
	TaskStatusSuccess TaskStatus = "SUCCESS"
	// TaskStatusFailure indicates a task has failed.
	TaskStatusFailure TaskStatus = "FAILURE"
)

// Valid returns true if the TaskStatus is one of the known states.
func (s TaskStatus) Valid() bool {
	return s == TaskStatusPending || s == TaskStatusStarted ||
		s == TaskStatusSuccess || s == TaskStatusFailure
}

// Terminal returns true once a task can no longer change state.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusSuccess || s == TaskStatusFailure
}

// rank orders statuses along the forward-only state machine.
// PENDING < STARTED < {SUCCESS, FAILURE}.
func (s TaskStatus) rank() int {
	switch s {
	case TaskStatusPending:
		return 0
	case TaskStatusStarted:
		return 1
	case TaskStatusSuccess, TaskStatusFailure:
		return 2
	default:
		return -1
	}
}

// CanTransition reports whether moving from s to next is a legal forward
// transition. Terminal states accept no further transitions.
func (s TaskStatus) CanTransition(next TaskStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s.Terminal() {
		return false
	}
	return next.rank() > s.rank()
}

// Task is a unit of asynchronous work tracked by id through a
// PENDING/STARTED/SUCCESS/FAILURE lifecycle. Result and Error are mutually
// exclusive and both absent while the status is non-terminal.
type Task struct {
	ID        string     `json:"id"`
	Status    TaskStatus `json:"status"`
	Result    *string    `json:"result"`
	Error     *string    `json:"error"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// TaskUpdate carries the fields merged into an existing task record.
// Nil Result/Error leave the stored values untouched.
type TaskUpdate struct {
	Status TaskStatus
	Result *string
	Error  *string
}

// NewTask returns a fresh PENDING task record.
func NewTask(id string, now time.Time) Task {
	return Task{
		ID:        id,
		Status:    TaskStatusPending,
		CreatedAt: now,
	}
}

// NotFoundTask synthesizes the record returned for an unknown or expired id.
// Absence is application state, not a store error.
func NotFoundTask(id string) Task {
	msg := "Task not found"
	return Task{ID: id, Status: TaskStatusFailure, Error: &msg}
}

// CorruptedTask synthesizes the record returned when stored task data
// cannot be decoded.
func CorruptedTask(id string) Task {
	msg := "Corrupted task data"
	return Task{ID: id, Status: TaskStatusFailure, Error: &msg}
}
