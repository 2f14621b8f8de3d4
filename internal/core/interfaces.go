package core

import (
	"context"

	"github.com/teemtee/tmt-web/internal/domain/model"
)

// This file contains port definitions (hexagonal-architecture style).
// These interfaces define the contracts between the HTTP/service layer and
// the adapters behind them. Services should depend on these interfaces,
// not on concrete implementations.

// TaskRepository is the durable, shared store of task records.
//
// Get never fails for an unknown or expired id: the store synthesizes a
// FAILURE record instead, because absence is meaningful application state.
// The returned error covers infrastructure failures only.
type TaskRepository interface {
	Create(ctx context.Context) (string, error)
	Get(ctx context.Context, id string) (model.Task, error)
	Update(ctx context.Context, id string, upd model.TaskUpdate) error
}

// ObjectRef names a test or plan within an external git repository.
// Ref and Path are optional.
type ObjectRef struct {
	URL  string
	Name string
	Ref  string
	Path string
}

// Resolver materializes an external repository and looks up the named
// object in its metadata tree.
type Resolver interface {
	Test(ctx context.Context, ref ObjectRef) (*model.TestMetadata, error)
	Plan(ctx context.Context, ref ObjectRef) (*model.PlanMetadata, error)
}

// Pinger reports connectivity of an external dependency, for health checks.
type Pinger interface {
	Ping(ctx context.Context) error
}
