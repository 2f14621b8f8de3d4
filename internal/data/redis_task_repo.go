// Package data provides storage adapters for the tmt-web service.
package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/teemtee/tmt-web/internal/domain/model"
)

const taskKeyPrefix = "task:"

// DefaultTaskRetention is how long task records live in the store before
// expiring, regardless of the terminal state reached.
const DefaultTaskRetention = 24 * time.Hour

// updateRetries bounds optimistic-lock retries when a concurrent writer
// touches the same record between WATCH and EXEC.
const updateRetries = 3

// RedisTaskRepo is the Redis-backed Task Store. Records are JSON documents
// keyed by "task:<id>" with a fixed TTL. All readers observe a record only
// via whole-value SET, so a partially-updated record is never visible.
type RedisTaskRepo struct {
	client    redis.UniversalClient
	retention time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// RedisTaskRepoOptions configures a RedisTaskRepo.
type RedisTaskRepoOptions struct {
	Client    redis.UniversalClient
	Retention time.Duration // defaults to DefaultTaskRetention
	Logger    *slog.Logger  // defaults to slog.Default()
}

// NewRedisTaskRepo creates a Redis-backed task repository.
func NewRedisTaskRepo(opts RedisTaskRepoOptions) *RedisTaskRepo {
	retention := opts.Retention
	if retention <= 0 {
		retention = DefaultTaskRetention
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisTaskRepo{
		client:    opts.Client,
		retention: retention,
		logger:    logger,
		now:       time.Now,
	}
}

func taskKey(id string) string { return taskKeyPrefix + id }

// Create allocates a fresh id and inserts a PENDING record with the
// configured expiry. UUIDv4 keeps the identifier space large enough that
// collision with a live id is negligible.
func (r *RedisTaskRepo) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()
	task := model.NewTask(id, r.now().UTC())

	data, err := json.Marshal(task)
	if err != nil {
		return "", fmt.Errorf("marshal task: %w", err)
	}

	if setErr := r.client.Set(ctx, taskKey(id), data, r.retention).Err(); setErr != nil {
		return "", fmt.Errorf("store task: %w", setErr)
	}

	return id, nil
}

// Get returns the task record for id. An unknown or expired id yields a
// synthesized FAILURE record with "Task not found"; undecodable stored data
// yields "Corrupted task data". The error return covers infrastructure
// failures only.
func (r *RedisTaskRepo) Get(ctx context.Context, id string) (model.Task, error) {
	data, err := r.client.Get(ctx, taskKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.NotFoundTask(id), nil
		}
		return model.Task{}, fmt.Errorf("redis get: %w", err)
	}

	var task model.Task
	if unmarshalErr := json.Unmarshal([]byte(data), &task); unmarshalErr != nil {
		r.logger.ErrorContext(ctx, "failed to decode task data", "task_id", id, "error", unmarshalErr)
		return model.CorruptedTask(id), nil
	}

	return task, nil
}

// Update merges upd into the stored record and refreshes updated_at. The
// read-modify-write runs under WATCH so an interleaved writer forces a
// retry instead of a lost update. Updating a vanished record is a no-op:
// the work it represents has become unobservable, which is fine because no
// client holds its id. Status changes that run the state machine backwards,
// repeat a terminal state, or leave a terminal state are refused.
func (r *RedisTaskRepo) Update(ctx context.Context, id string, upd model.TaskUpdate) error {
	key := taskKey(id)

	apply := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				r.logger.WarnContext(ctx, "trying to update non-existent task", "task_id", id)
				return nil
			}
			return fmt.Errorf("redis get: %w", err)
		}

		var task model.Task
		if unmarshalErr := json.Unmarshal([]byte(data), &task); unmarshalErr != nil {
			r.logger.ErrorContext(ctx, "failed to decode task data on update",
				"task_id", id, "error", unmarshalErr)
			return nil
		}

		if !task.Status.CanTransition(upd.Status) {
			r.logger.WarnContext(ctx, "refusing illegal status transition",
				"task_id", id, "from", task.Status, "to", upd.Status)
			return nil
		}

		task.Status = upd.Status
		if upd.Result != nil {
			task.Result = upd.Result
		}
		if upd.Error != nil {
			task.Error = upd.Error
		}
		now := r.now().UTC()
		task.UpdatedAt = &now

		encoded, marshalErr := json.Marshal(task)
		if marshalErr != nil {
			return fmt.Errorf("marshal task: %w", marshalErr)
		}

		_, pipeErr := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, r.retention)
			return nil
		})
		return pipeErr
	}

	var err error
	for range updateRetries {
		err = r.client.Watch(ctx, apply, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("update task %s: %w", id, err)
	}
	return nil
}

// Ping reports store connectivity for the health endpoint.
func (r *RedisTaskRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
