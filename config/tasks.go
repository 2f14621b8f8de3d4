package config

import "time"

// TasksConfig contains task store and executor configuration.
type TasksConfig struct {
	// Retention is how long finished and pending task records live in Redis.
	Retention time.Duration `env:"TASK_RETENTION" envDefault:"24h"`

	// Concurrency caps the number of tasks processed at once.
	Concurrency int `env:"TASK_CONCURRENCY" envDefault:"4"`

	// Sync processes requests inline instead of dispatching tasks.
	// Intended for tests and small deployments.
	Sync bool `env:"TASKS_SYNC" envDefault:"false"`
}

// Sanitize applies guardrails to task configuration values.
func (t *TasksConfig) Sanitize() {
	if t.Retention <= 0 {
		t.Retention = 24 * time.Hour
	}
	if t.Concurrency < 1 {
		t.Concurrency = 1
	}
}
