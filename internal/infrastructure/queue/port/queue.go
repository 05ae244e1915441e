package port

import (
	"context"
	"errors"
	"time"
)

// Task is a background job: a stable type name and an opaque payload.
type Task struct {
	Type    string
	Payload []byte
}

// Handler processes a Task. A non-nil error schedules a retry unless it wraps
// ErrSkipRetry. Handlers must be idempotent.
type Handler func(ctx context.Context, task Task) error

// ErrSkipRetry marks a failure that retrying cannot fix, such as a malformed payload.
var ErrSkipRetry = errors.New("queue: skip retry")

// EnqueueOption controls enqueue behavior. Zero values mean "unspecified";
// adapters ignore what their backend does not support.
type EnqueueOption struct {
	Queue     string
	ProcessIn time.Duration
	ProcessAt time.Time // takes precedence over ProcessIn
	MaxRetry  int
	UniqueTTL time.Duration
	Retention time.Duration
	Deadline  time.Time
}

// Client enqueues tasks for background processing.
type Client interface {
	Enqueue(ctx context.Context, t Task, opts ...EnqueueOption) (id string, err error)
	Close() error
}

// Server runs background workers that handle tasks. Run blocks until ctx is
// canceled or Stop is called.
type Server interface {
	Register(taskType string, h Handler)
	Run(ctx context.Context) error
	Stop(ctx context.Context) error
}
