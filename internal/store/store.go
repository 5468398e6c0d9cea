package store

import "context"

type TaskStatus string

const (
	StatusCompleted TaskStatus = "COMPLETED"
	StatusFailed    TaskStatus = "FAILED"
)

// Task is the terminal record of one research invocation. A task is written
// exactly once; there is no update path.
type Task struct {
	ID           string
	Topic        string
	ReportKey    string
	Status       TaskStatus
	ErrorMessage string
	CompletedAt  string
}

type Store interface {
	CreateTask(ctx context.Context, task Task) error
	GetTask(ctx context.Context, taskID string) (*Task, error)
	ListTasks(ctx context.Context) ([]Task, error)
}
