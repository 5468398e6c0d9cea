// Package reports persists finished research reports as text objects.
package reports

import "context"

const keyPrefix = "reports/"

// Key returns the object key for a task's report.
func Key(taskID string) string {
	return keyPrefix + taskID + ".txt"
}

type Store interface {
	Put(ctx context.Context, key string, text string) error
	Get(ctx context.Context, key string) (string, error)
	Ping(ctx context.Context) error
	Bucket() string
}
