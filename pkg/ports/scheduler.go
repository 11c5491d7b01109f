package ports

import "time"

// Task is a running periodic task.
type Task interface {
	// Stop cancels the task. It never blocks and may be called from inside
	// the task's own callback.
	Stop()
}

// Scheduler runs periodic tasks.
type Scheduler interface {
	Now() time.Time
	Every(interval time.Duration, fn func()) Task
}
