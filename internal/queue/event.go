// Package queue contains the task-activity event types and the background
// consumer that turns them into an append-only activity log.
package queue

import "time"

// activityQueueName is the durable queue carrying activity events.
const activityQueueName = "task.activity"

// Actions recorded on the activity queue.
const (
	ActionUserRegistered = "user.registered"
	ActionTaskCreated    = "task.created"
	ActionTaskCompleted  = "task.completed"
	ActionTaskDeleted    = "task.deleted"
)

// ActivityEvent describes one user or task action.  TaskID and Title are
// zero for user-level actions.
type ActivityEvent struct {
	Action   string    `json:"action"`
	Username string    `json:"username"`
	TaskID   uint64    `json:"task_id,omitempty"`
	Title    string    `json:"title,omitempty"`
	At       time.Time `json:"at"`
}
