package models

// Watcher is a read-only observer of a task, mutually exclusive with being an
// assignee of the same task.
type Watcher struct {
	TaskID int64 `json:"task_id"`
	User   User  `json:"user"`
}
