package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type TaskPriority string

const (
	PriorityUrgent   TaskPriority = "urgent"
	PriorityRush     TaskPriority = "rush"
	PriorityStandard TaskPriority = "standard"
)

var priorityLabels = map[TaskPriority]string{
	PriorityUrgent:   "Urgent",
	PriorityRush:     "Rush",
	PriorityStandard: "Standard",
}

func (p TaskPriority) Valid() bool {
	_, ok := priorityLabels[p]
	return ok
}

func (p TaskPriority) Label() string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}
	return string(p)
}

// UnmarshalJSON normalizes the same string-or-object split the status field
// has; some endpoints return priority as {"value","label"}.
func (p *TaskPriority) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		var obj struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("unrecognized priority payload: %s", data)
		}
		raw = obj.Value
	}
	priority := TaskPriority(raw)
	if raw != "" && !priority.Valid() {
		return fmt.Errorf("unknown priority %q", raw)
	}
	*p = priority
	return nil
}

func (p TaskPriority) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(p))
}

// StatusChange is one entry of a task's status history, kept for display.
type StatusChange struct {
	AssigneeName string           `json:"assignee_name"`
	FromStatus   AssignmentStatus `json:"from_status"`
	ToStatus     AssignmentStatus `json:"to_status"`
	ChangedAt    *Timestamp       `json:"changed_at,omitempty"`
}

// Task owns its assignments, watchers and attachments; they are
// cascade-deleted with it. Users are referenced, never owned.
type Task struct {
	ID            int64          `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Deadline      *Timestamp     `json:"deadline,omitempty"`
	Priority      TaskPriority   `json:"priority"`
	CreatedBy     User           `json:"created_by"`
	CreatedAt     *Timestamp     `json:"created_at,omitempty"`
	Attachments   []Attachment   `json:"attachments,omitempty"`
	Watchers      []Watcher      `json:"watchers,omitempty"`
	Assignments   []Assignment   `json:"assignments,omitempty"`
	StatusHistory []StatusChange `json:"status_history,omitempty"`
}

// AssignmentFor returns the user's assignment on this task, or nil.
func (t *Task) AssignmentFor(userID int64) *Assignment {
	for i := range t.Assignments {
		if t.Assignments[i].Assignee.ID == userID {
			return &t.Assignments[i]
		}
	}
	return nil
}

func (t *Task) IsAssignee(userID int64) bool {
	return t.AssignmentFor(userID) != nil
}

func (t *Task) IsWatcher(userID int64) bool {
	for _, w := range t.Watchers {
		if w.User.ID == userID {
			return true
		}
	}
	return false
}

// Progress returns the terminal and total assignment counts for the dashboard
// summary card.
func (t *Task) Progress() (done, total int) {
	for _, a := range t.Assignments {
		if a.Status.IsTerminal() {
			done++
		}
	}
	return done, len(t.Assignments)
}

// IsOverdue reports whether the deadline has passed. Callers combine this
// with the viewer's assignment status: terminal assignments are never shown
// as overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Deadline != nil && !t.Deadline.IsZero() && t.Deadline.Before(now)
}
