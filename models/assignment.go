package models

// Assignment is one assignee's mutable status record on one task. At most one
// exists per (task, assignee) pair; it is created when the assignee is added
// and cascade-deleted with the task.
type Assignment struct {
	ID              int64            `json:"id"`
	TaskID          int64            `json:"task_id"`
	Assignee        User             `json:"assignee"`
	Status          AssignmentStatus `json:"status"`
	ProgressNote    string           `json:"progress_note,omitempty"`
	AssignerRemarks string           `json:"assigner_remarks,omitempty"`
	SubmittedAt     *Timestamp       `json:"submitted_at,omitempty"`
	ApprovedAt      *Timestamp       `json:"approved_at,omitempty"`
	UpdatedAt       *Timestamp       `json:"updated_at,omitempty"`
	Attachments     []Attachment     `json:"attachments,omitempty"`
}
