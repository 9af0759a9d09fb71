package models

type Notification struct {
	ID        int64      `json:"id"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"is_read"`
	TaskID    int64      `json:"task_id,omitempty"`
	CreatedAt *Timestamp `json:"created_at,omitempty"`
}
