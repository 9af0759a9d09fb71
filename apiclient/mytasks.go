package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/benleytuano/taskmap-frontend/models"
)

// MyTask pairs a task with the viewer's own assignment on it, as the
// assignee-facing endpoints return them.
type MyTask struct {
	Task       models.Task       `json:"task"`
	Assignment models.Assignment `json:"assignment"`
}

func (c *Client) ListMyTasks(ctx context.Context) ([]MyTask, error) {
	var data struct {
		MyTasks []MyTask `json:"my_tasks"`
	}
	if err := c.getJSON(ctx, c.TasksBreaker, "/my-tasks", &data); err != nil {
		return nil, err
	}
	return data.MyTasks, nil
}

func (c *Client) GetMyTask(ctx context.Context, assignmentID int64) (*MyTask, error) {
	var data MyTask
	if err := c.getJSON(ctx, c.TasksBreaker, fmt.Sprintf("/my-tasks/%d", assignmentID), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// AssignmentUpdateForm carries only the fields the assignee actually changed;
// empty fields are omitted from the request.
type AssignmentUpdateForm struct {
	Status       models.AssignmentStatus
	ProgressNote string
	Attachments  []models.PendingFile
}

// IsEmpty reports whether the form carries nothing to send.
func (f AssignmentUpdateForm) IsEmpty() bool {
	return f.Status == "" && f.ProgressNote == "" && len(f.Attachments) == 0
}

func (c *Client) UpdateMyAssignment(ctx context.Context, assignmentID int64, form AssignmentUpdateForm) (string, error) {
	fields := map[string][]string{}
	if form.Status != "" {
		fields["status"] = []string{string(form.Status)}
	}
	if form.ProgressNote != "" {
		fields["progress_note"] = []string{form.ProgressNote}
	}
	body, contentType, err := multipartBody(fields, "attachments[]", form.Attachments)
	if err != nil {
		return "", err
	}
	env, err := c.do(ctx, c.TasksBreaker, http.MethodPost, fmt.Sprintf("/my-tasks/%d/update", assignmentID), contentType, body)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) SubmitForReview(ctx context.Context, assignmentID int64) (string, error) {
	env, err := c.sendJSON(ctx, c.TasksBreaker, http.MethodPost, fmt.Sprintf("/my-tasks/%d/submit", assignmentID), nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
