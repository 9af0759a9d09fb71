package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/benleytuano/taskmap-frontend/models"
)

// TaskForm carries the multipart fields of the create/update task endpoints.
type TaskForm struct {
	Title             string
	Description       string
	Deadline          string // YYYY-MM-DD
	Priority          models.TaskPriority
	AssignedTo        []int64
	Watchers          []int64
	Attachments       []models.PendingFile
	RemoveAttachments []int64
}

func (f TaskForm) fields() map[string][]string {
	fields := map[string][]string{}
	if f.Title != "" {
		fields["title"] = []string{f.Title}
	}
	if f.Description != "" {
		fields["description"] = []string{f.Description}
	}
	if f.Deadline != "" {
		fields["deadline"] = []string{f.Deadline}
	}
	if f.Priority != "" {
		fields["priority"] = []string{string(f.Priority)}
	}
	for _, id := range f.AssignedTo {
		fields["assigned_to[]"] = append(fields["assigned_to[]"], strconv.FormatInt(id, 10))
	}
	for _, id := range f.Watchers {
		fields["watchers[]"] = append(fields["watchers[]"], strconv.FormatInt(id, 10))
	}
	for _, id := range f.RemoveAttachments {
		fields["remove_attachments[]"] = append(fields["remove_attachments[]"], strconv.FormatInt(id, 10))
	}
	return fields
}

func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var data struct {
		Tasks []models.Task `json:"tasks"`
	}
	if err := c.getJSON(ctx, c.TasksBreaker, "/tasks", &data); err != nil {
		return nil, err
	}
	return data.Tasks, nil
}

func (c *Client) ListWatchedTasks(ctx context.Context) ([]models.Task, error) {
	var data struct {
		WatchedTasks []models.Task `json:"watched_tasks"`
	}
	if err := c.getJSON(ctx, c.TasksBreaker, "/watching-tasks", &data); err != nil {
		return nil, err
	}
	return data.WatchedTasks, nil
}

func (c *Client) GetTask(ctx context.Context, taskID int64) (*models.Task, error) {
	var data struct {
		Task models.Task `json:"task"`
	}
	if err := c.getJSON(ctx, c.TasksBreaker, fmt.Sprintf("/tasks/%d", taskID), &data); err != nil {
		return nil, err
	}
	return &data.Task, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var data struct {
		Users []models.User `json:"users"`
	}
	if err := c.getJSON(ctx, c.TasksBreaker, "/users", &data); err != nil {
		return nil, err
	}
	return data.Users, nil
}

func (c *Client) CreateTask(ctx context.Context, form TaskForm) (*models.Task, string, error) {
	body, contentType, err := multipartBody(form.fields(), "attachments[]", form.Attachments)
	if err != nil {
		return nil, "", err
	}
	env, err := c.do(ctx, c.TasksBreaker, http.MethodPost, "/tasks", contentType, body)
	if err != nil {
		return nil, "", err
	}
	var data struct {
		Task *models.Task `json:"task"`
	}
	if err := env.decodeData(&data); err != nil {
		return nil, "", err
	}
	return data.Task, env.Message, nil
}

// UpdateTask posts the multipart update with the backend's method override,
// the same shape the create endpoint takes plus watchers and removals.
func (c *Client) UpdateTask(ctx context.Context, taskID int64, form TaskForm) (*models.Task, string, error) {
	body, contentType, err := multipartBody(form.fields(), "attachments[]", form.Attachments)
	if err != nil {
		return nil, "", err
	}
	path := fmt.Sprintf("/tasks/%d?_method=PUT", taskID)
	env, err := c.do(ctx, c.TasksBreaker, http.MethodPost, path, contentType, body)
	if err != nil {
		return nil, "", err
	}
	var data struct {
		Task *models.Task `json:"task"`
	}
	if err := env.decodeData(&data); err != nil {
		return nil, "", err
	}
	return data.Task, env.Message, nil
}

func (c *Client) DeleteTask(ctx context.Context, taskID int64) error {
	_, err := c.do(ctx, c.TasksBreaker, http.MethodDelete, fmt.Sprintf("/tasks/%d", taskID), "", nil)
	return err
}

func (c *Client) AddWatchers(ctx context.Context, taskID int64, userIDs []int64) (string, error) {
	payload := map[string][]int64{"user_ids": userIDs}
	env, err := c.sendJSON(ctx, c.TasksBreaker, http.MethodPost, fmt.Sprintf("/tasks/%d/watchers", taskID), payload)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) RemoveWatcher(ctx context.Context, taskID, userID int64) (string, error) {
	env, err := c.do(ctx, c.TasksBreaker, http.MethodDelete, fmt.Sprintf("/tasks/%d/watchers/%d", taskID, userID), "", nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) AddAssignees(ctx context.Context, taskID int64, userIDs []int64) (string, error) {
	payload := map[string][]int64{"user_ids": userIDs}
	env, err := c.sendJSON(ctx, c.TasksBreaker, http.MethodPost, fmt.Sprintf("/tasks/%d/assignments", taskID), payload)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) RemoveAssignment(ctx context.Context, taskID, assignmentID int64) (string, error) {
	env, err := c.do(ctx, c.TasksBreaker, http.MethodDelete, fmt.Sprintf("/tasks/%d/assignments/%d", taskID, assignmentID), "", nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) ApproveAssignment(ctx context.Context, taskID, assignmentID int64) (string, error) {
	env, err := c.sendJSON(ctx, c.TasksBreaker, http.MethodPut, fmt.Sprintf("/tasks/%d/assignments/%d/approve", taskID, assignmentID), nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) RequestRevision(ctx context.Context, taskID, assignmentID int64, remarks string) (string, error) {
	payload := map[string]string{"assigner_remarks": remarks}
	env, err := c.sendJSON(ctx, c.TasksBreaker, http.MethodPut, fmt.Sprintf("/tasks/%d/assignments/%d/revision", taskID, assignmentID), payload)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) AddTaskAttachments(ctx context.Context, taskID int64, files []models.PendingFile) (string, error) {
	body, contentType, err := multipartBody(nil, "files[]", files)
	if err != nil {
		return "", err
	}
	env, err := c.do(ctx, c.TasksBreaker, http.MethodPost, fmt.Sprintf("/tasks/%d/attachments", taskID), contentType, body)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) RemoveTaskAttachment(ctx context.Context, taskID, attachmentID int64) (string, error) {
	env, err := c.do(ctx, c.TasksBreaker, http.MethodDelete, fmt.Sprintf("/tasks/%d/attachments/%d", taskID, attachmentID), "", nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
