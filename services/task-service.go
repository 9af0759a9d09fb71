package services

import (
	"context"

	"github.com/benleytuano/taskmap-frontend/apiclient"
	"github.com/benleytuano/taskmap-frontend/logging"
	"github.com/benleytuano/taskmap-frontend/models"
)

// TaskService orchestrates creator/admin-side task mutations: permission and
// membership preconditions first, then the request, then the local merge.
type TaskService struct {
	client      *apiclient.Client
	membership  *MembershipService
	permissions *PermissionService
}

func NewTaskService(client *apiclient.Client, membership *MembershipService, permissions *PermissionService) *TaskService {
	return &TaskService{client: client, membership: membership, permissions: permissions}
}

func (s *TaskService) ListTasks(ctx context.Context, actor models.User) ([]models.Task, error) {
	if !actor.Role.IsAdmin() {
		return nil, &apiclient.PermissionError{Message: "the task dashboard is admin-only"}
	}
	return s.client.ListTasks(ctx)
}

func (s *TaskService) ListWatchedTasks(ctx context.Context) ([]models.Task, error) {
	return s.client.ListWatchedTasks(ctx)
}

func (s *TaskService) GetTask(ctx context.Context, taskID int64) (*models.Task, error) {
	return s.client.GetTask(ctx, taskID)
}

func (s *TaskService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.client.ListUsers(ctx)
}

func (s *TaskService) CreateTask(ctx context.Context, form apiclient.TaskForm) (*models.Task, string, error) {
	fields := map[string][]string{}
	if form.Title == "" {
		fields["title"] = []string{"Title is required."}
	}
	if form.Deadline == "" {
		fields["deadline"] = []string{"Deadline is required."}
	}
	if form.Priority != "" && !form.Priority.Valid() {
		fields["priority"] = []string{"Priority must be urgent, rush or standard."}
	}
	if len(fields) > 0 {
		return nil, "", &apiclient.ValidationError{Message: "validation failed", Fields: fields}
	}
	if err := models.CheckAttachmentAdd(0, form.Attachments); err != nil {
		return nil, "", &apiclient.ValidationError{Message: err.Error()}
	}

	task, message, err := s.client.CreateTask(ctx, form)
	if err != nil {
		return nil, "", err
	}
	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %q created", form.Title)
	return task, message, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, actor models.User, task *models.Task, form apiclient.TaskForm) (*models.Task, string, error) {
	if !s.permissions.Resolve(actor, task).EditTask {
		return nil, "", &apiclient.PermissionError{Message: "you may not edit this task"}
	}
	remaining := len(task.Attachments) - len(form.RemoveAttachments)
	if remaining < 0 {
		remaining = 0
	}
	if err := models.CheckAttachmentAdd(remaining, form.Attachments); err != nil {
		return nil, "", &apiclient.ValidationError{Message: err.Error()}
	}
	return s.client.UpdateTask(ctx, task.ID, form)
}

func (s *TaskService) DeleteTask(ctx context.Context, actor models.User, task *models.Task) error {
	if !s.permissions.Resolve(actor, task).DeleteTask {
		return &apiclient.PermissionError{Message: "you may not delete this task"}
	}
	if err := s.client.DeleteTask(ctx, task.ID); err != nil {
		return err
	}
	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %d deleted", task.ID)
	return nil
}

func (s *TaskService) AddAssignees(ctx context.Context, actor models.User, task *models.Task, userIDs []int64) (string, error) {
	if !s.permissions.Resolve(actor, task).ManageAssignees {
		return "", &apiclient.PermissionError{Message: "you may not manage assignees on this task"}
	}
	if len(userIDs) == 0 {
		return "", &apiclient.ValidationError{Message: "select at least one user"}
	}
	if err := s.membership.CheckAddAssignees(task, userIDs); err != nil {
		return "", err
	}
	return s.client.AddAssignees(ctx, task.ID, userIDs)
}

// RemoveAssignment is deliberately unconditional beyond the permission check;
// business consequences (such as zero remaining assignees) are not validated.
func (s *TaskService) RemoveAssignment(ctx context.Context, actor models.User, task *models.Task, assignmentID int64) (string, error) {
	if !s.permissions.Resolve(actor, task).ManageAssignees {
		return "", &apiclient.PermissionError{Message: "you may not manage assignees on this task"}
	}
	message, err := s.client.RemoveAssignment(ctx, task.ID, assignmentID)
	if err != nil {
		return "", err
	}
	s.membership.RemoveAssignmentLocal(task, assignmentID)
	return message, nil
}

func (s *TaskService) AddWatchers(ctx context.Context, actor models.User, task *models.Task, userIDs []int64) (string, error) {
	if !s.permissions.Resolve(actor, task).ManageWatchers {
		return "", &apiclient.PermissionError{Message: "you may not manage watchers on this task"}
	}
	if len(userIDs) == 0 {
		return "", &apiclient.ValidationError{Message: "select at least one user"}
	}
	if err := s.membership.CheckAddWatchers(task, userIDs); err != nil {
		return "", err
	}
	return s.client.AddWatchers(ctx, task.ID, userIDs)
}

func (s *TaskService) RemoveWatcher(ctx context.Context, actor models.User, task *models.Task, userID int64) (string, error) {
	if !s.permissions.Resolve(actor, task).ManageWatchers {
		return "", &apiclient.PermissionError{Message: "you may not manage watchers on this task"}
	}
	message, err := s.client.RemoveWatcher(ctx, task.ID, userID)
	if err != nil {
		return "", err
	}
	s.membership.RemoveWatcherLocal(task, userID)
	return message, nil
}

// AddAttachments rejects anything past the 5-file cap or the per-file size
// limit before any upload starts.
func (s *TaskService) AddAttachments(ctx context.Context, actor models.User, task *models.Task, files []models.PendingFile) (string, error) {
	if !s.permissions.Resolve(actor, task).ManageAttachments {
		return "", &apiclient.PermissionError{Message: "you may not manage attachments on this task"}
	}
	if len(files) == 0 {
		return "", &apiclient.ValidationError{Message: "select a file to upload"}
	}
	if err := models.CheckAttachmentAdd(len(task.Attachments), files); err != nil {
		return "", &apiclient.ValidationError{Message: err.Error()}
	}
	return s.client.AddTaskAttachments(ctx, task.ID, files)
}

func (s *TaskService) RemoveAttachment(ctx context.Context, actor models.User, task *models.Task, attachmentID int64) (string, error) {
	if !s.permissions.Resolve(actor, task).ManageAttachments {
		return "", &apiclient.PermissionError{Message: "you may not manage attachments on this task"}
	}
	message, err := s.client.RemoveTaskAttachment(ctx, task.ID, attachmentID)
	if err != nil {
		return "", err
	}
	attachments := task.Attachments[:0]
	for _, a := range task.Attachments {
		if a.ID != attachmentID {
			attachments = append(attachments, a)
		}
	}
	task.Attachments = attachments
	return message, nil
}
