package handlers

import (
	"context"
	"fmt"

	"github.com/benleytuano/taskmap-frontend/apiclient"
	"github.com/benleytuano/taskmap-frontend/logging"
	"github.com/benleytuano/taskmap-frontend/models"
	"github.com/benleytuano/taskmap-frontend/services"
	"github.com/benleytuano/taskmap-frontend/session"
)

// TaskActions is the creator/admin-side action boundary for a loaded task:
// every mutation runs precondition checks, locks its operation id for the
// duration of the round trip, and merges the confirmed result back into the
// loaded view. On failure the view is left exactly as it was.
type TaskActions struct {
	session     *session.Session
	tasks       *services.TaskService
	assignments *services.AssignmentService
	permissions *services.PermissionService
	membership  *services.MembershipService
}

func NewTaskActions(sess *session.Session, tasks *services.TaskService, assignments *services.AssignmentService, permissions *services.PermissionService, membership *services.MembershipService) *TaskActions {
	return &TaskActions{
		session:     sess,
		tasks:       tasks,
		assignments: assignments,
		permissions: permissions,
		membership:  membership,
	}
}

// run executes one mutating action under its in-flight guard. A duplicate
// submission while the first is still pending is rejected locally.
func (h *TaskActions) run(opID string, fn func() (string, error)) ActionResult {
	if !h.session.InFlight().Begin(opID) {
		return ActionResult{Message: "This action is already in progress"}
	}
	defer h.session.InFlight().End(opID)

	message, err := fn()
	if err != nil {
		result := resultFromError(err)
		if result.Redirect == LoginRoute {
			h.session.Clear()
		}
		logging.Logger.Warnf("Event ID: ACTION_FAILED, Description: Action %s failed: %v", opID, err)
		return result
	}
	return success(message)
}

func (h *TaskActions) actor() (models.User, *ActionResult) {
	user, ok := h.session.User()
	if !ok {
		return models.User{}, &ActionResult{Message: "authentication required", Redirect: LoginRoute}
	}
	return user, nil
}

// LoadDashboard returns the admin-wide task list; everyone else is redirected
// to the personal task list instead of seeing an error.
func (h *TaskActions) LoadDashboard(ctx context.Context) ([]models.Task, ActionResult) {
	actor, redirect := h.actor()
	if redirect != nil {
		return nil, *redirect
	}
	if !h.permissions.Resolve(actor, &models.Task{}).AdminDashboard {
		return nil, ActionResult{Redirect: MyTasksRoute}
	}
	tasks, err := h.tasks.ListTasks(ctx, actor)
	if err != nil {
		return nil, resultFromError(err)
	}
	return tasks, success("")
}

// LoadWatchedTasks returns the tasks the viewer watches.
func (h *TaskActions) LoadWatchedTasks(ctx context.Context) ([]models.Task, ActionResult) {
	if _, redirect := h.actor(); redirect != nil {
		return nil, *redirect
	}
	tasks, err := h.tasks.ListWatchedTasks(ctx)
	if err != nil {
		return nil, resultFromError(err)
	}
	return tasks, success("")
}

// OpenMemberPicker fetches the user directory and builds fresh dialog state;
// each open gets its own picker, discarded on close.
func (h *TaskActions) OpenMemberPicker(ctx context.Context) (*session.MemberPicker, ActionResult) {
	users, err := h.tasks.ListUsers(ctx)
	if err != nil {
		return nil, resultFromError(err)
	}
	return session.NewMemberPicker(users), success("")
}

// PickerCandidates applies live filtering to an open picker: current search
// text, current assignee set, current watcher set.
func (h *TaskActions) PickerCandidates(picker *session.MemberPicker, task *models.Task) []models.User {
	return h.membership.FilterCandidates(picker.Users(), picker.Search(), task)
}

func (h *TaskActions) CreateTask(ctx context.Context, form apiclient.TaskForm) (*models.Task, ActionResult) {
	if _, redirect := h.actor(); redirect != nil {
		return nil, *redirect
	}
	var created *models.Task
	result := h.run("create-task", func() (string, error) {
		task, message, err := h.tasks.CreateTask(ctx, form)
		created = task
		return message, err
	})
	return created, result
}

// UpdateTask merges the returned entity into the loaded view on success.
func (h *TaskActions) UpdateTask(ctx context.Context, task *models.Task, form apiclient.TaskForm) ActionResult {
	actor, redirect := h.actor()
	if redirect != nil {
		return *redirect
	}
	return h.run(fmt.Sprintf("update-task:%d", task.ID), func() (string, error) {
		updated, message, err := h.tasks.UpdateTask(ctx, actor, task, form)
		if err != nil {
			return "", err
		}
		if updated != nil {
			*task = *updated
		}
		return message, nil
	})
}

func (h *TaskActions) DeleteTask(ctx context.Context, task *models.Task) ActionResult {
	actor, redirect := h.actor()
	if redirect != nil {
		return *redirect
	}
	result := h.run(fmt.Sprintf("delete-task:%d", task.ID), func() (string, error) {
		return "", h.tasks.DeleteTask(ctx, actor, task)
	})
	if result.Success {
		result.Redirect = DashboardRoute
	}
	return result
}

func (h *TaskActions) AddAssignees(ctx context.Context, task *models.Task, picker *session.MemberPicker) ActionResult {
	actor, redirect := h.actor()
	if redirect != nil {
		return *redirect
	}
	return h.run(fmt.Sprintf("add-assignees:%d", task.ID), func() (string, error) {
		return h.tasks.AddAssignees(ctx, actor, task, picker.Selected())
	})
}

func (h *TaskActions) RemoveAssignment(ctx context.Context, task *models.Task, assignmentID int64) ActionResult {
	actor, redirect := h.actor()
	if redirect != nil {
		return *redirect
	}
	return h.run(fmt.Sprintf("remove-assignment:%d", assignmentID), func() (string, error) {
		return h.tasks.RemoveAssignment(ctx, actor, task, assignmentID)
	})
}

func (h *TaskActions) AddWatchers(ctx context.Context, task *models.Task, picker *session.MemberPicker) ActionResult {
	actor, redirect := h.actor()
	if redirect != nil {
		return *redirect
	}
	return h.run(fmt.Sprintf("add-watchers:%d", task.ID), func() (string, error) {
		return h.tasks.AddWatchers(ctx, actor, task, picker.Selected())
	})
}

func (h *TaskActions) RemoveWatcher(ctx context.Context, task *models.Task, userID int64) ActionResult {
	actor, redirect := h.actor()
	if redirect != nil {
		return *redirect
	}
	return h.run(fmt.Sprintf("remove-watcher:%d:%d", task.ID, userID), func() (string, error) {
		return h.tasks.RemoveWatcher(ctx, actor, task, userID)
	})
}

func (h *TaskActions) AddAttachments(ctx context.Context, task *models.Task, files []models.PendingFile) ActionResult {
	actor, redirect := h.actor()
	if redirect != nil {
		return *redirect
	}
	return h.run(fmt.Sprintf("add-attachments:%d", task.ID), func() (string, error) {
		return h.tasks.AddAttachments(ctx, actor, task, files)
	})
}

func (h *TaskActions) RemoveAttachment(ctx context.Context, task *models.Task, attachmentID int64) ActionResult {
	actor, redirect := h.actor()
	if redirect != nil {
		return *redirect
	}
	return h.run(fmt.Sprintf("remove-attachment:%d", attachmentID), func() (string, error) {
		return h.tasks.RemoveAttachment(ctx, actor, task, attachmentID)
	})
}

// Approve resolves one for_review assignment to the terminal state; other
// assignments on the task stay untouched.
func (h *TaskActions) Approve(ctx context.Context, task *models.Task, assignment *models.Assignment) ActionResult {
	actor, redirect := h.actor()
	if redirect != nil {
		return *redirect
	}
	return h.run(fmt.Sprintf("approve-assignment:%d", assignment.ID), func() (string, error) {
		return h.assignments.Approve(ctx, actor, task, assignment)
	})
}

func (h *TaskActions) RequestRevision(ctx context.Context, task *models.Task, assignment *models.Assignment, remarks string) ActionResult {
	actor, redirect := h.actor()
	if redirect != nil {
		return *redirect
	}
	return h.run(fmt.Sprintf("request-revision:%d", assignment.ID), func() (string, error) {
		return h.assignments.RequestRevision(ctx, actor, task, assignment, remarks)
	})
}
