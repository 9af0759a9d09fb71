package handlers

import (
	"context"
	"fmt"

	"github.com/benleytuano/taskmap-frontend/apiclient"
	"github.com/benleytuano/taskmap-frontend/models"
	"github.com/benleytuano/taskmap-frontend/services"
	"github.com/benleytuano/taskmap-frontend/session"
)

// MyTaskActions is the assignee-side action boundary: self-service status
// updates, progress notes, work attachments and submit-for-review.
type MyTaskActions struct {
	session     *session.Session
	tasks       *services.TaskService
	assignments *services.AssignmentService
	lifecycle   *services.LifecycleService
	client      *apiclient.Client
}

func NewMyTaskActions(sess *session.Session, tasks *services.TaskService, assignments *services.AssignmentService, lifecycle *services.LifecycleService, client *apiclient.Client) *MyTaskActions {
	return &MyTaskActions{session: sess, tasks: tasks, assignments: assignments, lifecycle: lifecycle, client: client}
}

func (h *MyTaskActions) run(opID string, fn func() (string, error)) ActionResult {
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
		return result
	}
	return success(message)
}

func (h *MyTaskActions) actor() (models.User, *ActionResult) {
	user, ok := h.session.User()
	if !ok {
		return models.User{}, &ActionResult{Message: "authentication required", Redirect: LoginRoute}
	}
	return user, nil
}

func (h *MyTaskActions) LoadMyTasks(ctx context.Context) ([]apiclient.MyTask, ActionResult) {
	if _, redirect := h.actor(); redirect != nil {
		return nil, *redirect
	}
	myTasks, err := h.client.ListMyTasks(ctx)
	if err != nil {
		return nil, resultFromError(err)
	}
	return myTasks, success("")
}

func (h *MyTaskActions) LoadMyTask(ctx context.Context, assignmentID int64) (*apiclient.MyTask, ActionResult) {
	if _, redirect := h.actor(); redirect != nil {
		return nil, *redirect
	}
	myTask, err := h.client.GetMyTask(ctx, assignmentID)
	if err != nil {
		return nil, resultFromError(err)
	}
	return myTask, success("")
}

// StatusOptions narrows the status selector to the transitions the viewer may
// actually take from the current status (revision locks it entirely).
func (h *MyTaskActions) StatusOptions(assignment *models.Assignment) []models.AssignmentStatus {
	actor, redirect := h.actor()
	if redirect != nil {
		return nil
	}
	return h.lifecycle.StatusOptions(actor, assignment)
}

// UpdateAssignment sends only what changed; choosing the current status again
// sends no status at all, and a fully empty form never reaches the network.
func (h *MyTaskActions) UpdateAssignment(ctx context.Context, task *models.Task, assignment *models.Assignment, form apiclient.AssignmentUpdateForm) ActionResult {
	actor, redirect := h.actor()
	if redirect != nil {
		return *redirect
	}
	return h.run(fmt.Sprintf("update-assignment:%d", assignment.ID), func() (string, error) {
		return h.assignments.UpdateOwn(ctx, actor, task, assignment, form)
	})
}

func (h *MyTaskActions) SubmitForReview(ctx context.Context, task *models.Task, assignment *models.Assignment) ActionResult {
	actor, redirect := h.actor()
	if redirect != nil {
		return *redirect
	}
	return h.run(fmt.Sprintf("submit-for-review:%d", assignment.ID), func() (string, error) {
		return h.assignments.SubmitForReview(ctx, actor, task, assignment)
	})
}
