package services

import (
	"context"
	"time"

	"github.com/benleytuano/taskmap-frontend/apiclient"
	"github.com/benleytuano/taskmap-frontend/logging"
	"github.com/benleytuano/taskmap-frontend/models"
)

// AssignmentService drives the assignment lifecycle from both sides: the
// assignee's self-service updates and the reviewer's approve/revision calls.
// Every mutation is precondition-checked locally before the request and
// merged into the loaded view only after the backend confirms it.
type AssignmentService struct {
	client      *apiclient.Client
	lifecycle   *LifecycleService
	permissions *PermissionService
}

func NewAssignmentService(client *apiclient.Client, lifecycle *LifecycleService, permissions *PermissionService) *AssignmentService {
	return &AssignmentService{client: client, lifecycle: lifecycle, permissions: permissions}
}

// UpdateOwn sends the assignee's changed fields. Status is included only when
// it differs from the current one; an empty form short-circuits without a
// network call.
func (s *AssignmentService) UpdateOwn(ctx context.Context, actor models.User, task *models.Task, a *models.Assignment, form apiclient.AssignmentUpdateForm) (string, error) {
	if actor.ID != a.Assignee.ID {
		return "", &apiclient.PermissionError{Message: "only the assignee may update this assignment"}
	}
	if form.Status != "" && form.Status.Canonical() == a.Status.Canonical() {
		form.Status = ""
	}
	if form.IsEmpty() {
		return "", &apiclient.ValidationError{Message: "No changes to save"}
	}
	if form.Status != "" {
		if err := s.lifecycle.CheckTransition(actor, task, a, form.Status, ""); err != nil {
			return "", err
		}
	}
	if err := models.CheckAttachmentAdd(len(a.Attachments), form.Attachments); err != nil {
		return "", &apiclient.ValidationError{Message: err.Error()}
	}

	message, err := s.client.UpdateMyAssignment(ctx, a.ID, form)
	if err != nil {
		return "", err
	}

	if form.Status != "" {
		s.lifecycle.Apply(a, form.Status, "", time.Now())
	}
	if form.ProgressNote != "" {
		a.ProgressNote = form.ProgressNote
	}
	return message, nil
}

// SubmitForReview moves the assignee's own assignment to for_review, from
// in_progress or from revision (resubmission).
func (s *AssignmentService) SubmitForReview(ctx context.Context, actor models.User, task *models.Task, a *models.Assignment) (string, error) {
	if err := s.lifecycle.CheckTransition(actor, task, a, models.StatusForReview, ""); err != nil {
		return "", err
	}
	message, err := s.client.SubmitForReview(ctx, a.ID)
	if err != nil {
		return "", err
	}
	s.lifecycle.Apply(a, models.StatusForReview, "", time.Now())
	logging.Logger.Infof("Event ID: ASSIGNMENT_SUBMITTED, Description: Assignment %d submitted for review", a.ID)
	return message, nil
}

// Approve moves a for_review assignment to the terminal state. Only the task
// creator or an admin may call it; other assignments on the task are
// untouched.
func (s *AssignmentService) Approve(ctx context.Context, actor models.User, task *models.Task, a *models.Assignment) (string, error) {
	if err := s.lifecycle.CheckTransition(actor, task, a, models.StatusApproved, ""); err != nil {
		return "", err
	}
	message, err := s.client.ApproveAssignment(ctx, task.ID, a.ID)
	if err != nil {
		return "", err
	}
	s.lifecycle.Apply(a, models.StatusApproved, "", time.Now())
	logging.Logger.Infof("Event ID: ASSIGNMENT_APPROVED, Description: Assignment %d approved", a.ID)
	return message, nil
}

// RequestRevision moves a for_review assignment back to revision. Remarks are
// mandatory and are kept on the assignment until the next resubmission or
// approval.
func (s *AssignmentService) RequestRevision(ctx context.Context, actor models.User, task *models.Task, a *models.Assignment, remarks string) (string, error) {
	if err := s.lifecycle.CheckTransition(actor, task, a, models.StatusRevision, remarks); err != nil {
		return "", err
	}
	message, err := s.client.RequestRevision(ctx, task.ID, a.ID, remarks)
	if err != nil {
		return "", err
	}
	s.lifecycle.Apply(a, models.StatusRevision, remarks, time.Now())
	logging.Logger.Infof("Event ID: ASSIGNMENT_REVISION_REQUESTED, Description: Revision requested on assignment %d", a.ID)
	return message, nil
}
