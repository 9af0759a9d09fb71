package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/benleytuano/taskmap-frontend/apiclient"
	"github.com/benleytuano/taskmap-frontend/models"
)

// LifecycleService validates assignment status transitions before any request
// leaves the client. Illegal transitions never reach the network; the backend
// remains authoritative for anything that does.
type LifecycleService struct{}

func NewLifecycleService() *LifecycleService {
	return &LifecycleService{}
}

type transition struct {
	from, to models.AssignmentStatus
}

type actorClass int

const (
	// actorAssignee: the user whose assignment it is.
	actorAssignee actorClass = iota
	// actorReviewer: the task creator or an admin/superadmin.
	actorReviewer
)

// transitionActors is the full transition table. Anything absent is illegal.
var transitionActors = map[transition]actorClass{
	{models.StatusPending, models.StatusInProgress}:   actorAssignee,
	{models.StatusInProgress, models.StatusPending}:   actorAssignee,
	{models.StatusInProgress, models.StatusForReview}: actorAssignee,
	{models.StatusRevision, models.StatusForReview}:   actorAssignee,
	{models.StatusForReview, models.StatusApproved}:   actorReviewer,
	{models.StatusForReview, models.StatusRevision}:   actorReviewer,
}

func isReviewer(actor models.User, task *models.Task) bool {
	return actor.Role.IsAdmin() || task.CreatedBy.ID == actor.ID
}

// CheckTransition validates moving the assignment to the given status on
// behalf of the actor. Remarks are required when requesting revision.
func (s *LifecycleService) CheckTransition(actor models.User, task *models.Task, a *models.Assignment, to models.AssignmentStatus, remarks string) error {
	from := a.Status.Canonical()
	to = to.Canonical()

	if !to.Valid() {
		return &apiclient.ValidationError{Message: fmt.Sprintf("unknown status %q", string(to))}
	}
	if from == to {
		return &apiclient.ValidationError{Message: "no status change"}
	}

	class, ok := transitionActors[transition{from, to}]
	if !ok {
		if from == models.StatusRevision {
			// Revision locks the assignee's status field; the only way out
			// is resubmitting for review.
			return &apiclient.ValidationError{Message: "assignment is under revision; submit it for review once fixed"}
		}
		return &apiclient.ValidationError{Message: fmt.Sprintf("status cannot change from %s to %s", from.Label(), to.Label())}
	}

	switch class {
	case actorAssignee:
		if actor.ID != a.Assignee.ID {
			return &apiclient.PermissionError{Message: "only the assignee may update this assignment"}
		}
	case actorReviewer:
		if !isReviewer(actor, task) {
			return &apiclient.PermissionError{Message: "only the task creator or an admin may review this assignment"}
		}
	}

	if to == models.StatusRevision && strings.TrimSpace(remarks) == "" {
		return &apiclient.ValidationError{
			Message: "remarks are required when requesting revision",
			Fields:  map[string][]string{"assigner_remarks": {"Remarks are required when requesting revision."}},
		}
	}

	return nil
}

// CanSubmitForReview reports whether the actor may submit the assignment.
func (s *LifecycleService) CanSubmitForReview(actor models.User, a *models.Assignment) bool {
	if actor.ID != a.Assignee.ID {
		return false
	}
	from := a.Status.Canonical()
	return from == models.StatusInProgress || from == models.StatusRevision
}

// StatusOptions returns the statuses the actor's selector may offer for the
// assignment. Anything outside pending/in_progress is locked to the current
// value: for_review and terminal states leave the assignee's hands, and
// revision only allows resubmission (a separate action).
func (s *LifecycleService) StatusOptions(actor models.User, a *models.Assignment) []models.AssignmentStatus {
	current := a.Status.Canonical()
	if actor.ID != a.Assignee.ID {
		return []models.AssignmentStatus{current}
	}
	switch current {
	case models.StatusPending, models.StatusInProgress:
		return []models.AssignmentStatus{models.StatusPending, models.StatusInProgress}
	default:
		return []models.AssignmentStatus{current}
	}
}

// Apply mutates the assignment for a transition that already passed
// CheckTransition: status, timestamps, and assigner remark retention (remarks
// stay visible until the next successful resubmission or approval).
func (s *LifecycleService) Apply(a *models.Assignment, to models.AssignmentStatus, remarks string, now time.Time) {
	to = to.Canonical()
	a.Status = to
	stamp := &models.Timestamp{Time: now}
	a.UpdatedAt = stamp

	switch to {
	case models.StatusForReview:
		a.SubmittedAt = stamp
		a.AssignerRemarks = ""
	case models.StatusApproved:
		a.ApprovedAt = stamp
		a.AssignerRemarks = ""
	case models.StatusRevision:
		a.AssignerRemarks = strings.TrimSpace(remarks)
	}
}
