package services

import "github.com/benleytuano/taskmap-frontend/models"

// Capabilities is the set of actions and privileged views exposed to one user
// on one task context. A zero Capabilities value is the watcher-only case:
// read access with no mutation controls at all.
type Capabilities struct {
	EditTask            bool
	DeleteTask          bool
	ManageAssignees     bool
	ManageWatchers      bool
	ManageAttachments   bool
	ReviewAssignments   bool // approve / request revision
	UpdateOwnAssignment bool

	// Cross-cutting, independent of any single task.
	ManageDesignations bool
	AdminDashboard     bool
}

// HasTaskMutation reports whether any task-level mutation control is exposed.
func (c Capabilities) HasTaskMutation() bool {
	return c.EditTask || c.DeleteTask || c.ManageAssignees || c.ManageWatchers ||
		c.ManageAttachments || c.ReviewAssignments || c.UpdateOwnAssignment
}

// PermissionService computes capability sets from (role, creator, assignee,
// watcher) membership. Visibility filtering for submitted work lives here
// too, since it is a display-time permission rather than a lifecycle rule.
type PermissionService struct{}

func NewPermissionService() *PermissionService {
	return &PermissionService{}
}

// Resolve computes the capability set for the user on the given task.
func (s *PermissionService) Resolve(user models.User, task *models.Task) Capabilities {
	caps := Capabilities{
		ManageDesignations: user.Role == models.RoleSuperadmin,
		AdminDashboard:     user.Role.IsAdmin(),
	}

	if user.Role.IsAdmin() || task.CreatedBy.ID == user.ID {
		caps.EditTask = true
		caps.DeleteTask = true
		caps.ManageAssignees = true
		caps.ManageWatchers = true
		caps.ManageAttachments = true
		caps.ReviewAssignments = true
	}

	if task.IsAssignee(user.ID) {
		caps.UpdateOwnAssignment = true
	}

	return caps
}

// VisibleAssignmentAttachments filters an assignment's submitted-work files
// for display. The assignee always sees their own work; everyone else sees it
// only once the assignment reached for_review or the terminal state. Work in
// pending, in_progress or revision exists but must not render.
func (s *PermissionService) VisibleAssignmentAttachments(viewer models.User, a *models.Assignment) []models.Attachment {
	if viewer.ID == a.Assignee.ID {
		return a.Attachments
	}
	switch a.Status.Canonical() {
	case models.StatusForReview, models.StatusApproved:
		return a.Attachments
	}
	return nil
}
