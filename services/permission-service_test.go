package services

import (
	"testing"

	"github.com/benleytuano/taskmap-frontend/models"
)

func TestResolve(t *testing.T) {
	svc := NewPermissionService()
	creator := models.User{ID: 1, Role: models.RoleUser}
	assignee := models.User{ID: 2, Role: models.RoleUser}
	watcher := models.User{ID: 3, Role: models.RoleUser}
	task := &models.Task{
		ID:        30,
		CreatedBy: creator,
		Assignments: []models.Assignment{
			{ID: 300, TaskID: 30, Assignee: assignee, Status: models.StatusInProgress},
		},
		Watchers: []models.Watcher{{TaskID: 30, User: watcher}},
	}

	t.Run("creator has full task rights", func(t *testing.T) {
		caps := svc.Resolve(creator, task)
		if !caps.EditTask || !caps.DeleteTask || !caps.ManageAssignees || !caps.ManageWatchers || !caps.ManageAttachments || !caps.ReviewAssignments {
			t.Fatalf("creator caps = %+v", caps)
		}
		if caps.UpdateOwnAssignment {
			t.Fatal("creator is not an assignee here")
		}
	})

	t.Run("watcher gets zero mutation controls", func(t *testing.T) {
		caps := svc.Resolve(watcher, task)
		if caps.HasTaskMutation() {
			t.Fatalf("watcher caps = %+v, want none", caps)
		}
	})

	t.Run("assignee may only update own assignment", func(t *testing.T) {
		caps := svc.Resolve(assignee, task)
		if !caps.UpdateOwnAssignment {
			t.Fatal("assignee should update own assignment")
		}
		if caps.EditTask || caps.ReviewAssignments {
			t.Fatalf("assignee caps = %+v, want no task-level rights", caps)
		}
	})

	t.Run("admin has task rights everywhere plus the dashboard", func(t *testing.T) {
		admin := models.User{ID: 50, Role: models.RoleAdmin}
		caps := svc.Resolve(admin, task)
		if !caps.EditTask || !caps.ReviewAssignments || !caps.AdminDashboard {
			t.Fatalf("admin caps = %+v", caps)
		}
		if caps.ManageDesignations {
			t.Fatal("designations are superadmin only")
		}
	})

	t.Run("superadmin additionally manages designations", func(t *testing.T) {
		super := models.User{ID: 51, Role: models.RoleSuperadmin}
		caps := svc.Resolve(super, task)
		if !caps.ManageDesignations || !caps.AdminDashboard {
			t.Fatalf("superadmin caps = %+v", caps)
		}
	})
}

func TestVisibleAssignmentAttachments(t *testing.T) {
	svc := NewPermissionService()
	assignee := models.User{ID: 2}
	reviewer := models.User{ID: 1}
	files := []models.Attachment{{ID: 400, Filename: "draft.pdf"}}

	tests := []struct {
		status  models.AssignmentStatus
		viewer  models.User
		visible bool
	}{
		{models.StatusPending, reviewer, false},
		{models.StatusInProgress, reviewer, false},
		{models.StatusRevision, reviewer, false},
		{models.StatusForReview, reviewer, true},
		{models.StatusApproved, reviewer, true},
		{models.StatusCompleted, reviewer, true},
		{models.StatusInProgress, assignee, true},
		{models.StatusRevision, assignee, true},
	}
	for _, tc := range tests {
		a := &models.Assignment{ID: 401, Assignee: assignee, Status: tc.status, Attachments: files}
		got := svc.VisibleAssignmentAttachments(tc.viewer, a)
		if tc.visible && len(got) != 1 {
			t.Fatalf("viewer %d on %s: attachments hidden, want visible", tc.viewer.ID, tc.status)
		}
		if !tc.visible && got != nil {
			t.Fatalf("viewer %d on %s: attachments visible, want hidden", tc.viewer.ID, tc.status)
		}
	}
}
