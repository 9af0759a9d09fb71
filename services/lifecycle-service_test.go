package services

import (
	"errors"
	"testing"
	"time"

	"github.com/benleytuano/taskmap-frontend/apiclient"
	"github.com/benleytuano/taskmap-frontend/models"
)

func lifecycleFixture(t *testing.T, status models.AssignmentStatus) (models.User, models.User, *models.Task, *models.Assignment) {
	t.Helper()
	creator := models.User{ID: 1, Name: "Creator", Role: models.RoleUser}
	assignee := models.User{ID: 2, Name: "Assignee", Role: models.RoleUser}
	task := &models.Task{
		ID:        10,
		Title:     "Quarterly report",
		CreatedBy: creator,
		Assignments: []models.Assignment{
			{ID: 100, TaskID: 10, Assignee: assignee, Status: status},
		},
	}
	return creator, assignee, task, &task.Assignments[0]
}

func TestCheckTransitionTable(t *testing.T) {
	svc := NewLifecycleService()

	tests := []struct {
		name    string
		from    models.AssignmentStatus
		to      models.AssignmentStatus
		byOwner bool // actor is the assignee; otherwise the creator
		remarks string
		wantOK  bool
	}{
		{name: "assignee starts work", from: models.StatusPending, to: models.StatusInProgress, byOwner: true, wantOK: true},
		{name: "assignee pauses work", from: models.StatusInProgress, to: models.StatusPending, byOwner: true, wantOK: true},
		{name: "assignee submits", from: models.StatusInProgress, to: models.StatusForReview, byOwner: true, wantOK: true},
		{name: "assignee resubmits after revision", from: models.StatusRevision, to: models.StatusForReview, byOwner: true, wantOK: true},
		{name: "creator approves", from: models.StatusForReview, to: models.StatusApproved, wantOK: true},
		{name: "creator requests revision", from: models.StatusForReview, to: models.StatusRevision, remarks: "missing figures", wantOK: true},
		{name: "completed alias of approved", from: models.StatusForReview, to: models.StatusCompleted, wantOK: true},

		{name: "pending cannot be submitted", from: models.StatusPending, to: models.StatusForReview, byOwner: true},
		{name: "pending cannot be approved", from: models.StatusPending, to: models.StatusApproved},
		{name: "approved is final", from: models.StatusApproved, to: models.StatusInProgress, byOwner: true},
		{name: "completed is final", from: models.StatusCompleted, to: models.StatusInProgress, byOwner: true},
		{name: "revision locks status field", from: models.StatusRevision, to: models.StatusInProgress, byOwner: true},
		{name: "revision cannot be approved directly", from: models.StatusRevision, to: models.StatusApproved},
		{name: "no self transition", from: models.StatusInProgress, to: models.StatusInProgress, byOwner: true},
		{name: "approved equals completed", from: models.StatusApproved, to: models.StatusCompleted},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			creator, assignee, task, assignment := lifecycleFixture(t, tc.from)
			actor := creator
			if tc.byOwner {
				actor = assignee
			}
			err := svc.CheckTransition(actor, task, assignment, tc.to, tc.remarks)
			if tc.wantOK && err != nil {
				t.Fatalf("CheckTransition(%s -> %s) = %v, want nil", tc.from, tc.to, err)
			}
			if !tc.wantOK {
				var verr *apiclient.ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("CheckTransition(%s -> %s) = %v, want ValidationError", tc.from, tc.to, err)
				}
			}
		})
	}
}

func TestCheckTransitionActorRules(t *testing.T) {
	svc := NewLifecycleService()

	t.Run("outsider cannot submit someone else's work", func(t *testing.T) {
		_, _, task, assignment := lifecycleFixture(t, models.StatusInProgress)
		outsider := models.User{ID: 99, Role: models.RoleUser}
		err := svc.CheckTransition(outsider, task, assignment, models.StatusForReview, "")
		var perr *apiclient.PermissionError
		if !errors.As(err, &perr) {
			t.Fatalf("got %v, want PermissionError", err)
		}
	})

	t.Run("assignee cannot approve own work", func(t *testing.T) {
		_, assignee, task, assignment := lifecycleFixture(t, models.StatusForReview)
		err := svc.CheckTransition(assignee, task, assignment, models.StatusApproved, "")
		var perr *apiclient.PermissionError
		if !errors.As(err, &perr) {
			t.Fatalf("got %v, want PermissionError", err)
		}
	})

	t.Run("admin may review tasks they did not create", func(t *testing.T) {
		_, _, task, assignment := lifecycleFixture(t, models.StatusForReview)
		admin := models.User{ID: 50, Role: models.RoleAdmin}
		if err := svc.CheckTransition(admin, task, assignment, models.StatusApproved, ""); err != nil {
			t.Fatalf("admin approve: %v", err)
		}
	})

	t.Run("revision requires remarks", func(t *testing.T) {
		creator, _, task, assignment := lifecycleFixture(t, models.StatusForReview)
		err := svc.CheckTransition(creator, task, assignment, models.StatusRevision, "   ")
		var verr *apiclient.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("got %v, want ValidationError", err)
		}
		if len(verr.Fields["assigner_remarks"]) == 0 {
			t.Fatalf("Fields = %v, want assigner_remarks entry", verr.Fields)
		}
	})
}

func TestStatusOptions(t *testing.T) {
	svc := NewLifecycleService()

	tests := []struct {
		status models.AssignmentStatus
		want   []models.AssignmentStatus
	}{
		{models.StatusPending, []models.AssignmentStatus{models.StatusPending, models.StatusInProgress}},
		{models.StatusInProgress, []models.AssignmentStatus{models.StatusPending, models.StatusInProgress}},
		{models.StatusForReview, []models.AssignmentStatus{models.StatusForReview}},
		{models.StatusRevision, []models.AssignmentStatus{models.StatusRevision}},
		{models.StatusApproved, []models.AssignmentStatus{models.StatusApproved}},
		{models.StatusCompleted, []models.AssignmentStatus{models.StatusApproved}},
	}
	for _, tc := range tests {
		_, assignee, _, assignment := lifecycleFixture(t, tc.status)
		got := svc.StatusOptions(assignee, assignment)
		if len(got) != len(tc.want) {
			t.Fatalf("StatusOptions(%s) = %v, want %v", tc.status, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("StatusOptions(%s) = %v, want %v", tc.status, got, tc.want)
			}
		}
	}
}

func TestCanSubmitForReview(t *testing.T) {
	svc := NewLifecycleService()

	_, assignee, _, assignment := lifecycleFixture(t, models.StatusInProgress)
	if !svc.CanSubmitForReview(assignee, assignment) {
		t.Fatal("in_progress assignment should be submittable by its assignee")
	}
	assignment.Status = models.StatusRevision
	if !svc.CanSubmitForReview(assignee, assignment) {
		t.Fatal("revision assignment should be submittable by its assignee")
	}
	assignment.Status = models.StatusPending
	if svc.CanSubmitForReview(assignee, assignment) {
		t.Fatal("pending assignment must not be submittable")
	}
	assignment.Status = models.StatusInProgress
	if svc.CanSubmitForReview(models.User{ID: 99}, assignment) {
		t.Fatal("non-assignee must not be able to submit")
	}
}

func TestApply(t *testing.T) {
	svc := NewLifecycleService()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	t.Run("submit stamps submitted_at and clears remarks", func(t *testing.T) {
		_, _, _, a := lifecycleFixture(t, models.StatusRevision)
		a.AssignerRemarks = "fix the totals"
		svc.Apply(a, models.StatusForReview, "", now)
		if a.Status != models.StatusForReview {
			t.Fatalf("Status = %s", a.Status)
		}
		if a.SubmittedAt == nil || !a.SubmittedAt.Time.Equal(now) {
			t.Fatalf("SubmittedAt = %v", a.SubmittedAt)
		}
		if a.AssignerRemarks != "" {
			t.Fatalf("AssignerRemarks = %q, want cleared", a.AssignerRemarks)
		}
	})

	t.Run("approve stamps approved_at", func(t *testing.T) {
		_, _, _, a := lifecycleFixture(t, models.StatusForReview)
		svc.Apply(a, models.StatusCompleted, "", now)
		if a.Status != models.StatusApproved {
			t.Fatalf("Status = %s, want canonical approved", a.Status)
		}
		if a.ApprovedAt == nil || !a.ApprovedAt.Time.Equal(now) {
			t.Fatalf("ApprovedAt = %v", a.ApprovedAt)
		}
	})

	t.Run("revision stores trimmed remarks", func(t *testing.T) {
		_, _, _, a := lifecycleFixture(t, models.StatusForReview)
		svc.Apply(a, models.StatusRevision, "  missing appendix  ", now)
		if a.Status != models.StatusRevision {
			t.Fatalf("Status = %s", a.Status)
		}
		if a.AssignerRemarks != "missing appendix" {
			t.Fatalf("AssignerRemarks = %q", a.AssignerRemarks)
		}
	})
}
