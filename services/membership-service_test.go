package services

import (
	"errors"
	"testing"

	"github.com/benleytuano/taskmap-frontend/apiclient"
	"github.com/benleytuano/taskmap-frontend/models"
)

func membershipFixture(t *testing.T) *models.Task {
	t.Helper()
	return &models.Task{
		ID:        20,
		CreatedBy: models.User{ID: 1},
		Assignments: []models.Assignment{
			{ID: 200, TaskID: 20, Assignee: models.User{ID: 2, Name: "Ana Reyes", Email: "ana@example.test", EmployeeID: "EMP-002"}},
		},
		Watchers: []models.Watcher{
			{TaskID: 20, User: models.User{ID: 3, Name: "Ben Cruz", Email: "ben@example.test", EmployeeID: "EMP-003"}},
		},
	}
}

func TestCheckAddAssignees(t *testing.T) {
	svc := NewMembershipService()
	task := membershipFixture(t)

	tests := []struct {
		name    string
		userIDs []int64
		wantOK  bool
	}{
		{name: "new user", userIDs: []int64{4}, wantOK: true},
		{name: "several new users", userIDs: []int64{4, 5}, wantOK: true},
		{name: "duplicate in batch", userIDs: []int64{4, 4}},
		{name: "already an assignee", userIDs: []int64{2}},
		{name: "watcher cannot become assignee", userIDs: []int64{3}},
		{name: "one bad id fails the batch", userIDs: []int64{4, 3}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.CheckAddAssignees(task, tc.userIDs)
			if tc.wantOK && err != nil {
				t.Fatalf("CheckAddAssignees(%v) = %v, want nil", tc.userIDs, err)
			}
			if !tc.wantOK {
				var verr *apiclient.ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("CheckAddAssignees(%v) = %v, want ValidationError", tc.userIDs, err)
				}
			}
		})
	}
}

func TestCheckAddWatchers(t *testing.T) {
	svc := NewMembershipService()
	task := membershipFixture(t)

	if err := svc.CheckAddWatchers(task, []int64{4}); err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := svc.CheckAddWatchers(task, []int64{3}); err == nil {
		t.Fatal("existing watcher should be rejected")
	}
	if err := svc.CheckAddWatchers(task, []int64{2}); err == nil {
		t.Fatal("assignee should not be addable as watcher")
	}
}

func TestFilterCandidates(t *testing.T) {
	svc := NewMembershipService()
	task := membershipFixture(t)
	users := []models.User{
		{ID: 2, Name: "Ana Reyes", Email: "ana@example.test", EmployeeID: "EMP-002"},
		{ID: 3, Name: "Ben Cruz", Email: "ben@example.test", EmployeeID: "EMP-003"},
		{ID: 4, Name: "Carla Santos", Email: "carla@example.test", EmployeeID: "EMP-004"},
		{ID: 5, Name: "Diego Lim", Email: "diego@example.test", EmployeeID: "EMP-005"},
	}

	t.Run("members are excluded even when the search matches them", func(t *testing.T) {
		got := svc.FilterCandidates(users, "ben", task)
		if len(got) != 0 {
			t.Fatalf("candidates = %v, want none", got)
		}
	})

	t.Run("empty search lists every non-member", func(t *testing.T) {
		got := svc.FilterCandidates(users, "", task)
		if len(got) != 2 {
			t.Fatalf("candidates = %v, want Carla and Diego", got)
		}
	})

	t.Run("search matches name email and employee id", func(t *testing.T) {
		for _, query := range []string{"carla", "CARLA@example", "emp-004"} {
			got := svc.FilterCandidates(users, query, task)
			if len(got) != 1 || got[0].ID != 4 {
				t.Fatalf("FilterCandidates(%q) = %v, want Carla only", query, got)
			}
		}
	})
}

func TestRemoveLocal(t *testing.T) {
	svc := NewMembershipService()
	task := membershipFixture(t)

	svc.RemoveWatcherLocal(task, 3)
	if len(task.Watchers) != 0 {
		t.Fatalf("Watchers = %v, want empty", task.Watchers)
	}

	// A task may end with zero assignees; removal is unconditional.
	svc.RemoveAssignmentLocal(task, 200)
	if len(task.Assignments) != 0 {
		t.Fatalf("Assignments = %v, want empty", task.Assignments)
	}

	// Removing something already gone is a no-op.
	svc.RemoveWatcherLocal(task, 3)
	svc.RemoveAssignmentLocal(task, 200)
}
