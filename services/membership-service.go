package services

import (
	"fmt"
	"strings"

	"github.com/benleytuano/taskmap-frontend/apiclient"
	"github.com/benleytuano/taskmap-frontend/models"
)

// MembershipService enforces the assignee/watcher rules of a task: no
// duplicate membership, and no user on both sides at once. Adds are validated
// at the point of mutation against the task as currently loaded; removal is
// an unconditional set-difference (a task may legitimately end up with zero
// assignees).
type MembershipService struct{}

func NewMembershipService() *MembershipService {
	return &MembershipService{}
}

// CheckAddAssignees validates a multi-add of assignees.
func (s *MembershipService) CheckAddAssignees(task *models.Task, userIDs []int64) error {
	seen := map[int64]bool{}
	for _, id := range userIDs {
		if seen[id] {
			return &apiclient.ValidationError{Message: fmt.Sprintf("user %d selected more than once", id)}
		}
		seen[id] = true
		if task.IsAssignee(id) {
			return &apiclient.ValidationError{Message: fmt.Sprintf("user %d is already assigned to this task", id)}
		}
		if task.IsWatcher(id) {
			return &apiclient.ValidationError{Message: fmt.Sprintf("user %d is watching this task; watchers cannot be assignees", id)}
		}
	}
	return nil
}

// CheckAddWatchers validates a multi-add of watchers, symmetric to assignees.
func (s *MembershipService) CheckAddWatchers(task *models.Task, userIDs []int64) error {
	seen := map[int64]bool{}
	for _, id := range userIDs {
		if seen[id] {
			return &apiclient.ValidationError{Message: fmt.Sprintf("user %d selected more than once", id)}
		}
		seen[id] = true
		if task.IsWatcher(id) {
			return &apiclient.ValidationError{Message: fmt.Sprintf("user %d is already watching this task", id)}
		}
		if task.IsAssignee(id) {
			return &apiclient.ValidationError{Message: fmt.Sprintf("user %d is assigned to this task; assignees cannot be watchers", id)}
		}
	}
	return nil
}

// FilterCandidates returns the users selectable in an add-member dialog:
// matches the search text against name, email and employee id, and excludes
// everyone already an assignee or a watcher of the task.
func (s *MembershipService) FilterCandidates(users []models.User, search string, task *models.Task) []models.User {
	query := strings.ToLower(strings.TrimSpace(search))
	var out []models.User
	for _, u := range users {
		if task.IsAssignee(u.ID) || task.IsWatcher(u.ID) {
			continue
		}
		if query != "" && !userMatches(u, query) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func userMatches(u models.User, query string) bool {
	return strings.Contains(strings.ToLower(u.Name), query) ||
		strings.Contains(strings.ToLower(u.Email), query) ||
		strings.Contains(strings.ToLower(u.EmployeeID), query)
}

// RemoveWatcherLocal drops the watcher from the loaded task view after the
// backend confirmed the removal.
func (s *MembershipService) RemoveWatcherLocal(task *models.Task, userID int64) {
	watchers := task.Watchers[:0]
	for _, w := range task.Watchers {
		if w.User.ID != userID {
			watchers = append(watchers, w)
		}
	}
	task.Watchers = watchers
}

// RemoveAssignmentLocal drops the assignment from the loaded task view after
// the backend confirmed the removal.
func (s *MembershipService) RemoveAssignmentLocal(task *models.Task, assignmentID int64) {
	assignments := task.Assignments[:0]
	for _, a := range task.Assignments {
		if a.ID != assignmentID {
			assignments = append(assignments, a)
		}
	}
	task.Assignments = assignments
}
