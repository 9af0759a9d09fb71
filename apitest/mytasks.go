package apitest

import (
	"net/http"

	"github.com/benleytuano/taskmap-frontend/models"
)

func (s *Server) handleMyTasks(w http.ResponseWriter, r *http.Request, user models.User) {
	s.mu.Lock()
	myTasks := []map[string]interface{}{}
	for _, task := range s.tasks {
		for _, a := range task.Assignments {
			if a.Assignee.ID == user.ID {
				myTasks = append(myTasks, map[string]interface{}{"task": *task, "assignment": a})
			}
		}
	}
	s.mu.Unlock()
	writeData(w, http.StatusOK, "", map[string]interface{}{"my_tasks": myTasks})
}

func (s *Server) handleMyTask(w http.ResponseWriter, r *http.Request, user models.User) {
	s.mu.Lock()
	task, assignment := s.findAssignmentLocked(pathID(r, "assignmentID"))
	if assignment == nil || assignment.Assignee.ID != user.ID {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "Assignment not found")
		return
	}
	snapshot := *task
	a := *assignment
	s.mu.Unlock()
	writeData(w, http.StatusOK, "", map[string]interface{}{"task": snapshot, "assignment": a})
}

func (s *Server) handleUpdateAssignment(w http.ResponseWriter, r *http.Request, user models.User) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, assignment := s.findAssignmentLocked(pathID(r, "assignmentID"))
	if assignment == nil {
		writeError(w, http.StatusNotFound, "Assignment not found")
		return
	}
	if assignment.Assignee.ID != user.ID {
		writeError(w, http.StatusForbidden, "This action is unauthorized.")
		return
	}

	if raw := r.FormValue("status"); raw != "" {
		next := models.AssignmentStatus(raw).Canonical()
		current := assignment.Status.Canonical()
		if current == models.StatusRevision {
			writeValidationError(w, "Assignment is under revision; submit it for review once fixed", nil)
			return
		}
		legal := (current == models.StatusPending && next == models.StatusInProgress) ||
			(current == models.StatusInProgress && next == models.StatusPending)
		if !legal {
			writeValidationError(w, "Invalid status transition", nil)
			return
		}
		assignment.Status = next
	}
	if note := r.FormValue("progress_note"); note != "" {
		assignment.ProgressNote = note
	}

	added := s.readMultipartFiles(r, "attachments[]")
	if len(assignment.Attachments)+len(added) > models.MaxAttachmentsPerOwner {
		writeValidationError(w, "Maximum 5 files allowed", nil)
		return
	}
	assignment.Attachments = append(assignment.Attachments, added...)
	assignment.UpdatedAt = now()

	writeData(w, http.StatusOK, "Assignment updated successfully", map[string]interface{}{"assignment": assignment})
}

func (s *Server) handleSubmitForReview(w http.ResponseWriter, r *http.Request, user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, assignment := s.findAssignmentLocked(pathID(r, "assignmentID"))
	if assignment == nil {
		writeError(w, http.StatusNotFound, "Assignment not found")
		return
	}
	if assignment.Assignee.ID != user.ID {
		writeError(w, http.StatusForbidden, "This action is unauthorized.")
		return
	}
	current := assignment.Status.Canonical()
	if current != models.StatusInProgress && current != models.StatusRevision {
		writeValidationError(w, "Only in-progress assignments can be submitted for review", nil)
		return
	}
	assignment.Status = models.StatusForReview
	assignment.SubmittedAt = now()
	assignment.UpdatedAt = now()
	assignment.AssignerRemarks = ""
	writeData(w, http.StatusOK, "Assignment submitted for review", map[string]interface{}{"assignment": assignment})
}
