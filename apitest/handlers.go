package apitest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/benleytuano/taskmap-frontend/models"
)

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func pathID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return id
}

func canManage(user models.User, task *models.Task) bool {
	return user.Role.IsAdmin() || task.CreatedBy.ID == user.ID
}

func now() *models.Timestamp {
	return &models.Timestamp{Time: time.Now().UTC()}
}

// readMultipartFiles collects uploaded files under the field name and turns
// them into stored attachments.
func (s *Server) readMultipartFiles(r *http.Request, field string) []models.Attachment {
	if r.MultipartForm == nil {
		return nil
	}
	var out []models.Attachment
	for _, header := range r.MultipartForm.File[field] {
		out = append(out, models.Attachment{
			ID:       s.id(),
			Filename: header.Filename,
			Size:     header.Size,
			FilePath: "/storage/" + header.Filename,
		})
	}
	return out
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request, user models.User) {
	if !user.Role.IsAdmin() {
		writeError(w, http.StatusForbidden, "This action is unauthorized.")
		return
	}
	s.mu.Lock()
	tasks := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, *t)
	}
	s.mu.Unlock()
	writeData(w, http.StatusOK, "", map[string]interface{}{"tasks": tasks})
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request, user models.User) {
	s.mu.Lock()
	task, ok := s.tasks[pathID(r, "taskID")]
	if !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	visible := canManage(user, task) || task.IsAssignee(user.ID) || task.IsWatcher(user.ID)
	snapshot := *task
	s.mu.Unlock()

	if !visible {
		writeError(w, http.StatusForbidden, "This action is unauthorized.")
		return
	}
	writeData(w, http.StatusOK, "", map[string]interface{}{"task": snapshot})
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request, user models.User) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}

	fields := map[string][]string{}
	if r.FormValue("title") == "" {
		fields["title"] = []string{"The title field is required."}
	}
	if r.FormValue("deadline") == "" {
		fields["deadline"] = []string{"The deadline field is required."}
	}
	if len(fields) > 0 {
		writeValidationError(w, "The given data was invalid.", fields)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	attachments := s.readMultipartFiles(r, "attachments[]")
	if len(attachments) > models.MaxAttachmentsPerOwner {
		writeValidationError(w, "Maximum 5 files allowed", nil)
		return
	}

	deadline := &models.Timestamp{}
	_ = deadline.UnmarshalJSON([]byte(strconv.Quote(r.FormValue("deadline"))))

	priority := models.TaskPriority(r.FormValue("priority"))
	if priority == "" {
		priority = models.PriorityStandard
	}

	task := &models.Task{
		ID:          s.id(),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Deadline:    deadline,
		Priority:    priority,
		CreatedBy:   user,
		CreatedAt:   now(),
		Attachments: attachments,
	}
	for _, raw := range r.Form["assigned_to[]"] {
		id, _ := strconv.ParseInt(raw, 10, 64)
		assignee, ok := s.users[id]
		if !ok {
			writeValidationError(w, "The given data was invalid.", map[string][]string{"assigned_to": {"Unknown user."}})
			return
		}
		task.Assignments = append(task.Assignments, models.Assignment{
			ID:       s.id(),
			TaskID:   task.ID,
			Assignee: assignee,
			Status:   models.StatusPending,
		})
	}
	for _, raw := range r.Form["watchers[]"] {
		id, _ := strconv.ParseInt(raw, 10, 64)
		watcher, ok := s.users[id]
		if !ok {
			writeValidationError(w, "The given data was invalid.", map[string][]string{"watchers": {"Unknown user."}})
			return
		}
		task.Watchers = append(task.Watchers, models.Watcher{TaskID: task.ID, User: watcher})
	}
	s.tasks[task.ID] = task
	writeData(w, http.StatusCreated, "Task created successfully", map[string]interface{}{"task": task})
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request, user models.User) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[pathID(r, "taskID")]
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	if !canManage(user, task) {
		writeError(w, http.StatusForbidden, "This action is unauthorized.")
		return
	}

	if title := r.FormValue("title"); title != "" {
		task.Title = title
	}
	if description := r.FormValue("description"); description != "" {
		task.Description = description
	}
	if deadline := r.FormValue("deadline"); deadline != "" {
		ts := &models.Timestamp{}
		_ = ts.UnmarshalJSON([]byte(strconv.Quote(deadline)))
		task.Deadline = ts
	}
	if priority := r.FormValue("priority"); priority != "" {
		task.Priority = models.TaskPriority(priority)
	}

	removed := map[int64]bool{}
	for _, raw := range r.Form["remove_attachments[]"] {
		id, _ := strconv.ParseInt(raw, 10, 64)
		removed[id] = true
	}
	kept := task.Attachments[:0]
	for _, a := range task.Attachments {
		if !removed[a.ID] {
			kept = append(kept, a)
		}
	}
	task.Attachments = kept

	added := s.readMultipartFiles(r, "attachments[]")
	if len(task.Attachments)+len(added) > models.MaxAttachmentsPerOwner {
		writeValidationError(w, "Maximum 5 files allowed", nil)
		return
	}
	task.Attachments = append(task.Attachments, added...)

	writeData(w, http.StatusOK, "Task updated successfully", map[string]interface{}{"task": task})
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request, user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[pathID(r, "taskID")]
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	if !canManage(user, task) {
		writeError(w, http.StatusForbidden, "This action is unauthorized.")
		return
	}
	// Cascade: assignments, watchers and attachments die with the task.
	delete(s.tasks, task.ID)
	writeData(w, http.StatusOK, "Task deleted successfully", nil)
}

type userIDsPayload struct {
	UserIDs []int64 `json:"user_ids"`
}

func (s *Server) handleAddAssignees(w http.ResponseWriter, r *http.Request, user models.User) {
	var input userIDsPayload
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[pathID(r, "taskID")]
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	if !canManage(user, task) {
		writeError(w, http.StatusForbidden, "This action is unauthorized.")
		return
	}
	for _, id := range input.UserIDs {
		if task.IsAssignee(id) {
			writeValidationError(w, "User is already assigned to this task", nil)
			return
		}
		if task.IsWatcher(id) {
			writeValidationError(w, "User is already watching this task", nil)
			return
		}
		assignee, ok := s.users[id]
		if !ok {
			writeValidationError(w, "Unknown user", nil)
			return
		}
		task.Assignments = append(task.Assignments, models.Assignment{
			ID:       s.id(),
			TaskID:   task.ID,
			Assignee: assignee,
			Status:   models.StatusPending,
		})
	}
	writeData(w, http.StatusOK, "Assignees added successfully", map[string]interface{}{"task": task})
}

func (s *Server) handleRemoveAssignment(w http.ResponseWriter, r *http.Request, user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[pathID(r, "taskID")]
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	if !canManage(user, task) {
		writeError(w, http.StatusForbidden, "This action is unauthorized.")
		return
	}
	assignmentID := pathID(r, "assignmentID")
	kept := task.Assignments[:0]
	found := false
	for _, a := range task.Assignments {
		if a.ID == assignmentID {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		writeError(w, http.StatusNotFound, "Assignment not found")
		return
	}
	task.Assignments = kept
	writeData(w, http.StatusOK, "Assignment removed successfully", nil)
}

func (s *Server) findAssignmentLocked(assignmentID int64) (*models.Task, *models.Assignment) {
	for _, task := range s.tasks {
		for i := range task.Assignments {
			if task.Assignments[i].ID == assignmentID {
				return task, &task.Assignments[i]
			}
		}
	}
	return nil, nil
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request, user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[pathID(r, "taskID")]
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	if !canManage(user, task) {
		writeError(w, http.StatusForbidden, "This action is unauthorized.")
		return
	}
	_, assignment := s.findAssignmentLocked(pathID(r, "assignmentID"))
	if assignment == nil {
		writeError(w, http.StatusNotFound, "Assignment not found")
		return
	}
	if assignment.Status.Canonical() != models.StatusForReview {
		writeValidationError(w, "Only assignments submitted for review can be approved", nil)
		return
	}
	assignment.Status = models.StatusApproved
	assignment.ApprovedAt = now()
	assignment.UpdatedAt = now()
	assignment.AssignerRemarks = ""
	writeData(w, http.StatusOK, "Assignment approved successfully", map[string]interface{}{"assignment": assignment})
}

func (s *Server) handleRevision(w http.ResponseWriter, r *http.Request, user models.User) {
	var input struct {
		AssignerRemarks string `json:"assigner_remarks"`
	}
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(input.AssignerRemarks) == "" {
		writeValidationError(w, "The given data was invalid.", map[string][]string{
			"assigner_remarks": {"The assigner remarks field is required."},
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[pathID(r, "taskID")]
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	if !canManage(user, task) {
		writeError(w, http.StatusForbidden, "This action is unauthorized.")
		return
	}
	_, assignment := s.findAssignmentLocked(pathID(r, "assignmentID"))
	if assignment == nil {
		writeError(w, http.StatusNotFound, "Assignment not found")
		return
	}
	if assignment.Status.Canonical() != models.StatusForReview {
		writeValidationError(w, "Only assignments submitted for review can be sent back for revision", nil)
		return
	}
	assignment.Status = models.StatusRevision
	assignment.AssignerRemarks = input.AssignerRemarks
	assignment.UpdatedAt = now()
	writeData(w, http.StatusOK, "Revision requested successfully", map[string]interface{}{"assignment": assignment})
}

func (s *Server) handleAddWatchers(w http.ResponseWriter, r *http.Request, user models.User) {
	var input userIDsPayload
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[pathID(r, "taskID")]
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	if !canManage(user, task) {
		writeError(w, http.StatusForbidden, "This action is unauthorized.")
		return
	}
	for _, id := range input.UserIDs {
		if task.IsWatcher(id) {
			writeValidationError(w, "User is already watching this task", nil)
			return
		}
		if task.IsAssignee(id) {
			writeValidationError(w, "User is already assigned to this task", nil)
			return
		}
		watcher, ok := s.users[id]
		if !ok {
			writeValidationError(w, "Unknown user", nil)
			return
		}
		task.Watchers = append(task.Watchers, models.Watcher{TaskID: task.ID, User: watcher})
	}
	writeData(w, http.StatusOK, "Watchers added successfully", map[string]interface{}{"task": task})
}

func (s *Server) handleRemoveWatcher(w http.ResponseWriter, r *http.Request, user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[pathID(r, "taskID")]
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	if !canManage(user, task) {
		writeError(w, http.StatusForbidden, "This action is unauthorized.")
		return
	}
	userID := pathID(r, "userID")
	kept := task.Watchers[:0]
	for _, watcher := range task.Watchers {
		if watcher.User.ID != userID {
			kept = append(kept, watcher)
		}
	}
	task.Watchers = kept
	writeData(w, http.StatusOK, "Watcher removed successfully", nil)
}

func (s *Server) handleAddAttachments(w http.ResponseWriter, r *http.Request, user models.User) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[pathID(r, "taskID")]
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	if !canManage(user, task) {
		writeError(w, http.StatusForbidden, "This action is unauthorized.")
		return
	}
	added := s.readMultipartFiles(r, "files[]")
	if len(task.Attachments)+len(added) > models.MaxAttachmentsPerOwner {
		writeValidationError(w, "Maximum 5 files allowed", nil)
		return
	}
	task.Attachments = append(task.Attachments, added...)
	writeData(w, http.StatusOK, "Attachments uploaded successfully", map[string]interface{}{"task": task})
}

func (s *Server) handleRemoveAttachment(w http.ResponseWriter, r *http.Request, user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[pathID(r, "taskID")]
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	if !canManage(user, task) {
		writeError(w, http.StatusForbidden, "This action is unauthorized.")
		return
	}
	attachmentID := pathID(r, "attachmentID")
	kept := task.Attachments[:0]
	for _, a := range task.Attachments {
		if a.ID != attachmentID {
			kept = append(kept, a)
		}
	}
	task.Attachments = kept
	writeData(w, http.StatusOK, "Attachment deleted successfully", nil)
}

func (s *Server) handleWatchedTasks(w http.ResponseWriter, r *http.Request, user models.User) {
	s.mu.Lock()
	var watched []models.Task
	for _, t := range s.tasks {
		if t.IsWatcher(user.ID) {
			watched = append(watched, *t)
		}
	}
	s.mu.Unlock()
	writeData(w, http.StatusOK, "", map[string]interface{}{"watched_tasks": watched})
}
