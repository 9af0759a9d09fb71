// Package apitest is an in-memory stand-in for the taskmap REST backend. It
// enforces the same authorization, membership and lifecycle rules the real
// backend does, so client tests exercise both the happy path and the
// authoritative rejections.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/benleytuano/taskmap-frontend/models"
)

const sessionCookie = "taskmap_session"

type Server struct {
	mu sync.Mutex

	users         map[int64]models.User
	passwords     map[string]string // email -> password
	tasks         map[int64]*models.Task
	notifications map[int64][]models.Notification // user id -> list
	designations  map[int64]models.Designation
	sessions      map[string]int64 // token -> user id

	nextID   int64
	requests int
}

func NewServer() *Server {
	return &Server{
		users:         map[int64]models.User{},
		passwords:     map[string]string{},
		tasks:         map[int64]*models.Task{},
		notifications: map[int64][]models.Notification{},
		designations:  map[int64]models.Designation{},
		sessions:      map[string]int64{},
		nextID:        1000,
	}
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

// Requests returns how many requests reached the server; tests use it to
// prove that client-side rejections made no network call.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// AddUser seeds a user with login credentials.
func (s *Server) AddUser(u models.User, password string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.id()
	}
	s.users[u.ID] = u
	s.passwords[u.Email] = password
	return u
}

// AddTask seeds a task, assigning ids to it and its assignments.
func (s *Server) AddTask(t models.Task) models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		t.ID = s.id()
	}
	for i := range t.Assignments {
		if t.Assignments[i].ID == 0 {
			t.Assignments[i].ID = s.id()
		}
		t.Assignments[i].TaskID = t.ID
		if t.Assignments[i].Status == "" {
			t.Assignments[i].Status = models.StatusPending
		}
	}
	for i := range t.Watchers {
		t.Watchers[i].TaskID = t.ID
	}
	// The stored task must not alias the caller's slices; tests mutate
	// their returned copy freely.
	copied := t
	copied.Assignments = append([]models.Assignment{}, t.Assignments...)
	copied.Watchers = append([]models.Watcher{}, t.Watchers...)
	copied.Attachments = append([]models.Attachment{}, t.Attachments...)
	s.tasks[t.ID] = &copied
	return t
}

func (s *Server) AddNotification(userID int64, n models.Notification) models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.ID == 0 {
		n.ID = s.id()
	}
	s.notifications[userID] = append(s.notifications[userID], n)
	return n
}

// Task returns a snapshot of the stored task for assertions.
func (s *Server) Task(id int64) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return models.Task{}, false
	}
	return *t, true
}

// Router builds the full route table.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/auth/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/auth/me", s.authed(s.handleMe)).Methods("GET")
	r.HandleFunc("/auth/logout", s.authed(s.handleLogout)).Methods("POST")

	r.HandleFunc("/users", s.authed(s.handleListUsers)).Methods("GET")

	r.HandleFunc("/tasks", s.authed(s.handleListTasks)).Methods("GET")
	r.HandleFunc("/tasks", s.authed(s.handleCreateTask)).Methods("POST")
	r.HandleFunc("/tasks/{taskID}", s.authed(s.handleGetTask)).Methods("GET")
	r.HandleFunc("/tasks/{taskID}", s.authed(s.handleUpdateTask)).Methods("POST", "PUT")
	r.HandleFunc("/tasks/{taskID}", s.authed(s.handleDeleteTask)).Methods("DELETE")

	r.HandleFunc("/tasks/{taskID}/assignments", s.authed(s.handleAddAssignees)).Methods("POST")
	r.HandleFunc("/tasks/{taskID}/assignments/{assignmentID}", s.authed(s.handleRemoveAssignment)).Methods("DELETE")
	r.HandleFunc("/tasks/{taskID}/assignments/{assignmentID}/approve", s.authed(s.handleApprove)).Methods("PUT")
	r.HandleFunc("/tasks/{taskID}/assignments/{assignmentID}/revision", s.authed(s.handleRevision)).Methods("PUT")

	r.HandleFunc("/tasks/{taskID}/watchers", s.authed(s.handleAddWatchers)).Methods("POST")
	r.HandleFunc("/tasks/{taskID}/watchers/{userID}", s.authed(s.handleRemoveWatcher)).Methods("DELETE")

	r.HandleFunc("/tasks/{taskID}/attachments", s.authed(s.handleAddAttachments)).Methods("POST")
	r.HandleFunc("/tasks/{taskID}/attachments/{attachmentID}", s.authed(s.handleRemoveAttachment)).Methods("DELETE")

	r.HandleFunc("/watching-tasks", s.authed(s.handleWatchedTasks)).Methods("GET")

	r.HandleFunc("/my-tasks", s.authed(s.handleMyTasks)).Methods("GET")
	r.HandleFunc("/my-tasks/{assignmentID}", s.authed(s.handleMyTask)).Methods("GET")
	r.HandleFunc("/my-tasks/{assignmentID}/update", s.authed(s.handleUpdateAssignment)).Methods("POST")
	r.HandleFunc("/my-tasks/{assignmentID}/submit", s.authed(s.handleSubmitForReview)).Methods("POST")

	r.HandleFunc("/notifications", s.authed(s.handleListNotifications)).Methods("GET")
	r.HandleFunc("/notifications/unread-count", s.authed(s.handleUnreadCount)).Methods("GET")
	r.HandleFunc("/notifications/mark-all-read", s.authed(s.handleMarkAllRead)).Methods("PUT")
	r.HandleFunc("/notifications/clear-all", s.authed(s.handleClearRead)).Methods("DELETE")
	r.HandleFunc("/notifications/{id}/read", s.authed(s.handleMarkRead)).Methods("PUT")
	r.HandleFunc("/notifications/{id}", s.authed(s.handleDeleteNotification)).Methods("DELETE")

	r.HandleFunc("/organizational-designations", s.authed(s.handleListDesignations)).Methods("GET")
	r.HandleFunc("/organizational-designations", s.authed(s.handleCreateDesignation)).Methods("POST")
	r.HandleFunc("/organizational-designations/{id}", s.authed(s.handleUpdateDesignation)).Methods("PUT")
	r.HandleFunc("/organizational-designations/{id}", s.authed(s.handleDeleteDesignation)).Methods("DELETE")

	return s.counting(r)
}

func (s *Server) counting(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// authed resolves the session cookie and passes the user through the request
// context the same way the gateway does.
func (s *Server) authed(next func(http.ResponseWriter, *http.Request, models.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthenticated.")
			return
		}
		s.mu.Lock()
		userID, ok := s.sessions[cookie.Value]
		user := s.users[userID]
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthenticated.")
			return
		}
		next(w, r, user)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	password, ok := s.passwords[input.Email]
	if !ok || password != input.Password {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	var user models.User
	for _, u := range s.users {
		if u.Email == input.Email {
			user = u
			break
		}
	}
	token := fmt.Sprintf("session-%s", uuid.New().String())
	s.sessions[token] = user.ID

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: token, Path: "/", HttpOnly: true})
	writeData(w, http.StatusOK, "Logged in successfully", map[string]interface{}{"user": user})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, user models.User) {
	writeData(w, http.StatusOK, "", map[string]interface{}{"user": user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, user models.User) {
	cookie, err := r.Cookie(sessionCookie)
	if err == nil {
		s.mu.Lock()
		delete(s.sessions, cookie.Value)
		s.mu.Unlock()
	}
	writeData(w, http.StatusOK, "Logged out successfully", nil)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request, user models.User) {
	s.mu.Lock()
	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	s.mu.Unlock()
	writeData(w, http.StatusOK, "", map[string]interface{}{"users": users})
}

// writeData writes the backend's uniform success envelope.
func writeData(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}

func writeValidationError(w http.ResponseWriter, message string, errors map[string][]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
		"errors":  errors,
	})
}
