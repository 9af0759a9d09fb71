package apitest

import (
	"net/http"

	"github.com/benleytuano/taskmap-frontend/models"
)

func (s *Server) requireSuperadmin(w http.ResponseWriter, user models.User) bool {
	if user.Role != models.RoleSuperadmin {
		writeError(w, http.StatusForbidden, "This action is unauthorized.")
		return false
	}
	return true
}

func (s *Server) handleListDesignations(w http.ResponseWriter, r *http.Request, user models.User) {
	if !s.requireSuperadmin(w, user) {
		return
	}
	s.mu.Lock()
	list := make([]models.Designation, 0, len(s.designations))
	for _, d := range s.designations {
		list = append(list, d)
	}
	s.mu.Unlock()
	writeData(w, http.StatusOK, "", map[string]interface{}{"designations": list})
}

func (s *Server) handleCreateDesignation(w http.ResponseWriter, r *http.Request, user models.User) {
	if !s.requireSuperadmin(w, user) {
		return
	}
	var d models.Designation
	if err := decodeJSON(r, &d); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := d.Validate(); err != nil {
		writeValidationError(w, err.Error(), nil)
		return
	}
	s.mu.Lock()
	d.ID = s.id()
	s.designations[d.ID] = d
	s.mu.Unlock()
	writeData(w, http.StatusCreated, "Designation created successfully", map[string]interface{}{"designation": d})
}

func (s *Server) handleUpdateDesignation(w http.ResponseWriter, r *http.Request, user models.User) {
	if !s.requireSuperadmin(w, user) {
		return
	}
	var d models.Designation
	if err := decodeJSON(r, &d); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := d.Validate(); err != nil {
		writeValidationError(w, err.Error(), nil)
		return
	}
	id := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.designations[id]; !ok {
		writeError(w, http.StatusNotFound, "Designation not found")
		return
	}
	d.ID = id
	s.designations[id] = d
	writeData(w, http.StatusOK, "Designation updated successfully", map[string]interface{}{"designation": d})
}

func (s *Server) handleDeleteDesignation(w http.ResponseWriter, r *http.Request, user models.User) {
	if !s.requireSuperadmin(w, user) {
		return
	}
	id := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.designations[id]; !ok {
		writeError(w, http.StatusNotFound, "Designation not found")
		return
	}
	delete(s.designations, id)
	writeData(w, http.StatusOK, "Designation deleted successfully", nil)
}
