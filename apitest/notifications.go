package apitest

import (
	"net/http"
	"strconv"

	"github.com/benleytuano/taskmap-frontend/models"
)

const notificationPageSize = 10

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request, user models.User) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	s.mu.Lock()
	list := s.notifications[user.ID]
	total := len(list)
	totalPages := (total + notificationPageSize - 1) / notificationPageSize
	start := (page - 1) * notificationPageSize
	if start > total {
		start = total
	}
	end := start + notificationPageSize
	if end > total {
		end = total
	}
	pageItems := append([]models.Notification{}, list[start:end]...)
	s.mu.Unlock()

	writeData(w, http.StatusOK, "", map[string]interface{}{
		"notifications": pageItems,
		"page":          page,
		"total_pages":   totalPages,
		"total":         total,
	})
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request, user models.User) {
	s.mu.Lock()
	count := 0
	for _, n := range s.notifications[user.ID] {
		if !n.IsRead {
			count++
		}
	}
	s.mu.Unlock()
	writeData(w, http.StatusOK, "", map[string]interface{}{"unread_count": count})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request, user models.User) {
	id := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.notifications[user.ID]
	for i := range list {
		if list[i].ID == id {
			list[i].IsRead = true
			writeData(w, http.StatusOK, "Notification marked as read", nil)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Notification not found")
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request, user models.User) {
	s.mu.Lock()
	list := s.notifications[user.ID]
	marked := 0
	for i := range list {
		if !list[i].IsRead {
			list[i].IsRead = true
			marked++
		}
	}
	s.mu.Unlock()
	writeData(w, http.StatusOK, "All notifications marked as read", map[string]interface{}{"marked_count": marked})
}

func (s *Server) handleDeleteNotification(w http.ResponseWriter, r *http.Request, user models.User) {
	id := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.notifications[user.ID]
	for i := range list {
		if list[i].ID == id {
			s.notifications[user.ID] = append(list[:i], list[i+1:]...)
			writeData(w, http.StatusOK, "Notification deleted", nil)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Notification not found")
}

func (s *Server) handleClearRead(w http.ResponseWriter, r *http.Request, user models.User) {
	s.mu.Lock()
	kept := s.notifications[user.ID][:0]
	deleted := 0
	for _, n := range s.notifications[user.ID] {
		if n.IsRead {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	s.notifications[user.ID] = kept
	s.mu.Unlock()
	writeData(w, http.StatusOK, "Read notifications cleared", map[string]interface{}{"deleted_count": deleted})
}
