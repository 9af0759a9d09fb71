package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/benleytuano/taskmap-frontend/models"
)

// Session scopes all client-side state to one authenticated user. Logout (or
// a 401 from anywhere) discards everything; no state crosses session
// boundaries.
type Session struct {
	mu       sync.Mutex
	user     *models.User
	inflight *InFlight
}

func New() *Session {
	return &Session{inflight: NewInFlight()}
}

func (s *Session) SetUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// User returns the authenticated user, if any.
func (s *Session) User() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s *Session) InFlight() *InFlight {
	return s.inflight
}

// Clear drops the user and every in-flight marker.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.inflight.Reset()
}

// TokenExpired peeks at the session JWT without verifying it; the backend
// stays authoritative. This only pre-empts a round trip that is guaranteed to
// come back 401. An unparseable or absent token counts as expired.
func TokenExpired(token string, now time.Time) bool {
	if token == "" {
		return true
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(now)
}
