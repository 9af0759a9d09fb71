package handlers

import (
	"context"
	"time"

	"github.com/benleytuano/taskmap-frontend/apiclient"
	"github.com/benleytuano/taskmap-frontend/logging"
	"github.com/benleytuano/taskmap-frontend/models"
	"github.com/benleytuano/taskmap-frontend/session"
)

// AuthActions is the login boundary: it owns establishing and discarding the
// session.
type AuthActions struct {
	session *session.Session
	client  *apiclient.Client
}

func NewAuthActions(sess *session.Session, client *apiclient.Client) *AuthActions {
	return &AuthActions{session: sess, client: client}
}

func (h *AuthActions) Login(ctx context.Context, email, password string) ActionResult {
	if !h.session.InFlight().Begin("login") {
		return ActionResult{Message: "This action is already in progress"}
	}
	defer h.session.InFlight().End("login")

	user, err := h.client.Login(ctx, email, password)
	if err != nil {
		return resultFromError(err)
	}
	h.session.SetUser(user)
	logging.Logger.Infof("Event ID: USER_LOGGED_IN, Description: User %d logged in", user.ID)

	if user.Role.IsAdmin() {
		return ActionResult{Success: true, Redirect: DashboardRoute}
	}
	return ActionResult{Success: true, Redirect: MyTasksRoute}
}

// CurrentUser resolves the session user, refreshing from the backend when the
// local session is empty but a live cookie exists. An expired cookie skips
// the round trip entirely.
func (h *AuthActions) CurrentUser(ctx context.Context) (models.User, ActionResult) {
	if user, ok := h.session.User(); ok {
		return user, success("")
	}
	if token := h.client.SessionToken(); session.TokenExpired(token, time.Now()) {
		h.session.Clear()
		return models.User{}, ActionResult{Redirect: LoginRoute}
	}
	user, err := h.client.Me(ctx)
	if err != nil {
		result := resultFromError(err)
		if result.Redirect == LoginRoute {
			h.session.Clear()
		}
		return models.User{}, result
	}
	h.session.SetUser(user)
	return *user, success("")
}

// Logout discards local state even when the backend call fails.
func (h *AuthActions) Logout(ctx context.Context) ActionResult {
	err := h.client.Logout(ctx)
	h.session.Clear()
	if err != nil {
		logging.Logger.Warnf("Event ID: LOGOUT_FAILED, Description: Backend logout failed: %v", err)
	}
	return ActionResult{Success: true, Redirect: LoginRoute}
}
