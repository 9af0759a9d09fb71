package handlers

import (
	"errors"

	"github.com/benleytuano/taskmap-frontend/apiclient"
)

// Routes the action layer can send the UI to. Kept as constants so redirects
// stay consistent across actions.
const (
	LoginRoute     = "/"
	DashboardRoute = "/dashboard"
	MyTasksRoute   = "/dashboard/my-tasks"
)

// ActionResult is the uniform outcome of every UI action. No error leaves
// this boundary as a raw value: failures become a message (server text
// verbatim), field errors, or a redirect.
type ActionResult struct {
	Success  bool
	Message  string
	Errors   map[string][]string
	Redirect string // non-empty when the UI must navigate away
}

func success(message string) ActionResult {
	return ActionResult{Success: true, Message: message}
}

// resultFromError maps the error taxonomy onto UI behavior: 401 discards the
// session and goes to login, 403 redirects to a permitted view, 404 to a safe
// parent, validation renders inline, transient failures get a generic
// retry-able message with no automatic retry.
func resultFromError(err error) ActionResult {
	var authErr *apiclient.AuthError
	var permErr *apiclient.PermissionError
	var notFoundErr *apiclient.NotFoundError
	var validationErr *apiclient.ValidationError
	var transientErr *apiclient.TransientError

	switch {
	case errors.As(err, &authErr):
		return ActionResult{Message: authErr.Error(), Redirect: LoginRoute}
	case errors.As(err, &permErr):
		return ActionResult{Message: permErr.Error(), Redirect: MyTasksRoute}
	case errors.As(err, &notFoundErr):
		return ActionResult{Message: notFoundErr.Error(), Redirect: DashboardRoute}
	case errors.As(err, &validationErr):
		return ActionResult{Message: validationErr.Error(), Errors: validationErr.Fields}
	case errors.As(err, &transientErr):
		return ActionResult{Message: "A temporary error occurred. Please try again."}
	default:
		return ActionResult{Message: err.Error()}
	}
}
