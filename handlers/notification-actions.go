package handlers

import (
	"context"
	"fmt"

	"github.com/benleytuano/taskmap-frontend/services"
	"github.com/benleytuano/taskmap-frontend/session"
)

// NotificationActions wraps the notification bell operations in the same
// result shape as every other action.
type NotificationActions struct {
	session       *session.Session
	notifications *services.NotificationService
}

func NewNotificationActions(sess *session.Session, notifications *services.NotificationService) *NotificationActions {
	return &NotificationActions{session: sess, notifications: notifications}
}

func (h *NotificationActions) run(opID string, fn func() error) ActionResult {
	if !h.session.InFlight().Begin(opID) {
		return ActionResult{Message: "This action is already in progress"}
	}
	defer h.session.InFlight().End(opID)

	if err := fn(); err != nil {
		result := resultFromError(err)
		if result.Redirect == LoginRoute {
			h.session.Clear()
		}
		return result
	}
	return ActionResult{Success: true}
}

func (h *NotificationActions) MarkRead(ctx context.Context, id int64) ActionResult {
	return h.run(fmt.Sprintf("mark-read:%d", id), func() error {
		return h.notifications.MarkRead(ctx, id)
	})
}

func (h *NotificationActions) MarkAllRead(ctx context.Context) ActionResult {
	return h.run("mark-all-read", func() error {
		_, err := h.notifications.MarkAllRead(ctx)
		return err
	})
}

func (h *NotificationActions) Delete(ctx context.Context, id int64) ActionResult {
	return h.run(fmt.Sprintf("delete-notification:%d", id), func() error {
		return h.notifications.Delete(ctx, id)
	})
}

func (h *NotificationActions) ClearRead(ctx context.Context) ActionResult {
	return h.run("clear-read-notifications", func() error {
		_, err := h.notifications.ClearRead(ctx)
		return err
	})
}
