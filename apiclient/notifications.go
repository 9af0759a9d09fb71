package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/benleytuano/taskmap-frontend/models"
)

// NotificationPage is one page of the notification list.
type NotificationPage struct {
	Notifications []models.Notification `json:"notifications"`
	Page          int                   `json:"page"`
	TotalPages    int                   `json:"total_pages"`
	Total         int                   `json:"total"`
}

func (c *Client) ListNotifications(ctx context.Context, page int) (*NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	var data NotificationPage
	if err := c.getJSON(ctx, c.NotificationsBreaker, fmt.Sprintf("/notifications?page=%d", page), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var data struct {
		UnreadCount int `json:"unread_count"`
	}
	if err := c.getJSON(ctx, c.NotificationsBreaker, "/notifications/unread-count", &data); err != nil {
		return 0, err
	}
	return data.UnreadCount, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	_, err := c.sendJSON(ctx, c.NotificationsBreaker, http.MethodPut, fmt.Sprintf("/notifications/%d/read", id), nil)
	return err
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) (int, error) {
	env, err := c.sendJSON(ctx, c.NotificationsBreaker, http.MethodPut, "/notifications/mark-all-read", nil)
	if err != nil {
		return 0, err
	}
	var data struct {
		MarkedCount int `json:"marked_count"`
	}
	if err := env.decodeData(&data); err != nil {
		return 0, err
	}
	return data.MarkedCount, nil
}

func (c *Client) DeleteNotification(ctx context.Context, id int64) error {
	_, err := c.do(ctx, c.NotificationsBreaker, http.MethodDelete, fmt.Sprintf("/notifications/%d", id), "", nil)
	return err
}

// ClearReadNotifications deletes every already-read notification.
func (c *Client) ClearReadNotifications(ctx context.Context) (int, error) {
	env, err := c.do(ctx, c.NotificationsBreaker, http.MethodDelete, "/notifications/clear-all", "", nil)
	if err != nil {
		return 0, err
	}
	var data struct {
		DeletedCount int `json:"deleted_count"`
	}
	if err := env.decodeData(&data); err != nil {
		return 0, err
	}
	return data.DeletedCount, nil
}
