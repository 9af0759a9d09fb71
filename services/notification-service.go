package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/benleytuano/taskmap-frontend/apiclient"
	"github.com/benleytuano/taskmap-frontend/logging"
	"github.com/benleytuano/taskmap-frontend/models"
)

// NotificationService keeps the local notification view and polls the unread
// count on a fixed interval, independent of user interaction. The poll timer
// must be stopped on teardown; a failed poll keeps the previous count.
type NotificationService struct {
	client *apiclient.Client

	mu            sync.Mutex
	cron          *cron.Cron
	unread        int
	notifications []models.Notification
	onUnread      func(count int)
}

func NewNotificationService(client *apiclient.Client) *NotificationService {
	return &NotificationService{client: client}
}

// StartPolling refreshes the unread count immediately and then on every
// interval tick until StopPolling. onUnread (optional) observes each
// successful refresh.
func (ns *NotificationService) StartPolling(interval time.Duration, onUnread func(count int)) error {
	if interval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}

	ns.mu.Lock()
	if ns.cron != nil {
		ns.mu.Unlock()
		return fmt.Errorf("polling already started")
	}
	ns.onUnread = onUnread
	c := cron.New()
	ns.cron = c
	ns.mu.Unlock()

	spec := fmt.Sprintf("@every %ds", int(interval.Seconds()))
	if _, err := c.AddFunc(spec, func() {
		if _, err := ns.RefreshUnread(context.Background()); err != nil {
			logging.Logger.Warnf("Event ID: NOTIFICATION_POLL_FAILED, Description: Unread count poll failed: %v", err)
		}
	}); err != nil {
		return err
	}
	c.Start()

	go func() {
		if _, err := ns.RefreshUnread(context.Background()); err != nil {
			logging.Logger.Warnf("Event ID: NOTIFICATION_POLL_FAILED, Description: Initial unread count fetch failed: %v", err)
		}
	}()

	return nil
}

// StopPolling cancels the poll timer and waits for a running job to finish.
// Safe to call when polling never started.
func (ns *NotificationService) StopPolling() {
	ns.mu.Lock()
	c := ns.cron
	ns.cron = nil
	ns.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

// RefreshUnread fetches the unread count and stores it on success.
func (ns *NotificationService) RefreshUnread(ctx context.Context) (int, error) {
	count, err := ns.client.UnreadCount(ctx)
	if err != nil {
		return 0, err
	}

	ns.mu.Lock()
	ns.unread = count
	callback := ns.onUnread
	ns.mu.Unlock()

	if callback != nil {
		callback(count)
	}
	return count, nil
}

func (ns *NotificationService) Unread() int {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.unread
}

// Load fetches one page of notifications and replaces the local list.
func (ns *NotificationService) Load(ctx context.Context, page int) (*apiclient.NotificationPage, error) {
	result, err := ns.client.ListNotifications(ctx, page)
	if err != nil {
		return nil, err
	}
	ns.mu.Lock()
	ns.notifications = result.Notifications
	ns.mu.Unlock()
	return result, nil
}

// Notifications returns a copy of the local list.
func (ns *NotificationService) Notifications() []models.Notification {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	out := make([]models.Notification, len(ns.notifications))
	copy(out, ns.notifications)
	return out
}

// MarkRead marks one notification read and reconciles the local view: the
// entry flips to read and the unread count drops, never below zero.
func (ns *NotificationService) MarkRead(ctx context.Context, id int64) error {
	if err := ns.client.MarkNotificationRead(ctx, id); err != nil {
		return err
	}
	ns.mu.Lock()
	defer ns.mu.Unlock()
	for i := range ns.notifications {
		if ns.notifications[i].ID == id && !ns.notifications[i].IsRead {
			ns.notifications[i].IsRead = true
			if ns.unread > 0 {
				ns.unread--
			}
		}
	}
	return nil
}

func (ns *NotificationService) MarkAllRead(ctx context.Context) (int, error) {
	count, err := ns.client.MarkAllNotificationsRead(ctx)
	if err != nil {
		return 0, err
	}
	ns.mu.Lock()
	defer ns.mu.Unlock()
	for i := range ns.notifications {
		ns.notifications[i].IsRead = true
	}
	ns.unread = 0
	return count, nil
}

// Delete removes one notification; the unread count drops only if the entry
// was unread.
func (ns *NotificationService) Delete(ctx context.Context, id int64) error {
	if err := ns.client.DeleteNotification(ctx, id); err != nil {
		return err
	}
	ns.mu.Lock()
	defer ns.mu.Unlock()
	kept := ns.notifications[:0]
	for _, n := range ns.notifications {
		if n.ID == id {
			if !n.IsRead && ns.unread > 0 {
				ns.unread--
			}
			continue
		}
		kept = append(kept, n)
	}
	ns.notifications = kept
	return nil
}

// ClearRead deletes every already-read notification.
func (ns *NotificationService) ClearRead(ctx context.Context) (int, error) {
	count, err := ns.client.ClearReadNotifications(ctx)
	if err != nil {
		return 0, err
	}
	ns.mu.Lock()
	defer ns.mu.Unlock()
	kept := ns.notifications[:0]
	for _, n := range ns.notifications {
		if !n.IsRead {
			kept = append(kept, n)
		}
	}
	ns.notifications = kept
	return count, nil
}
