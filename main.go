package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/benleytuano/taskmap-frontend/apiclient"
	"github.com/benleytuano/taskmap-frontend/config"
	"github.com/benleytuano/taskmap-frontend/handlers"
	"github.com/benleytuano/taskmap-frontend/logging"
	"github.com/benleytuano/taskmap-frontend/services"
	"github.com/benleytuano/taskmap-frontend/session"
)

// App bundles the wired client so an embedding UI has one handle for every
// action boundary.
type App struct {
	Session       *session.Session
	Auth          *handlers.AuthActions
	Tasks         *handlers.TaskActions
	MyTasks       *handlers.MyTaskActions
	Notifications *handlers.NotificationActions
	Designations  *handlers.DesignationActions

	NotificationService *services.NotificationService
}

// NewApp wires services and action handlers around one API client.
func NewApp(cfg config.Config) *App {
	client := apiclient.New(cfg.APIBaseURL, cfg.RequestTimeout)
	sess := session.New()

	lifecycle := services.NewLifecycleService()
	membership := services.NewMembershipService()
	permissions := services.NewPermissionService()
	tasks := services.NewTaskService(client, membership, permissions)
	assignments := services.NewAssignmentService(client, lifecycle, permissions)
	notifications := services.NewNotificationService(client)
	designations := services.NewDesignationService(client)

	return &App{
		Session:             sess,
		Auth:                handlers.NewAuthActions(sess, client),
		Tasks:               handlers.NewTaskActions(sess, tasks, assignments, permissions, membership),
		MyTasks:             handlers.NewMyTaskActions(sess, tasks, assignments, lifecycle, client),
		Notifications:       handlers.NewNotificationActions(sess, notifications),
		Designations:        handlers.NewDesignationActions(sess, designations),
		NotificationService: notifications,
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_LOAD_FAILED, Description: %v", err)
	}
	logging.InitLogger(cfg.LogFile)
	logging.Logger.Infof("Event ID: CLIENT_STARTED, Description: Task client started against %s", cfg.APIBaseURL)

	app := NewApp(cfg)

	if err := app.NotificationService.StartPolling(cfg.PollInterval, func(count int) {
		logging.Logger.Infof("Event ID: UNREAD_COUNT_REFRESHED, Description: %d unread notifications", count)
	}); err != nil {
		logging.Logger.Fatalf("Event ID: POLLER_START_FAILED, Description: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	app.NotificationService.StopPolling()
	logging.Logger.Info("Event ID: CLIENT_STOPPED, Description: Task client shut down")
}
