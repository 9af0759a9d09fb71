package apiclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benleytuano/taskmap-frontend/apiclient"
	"github.com/benleytuano/taskmap-frontend/apitest"
	"github.com/benleytuano/taskmap-frontend/models"
)

func newClient(t *testing.T, backend *apitest.Server) (*apiclient.Client, func()) {
	t.Helper()
	srv := httptest.NewServer(backend.Router())
	client := apiclient.New(srv.URL, 5*time.Second)
	return client, srv.Close
}

func login(t *testing.T, client *apiclient.Client, email, password string) *models.User {
	t.Helper()
	user, err := client.Login(context.Background(), email, password)
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return user
}

func TestLoginStoresSessionCookie(t *testing.T) {
	backend := apitest.NewServer()
	backend.AddUser(models.User{Name: "Ana", Email: "ana@example.test", Role: models.RoleUser}, "secret")
	client, teardown := newClient(t, backend)
	defer teardown()

	if client.SessionToken() != "" {
		t.Fatal("fresh client should hold no session")
	}

	user := login(t, client, "ana@example.test", "secret")
	if user.Name != "Ana" {
		t.Fatalf("user = %+v", user)
	}
	if client.SessionToken() == "" {
		t.Fatal("session cookie should be stored after login")
	}

	me, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.Email != "ana@example.test" {
		t.Fatalf("me = %+v", me)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	backend := apitest.NewServer()
	creator := backend.AddUser(models.User{Name: "Creator", Email: "creator@example.test", Role: models.RoleUser}, "pw")
	backend.AddUser(models.User{Name: "Outsider", Email: "outsider@example.test", Role: models.RoleUser}, "pw")
	task := backend.AddTask(models.Task{Title: "Audit", CreatedBy: creator})
	client, teardown := newClient(t, backend)
	defer teardown()

	t.Run("401 maps to AuthError", func(t *testing.T) {
		_, err := client.GetTask(context.Background(), task.ID)
		var authErr *apiclient.AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("got %v, want AuthError", err)
		}
	})

	login(t, client, "outsider@example.test", "pw")

	t.Run("403 maps to PermissionError", func(t *testing.T) {
		_, err := client.ListTasks(context.Background())
		var permErr *apiclient.PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("got %v, want PermissionError", err)
		}
	})

	t.Run("404 maps to NotFoundError", func(t *testing.T) {
		_, err := client.GetMyTask(context.Background(), 99999)
		var nfErr *apiclient.NotFoundError
		if !errors.As(err, &nfErr) {
			t.Fatalf("got %v, want NotFoundError", err)
		}
	})

	t.Run("422 maps to ValidationError with fields", func(t *testing.T) {
		login(t, client, "creator@example.test", "pw")
		_, _, err := client.CreateTask(context.Background(), apiclient.TaskForm{Description: "no title"})
		var valErr *apiclient.ValidationError
		if !errors.As(err, &valErr) {
			t.Fatalf("got %v, want ValidationError", err)
		}
		if len(valErr.Fields["title"]) == 0 || len(valErr.Fields["deadline"]) == 0 {
			t.Fatalf("Fields = %v, want title and deadline entries", valErr.Fields)
		}
	})
}

func TestInvalidCredentials(t *testing.T) {
	backend := apitest.NewServer()
	backend.AddUser(models.User{Name: "Ana", Email: "ana@example.test"}, "secret")
	client, teardown := newClient(t, backend)
	defer teardown()

	_, err := client.Login(context.Background(), "ana@example.test", "wrong")
	var authErr *apiclient.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("got %v, want AuthError", err)
	}
}

func TestServerErrorsTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	client := apiclient.New(srv.URL, 5*time.Second)

	for i := 0; i < 4; i++ {
		_, err := client.ListTasks(context.Background())
		var transient *apiclient.TransientError
		if !errors.As(err, &transient) {
			t.Fatalf("call %d: got %v, want TransientError", i, err)
		}
	}

	// Four consecutive failures open the circuit; the next call fails fast.
	_, err := client.ListTasks(context.Background())
	var transient *apiclient.TransientError
	if !errors.As(err, &transient) {
		t.Fatalf("got %v, want TransientError", err)
	}
	if transient.Error() != "service temporarily unavailable, please try again later" {
		t.Fatalf("open-circuit message = %q", transient.Error())
	}
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	backend := apitest.NewServer()
	user := backend.AddUser(models.User{Name: "Ana", Email: "ana@example.test", Role: models.RoleAdmin}, "pw")
	client, teardown := newClient(t, backend)
	defer teardown()
	login(t, client, "ana@example.test", "pw")

	for i := 0; i < 10; i++ {
		if _, err := client.GetTask(context.Background(), 99999); err == nil {
			t.Fatal("missing task should 404")
		}
	}

	// The breaker stayed closed: a well-formed request still goes through.
	task := backend.AddTask(models.Task{Title: "Still reachable", CreatedBy: user})
	got, err := client.GetTask(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("get after 404 burst: %v", err)
	}
	if got.Title != "Still reachable" {
		t.Fatalf("task = %+v", got)
	}
}

func TestTaskRoundTrip(t *testing.T) {
	backend := apitest.NewServer()
	backend.AddUser(models.User{Name: "Creator", Email: "creator@example.test", Role: models.RoleUser}, "pw")
	assignee := backend.AddUser(models.User{Name: "Worker", Email: "worker@example.test", Role: models.RoleUser}, "pw")
	client, teardown := newClient(t, backend)
	defer teardown()
	login(t, client, "creator@example.test", "pw")

	task, message, err := client.CreateTask(context.Background(), apiclient.TaskForm{
		Title:      "Inventory count",
		Deadline:   "2026-09-15",
		Priority:   models.PriorityRush,
		AssignedTo: []int64{assignee.ID},
		Attachments: []models.PendingFile{
			{Name: "template.xlsx", Size: 64, Data: []byte("stub")},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if message == "" {
		t.Fatal("create should return a message")
	}
	if task.Priority != models.PriorityRush {
		t.Fatalf("priority = %s", task.Priority)
	}
	if len(task.Assignments) != 1 || task.Assignments[0].Status != models.StatusPending {
		t.Fatalf("assignments = %+v, want one pending", task.Assignments)
	}
	if len(task.Attachments) != 1 || task.Attachments[0].Filename != "template.xlsx" {
		t.Fatalf("attachments = %+v", task.Attachments)
	}

	got, err := client.GetTask(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Inventory count" || got.Deadline == nil {
		t.Fatalf("task = %+v", got)
	}
}

func TestMyTasksFlow(t *testing.T) {
	backend := apitest.NewServer()
	creator := backend.AddUser(models.User{Name: "Creator", Email: "creator@example.test", Role: models.RoleUser}, "pw")
	worker := backend.AddUser(models.User{Name: "Worker", Email: "worker@example.test", Role: models.RoleUser}, "pw")
	task := backend.AddTask(models.Task{
		Title:     "Write minutes",
		CreatedBy: creator,
		Assignments: []models.Assignment{
			{Assignee: worker, Status: models.StatusInProgress},
		},
	})
	assignmentID := task.Assignments[0].ID

	client, teardown := newClient(t, backend)
	defer teardown()
	login(t, client, "worker@example.test", "pw")

	mine, err := client.ListMyTasks(context.Background())
	if err != nil {
		t.Fatalf("list my tasks: %v", err)
	}
	if len(mine) != 1 || mine[0].Assignment.ID != assignmentID {
		t.Fatalf("my tasks = %+v", mine)
	}

	if _, err := client.UpdateMyAssignment(context.Background(), assignmentID, apiclient.AssignmentUpdateForm{
		ProgressNote: "halfway there",
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := client.SubmitForReview(context.Background(), assignmentID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	stored, _ := backend.Task(task.ID)
	if stored.Assignments[0].Status != models.StatusForReview {
		t.Fatalf("status = %s, want for_review", stored.Assignments[0].Status)
	}
	if stored.Assignments[0].ProgressNote != "halfway there" {
		t.Fatalf("progress note = %q", stored.Assignments[0].ProgressNote)
	}
}

func TestNotificationEndpoints(t *testing.T) {
	backend := apitest.NewServer()
	user := backend.AddUser(models.User{Name: "Ana", Email: "ana@example.test"}, "pw")
	first := backend.AddNotification(user.ID, models.Notification{Message: "Task assigned"})
	backend.AddNotification(user.ID, models.Notification{Message: "Deadline moved"})

	client, teardown := newClient(t, backend)
	defer teardown()
	login(t, client, "ana@example.test", "pw")

	count, err := client.UnreadCount(context.Background())
	if err != nil || count != 2 {
		t.Fatalf("unread = %d, %v; want 2", count, err)
	}

	if err := client.MarkNotificationRead(context.Background(), first.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	count, _ = client.UnreadCount(context.Background())
	if count != 1 {
		t.Fatalf("unread after mark = %d, want 1", count)
	}

	deleted, err := client.ClearReadNotifications(context.Background())
	if err != nil || deleted != 1 {
		t.Fatalf("cleared = %d, %v; want 1", deleted, err)
	}

	page, err := client.ListNotifications(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 || len(page.Notifications) != 1 {
		t.Fatalf("page = %+v, want one remaining", page)
	}
}
