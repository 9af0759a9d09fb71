package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/benleytuano/taskmap-frontend/models"
)

// SessionCookieName is the HttpOnly cookie the backend sets on login.
const SessionCookieName = "taskmap_session"

// Login authenticates and stores the session cookie in the client's jar.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	payload := map[string]string{"email": email, "password": password}
	env, err := c.sendJSON(ctx, c.TasksBreaker, http.MethodPost, "/auth/login", payload)
	if err != nil {
		return nil, err
	}
	var data struct {
		User models.User `json:"user"`
	}
	if err := env.decodeData(&data); err != nil {
		return nil, err
	}
	return &data.User, nil
}

// Me returns the authenticated user for the current session cookie.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var data struct {
		User models.User `json:"user"`
	}
	if err := c.getJSON(ctx, c.TasksBreaker, "/auth/me", &data); err != nil {
		return nil, err
	}
	return &data.User, nil
}

// Logout invalidates the backend session. Local state is discarded by the
// session layer regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.sendJSON(ctx, c.TasksBreaker, http.MethodPost, "/auth/logout", nil)
	return err
}

// SessionToken returns the raw value of the session cookie, or "" when the
// client is unauthenticated.
func (c *Client) SessionToken() string {
	if c.HTTPClient.Jar == nil {
		return ""
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return ""
	}
	for _, cookie := range c.HTTPClient.Jar.Cookies(u) {
		if cookie.Name == SessionCookieName {
			return cookie.Value
		}
	}
	return ""
}
