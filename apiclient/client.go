package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/benleytuano/taskmap-frontend/logging"
	"github.com/benleytuano/taskmap-frontend/models"
	"github.com/sony/gobreaker"
)

// Client talks to the taskmap REST backend. Session credentials live in the
// cookie jar, so the zero value is unauthenticated until Login succeeds.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	TasksBreaker         *gobreaker.CircuitBreaker
	NotificationsBreaker *gobreaker.CircuitBreaker
}

// NewBreaker builds a circuit breaker for one backend area.
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
}

func New(baseURL string, timeout time.Duration) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL:              strings.TrimRight(baseURL, "/"),
		HTTPClient:           &http.Client{Timeout: timeout, Jar: jar},
		TasksBreaker:         NewBreaker("TasksCB"),
		NotificationsBreaker: NewBreaker("NotificationsCB"),
	}
}

// envelope is the backend's uniform response shape.
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

// decodeData unmarshals the data section into v.
func (e *envelope) decodeData(v interface{}) error {
	if len(e.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode response data: %v", err)
	}
	return nil
}

// do performs one request through the given breaker and maps the response
// onto the error taxonomy. Only transport failures and 5xx responses count as
// breaker failures; 4xx responses are well-formed answers.
func (c *Client) do(ctx context.Context, breaker *gobreaker.CircuitBreaker, method, path, contentType string, body io.Reader) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	result, err := breaker.Execute(func() (interface{}, error) {
		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, fmt.Errorf("server error: %s", resp.Status)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &TransientError{Message: "service temporarily unavailable, please try again later", Err: err}
		}
		return nil, &TransientError{Err: err}
	}

	resp := result.(*http.Response)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransientError{Err: err}
	}

	env := &envelope{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, env); err != nil && resp.StatusCode < 300 {
			return nil, fmt.Errorf("decode response: %v", err)
		}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, &AuthError{Message: env.Message}
	case resp.StatusCode == http.StatusForbidden:
		return nil, &PermissionError{Message: env.Message}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &NotFoundError{Message: env.Message}
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, &ValidationError{Message: env.Message, Fields: env.Errors}
	case resp.StatusCode >= 400:
		return nil, &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	return env, nil
}

func (c *Client) getJSON(ctx context.Context, breaker *gobreaker.CircuitBreaker, path string, out interface{}) error {
	env, err := c.do(ctx, breaker, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	return env.decodeData(out)
}

func (c *Client) sendJSON(ctx context.Context, breaker *gobreaker.CircuitBreaker, method, path string, payload interface{}) (*envelope, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	return c.do(ctx, breaker, method, path, "application/json", body)
}

// multipartBody encodes form fields plus files under the given field name
// (e.g. "attachments[]").
func multipartBody(fields map[string][]string, fileField string, files []models.PendingFile) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for name, values := range fields {
		for _, value := range values {
			if err := w.WriteField(name, value); err != nil {
				return nil, "", fmt.Errorf("encode field %s: %v", name, err)
			}
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(fileField, f.Name)
		if err != nil {
			return nil, "", fmt.Errorf("encode file %s: %v", f.Name, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("write file %s: %v", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
