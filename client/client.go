// Package client talks to the tasks API and keeps a local, observable copy of
// the task list.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	domain "github.com/example/task-manager/domain/task"
)

// DefaultTimeout bounds every request made by a Client.
const DefaultTimeout = 15 * time.Second

// ErrTimeout is wrapped by the APIError returned when a request exceeds the
// client timeout.
var ErrTimeout = errors.New("request timed out")

// APIError is a failed call normalized to a displayable message. Status is
// zero when no HTTP response was received.
type APIError struct {
	Message string
	Status  int
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Task is a task as returned by the API.
type Task struct {
	ID          uint          `json:"id"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	Status      domain.Status `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// NewTask holds the fields of a task to create. An empty Description or
// Status is omitted from the request.
type NewTask struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Status      domain.Status `json:"status,omitempty"`
}

// TaskUpdate holds the fields of a partial update. Nil fields are not sent;
// ClearDescription sends an explicit null.
type TaskUpdate struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Status           *domain.Status
}

// MarshalJSON encodes only the fields the update sets.
func (u TaskUpdate) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, 3)
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	switch {
	case u.ClearDescription:
		fields["description"] = nil
	case u.Description != nil:
		fields["description"] = *u.Description
	}
	if u.Status != nil {
		fields["status"] = *u.Status
	}
	return json.Marshal(fields)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// Client is an HTTP client for the tasks API.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{},
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches the active tasks matching q.
func (c *Client) List(ctx context.Context, q domain.ListQuery) ([]Task, error) {
	params := url.Values{}
	if q.Status != nil {
		params.Set("status", string(*q.Status))
	}
	if q.SortBy != "" {
		params.Set("sortBy", string(q.SortBy))
	}
	if q.SortOrder != "" {
		params.Set("sortOrder", string(q.SortOrder))
	}

	path := "/tasks"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var tasks []Task
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// Create validates in and creates the task.
func (c *Client) Create(ctx context.Context, in NewTask) (*Task, error) {
	in, err := ValidateNewTask(in)
	if err != nil {
		return nil, err
	}

	var created Task
	if err := c.do(ctx, http.MethodPost, "/tasks", in, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update validates u and applies it to the task with the given id.
func (c *Client) Update(ctx context.Context, id uint, u TaskUpdate) (*Task, error) {
	u, err := ValidateTaskUpdate(u)
	if err != nil {
		return nil, err
	}

	var updated Task
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), u, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete soft-deletes the task with the given id.
func (c *Client) Delete(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil)
}

// do sends one request and decodes a successful reply into out. A 204 reply
// leaves out untouched.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &APIError{Message: "Request timed out", Err: ErrTimeout}
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Message: errorMessage(resp), Status: resp.StatusCode}
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &APIError{Message: "Request timed out", Err: ErrTimeout}
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage reads the message field of a JSON error body, falling back
// to "HTTP <status>".
func errorMessage(resp *http.Response) string {
	fallback := fmt.Sprintf("HTTP %d", resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fallback
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fallback
	}
	msg, ok := payload["message"]
	if !ok {
		return fallback
	}
	if s, ok := msg.(string); ok {
		return s
	}
	return fmt.Sprint(msg)
}
