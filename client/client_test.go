package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domain "github.com/example/task-manager/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method      string
	Path        string
	Query       string
	ContentType string
	Accept      string
	Body        string
}

// newTestServer answers every request with status and body and records what
// it received.
func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *recordedRequest) {
	t.Helper()

	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		*rec = recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.RawQuery,
			ContentType: r.Header.Get("Content-Type"),
			Accept:      r.Header.Get("Accept"),
			Body:        string(data),
		}
		if body != "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

const taskJSON = `{"id":7,"title":"Buy milk","description":null,"status":"TODO","createdAt":"2026-01-02T03:04:05.678Z","updatedAt":"2026-01-02T03:04:05.678Z"}`

func TestNew_TrimsTrailingSlashes(t *testing.T) {
	c := New("http://localhost:4000///")
	assert.Equal(t, "http://localhost:4000", c.baseURL)
	assert.Equal(t, DefaultTimeout, c.timeout)
}

func TestClient_List(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, "["+taskJSON+"]")
	c := New(srv.URL + "/")

	done := domain.StatusDone
	tasks, err := c.List(context.Background(), domain.ListQuery{
		Status:    &done,
		SortBy:    domain.SortByStatus,
		SortOrder: domain.SortAsc,
	})
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	assert.Equal(t, http.MethodGet, rec.Method)
	assert.Equal(t, "/tasks", rec.Path)
	assert.Equal(t, "sortBy=status&sortOrder=asc&status=DONE", rec.Query)
	assert.Empty(t, rec.ContentType, "no body means no content type")
	assert.Equal(t, "application/json", rec.Accept)

	got := tasks[0]
	assert.Equal(t, uint(7), got.ID)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Nil(t, got.Description)
	assert.Equal(t, domain.StatusTodo, got.Status)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 678000000, time.UTC), got.CreatedAt.UTC())
}

func TestClient_ListWithoutQuery(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, "[]")
	c := New(srv.URL)

	tasks, err := c.List(context.Background(), domain.ListQuery{})
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
	assert.Empty(t, rec.Query)
}

func TestClient_Create(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusCreated, taskJSON)
	c := New(srv.URL)

	created, err := c.Create(context.Background(), NewTask{Title: "  Buy milk  "})
	require.NoError(t, err)
	assert.Equal(t, uint(7), created.ID)

	assert.Equal(t, http.MethodPost, rec.Method)
	assert.Equal(t, "/tasks", rec.Path)
	assert.Equal(t, "application/json", rec.ContentType)
	assert.JSONEq(t, `{"title":"Buy milk"}`, rec.Body)
}

func TestClient_CreateRejectedLocally(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusCreated, taskJSON)
	c := New(srv.URL)

	_, err := c.Create(context.Background(), NewTask{Title: "   "})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Title is required", verr.Message)
	assert.Empty(t, rec.Method, "invalid input must not reach the server")
}

func TestClient_Update(t *testing.T) {
	title := "  New title "
	empty := ""
	done := domain.StatusDone

	tests := []struct {
		name   string
		update TaskUpdate
		want   string
	}{
		{"status only", TaskUpdate{Status: &done}, `{"status":"DONE"}`},
		{"title trimmed", TaskUpdate{Title: &title}, `{"title":"New title"}`},
		{"clear description", TaskUpdate{ClearDescription: true}, `{"description":null}`},
		{"empty description clears", TaskUpdate{Description: &empty}, `{"description":null}`},
		{"nothing", TaskUpdate{}, `{}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv, rec := newTestServer(t, http.StatusOK, taskJSON)
			c := New(srv.URL)

			_, err := c.Update(context.Background(), 7, tc.update)
			require.NoError(t, err)
			assert.Equal(t, http.MethodPut, rec.Method)
			assert.Equal(t, "/tasks/7", rec.Path)
			assert.JSONEq(t, tc.want, rec.Body)
		})
	}
}

func TestClient_Delete(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusNoContent, "")
	c := New(srv.URL)

	require.NoError(t, c.Delete(context.Background(), 7))
	assert.Equal(t, http.MethodDelete, rec.Method)
	assert.Equal(t, "/tasks/7", rec.Path)
	assert.Empty(t, rec.ContentType)
}

func TestClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"message field", http.StatusNotFound, `{"message":"Task not found"}`, "Task not found"},
		{"non-string message", http.StatusBadRequest, `{"message":42}`, "42"},
		{"no message field", http.StatusInternalServerError, `{"error":"x"}`, "HTTP 500"},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, "HTTP 502"},
		{"empty body", http.StatusServiceUnavailable, ``, "HTTP 503"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tc.status, tc.body)
			c := New(srv.URL)

			err := c.Delete(context.Background(), 1)
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
			assert.Equal(t, tc.message, apiErr.Message)
			assert.Equal(t, tc.status, apiErr.Status)
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c := New(srv.URL, WithTimeout(50*time.Millisecond))
	_, err := c.List(context.Background(), domain.ListQuery{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Equal(t, "Request timed out", err.Error())
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	c := New(addr)
	_, err := c.List(context.Background(), domain.ListQuery{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrTimeout))
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestTaskUpdate_MarshalJSON(t *testing.T) {
	desc := "ignored"
	data, err := json.Marshal(TaskUpdate{Description: &desc, ClearDescription: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"description":null}`, string(data))
}

func TestValidateNewTask(t *testing.T) {
	long := strings.Repeat("é", MaxTitleLength)

	got, err := ValidateNewTask(NewTask{Title: " " + long + " "})
	require.NoError(t, err)
	assert.Equal(t, long, got.Title)

	_, err = ValidateNewTask(NewTask{Title: long + "x"})
	assert.EqualError(t, err, "Title must be at most 120 characters")

	_, err = ValidateNewTask(NewTask{Title: "x", Description: strings.Repeat("a", MaxDescriptionLength+1)})
	assert.EqualError(t, err, "Description must be at most 2000 characters")

	_, err = ValidateNewTask(NewTask{Title: "x", Status: "BLOCKED"})
	assert.EqualError(t, err, "Status must be one of TODO, IN_PROGRESS, DONE")
}

func TestValidateTaskUpdate(t *testing.T) {
	blank := "  "
	_, err := ValidateTaskUpdate(TaskUpdate{Title: &blank})
	assert.EqualError(t, err, "Title cannot be empty")

	bad := domain.Status("todo")
	_, err = ValidateTaskUpdate(TaskUpdate{Status: &bad})
	assert.EqualError(t, err, "Status must be one of TODO, IN_PROGRESS, DONE")

	empty := ""
	got, err := ValidateTaskUpdate(TaskUpdate{Description: &empty})
	require.NoError(t, err)
	assert.Nil(t, got.Description)
	assert.True(t, got.ClearDescription)
}
