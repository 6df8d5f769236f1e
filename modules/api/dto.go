package api

import domain "github.com/example/task-manager/domain/task"

// TaskResponse is the wire shape of a task.
type TaskResponse = domain.View

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Message string `json:"message"`
}

// RootResponse is returned by GET /.
type RootResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	OK        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
}

func toTaskResponses(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, tasks[i].View())
	}
	return out
}
