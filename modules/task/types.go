package task

import (
	"context"

	domain "github.com/example/task-manager/domain/task"
)

// ListTasksRequest is the request for the list-tasks service.
type ListTasksRequest struct {
	Query domain.ListQuery `json:"query"`
}

// ListTasksResponse is the response for the list-tasks service.
type ListTasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

// CreateTaskRequest is the request for the create-task service.
type CreateTaskRequest struct {
	Input domain.CreateInput `json:"input"`
}

// UpdateTaskRequest is the request for the update-task service.
type UpdateTaskRequest struct {
	ID    uint         `json:"id"`
	Patch domain.Patch `json:"patch"`
}

// DeleteTaskRequest is the request for the delete-task service.
type DeleteTaskRequest struct {
	ID uint `json:"id"`
}

// TaskReply carries a single task back to the caller. Found is false when the
// targeted task does not exist or was already deleted.
type TaskReply struct {
	Found bool         `json:"found"`
	Task  *domain.Task `json:"task,omitempty"`
}

// TaskPort defines the task operations driving adapters depend on.
// Update and SoftDelete return domain.ErrNotFound for unknown or inactive ids.
type TaskPort interface {
	List(ctx context.Context, q domain.ListQuery) ([]domain.Task, error)
	Create(ctx context.Context, in domain.CreateInput) (*domain.Task, error)
	Update(ctx context.Context, id uint, p domain.Patch) (*domain.Task, error)
	SoftDelete(ctx context.Context, id uint) (*domain.Task, error)
}
