package task

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/task-manager/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// taskAdapter implements TaskPort over the task module's service container.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a TaskPort that calls the task module's
// request-reply services.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

// List calls the list-tasks service.
func (a *taskAdapter) List(ctx context.Context, q domain.ListQuery) ([]domain.Task, error) {
	req := ListTasksRequest{Query: q}
	var resp ListTasksResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list-tasks",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("list-tasks service call failed: %w", err)
	}
	if resp.Tasks == nil {
		resp.Tasks = []domain.Task{}
	}
	return resp.Tasks, nil
}

// Create calls the create-task service.
func (a *taskAdapter) Create(ctx context.Context, in domain.CreateInput) (*domain.Task, error) {
	req := CreateTaskRequest{Input: in}
	var resp TaskReply
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"create-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("create-task service call failed: %w", err)
	}
	return replyTask(resp)
}

// Update calls the update-task service.
func (a *taskAdapter) Update(ctx context.Context, id uint, p domain.Patch) (*domain.Task, error) {
	req := UpdateTaskRequest{ID: id, Patch: p}
	var resp TaskReply
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"update-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("update-task service call failed: %w", err)
	}
	return replyTask(resp)
}

// SoftDelete calls the delete-task service.
func (a *taskAdapter) SoftDelete(ctx context.Context, id uint) (*domain.Task, error) {
	req := DeleteTaskRequest{ID: id}
	var resp TaskReply
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"delete-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("delete-task service call failed: %w", err)
	}
	return replyTask(resp)
}

func replyTask(resp TaskReply) (*domain.Task, error) {
	if !resp.Found || resp.Task == nil {
		return nil, domain.ErrNotFound
	}
	return resp.Task, nil
}
