package task

import (
	"context"
	"errors"
	"time"

	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/events"
	"github.com/go-monolith/mono"
)

// listTasks handles the list-tasks service request.
func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.service.List(ctx, req.Query)
	if err != nil {
		return ListTasksResponse{}, err
	}
	return ListTasksResponse{Tasks: tasks}, nil
}

// createTask handles the create-task service request.
func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskReply, error) {
	t, err := m.service.Create(ctx, req.Input)
	if err != nil {
		return TaskReply{}, err
	}

	if m.eventBus != nil {
		event := events.TaskCreatedEvent{Task: *t, OccurredAt: time.Now()}
		if err := events.TaskCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			m.logger.Warn("Failed to publish TaskCreated event", "task_id", t.ID, "error", err)
		}
	}

	return TaskReply{Found: true, Task: t}, nil
}

// updateTask handles the update-task service request.
func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskReply, error) {
	t, err := m.service.Update(ctx, req.ID, req.Patch)
	if errors.Is(err, domain.ErrNotFound) {
		return TaskReply{Found: false}, nil
	}
	if err != nil {
		return TaskReply{}, err
	}

	if m.eventBus != nil {
		event := events.TaskUpdatedEvent{Task: *t, OccurredAt: time.Now()}
		if err := events.TaskUpdatedV1.Publish(m.eventBus, event, nil); err != nil {
			m.logger.Warn("Failed to publish TaskUpdated event", "task_id", t.ID, "error", err)
		}
	}

	return TaskReply{Found: true, Task: t}, nil
}

// deleteTask handles the delete-task service request.
func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (TaskReply, error) {
	t, err := m.service.SoftDelete(ctx, req.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return TaskReply{Found: false}, nil
	}
	if err != nil {
		return TaskReply{}, err
	}

	if m.eventBus != nil {
		event := events.TaskDeletedEvent{Task: *t, OccurredAt: time.Now()}
		if err := events.TaskDeletedV1.Publish(m.eventBus, event, nil); err != nil {
			m.logger.Warn("Failed to publish TaskDeleted event", "task_id", t.ID, "error", err)
		}
	}

	return TaskReply{Found: true, Task: t}, nil
}
