package events

import (
	"time"

	domain "github.com/example/task-manager/domain/task"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskCreatedEvent is emitted after a task has been stored.
type TaskCreatedEvent struct {
	Task       domain.Task `json:"task"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// TaskCreatedV1 is the typed event definition for task creation.
// Subject: events.task.v1.task-created
var TaskCreatedV1 = helper.EventDefinition[TaskCreatedEvent](
	"task", "TaskCreated", "v1",
)

// TaskUpdatedEvent carries the task as it stands after a partial update.
type TaskUpdatedEvent struct {
	Task       domain.Task `json:"task"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// TaskUpdatedV1 is the typed event definition for task updates.
// Subject: events.task.v1.task-updated
var TaskUpdatedV1 = helper.EventDefinition[TaskUpdatedEvent](
	"task", "TaskUpdated", "v1",
)

// TaskDeletedEvent carries the soft-deleted row, deletedAt included.
type TaskDeletedEvent struct {
	Task       domain.Task `json:"task"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// TaskDeletedV1 is the typed event definition for task soft deletion.
// Subject: events.task.v1.task-deleted
var TaskDeletedV1 = helper.EventDefinition[TaskDeletedEvent](
	"task", "TaskDeleted", "v1",
)
