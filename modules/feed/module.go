package feed

import (
	"context"
	"fmt"
	"time"

	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// Notification types sent to subscribers.
const (
	TypeCreated = "task.created"
	TypeUpdated = "task.updated"
	TypeDeleted = "task.deleted"
)

// Notification is the JSON frame written to websocket subscribers. Task
// has the same shape as the REST responses.
type Notification struct {
	Type       string      `json:"type"`
	Task       domain.View `json:"task"`
	OccurredAt string      `json:"occurredAt"`
}

func newNotification(kind string, t domain.Task, occurredAt time.Time) Notification {
	return Notification{Type: kind, Task: t.View(), OccurredAt: domain.FormatTime(occurredAt)}
}

// Module consumes task events and relays them to the hub.
type Module struct {
	hub       *Hub
	cancelHub context.CancelFunc
	logger    types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.EventConsumerModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates the feed module.
func NewModule(logger types.Logger) *Module {
	return &Module{
		hub:    NewHub(logger),
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "feed"
}

// Hub returns the hub the HTTP layer attaches websocket clients to.
func (m *Module) Hub() *Hub {
	return m.hub
}

// Start runs the hub loop.
func (m *Module) Start(_ context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelHub = cancel
	go m.hub.Run(ctx)
	m.logger.Info("Feed module started")
	return nil
}

// Stop closes every subscriber and waits for the hub loop to exit.
func (m *Module) Stop(_ context.Context) error {
	subscribers := m.hub.Count()
	if m.cancelHub != nil {
		m.cancelHub()
		m.hub.Wait()
	}
	m.logger.Info("Feed module stopped", "subscribers", subscribers)
	return nil
}

// Health reports the number of connected subscribers.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"subscribers": m.hub.Count(),
		},
	}
}

// RegisterEventConsumers subscribes to the task lifecycle events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(
		registry, events.TaskCreatedV1, m.handleTaskCreated, m,
	); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.TaskUpdatedV1, m.handleTaskUpdated, m,
	); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.TaskDeletedV1, m.handleTaskDeleted, m,
	); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	m.logger.Info("Registered feed consumers", "events", []string{"TaskCreated", "TaskUpdated", "TaskDeleted"})
	return nil
}

func (m *Module) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.hub.Publish(newNotification(TypeCreated, event.Task, event.OccurredAt))
	return nil
}

func (m *Module) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	m.hub.Publish(newNotification(TypeUpdated, event.Task, event.OccurredAt))
	return nil
}

func (m *Module) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.hub.Publish(newNotification(TypeDeleted, event.Task, event.OccurredAt))
	return nil
}
