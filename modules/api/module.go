package api

import (
	"context"
	"fmt"

	"github.com/example/task-manager/config"
	"github.com/example/task-manager/modules/feed"
	"github.com/example/task-manager/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// bodyLimit caps JSON request bodies at 1 MiB.
const bodyLimit = 1 << 20

// APIModule serves the REST API and the live task feed over HTTP.
type APIModule struct {
	cfg    config.Config
	app    *fiber.App
	tasks  task.TaskPort
	hub    *feed.Hub
	logger types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates the API module. hub may be nil to disable /ws.
func NewModule(cfg config.Config, hub *feed.Hub, logger types.Logger) *APIModule {
	return &APIModule{
		cfg:    cfg,
		hub:    hub,
		logger: logger,
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"task"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "task" {
		m.tasks = task.NewTaskAdapter(container)
	}
}

// Start builds the Fiber app and starts listening.
func (m *APIModule) Start(_ context.Context) error {
	if m.tasks == nil {
		return fmt.Errorf("task dependency not set")
	}

	m.app = NewApp(m.cfg, m.tasks, m.hub, m.logger)

	addr := fmt.Sprintf(":%d", m.cfg.Port)
	go func() {
		if err := m.app.Listen(addr); err != nil {
			m.logger.Error("HTTP server error", "error", err)
		}
	}()

	m.logger.Info("HTTP server started", "addr", addr, "environment", string(m.cfg.Environment))
	return nil
}

// Stop shuts down the HTTP server.
func (m *APIModule) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	m.logger.Info("Shutting down HTTP server")
	return m.app.ShutdownWithContext(ctx)
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.cfg.Port,
		},
	}
}

// NewApp builds the Fiber application serving the task API.
func NewApp(cfg config.Config, tasks task.TaskPort, hub *feed.Hub, logger types.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit,
		ErrorHandler:          errorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(helmet.New())
	app.Use(noStore)
	if policy := corsPolicy(cfg); policy != nil {
		app.Use(policy)
	}

	h := &handlers{tasks: tasks}
	app.Get("/", h.root)
	app.Get("/health", h.health)
	app.Get("/tasks", h.listTasks)
	app.Post("/tasks", h.createTask)
	app.Put("/tasks/:id", h.updateTask)
	app.Delete("/tasks/:id", h.deleteTask)

	if hub != nil {
		app.Get("/ws", feed.RequireUpgrade, hub.Handler())
	}

	app.Use(notFound)
	return app
}
