package api

import (
	"time"

	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/modules/task"
	"github.com/gofiber/fiber/v2"
)

const (
	serviceName    = "tasks-api"
	serviceVersion = "1.0.0"
)

// handlers binds the HTTP routes to a TaskPort.
type handlers struct {
	tasks task.TaskPort
}

// root handles GET /.
func (h *handlers) root(c *fiber.Ctx) error {
	return c.JSON(RootResponse{OK: true, Service: serviceName, Version: serviceVersion})
}

// health handles GET /health.
func (h *handlers) health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{OK: true, Timestamp: domain.FormatTime(time.Now())})
}

// listTasks handles GET /tasks.
func (h *handlers) listTasks(c *fiber.Ctx) error {
	q, err := ParseListQuery(func(key string) string { return c.Query(key) })
	if err != nil {
		return err
	}

	tasks, err := h.tasks.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(toTaskResponses(tasks))
}

// createTask handles POST /tasks.
func (h *handlers) createTask(c *fiber.Ctx) error {
	in, err := ParseCreate(c.Body())
	if err != nil {
		return err
	}

	created, err := h.tasks.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created.View())
}

// updateTask handles PUT /tasks/:id.
func (h *handlers) updateTask(c *fiber.Ctx) error {
	id, err := ParseID(c.Params("id"))
	if err != nil {
		return err
	}
	patch, err := ParseUpdate(c.Body())
	if err != nil {
		return err
	}

	updated, err := h.tasks.Update(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(updated.View())
}

// deleteTask handles DELETE /tasks/:id.
func (h *handlers) deleteTask(c *fiber.Ctx) error {
	id, err := ParseID(c.Params("id"))
	if err != nil {
		return err
	}

	if _, err := h.tasks.SoftDelete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
