package api

import (
	"errors"

	"github.com/example/task-manager/config"
	domain "github.com/example/task-manager/domain/task"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const (
	corsMethods = "GET,POST,PUT,DELETE,OPTIONS"
	corsHeaders = "Content-Type,Authorization"
	corsMaxAge  = 86400
)

// noStore sets the fixed response headers on every reply, errors included.
func noStore(c *fiber.Ctx) error {
	setFixedHeaders(c)
	return c.Next()
}

// setFixedHeaders is also called by errorHandler, which sees requests the
// server rejects before any middleware runs (an oversized body, say).
func setFixedHeaders(c *fiber.Ctx) {
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	c.Set(fiber.HeaderReferrerPolicy, "no-referrer")
	c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate")
	c.Set("Pragma", "no-cache")
}

// corsPolicy builds the CORS middleware for cfg. It returns nil when no
// origin may be allowed, in which case no CORS headers are ever sent.
func corsPolicy(cfg config.Config) fiber.Handler {
	origins, ok := cfg.AllowedOrigins()
	if !ok {
		return nil
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     corsMethods,
		AllowHeaders:     corsHeaders,
		AllowCredentials: false,
		MaxAge:           corsMaxAge,
	})
}

// notFound answers every request no route matched.
func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Message: "Not found"})
}

// errorHandler maps handler errors to status codes. Unexpected errors are
// logged and answered with a generic message.
func errorHandler(logger types.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		setFixedHeaders(c)

		var verr *ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: verr.Message})
		}

		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Message: "Task not found"})
		}

		var ferr *fiber.Error
		if errors.As(err, &ferr) && ferr.Code < fiber.StatusInternalServerError {
			message := ferr.Message
			if ferr.Code == fiber.StatusNotFound {
				message = "Not found"
			}
			return c.Status(ferr.Code).JSON(ErrorResponse{Message: message})
		}

		logger.Error("Unhandled request error",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", c.Locals("requestid"),
			"error", err,
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Message: "Internal server error"})
	}
}
