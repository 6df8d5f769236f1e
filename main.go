package main

import (
	"context"
	"log"
	"os"

	"github.com/example/task-manager/config"
	apimod "github.com/example/task-manager/modules/api"
	cachemod "github.com/example/task-manager/modules/cache"
	feedmod "github.com/example/task-manager/modules/feed"
	taskmod "github.com/example/task-manager/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Println("=== Tasks API ===")
	log.Printf("Environment: %s", cfg.Environment)
	log.Printf("HTTP Port: %d", cfg.Port)
	log.Printf("Database: %s", cfg.Database.Driver)
	if cfg.Cache.Enabled() {
		log.Printf("Redis: %s (ttl %s)", cfg.Cache.RedisAddr, cfg.Cache.TTL)
	} else {
		log.Println("Redis: disabled")
	}

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}

	// Create modules
	taskModule := taskmod.NewModule(cfg.Database, app.Logger())
	feedModule := feedmod.NewModule(app.Logger())
	apiModule := apimod.NewModule(cfg, feedModule.Hub(), app.Logger())

	// The list cache is optional; it must be handed to the task module
	// before Start builds the service.
	if cfg.Cache.Enabled() {
		cacheModule := cachemod.NewModule(cfg.Cache, app.Logger())
		taskModule.SetCache(cacheModule.Cache())
		if err := app.Register(cacheModule); err != nil {
			log.Fatalf("Failed to register cache module: %v", err)
		}
	}

	// Register modules
	if err := app.Register(feedModule); err != nil { // Event consumer (pushes task events to /ws)
		log.Fatalf("Failed to register feed module: %v", err)
	}
	if err := app.Register(taskModule); err != nil { // Task store + service, emits events
		log.Fatalf("Failed to register task module: %v", err)
	}
	if err := app.Register(apiModule); err != nil { // HTTP router (depends on task)
		log.Fatalf("Failed to register api module: %v", err)
	}

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	log.Println("=== Application Started ===")
	log.Printf("API available at http://localhost:%d", cfg.Port)
	log.Println("Endpoints:")
	log.Println("  GET    /           - Service info")
	log.Println("  GET    /health     - Health check")
	log.Println("  GET    /tasks      - List tasks (?status=&sortBy=&sortOrder=)")
	log.Println("  POST   /tasks      - Create task")
	log.Println("  PUT    /tasks/:id  - Update task")
	log.Println("  DELETE /tasks/:id  - Soft-delete task")
	log.Println("  GET    /ws         - Live task feed (WebSocket)")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown")

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}
