package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/example/task-manager/config"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/redis/go-redis/v9"
)

// Module owns the Redis connection behind the list cache.
type Module struct {
	cfg    config.CacheConfig
	client *redis.Client
	cache  *Cache
	logger types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates the cache module. The Redis client is created eagerly so
// the cache can be handed to other modules before the application starts;
// no connection is made until Start.
func NewModule(cfg config.CacheConfig, logger types.Logger) *Module {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		PoolSize:     20,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	return &Module{
		cfg:    cfg,
		client: client,
		cache:  New(client, cfg.Prefix, cfg.TTL),
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "cache"
}

// Cache returns the cache instance.
func (m *Module) Cache() *Cache {
	return m.cache
}

// Start verifies Redis is reachable.
func (m *Module) Start(ctx context.Context) error {
	if err := m.cache.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", m.cfg.RedisAddr, err)
	}
	m.logger.Info("Connected to Redis", "addr", m.cfg.RedisAddr, "prefix", m.cfg.Prefix, "ttl", m.cfg.TTL.String())
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	stats := m.cache.Stats()
	if err := m.cache.Close(); err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}
	m.logger.Info("Cache module stopped", "hits", stats.Hits, "misses", stats.Misses)
	return nil
}

// Health pings Redis and reports the cache counters.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if err := m.cache.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
		}
	}

	stats := m.cache.Stats()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"addr":     m.cfg.RedisAddr,
			"hits":     stats.Hits,
			"misses":   stats.Misses,
			"hit_rate": stats.HitRate,
		},
	}
}
