package task

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	domain "github.com/example/task-manager/domain/task"
	"github.com/go-monolith/mono/pkg/types"
	"golang.org/x/sync/singleflight"
)

// listPattern matches every cached list query.
const listPattern = "list:*"

// ListCache is the subset of the Redis cache used for list queries.
type ListCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	DeletePattern(ctx context.Context, pattern string) error
}

// Service orchestrates task use cases over the repository. It carries no
// transport concerns and is safe for concurrent use.
type Service struct {
	repo   *Repository
	cache  ListCache
	group  singleflight.Group
	logger types.Logger

	// generation is part of every list cache key. Mutations bump it, so a
	// fill that read the store before a mutation writes to a key no later
	// reader asks for.
	generation atomic.Uint64
}

var _ TaskPort = (*Service)(nil)

// NewService creates a task service. cache may be nil to disable list caching.
func NewService(repo *Repository, cache ListCache, logger types.Logger) *Service {
	s := &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
	// Seeded from the clock so keys left in Redis by an earlier process
	// are never read back.
	s.generation.Store(uint64(time.Now().UnixNano()))
	return s
}

// List returns active tasks for the query, defaulting to createdAt desc.
func (s *Service) List(ctx context.Context, q domain.ListQuery) ([]domain.Task, error) {
	q = q.WithDefaults()
	if s.cache == nil {
		return s.repo.List(ctx, q)
	}

	key := listCacheKey(s.generation.Load(), q)
	var cached []domain.Task
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("List cache read failed", "key", key, "error", err)
	} else if hit {
		return cached, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		tasks, err := s.repo.List(ctx, q)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, tasks); err != nil {
			s.logger.Warn("List cache write failed", "key", key, "error", err)
		}
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Task), nil
}

// Create stores a new task, defaulting its status to TODO.
func (s *Service) Create(ctx context.Context, in domain.CreateInput) (*domain.Task, error) {
	status := in.Status
	if status == "" {
		status = domain.StatusTodo
	}
	if !status.Valid() {
		return nil, fmt.Errorf("invalid status %q", status)
	}

	t := &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.invalidateLists(ctx)
	return t, nil
}

// Update applies only the fields present in p. It returns domain.ErrNotFound
// when no active task has the id.
func (s *Service) Update(ctx context.Context, id uint, p domain.Patch) (*domain.Task, error) {
	if p.Status != nil && !p.Status.Valid() {
		return nil, fmt.Errorf("invalid status %q", *p.Status)
	}

	t, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}

	s.invalidateLists(ctx)
	return t, nil
}

// SoftDelete marks the active task with the id as deleted and returns it with
// DeletedAt set. A second delete of the same id returns domain.ErrNotFound.
func (s *Service) SoftDelete(ctx context.Context, id uint) (*domain.Task, error) {
	t, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidateLists(ctx)
	return t, nil
}

func (s *Service) invalidateLists(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.generation.Add(1)
	if err := s.cache.DeletePattern(ctx, listPattern); err != nil {
		s.logger.Warn("List cache invalidation failed", "error", err)
	}
}

func listCacheKey(generation uint64, q domain.ListQuery) string {
	status := "all"
	if q.Status != nil {
		status = string(*q.Status)
	}
	return fmt.Sprintf("list:%d:%s:%s:%s", generation, status, q.SortBy, q.SortOrder)
}
