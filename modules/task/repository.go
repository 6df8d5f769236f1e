package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/example/task-manager/domain/task"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides access to task storage. Every query is scoped to
// active rows through gorm's soft-delete support on Task.DeletedAt.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns the active tasks matching q, ordered by q.SortBy with id as
// the tie-breaker in the same direction.
func (r *Repository) List(ctx context.Context, q domain.ListQuery) ([]domain.Task, error) {
	q = q.WithDefaults()
	desc := q.SortOrder == domain.SortDesc

	tx := r.db.WithContext(ctx).Model(&domain.Task{})
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}
	tx = tx.
		Order(clause.OrderByColumn{Column: clause.Column{Name: q.SortBy.Column()}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc})

	tasks := make([]domain.Task, 0)
	if err := tx.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Create inserts a new task. ID and timestamps are filled in by the database.
func (r *Repository) Create(ctx context.Context, t *domain.Task) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves an active task by its ID.
func (r *Repository) FindByID(ctx context.Context, id uint) (*domain.Task, error) {
	var t domain.Task
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// Update applies the patch to the active task with the given id and returns
// the stored row. The update is conditional on the row being active, so a
// task deleted concurrently is reported as not found.
func (r *Repository) Update(ctx context.Context, id uint, p domain.Patch) (*domain.Task, error) {
	cols := p.Columns()
	if len(cols) == 0 {
		cols["updated_at"] = time.Now()
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ?", id).
		Updates(cols)
	if err := result.Error; err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// SoftDelete stamps deleted_at on the active task with the given id and
// returns the row as it now stands.
func (r *Repository) SoftDelete(ctx context.Context, id uint) (*domain.Task, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Task{})
	if err := result.Error; err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}

	var t domain.Task
	if err := r.db.WithContext(ctx).Unscoped().First(&t, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to load deleted task: %w", err)
	}
	return &t, nil
}
