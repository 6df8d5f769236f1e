package task

import (
	"errors"
	"slices"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned when no active task matches the requested id.
var ErrNotFound = errors.New("task not found")

// Status represents the state of a task.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Statuses lists every valid status in declaration order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return slices.Contains(Statuses(), s)
}

// SortBy selects the column a task list is ordered by.
type SortBy string

const (
	SortByCreatedAt SortBy = "createdAt"
	SortByStatus    SortBy = "status"
)

// Valid reports whether s is a supported sort column.
func (s SortBy) Valid() bool {
	return s == SortByCreatedAt || s == SortByStatus
}

// Column returns the database column for s.
func (s SortBy) Column() string {
	if s == SortByStatus {
		return "status"
	}
	return "created_at"
}

// SortOrder is the direction of a task list ordering.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Valid reports whether o is a supported direction.
func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// Task is a persisted todo item. A non-null DeletedAt marks it soft-deleted.
type Task struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description *string        `json:"description"`
	Status      Status         `gorm:"size:16;not null;default:TODO;index" json:"status"`
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deletedAt"`
}

// TableName returns the table name for the Task model.
func (Task) TableName() string {
	return "tasks"
}

// ListQuery selects and orders active tasks.
type ListQuery struct {
	Status    *Status   `json:"status,omitempty"`
	SortBy    SortBy    `json:"sortBy"`
	SortOrder SortOrder `json:"sortOrder"`
}

// DefaultListQuery returns the unfiltered newest-first query.
func DefaultListQuery() ListQuery {
	return ListQuery{SortBy: SortByCreatedAt, SortOrder: SortDesc}
}

// WithDefaults fills unset sort fields with their defaults.
func (q ListQuery) WithDefaults() ListQuery {
	if q.SortBy == "" {
		q.SortBy = SortByCreatedAt
	}
	if q.SortOrder == "" {
		q.SortOrder = SortDesc
	}
	return q
}

// CreateInput holds the validated fields of a new task.
type CreateInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Status      Status  `json:"status,omitempty"`
}

// Patch holds the fields of a partial update. Nil fields are left untouched.
// ClearDescription sets the description to null and takes precedence over
// Description.
type Patch struct {
	Title            *string `json:"title,omitempty"`
	Description      *string `json:"description,omitempty"`
	ClearDescription bool    `json:"clearDescription,omitempty"`
	Status           *Status `json:"status,omitempty"`
}

// Columns returns the column assignments described by the patch.
func (p Patch) Columns() map[string]any {
	cols := make(map[string]any, 3)
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	switch {
	case p.ClearDescription:
		cols["description"] = nil
	case p.Description != nil:
		cols["description"] = *p.Description
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	return cols
}
