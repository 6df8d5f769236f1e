package client

import (
	"context"
	"errors"
	"slices"
	"sync"

	domain "github.com/example/task-manager/domain/task"
)

const (
	msgLoadFailed   = "Failed to load tasks"
	msgCreateFailed = "Failed to create task"
	msgUpdateFailed = "Failed to update task"
	msgDeleteFailed = "Failed to delete task"
)

// API is the subset of Client the Store depends on.
type API interface {
	List(ctx context.Context, q domain.ListQuery) ([]Task, error)
	Create(ctx context.Context, in NewTask) (*Task, error)
	Update(ctx context.Context, id uint, u TaskUpdate) (*Task, error)
	Delete(ctx context.Context, id uint) error
}

var _ API = (*Client)(nil)

// State is a point-in-time view of the store.
type State struct {
	Tasks        []Task
	StatusFilter *domain.Status
	SortBy       domain.SortBy
	SortOrder    domain.SortOrder
	Loading      bool
	Error        string
}

// Query returns the list query the state's filter and sort describe.
func (s State) Query() domain.ListQuery {
	q := domain.ListQuery{SortBy: s.SortBy, SortOrder: s.SortOrder}
	if s.StatusFilter != nil {
		status := *s.StatusFilter
		q.Status = &status
	}
	return q
}

func (s State) clone() State {
	s.Tasks = slices.Clone(s.Tasks)
	if s.StatusFilter != nil {
		status := *s.StatusFilter
		s.StatusFilter = &status
	}
	return s
}

// matches reports whether t passes the active status filter.
func (s State) matches(t Task) bool {
	return s.StatusFilter == nil || t.Status == *s.StatusFilter
}

// Listener is called with a snapshot after every state change.
type Listener func(State)

// StoreOption configures a Store.
type StoreOption func(*State)

// WithFilter sets the initial status filter.
func WithFilter(status domain.Status) StoreOption {
	return func(s *State) {
		s.StatusFilter = &status
	}
}

// WithSorting sets the initial sort.
func WithSorting(by domain.SortBy, order domain.SortOrder) StoreOption {
	return func(s *State) {
		s.SortBy = by
		s.SortOrder = order
	}
}

// Store holds the task list of one client session. Every action moves the
// state through loading and back, then notifies subscribers.
type Store struct {
	api API

	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
}

// NewStore creates a store backed by api. Nothing is fetched until Load.
func NewStore(api API, opts ...StoreOption) *Store {
	state := State{
		Tasks:     []Task{},
		SortBy:    domain.SortByCreatedAt,
		SortOrder: domain.SortDesc,
	}
	for _, opt := range opts {
		opt(&state)
	}
	return &Store{
		api:       api,
		state:     state,
		listeners: make(map[int]Listener),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn for state changes and returns a function that
// removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Load replaces the task list with the server's view of the active query.
// On failure the previous list is kept.
func (s *Store) Load(ctx context.Context) error {
	var q domain.ListQuery
	s.update(func(st State) State {
		q = st.Query()
		return startLoading(st)
	})

	tasks, err := s.api.List(ctx, q)
	if err != nil {
		s.update(func(st State) State { return failed(st, messageOf(err, msgLoadFailed)) })
		return err
	}
	s.update(func(st State) State { return loaded(st, tasks) })
	return nil
}

// SetStatusFilter changes the filter and reloads. A nil status removes it.
func (s *Store) SetStatusFilter(ctx context.Context, status *domain.Status) error {
	s.update(func(st State) State {
		st.StatusFilter = nil
		if status != nil {
			v := *status
			st.StatusFilter = &v
		}
		return st
	})
	return s.Load(ctx)
}

// SetSorting changes the sort and reloads.
func (s *Store) SetSorting(ctx context.Context, by domain.SortBy, order domain.SortOrder) error {
	s.update(func(st State) State {
		st.SortBy = by
		st.SortOrder = order
		return st
	})
	return s.Load(ctx)
}

// Add creates a task and inserts it at the head of the list when it passes
// the active filter.
func (s *Store) Add(ctx context.Context, in NewTask) (*Task, error) {
	s.update(startLoading)

	created, err := s.api.Create(ctx, in)
	if err != nil {
		s.update(func(st State) State { return failed(st, messageOf(err, msgCreateFailed)) })
		return nil, err
	}
	s.update(func(st State) State { return inserted(st, *created) })
	return created, nil
}

// Update applies u to a task, replaces it in the list and re-applies the
// active filter.
func (s *Store) Update(ctx context.Context, id uint, u TaskUpdate) (*Task, error) {
	s.update(startLoading)

	updated, err := s.api.Update(ctx, id, u)
	if err != nil {
		s.update(func(st State) State { return failed(st, messageOf(err, msgUpdateFailed)) })
		return nil, err
	}
	s.update(func(st State) State { return replaced(st, *updated) })
	return updated, nil
}

// Remove deletes a task and drops it from the list.
func (s *Store) Remove(ctx context.Context, id uint) error {
	s.update(startLoading)

	if err := s.api.Delete(ctx, id); err != nil {
		s.update(func(st State) State { return failed(st, messageOf(err, msgDeleteFailed)) })
		return err
	}
	s.update(func(st State) State { return removed(st, id) })
	return nil
}

// ClearError empties the error slot.
func (s *Store) ClearError() {
	s.update(func(st State) State {
		st.Error = ""
		return st
	})
}

// update applies fn under the lock and notifies listeners after releasing it.
func (s *Store) update(fn func(State) State) {
	s.mu.Lock()
	s.state = fn(s.state)
	snapshot := s.state.clone()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

func startLoading(st State) State {
	st.Loading = true
	st.Error = ""
	return st
}

func failed(st State, msg string) State {
	st.Loading = false
	st.Error = msg
	return st
}

func loaded(st State, tasks []Task) State {
	st.Tasks = slices.Clone(tasks)
	if st.Tasks == nil {
		st.Tasks = []Task{}
	}
	st.Loading = false
	return st
}

func inserted(st State, t Task) State {
	if st.matches(t) {
		st.Tasks = append([]Task{t}, st.Tasks...)
	}
	st.Loading = false
	return st
}

func replaced(st State, t Task) State {
	tasks := make([]Task, 0, len(st.Tasks))
	for _, existing := range st.Tasks {
		if existing.ID == t.ID {
			existing = t
		}
		if st.matches(existing) {
			tasks = append(tasks, existing)
		}
	}
	st.Tasks = tasks
	st.Loading = false
	return st
}

func removed(st State, id uint) State {
	tasks := make([]Task, 0, len(st.Tasks))
	for _, t := range st.Tasks {
		if t.ID != id {
			tasks = append(tasks, t)
		}
	}
	st.Tasks = tasks
	st.Loading = false
	return st
}

// messageOf picks the text shown for err. API and validation errors carry
// their own message; anything else gets the action's fallback.
func messageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return fallback
}
