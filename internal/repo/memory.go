package repo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	dom "github.com/marianahernandez1510202/todo-api-devops-project/internal/domain"
)

// MemoryTodoRepo is an in-memory TodoRepo, safe for concurrent use. It is an
// injected instance owned by the caller, never package-level state. Used by
// tests and when STORE_BACKEND=memory.
type MemoryTodoRepo struct {
	mu     sync.RWMutex
	todos  map[int64]dom.Todo
	nextID int64
	now    func() time.Time
}

func NewMemoryTodoRepo() *MemoryTodoRepo {
	return &MemoryTodoRepo{
		todos:  make(map[int64]dom.Todo),
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryTodoRepo) Create(_ context.Context, t dom.Todo) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	t.ID = r.nextID
	r.nextID++
	t.Completed = false
	if t.Priority == "" {
		t.Priority = dom.PriorityMedium
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	r.todos[t.ID] = t
	return t, nil
}

func (r *MemoryTodoRepo) GetByID(_ context.Context, id int64) (dom.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.todos[id]
	if !ok {
		return dom.Todo{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryTodoRepo) List(_ context.Context, f ListFilter, p Page) ([]dom.Todo, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.collect(func(t dom.Todo) bool {
		if f.Completed != nil && t.Completed != *f.Completed {
			return false
		}
		if f.Priority != nil && t.Priority != *f.Priority {
			return false
		}
		return true
	})
	return window(matched, p), int64(len(matched)), nil
}

func (r *MemoryTodoRepo) Update(_ context.Context, id int64, patch TodoPatch) (dom.Todo, error) {
	if patch.Empty() {
		return dom.Todo{}, ErrNoFields
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.todos[id]
	if !ok {
		return dom.Todo{}, ErrNotFound
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		due := *patch.DueDate
		t.DueDate = &due
	}
	t.UpdatedAt = r.now()
	r.todos[id] = t
	return t, nil
}

func (r *MemoryTodoRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.todos[id]; !ok {
		return false, nil
	}
	delete(r.todos, id)
	return true, nil
}

func (r *MemoryTodoRepo) SetCompleted(_ context.Context, id int64, completed bool) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.todos[id]
	if !ok {
		return dom.Todo{}, ErrNotFound
	}
	t.Completed = completed
	t.UpdatedAt = r.now()
	r.todos[id] = t
	return t, nil
}

func (r *MemoryTodoRepo) Search(_ context.Context, term string, p Page) ([]dom.Todo, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	term = strings.ToLower(term)
	matched := r.collect(func(t dom.Todo) bool {
		return strings.Contains(strings.ToLower(t.Title), term) ||
			strings.Contains(strings.ToLower(t.Description), term)
	})
	return window(matched, p), int64(len(matched)), nil
}

func (r *MemoryTodoRepo) Stats(_ context.Context) (dom.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	var s dom.Stats
	for _, t := range r.todos {
		s.Total++
		if t.Completed {
			s.Completed++
		} else {
			s.Pending++
		}
		switch t.Priority {
		case dom.PriorityLow:
			s.Low++
		case dom.PriorityMedium:
			s.Medium++
		case dom.PriorityHigh:
			s.High++
		}
		if t.Overdue(now) {
			s.Overdue++
		}
	}
	return s, nil
}

// collect returns matching todos ordered by created_at descending, newest
// first, with id as tie-breaker for rows created within clock resolution.
func (r *MemoryTodoRepo) collect(match func(dom.Todo) bool) []dom.Todo {
	var out []dom.Todo
	for _, t := range r.todos {
		if match(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func window(list []dom.Todo, p Page) []dom.Todo {
	if p.Offset >= len(list) {
		return nil
	}
	end := p.Offset + p.Limit
	if end > len(list) {
		end = len(list)
	}
	return list[p.Offset:end]
}
