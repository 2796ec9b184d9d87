package repo

import (
	"context"
	"errors"
	"time"

	dom "github.com/marianahernandez1510202/todo-api-devops-project/internal/domain"
)

var (
	// ErrNotFound is returned when no todo exists for the given id.
	ErrNotFound = errors.New("todo not found")
	// ErrNoFields is returned by Update when the patch carries no field.
	// Detected before any store access; a caller error, not a not-found.
	ErrNoFields = errors.New("no fields to update")
)

// ListFilter holds the optional conjunctive predicates for List. Predicates
// are applied (and parameter-indexed) in field order: status, then priority.
type ListFilter struct {
	Completed *bool
	Priority  *dom.Priority
}

// Page is a limit/offset window. Handlers translate page numbers to offsets.
type Page struct {
	Limit  int
	Offset int
}

// TodoPatch carries the fields of a partial update. Nil means "leave as is".
type TodoPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *dom.Priority
	DueDate     *time.Time
}

// Empty reports whether the patch would update nothing.
func (p TodoPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil &&
		p.Priority == nil && p.DueDate == nil
}

// TodoRepo is the persistence contract. Two backends exist: Postgres for
// production and Memory for tests, selected by configuration.
type TodoRepo interface {
	Create(ctx context.Context, t dom.Todo) (dom.Todo, error)
	GetByID(ctx context.Context, id int64) (dom.Todo, error)
	// List returns the requested page plus the true total matching the
	// filter, computed independently of the page size.
	List(ctx context.Context, f ListFilter, p Page) ([]dom.Todo, int64, error)
	Update(ctx context.Context, id int64, patch TodoPatch) (dom.Todo, error)
	// Delete reports whether a row was actually removed.
	Delete(ctx context.Context, id int64) (bool, error)
	SetCompleted(ctx context.Context, id int64, completed bool) (dom.Todo, error)
	// Search matches term case-insensitively against title or description
	// and, like List, reports the true total.
	Search(ctx context.Context, term string, p Page) ([]dom.Todo, int64, error)
	Stats(ctx context.Context) (dom.Stats, error)
}
