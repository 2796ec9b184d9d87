package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	dom "github.com/marianahernandez1510202/todo-api-devops-project/internal/domain"
	"github.com/marianahernandez1510202/todo-api-devops-project/internal/notify"
	"github.com/marianahernandez1510202/todo-api-devops-project/internal/repo"
	"github.com/marianahernandez1510202/todo-api-devops-project/internal/utils"
)

var (
	ErrNotFound   = errors.New("todo not found")
	ErrNoFields   = errors.New("no fields to update")
	ErrBlankTitle = errors.New("title must not be blank")
)

type TodoService struct {
	repo     repo.TodoRepo
	notifier notify.Notifier
	sf       singleflight.Group
}

// NewTodoService creates a TodoService. If n is nil, notifications are off.
func NewTodoService(r repo.TodoRepo, n notify.Notifier) *TodoService {
	return &TodoService{repo: r, notifier: n}
}

func (s *TodoService) Create(ctx context.Context, title, desc string, priority dom.Priority, dueDate *time.Time) (dom.Todo, error) {
	// Length bounds were checked at the boundary, but a whitespace-only
	// title only becomes empty after trimming, so re-check here.
	title = strings.TrimSpace(title)
	if title == "" {
		return dom.Todo{}, ErrBlankTitle
	}
	desc = strings.TrimSpace(desc)
	if priority == "" {
		priority = dom.PriorityMedium
	}

	t, err := s.repo.Create(ctx, dom.Todo{
		Title:       title,
		Description: desc,
		Priority:    priority,
		DueDate:     dueDate,
	})
	if err != nil {
		if utils.IsPGCheckViolation(err) {
			return dom.Todo{}, fmt.Errorf("constraint violated: %w", err)
		}
		return dom.Todo{}, err
	}
	if s.notifier != nil {
		if nerr := s.notifier.TodoCreated(ctx, t); nerr != nil {
			log.Printf("todo %d created, notification failed: %v", t.ID, nerr)
		}
	}
	return t, nil
}

func (s *TodoService) GetByID(ctx context.Context, id int64) (dom.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	return t, nil
}

func (s *TodoService) List(ctx context.Context, f repo.ListFilter, p repo.Page) ([]dom.Todo, int64, error) {
	return s.repo.List(ctx, f, p)
}

func (s *TodoService) Update(ctx context.Context, id int64, patch repo.TodoPatch) (dom.Todo, error) {
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		if trimmed == "" {
			return dom.Todo{}, ErrBlankTitle
		}
		patch.Title = &trimmed
	}
	if patch.Description != nil {
		trimmed := strings.TrimSpace(*patch.Description)
		patch.Description = &trimmed
	}
	t, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNoFields):
			return dom.Todo{}, ErrNoFields
		case errors.Is(err, repo.ErrNotFound):
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	return t, nil
}

func (s *TodoService) Delete(ctx context.Context, id int64) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

func (s *TodoService) SetCompleted(ctx context.Context, id int64, completed bool) (dom.Todo, error) {
	t, err := s.repo.SetCompleted(ctx, id, completed)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	return t, nil
}

func (s *TodoService) Search(ctx context.Context, term string, p repo.Page) ([]dom.Todo, int64, error) {
	return s.repo.Search(ctx, strings.TrimSpace(term), p)
}

// Stats dedupes concurrent identical aggregate reads through singleflight;
// the query touches the whole table, so one in-flight pass is enough.
func (s *TodoService) Stats(ctx context.Context) (dom.Stats, error) {
	v, err, _ := s.sf.Do("stats", func() (interface{}, error) {
		return s.repo.Stats(ctx)
	})
	if err != nil {
		return dom.Stats{}, err
	}
	return v.(dom.Stats), nil
}
