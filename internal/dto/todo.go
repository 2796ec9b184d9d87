package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	dom "github.com/marianahernandez1510202/todo-api-devops-project/internal/domain"
)

// DueDate parses dueDate from JSON as either date-only ("2006-01-02") or
// RFC3339. Date-only is stored as start of that day in UTC.
type DueDate struct{ t *time.Time }

func (d *DueDate) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	s := strings.TrimSpace(*raw)
	layouts := []string{
		"2006-01-02", // date only
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			if layout == "2006-01-02" {
				parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			}
			d.t = &parsed
			return nil
		}
	}
	return fmt.Errorf("dueDate: use date (YYYY-MM-DD) or RFC3339 datetime")
}

// Ptr returns *time.Time for use in service/domain.
func (d DueDate) Ptr() *time.Time { return d.t }

type CreateTodoRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=255"`
	Description string  `json:"description" binding:"max=1000"`
	Priority    string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     DueDate `json:"dueDate"` // optional: "2026-02-19" or RFC3339
}

type UpdateTodoRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string  `json:"description" binding:"omitempty,max=1000"`
	Completed   *bool    `json:"completed"`
	Priority    *string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *DueDate `json:"dueDate"` // nil = keep, value = set
}

// Empty reports whether the request carries no field at all, which is a
// caller error ("no fields to update"), not a no-op.
func (r UpdateTodoRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Completed == nil &&
		r.Priority == nil && r.DueDate == nil
}

type ListTodosQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=completed pending"`
	Priority string `form:"priority" binding:"omitempty,oneof=low medium high"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

type SearchTodosQuery struct {
	Q     string `form:"q" binding:"required,min=1"`
	Page  int    `form:"page" binding:"omitempty,min=1"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

type TodoResponse struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Completed   bool         `json:"completed"`
	Priority    dom.Priority `json:"priority"`
	DueDate     *time.Time   `json:"due_date"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Pagination is the metadata block attached to paged list responses.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// NewPagination computes total_pages from the true filtered total.
func NewPagination(page, limit int, total int64) Pagination {
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// SearchMeta is the metadata block attached to search responses.
type SearchMeta struct {
	Query      string `json:"query"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	Total      int64  `json:"total"`
	TotalPages int64  `json:"total_pages"`
}

type StatsResponse struct {
	Total     int64            `json:"total"`
	Completed int64            `json:"completed"`
	Pending   int64            `json:"pending"`
	Priority  map[string]int64 `json:"priority"`
	Overdue   int64            `json:"overdue"`
}

func StatsToResponse(s dom.Stats) StatsResponse {
	return StatsResponse{
		Total:     s.Total,
		Completed: s.Completed,
		Pending:   s.Pending,
		Priority: map[string]int64{
			"low":    s.Low,
			"medium": s.Medium,
			"high":   s.High,
		},
		Overdue: s.Overdue,
	}
}

func TodoToResponse(t dom.Todo) TodoResponse {
	return TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func TodosToResponses(list []dom.Todo) []TodoResponse {
	out := make([]TodoResponse, len(list))
	for i := range list {
		out[i] = TodoToResponse(list[i])
	}
	return out
}
