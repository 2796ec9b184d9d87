package domain

import "time"

// Priority of a todo. Stored as lowercase text, constrained in the schema.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the three known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Domain entity, independent of Gin, Postgres and Redis.
type Todo struct {
	ID          int64
	Title       string
	Description string
	Completed   bool
	Priority    Priority
	DueDate     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overdue reports whether the due date has passed and the todo is not done.
func (t Todo) Overdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}

// Stats is the aggregate breakdown over all todos.
type Stats struct {
	Total     int64
	Completed int64
	Pending   int64
	Low       int64
	Medium    int64
	High      int64
	Overdue   int64
}
