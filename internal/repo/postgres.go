package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	dom "github.com/marianahernandez1510202/todo-api-devops-project/internal/domain"
)

const todoColumns = "id, title, description, completed, priority, due_date, created_at, updated_at"

// PGTodoRepo implements TodoRepo with Postgres.
type PGTodoRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

func (r *PGTodoRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	query := `
		INSERT INTO todos (title, description, priority, due_date)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + todoColumns
	row := r.db.QueryRow(ctx, query, t.Title, t.Description, t.Priority, t.DueDate)
	return scanTodo(row)
}

func (r *PGTodoRepo) GetByID(ctx context.Context, id int64) (dom.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`
	t, err := scanTodo(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.Todo{}, ErrNotFound
	}
	return t, err
}

func (r *PGTodoRepo) List(ctx context.Context, f ListFilter, p Page) ([]dom.Todo, int64, error) {
	var b sqlBuilder
	if f.Completed != nil {
		b.Where("completed = $%d", *f.Completed)
	}
	if f.Priority != nil {
		b.Where("priority = $%d", *f.Priority)
	}

	// Total re-runs the same predicates, before pagination args exist, so
	// the count reflects filter state rather than page size.
	var total int64
	countQuery := `SELECT COUNT(*) FROM todos` + b.WhereClause()
	if err := r.db.QueryRow(ctx, countQuery, b.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count todos: %w", err)
	}

	query := `SELECT ` + todoColumns + ` FROM todos` + b.WhereClause() +
		` ORDER BY created_at DESC, id DESC` + b.Paginate(p)
	rows, err := r.db.Query(ctx, query, b.Args()...)
	if err != nil {
		return nil, 0, err
	}
	list, err := scanTodos(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *PGTodoRepo) Update(ctx context.Context, id int64, patch TodoPatch) (dom.Todo, error) {
	if patch.Empty() {
		return dom.Todo{}, ErrNoFields
	}

	var sets []string
	var args []any
	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Completed != nil {
		set("completed", *patch.Completed)
	}
	if patch.Priority != nil {
		set("priority", *patch.Priority)
	}
	if patch.DueDate != nil {
		set("due_date", *patch.DueDate)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE todos SET %s, updated_at = NOW()
		WHERE id = $%d
		RETURNING %s`, strings.Join(sets, ", "), len(args), todoColumns)

	t, err := scanTodo(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.Todo{}, ErrNotFound
	}
	return t, err
}

func (r *PGTodoRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGTodoRepo) SetCompleted(ctx context.Context, id int64, completed bool) (dom.Todo, error) {
	query := `
		UPDATE todos SET completed = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + todoColumns
	t, err := scanTodo(r.db.QueryRow(ctx, query, id, completed))
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.Todo{}, ErrNotFound
	}
	return t, err
}

// likeEscaper neutralizes LIKE metacharacters so a search term matches
// literally. ILIKE defaults to backslash as the escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *PGTodoRepo) Search(ctx context.Context, term string, p Page) ([]dom.Todo, int64, error) {
	var b sqlBuilder
	b.Where("(title ILIKE $%[1]d OR description ILIKE $%[1]d)", "%"+likeEscaper.Replace(term)+"%")

	var total int64
	countQuery := `SELECT COUNT(*) FROM todos` + b.WhereClause()
	if err := r.db.QueryRow(ctx, countQuery, b.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count search: %w", err)
	}

	query := `SELECT ` + todoColumns + ` FROM todos` + b.WhereClause() +
		` ORDER BY created_at DESC, id DESC` + b.Paginate(p)
	rows, err := r.db.Query(ctx, query, b.Args()...)
	if err != nil {
		return nil, 0, err
	}
	list, err := scanTodos(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Stats is a single aggregate pass over the table, not per-row iteration.
func (r *PGTodoRepo) Stats(ctx context.Context) (dom.Stats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE completed),
		       COUNT(*) FILTER (WHERE NOT completed),
		       COUNT(*) FILTER (WHERE priority = 'low'),
		       COUNT(*) FILTER (WHERE priority = 'medium'),
		       COUNT(*) FILTER (WHERE priority = 'high'),
		       COUNT(*) FILTER (WHERE NOT completed AND due_date IS NOT NULL AND due_date < NOW())
		FROM todos`
	var s dom.Stats
	err := r.db.QueryRow(ctx, query).Scan(
		&s.Total, &s.Completed, &s.Pending,
		&s.Low, &s.Medium, &s.High, &s.Overdue,
	)
	return s, err
}

func scanTodo(row pgx.Row) (dom.Todo, error) {
	var t dom.Todo
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.Priority,
		&t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func scanTodos(rows pgx.Rows) ([]dom.Todo, error) {
	defer rows.Close()
	var list []dom.Todo
	for rows.Next() {
		var t dom.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.Priority,
			&t.DueDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
