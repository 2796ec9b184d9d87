package repo

import (
	"fmt"
	"strings"
)

// sqlBuilder accumulates conjunctive predicates and their arguments as
// parallel lists, so positional parameters ($1, $2, ...) always match the
// order predicates were added. Pagination parameters go through Paginate,
// which must be called after every predicate so limit/offset index last.
type sqlBuilder struct {
	conds []string
	args  []any
}

// Where appends one predicate. format receives the positional index of each
// argument, e.g. Where("completed = $%d", true). An argument may be
// referenced more than once with an explicit index verb ($%[1]d).
func (b *sqlBuilder) Where(format string, args ...any) {
	idx := make([]any, len(args))
	for i, a := range args {
		b.args = append(b.args, a)
		idx[i] = len(b.args)
	}
	b.conds = append(b.conds, fmt.Sprintf(format, idx...))
}

// WhereClause renders " WHERE a AND b", or "" when no predicate was added.
func (b *sqlBuilder) WhereClause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// Paginate appends limit and offset as the final parameters and renders the
// matching clause.
func (b *sqlBuilder) Paginate(p Page) string {
	b.args = append(b.args, p.Limit)
	limitIdx := len(b.args)
	b.args = append(b.args, p.Offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", limitIdx, len(b.args))
}

// Args returns a copy of the accumulated arguments in append order.
func (b *sqlBuilder) Args() []any {
	return append([]any(nil), b.args...)
}
