package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLBuilderEmpty(t *testing.T) {
	var b sqlBuilder
	assert.Equal(t, "", b.WhereClause())
	assert.Empty(t, b.Args())
}

func TestSQLBuilderPredicateOrder(t *testing.T) {
	// Parameters must be indexed in the order predicates are added:
	// status first, then priority.
	var b sqlBuilder
	b.Where("completed = $%d", true)
	b.Where("priority = $%d", "high")

	assert.Equal(t, " WHERE completed = $1 AND priority = $2", b.WhereClause())
	assert.Equal(t, []any{true, "high"}, b.Args())
}

func TestSQLBuilderPaginationLast(t *testing.T) {
	var b sqlBuilder
	b.Where("completed = $%d", false)

	clause := b.Paginate(Page{Limit: 5, Offset: 10})

	assert.Equal(t, " LIMIT $2 OFFSET $3", clause)
	assert.Equal(t, []any{false, 5, 10}, b.Args())
}

func TestSQLBuilderRepeatedArg(t *testing.T) {
	// One argument may back several placeholders via an explicit index verb,
	// as Search does for the shared ILIKE pattern.
	var b sqlBuilder
	b.Where("(title ILIKE $%[1]d OR description ILIKE $%[1]d)", "%milk%")

	assert.Equal(t, " WHERE (title ILIKE $1 OR description ILIKE $1)", b.WhereClause())
	assert.Equal(t, []any{"%milk%"}, b.Args())
}

func TestSQLBuilderArgsCopy(t *testing.T) {
	// The count query captures Args before pagination; appending afterwards
	// must not mutate the captured slice.
	var b sqlBuilder
	b.Where("completed = $%d", true)

	countArgs := b.Args()
	_ = b.Paginate(Page{Limit: 10, Offset: 0})

	require.Len(t, countArgs, 1)
	assert.Len(t, b.Args(), 3)
}

func TestLikeEscaper(t *testing.T) {
	cases := []struct {
		term string
		want string
	}{
		{"milk", "milk"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
		{`%_\`, `\%\_\\`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, likeEscaper.Replace(tc.term), tc.term)
	}
}
