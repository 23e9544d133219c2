package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prohmpiriya/interview-qa/internal/filter"
)

func TestBuildWhere(t *testing.T) {
	t.Run("empty predicate", func(t *testing.T) {
		where, args, err := BuildWhere(filter.Predicate{})
		require.NoError(t, err)
		assert.Empty(t, where)
		assert.Empty(t, args)
	})

	t.Run("all conditions", func(t *testing.T) {
		pred := filter.Build(filter.Params{Category: "Technical", Tags: "api, http", Question: "50%_off"})
		where, args, err := BuildWhere(pred)
		require.NoError(t, err)
		assert.Equal(t, `category = $1 AND tags && $2::text[] AND question ILIKE $3 ESCAPE '\'`, where)
		assert.Equal(t, []any{"Technical", []string{"api", "http"}, `%50\%\_off%`}, args)
	})

	t.Run("unsupported op", func(t *testing.T) {
		pred := filter.Predicate{Conditions: []filter.Condition{
			{Field: filter.FieldCategory, Op: filter.OpOverlaps, Values: []string{"x"}},
		}}
		_, _, err := BuildWhere(pred)
		assert.ErrorIs(t, err, ErrUnsupportedCondition)
	})
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\\b`, EscapeLike(`a\b`))
	assert.Equal(t, `100\%`, EscapeLike(`100%`))
	assert.Equal(t, `snake\_case`, EscapeLike(`snake_case`))
	assert.Equal(t, "plain", EscapeLike("plain"))
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, "created_at ASC, id ASC", orderBy(filter.Order{}))
	assert.Equal(t, "created_at DESC, id DESC", orderBy(filter.Order{Desc: true}))
}
