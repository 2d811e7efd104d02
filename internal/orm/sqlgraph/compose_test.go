package sqlgraph

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingQuery is an immutable query that records the operations applied to it
type recordingQuery struct {
	ops []string
}

func (q *recordingQuery) InnerJoin(r table, on string) *recordingQuery {
	ops := make([]string, len(q.ops), len(q.ops)+1)
	copy(ops, q.ops)
	return &recordingQuery{ops: append(ops, fmt.Sprintf("inner join %s on %s", r.name, on))}
}

type recordingMapper struct{}

func (recordingMapper) From(r table) *recordingQuery {
	return &recordingQuery{ops: []string{"from " + r.name}}
}

func TestCreateJoinQuery(t *testing.T) {
	g := newTestGraph(
		[3]string{"a", "b", "cond1"},
		[3]string{"b", "c", "cond2"},
	)

	path, err := g.JoinPath(rel("a"), rel("c"))
	require.NoError(t, err)

	q, err := CreateJoinQuery[table, string, *recordingQuery](recordingMapper{}, path)
	require.NoError(t, err)

	manual := recordingMapper{}.From(rel("a")).
		InnerJoin(rel("b"), "cond1").
		InnerJoin(rel("c"), "cond2")

	assert.Equal(t, manual.ops, q.ops)
	assert.Equal(t, []string{"from a", "inner join b on cond1", "inner join c on cond2"}, q.ops)
}

func TestCreateJoinQueryEmptyPath(t *testing.T) {
	q, err := CreateJoinQuery[table, string, *recordingQuery](recordingMapper{}, Path[table, string]{})
	assert.Nil(t, q)
	assert.ErrorIs(t, err, ErrEmptyJoinPath)
}

func TestCreateJoinQueryFrom(t *testing.T) {
	g := newTestGraph([3]string{"a", "b", "ab"})

	t.Run("empty path uses base", func(t *testing.T) {
		path, err := g.JoinPath(rel("a"), rel("a"))
		require.NoError(t, err)

		q, err := CreateJoinQueryFrom[table, string, *recordingQuery](recordingMapper{}, rel("a"), path)
		require.NoError(t, err)
		assert.Equal(t, []string{"from a"}, q.ops)
	})

	t.Run("matching base", func(t *testing.T) {
		path, err := g.JoinPath(rel("a"), rel("b"))
		require.NoError(t, err)

		q, err := CreateJoinQueryFrom[table, string, *recordingQuery](recordingMapper{}, rel("a"), path)
		require.NoError(t, err)
		assert.Equal(t, []string{"from a", "inner join b on ab"}, q.ops)
	})

	t.Run("mismatched base", func(t *testing.T) {
		path, err := g.JoinPath(rel("a"), rel("b"))
		require.NoError(t, err)

		_, err = CreateJoinQueryFrom[table, string, *recordingQuery](recordingMapper{}, rel("b"), path)
		assert.True(t, errors.Is(err, ErrBaseMismatch))
	})
}
