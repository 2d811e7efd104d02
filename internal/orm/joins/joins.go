// Package joins binds the generic join graph to schema tables and query
// predicates, and builds graphs from declarative join definitions.
package joins

import (
	"errors"
	"fmt"

	"github.com/conduit-lang/sqlgraph/internal/orm/query"
	"github.com/conduit-lang/sqlgraph/internal/orm/schema"
	"github.com/conduit-lang/sqlgraph/internal/orm/sqlgraph"
)

// ErrInvalidJoinColumn is returned when a join column does not belong to a table
var ErrInvalidJoinColumn = errors.New("join columns must reference a table")

type (
	// Graph is a join graph over schema relations with query predicates as conditions
	Graph = sqlgraph.Graph[schema.Relation, query.Predicate]

	// Join is a master-detail join over schema relations
	Join = sqlgraph.Join[schema.Relation, query.Predicate]

	// Path is a resolved chain of joins
	Path = sqlgraph.Path[schema.Relation, query.Predicate]
)

// NewGraph creates an empty join graph
func NewGraph(opts ...sqlgraph.Option) *Graph {
	return sqlgraph.New[schema.Relation, query.Predicate](opts...)
}

// AddSimpleMasterDetailJoin registers a join between the tables owning the
// two columns, on the condition master = detail.
func AddSimpleMasterDetailJoin(g *Graph, master, detail schema.Column) (Join, error) {
	if !master.Valid() || !detail.Valid() {
		return Join{}, fmt.Errorf("%w: %s, %s", ErrInvalidJoinColumn, master.Qualified(), detail.Qualified())
	}
	return g.AddMasterDetailJoin(master.Table, detail.Table, query.Equal(master, detail)), nil
}

// Compose builds the inner-join query for a non-empty path
func Compose(m *query.Mapper, path Path) (*query.QueryBuilder, error) {
	return sqlgraph.CreateJoinQuery[schema.Relation, query.Predicate, *query.QueryBuilder](m, path)
}

// ComposeFrom builds the inner-join query for a path starting at base. An
// empty path yields a plain query on base.
func ComposeFrom(m *query.Mapper, base schema.Relation, path Path) (*query.QueryBuilder, error) {
	return sqlgraph.CreateJoinQueryFrom[schema.Relation, query.Predicate, *query.QueryBuilder](m, base, path)
}

// Resolve finds the join path between two tables and composes its query.
// When source and target are the same table the query selects from it alone.
func Resolve(g *Graph, m *query.Mapper, source, target schema.Relation) (Path, *query.QueryBuilder, error) {
	path, err := g.JoinPath(source, target)
	if err != nil {
		return nil, nil, err
	}

	qb, err := ComposeFrom(m, source, path)
	if err != nil {
		return nil, nil, err
	}
	return path, qb, nil
}
