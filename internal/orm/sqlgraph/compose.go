package sqlgraph

import "fmt"

// Mapper starts a query rooted at a relation
type Mapper[R any, Q any] interface {
	From(rel R) Q
}

// JoinQuery is a query that can be extended with an inner join. InnerJoin
// returns the composed query; builders that mutate in place may return
// their receiver.
type JoinQuery[R any, C any, Q any] interface {
	InnerJoin(rel R, on C) Q
}

// CreateJoinQuery starts a query at the master of the path's first join and
// inner-joins every detail relation in order using the join conditions.
// Errors raised by the builder are not inspected; builders that defer
// errors surface them when the query is rendered.
func CreateJoinQuery[R Relation, C any, Q JoinQuery[R, C, Q]](m Mapper[R, Q], path Path[R, C]) (Q, error) {
	if len(path) == 0 {
		var zero Q
		return zero, ErrEmptyJoinPath
	}
	return foldJoins(m.From(path[0].Master), path), nil
}

// CreateJoinQueryFrom is CreateJoinQuery with an explicit base relation, so
// empty paths (source equals target) still produce a query. For a non-empty
// path the base must be the master of the first join.
func CreateJoinQueryFrom[R Relation, C any, Q JoinQuery[R, C, Q]](m Mapper[R, Q], base R, path Path[R, C]) (Q, error) {
	if len(path) > 0 && path[0].Master.TableName() != base.TableName() {
		var zero Q
		return zero, fmt.Errorf("%w: %s does not start at %s", ErrBaseMismatch, path, base.TableName())
	}
	return foldJoins(m.From(base), path), nil
}

func foldJoins[R Relation, C any, Q JoinQuery[R, C, Q]](query Q, path Path[R, C]) Q {
	for _, join := range path {
		query = query.InnerJoin(join.Detail, join.Condition)
	}
	return query
}
