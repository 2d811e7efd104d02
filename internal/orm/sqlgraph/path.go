package sqlgraph

import "strings"

// Path is a chain of joins where each join's detail is the next join's
// master. The empty path joins a relation to itself.
type Path[R Relation, C any] []Join[R, C]

// Len returns the number of joins in the path
func (p Path[R, C]) Len() int {
	return len(p)
}

// Source returns the master relation of the first join
func (p Path[R, C]) Source() (R, bool) {
	if len(p) == 0 {
		var zero R
		return zero, false
	}
	return p[0].Master, true
}

// Target returns the detail relation of the last join
func (p Path[R, C]) Target() (R, bool) {
	if len(p) == 0 {
		var zero R
		return zero, false
	}
	return p[len(p)-1].Detail, true
}

// Tables returns the table names visited by the path, source first
func (p Path[R, C]) Tables() []string {
	if len(p) == 0 {
		return []string{}
	}

	tables := make([]string, 0, len(p)+1)
	tables = append(tables, p[0].Master.TableName())
	for _, join := range p {
		tables = append(tables, join.Detail.TableName())
	}
	return tables
}

// String renders the path as "a -> b -> c"
func (p Path[R, C]) String() string {
	return strings.Join(p.Tables(), " -> ")
}
