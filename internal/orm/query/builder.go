// Package query provides query building functionality for join graphs
package query

import (
	"fmt"
	"strings"

	"github.com/conduit-lang/sqlgraph/internal/orm/schema"
)

// Mapper starts queries rooted at a relation. A mapper with a registry is
// strict: relations and columns outside the registry are rejected.
type Mapper struct {
	registry *schema.Registry
}

// MapperOption configures a Mapper
type MapperOption func(*Mapper)

// WithRegistry makes the mapper validate relations and columns against reg
func WithRegistry(reg *schema.Registry) MapperOption {
	return func(m *Mapper) {
		m.registry = reg
	}
}

// NewMapper creates a new mapper
func NewMapper(opts ...MapperOption) *Mapper {
	m := &Mapper{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// From starts a query selecting from rel
func (m *Mapper) From(rel schema.Relation) *QueryBuilder {
	qb := &QueryBuilder{
		mapper:     m,
		from:       rel,
		selections: make([]schema.Selection, 0),
		joins:      make([]*Join, 0),
		conditions: make([]*whereClause, 0),
		orderBy:    make([]orderClause, 0),
	}
	qb.checkRelation(rel)
	return qb
}

// QueryBuilder provides a fluent API for building SQL queries. Invalid input
// does not panic; the first error is kept and returned by ToSQL.
type QueryBuilder struct {
	mapper *Mapper
	from   schema.Relation

	selections []schema.Selection
	joins      []*Join
	conditions []*whereClause
	orderBy    []orderClause
	limit      *int
	offset     *int

	err error
}

// JoinType represents the type of SQL join
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
)

// String returns the string representation of the join type
func (j JoinType) String() string {
	switch j {
	case InnerJoin:
		return "INNER"
	case LeftJoin:
		return "LEFT"
	case RightJoin:
		return "RIGHT"
	default:
		return "INNER"
	}
}

// Join represents a SQL join clause
type Join struct {
	Type      JoinType
	Relation  schema.Relation
	Condition Predicate
}

type whereClause struct {
	predicate Predicate
	or        bool
}

type orderClause struct {
	column    schema.Column
	direction string
}

// Relation returns the relation the query is rooted at
func (qb *QueryBuilder) Relation() schema.Relation {
	return qb.from
}

// Joins returns a copy of the join clauses in application order
func (qb *QueryBuilder) Joins() []*Join {
	result := make([]*Join, len(qb.joins))
	copy(result, qb.joins)
	return result
}

// Err returns the first error recorded while building
func (qb *QueryBuilder) Err() error {
	return qb.err
}

// Select sets the projected columns. Without selections the query renders SELECT *.
func (qb *QueryBuilder) Select(selections ...schema.Selection) *QueryBuilder {
	for _, sel := range selections {
		qb.checkColumn(sel.Column)
	}
	qb.selections = append(qb.selections, selections...)
	return qb
}

// Columns selects columns without aliases
func (qb *QueryBuilder) Columns(cols ...schema.Column) *QueryBuilder {
	for _, col := range cols {
		qb.Select(schema.Selection{Column: col})
	}
	return qb
}

// Where adds a WHERE predicate combined with AND
func (qb *QueryBuilder) Where(pred Predicate) *QueryBuilder {
	return qb.where(pred, false)
}

// OrWhere adds a WHERE predicate combined with OR
func (qb *QueryBuilder) OrWhere(pred Predicate) *QueryBuilder {
	return qb.where(pred, true)
}

func (qb *QueryBuilder) where(pred Predicate, or bool) *QueryBuilder {
	if pred == nil {
		qb.setErr(fmt.Errorf("where: %w", ErrNilPredicate))
		return qb
	}
	qb.conditions = append(qb.conditions, &whereClause{predicate: pred, or: or})
	return qb
}

// OrderBy adds an ORDER BY clause
func (qb *QueryBuilder) OrderBy(col schema.Column, direction string) *QueryBuilder {
	dir := strings.ToUpper(direction)
	if dir != "ASC" && dir != "DESC" {
		dir = "ASC"
	}
	qb.checkColumn(col)
	qb.orderBy = append(qb.orderBy, orderClause{column: col, direction: dir})
	return qb
}

// OrderByAsc adds an ascending ORDER BY clause
func (qb *QueryBuilder) OrderByAsc(col schema.Column) *QueryBuilder {
	return qb.OrderBy(col, "ASC")
}

// OrderByDesc adds a descending ORDER BY clause
func (qb *QueryBuilder) OrderByDesc(col schema.Column) *QueryBuilder {
	return qb.OrderBy(col, "DESC")
}

// Limit sets the LIMIT clause
func (qb *QueryBuilder) Limit(n int) *QueryBuilder {
	qb.limit = &n
	return qb
}

// Offset sets the OFFSET clause
func (qb *QueryBuilder) Offset(n int) *QueryBuilder {
	qb.offset = &n
	return qb
}

// Join adds a JOIN clause
func (qb *QueryBuilder) Join(joinType JoinType, rel schema.Relation, on Predicate) *QueryBuilder {
	qb.checkRelation(rel)
	if on == nil {
		qb.setErr(fmt.Errorf("%s join: %w", joinType, ErrNilPredicate))
	}
	qb.joins = append(qb.joins, &Join{
		Type:      joinType,
		Relation:  rel,
		Condition: on,
	})
	return qb
}

// InnerJoin adds an INNER JOIN clause
func (qb *QueryBuilder) InnerJoin(rel schema.Relation, on Predicate) *QueryBuilder {
	return qb.Join(InnerJoin, rel, on)
}

// LeftJoin adds a LEFT JOIN clause
func (qb *QueryBuilder) LeftJoin(rel schema.Relation, on Predicate) *QueryBuilder {
	return qb.Join(LeftJoin, rel, on)
}

// RightJoin adds a RIGHT JOIN clause
func (qb *QueryBuilder) RightJoin(rel schema.Relation, on Predicate) *QueryBuilder {
	return qb.Join(RightJoin, rel, on)
}

// ToSQL generates the SQL query and parameter bindings
func (qb *QueryBuilder) ToSQL() (string, []interface{}, error) {
	if qb.err != nil {
		return "", nil, qb.err
	}

	w := newSQLWriter()

	w.WriteString("SELECT ")
	if len(qb.selections) == 0 {
		w.WriteString("*")
	}
	for i, sel := range qb.selections {
		if i > 0 {
			w.WriteString(", ")
		}
		col, err := quoteColumn(sel.Column)
		if err != nil {
			return "", nil, err
		}
		w.WriteString(col)
		if sel.Alias != "" {
			w.WriteString(" AS ")
			w.WriteString(quoteAlias(sel.Alias))
		}
	}

	from, err := quoteRelation(qb.from)
	if err != nil {
		return "", nil, err
	}
	w.WriteString(" FROM ")
	w.WriteString(from)

	// JOINs
	for _, join := range qb.joins {
		table, err := quoteRelation(join.Relation)
		if err != nil {
			return "", nil, err
		}
		w.WriteString(fmt.Sprintf(" %s JOIN %s ON ", join.Type, table))
		if err := w.nested(join.Condition); err != nil {
			return "", nil, fmt.Errorf("failed to build join condition for %s: %w", join.Relation.TableName(), err)
		}
	}

	// WHERE clauses
	if len(qb.conditions) > 0 {
		w.WriteString(" WHERE ")
		for i, cond := range qb.conditions {
			if i > 0 {
				if cond.or {
					w.WriteString(" OR ")
				} else {
					w.WriteString(" AND ")
				}
			}
			if err := w.nested(cond.predicate); err != nil {
				return "", nil, fmt.Errorf("failed to build condition: %w", err)
			}
		}
	}

	// ORDER BY
	if len(qb.orderBy) > 0 {
		w.WriteString(" ORDER BY ")
		for i, order := range qb.orderBy {
			if i > 0 {
				w.WriteString(", ")
			}
			col, err := quoteColumn(order.column)
			if err != nil {
				return "", nil, err
			}
			w.WriteString(col + " " + order.direction)
		}
	}

	// LIMIT
	if qb.limit != nil {
		w.WriteString(fmt.Sprintf(" LIMIT $%d", w.paramCounter))
		w.args = append(w.args, *qb.limit)
		w.paramCounter++
	}

	// OFFSET
	if qb.offset != nil {
		w.WriteString(fmt.Sprintf(" OFFSET $%d", w.paramCounter))
		w.args = append(w.args, *qb.offset)
		w.paramCounter++
	}

	return w.String(), w.args, nil
}

// Clone creates a copy of the query builder
func (qb *QueryBuilder) Clone() *QueryBuilder {
	clone := &QueryBuilder{
		mapper:     qb.mapper,
		from:       qb.from,
		selections: make([]schema.Selection, len(qb.selections)),
		joins:      make([]*Join, len(qb.joins)),
		conditions: make([]*whereClause, len(qb.conditions)),
		orderBy:    make([]orderClause, len(qb.orderBy)),
		err:        qb.err,
	}

	copy(clone.selections, qb.selections)
	copy(clone.joins, qb.joins)
	copy(clone.conditions, qb.conditions)
	copy(clone.orderBy, qb.orderBy)

	if qb.limit != nil {
		limit := *qb.limit
		clone.limit = &limit
	}

	if qb.offset != nil {
		offset := *qb.offset
		clone.offset = &offset
	}

	return clone
}

func (qb *QueryBuilder) setErr(err error) {
	if qb.err == nil {
		qb.err = err
	}
}

// checkRelation validates a relation, and its registration on strict mappers
func (qb *QueryBuilder) checkRelation(rel schema.Relation) {
	if rel == nil || rel.TableName() == "" {
		qb.setErr(ErrInvalidRelation)
		return
	}
	if qb.mapper == nil || qb.mapper.registry == nil {
		return
	}
	if !qb.mapper.registry.Exists(rel.TableName()) {
		qb.setErr(fmt.Errorf("%w: %s", ErrUnknownRelation, rel.TableName()))
	}
}

// checkColumn validates a column, and its declaration on strict mappers
func (qb *QueryBuilder) checkColumn(col schema.Column) {
	if !col.Valid() {
		qb.setErr(fmt.Errorf("%w: %q", ErrInvalidColumn, col.Qualified()))
		return
	}
	if qb.mapper == nil || qb.mapper.registry == nil {
		return
	}
	table, exists := qb.mapper.registry.Get(col.Table.TableName())
	if !exists {
		qb.setErr(fmt.Errorf("%w: %s", ErrUnknownRelation, col.Table.TableName()))
		return
	}
	if !table.HasColumn(col.Name) {
		qb.setErr(fmt.Errorf("%w: %s", ErrUnknownColumn, col.Qualified()))
	}
}
