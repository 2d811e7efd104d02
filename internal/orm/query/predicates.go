// Package query provides predicate construction for WHERE and JOIN clauses
package query

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/conduit-lang/sqlgraph/internal/orm/schema"
)

// Operator represents a comparison operator
type Operator int

const (
	OpEqual Operator = iota
	OpNotEqual
	OpGreaterThan
	OpGreaterThanOrEqual
	OpLessThan
	OpLessThanOrEqual
	OpIn
	OpNotIn
	OpLike
	OpILike
	OpIsNull
	OpIsNotNull
	OpBetween
)

// String returns the string representation of the operator
func (o Operator) String() string {
	switch o {
	case OpEqual:
		return "="
	case OpNotEqual:
		return "!="
	case OpGreaterThan:
		return ">"
	case OpGreaterThanOrEqual:
		return ">="
	case OpLessThan:
		return "<"
	case OpLessThanOrEqual:
		return "<="
	case OpIn:
		return "IN"
	case OpNotIn:
		return "NOT IN"
	case OpLike:
		return "LIKE"
	case OpILike:
		return "ILIKE"
	case OpIsNull:
		return "IS NULL"
	case OpIsNotNull:
		return "IS NOT NULL"
	case OpBetween:
		return "BETWEEN"
	default:
		return "UNKNOWN"
	}
}

// Predicate is a boolean SQL expression usable in WHERE and JOIN ... ON
// clauses. Predicates are opaque values outside this package.
type Predicate interface {
	writeSQL(w *sqlWriter) error
}

// Condition compares a column against another column or a bound value.
// A schema.Column on the right-hand side renders as an identifier, anything
// else becomes a positional parameter.
type Condition struct {
	Column   schema.Column
	Operator Operator
	Value    interface{}
}

// Equal builds "left = right"
func Equal(left schema.Column, right interface{}) *Condition {
	return &Condition{Column: left, Operator: OpEqual, Value: right}
}

// NotEqual builds "left != right"
func NotEqual(left schema.Column, right interface{}) *Condition {
	return &Condition{Column: left, Operator: OpNotEqual, Value: right}
}

// GreaterThan builds "left > right"
func GreaterThan(left schema.Column, right interface{}) *Condition {
	return &Condition{Column: left, Operator: OpGreaterThan, Value: right}
}

// GreaterThanOrEqual builds "left >= right"
func GreaterThanOrEqual(left schema.Column, right interface{}) *Condition {
	return &Condition{Column: left, Operator: OpGreaterThanOrEqual, Value: right}
}

// LessThan builds "left < right"
func LessThan(left schema.Column, right interface{}) *Condition {
	return &Condition{Column: left, Operator: OpLessThan, Value: right}
}

// LessThanOrEqual builds "left <= right"
func LessThanOrEqual(left schema.Column, right interface{}) *Condition {
	return &Condition{Column: left, Operator: OpLessThanOrEqual, Value: right}
}

// In builds "col IN (...)"
func In(col schema.Column, values ...interface{}) *Condition {
	return &Condition{Column: col, Operator: OpIn, Value: values}
}

// NotIn builds "col NOT IN (...)"
func NotIn(col schema.Column, values ...interface{}) *Condition {
	return &Condition{Column: col, Operator: OpNotIn, Value: values}
}

// Like builds "col LIKE pattern"
func Like(col schema.Column, pattern string) *Condition {
	return &Condition{Column: col, Operator: OpLike, Value: pattern}
}

// ILike builds "col ILIKE pattern" (case-insensitive)
func ILike(col schema.Column, pattern string) *Condition {
	return &Condition{Column: col, Operator: OpILike, Value: pattern}
}

// IsNull builds "col IS NULL"
func IsNull(col schema.Column) *Condition {
	return &Condition{Column: col, Operator: OpIsNull}
}

// IsNotNull builds "col IS NOT NULL"
func IsNotNull(col schema.Column) *Condition {
	return &Condition{Column: col, Operator: OpIsNotNull}
}

// Between builds "col BETWEEN min AND max"
func Between(col schema.Column, lo, hi interface{}) *Condition {
	return &Condition{Column: col, Operator: OpBetween, Value: []interface{}{lo, hi}}
}

func (c *Condition) writeSQL(w *sqlWriter) error {
	if c == nil {
		return ErrNilPredicate
	}
	left, err := quoteColumn(c.Column)
	if err != nil {
		return err
	}

	switch c.Operator {
	case OpEqual, OpNotEqual, OpGreaterThan, OpGreaterThanOrEqual,
		OpLessThan, OpLessThanOrEqual, OpLike, OpILike:
		right, err := w.operand(c.Value)
		if err != nil {
			return err
		}
		w.WriteString(fmt.Sprintf("%s %s %s", left, c.Operator, right))
		return nil

	case OpIn, OpNotIn:
		values, ok := c.Value.([]interface{})
		if !ok {
			return fmt.Errorf("%s operator requires []interface{} value", c.Operator)
		}
		if len(values) == 0 {
			// IN () is always false, NOT IN () always true
			if c.Operator == OpIn {
				w.WriteString("FALSE")
			} else {
				w.WriteString("TRUE")
			}
			return nil
		}

		placeholders := make([]string, len(values))
		for i, v := range values {
			p, err := w.operand(v)
			if err != nil {
				return err
			}
			placeholders[i] = p
		}
		w.WriteString(fmt.Sprintf("%s %s (%s)", left, c.Operator, strings.Join(placeholders, ", ")))
		return nil

	case OpIsNull, OpIsNotNull:
		w.WriteString(fmt.Sprintf("%s %s", left, c.Operator))
		return nil

	case OpBetween:
		values, ok := c.Value.([]interface{})
		if !ok || len(values) != 2 {
			return fmt.Errorf("BETWEEN operator requires [min, max] values")
		}
		lo, err := w.operand(values[0])
		if err != nil {
			return err
		}
		hi, err := w.operand(values[1])
		if err != nil {
			return err
		}
		w.WriteString(fmt.Sprintf("%s BETWEEN %s AND %s", left, lo, hi))
		return nil

	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedOperator, c.Operator)
	}
}

// PredicateGroup represents a group of predicates combined with AND/OR
type PredicateGroup struct {
	Predicates []Predicate
	Or         bool // true for OR, false for AND
}

// And combines predicates with AND
func And(preds ...Predicate) *PredicateGroup {
	return &PredicateGroup{Predicates: preds}
}

// Or combines predicates with OR
func Or(preds ...Predicate) *PredicateGroup {
	return &PredicateGroup{Predicates: preds, Or: true}
}

func (pg *PredicateGroup) writeSQL(w *sqlWriter) error {
	if pg == nil {
		return ErrNilPredicate
	}
	if len(pg.Predicates) == 0 {
		// An empty conjunction is true, an empty disjunction false
		if pg.Or {
			w.WriteString("FALSE")
		} else {
			w.WriteString("TRUE")
		}
		return nil
	}

	connector := " AND "
	if pg.Or {
		connector = " OR "
	}

	for i, pred := range pg.Predicates {
		if pred == nil {
			return ErrNilPredicate
		}
		if i > 0 {
			w.WriteString(connector)
		}
		if err := w.nested(pred); err != nil {
			return err
		}
	}
	return nil
}

// sqlWriter accumulates rendered SQL and positional arguments
type sqlWriter struct {
	strings.Builder
	paramCounter int
	args         []interface{}
}

func newSQLWriter() *sqlWriter {
	return &sqlWriter{
		paramCounter: 1,
		args:         make([]interface{}, 0),
	}
}

// operand renders a right-hand side: columns as identifiers, values as parameters
func (w *sqlWriter) operand(v interface{}) (string, error) {
	if col, ok := v.(schema.Column); ok {
		return quoteColumn(col)
	}
	w.args = append(w.args, v)
	p := fmt.Sprintf("$%d", w.paramCounter)
	w.paramCounter++
	return p, nil
}

// nested writes a predicate, wrapping multi-part groups in parentheses
func (w *sqlWriter) nested(pred Predicate) error {
	if pred == nil {
		return ErrNilPredicate
	}
	if group, ok := pred.(*PredicateGroup); ok && group != nil && len(group.Predicates) > 1 {
		w.WriteString("(")
		if err := group.writeSQL(w); err != nil {
			return err
		}
		w.WriteString(")")
		return nil
	}
	return pred.writeSQL(w)
}

// quoteColumn renders a column as "table"."column"
func quoteColumn(col schema.Column) (string, error) {
	if !col.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidColumn, col.Qualified())
	}
	return pq.QuoteIdentifier(col.Table.TableName()) + "." + pq.QuoteIdentifier(col.Name), nil
}

// quoteRelation renders a relation as "table"
func quoteRelation(rel schema.Relation) (string, error) {
	if rel == nil || rel.TableName() == "" {
		return "", ErrInvalidRelation
	}
	return pq.QuoteIdentifier(rel.TableName()), nil
}

// quoteAlias renders an output alias as "alias"
func quoteAlias(alias string) string {
	return pq.QuoteIdentifier(alias)
}

// SQL renders a predicate on its own, numbering parameters from $1
func SQL(pred Predicate) (string, []interface{}, error) {
	w := newSQLWriter()
	if err := w.nested(pred); err != nil {
		return "", nil, err
	}
	return w.String(), w.args, nil
}
