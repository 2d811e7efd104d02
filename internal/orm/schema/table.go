// Package schema provides the table and column handles that join graphs and
// query builders operate on. Only identity (the table name) and column names
// are modeled; types and storage layout are left to the database.
package schema

import (
	"fmt"
	"strings"
)

// Relation is anything that maps onto a named table. The table name is the
// stable identity used as a join graph node key.
type Relation interface {
	TableName() string
}

// Table is a named relation with an ordered set of columns
type Table struct {
	name    string
	columns []string
	index   map[string]int
}

// NewTable creates a new table with the given columns. Duplicate column
// names are collapsed, keeping the first position.
func NewTable(name string, columns ...string) *Table {
	t := &Table{
		name:    name,
		columns: make([]string, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for _, col := range columns {
		t.AddColumn(col)
	}
	return t
}

// TableName implements Relation
func (t *Table) TableName() string {
	if t == nil {
		return ""
	}
	return t.name
}

// String returns the table name
func (t *Table) String() string {
	return t.TableName()
}

// AddColumn appends a column if it is not already declared
func (t *Table) AddColumn(name string) {
	if _, exists := t.index[name]; exists {
		return
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, name)
}

// HasColumn reports whether the column is declared on the table
func (t *Table) HasColumn(name string) bool {
	_, exists := t.index[name]
	return exists
}

// Columns returns a copy of the declared column names in declaration order
func (t *Table) Columns() []string {
	result := make([]string, len(t.columns))
	copy(result, t.columns)
	return result
}

// C returns a reference to a column of this table. The column does not have
// to be declared; use HasColumn when strictness matters.
func (t *Table) C(name string) Column {
	return Column{Table: t, Name: name}
}

// Column is a reference to a column of a specific table
type Column struct {
	Table *Table
	Name  string
}

// Valid reports whether the column carries both a table and a name
func (c Column) Valid() bool {
	return c.Table != nil && c.Table.name != "" && c.Name != ""
}

// Qualified returns the unquoted "table.column" form
func (c Column) Qualified() string {
	if c.Table == nil {
		return c.Name
	}
	return c.Table.name + "." + c.Name
}

// String implements fmt.Stringer
func (c Column) String() string {
	return c.Qualified()
}

// As returns a selection of this column under an output alias
func (c Column) As(alias string) Selection {
	return Selection{Column: c, Alias: alias}
}

// Selection is a column projected into a result set, optionally aliased
type Selection struct {
	Column Column
	Alias  string
}

// ParseColumnRef splits a "table.column" reference into its parts
func ParseColumnRef(ref string) (table, column string, err error) {
	parts := strings.Split(ref, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid column reference %q: expected table.column", ref)
	}
	return parts[0], parts[1], nil
}
