// Package schema provides a registry for managing table handles
package schema

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrTableNotFound is returned when a table is not registered
	ErrTableNotFound = errors.New("table not found")

	// ErrColumnNotFound is returned when a column is not declared on its table
	ErrColumnNotFound = errors.New("column not found")
)

// Registry manages all table handles known to the application
type Registry struct {
	tables map[string]*Table
	mu     sync.RWMutex
}

// NewRegistry creates a new table registry
func NewRegistry() *Registry {
	return &Registry{
		tables: make(map[string]*Table),
	}
}

// Register registers a new table
func (r *Registry) Register(table *Table) error {
	if table == nil || table.TableName() == "" {
		return fmt.Errorf("table name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tables[table.TableName()]; exists {
		return fmt.Errorf("table %s is already registered", table.TableName())
	}

	r.tables[table.TableName()] = table
	return nil
}

// Get retrieves a table by name
func (r *Registry) Get(name string) (*Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	table, exists := r.tables[name]
	return table, exists
}

// Column resolves a "table.column" reference against the registered tables
func (r *Registry) Column(ref string) (Column, error) {
	tableName, columnName, err := ParseColumnRef(ref)
	if err != nil {
		return Column{}, err
	}

	table, exists := r.Get(tableName)
	if !exists {
		return Column{}, fmt.Errorf("%w: %s", ErrTableNotFound, tableName)
	}
	if !table.HasColumn(columnName) {
		return Column{}, fmt.Errorf("%w: %s", ErrColumnNotFound, ref)
	}

	return table.C(columnName), nil
}

// List returns the names of all registered tables, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered tables
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.tables)
}

// Exists checks if a table is registered
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.tables[name]
	return exists
}
