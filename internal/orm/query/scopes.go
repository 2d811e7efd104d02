package query

import (
	"fmt"
	"sort"
	"sync"
)

// Scope is a reusable query fragment, such as a filter or an ordering,
// applied to a builder after its joins are in place
type Scope func(qb *QueryBuilder) *QueryBuilder

// WhereScope returns a scope that ANDs pred into the WHERE clause
func WhereScope(pred Predicate) Scope {
	return func(qb *QueryBuilder) *QueryBuilder {
		return qb.Where(pred)
	}
}

// Scopes applies each scope in order
func (qb *QueryBuilder) Scopes(scopes ...Scope) *QueryBuilder {
	for _, scope := range scopes {
		if scope == nil {
			continue
		}
		qb = scope(qb)
	}
	return qb
}

// ScopeRegistry holds named scopes
type ScopeRegistry struct {
	scopes map[string]Scope
	mu     sync.RWMutex
}

// NewScopeRegistry creates a new scope registry
func NewScopeRegistry() *ScopeRegistry {
	return &ScopeRegistry{
		scopes: make(map[string]Scope),
	}
}

// Register registers a scope under name, replacing any previous one
func (sr *ScopeRegistry) Register(name string, scope Scope) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	sr.scopes[name] = scope
}

// Get retrieves a scope by name
func (sr *ScopeRegistry) Get(name string) (Scope, error) {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	scope, ok := sr.scopes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scope: %s", name)
	}
	return scope, nil
}

// Has checks if a scope exists
func (sr *ScopeRegistry) Has(name string) bool {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	_, ok := sr.scopes[name]
	return ok
}

// List returns all registered scope names, sorted
func (sr *ScopeRegistry) List() []string {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	names := make([]string, 0, len(sr.scopes))
	for name := range sr.scopes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply applies the named scopes in order. An unknown name is recorded on
// the builder and reported by ToSQL.
func (sr *ScopeRegistry) Apply(qb *QueryBuilder, names ...string) *QueryBuilder {
	for _, name := range names {
		scope, err := sr.Get(name)
		if err != nil {
			qb.setErr(err)
			continue
		}
		qb = scope(qb)
	}
	return qb
}
