package commands

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/conduit-lang/sqlgraph/internal/cli/config"
	"github.com/conduit-lang/sqlgraph/internal/cli/logging"
	"github.com/conduit-lang/sqlgraph/internal/orm/joins"
	"github.com/conduit-lang/sqlgraph/internal/orm/query"
	"github.com/conduit-lang/sqlgraph/internal/orm/schema"
	"github.com/conduit-lang/sqlgraph/internal/orm/sqlgraph"
)

// environment is the loaded configuration turned into a join graph
type environment struct {
	registry *schema.Registry
	graph    *joins.Graph
	mapper   *query.Mapper
	logger   *zap.Logger

	// scopes holds the named filter sets from the config; scopeFilters keeps
	// their resolved filters so the columns can be checked against a path
	scopes       *query.ScopeRegistry
	scopeFilters map[string][]filter
}

// filter is an equality filter on a declared column
type filter struct {
	column schema.Column
	value  string
}

func (f filter) scope() query.Scope {
	return query.WhereScope(query.Equal(f.column, f.value))
}

// loadEnvironment reads the config and builds the registry, logger and graph
func loadEnvironment(opts *rootOptions) (*environment, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, &configError{err: err}
	}

	registry, err := cfg.Registry()
	if err != nil {
		return nil, &configError{err: err}
	}

	level := cfg.Log.Level
	if opts.verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.Log.Development)
	if err != nil {
		return nil, &configError{err: err}
	}

	defs := make([]joins.Definition, len(cfg.Joins))
	for i, j := range cfg.Joins {
		defs[i] = joins.Definition{Master: j.Master, Detail: j.Detail}
	}

	graph, err := joins.Build(registry, defs, sqlgraph.WithLogger(logger))
	if err != nil {
		return nil, &configError{err: err}
	}

	env := &environment{
		registry:     registry,
		graph:        graph,
		mapper:       query.NewMapper(query.WithRegistry(registry)),
		logger:       logger,
		scopes:       query.NewScopeRegistry(),
		scopeFilters: make(map[string][]filter, len(cfg.Scopes)),
	}

	for _, sc := range cfg.Scopes {
		filters, err := env.filters(sc.Where)
		if err != nil {
			return nil, &configError{err: fmt.Errorf("scope %s: %w", sc.Name, err)}
		}
		env.addScope(sc.Name, filters)
	}

	logger.Debug("loaded join graph",
		zap.Int("tables", registry.Count()),
		zap.Int("relations", graph.Len()),
		zap.Int("joins", len(graph.Joins())),
		zap.Strings("scopes", env.scopes.List()),
	)

	return env, nil
}

func (e *environment) addScope(name string, filters []filter) {
	scopes := make([]query.Scope, len(filters))
	for i, f := range filters {
		scopes[i] = f.scope()
	}
	e.scopeFilters[name] = filters
	e.scopes.Register(name, func(qb *query.QueryBuilder) *query.QueryBuilder {
		return qb.Scopes(scopes...)
	})
}

// filters resolves "table.column=value" filters against the registry
func (e *environment) filters(refs []string) ([]filter, error) {
	filters := make([]filter, 0, len(refs))
	for _, ref := range refs {
		colRef, value, err := config.ParseFilter(ref)
		if err != nil {
			return nil, err
		}
		col, err := e.column(colRef)
		if err != nil {
			return nil, err
		}
		filters = append(filters, filter{column: col, value: value})
	}
	return filters, nil
}

// table looks up a declared table, suggesting close names when it is missing
func (e *environment) table(name string) (*schema.Table, error) {
	table, ok := e.registry.Get(name)
	if !ok {
		return nil, newUnknownTableError(name, e.registry.List())
	}
	return table, nil
}

// column resolves a "table.column" reference
func (e *environment) column(ref string) (schema.Column, error) {
	tableName, _, err := schema.ParseColumnRef(ref)
	if err != nil {
		return schema.Column{}, err
	}
	if _, err := e.table(tableName); err != nil {
		return schema.Column{}, err
	}
	col, err := e.registry.Column(ref)
	if err != nil {
		return schema.Column{}, fmt.Errorf("invalid column %s: %w", ref, err)
	}
	return col, nil
}

func (e *environment) close() {
	_ = e.logger.Sync()
}
