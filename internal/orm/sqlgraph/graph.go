// Package sqlgraph resolves master-detail join chains between relations.
//
// A Graph holds relations as nodes, keyed by table name, and join
// descriptors as directed master -> detail edges. JoinPath returns the
// shortest chain of joins leading from one relation to another, which
// CreateJoinQuery folds into a query builder.
//
// A Graph performs no locking. Build it from a single goroutine, then share
// it read-only; callers that need concurrent mutation must guard it
// themselves.
package sqlgraph

import (
	"sort"

	"go.uber.org/zap"
)

// Relation is the capability the graph needs from a relation handle: a
// stable, unique table name.
type Relation interface {
	TableName() string
}

// Join is a master-detail join descriptor. The condition is opaque to the
// graph; it is stored and handed back verbatim. Descriptors returned by the
// graph always carry the current handles of their relations.
type Join[R Relation, C any] struct {
	Master    R
	Detail    R
	Condition C
}

type edgeKey struct {
	master string
	detail string
}

// Graph is a directed graph of relations connected by master-detail joins
type Graph[R Relation, C any] struct {
	nodes map[string]R

	// edges holds the condition of each master -> detail join; handles
	// come from nodes when a descriptor is built
	edges map[edgeKey]C

	// adjacency lists detail names in first-registration order, which is
	// also the order breadth-first search visits them in
	adjacency map[string][]string

	// order records edge keys in first-registration order
	order []edgeKey

	logger *zap.Logger
}

// New creates an empty join graph
func New[R Relation, C any](opts ...Option) *Graph[R, C] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Graph[R, C]{
		nodes:     make(map[string]R),
		edges:     make(map[edgeKey]C),
		adjacency: make(map[string][]string),
		order:     make([]edgeKey, 0),
		logger:    o.logger,
	}
}

// AddMasterDetailJoin registers a join from master to detail. Both relations
// are stored as nodes, replacing earlier handles with the same name, and an
// existing master -> detail edge has its condition replaced. The stored
// descriptor is returned.
func (g *Graph[R, C]) AddMasterDetailJoin(master, detail R, condition C) Join[R, C] {
	masterName := master.TableName()
	detailName := detail.TableName()

	g.nodes[masterName] = master
	g.nodes[detailName] = detail

	key := edgeKey{master: masterName, detail: detailName}
	_, replaced := g.edges[key]
	if !replaced {
		g.adjacency[masterName] = append(g.adjacency[masterName], detailName)
		g.order = append(g.order, key)
	}
	g.edges[key] = condition

	g.logger.Debug("registered join",
		zap.String("master", masterName),
		zap.String("detail", detailName),
		zap.Bool("replaced", replaced),
	)

	return g.join(key)
}

// AddJoin registers a pre-built join descriptor
func (g *Graph[R, C]) AddJoin(join Join[R, C]) Join[R, C] {
	return g.AddMasterDetailJoin(join.Master, join.Detail, join.Condition)
}

// JoinPath returns the shortest chain of joins leading from source to
// target, ordered master first. The path from a relation to itself is empty.
// A *TopologyError is returned when no directed chain connects the two.
func (g *Graph[R, C]) JoinPath(source, target R) (Path[R, C], error) {
	sourceName := source.TableName()
	targetName := target.TableName()

	if sourceName == targetName {
		return Path[R, C]{}, nil
	}

	predecessors := g.shortestPathTree(sourceName, targetName)

	joins := make([]Join[R, C], 0)
	current := targetName
	for current != sourceName {
		prev, ok := predecessors[current]
		if !ok {
			g.logger.Debug("no join path",
				zap.String("source", sourceName),
				zap.String("target", targetName),
			)
			return nil, &TopologyError{Source: sourceName, Target: targetName}
		}

		joins = append(joins, g.join(edgeKey{master: prev, detail: current}))
		current = prev
	}

	// collected target -> source
	for i, j := 0, len(joins)-1; i < j; i, j = i+1, j-1 {
		joins[i], joins[j] = joins[j], joins[i]
	}

	g.logger.Debug("resolved join path",
		zap.String("source", sourceName),
		zap.String("target", targetName),
		zap.Int("hops", len(joins)),
	)

	return Path[R, C](joins), nil
}

// shortestPathTree runs a breadth-first search from source over unit-weight
// edges and returns each reached node's predecessor. The search stops once
// target has been reached.
func (g *Graph[R, C]) shortestPathTree(source, target string) map[string]string {
	predecessors := make(map[string]string)
	if _, exists := g.nodes[source]; !exists {
		return predecessors
	}

	visited := map[string]bool{source: true}
	queue := []string{source}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		for _, next := range g.adjacency[node] {
			if visited[next] {
				continue
			}
			visited[next] = true
			predecessors[next] = node
			if next == target {
				return predecessors
			}
			queue = append(queue, next)
		}
	}

	return predecessors
}

// Relation returns the handle stored for a table name
func (g *Graph[R, C]) Relation(name string) (R, bool) {
	rel, exists := g.nodes[name]
	return rel, exists
}

// Relations returns all relation handles sorted by table name
func (g *Graph[R, C]) Relations() []R {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]R, len(names))
	for i, name := range names {
		result[i] = g.nodes[name]
	}
	return result
}

// Join returns the join registered from master to detail
func (g *Graph[R, C]) Join(master, detail string) (Join[R, C], bool) {
	key := edgeKey{master: master, detail: detail}
	if _, exists := g.edges[key]; !exists {
		return Join[R, C]{}, false
	}
	return g.join(key), true
}

// Joins returns all joins in first-registration order
func (g *Graph[R, C]) Joins() []Join[R, C] {
	result := make([]Join[R, C], len(g.order))
	for i, key := range g.order {
		result[i] = g.join(key)
	}
	return result
}

// join builds the descriptor for a registered edge from the current handles
func (g *Graph[R, C]) join(key edgeKey) Join[R, C] {
	return Join[R, C]{
		Master:    g.nodes[key.master],
		Detail:    g.nodes[key.detail],
		Condition: g.edges[key],
	}
}

// Len returns the number of relations in the graph
func (g *Graph[R, C]) Len() int {
	return len(g.nodes)
}
