package joins

import (
	"fmt"

	"github.com/conduit-lang/sqlgraph/internal/orm/schema"
	"github.com/conduit-lang/sqlgraph/internal/orm/sqlgraph"
)

// Definition declares a master-detail join as two "table.column" references
// that must be equal.
type Definition struct {
	Master string
	Detail string
}

// Build creates a join graph from definitions whose columns are resolved
// against reg. Definitions are registered in order.
func Build(reg *schema.Registry, defs []Definition, opts ...sqlgraph.Option) (*Graph, error) {
	g := NewGraph(opts...)

	for i, def := range defs {
		master, err := reg.Column(def.Master)
		if err != nil {
			return nil, fmt.Errorf("join %d: master: %w", i, err)
		}
		detail, err := reg.Column(def.Detail)
		if err != nil {
			return nil, fmt.Errorf("join %d: detail: %w", i, err)
		}
		if _, err := AddSimpleMasterDetailJoin(g, master, detail); err != nil {
			return nil, fmt.Errorf("join %d: %w", i, err)
		}
	}

	return g, nil
}
