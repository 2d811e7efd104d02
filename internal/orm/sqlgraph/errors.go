package sqlgraph

import (
	"errors"
	"fmt"
)

var (
	// ErrNoJoinPath matches every *TopologyError
	ErrNoJoinPath = errors.New("no join path found")

	// ErrEmptyJoinPath is returned when composing a query from an empty path
	// without an explicit base relation
	ErrEmptyJoinPath = errors.New("join path is empty")

	// ErrBaseMismatch is returned when an explicit base relation is not the
	// master of the path's first join
	ErrBaseMismatch = errors.New("base relation does not start the join path")
)

// TopologyError reports that no directed chain of registered joins leads
// from Source to Target. Retrying without changing the graph cannot succeed.
type TopologyError struct {
	Source string
	Target string
}

// Error implements the error interface
func (e *TopologyError) Error() string {
	return fmt.Sprintf("no join path found from %q to %q", e.Source, e.Target)
}

// Is makes errors.Is(err, ErrNoJoinPath) match
func (e *TopologyError) Is(target error) bool {
	return target == ErrNoJoinPath
}

// IsTopologyError reports whether err is, or wraps, a *TopologyError
func IsTopologyError(err error) bool {
	var e *TopologyError
	return errors.As(err, &e)
}
