package commands

import (
	"errors"
	"fmt"

	"github.com/conduit-lang/sqlgraph/internal/cli/ui"
	"github.com/conduit-lang/sqlgraph/internal/orm/sqlgraph"
)

// UnknownTableError reports a table name that is not declared in the config
type UnknownTableError struct {
	Name        string
	Suggestions []string
}

func newUnknownTableError(name string, declared []string) *UnknownTableError {
	return &UnknownTableError{Name: name, Suggestions: ui.FindSimilar(name, declared)}
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("unknown table %q", e.Name)
}

// configError marks failures while loading or validating the config
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }

func (e *configError) Unwrap() error { return e.err }

// FormatError renders a command error for the terminal
func FormatError(err error, noColor bool) string {
	var unknown *UnknownTableError
	var topology *sqlgraph.TopologyError
	var cfgErr *configError

	switch {
	case errors.As(err, &unknown):
		return ui.TableNotFoundError(unknown.Name, unknown.Suggestions, noColor)
	case errors.As(err, &topology):
		return ui.NoJoinPathError(topology.Source, topology.Target, noColor)
	case errors.As(err, &cfgErr):
		return ui.ConfigError(cfgErr.Error(), noColor)
	default:
		return ui.FormatError(ui.ErrorOptions{
			Level:   ui.ErrorLevelError,
			Problem: err.Error(),
			NoColor: noColor,
		})
	}
}
