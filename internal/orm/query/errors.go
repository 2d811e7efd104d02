package query

import "errors"

var (
	// ErrInvalidRelation is returned when a relation has no table name
	ErrInvalidRelation = errors.New("invalid relation")

	// ErrInvalidColumn is returned when a column reference lacks a table or a name
	ErrInvalidColumn = errors.New("invalid column reference")

	// ErrNilPredicate is returned when a nil predicate is used in a clause
	ErrNilPredicate = errors.New("nil predicate")

	// ErrUnsupportedOperator is returned for operators the renderer does not know
	ErrUnsupportedOperator = errors.New("unsupported operator")

	// ErrUnknownRelation is returned by strict mappers for relations missing from the registry
	ErrUnknownRelation = errors.New("relation not registered")

	// ErrUnknownColumn is returned by strict mappers for columns missing from their table
	ErrUnknownColumn = errors.New("column not declared")
)
