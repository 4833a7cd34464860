package routing

import "errors"

var (
	// ErrEmptyPattern is returned when compiling an empty pattern
	ErrEmptyPattern = errors.New("pattern is empty")

	// ErrUnbalancedBrace is returned when a {name} placeholder is not closed or not opened
	ErrUnbalancedBrace = errors.New("unbalanced brace in pattern")

	// ErrEmptyVariable is returned for a {} placeholder with no name
	ErrEmptyVariable = errors.New("empty variable name in pattern")

	// ErrDuplicateService is returned when two route definitions share a name
	ErrDuplicateService = errors.New("duplicate service name")

	// ErrInvalidDefinition is returned when a route definition is missing required fields
	ErrInvalidDefinition = errors.New("invalid route definition")
)
