package analysis

import (
	"errors"
	"fmt"
)

// Sentinel targets for errors.Is.
var (
	ErrSchema          = errors.New("schema error")
	ErrInvalidArgument = errors.New("invalid argument")
)

// SchemaError reports a missing field, a field of the wrong type, or two
// tables whose fields disagree.
type SchemaError struct {
	Table  string
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Table != "" && e.Field != "":
		return fmt.Sprintf("schema error: %s.%s: %s", e.Table, e.Field, e.Reason)
	case e.Field != "":
		return fmt.Sprintf("schema error: %s: %s", e.Field, e.Reason)
	default:
		return fmt.Sprintf("schema error: %s", e.Reason)
	}
}

// Is makes errors.Is(err, ErrSchema) match.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// ArgumentError reports a caller-supplied parameter outside its valid range.
type ArgumentError struct {
	Argument string
	Reason   string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Argument, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidArgument) match.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func schemaError(table, field, format string, args ...interface{}) error {
	return &SchemaError{Table: table, Field: field, Reason: fmt.Sprintf(format, args...)}
}

func argumentError(arg, format string, args ...interface{}) error {
	return &ArgumentError{Argument: arg, Reason: fmt.Sprintf(format, args...)}
}
