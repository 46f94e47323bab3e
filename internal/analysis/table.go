// Package analysis compares two time series tables: grouped sums, joins on
// (group key, timestamp), fractional differences, ranking and imputation
// rates. Every function is a pure computation over its inputs.
package analysis

import (
	"fmt"
	"slices"
	"time"
)

// Table is a named, schema-checked collection of rows. Tables are built with
// Append by their supplier and are not modified by any operation.
type Table struct {
	name   string
	schema Schema
	rows   [][]Value
}

// NewTable creates an empty table.
func NewTable(name string, schema Schema) *Table {
	return &Table{name: name, schema: schema}
}

// Name returns the logical table name.
func (t *Table) Name() string { return t.name }

// Schema returns the table schema.
func (t *Table) Schema() Schema { return t.schema }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Append adds one row, checking arity and types against the schema.
func (t *Table) Append(values ...Value) error {
	if len(values) != t.schema.Len() {
		return schemaError(t.name, "", "row has %d values, schema has %d fields", len(values), t.schema.Len())
	}
	for i, v := range values {
		f := t.schema.fields[i]
		if !v.accepts(f.Type) {
			if v.IsNull() {
				return schemaError(t.name, f.Name, "null value in non-nullable %s field", f.Type)
			}
			return schemaError(t.name, f.Name, "value %q does not fit %s field", v.String(), f.Type)
		}
	}
	t.rows = append(t.rows, slices.Clone(values))
	return nil
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []Value {
	return slices.Clone(t.rows[i])
}

// Value returns the cell at row i for the named field.
func (t *Table) Value(i int, field string) (Value, error) {
	pos, ok := t.schema.position(field)
	if !ok {
		return Value{}, schemaError(t.name, field, "field not found")
	}
	return t.rows[i][pos], nil
}

// column resolves a field and checks its type with accept.
func (t *Table) column(name string, accept func(FieldType) bool, want string) (int, Field, error) {
	pos, ok := t.schema.position(name)
	if !ok {
		return 0, Field{}, schemaError(t.name, name, "field not found")
	}
	f := t.schema.fields[pos]
	if !accept(f.Type) {
		return 0, Field{}, schemaError(t.name, name, "expected %s field, got %s", want, f.Type)
	}
	return pos, f, nil
}

func (t *Table) keyColumns(names []string) ([]int, []Field, error) {
	if len(names) == 0 {
		return nil, nil, argumentError("group_keys", "must not be empty")
	}
	seen := make(map[string]bool, len(names))
	cols := make([]int, len(names))
	fields := make([]Field, len(names))
	for i, name := range names {
		if seen[name] {
			return nil, nil, argumentError("group_keys", "field %q listed twice", name)
		}
		seen[name] = true
		pos, f, err := t.column(name, FieldType.Categorical, "categorical")
		if err != nil {
			return nil, nil, err
		}
		cols[i] = pos
		fields[i] = f
	}
	return cols, fields, nil
}

func (t *Table) timestampColumn(name string) (int, error) {
	pos, _, err := t.column(name, func(ft FieldType) bool { return ft == TypeTimestamp }, "timestamp")
	return pos, err
}

func (t *Table) numericColumn(name string) (int, error) {
	pos, _, err := t.column(name, func(ft FieldType) bool { return ft == TypeNumeric || ft == TypeInteger }, "numeric")
	return pos, err
}

func (t *Table) key(row int, cols []int) GroupKey {
	k := make(GroupKey, len(cols))
	for i, c := range cols {
		k[i] = t.rows[row][c]
	}
	return k
}

func (t *Table) timestamp(row, col int) time.Time {
	return t.rows[row][col].t
}

func (t *Table) String() string {
	return fmt.Sprintf("%s(%d rows)", t.name, len(t.rows))
}
