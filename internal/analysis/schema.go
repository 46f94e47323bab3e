package analysis

import (
	"strings"
)

// FieldType is the semantic type of a table field.
type FieldType int

const (
	TypeText FieldType = iota + 1
	TypeInteger
	TypeTimestamp
	TypeNumeric
	TypeFlag
)

var fieldTypeNames = map[FieldType]string{
	TypeText:      "text",
	TypeInteger:   "integer",
	TypeTimestamp: "timestamp",
	TypeNumeric:   "numeric",
	TypeFlag:      "flag",
}

func (t FieldType) String() string {
	if name, ok := fieldTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Categorical reports whether the type can be part of a GroupKey.
func (t FieldType) Categorical() bool {
	return t == TypeText || t == TypeInteger
}

// Nullable reports whether cells of this type may hold Null.
func (t FieldType) Nullable() bool {
	return t == TypeNumeric || t == TypeFlag
}

// ParseFieldType converts a configuration string into a FieldType.
func ParseFieldType(s string) (FieldType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for t, n := range fieldTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, argumentError("field_type", "%q is not one of text, integer, timestamp, numeric, flag", s)
}

// Field names a column and declares its type.
type Field struct {
	Name string
	Type FieldType
}

// Schema is an ordered, duplicate-free list of fields.
type Schema struct {
	fields []Field
	index  map[string]int
}

// NewSchema validates and builds a Schema.
func NewSchema(fields ...Field) (Schema, error) {
	s := Schema{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if f.Name == "" {
			return Schema{}, schemaError("", "", "field name must not be empty")
		}
		if _, ok := fieldTypeNames[f.Type]; !ok {
			return Schema{}, schemaError("", f.Name, "unknown field type %d", int(f.Type))
		}
		if _, dup := s.index[f.Name]; dup {
			return Schema{}, schemaError("", f.Name, "duplicate field")
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error.
func MustSchema(fields ...Field) Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of fields.
func (s Schema) Len() int {
	return len(s.fields)
}

// Fields returns a copy of the fields in declaration order.
func (s Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Names returns the field names in declaration order.
func (s Schema) Names() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

// Lookup returns the field with the given name.
func (s Schema) Lookup(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

func (s Schema) position(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}
