package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/dbsmedya/demanddiff/internal/analysis"
)

// scanTable reads rows into a table shaped by req.Schema. Column order must
// match the schema.
func scanTable(rows *sql.Rows, req Request) (*analysis.Table, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	fields := req.Schema.Fields()
	if len(columns) != len(fields) {
		return nil, &analysis.SchemaError{
			Table:  req.Table,
			Reason: fmt.Sprintf("query returned %d columns, expected %d", len(columns), len(fields)),
		}
	}

	table := analysis.NewTable(req.Table, req.Schema)
	raw := make([]interface{}, len(fields))
	ptrs := make([]interface{}, len(fields))
	for i := range raw {
		ptrs[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", req.Table, err)
		}
		values := make([]analysis.Value, len(fields))
		for i, f := range fields {
			v, err := convert(raw[i], f.Type)
			if err != nil {
				return nil, &analysis.SchemaError{Table: req.Table, Field: f.Name, Reason: err.Error()}
			}
			values[i] = v
		}
		if err := table.Append(values...); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

// convert coerces a driver value into a cell of type typ. Drivers hand back
// []byte for most text-protocol columns, so those are treated as strings.
func convert(raw interface{}, typ analysis.FieldType) (analysis.Value, error) {
	if b, ok := raw.([]byte); ok {
		raw = string(b)
	}
	if raw == nil {
		return analysis.Null(), nil
	}
	s, isString := raw.(string)
	if isString {
		s = strings.TrimSpace(s)
	}

	switch typ {
	case analysis.TypeText:
		if isString {
			return analysis.Text(s), nil
		}
		v, err := cast.ToStringE(raw)
		return analysis.Text(v), err

	case analysis.TypeInteger:
		if isString {
			i, err := strconv.ParseInt(s, 10, 64)
			return analysis.Int(i), err
		}
		i, err := cast.ToInt64E(raw)
		return analysis.Int(i), err

	case analysis.TypeTimestamp:
		if isString && s == "" {
			return analysis.Null(), nil
		}
		t, err := cast.ToTimeE(raw)
		return analysis.Time(t), err

	case analysis.TypeNumeric:
		if isString && s == "" {
			return analysis.Null(), nil
		}
		f, err := cast.ToFloat64E(raw)
		return analysis.Float(f), err

	case analysis.TypeFlag:
		// false, zero, "", "0" and "false" mean the flag is unset, whatever
		// the driver hands back.
		switch v := raw.(type) {
		case bool:
			if !v {
				return analysis.Null(), nil
			}
			return analysis.Int(1), nil
		case string:
			if s == "" || s == "0" || strings.EqualFold(s, "false") {
				return analysis.Null(), nil
			}
			return analysis.Text(s), nil
		default:
			i, err := cast.ToInt64E(v)
			if err != nil {
				return analysis.Value{}, err
			}
			if i == 0 {
				return analysis.Null(), nil
			}
			return analysis.Int(i), nil
		}
	}
	return analysis.Value{}, fmt.Errorf("unsupported field type %s", typ)
}
