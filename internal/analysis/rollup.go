package analysis

import (
	"time"

	"github.com/elliotchance/orderedmap/v2"
)

// RollupSpec names the coarser key, the timestamp and the summed field.
type RollupSpec struct {
	GroupKeys []string
	Timestamp string
	Value     string
}

type rollupCell struct {
	key      GroupKey
	at       time.Time
	sum      float64
	observed bool
}

// Rollup sums Value over rows sharing the same (GroupKey, timestamp) and
// returns a new table with only the key, timestamp and value fields. It is
// how subregion series are brought up to their balancing authority before
// being aligned with the authority's own series. A cell whose inputs are all
// null stays null.
func Rollup(t *Table, spec RollupSpec) (*Table, error) {
	if t == nil {
		return nil, argumentError("table", "must not be nil")
	}
	keyCols, keyFields, err := t.keyColumns(spec.GroupKeys)
	if err != nil {
		return nil, err
	}
	if spec.Timestamp == "" {
		return nil, argumentError("timestamp", "must not be empty")
	}
	tsCol, err := t.timestampColumn(spec.Timestamp)
	if err != nil {
		return nil, err
	}
	valCol, err := t.numericColumn(spec.Value)
	if err != nil {
		return nil, err
	}

	fields := append(keyFields, Field{Name: spec.Timestamp, Type: TypeTimestamp}, Field{Name: spec.Value, Type: TypeNumeric})
	schema, err := NewSchema(fields...)
	if err != nil {
		return nil, err
	}

	cells := orderedmap.NewOrderedMap[string, *rollupCell]()
	for i := range t.rows {
		key := t.key(i, keyCols)
		at := t.timestamp(i, tsCol)
		id := key.id() + "\x1e" + Time(at).id()
		c, ok := cells.Get(id)
		if !ok {
			c = &rollupCell{key: key, at: at}
			cells.Set(id, c)
		}
		if v, ok := t.rows[i][valCol].Number(); ok {
			c.sum += v
			c.observed = true
		}
	}

	out := NewTable(t.name, schema)
	for el := cells.Front(); el != nil; el = el.Next() {
		c := el.Value
		row := make([]Value, 0, len(fields))
		row = append(row, c.key...)
		row = append(row, Time(c.at))
		if c.observed {
			row = append(row, Float(c.sum))
		} else {
			row = append(row, Null())
		}
		if err := out.Append(row...); err != nil {
			return nil, err
		}
	}
	return out, nil
}
