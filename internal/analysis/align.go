package analysis

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// JoinMode selects which (GroupKey, timestamp) pairs survive Align.
type JoinMode int

const (
	JoinInner JoinMode = iota
	JoinOuter
)

func (m JoinMode) String() string {
	switch m {
	case JoinInner:
		return "inner"
	case JoinOuter:
		return "outer"
	default:
		return "JoinMode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseJoinMode accepts "", "inner" and "outer".
func ParseJoinMode(s string) (JoinMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "inner":
		return JoinInner, nil
	case "outer":
		return JoinOuter, nil
	default:
		return JoinInner, argumentError("how", "%q is not one of inner, outer", s)
	}
}

// MeasurementState says whether a side has a row and a value.
type MeasurementState int

const (
	StateMissing MeasurementState = iota // no row on this side
	StateNull                            // row present, value null
	StatePresent
)

func (s MeasurementState) String() string {
	switch s {
	case StatePresent:
		return "present"
	case StateNull:
		return "null"
	default:
		return "missing"
	}
}

// Measurement is one side of an aligned pair.
type Measurement struct {
	Value float64
	State MeasurementState
}

// Observed reports whether the side carries a value.
func (m Measurement) Observed() bool { return m.State == StatePresent }

// HasRow reports whether the side had a row at this timestamp.
func (m Measurement) HasRow() bool { return m.State != StateMissing }

func measure(v Value) Measurement {
	f, ok := v.Number()
	if !ok {
		return Measurement{State: StateNull}
	}
	return Measurement{Value: f, State: StatePresent}
}

// Pair joins one (GroupKey, timestamp) across both tables.
type Pair struct {
	Key  GroupKey
	Time time.Time
	A    Measurement
	B    Measurement
}

// AlignSpec describes how two tables are joined.
type AlignSpec struct {
	GroupKeys []string
	Timestamp string
	ValueA    string
	ValueB    string // defaults to ValueA
	How       JoinMode
}

// Aligned is the result of Align, sorted by key then timestamp.
type Aligned struct {
	KeyFields []Field
	How       JoinMode
	Pairs     []Pair
}

// Len returns the number of pairs.
func (a *Aligned) Len() int { return len(a.Pairs) }

type alignSide struct {
	table   *Table
	keyCols []int
	fields  []Field
	tsCol   int
	valCol  int
}

func resolveSide(t *Table, spec AlignSpec, value string) (*alignSide, error) {
	if t == nil {
		return nil, argumentError("table", "must not be nil")
	}
	keyCols, fields, err := t.keyColumns(spec.GroupKeys)
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
	valCol, err := t.numericColumn(value)
	if err != nil {
		return nil, err
	}
	return &alignSide{table: t, keyCols: keyCols, fields: fields, tsCol: tsCol, valCol: valCol}, nil
}

type sideRow struct {
	key  GroupKey
	at   time.Time
	m    Measurement
	used bool
}

func (s *alignSide) index() (map[string]*sideRow, []string, error) {
	rows := make(map[string]*sideRow, s.table.Len())
	order := make([]string, 0, s.table.Len())
	for i := range s.table.rows {
		key := s.table.key(i, s.keyCols)
		at := s.table.timestamp(i, s.tsCol)
		id := key.id() + "\x1e" + strconv.FormatInt(at.UnixNano(), 10)
		if _, dup := rows[id]; dup {
			return nil, nil, schemaError(s.table.name, "", "duplicate row for key %s at %s", key, at.Format(time.RFC3339))
		}
		rows[id] = &sideRow{key: key, at: at, m: measure(s.table.rows[i][s.valCol])}
		order = append(order, id)
	}
	return rows, order, nil
}

// Align joins a and b on (GroupKey, timestamp). Inner keeps pairs present in
// both tables; outer keeps the union and marks the absent side StateMissing.
func Align(a, b *Table, spec AlignSpec) (*Aligned, error) {
	if spec.How != JoinInner && spec.How != JoinOuter {
		return nil, argumentError("how", "unknown join mode %d", int(spec.How))
	}
	valueB := spec.ValueB
	if valueB == "" {
		valueB = spec.ValueA
	}
	sa, err := resolveSide(a, spec, spec.ValueA)
	if err != nil {
		return nil, err
	}
	sb, err := resolveSide(b, spec, valueB)
	if err != nil {
		return nil, err
	}
	for i := range sa.fields {
		if sa.fields[i].Type != sb.fields[i].Type {
			return nil, schemaError("", sa.fields[i].Name, "type mismatch: %s in %s, %s in %s",
				sa.fields[i].Type, a.name, sb.fields[i].Type, b.name)
		}
	}

	rowsA, orderA, err := sa.index()
	if err != nil {
		return nil, err
	}
	rowsB, orderB, err := sb.index()
	if err != nil {
		return nil, err
	}

	out := &Aligned{KeyFields: sa.fields, How: spec.How}
	for _, id := range orderA {
		ra := rowsA[id]
		if rb, ok := rowsB[id]; ok {
			rb.used = true
			out.Pairs = append(out.Pairs, Pair{Key: ra.key, Time: ra.at, A: ra.m, B: rb.m})
		} else if spec.How == JoinOuter {
			out.Pairs = append(out.Pairs, Pair{Key: ra.key, Time: ra.at, A: ra.m, B: Measurement{State: StateMissing}})
		}
	}
	if spec.How == JoinOuter {
		for _, id := range orderB {
			rb := rowsB[id]
			if !rb.used {
				out.Pairs = append(out.Pairs, Pair{Key: rb.key, Time: rb.at, A: Measurement{State: StateMissing}, B: rb.m})
			}
		}
	}

	slices.SortStableFunc(out.Pairs, func(x, y Pair) int {
		if c := x.Key.Compare(y.Key); c != 0 {
			return c
		}
		return x.Time.Compare(y.Time)
	})
	return out, nil
}
